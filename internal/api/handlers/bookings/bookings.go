package bookings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"coopfarm/internal/api/handlers"
	"coopfarm/internal/models"
	"coopfarm/internal/repositories/sqlconnect"
	"coopfarm/internal/services"
	"coopfarm/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const bookingColumns = `b.id, b.booking_code, b.member_id, b.equipment_id, b.start_date,
	b.end_date, b.purpose, b.status, b.rental_cost, b.deposit_amount_required,
	b.deposit_paid, b.damage_reported, b.damage_description, b.operator_name,
	b.operator_phone, b.notes, b.approved_by, m.name, e.name, b.created_at, b.updated_at`

const bookingJoins = " FROM equipment_bookings b JOIN members m ON m.id = b.member_id JOIN equipment e ON e.id = b.equipment_id"

func scanBooking(scanner interface{ Scan(...interface{}) error }) (models.EquipmentBooking, error) {
	var b models.EquipmentBooking
	err := scanner.Scan(&b.ID, &b.BookingCode, &b.MemberID, &b.EquipmentID, &b.StartDate,
		&b.EndDate, &b.Purpose, &b.Status, &b.RentalCost, &b.DepositAmountRequired,
		&b.DepositPaid, &b.DamageReported, &b.DamageDescription, &b.OperatorName,
		&b.OperatorPhone, &b.Notes, &b.ApprovedBy, &b.MemberName, &b.EquipmentName,
		&b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func fetchBooking(ctx context.Context, db *sql.DB, id string) (models.EquipmentBooking, error) {
	return scanBooking(db.QueryRowContext(ctx, "SELECT "+bookingColumns+bookingJoins+" WHERE b.id = ?", id))
}

// FUNC TO LIST AND CREATE EQUIPMENT BOOKINGS
func BookingsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getBookings(w, r)
	case http.MethodPost:
		createBooking(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func getBookings(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	query := "SELECT " + bookingColumns + bookingJoins + " WHERE 1=1"
	var args []interface{}

	if status := r.URL.Query().Get("status"); status != "" {
		query += " AND b.status = ?"
		args = append(args, status)
	}
	if equipmentID := r.URL.Query().Get("equipment_id"); equipmentID != "" {
		query += " AND b.equipment_id = ?"
		args = append(args, equipmentID)
	}
	query += " ORDER BY b.start_date DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("failed to fetch bookings: %v", err)
		utils.WriteError(w, "failed to fetch bookings", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	bookingList := []models.EquipmentBooking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			utils.WriteError(w, "failed to read booking row", http.StatusInternalServerError)
			return
		}
		bookingList = append(bookingList, booking)
	}

	utils.WriteList(w, len(bookingList), bookingList)
}

func createBooking(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type request struct {
		BookingCode   string `json:"booking_code"`
		MemberID      string `json:"member_id"`
		EquipmentID   string `json:"equipment_id"`
		StartDate     string `json:"start_date"`
		EndDate       string `json:"end_date"`
		Purpose       string `json:"purpose"`
		OperatorName  string `json:"operator_name"`
		OperatorPhone string `json:"operator_phone"`
		Notes         string `json:"notes"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	required := struct {
		MemberID    string `json:"member_id"`
		EquipmentID string `json:"equipment_id"`
		Purpose     string `json:"purpose"`
		StartDate   string `json:"start_date"`
		EndDate     string `json:"end_date"`
	}{req.MemberID, req.EquipmentID, req.Purpose, req.StartDate, req.EndDate}
	if err := handlers.CheckBlankFields(required); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	startDate, err := handlers.ParseDate(req.StartDate)
	if err != nil {
		utils.WriteError(w, "invalid start date", http.StatusBadRequest)
		return
	}
	endDate, err := handlers.ParseDate(req.EndDate)
	if err != nil {
		utils.WriteError(w, "invalid end date", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var rentalRate decimal.Decimal
	var rentalUnit, equipmentStatus string
	err = db.QueryRowContext(ctx, "SELECT rental_rate, rental_unit, status FROM equipment WHERE id = ?", req.EquipmentID).
		Scan(&rentalRate, &rentalUnit, &equipmentStatus)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "equipment not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to verify equipment", http.StatusInternalServerError)
		return
	}
	if equipmentStatus == "maintenance" || equipmentStatus == "retired" {
		utils.WriteError(w, "equipment is not available for booking", http.StatusBadRequest)
		return
	}

	var memberExists bool
	err = db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM members WHERE id = ?)", req.MemberID).Scan(&memberExists)
	if err != nil || !memberExists {
		utils.WriteError(w, "member not found", http.StatusNotFound)
		return
	}

	rentalCost, err := services.RentalCost(rentalRate, rentalUnit, startDate, endDate)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRentalPeriod) {
			utils.WriteError(w, "end date must be after start date", http.StatusBadRequest)
			return
		}
		utils.Logger.Errorf("failed to compute rental cost: %v", err)
		utils.WriteError(w, "failed to compute rental cost", http.StatusInternalServerError)
		return
	}
	deposit := services.DepositRequired(rentalCost)

	if req.BookingCode == "" {
		req.BookingCode = services.GenerateCode("BKG")
	}

	bookingID := uuid.NewString()
	_, err = db.ExecContext(ctx, `
		INSERT INTO equipment_bookings (id, booking_code, member_id, equipment_id, start_date,
			end_date, purpose, rental_cost, deposit_amount_required, operator_name,
			operator_phone, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''))
	`, bookingID, req.BookingCode, req.MemberID, req.EquipmentID,
		startDate.Format(handlers.DateTimeLayout), endDate.Format(handlers.DateTimeLayout),
		req.Purpose, rentalCost, deposit, req.OperatorName, req.OperatorPhone, req.Notes)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "booking code already exists", http.StatusBadRequest)
			return
		}
		utils.Logger.Errorf("failed to insert booking: %v", err)
		utils.WriteError(w, "failed to book equipment", http.StatusInternalServerError)
		return
	}

	booking, err := fetchBooking(ctx, db, bookingID)
	if err != nil {
		utils.WriteError(w, "failed to load booking", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Equipment booked successfully",
		Data:    booking,
	})
}

// FUNC TO GET, UPDATE OR DELETE ONE BOOKING
func BookingHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getBooking(w, r)
	case http.MethodPut:
		updateBooking(w, r)
	case http.MethodDelete:
		deleteBooking(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func getBooking(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	booking, err := fetchBooking(ctx, db, r.PathValue("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "booking not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to fetch booking: %v", err)
		utils.WriteError(w, "failed to fetch booking", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Data: booking})
}

func updateBooking(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	id := r.PathValue("id")

	var req map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	allowed := map[string]string{
		"status":             "status",
		"deposit_paid":       "deposit_paid",
		"damage_reported":    "damage_reported",
		"damage_description": "damage_description",
		"notes":              "notes",
	}

	var setClauses []string
	var args []interface{}
	for key, value := range req {
		column, ok := allowed[key]
		if !ok {
			continue
		}
		if column == "status" {
			s, _ := value.(string)
			if !handlers.OneOf(s, "pending", "confirmed", "in-use", "completed", "cancelled") {
				utils.WriteError(w, "invalid status", http.StatusBadRequest)
				return
			}
		}
		setClauses = append(setClauses, column+" = ?")
		args = append(args, value)
	}

	if len(setClauses) == 0 {
		utils.WriteError(w, "no updatable fields in body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	args = append(args, id)
	_, err := db.ExecContext(ctx, "UPDATE equipment_bookings SET "+strings.Join(setClauses, ", ")+" WHERE id = ?", args...)
	if err != nil {
		utils.Logger.Errorf("failed to update booking: %v", err)
		utils.WriteError(w, "failed to update booking", http.StatusInternalServerError)
		return
	}

	booking, err := fetchBooking(ctx, db, id)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "booking not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to load updated booking", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Booking updated successfully",
		Data:    booking,
	})
}

func deleteBooking(w http.ResponseWriter, r *http.Request) {
	if !handlers.RequireRole(w, r, "admin") {
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx, "DELETE FROM equipment_bookings WHERE id = ?", r.PathValue("id"))
	if err != nil {
		utils.Logger.Errorf("failed to delete booking: %v", err)
		utils.WriteError(w, "failed to delete booking", http.StatusInternalServerError)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		utils.WriteError(w, "booking not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Booking deleted successfully",
	})
}

// FUNC TO CONFIRM A PENDING BOOKING
func ConfirmBookingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !handlers.RequireRole(w, r, "admin", "treasurer") {
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	id := r.PathValue("id")

	approverID, ok := utils.MemberIDFromRequest(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var status string
	err := db.QueryRowContext(ctx, "SELECT status FROM equipment_bookings WHERE id = ?", id).Scan(&status)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "booking not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to fetch booking", http.StatusInternalServerError)
		return
	}
	if status == "cancelled" || status == "completed" {
		utils.WriteError(w, "booking can no longer be confirmed", http.StatusBadRequest)
		return
	}

	_, err = db.ExecContext(ctx,
		"UPDATE equipment_bookings SET status = 'confirmed', approved_by = ? WHERE id = ?", approverID, id)
	if err != nil {
		utils.Logger.Errorf("failed to confirm booking: %v", err)
		utils.WriteError(w, "failed to confirm booking", http.StatusInternalServerError)
		return
	}

	booking, err := fetchBooking(ctx, db, id)
	if err != nil {
		utils.WriteError(w, "failed to load confirmed booking", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Booking confirmed successfully",
		Data:    booking,
	})
}

// FUNC TO LIST THE BOOKINGS OF ONE MEMBER
func MemberBookingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx,
		"SELECT "+bookingColumns+bookingJoins+" WHERE b.member_id = ? ORDER BY b.start_date DESC",
		r.PathValue("memberId"))
	if err != nil {
		utils.Logger.Errorf("failed to fetch member bookings: %v", err)
		utils.WriteError(w, "failed to fetch bookings", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	bookingList := []models.EquipmentBooking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			utils.WriteError(w, "failed to read booking row", http.StatusInternalServerError)
			return
		}
		bookingList = append(bookingList, booking)
	}

	utils.WriteList(w, len(bookingList), bookingList)
}

// FUNC TO GET BOOKING STATISTICS
func BookingStatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var total int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM equipment_bookings").Scan(&total)
	if err != nil {
		utils.Logger.Errorf("failed to compute booking stats: %v", err)
		utils.WriteError(w, "failed to compute booking stats", http.StatusInternalServerError)
		return
	}

	byStatus := map[string]int{}
	rows, err := db.QueryContext(ctx, "SELECT status, COUNT(*) FROM equipment_bookings GROUP BY status")
	if err != nil {
		utils.WriteError(w, "failed to compute booking stats", http.StatusInternalServerError)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err == nil {
			byStatus[status] = count
		}
	}

	var totalRevenue decimal.NullDecimal
	err = db.QueryRowContext(ctx,
		"SELECT SUM(rental_cost) FROM equipment_bookings WHERE status = 'completed'").Scan(&totalRevenue)
	if err != nil {
		utils.WriteError(w, "failed to compute booking stats", http.StatusInternalServerError)
		return
	}

	revenue := decimal.Zero
	if totalRevenue.Valid {
		revenue = totalRevenue.Decimal
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"total_bookings":       total,
			"by_status":            byStatus,
			"total_rental_revenue": revenue,
		},
	})
}
