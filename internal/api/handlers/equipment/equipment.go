package equipment

import (
	"context"
	"database/sql"
	"encoding/json"
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

const equipmentColumns = `id, equipment_code, name, type, description, purchase_date,
	purchase_price, current_value, status, rental_rate, rental_unit, location,
	ownership_type, created_at, updated_at`

func scanEquipment(scanner interface{ Scan(...interface{}) error }) (models.Equipment, error) {
	var e models.Equipment
	err := scanner.Scan(&e.ID, &e.EquipmentCode, &e.Name, &e.Type, &e.Description,
		&e.PurchaseDate, &e.PurchasePrice, &e.CurrentValue, &e.Status, &e.RentalRate,
		&e.RentalUnit, &e.Location, &e.OwnershipType, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func fetchEquipment(ctx context.Context, db *sql.DB, id string) (models.Equipment, error) {
	return scanEquipment(db.QueryRowContext(ctx, "SELECT "+equipmentColumns+" FROM equipment WHERE id = ?", id))
}

func listEquipment(w http.ResponseWriter, r *http.Request, where string, args ...interface{}) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, "SELECT "+equipmentColumns+" FROM equipment"+where+" ORDER BY name ASC", args...)
	if err != nil {
		utils.Logger.Errorf("failed to fetch equipment: %v", err)
		utils.WriteError(w, "failed to fetch equipment", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	equipmentList := []models.Equipment{}
	for rows.Next() {
		item, err := scanEquipment(rows)
		if err != nil {
			utils.WriteError(w, "failed to read equipment row", http.StatusInternalServerError)
			return
		}
		equipmentList = append(equipmentList, item)
	}

	utils.WriteList(w, len(equipmentList), equipmentList)
}

// FUNC TO LIST AND REGISTER EQUIPMENT
func EquipmentListHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		where := ""
		var args []interface{}
		if status := r.URL.Query().Get("status"); status != "" {
			where = " WHERE status = ?"
			args = append(args, status)
		}
		if equipType := r.URL.Query().Get("type"); equipType != "" {
			if where == "" {
				where = " WHERE type = ?"
			} else {
				where += " AND type = ?"
			}
			args = append(args, equipType)
		}
		listEquipment(w, r, where, args...)
	case http.MethodPost:
		createEquipment(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// FUNC TO LIST EQUIPMENT AVAILABLE FOR BOOKING
func AvailableEquipmentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	listEquipment(w, r, " WHERE status = 'available'")
}

func createEquipment(w http.ResponseWriter, r *http.Request) {
	if !handlers.RequireRole(w, r, "admin", "treasurer") {
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type request struct {
		EquipmentCode string              `json:"equipment_code"`
		Name          string              `json:"name"`
		Type          string              `json:"type"`
		Description   string              `json:"description"`
		PurchaseDate  string              `json:"purchase_date"`
		PurchasePrice decimal.NullDecimal `json:"purchase_price"`
		CurrentValue  decimal.NullDecimal `json:"current_value"`
		Status        string              `json:"status"`
		RentalRate    decimal.Decimal     `json:"rental_rate"`
		RentalUnit    string              `json:"rental_unit"`
		Location      string              `json:"location"`
		OwnershipType string              `json:"ownership_type"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.Name == "" {
		utils.WriteError(w, "name is required", http.StatusBadRequest)
		return
	}
	if !handlers.OneOf(req.Type, "heavy", "light", "transport", "irrigation", "storage") {
		utils.WriteError(w, "invalid equipment type", http.StatusBadRequest)
		return
	}
	if req.RentalRate.IsNegative() {
		utils.WriteError(w, "rental rate cannot be negative", http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		req.Status = "available"
	}
	if !handlers.OneOf(req.Status, "available", "in-use", "maintenance", "retired") {
		utils.WriteError(w, "invalid status", http.StatusBadRequest)
		return
	}
	if req.RentalUnit == "" {
		req.RentalUnit = services.RentalUnitDay
	}
	if !handlers.OneOf(req.RentalUnit, services.RentalUnitHour, services.RentalUnitDay, services.RentalUnitWeek) {
		utils.WriteError(w, "invalid rental unit", http.StatusBadRequest)
		return
	}
	if req.OwnershipType == "" {
		req.OwnershipType = "cooperative"
	}
	if !handlers.OneOf(req.OwnershipType, "cooperative", "member-owned", "leased") {
		utils.WriteError(w, "invalid ownership type", http.StatusBadRequest)
		return
	}

	var purchaseDate interface{}
	if req.PurchaseDate != "" {
		t, err := handlers.ParseDate(req.PurchaseDate)
		if err != nil {
			utils.WriteError(w, "invalid purchase date", http.StatusBadRequest)
			return
		}
		purchaseDate = t.Format(handlers.DateTimeLayout)
	}

	if req.EquipmentCode == "" {
		req.EquipmentCode = services.GenerateCode("EQP")
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	equipmentID := uuid.NewString()
	_, err := db.ExecContext(ctx, `
		INSERT INTO equipment (id, equipment_code, name, type, description, purchase_date,
			purchase_price, current_value, status, rental_rate, rental_unit, location, ownership_type)
		VALUES (?, ?, ?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?)
	`, equipmentID, req.EquipmentCode, req.Name, req.Type, req.Description, purchaseDate,
		req.PurchasePrice, req.CurrentValue, req.Status, req.RentalRate, req.RentalUnit,
		req.Location, req.OwnershipType)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "equipment code already exists", http.StatusBadRequest)
			return
		}
		utils.Logger.Errorf("failed to insert equipment: %v", err)
		utils.WriteError(w, "failed to register equipment", http.StatusInternalServerError)
		return
	}

	item, err := fetchEquipment(ctx, db, equipmentID)
	if err != nil {
		utils.WriteError(w, "failed to load registered equipment", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Equipment registered successfully",
		Data:    item,
	})
}

// FUNC TO GET, UPDATE OR DELETE ONE PIECE OF EQUIPMENT
func EquipmentHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getEquipment(w, r)
	case http.MethodPut:
		updateEquipment(w, r)
	case http.MethodDelete:
		deleteEquipment(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func getEquipment(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := fetchEquipment(ctx, db, r.PathValue("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "equipment not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to fetch equipment: %v", err)
		utils.WriteError(w, "failed to fetch equipment", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Data: item})
}

func updateEquipment(w http.ResponseWriter, r *http.Request) {
	if !handlers.RequireRole(w, r, "admin", "treasurer") {
		return
	}

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
		"name":           "name",
		"description":    "description",
		"status":         "status",
		"rental_rate":    "rental_rate",
		"rental_unit":    "rental_unit",
		"current_value":  "current_value",
		"location":       "location",
		"ownership_type": "ownership_type",
	}

	var setClauses []string
	var args []interface{}
	for key, value := range req {
		column, ok := allowed[key]
		if !ok {
			continue
		}
		switch column {
		case "status":
			s, _ := value.(string)
			if !handlers.OneOf(s, "available", "in-use", "maintenance", "retired") {
				utils.WriteError(w, "invalid status", http.StatusBadRequest)
				return
			}
		case "rental_unit":
			s, _ := value.(string)
			if !handlers.OneOf(s, services.RentalUnitHour, services.RentalUnitDay, services.RentalUnitWeek) {
				utils.WriteError(w, "invalid rental unit", http.StatusBadRequest)
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
	_, err := db.ExecContext(ctx, "UPDATE equipment SET "+strings.Join(setClauses, ", ")+" WHERE id = ?", args...)
	if err != nil {
		utils.Logger.Errorf("failed to update equipment: %v", err)
		utils.WriteError(w, "failed to update equipment", http.StatusInternalServerError)
		return
	}

	item, err := fetchEquipment(ctx, db, id)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "equipment not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to load updated equipment", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Equipment updated successfully",
		Data:    item,
	})
}

func deleteEquipment(w http.ResponseWriter, r *http.Request) {
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

	res, err := db.ExecContext(ctx, "DELETE FROM equipment WHERE id = ?", r.PathValue("id"))
	if err != nil {
		utils.Logger.Errorf("failed to delete equipment: %v", err)
		utils.WriteError(w, "failed to delete equipment", http.StatusInternalServerError)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		utils.WriteError(w, "equipment not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Equipment deleted successfully",
	})
}

// FUNC TO GET EQUIPMENT STATISTICS
func EquipmentStatsHandler(w http.ResponseWriter, r *http.Request) {
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
	var totalValue decimal.NullDecimal
	err := db.QueryRowContext(ctx, "SELECT COUNT(*), SUM(current_value) FROM equipment").Scan(&total, &totalValue)
	if err != nil {
		utils.Logger.Errorf("failed to compute equipment stats: %v", err)
		utils.WriteError(w, "failed to compute equipment stats", http.StatusInternalServerError)
		return
	}

	byStatus := map[string]int{}
	rows, err := db.QueryContext(ctx, "SELECT status, COUNT(*) FROM equipment GROUP BY status")
	if err != nil {
		utils.WriteError(w, "failed to compute equipment stats", http.StatusInternalServerError)
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

	byType := map[string]int{}
	rows2, err := db.QueryContext(ctx, "SELECT type, COUNT(*) FROM equipment GROUP BY type")
	if err != nil {
		utils.WriteError(w, "failed to compute equipment stats", http.StatusInternalServerError)
		return
	}
	defer rows2.Close()
	for rows2.Next() {
		var equipType string
		var count int
		if err := rows2.Scan(&equipType, &count); err == nil {
			byType[equipType] = count
		}
	}

	value := decimal.Zero
	if totalValue.Valid {
		value = totalValue.Decimal
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"total":       total,
			"total_value": value,
			"by_status":   byStatus,
			"by_type":     byType,
		},
	})
}
