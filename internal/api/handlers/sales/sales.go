package sales

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

const saleColumns = `id, sale_code, crop, total_weight, unit, buyer_name, buyer_contact,
	unit_price, total_revenue, currency, sale_date, payment_status, payment_method,
	quality_grade, status, recorded_by, notes, created_at, updated_at`

func scanSale(scanner interface{ Scan(...interface{}) error }) (models.Sale, error) {
	var s models.Sale
	err := scanner.Scan(&s.ID, &s.SaleCode, &s.Crop, &s.TotalWeight, &s.Unit, &s.BuyerName,
		&s.BuyerContact, &s.UnitPrice, &s.TotalRevenue, &s.Currency, &s.SaleDate,
		&s.PaymentStatus, &s.PaymentMethod, &s.QualityGrade, &s.Status, &s.RecordedBy,
		&s.Notes, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func fetchSale(ctx context.Context, db *sql.DB, id string) (models.Sale, error) {
	sale, err := scanSale(db.QueryRowContext(ctx, "SELECT "+saleColumns+" FROM sales WHERE id = ?", id))
	if err != nil {
		return sale, err
	}

	rows, err := db.QueryContext(ctx, "SELECT harvest_id FROM sale_harvests WHERE sale_id = ?", id)
	if err != nil {
		return sale, err
	}
	defer rows.Close()
	for rows.Next() {
		var harvestID string
		if err := rows.Scan(&harvestID); err == nil {
			sale.HarvestIDs = append(sale.HarvestIDs, harvestID)
		}
	}
	return sale, nil
}

// FUNC TO LIST AND RECORD SALES
func SalesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getSales(w, r)
	case http.MethodPost:
		createSale(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func getSales(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	query := "SELECT " + saleColumns + " FROM sales WHERE 1=1"
	var args []interface{}

	if crop := r.URL.Query().Get("crop"); crop != "" {
		query += " AND crop = ?"
		args = append(args, crop)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	if paymentStatus := r.URL.Query().Get("payment_status"); paymentStatus != "" {
		query += " AND payment_status = ?"
		args = append(args, paymentStatus)
	}
	query += " ORDER BY sale_date DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("failed to fetch sales: %v", err)
		utils.WriteError(w, "failed to fetch sales", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	saleList := []models.Sale{}
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			utils.WriteError(w, "failed to read sale row", http.StatusInternalServerError)
			return
		}
		saleList = append(saleList, sale)
	}

	utils.WriteList(w, len(saleList), saleList)
}

func createSale(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type request struct {
		SaleCode      string          `json:"sale_code"`
		HarvestIDs    []string        `json:"harvest_ids"`
		Crop          string          `json:"crop"`
		TotalWeight   decimal.Decimal `json:"total_weight"`
		Unit          string          `json:"unit"`
		BuyerName     string          `json:"buyer_name"`
		BuyerContact  string          `json:"buyer_contact"`
		UnitPrice     decimal.Decimal `json:"unit_price"`
		Currency      string          `json:"currency"`
		SaleDate      string          `json:"sale_date"`
		PaymentMethod string          `json:"payment_method"`
		QualityGrade  string          `json:"quality_grade"`
		Notes         string          `json:"notes"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.BuyerName == "" || req.SaleDate == "" {
		utils.WriteError(w, "buyer_name and sale_date are required", http.StatusBadRequest)
		return
	}
	if !handlers.OneOf(req.Crop, "cotton", "millet", "sorghum", "maize", "sesame", "peanut") {
		utils.WriteError(w, "invalid crop", http.StatusBadRequest)
		return
	}
	if req.TotalWeight.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "total weight must be greater than 0", http.StatusBadRequest)
		return
	}
	if req.UnitPrice.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "unit price must be greater than 0", http.StatusBadRequest)
		return
	}
	if req.Unit == "" {
		req.Unit = "kg"
	}
	if !handlers.OneOf(req.Unit, "kg", "ton", "bag") {
		utils.WriteError(w, "invalid unit", http.StatusBadRequest)
		return
	}
	if req.Currency == "" {
		req.Currency = "XOF"
	}
	if !handlers.OneOf(req.Currency, "XOF", "USD", "EUR") {
		utils.WriteError(w, "invalid currency", http.StatusBadRequest)
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "cash"
	}
	if !handlers.OneOf(req.PaymentMethod, "cash", "check", "transfer", "mobile-money") {
		utils.WriteError(w, "invalid payment method", http.StatusBadRequest)
		return
	}
	if req.QualityGrade == "" {
		req.QualityGrade = "B"
	}
	if !handlers.OneOf(req.QualityGrade, "A", "B", "C") {
		utils.WriteError(w, "invalid quality grade", http.StatusBadRequest)
		return
	}

	saleDate, err := handlers.ParseDate(req.SaleDate)
	if err != nil {
		utils.WriteError(w, "invalid sale date", http.StatusBadRequest)
		return
	}

	// Revenue is derived once at creation and never recomputed.
	totalRevenue := req.TotalWeight.Mul(req.UnitPrice).Round(2)

	recordedBy, _ := utils.MemberIDFromRequest(r)

	if req.SaleCode == "" {
		req.SaleCode = services.GenerateCode("SAL")
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "failed to start transaction", http.StatusInternalServerError)
		return
	}

	saleID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO sales (id, sale_code, crop, total_weight, unit, buyer_name, buyer_contact,
			unit_price, total_revenue, currency, sale_date, payment_method, quality_grade,
			recorded_by, notes)
		VALUES (?, ?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''))
	`, saleID, req.SaleCode, req.Crop, req.TotalWeight, req.Unit, req.BuyerName,
		req.BuyerContact, req.UnitPrice, totalRevenue, req.Currency,
		saleDate.Format(handlers.DateTimeLayout), req.PaymentMethod, req.QualityGrade,
		recordedBy, req.Notes)
	if err != nil {
		tx.Rollback()
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "sale code already exists", http.StatusBadRequest)
			return
		}
		utils.Logger.Errorf("failed to insert sale: %v", err)
		utils.WriteError(w, "failed to record sale", http.StatusInternalServerError)
		return
	}

	for _, harvestID := range req.HarvestIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO sale_harvests (sale_id, harvest_id) VALUES (?, ?)", saleID, harvestID); err != nil {
			tx.Rollback()
			utils.WriteError(w, "one or more harvests could not be linked to the sale", http.StatusBadRequest)
			return
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE harvests SET status = 'sold' WHERE id = ?", harvestID); err != nil {
			tx.Rollback()
			utils.WriteError(w, "failed to mark harvest as sold", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		utils.WriteError(w, "failed to commit transaction", http.StatusInternalServerError)
		return
	}

	sale, err := fetchSale(ctx, db, saleID)
	if err != nil {
		utils.WriteError(w, "failed to load recorded sale", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Sale recorded successfully",
		Data:    sale,
	})
}

// FUNC TO GET, UPDATE OR DELETE ONE SALE
func SaleHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getSale(w, r)
	case http.MethodPut:
		updateSale(w, r)
	case http.MethodDelete:
		deleteSale(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func getSale(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sale, err := fetchSale(ctx, db, r.PathValue("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "sale not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to fetch sale: %v", err)
		utils.WriteError(w, "failed to fetch sale", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Data: sale})
}

func updateSale(w http.ResponseWriter, r *http.Request) {
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
		"status":         "status",
		"payment_status": "payment_status",
		"payment_method": "payment_method",
		"buyer_contact":  "buyer_contact",
		"notes":          "notes",
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
			if !handlers.OneOf(s, "negotiation", "confirmed", "completed", "cancelled") {
				utils.WriteError(w, "invalid status", http.StatusBadRequest)
				return
			}
		case "payment_status":
			s, _ := value.(string)
			if !handlers.OneOf(s, "pending", "partial", "completed") {
				utils.WriteError(w, "invalid payment status", http.StatusBadRequest)
				return
			}
		case "payment_method":
			s, _ := value.(string)
			if !handlers.OneOf(s, "cash", "check", "transfer", "mobile-money") {
				utils.WriteError(w, "invalid payment method", http.StatusBadRequest)
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
	_, err := db.ExecContext(ctx, "UPDATE sales SET "+strings.Join(setClauses, ", ")+" WHERE id = ?", args...)
	if err != nil {
		utils.Logger.Errorf("failed to update sale: %v", err)
		utils.WriteError(w, "failed to update sale", http.StatusInternalServerError)
		return
	}

	sale, err := fetchSale(ctx, db, id)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "sale not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to load updated sale", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Sale updated successfully",
		Data:    sale,
	})
}

func deleteSale(w http.ResponseWriter, r *http.Request) {
	if !handlers.RequireRole(w, r, "admin") {
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	id := r.PathValue("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx, "DELETE FROM sales WHERE id = ?", id)
	if err != nil {
		utils.Logger.Errorf("failed to delete sale: %v", err)
		utils.WriteError(w, "failed to delete sale", http.StatusInternalServerError)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		utils.WriteError(w, "sale not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Sale deleted successfully",
		Data:    map[string]string{"id": id},
	})
}

// FUNC TO RECORD A BUYER PAYMENT AGAINST A SALE
func RecordSalePaymentHandler(w http.ResponseWriter, r *http.Request) {
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

	type request struct {
		AmountPaid    decimal.Decimal `json:"amount_paid"`
		PaymentMethod string          `json:"payment_method"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.AmountPaid.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "amount_paid must be greater than 0", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var totalRevenue decimal.Decimal
	err := db.QueryRowContext(ctx, "SELECT total_revenue FROM sales WHERE id = ?", id).Scan(&totalRevenue)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "sale not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to fetch sale", http.StatusInternalServerError)
		return
	}

	paymentStatus := "partial"
	if req.AmountPaid.GreaterThanOrEqual(totalRevenue) {
		paymentStatus = "completed"
	}

	if req.PaymentMethod != "" && !handlers.OneOf(req.PaymentMethod, "cash", "check", "transfer", "mobile-money") {
		utils.WriteError(w, "invalid payment method", http.StatusBadRequest)
		return
	}

	if req.PaymentMethod != "" {
		_, err = db.ExecContext(ctx,
			"UPDATE sales SET payment_status = ?, payment_method = ? WHERE id = ?",
			paymentStatus, req.PaymentMethod, id)
	} else {
		_, err = db.ExecContext(ctx,
			"UPDATE sales SET payment_status = ? WHERE id = ?", paymentStatus, id)
	}
	if err != nil {
		utils.Logger.Errorf("failed to record sale payment: %v", err)
		utils.WriteError(w, "failed to record payment", http.StatusInternalServerError)
		return
	}

	sale, err := fetchSale(ctx, db, id)
	if err != nil {
		utils.WriteError(w, "failed to load sale", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Payment recorded successfully",
		Data:    sale,
	})
}

// FUNC TO LIST THE SALES THAT INCLUDE A MEMBER'S HARVESTS
func MemberSalesHandler(w http.ResponseWriter, r *http.Request) {
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

	rows, err := db.QueryContext(ctx, `
		SELECT `+saleColumns+`
		FROM sales
		WHERE id IN (
			SELECT sh.sale_id FROM sale_harvests sh
			JOIN harvests h ON h.id = sh.harvest_id
			WHERE h.member_id = ?
		)
		ORDER BY sale_date DESC
	`, r.PathValue("memberId"))
	if err != nil {
		utils.Logger.Errorf("failed to fetch member sales: %v", err)
		utils.WriteError(w, "failed to fetch sales", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	saleList := []models.Sale{}
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			utils.WriteError(w, "failed to read sale row", http.StatusInternalServerError)
			return
		}
		saleList = append(saleList, sale)
	}

	utils.WriteList(w, len(saleList), saleList)
}

// FUNC TO GET SALES STATISTICS
func SaleStatsHandler(w http.ResponseWriter, r *http.Request) {
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
	var totalRevenue decimal.NullDecimal
	err := db.QueryRowContext(ctx, "SELECT COUNT(*), SUM(total_revenue) FROM sales").Scan(&total, &totalRevenue)
	if err != nil {
		utils.Logger.Errorf("failed to compute sale stats: %v", err)
		utils.WriteError(w, "failed to compute sale stats", http.StatusInternalServerError)
		return
	}

	type cropStat struct {
		Crop    string          `json:"crop"`
		Count   int             `json:"count"`
		Revenue decimal.Decimal `json:"revenue"`
	}

	byCrop := []cropStat{}
	rows, err := db.QueryContext(ctx, "SELECT crop, COUNT(*), SUM(total_revenue) FROM sales GROUP BY crop")
	if err != nil {
		utils.WriteError(w, "failed to compute sale stats", http.StatusInternalServerError)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var stat cropStat
		if err := rows.Scan(&stat.Crop, &stat.Count, &stat.Revenue); err == nil {
			byCrop = append(byCrop, stat)
		}
	}

	revenue := decimal.Zero
	if totalRevenue.Valid {
		revenue = totalRevenue.Decimal
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"total_sales":   total,
			"total_revenue": revenue,
			"by_crop":       byCrop,
		},
	})
}
