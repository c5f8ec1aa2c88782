package plots

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

const plotColumns = `p.id, p.plot_code, p.member_id, p.size, p.village, p.sector, p.soil_type,
	p.water_access, p.status, p.crops, p.registration_date, p.notes, m.name,
	p.created_at, p.updated_at`

func scanPlot(scanner interface{ Scan(...interface{}) error }) (models.Plot, error) {
	var p models.Plot
	var crops sql.NullString
	err := scanner.Scan(&p.ID, &p.PlotCode, &p.MemberID, &p.Size, &p.Village, &p.Sector,
		&p.SoilType, &p.WaterAccess, &p.Status, &crops, &p.RegistrationDate, &p.Notes,
		&p.MemberName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	if crops.Valid && crops.String != "" {
		// Invalid JSON in the column is treated as no crops.
		json.Unmarshal([]byte(crops.String), &p.Crops)
	}
	return p, nil
}

// FUNC TO LIST AND REGISTER PLOTS
func PlotsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getPlots(w, r)
	case http.MethodPost:
		createPlot(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func getPlots(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	query := "SELECT " + plotColumns + " FROM plots p JOIN members m ON m.id = p.member_id WHERE 1=1"
	var args []interface{}

	if status := r.URL.Query().Get("status"); status != "" {
		query += " AND p.status = ?"
		args = append(args, status)
	}
	if soilType := r.URL.Query().Get("soil_type"); soilType != "" {
		query += " AND p.soil_type = ?"
		args = append(args, soilType)
	}
	if village := r.URL.Query().Get("village"); village != "" {
		query += " AND p.village = ?"
		args = append(args, village)
	}
	if memberID := r.URL.Query().Get("member_id"); memberID != "" {
		query += " AND p.member_id = ?"
		args = append(args, memberID)
	}
	query += " ORDER BY p.registration_date DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("failed to fetch plots: %v", err)
		utils.WriteError(w, "failed to fetch plots", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	plotList := []models.Plot{}
	for rows.Next() {
		plot, err := scanPlot(rows)
		if err != nil {
			utils.WriteError(w, "failed to read plot row", http.StatusInternalServerError)
			return
		}
		plotList = append(plotList, plot)
	}

	utils.WriteList(w, len(plotList), plotList)
}

func createPlot(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type request struct {
		PlotCode    string          `json:"plot_code"`
		MemberID    string          `json:"member_id"`
		Size        decimal.Decimal `json:"size"`
		Village     string          `json:"village"`
		Sector      string          `json:"sector"`
		SoilType    string          `json:"soil_type"`
		WaterAccess string          `json:"water_access"`
		Status      string          `json:"status"`
		Crops       []string        `json:"crops"`
		Notes       string          `json:"notes"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.MemberID == "" {
		utils.WriteError(w, "member_id is required", http.StatusBadRequest)
		return
	}
	if req.Size.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "size must be greater than 0", http.StatusBadRequest)
		return
	}
	if !handlers.OneOf(req.SoilType, "sandy", "loamy", "clay", "mixed") {
		utils.WriteError(w, "invalid soil type", http.StatusBadRequest)
		return
	}
	if !handlers.OneOf(req.WaterAccess, "well", "river", "rain-fed", "irrigation") {
		utils.WriteError(w, "invalid water access", http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		req.Status = "active"
	}
	if !handlers.OneOf(req.Status, "active", "fallow", "under-development", "rented-out") {
		utils.WriteError(w, "invalid status", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var memberExists bool
	err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM members WHERE id = ?)", req.MemberID).Scan(&memberExists)
	if err != nil {
		utils.WriteError(w, "failed to verify member", http.StatusInternalServerError)
		return
	}
	if !memberExists {
		utils.WriteError(w, "member not found", http.StatusNotFound)
		return
	}

	if req.PlotCode == "" {
		req.PlotCode = services.GenerateCode("PLT")
	}

	var cropsJSON interface{}
	if len(req.Crops) > 0 {
		b, err := json.Marshal(req.Crops)
		if err != nil {
			utils.WriteError(w, "invalid crops list", http.StatusBadRequest)
			return
		}
		cropsJSON = string(b)
	}

	plotID := uuid.NewString()
	_, err = db.ExecContext(ctx, `
		INSERT INTO plots (id, plot_code, member_id, size, village, sector, soil_type,
			water_access, status, crops, notes)
		VALUES (?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), ?, ?, ?, ?, NULLIF(?, ''))
	`, plotID, req.PlotCode, req.MemberID, req.Size, req.Village, req.Sector,
		req.SoilType, req.WaterAccess, req.Status, cropsJSON, req.Notes)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "plot code already exists", http.StatusBadRequest)
			return
		}
		utils.Logger.Errorf("failed to insert plot: %v", err)
		utils.WriteError(w, "failed to register plot", http.StatusInternalServerError)
		return
	}

	plot, err := fetchPlot(ctx, db, plotID)
	if err != nil {
		utils.WriteError(w, "failed to load registered plot", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Plot registered successfully",
		Data:    plot,
	})
}

func fetchPlot(ctx context.Context, db *sql.DB, id string) (models.Plot, error) {
	return scanPlot(db.QueryRowContext(ctx,
		"SELECT "+plotColumns+" FROM plots p JOIN members m ON m.id = p.member_id WHERE p.id = ?", id))
}

// FUNC TO GET, UPDATE OR DELETE ONE PLOT
func PlotHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getPlot(w, r)
	case http.MethodPut:
		updatePlot(w, r)
	case http.MethodDelete:
		deletePlot(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func getPlot(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	plot, err := fetchPlot(ctx, db, r.PathValue("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "plot not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to fetch plot: %v", err)
		utils.WriteError(w, "failed to fetch plot", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Data: plot})
}

func updatePlot(w http.ResponseWriter, r *http.Request) {
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
		"size":         "size",
		"village":      "village",
		"sector":       "sector",
		"soil_type":    "soil_type",
		"water_access": "water_access",
		"status":       "status",
		"notes":        "notes",
	}

	var setClauses []string
	var args []interface{}
	for key, value := range req {
		if key == "crops" {
			b, err := json.Marshal(value)
			if err != nil {
				utils.WriteError(w, "invalid crops list", http.StatusBadRequest)
				return
			}
			setClauses = append(setClauses, "crops = ?")
			args = append(args, string(b))
			continue
		}
		column, ok := allowed[key]
		if !ok {
			continue
		}
		if column == "status" {
			s, _ := value.(string)
			if !handlers.OneOf(s, "active", "fallow", "under-development", "rented-out") {
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
	_, err := db.ExecContext(ctx, "UPDATE plots SET "+strings.Join(setClauses, ", ")+" WHERE id = ?", args...)
	if err != nil {
		utils.Logger.Errorf("failed to update plot: %v", err)
		utils.WriteError(w, "failed to update plot", http.StatusInternalServerError)
		return
	}

	plot, err := fetchPlot(ctx, db, id)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "plot not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to load updated plot", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Plot updated successfully",
		Data:    plot,
	})
}

func deletePlot(w http.ResponseWriter, r *http.Request) {
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

	res, err := db.ExecContext(ctx, "DELETE FROM plots WHERE id = ?", r.PathValue("id"))
	if err != nil {
		utils.Logger.Errorf("failed to delete plot: %v", err)
		utils.WriteError(w, "failed to delete plot", http.StatusInternalServerError)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		utils.WriteError(w, "plot not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Plot deleted successfully",
	})
}

// FUNC TO LIST THE PLOTS OF ONE MEMBER
func MemberPlotsHandler(w http.ResponseWriter, r *http.Request) {
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
		"SELECT "+plotColumns+" FROM plots p JOIN members m ON m.id = p.member_id WHERE p.member_id = ? ORDER BY p.registration_date DESC",
		r.PathValue("memberId"))
	if err != nil {
		utils.Logger.Errorf("failed to fetch member plots: %v", err)
		utils.WriteError(w, "failed to fetch plots", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	plotList := []models.Plot{}
	for rows.Next() {
		plot, err := scanPlot(rows)
		if err != nil {
			utils.WriteError(w, "failed to read plot row", http.StatusInternalServerError)
			return
		}
		plotList = append(plotList, plot)
	}

	utils.WriteList(w, len(plotList), plotList)
}

// FUNC TO GET PLOT STATISTICS
func PlotStatsHandler(w http.ResponseWriter, r *http.Request) {
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
	var totalSize decimal.NullDecimal
	err := db.QueryRowContext(ctx, "SELECT COUNT(*), SUM(size) FROM plots").Scan(&total, &totalSize)
	if err != nil {
		utils.Logger.Errorf("failed to compute plot stats: %v", err)
		utils.WriteError(w, "failed to compute plot stats", http.StatusInternalServerError)
		return
	}

	byStatus := map[string]int{}
	rows, err := db.QueryContext(ctx, "SELECT status, COUNT(*) FROM plots GROUP BY status")
	if err != nil {
		utils.WriteError(w, "failed to compute plot stats", http.StatusInternalServerError)
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

	bySoilType := map[string]int{}
	rows2, err := db.QueryContext(ctx, "SELECT soil_type, COUNT(*) FROM plots GROUP BY soil_type")
	if err != nil {
		utils.WriteError(w, "failed to compute plot stats", http.StatusInternalServerError)
		return
	}
	defer rows2.Close()
	for rows2.Next() {
		var soilType string
		var count int
		if err := rows2.Scan(&soilType, &count); err == nil {
			bySoilType[soilType] = count
		}
	}

	size := decimal.Zero
	if totalSize.Valid {
		size = totalSize.Decimal
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"total":        total,
			"total_size":   size,
			"by_status":    byStatus,
			"by_soil_type": bySoilType,
		},
	})
}
