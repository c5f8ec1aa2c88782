package harvests

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

const harvestColumns = `h.id, h.harvest_code, h.member_id, h.plot_id, h.crop, h.weight, h.unit,
	h.harvest_date, h.quality, h.status, h.storage_location, h.estimated_value, h.notes,
	h.validated_by, h.validation_date, m.name, p.plot_code, h.created_at, h.updated_at`

const harvestJoins = " FROM harvests h JOIN members m ON m.id = h.member_id JOIN plots p ON p.id = h.plot_id"

func scanHarvest(scanner interface{ Scan(...interface{}) error }) (models.Harvest, error) {
	var h models.Harvest
	err := scanner.Scan(&h.ID, &h.HarvestCode, &h.MemberID, &h.PlotID, &h.Crop, &h.Weight,
		&h.Unit, &h.HarvestDate, &h.Quality, &h.Status, &h.StorageLocation,
		&h.EstimatedValue, &h.Notes, &h.ValidatedBy, &h.ValidationDate,
		&h.MemberName, &h.PlotCode, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

func fetchHarvest(ctx context.Context, db *sql.DB, id string) (models.Harvest, error) {
	return scanHarvest(db.QueryRowContext(ctx, "SELECT "+harvestColumns+harvestJoins+" WHERE h.id = ?", id))
}

// FUNC TO LIST AND RECORD HARVESTS
func HarvestsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getHarvests(w, r)
	case http.MethodPost:
		createHarvest(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func getHarvests(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	query := "SELECT " + harvestColumns + harvestJoins + " WHERE 1=1"
	var args []interface{}

	if crop := r.URL.Query().Get("crop"); crop != "" {
		query += " AND h.crop = ?"
		args = append(args, crop)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		query += " AND h.status = ?"
		args = append(args, status)
	}
	if quality := r.URL.Query().Get("quality"); quality != "" {
		query += " AND h.quality = ?"
		args = append(args, quality)
	}
	if plotID := r.URL.Query().Get("plot_id"); plotID != "" {
		query += " AND h.plot_id = ?"
		args = append(args, plotID)
	}
	query += " ORDER BY h.harvest_date DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("failed to fetch harvests: %v", err)
		utils.WriteError(w, "failed to fetch harvests", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	harvestList := []models.Harvest{}
	for rows.Next() {
		harvest, err := scanHarvest(rows)
		if err != nil {
			utils.WriteError(w, "failed to read harvest row", http.StatusInternalServerError)
			return
		}
		harvestList = append(harvestList, harvest)
	}

	utils.WriteList(w, len(harvestList), harvestList)
}

func createHarvest(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type request struct {
		HarvestCode    string              `json:"harvest_code"`
		MemberID       string              `json:"member_id"`
		PlotID         string              `json:"plot_id"`
		Crop           string              `json:"crop"`
		Weight         decimal.Decimal     `json:"weight"`
		Unit           string              `json:"unit"`
		HarvestDate    string              `json:"harvest_date"`
		Quality        string              `json:"quality"`
		EstimatedValue decimal.NullDecimal `json:"estimated_value"`
		Notes          string              `json:"notes"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.MemberID == "" || req.PlotID == "" || req.HarvestDate == "" {
		utils.WriteError(w, "member_id, plot_id and harvest_date are required", http.StatusBadRequest)
		return
	}
	if !handlers.OneOf(req.Crop, "cotton", "millet", "sorghum", "maize", "sesame", "peanut") {
		utils.WriteError(w, "invalid crop", http.StatusBadRequest)
		return
	}
	if req.Weight.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "weight must be greater than 0", http.StatusBadRequest)
		return
	}
	if req.Unit == "" {
		req.Unit = "kg"
	}
	if !handlers.OneOf(req.Unit, "kg", "ton", "bag") {
		utils.WriteError(w, "invalid unit", http.StatusBadRequest)
		return
	}
	if req.Quality == "" {
		req.Quality = "good"
	}
	if !handlers.OneOf(req.Quality, "excellent", "good", "average", "poor") {
		utils.WriteError(w, "invalid quality", http.StatusBadRequest)
		return
	}

	harvestDate, err := handlers.ParseDate(req.HarvestDate)
	if err != nil {
		utils.WriteError(w, "invalid harvest date", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var plotOwner string
	err = db.QueryRowContext(ctx, "SELECT member_id FROM plots WHERE id = ?", req.PlotID).Scan(&plotOwner)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "plot not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to verify plot", http.StatusInternalServerError)
		return
	}

	var memberExists bool
	err = db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM members WHERE id = ?)", req.MemberID).Scan(&memberExists)
	if err != nil || !memberExists {
		utils.WriteError(w, "member not found", http.StatusNotFound)
		return
	}

	if req.HarvestCode == "" {
		req.HarvestCode = services.GenerateCode("HRV")
	}

	harvestID := uuid.NewString()
	_, err = db.ExecContext(ctx, `
		INSERT INTO harvests (id, harvest_code, member_id, plot_id, crop, weight, unit,
			harvest_date, quality, estimated_value, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''))
	`, harvestID, req.HarvestCode, req.MemberID, req.PlotID, req.Crop, req.Weight,
		req.Unit, harvestDate.Format(handlers.DateTimeLayout), req.Quality, req.EstimatedValue, req.Notes)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "harvest code already exists", http.StatusBadRequest)
			return
		}
		utils.Logger.Errorf("failed to insert harvest: %v", err)
		utils.WriteError(w, "failed to record harvest", http.StatusInternalServerError)
		return
	}

	harvest, err := fetchHarvest(ctx, db, harvestID)
	if err != nil {
		utils.WriteError(w, "failed to load recorded harvest", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Harvest recorded successfully",
		Data:    harvest,
	})
}

// FUNC TO GET, UPDATE OR DELETE ONE HARVEST
func HarvestHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getHarvest(w, r)
	case http.MethodPut:
		updateHarvest(w, r)
	case http.MethodDelete:
		deleteHarvest(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func getHarvest(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	harvest, err := fetchHarvest(ctx, db, r.PathValue("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "harvest not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to fetch harvest: %v", err)
		utils.WriteError(w, "failed to fetch harvest", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Data: harvest})
}

func updateHarvest(w http.ResponseWriter, r *http.Request) {
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
		"weight":           "weight",
		"quality":          "quality",
		"status":           "status",
		"storage_location": "storage_location",
		"estimated_value":  "estimated_value",
		"notes":            "notes",
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
			if !handlers.OneOf(s, "pending", "validated", "stored", "sold") {
				utils.WriteError(w, "invalid status", http.StatusBadRequest)
				return
			}
		case "quality":
			s, _ := value.(string)
			if !handlers.OneOf(s, "excellent", "good", "average", "poor") {
				utils.WriteError(w, "invalid quality", http.StatusBadRequest)
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
	_, err := db.ExecContext(ctx, "UPDATE harvests SET "+strings.Join(setClauses, ", ")+" WHERE id = ?", args...)
	if err != nil {
		utils.Logger.Errorf("failed to update harvest: %v", err)
		utils.WriteError(w, "failed to update harvest", http.StatusInternalServerError)
		return
	}

	harvest, err := fetchHarvest(ctx, db, id)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "harvest not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to load updated harvest", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Harvest updated successfully",
		Data:    harvest,
	})
}

func deleteHarvest(w http.ResponseWriter, r *http.Request) {
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

	res, err := db.ExecContext(ctx, "DELETE FROM harvests WHERE id = ?", id)
	if err != nil {
		utils.Logger.Errorf("failed to delete harvest: %v", err)
		utils.WriteError(w, "failed to delete harvest", http.StatusInternalServerError)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		utils.WriteError(w, "harvest not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Harvest deleted successfully",
		Data:    map[string]string{"id": id},
	})
}

// FUNC TO VALIDATE A HARVEST
func ValidateHarvestHandler(w http.ResponseWriter, r *http.Request) {
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

	validatorID, ok := utils.MemberIDFromRequest(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx, `
		UPDATE harvests SET status = 'validated', validated_by = ?, validation_date = ?
		WHERE id = ?
	`, validatorID, time.Now().Format(handlers.DateTimeLayout), id)
	if err != nil {
		utils.Logger.Errorf("failed to validate harvest: %v", err)
		utils.WriteError(w, "failed to validate harvest", http.StatusInternalServerError)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM harvests WHERE id = ?)", id).Scan(&exists)
		if !exists {
			utils.WriteError(w, "harvest not found", http.StatusNotFound)
			return
		}
	}

	harvest, err := fetchHarvest(ctx, db, id)
	if err != nil {
		utils.WriteError(w, "failed to load validated harvest", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Harvest validated successfully",
		Data:    harvest,
	})
}

// FUNC TO LIST THE HARVESTS OF ONE MEMBER
func MemberHarvestsHandler(w http.ResponseWriter, r *http.Request) {
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
		"SELECT "+harvestColumns+harvestJoins+" WHERE h.member_id = ? ORDER BY h.harvest_date DESC",
		r.PathValue("memberId"))
	if err != nil {
		utils.Logger.Errorf("failed to fetch member harvests: %v", err)
		utils.WriteError(w, "failed to fetch harvests", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	harvestList := []models.Harvest{}
	for rows.Next() {
		harvest, err := scanHarvest(rows)
		if err != nil {
			utils.WriteError(w, "failed to read harvest row", http.StatusInternalServerError)
			return
		}
		harvestList = append(harvestList, harvest)
	}

	utils.WriteList(w, len(harvestList), harvestList)
}

// FUNC TO GET HARVEST STATISTICS
func HarvestStatsHandler(w http.ResponseWriter, r *http.Request) {
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
	var totalWeight decimal.NullDecimal
	err := db.QueryRowContext(ctx, "SELECT COUNT(*), SUM(weight) FROM harvests").Scan(&total, &totalWeight)
	if err != nil {
		utils.Logger.Errorf("failed to compute harvest stats: %v", err)
		utils.WriteError(w, "failed to compute harvest stats", http.StatusInternalServerError)
		return
	}

	type cropStat struct {
		Crop        string          `json:"crop"`
		Count       int             `json:"count"`
		TotalWeight decimal.Decimal `json:"total_weight"`
	}

	byCrop := []cropStat{}
	rows, err := db.QueryContext(ctx, "SELECT crop, COUNT(*), SUM(weight) FROM harvests GROUP BY crop")
	if err != nil {
		utils.WriteError(w, "failed to compute harvest stats", http.StatusInternalServerError)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var stat cropStat
		if err := rows.Scan(&stat.Crop, &stat.Count, &stat.TotalWeight); err == nil {
			byCrop = append(byCrop, stat)
		}
	}

	weight := decimal.Zero
	if totalWeight.Valid {
		weight = totalWeight.Decimal
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"total_harvests": total,
			"total_weight":   weight,
			"by_crop":        byCrop,
		},
	})
}
