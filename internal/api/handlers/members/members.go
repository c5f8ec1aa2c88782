package members

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
	"coopfarm/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const memberColumns = `id, name, email, phone, village, plot_size, role, status, shares,
	address, emergency_contact, emergency_phone, join_date, created_at, updated_at`

func scanMember(scanner interface{ Scan(...interface{}) error }) (models.Member, error) {
	var m models.Member
	err := scanner.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Village, &m.PlotSize,
		&m.Role, &m.Status, &m.Shares, &m.Address, &m.EmergencyContact,
		&m.EmergencyPhone, &m.JoinDate, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// FUNC TO LIST AND CREATE MEMBERS
func MembersHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getMembers(w, r)
	case http.MethodPost:
		createMember(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func getMembers(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	query := "SELECT " + memberColumns + " FROM members WHERE 1=1"
	var args []interface{}

	if status := r.URL.Query().Get("status"); status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	if role := r.URL.Query().Get("role"); role != "" {
		query += " AND role = ?"
		args = append(args, role)
	}
	if village := r.URL.Query().Get("village"); village != "" {
		query += " AND village = ?"
		args = append(args, village)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		query += " AND (name LIKE ? OR email LIKE ? OR phone LIKE ?)"
		like := "%" + search + "%"
		args = append(args, like, like, like)
	}
	query += " ORDER BY name ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("failed to fetch members: %v", err)
		utils.WriteError(w, "failed to fetch members", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	memberList := []models.Member{}
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			utils.WriteError(w, "failed to read member row", http.StatusInternalServerError)
			return
		}
		memberList = append(memberList, member)
	}

	utils.WriteList(w, len(memberList), memberList)
}

func createMember(w http.ResponseWriter, r *http.Request) {
	if !handlers.RequireRole(w, r, "admin") {
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type request struct {
		Name             string          `json:"name"`
		Email            string          `json:"email"`
		Phone            string          `json:"phone"`
		Village          string          `json:"village"`
		PlotSize         decimal.Decimal `json:"plot_size"`
		Password         string          `json:"password"`
		Role             string          `json:"role"`
		Status           string          `json:"status"`
		Shares           int             `json:"shares"`
		Address          string          `json:"address"`
		EmergencyContact string          `json:"emergency_contact"`
		EmergencyPhone   string          `json:"emergency_phone"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Village == "" || req.Password == "" {
		utils.WriteError(w, "name, email, phone, village and password are required", http.StatusBadRequest)
		return
	}
	if req.PlotSize.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "plot size must be greater than 0", http.StatusBadRequest)
		return
	}

	if req.Role == "" {
		req.Role = "member"
	}
	if !handlers.OneOf(req.Role, "member", "admin", "treasurer") {
		utils.WriteError(w, "invalid role", http.StatusBadRequest)
		return
	}
	if req.Status == "" {
		req.Status = "active"
	}
	if !handlers.OneOf(req.Status, "active", "inactive", "suspended") {
		utils.WriteError(w, "invalid status", http.StatusBadRequest)
		return
	}

	hashedPwd, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Logger.Errorf("failed to hash password: %v", err)
		utils.WriteError(w, "failed to create member", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	memberID := uuid.NewString()
	_, err = db.ExecContext(ctx, `
		INSERT INTO members (id, name, email, phone, village, plot_size, password, role, status,
			shares, address, emergency_contact, emergency_phone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''))
	`, memberID, req.Name, req.Email, req.Phone, req.Village, req.PlotSize, hashedPwd,
		req.Role, req.Status, req.Shares, req.Address, req.EmergencyContact, req.EmergencyPhone)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "email already in use", http.StatusBadRequest)
			return
		}
		utils.Logger.Errorf("failed to insert member: %v", err)
		utils.WriteError(w, "failed to create member", http.StatusInternalServerError)
		return
	}

	member, err := scanMember(db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM members WHERE id = ?", memberID))
	if err != nil {
		utils.WriteError(w, "failed to load created member", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Member created successfully",
		Data:    member,
	})
}

// FUNC TO GET, UPDATE OR DELETE ONE MEMBER
func MemberHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getMember(w, r)
	case http.MethodPut:
		updateMember(w, r)
	case http.MethodDelete:
		deleteMember(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func getMember(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	id := r.PathValue("id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	member, err := scanMember(db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM members WHERE id = ?", id))
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "member not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to fetch member: %v", err)
		utils.WriteError(w, "failed to fetch member", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Data: member})
}

func updateMember(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	id := r.PathValue("id")

	// Members may edit their own record; only admins may edit others.
	callerID, ok := utils.MemberIDFromRequest(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	role, _ := utils.RoleFromRequest(r)
	if callerID != id && role != "admin" {
		utils.WriteError(w, "access denied: requires admin role", http.StatusForbidden)
		return
	}

	var req map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	allowed := map[string]string{
		"name":              "name",
		"phone":             "phone",
		"village":           "village",
		"plot_size":         "plot_size",
		"shares":            "shares",
		"address":           "address",
		"emergency_contact": "emergency_contact",
		"emergency_phone":   "emergency_phone",
	}
	// Role and status changes stay admin-only regardless of record ownership.
	if role == "admin" {
		allowed["role"] = "role"
		allowed["status"] = "status"
	}

	var setClauses []string
	var args []interface{}
	for key, value := range req {
		column, ok := allowed[key]
		if !ok {
			continue
		}
		if column == "role" {
			s, _ := value.(string)
			if !handlers.OneOf(s, "member", "admin", "treasurer") {
				utils.WriteError(w, "invalid role", http.StatusBadRequest)
				return
			}
		}
		if column == "status" {
			s, _ := value.(string)
			if !handlers.OneOf(s, "active", "inactive", "suspended") {
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
	res, err := db.ExecContext(ctx, "UPDATE members SET "+strings.Join(setClauses, ", ")+" WHERE id = ?", args...)
	if err != nil {
		utils.Logger.Errorf("failed to update member: %v", err)
		utils.WriteError(w, "failed to update member", http.StatusInternalServerError)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM members WHERE id = ?)", id).Scan(&exists)
		if !exists {
			utils.WriteError(w, "member not found", http.StatusNotFound)
			return
		}
	}

	member, err := scanMember(db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM members WHERE id = ?", id))
	if err != nil {
		utils.WriteError(w, "failed to load updated member", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Member updated successfully",
		Data:    member,
	})
}

func deleteMember(w http.ResponseWriter, r *http.Request) {
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

	res, err := db.ExecContext(ctx, "DELETE FROM members WHERE id = ?", id)
	if err != nil {
		utils.Logger.Errorf("failed to delete member: %v", err)
		utils.WriteError(w, "failed to delete member", http.StatusInternalServerError)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		utils.WriteError(w, "member not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Member deleted successfully",
	})
}

// FUNC TO GET MEMBERSHIP STATISTICS
func MemberStatsHandler(w http.ResponseWriter, r *http.Request) {
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

	var total, active, inactive, suspended int
	var totalPlotSize decimal.NullDecimal
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(status = 'active'), 0),
		       COALESCE(SUM(status = 'inactive'), 0),
		       COALESCE(SUM(status = 'suspended'), 0),
		       SUM(plot_size)
		FROM members
	`).Scan(&total, &active, &inactive, &suspended, &totalPlotSize)
	if err != nil {
		utils.Logger.Errorf("failed to compute member stats: %v", err)
		utils.WriteError(w, "failed to compute member stats", http.StatusInternalServerError)
		return
	}

	byVillage := map[string]int{}
	rows, err := db.QueryContext(ctx, "SELECT village, COUNT(*) FROM members GROUP BY village")
	if err != nil {
		utils.WriteError(w, "failed to compute member stats", http.StatusInternalServerError)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var village string
		var count int
		if err := rows.Scan(&village, &count); err == nil {
			byVillage[village] = count
		}
	}

	plotSize := decimal.Zero
	if totalPlotSize.Valid {
		plotSize = totalPlotSize.Decimal
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"total":           total,
			"active":          active,
			"inactive":        inactive,
			"suspended":       suspended,
			"total_plot_size": plotSize,
			"by_village":      byVillage,
		},
	})
}
