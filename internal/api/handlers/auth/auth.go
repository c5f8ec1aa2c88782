package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
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

// FUNC TO REGISTER A NEW MEMBER
func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type request struct {
		Name     string          `json:"name"`
		Email    string          `json:"email"`
		Phone    string          `json:"phone"`
		Village  string          `json:"village"`
		PlotSize decimal.Decimal `json:"plot_size"`
		Password string          `json:"password"`
		Role     string          `json:"role"`
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

	required := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Village  string `json:"village"`
		Password string `json:"password"`
	}{req.Name, req.Email, req.Phone, req.Village, req.Password}
	if err := handlers.CheckBlankFields(required); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.PlotSize.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "plot size must be greater than 0", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 6 {
		utils.WriteError(w, "password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	role := req.Role
	if role == "" {
		role = "member"
	}
	if role != "member" && role != "admin" && role != "treasurer" {
		utils.WriteError(w, "invalid role", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM members WHERE email = ?)", req.Email).Scan(&exists)
	if err != nil {
		utils.Logger.Errorf("failed to check existing email: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if exists {
		utils.WriteError(w, "email already in use", http.StatusBadRequest)
		return
	}

	hashedPwd, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Logger.Errorf("failed to hash password: %v", err)
		utils.WriteError(w, "error registering member", http.StatusInternalServerError)
		return
	}

	memberID := uuid.NewString()

	_, err = db.ExecContext(ctx, `
		INSERT INTO members (id, name, email, phone, village, plot_size, password, role, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'active')
	`, memberID, req.Name, req.Email, req.Phone, req.Village, req.PlotSize, hashedPwd, role)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "email already in use", http.StatusBadRequest)
			return
		}
		utils.Logger.Errorf("failed to insert member: %v", err)
		utils.WriteError(w, "error registering member", http.StatusInternalServerError)
		return
	}

	token, err := utils.SignToken(memberID, req.Email, role)
	if err != nil {
		utils.Logger.Error("could not create login token")
		utils.WriteError(w, "error registering member", http.StatusInternalServerError)
		return
	}

	refreshToken, err := utils.SignRefreshToken(memberID)
	if err != nil {
		utils.Logger.Error("could not create refresh token")
		utils.WriteError(w, "error registering member", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Registration successful",
		Data: map[string]interface{}{
			"token":         token,
			"refresh_token": refreshToken,
			"member": map[string]interface{}{
				"id":    memberID,
				"name":  req.Name,
				"email": req.Email,
				"role":  role,
			},
		},
	})
}

// FUNC TO LOG A MEMBER IN
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		utils.WriteError(w, "email and password are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var member models.Member
	query := "SELECT id, name, email, phone, village, password, role, status FROM members WHERE email = ?"
	err := db.QueryRowContext(ctx, query, req.Email).
		Scan(&member.ID, &member.Name, &member.Email, &member.Phone, &member.Village, &member.Password, &member.Role, &member.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		utils.Logger.Errorf("login query failed: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := utils.VerifyPassword(req.Password, member.Password); err != nil {
		utils.WriteError(w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	if member.Status != "active" {
		utils.WriteError(w, fmt.Sprintf("your account is %s, please contact an administrator", member.Status), http.StatusForbidden)
		return
	}

	token, err := utils.SignToken(member.ID, member.Email, member.Role)
	if err != nil {
		utils.Logger.Error("could not create login token")
		utils.WriteError(w, "error signing in", http.StatusInternalServerError)
		return
	}

	refreshToken, err := utils.SignRefreshToken(member.ID)
	if err != nil {
		utils.Logger.Error("could not create refresh token")
		utils.WriteError(w, "error signing in", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token":         token,
			"refresh_token": refreshToken,
			"member": map[string]interface{}{
				"id":      member.ID,
				"name":    member.Name,
				"email":   member.Email,
				"role":    member.Role,
				"village": member.Village,
			},
		},
	})
}

// FUNC TO EXCHANGE A REFRESH TOKEN FOR A NEW ACCESS TOKEN
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type request struct {
		RefreshToken string `json:"refresh_token"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		utils.WriteError(w, "refresh_token is required", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	memberID, err := utils.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		utils.WriteError(w, "invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var email, role, status string
	err = db.QueryRowContext(ctx, "SELECT email, role, status FROM members WHERE id = ?", memberID).Scan(&email, &role, &status)
	if err != nil {
		utils.WriteError(w, "member not found", http.StatusUnauthorized)
		return
	}
	if status != "active" {
		utils.WriteError(w, "account is no longer active", http.StatusForbidden)
		return
	}

	token, err := utils.SignToken(memberID, email, role)
	if err != nil {
		utils.Logger.Error("could not create login token")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Data:    map[string]interface{}{"token": token},
	})
}

// FUNC TO GET THE AUTHENTICATED MEMBER PROFILE
func ProfileHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	memberID, ok := utils.MemberIDFromRequest(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var member models.Member
	query := `
		SELECT id, name, email, phone, village, plot_size, role, status, shares, address,
		       emergency_contact, emergency_phone, join_date, created_at, updated_at
		FROM members WHERE id = ?
	`
	err := db.QueryRowContext(ctx, query, memberID).Scan(
		&member.ID, &member.Name, &member.Email, &member.Phone, &member.Village,
		&member.PlotSize, &member.Role, &member.Status, &member.Shares, &member.Address,
		&member.EmergencyContact, &member.EmergencyPhone, &member.JoinDate,
		&member.CreatedAt, &member.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "member not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to load profile: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Data: member})
}

// FUNC TO CHANGE THE AUTHENTICATED MEMBER PASSWORD
func ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	memberID, ok := utils.MemberIDFromRequest(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.UpdatePasswordRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.CurrentPassword == "" || req.NewPassword == "" {
		utils.WriteError(w, "current and new password are required", http.StatusBadRequest)
		return
	}
	if len(req.NewPassword) < 6 {
		utils.WriteError(w, "password must be at least 6 characters", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var storedPassword string
	err := db.QueryRowContext(ctx, "SELECT password FROM members WHERE id = ?", memberID).Scan(&storedPassword)
	if err != nil {
		utils.WriteError(w, "member not found", http.StatusNotFound)
		return
	}

	if err := utils.VerifyPassword(req.CurrentPassword, storedPassword); err != nil {
		utils.WriteError(w, "current password is incorrect", http.StatusUnauthorized)
		return
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.Logger.Error("failed to hash password")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	_, err = db.ExecContext(ctx, "UPDATE members SET password = ? WHERE id = ?", hashedPassword, memberID)
	if err != nil {
		utils.WriteError(w, "failed to update password", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Password changed successfully",
	})
}
