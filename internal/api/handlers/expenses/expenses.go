package expenses

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

const expenseColumns = `e.id, e.expense_code, e.category, e.description, e.amount, e.currency,
	e.paid_by, e.expense_date, e.status, e.approved_by, e.notes, m.name,
	e.created_at, e.updated_at`

const expenseJoins = " FROM shared_expenses e JOIN members m ON m.id = e.paid_by"

func scanExpense(scanner interface{ Scan(...interface{}) error }) (models.SharedExpense, error) {
	var e models.SharedExpense
	err := scanner.Scan(&e.ID, &e.ExpenseCode, &e.Category, &e.Description, &e.Amount,
		&e.Currency, &e.PaidBy, &e.ExpenseDate, &e.Status, &e.ApprovedBy, &e.Notes,
		&e.PayerName, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func fetchBeneficiaries(ctx context.Context, db *sql.DB, expenseID string) ([]models.ExpenseBeneficiary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT b.id, b.expense_id, b.member_id, b.share, b.amount_due, b.amount_paid, b.status, m.name
		FROM expense_beneficiaries b
		JOIN members m ON m.id = b.member_id
		WHERE b.expense_id = ?
		ORDER BY m.name ASC
	`, expenseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	beneficiaries := []models.ExpenseBeneficiary{}
	for rows.Next() {
		var b models.ExpenseBeneficiary
		var share decimal.Decimal
		if err := rows.Scan(&b.ID, &b.ExpenseID, &b.MemberID, &share, &b.AmountDue,
			&b.AmountPaid, &b.Status, &b.MemberName); err != nil {
			return nil, err
		}
		b.SharePercentage = services.ShareToPercent(share)
		beneficiaries = append(beneficiaries, b)
	}
	return beneficiaries, nil
}

func fetchExpense(ctx context.Context, db *sql.DB, id string) (models.SharedExpense, error) {
	expense, err := scanExpense(db.QueryRowContext(ctx, "SELECT "+expenseColumns+expenseJoins+" WHERE e.id = ?", id))
	if err != nil {
		return expense, err
	}
	expense.Beneficiaries, err = fetchBeneficiaries(ctx, db, id)
	return expense, err
}

// FUNC TO LIST AND RECORD SHARED EXPENSES
func ExpensesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getExpenses(w, r)
	case http.MethodPost:
		createExpense(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func getExpenses(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	query := "SELECT " + expenseColumns + expenseJoins + " WHERE 1=1"
	var args []interface{}

	if category := r.URL.Query().Get("category"); category != "" {
		query += " AND e.category = ?"
		args = append(args, category)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		query += " AND e.status = ?"
		args = append(args, status)
	}
	query += " ORDER BY e.expense_date DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("failed to fetch expenses: %v", err)
		utils.WriteError(w, "failed to fetch expenses", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	expenseList := []models.SharedExpense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			utils.WriteError(w, "failed to read expense row", http.StatusInternalServerError)
			return
		}
		expenseList = append(expenseList, expense)
	}

	utils.WriteList(w, len(expenseList), expenseList)
}

func createExpense(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type beneficiaryRequest struct {
		MemberID        string          `json:"member_id"`
		SharePercentage decimal.Decimal `json:"share_percentage"`
	}
	type request struct {
		ExpenseCode   string               `json:"expense_code"`
		Category      string               `json:"category"`
		Description   string               `json:"description"`
		Amount        decimal.Decimal      `json:"amount"`
		Currency      string               `json:"currency"`
		PaidBy        string               `json:"paid_by"`
		Beneficiaries []beneficiaryRequest `json:"beneficiaries"`
		ExpenseDate   string               `json:"expense_date"`
		Notes         string               `json:"notes"`
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
		Description string `json:"description"`
		PaidBy      string `json:"paid_by"`
		ExpenseDate string `json:"expense_date"`
	}{req.Description, req.PaidBy, req.ExpenseDate}
	if err := handlers.CheckBlankFields(required); err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !handlers.OneOf(req.Category, "maintenance", "fertilizer", "seeds", "fuel", "labor", "storage", "transport", "other") {
		utils.WriteError(w, "invalid category", http.StatusBadRequest)
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "amount must be greater than 0", http.StatusBadRequest)
		return
	}
	if req.Currency == "" {
		req.Currency = "XOF"
	}
	if !handlers.OneOf(req.Currency, "XOF", "USD", "EUR") {
		utils.WriteError(w, "invalid currency", http.StatusBadRequest)
		return
	}

	expenseDate, err := handlers.ParseDate(req.ExpenseDate)
	if err != nil {
		utils.WriteError(w, "invalid expense date", http.StatusBadRequest)
		return
	}

	shares := make([]services.MemberShare, 0, len(req.Beneficiaries))
	for _, b := range req.Beneficiaries {
		shares = append(shares, services.MemberShare{
			MemberID: b.MemberID,
			Share:    services.PercentToShare(b.SharePercentage),
		})
	}

	allocations, err := services.SplitShares(req.Amount, shares)
	if err != nil {
		if errors.Is(err, services.ErrSharesSum) {
			utils.WriteError(w, "beneficiary shares must total 100%", http.StatusBadRequest)
			return
		}
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var payerExists bool
	err = db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM members WHERE id = ?)", req.PaidBy).Scan(&payerExists)
	if err != nil || !payerExists {
		utils.WriteError(w, "paying member not found", http.StatusNotFound)
		return
	}

	beneficiaryIDs := make([]string, 0, len(allocations))
	for _, alloc := range allocations {
		beneficiaryIDs = append(beneficiaryIDs, alloc.MemberID)
	}
	missing, err := handlers.MissingMemberID(ctx, db, beneficiaryIDs)
	if err != nil {
		utils.Logger.Errorf("failed to look up beneficiaries: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if missing != "" {
		utils.WriteError(w, "beneficiary member "+missing+" not found", http.StatusNotFound)
		return
	}

	if req.ExpenseCode == "" {
		req.ExpenseCode = services.GenerateCode("EXP")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "failed to start transaction", http.StatusInternalServerError)
		return
	}

	expenseID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO shared_expenses (id, expense_code, category, description, amount, currency,
			paid_by, expense_date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''))
	`, expenseID, req.ExpenseCode, req.Category, req.Description, req.Amount, req.Currency,
		req.PaidBy, expenseDate.Format(handlers.DateTimeLayout), req.Notes)
	if err != nil {
		tx.Rollback()
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "expense code already exists", http.StatusBadRequest)
			return
		}
		utils.Logger.Errorf("failed to insert expense: %v", err)
		utils.WriteError(w, "failed to record expense", http.StatusInternalServerError)
		return
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expense_beneficiaries (id, expense_id, member_id, share, amount_due)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to prepare statement: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer stmt.Close()

	for _, alloc := range allocations {
		if _, err := stmt.ExecContext(ctx, uuid.NewString(), expenseID, alloc.MemberID, alloc.Share, alloc.AmountDue); err != nil {
			tx.Rollback()
			utils.Logger.Errorf("failed to split expense: %v", err)
			utils.WriteError(w, "failed to split expense among beneficiaries", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		utils.WriteError(w, "failed to commit transaction", http.StatusInternalServerError)
		return
	}

	expense, err := fetchExpense(ctx, db, expenseID)
	if err != nil {
		utils.WriteError(w, "failed to load recorded expense", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Expense recorded successfully",
		Data:    expense,
	})
}

// FUNC TO GET, UPDATE OR DELETE ONE EXPENSE
func ExpenseHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getExpense(w, r)
	case http.MethodPut:
		updateExpense(w, r)
	case http.MethodDelete:
		deleteExpense(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func getExpense(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	expense, err := fetchExpense(ctx, db, r.PathValue("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to fetch expense: %v", err)
		utils.WriteError(w, "failed to fetch expense", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Data: expense})
}

func updateExpense(w http.ResponseWriter, r *http.Request) {
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

	var setClauses []string
	var args []interface{}
	for key, value := range req {
		switch key {
		case "status":
			s, _ := value.(string)
			if !handlers.OneOf(s, "pending", "approved", "settled") {
				utils.WriteError(w, "invalid status", http.StatusBadRequest)
				return
			}
			// Status transitions are a treasurer concern.
			if !handlers.RequireRole(w, r, "admin", "treasurer") {
				return
			}
			setClauses = append(setClauses, "status = ?")
			args = append(args, value)
		case "notes":
			setClauses = append(setClauses, "notes = ?")
			args = append(args, value)
		}
	}

	if len(setClauses) == 0 {
		utils.WriteError(w, "no updatable fields in body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	args = append(args, id)
	_, err := db.ExecContext(ctx, "UPDATE shared_expenses SET "+strings.Join(setClauses, ", ")+" WHERE id = ?", args...)
	if err != nil {
		utils.Logger.Errorf("failed to update expense: %v", err)
		utils.WriteError(w, "failed to update expense", http.StatusInternalServerError)
		return
	}

	expense, err := fetchExpense(ctx, db, id)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to load updated expense", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Expense updated successfully",
		Data:    expense,
	})
}

func deleteExpense(w http.ResponseWriter, r *http.Request) {
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

	res, err := db.ExecContext(ctx, "DELETE FROM shared_expenses WHERE id = ?", id)
	if err != nil {
		utils.Logger.Errorf("failed to delete expense: %v", err)
		utils.WriteError(w, "failed to delete expense", http.StatusInternalServerError)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		utils.WriteError(w, "expense not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Expense deleted successfully",
		Data:    map[string]string{"id": id},
	})
}

// FUNC TO APPROVE AN EXPENSE
func ApproveExpenseHandler(w http.ResponseWriter, r *http.Request) {
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

	res, err := db.ExecContext(ctx,
		"UPDATE shared_expenses SET status = 'approved', approved_by = ? WHERE id = ?", approverID, id)
	if err != nil {
		utils.Logger.Errorf("failed to approve expense: %v", err)
		utils.WriteError(w, "failed to approve expense", http.StatusInternalServerError)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM shared_expenses WHERE id = ?)", id).Scan(&exists)
		if !exists {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
	}

	expense, err := fetchExpense(ctx, db, id)
	if err != nil {
		utils.WriteError(w, "failed to load approved expense", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Expense approved successfully",
		Data:    expense,
	})
}

// FUNC TO RECORD A BENEFICIARY PAYMENT AGAINST AN EXPENSE
func RecordPaymentHandler(w http.ResponseWriter, r *http.Request) {
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
		MemberID   string          `json:"member_id"`
		AmountPaid decimal.Decimal `json:"amount_paid"`
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
	if req.AmountPaid.LessThanOrEqual(decimal.Zero) {
		utils.WriteError(w, "amount_paid must be greater than 0", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Single-statement increment so concurrent payments never clobber each
	// other. MySQL applies SET clauses left to right, so the status check
	// reads the already-incremented amount.
	res, err := db.ExecContext(ctx, `
		UPDATE expense_beneficiaries
		SET amount_paid = amount_paid + ?,
		    status = IF(amount_paid >= amount_due, 'paid', 'partial')
		WHERE expense_id = ? AND member_id = ?
	`, req.AmountPaid, id, req.MemberID)
	if err != nil {
		utils.Logger.Errorf("failed to record payment: %v", err)
		utils.WriteError(w, "failed to record payment", http.StatusInternalServerError)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		utils.WriteError(w, "beneficiary not found for this expense", http.StatusNotFound)
		return
	}

	expense, err := fetchExpense(ctx, db, id)
	if err != nil {
		utils.WriteError(w, "failed to load expense", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Payment recorded successfully",
		Data:    expense,
	})
}

// FUNC TO LIST THE EXPENSES ONE MEMBER PAID OR BENEFITS FROM
func MemberExpensesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	memberID := r.PathValue("memberId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT DISTINCT `+expenseColumns+expenseJoins+`
		LEFT JOIN expense_beneficiaries b ON b.expense_id = e.id
		WHERE e.paid_by = ? OR b.member_id = ?
		ORDER BY e.expense_date DESC
	`, memberID, memberID)
	if err != nil {
		utils.Logger.Errorf("failed to fetch member expenses: %v", err)
		utils.WriteError(w, "failed to fetch expenses", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	expenseList := []models.SharedExpense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			utils.WriteError(w, "failed to read expense row", http.StatusInternalServerError)
			return
		}
		expenseList = append(expenseList, expense)
	}

	utils.WriteList(w, len(expenseList), expenseList)
}

// FUNC TO GET EXPENSE STATISTICS
func ExpenseStatsHandler(w http.ResponseWriter, r *http.Request) {
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

	var total decimal.NullDecimal
	err := db.QueryRowContext(ctx, "SELECT SUM(amount) FROM shared_expenses").Scan(&total)
	if err != nil {
		utils.Logger.Errorf("failed to compute expense stats: %v", err)
		utils.WriteError(w, "failed to compute expense stats", http.StatusInternalServerError)
		return
	}

	type categoryStat struct {
		Category string          `json:"category"`
		Count    int             `json:"count"`
		Total    decimal.Decimal `json:"total"`
	}

	byCategory := []categoryStat{}
	rows, err := db.QueryContext(ctx, "SELECT category, COUNT(*), SUM(amount) FROM shared_expenses GROUP BY category")
	if err != nil {
		utils.WriteError(w, "failed to compute expense stats", http.StatusInternalServerError)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var stat categoryStat
		if err := rows.Scan(&stat.Category, &stat.Count, &stat.Total); err == nil {
			byCategory = append(byCategory, stat)
		}
	}

	var pending decimal.NullDecimal
	err = db.QueryRowContext(ctx,
		"SELECT SUM(amount_due - amount_paid) FROM expense_beneficiaries WHERE status != 'paid'").Scan(&pending)
	if err != nil {
		utils.WriteError(w, "failed to compute expense stats", http.StatusInternalServerError)
		return
	}

	totalAmount := decimal.Zero
	if total.Valid {
		totalAmount = total.Decimal
	}
	pendingAmount := decimal.Zero
	if pending.Valid {
		pendingAmount = pending.Decimal
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"total_expenses":   totalAmount,
			"by_category":      byCategory,
			"pending_payments": pendingAmount,
		},
	})
}
