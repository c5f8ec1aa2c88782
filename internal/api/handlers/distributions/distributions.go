package distributions

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

const distributionColumns = `d.id, d.distribution_code, d.sale_id, d.total_revenue,
	d.total_expenses, d.cooperative_share, d.cooperative_fees, d.net_profit,
	d.distribution_method, d.distribution_date, d.status, d.approved_by,
	d.approval_date, d.notes, s.sale_code, d.created_at, d.updated_at`

const distributionJoins = " FROM profit_distributions d JOIN sales s ON s.id = d.sale_id"

func scanDistribution(scanner interface{ Scan(...interface{}) error }) (models.ProfitDistribution, error) {
	var d models.ProfitDistribution
	err := scanner.Scan(&d.ID, &d.DistributionCode, &d.SaleID, &d.TotalRevenue,
		&d.TotalExpenses, &d.CooperativeShare, &d.CooperativeFees, &d.NetProfit,
		&d.DistributionMethod, &d.DistributionDate, &d.Status, &d.ApprovedBy,
		&d.ApprovalDate, &d.Notes, &d.SaleCode, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func fetchDistribution(ctx context.Context, db *sql.DB, id string) (models.ProfitDistribution, error) {
	dist, err := scanDistribution(db.QueryRowContext(ctx,
		"SELECT "+distributionColumns+distributionJoins+" WHERE d.id = ?", id))
	if err != nil {
		return dist, err
	}

	expRows, err := db.QueryContext(ctx,
		"SELECT id, distribution_id, label, amount FROM distribution_expenses WHERE distribution_id = ?", id)
	if err != nil {
		return dist, err
	}
	defer expRows.Close()
	dist.Expenses = []models.DistributionExpense{}
	for expRows.Next() {
		var e models.DistributionExpense
		if err := expRows.Scan(&e.ID, &e.DistributionID, &e.Label, &e.Amount); err == nil {
			dist.Expenses = append(dist.Expenses, e)
		}
	}

	memRows, err := db.QueryContext(ctx, `
		SELECT dm.id, dm.distribution_id, dm.member_id, dm.share, dm.amount_due,
		       dm.amount_paid, dm.status, dm.payment_date, m.name
		FROM distribution_members dm
		JOIN members m ON m.id = dm.member_id
		WHERE dm.distribution_id = ?
		ORDER BY m.name ASC
	`, id)
	if err != nil {
		return dist, err
	}
	defer memRows.Close()
	dist.MemberDistributions = []models.DistributionMember{}
	for memRows.Next() {
		var dm models.DistributionMember
		var share decimal.Decimal
		if err := memRows.Scan(&dm.ID, &dm.DistributionID, &dm.MemberID, &share,
			&dm.AmountDue, &dm.AmountPaid, &dm.Status, &dm.PaymentDate, &dm.MemberName); err == nil {
			dm.SharePercentage = services.ShareToPercent(share)
			dist.MemberDistributions = append(dist.MemberDistributions, dm)
		}
	}

	return dist, nil
}

// FUNC TO LIST AND CREATE PROFIT DISTRIBUTIONS
func DistributionsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getDistributions(w, r)
	case http.MethodPost:
		createDistribution(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func getDistributions(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	query := "SELECT " + distributionColumns + distributionJoins + " WHERE 1=1"
	var args []interface{}

	if status := r.URL.Query().Get("status"); status != "" {
		query += " AND d.status = ?"
		args = append(args, status)
	}
	if saleID := r.URL.Query().Get("sale_id"); saleID != "" {
		query += " AND d.sale_id = ?"
		args = append(args, saleID)
	}
	query += " ORDER BY d.distribution_date DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("failed to fetch distributions: %v", err)
		utils.WriteError(w, "failed to fetch distributions", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	distributionList := []models.ProfitDistribution{}
	for rows.Next() {
		dist, err := scanDistribution(rows)
		if err != nil {
			utils.WriteError(w, "failed to read distribution row", http.StatusInternalServerError)
			return
		}
		distributionList = append(distributionList, dist)
	}

	utils.WriteList(w, len(distributionList), distributionList)
}

func createDistribution(w http.ResponseWriter, r *http.Request) {
	if !handlers.RequireRole(w, r, "admin", "treasurer") {
		return
	}

	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	type expenseRequest struct {
		Label  string          `json:"label"`
		Amount decimal.Decimal `json:"amount"`
	}
	type memberRequest struct {
		MemberID        string          `json:"member_id"`
		SharePercentage decimal.Decimal `json:"share_percentage"`
	}
	type request struct {
		DistributionCode    string          `json:"distribution_code"`
		SaleID              string          `json:"sale_id"`
		Expenses            []expenseRequest `json:"expenses"`
		CooperativeShare    decimal.Decimal `json:"cooperative_share"`
		MemberDistributions []memberRequest `json:"member_distributions"`
		DistributionMethod  string          `json:"distribution_method"`
		DistributionDate    string          `json:"distribution_date"`
		Notes               string          `json:"notes"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.SaleID == "" || req.DistributionDate == "" {
		utils.WriteError(w, "sale_id and distribution_date are required", http.StatusBadRequest)
		return
	}
	if req.DistributionMethod == "" {
		req.DistributionMethod = "equal"
	}
	if !handlers.OneOf(req.DistributionMethod, "equal", "by-harvest", "by-area", "custom") {
		utils.WriteError(w, "invalid distribution method", http.StatusBadRequest)
		return
	}

	distributionDate, err := handlers.ParseDate(req.DistributionDate)
	if err != nil {
		utils.WriteError(w, "invalid distribution date", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Revenue always comes from the sale itself, never from the request.
	var totalRevenue decimal.Decimal
	err = db.QueryRowContext(ctx, "SELECT total_revenue FROM sales WHERE id = ?", req.SaleID).Scan(&totalRevenue)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "sale not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to fetch sale", http.StatusInternalServerError)
		return
	}

	expenseAmounts := make([]decimal.Decimal, 0, len(req.Expenses))
	for _, e := range req.Expenses {
		expenseAmounts = append(expenseAmounts, e.Amount)
	}

	shares := make([]services.MemberShare, 0, len(req.MemberDistributions))
	for _, m := range req.MemberDistributions {
		shares = append(shares, services.MemberShare{
			MemberID: m.MemberID,
			Share:    services.PercentToShare(m.SharePercentage),
		})
	}

	plan, err := services.PlanDistribution(totalRevenue, expenseAmounts, req.CooperativeShare, shares)
	if err != nil {
		if errors.Is(err, services.ErrSharesSum) {
			utils.WriteError(w, "member shares must total 100%", http.StatusBadRequest)
			return
		}
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	memberIDs := make([]string, 0, len(plan.Allocations))
	for _, alloc := range plan.Allocations {
		memberIDs = append(memberIDs, alloc.MemberID)
	}
	missing, err := handlers.MissingMemberID(ctx, db, memberIDs)
	if err != nil {
		utils.Logger.Errorf("failed to look up members: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if missing != "" {
		utils.WriteError(w, "member "+missing+" not found", http.StatusNotFound)
		return
	}

	if req.DistributionCode == "" {
		req.DistributionCode = services.GenerateCode("DIST")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "failed to start transaction", http.StatusInternalServerError)
		return
	}

	distributionID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO profit_distributions (id, distribution_code, sale_id, total_revenue,
			total_expenses, cooperative_share, cooperative_fees, net_profit,
			distribution_method, distribution_date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''))
	`, distributionID, req.DistributionCode, req.SaleID, totalRevenue, plan.TotalExpenses,
		req.CooperativeShare, plan.CooperativeFees, plan.NetProfit, req.DistributionMethod,
		distributionDate.Format(handlers.DateTimeLayout), req.Notes)
	if err != nil {
		tx.Rollback()
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "distribution code already exists", http.StatusBadRequest)
			return
		}
		utils.Logger.Errorf("failed to insert distribution: %v", err)
		utils.WriteError(w, "failed to create distribution plan", http.StatusInternalServerError)
		return
	}

	for _, e := range req.Expenses {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO distribution_expenses (id, distribution_id, label, amount) VALUES (?, ?, ?, ?)",
			uuid.NewString(), distributionID, e.Label, e.Amount); err != nil {
			tx.Rollback()
			utils.Logger.Errorf("failed to insert distribution expense: %v", err)
			utils.WriteError(w, "failed to create distribution plan", http.StatusInternalServerError)
			return
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO distribution_members (id, distribution_id, member_id, share, amount_due)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to prepare statement: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer stmt.Close()

	for _, alloc := range plan.Allocations {
		if _, err := stmt.ExecContext(ctx, uuid.NewString(), distributionID, alloc.MemberID, alloc.Share, alloc.AmountDue); err != nil {
			tx.Rollback()
			utils.Logger.Errorf("failed to insert member allocation: %v", err)
			utils.WriteError(w, "failed to allocate member shares", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		utils.WriteError(w, "failed to commit transaction", http.StatusInternalServerError)
		return
	}

	dist, err := fetchDistribution(ctx, db, distributionID)
	if err != nil {
		utils.WriteError(w, "failed to load distribution plan", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Distribution plan created successfully",
		Data:    dist,
	})
}

// FUNC TO GET, UPDATE OR DELETE ONE DISTRIBUTION
func DistributionHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		getDistribution(w, r)
	case http.MethodPut:
		updateDistribution(w, r)
	case http.MethodDelete:
		deleteDistribution(w, r)
	default:
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func getDistribution(w http.ResponseWriter, r *http.Request) {
	db := sqlconnect.DB
	if db == nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dist, err := fetchDistribution(ctx, db, r.PathValue("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "distribution not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to fetch distribution: %v", err)
		utils.WriteError(w, "failed to fetch distribution", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Data: dist})
}

func updateDistribution(w http.ResponseWriter, r *http.Request) {
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

	var setClauses []string
	var args []interface{}
	for key, value := range req {
		switch key {
		case "status":
			s, _ := value.(string)
			if !handlers.OneOf(s, "pending", "approved", "distributed", "completed") {
				utils.WriteError(w, "invalid status", http.StatusBadRequest)
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
	_, err := db.ExecContext(ctx, "UPDATE profit_distributions SET "+strings.Join(setClauses, ", ")+" WHERE id = ?", args...)
	if err != nil {
		utils.Logger.Errorf("failed to update distribution: %v", err)
		utils.WriteError(w, "failed to update distribution", http.StatusInternalServerError)
		return
	}

	dist, err := fetchDistribution(ctx, db, id)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "distribution not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "failed to load updated distribution", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Distribution updated successfully",
		Data:    dist,
	})
}

func deleteDistribution(w http.ResponseWriter, r *http.Request) {
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

	res, err := db.ExecContext(ctx, "DELETE FROM profit_distributions WHERE id = ?", id)
	if err != nil {
		utils.Logger.Errorf("failed to delete distribution: %v", err)
		utils.WriteError(w, "failed to delete distribution", http.StatusInternalServerError)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		utils.WriteError(w, "distribution not found", http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Distribution deleted successfully",
		Data:    map[string]string{"id": id},
	})
}

// FUNC TO APPROVE A DISTRIBUTION
func ApproveDistributionHandler(w http.ResponseWriter, r *http.Request) {
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

	res, err := db.ExecContext(ctx, `
		UPDATE profit_distributions SET status = 'approved', approved_by = ?, approval_date = ?
		WHERE id = ?
	`, approverID, time.Now().Format(handlers.DateTimeLayout), id)
	if err != nil {
		utils.Logger.Errorf("failed to approve distribution: %v", err)
		utils.WriteError(w, "failed to approve distribution", http.StatusInternalServerError)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists bool
		db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM profit_distributions WHERE id = ?)", id).Scan(&exists)
		if !exists {
			utils.WriteError(w, "distribution not found", http.StatusNotFound)
			return
		}
	}

	dist, err := fetchDistribution(ctx, db, id)
	if err != nil {
		utils.WriteError(w, "failed to load approved distribution", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Distribution approved successfully",
		Data:    dist,
	})
}

// FUNC TO RECORD A MEMBER PAYOUT AGAINST A DISTRIBUTION
func RecordMemberPaymentHandler(w http.ResponseWriter, r *http.Request) {
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

	// Single-statement increment so concurrent payouts never clobber each
	// other. MySQL applies SET clauses left to right, so the status check
	// reads the already-incremented amount.
	res, err := db.ExecContext(ctx, `
		UPDATE distribution_members
		SET amount_paid = amount_paid + ?,
		    status = IF(amount_paid >= amount_due, 'completed', 'partial'),
		    payment_date = ?
		WHERE distribution_id = ? AND member_id = ?
	`, req.AmountPaid, time.Now().Format(handlers.DateTimeLayout), id, req.MemberID)
	if err != nil {
		utils.Logger.Errorf("failed to record member payment: %v", err)
		utils.WriteError(w, "failed to record payment", http.StatusInternalServerError)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		utils.WriteError(w, "member not found in distribution", http.StatusNotFound)
		return
	}

	dist, err := fetchDistribution(ctx, db, id)
	if err != nil {
		utils.WriteError(w, "failed to load distribution", http.StatusInternalServerError)
		return
	}

	// Receipts go out asynchronously so a slow SMTP server never blocks
	// the payment response.
	var memberName, memberEmail string
	if err := db.QueryRowContext(ctx, "SELECT name, email FROM members WHERE id = ?", req.MemberID).
		Scan(&memberName, &memberEmail); err == nil {
		amount := req.AmountPaid.StringFixed(2)
		code := dist.DistributionCode
		go func() {
			if err := utils.SendPaymentReceivedEmail(memberEmail, memberName, amount, code, time.Now()); err != nil {
				utils.Logger.Errorf("failed to send payment email to %s: %v", memberEmail, err)
			}
		}()
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Payment recorded successfully",
		Data:    dist,
	})
}

// FUNC TO LIST THE DISTRIBUTIONS THAT INCLUDE ONE MEMBER
func MemberDistributionsHandler(w http.ResponseWriter, r *http.Request) {
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
		SELECT `+distributionColumns+distributionJoins+`
		WHERE d.id IN (SELECT distribution_id FROM distribution_members WHERE member_id = ?)
		ORDER BY d.distribution_date DESC
	`, r.PathValue("memberId"))
	if err != nil {
		utils.Logger.Errorf("failed to fetch member distributions: %v", err)
		utils.WriteError(w, "failed to fetch distributions", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	distributionList := []models.ProfitDistribution{}
	for rows.Next() {
		dist, err := scanDistribution(rows)
		if err != nil {
			utils.WriteError(w, "failed to read distribution row", http.StatusInternalServerError)
			return
		}
		distributionList = append(distributionList, dist)
	}

	utils.WriteList(w, len(distributionList), distributionList)
}

// FUNC TO GET DISTRIBUTION STATISTICS
func DistributionStatsHandler(w http.ResponseWriter, r *http.Request) {
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

	var totalProfit decimal.NullDecimal
	err := db.QueryRowContext(ctx, "SELECT SUM(net_profit) FROM profit_distributions").Scan(&totalProfit)
	if err != nil {
		utils.Logger.Errorf("failed to compute distribution stats: %v", err)
		utils.WriteError(w, "failed to compute distribution stats", http.StatusInternalServerError)
		return
	}

	type statusStat struct {
		Status string          `json:"status"`
		Count  int             `json:"count"`
		Total  decimal.Decimal `json:"total"`
	}

	byStatus := []statusStat{}
	rows, err := db.QueryContext(ctx,
		"SELECT status, COUNT(*), SUM(net_profit) FROM profit_distributions GROUP BY status")
	if err != nil {
		utils.WriteError(w, "failed to compute distribution stats", http.StatusInternalServerError)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var stat statusStat
		if err := rows.Scan(&stat.Status, &stat.Count, &stat.Total); err == nil {
			byStatus = append(byStatus, stat)
		}
	}

	var pending decimal.NullDecimal
	err = db.QueryRowContext(ctx,
		"SELECT SUM(amount_due - amount_paid) FROM distribution_members WHERE status != 'completed'").Scan(&pending)
	if err != nil {
		utils.WriteError(w, "failed to compute distribution stats", http.StatusInternalServerError)
		return
	}

	profit := decimal.Zero
	if totalProfit.Valid {
		profit = totalProfit.Decimal
	}
	pendingAmount := decimal.Zero
	if pending.Valid {
		pendingAmount = pending.Decimal
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"total_distributed": profit,
			"by_status":         byStatus,
			"pending_payments":  pendingAmount,
		},
	})
}
