package expenses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"coopfarm/internal/repositories/sqlconnect"
	"coopfarm/pkg/utils"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The ledger update must stay a single statement: amount and status move
// together, so two concurrent payments can never clobber each other.
const atomicPaymentUpdate = `UPDATE expense_beneficiaries\s+` +
	`SET amount_paid = amount_paid \+ \?,\s+` +
	`status = IF\(amount_paid >= amount_due, 'paid', 'partial'\)\s+` +
	`WHERE expense_id = \? AND member_id = \?`

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	prev := sqlconnect.DB
	sqlconnect.DB = db
	t.Cleanup(func() {
		sqlconnect.DB = prev
		db.Close()
	})
	return mock
}

func asTreasurer(r *http.Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), utils.ContextKey("role"), "treasurer"))
}

func TestRecordPaymentHandler(t *testing.T) {
	t.Run("issues a single atomic increment", func(t *testing.T) {
		mock := setupMockDB(t)

		mock.ExpectExec(atomicPaymentUpdate).
			WithArgs("40", "exp-1", "mem-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		expenseRows := sqlmock.NewRows([]string{
			"id", "expense_code", "category", "description", "amount", "currency",
			"paid_by", "expense_date", "status", "approved_by", "notes", "name",
			"created_at", "updated_at",
		}).AddRow("exp-1", "EXP-001", "fuel", "Tractor fuel", "100.00", "XOF",
			"payer-1", "2024-06-01 00:00:00", "approved", nil, nil, "Moussa",
			"2024-06-01 00:00:00", "2024-06-01 00:00:00")
		mock.ExpectQuery(regexp.QuoteMeta("FROM shared_expenses e JOIN members m ON m.id = e.paid_by")).
			WithArgs("exp-1").
			WillReturnRows(expenseRows)

		beneficiaryRows := sqlmock.NewRows([]string{
			"id", "expense_id", "member_id", "share", "amount_due", "amount_paid", "status", "name",
		}).AddRow("ben-1", "exp-1", "mem-1", "0.600000", "60.00", "40.00", "partial", "Awa")
		mock.ExpectQuery(regexp.QuoteMeta("FROM expense_beneficiaries b")).
			WithArgs("exp-1").
			WillReturnRows(beneficiaryRows)

		r := httptest.NewRequest(http.MethodPut, "/api/expenses/exp-1/payment",
			strings.NewReader(`{"member_id": "mem-1", "amount_paid": 40}`))
		r.SetPathValue("id", "exp-1")
		w := httptest.NewRecorder()

		RecordPaymentHandler(w, asTreasurer(r))

		require.Equal(t, http.StatusOK, w.Code)
		var resp utils.APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown beneficiary gets 404", func(t *testing.T) {
		mock := setupMockDB(t)

		mock.ExpectExec(atomicPaymentUpdate).
			WithArgs("40", "exp-1", "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		r := httptest.NewRequest(http.MethodPut, "/api/expenses/exp-1/payment",
			strings.NewReader(`{"member_id": "ghost", "amount_paid": 40}`))
		r.SetPathValue("id", "exp-1")
		w := httptest.NewRecorder()

		RecordPaymentHandler(w, asTreasurer(r))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("members cannot record payments", func(t *testing.T) {
		setupMockDB(t)

		r := httptest.NewRequest(http.MethodPut, "/api/expenses/exp-1/payment",
			strings.NewReader(`{"member_id": "mem-1", "amount_paid": 40}`))
		r.SetPathValue("id", "exp-1")
		r = r.WithContext(context.WithValue(r.Context(), utils.ContextKey("role"), "member"))
		w := httptest.NewRecorder()

		RecordPaymentHandler(w, r)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCreateExpenseUnknownBeneficiary(t *testing.T) {
	mock := setupMockDB(t)

	existsQuery := regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM members WHERE id = ?)")
	existsRow := func(exists bool) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"exists"}).AddRow(exists)
	}
	mock.ExpectQuery(existsQuery).WithArgs("payer-1").WillReturnRows(existsRow(true))
	mock.ExpectQuery(existsQuery).WithArgs("mem-a").WillReturnRows(existsRow(true))
	mock.ExpectQuery(existsQuery).WithArgs("ghost").WillReturnRows(existsRow(false))

	body := `{
		"category": "fuel",
		"description": "Tractor fuel",
		"amount": 100,
		"paid_by": "payer-1",
		"expense_date": "2024-06-01",
		"beneficiaries": [
			{"member_id": "mem-a", "share_percentage": 60},
			{"member_id": "ghost", "share_percentage": 40}
		]
	}`
	r := httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(body))
	w := httptest.NewRecorder()

	ExpensesHandler(w, asTreasurer(r))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ghost")
	assert.NoError(t, mock.ExpectationsWereMet())
}
