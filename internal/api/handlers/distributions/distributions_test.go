package distributions

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

// The payout ledger moves amount, status and payment date in one
// statement so concurrent payouts never clobber each other.
const atomicPayoutUpdate = `UPDATE distribution_members\s+` +
	`SET amount_paid = amount_paid \+ \?,\s+` +
	`status = IF\(amount_paid >= amount_due, 'completed', 'partial'\),\s+` +
	`payment_date = \?\s+` +
	`WHERE distribution_id = \? AND member_id = \?`

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

func TestRecordMemberPaymentHandler(t *testing.T) {
	t.Run("issues a single atomic increment", func(t *testing.T) {
		mock := setupMockDB(t)

		mock.ExpectExec(atomicPayoutUpdate).
			WithArgs("40", sqlmock.AnyArg(), "dist-1", "mem-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		distRows := sqlmock.NewRows([]string{
			"id", "distribution_code", "sale_id", "total_revenue", "total_expenses",
			"cooperative_share", "cooperative_fees", "net_profit", "distribution_method",
			"distribution_date", "status", "approved_by", "approval_date", "notes",
			"sale_code", "created_at", "updated_at",
		}).AddRow("dist-1", "DIST-001", "sale-1", "1000.00", "100.00",
			"0.100000", "100.00", "800.00", "custom",
			"2024-06-01 00:00:00", "approved", nil, nil, nil,
			"SALE-001", "2024-06-01 00:00:00", "2024-06-01 00:00:00")
		mock.ExpectQuery(regexp.QuoteMeta("FROM profit_distributions d JOIN sales s ON s.id = d.sale_id")).
			WithArgs("dist-1").
			WillReturnRows(distRows)

		mock.ExpectQuery(regexp.QuoteMeta("FROM distribution_expenses WHERE distribution_id = ?")).
			WithArgs("dist-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "distribution_id", "label", "amount"}))

		memberRows := sqlmock.NewRows([]string{
			"id", "distribution_id", "member_id", "share", "amount_due",
			"amount_paid", "status", "payment_date", "name",
		}).AddRow("dm-1", "dist-1", "mem-1", "1.000000", "800.00",
			"40.00", "partial", "2024-06-02 00:00:00", "Awa")
		mock.ExpectQuery(regexp.QuoteMeta("FROM distribution_members dm")).
			WithArgs("dist-1").
			WillReturnRows(memberRows)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT name, email FROM members WHERE id = ?")).
			WithArgs("mem-1").
			WillReturnRows(sqlmock.NewRows([]string{"name", "email"}).AddRow("Awa", "awa@coop.sn"))

		r := httptest.NewRequest(http.MethodPut, "/api/distributions/dist-1/payment",
			strings.NewReader(`{"member_id": "mem-1", "amount_paid": 40}`))
		r.SetPathValue("id", "dist-1")
		w := httptest.NewRecorder()

		RecordMemberPaymentHandler(w, asTreasurer(r))

		require.Equal(t, http.StatusOK, w.Code)
		var resp utils.APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown member gets 404", func(t *testing.T) {
		mock := setupMockDB(t)

		mock.ExpectExec(atomicPayoutUpdate).
			WithArgs("40", sqlmock.AnyArg(), "dist-1", "ghost").
			WillReturnResult(sqlmock.NewResult(0, 0))

		r := httptest.NewRequest(http.MethodPut, "/api/distributions/dist-1/payment",
			strings.NewReader(`{"member_id": "ghost", "amount_paid": 40}`))
		r.SetPathValue("id", "dist-1")
		w := httptest.NewRecorder()

		RecordMemberPaymentHandler(w, asTreasurer(r))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCreateDistributionUnknownMember(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT total_revenue FROM sales WHERE id = ?")).
		WithArgs("sale-1").
		WillReturnRows(sqlmock.NewRows([]string{"total_revenue"}).AddRow("1000.00"))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM members WHERE id = ?)")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	body := `{
		"sale_id": "sale-1",
		"distribution_date": "2024-06-01",
		"cooperative_share": 0.1,
		"member_distributions": [
			{"member_id": "ghost", "share_percentage": 100}
		]
	}`
	r := httptest.NewRequest(http.MethodPost, "/api/distributions", strings.NewReader(body))
	w := httptest.NewRecorder()

	DistributionsHandler(w, asTreasurer(r))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ghost")
	assert.NoError(t, mock.ExpectationsWereMet())
}
