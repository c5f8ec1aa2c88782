package routers

import (
	"net/http"

	"coopfarm/internal/api/handlers/expenses"
)

func expensesRouter(mux *http.ServeMux) {
	mux.HandleFunc("/api/expenses", expenses.ExpensesHandler)
	mux.HandleFunc("/api/expenses/stats", expenses.ExpenseStatsHandler)
	mux.HandleFunc("/api/expenses/member/{memberId}", expenses.MemberExpensesHandler)
	mux.HandleFunc("/api/expenses/{id}", expenses.ExpenseHandler)
	mux.HandleFunc("/api/expenses/{id}/approve", expenses.ApproveExpenseHandler)
	mux.HandleFunc("/api/expenses/{id}/payment", expenses.RecordPaymentHandler)
}
