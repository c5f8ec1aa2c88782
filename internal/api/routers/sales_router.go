package routers

import (
	"net/http"

	"coopfarm/internal/api/handlers/sales"
)

func salesRouter(mux *http.ServeMux) {
	mux.HandleFunc("/api/sales", sales.SalesHandler)
	mux.HandleFunc("/api/sales/stats", sales.SaleStatsHandler)
	mux.HandleFunc("/api/sales/member/{memberId}", sales.MemberSalesHandler)
	mux.HandleFunc("/api/sales/{id}", sales.SaleHandler)
	mux.HandleFunc("/api/sales/{id}/payment", sales.RecordSalePaymentHandler)
}
