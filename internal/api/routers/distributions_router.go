package routers

import (
	"net/http"

	"coopfarm/internal/api/handlers/distributions"
)

func distributionsRouter(mux *http.ServeMux) {
	mux.HandleFunc("/api/distributions", distributions.DistributionsHandler)
	mux.HandleFunc("/api/distributions/stats", distributions.DistributionStatsHandler)
	mux.HandleFunc("/api/distributions/member/{memberId}", distributions.MemberDistributionsHandler)
	mux.HandleFunc("/api/distributions/{id}", distributions.DistributionHandler)
	mux.HandleFunc("/api/distributions/{id}/approve", distributions.ApproveDistributionHandler)
	mux.HandleFunc("/api/distributions/{id}/payment", distributions.RecordMemberPaymentHandler)
}
