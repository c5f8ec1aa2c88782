package routers

import (
	"net/http"

	"coopfarm/internal/api/handlers/plots"
)

func plotsRouter(mux *http.ServeMux) {
	mux.HandleFunc("/api/plots", plots.PlotsHandler)
	mux.HandleFunc("/api/plots/stats", plots.PlotStatsHandler)
	mux.HandleFunc("/api/plots/member/{memberId}", plots.MemberPlotsHandler)
	mux.HandleFunc("/api/plots/{id}", plots.PlotHandler)
}
