package routers

import (
	"net/http"

	"coopfarm/internal/api/handlers/harvests"
)

func harvestsRouter(mux *http.ServeMux) {
	mux.HandleFunc("/api/harvests", harvests.HarvestsHandler)
	mux.HandleFunc("/api/harvests/stats", harvests.HarvestStatsHandler)
	mux.HandleFunc("/api/harvests/member/{memberId}", harvests.MemberHarvestsHandler)
	mux.HandleFunc("/api/harvests/{id}", harvests.HarvestHandler)
	mux.HandleFunc("/api/harvests/{id}/validate", harvests.ValidateHarvestHandler)
}
