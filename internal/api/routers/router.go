package routers

import (
	"net/http"

	"coopfarm/pkg/utils"
)

func MainRouter() *http.ServeMux {

	mux := http.NewServeMux()

	authRouter(mux)
	membersRouter(mux)
	plotsRouter(mux)
	harvestsRouter(mux)
	equipmentRouter(mux)
	bookingsRouter(mux)
	expensesRouter(mux)
	salesRouter(mux)
	distributionsRouter(mux)

	mux.HandleFunc("/api/health", healthHandler)
	mux.HandleFunc("/api", indexHandler)

	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Cooperative API is running",
	})
}

func indexHandler(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Cooperative Farming Management API",
		Data: map[string]string{
			"auth":          "/api/auth",
			"members":       "/api/members",
			"plots":         "/api/plots",
			"harvests":      "/api/harvests",
			"equipment":     "/api/equipment",
			"bookings":      "/api/bookings",
			"expenses":      "/api/expenses",
			"sales":         "/api/sales",
			"distributions": "/api/distributions",
			"health":        "/api/health",
		},
	})
}
