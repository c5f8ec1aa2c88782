package routers

import (
	"net/http"

	"coopfarm/internal/api/handlers/equipment"
)

func equipmentRouter(mux *http.ServeMux) {
	mux.HandleFunc("/api/equipment", equipment.EquipmentListHandler)
	mux.HandleFunc("/api/equipment/available", equipment.AvailableEquipmentHandler)
	mux.HandleFunc("/api/equipment/stats", equipment.EquipmentStatsHandler)
	mux.HandleFunc("/api/equipment/{id}", equipment.EquipmentHandler)
}
