package routes

import (
	"github.com/gorilla/mux"

	"kindred_server/controllers"
	"kindred_server/services"
)

// RegisterDiscoveryRoutes sets up the discovery route under /api/discovery
func RegisterDiscoveryRoutes(r *mux.Router, discovery *services.DiscoveryService) {
	controller := controllers.NewDiscoveryController(discovery)

	r.HandleFunc("/api/discovery", controller.HandleDiscover).Methods("GET")
}
