package routes

import (
	"github.com/gorilla/mux"

	"kindred_server/controllers"
	"kindred_server/services"
)

// RegisterCompatibilityRoutes sets up compatibility routes under
// /api/compatibility
func RegisterCompatibilityRoutes(r *mux.Router, compat *services.CompatibilityService) {
	controller := controllers.NewCompatibilityController(compat)

	compatRouter := r.PathPrefix("/api/compatibility").Subrouter()
	compatRouter.HandleFunc("/bulk", controller.HandleBulkCompatibility).Methods("POST")
	compatRouter.HandleFunc("/{userA}/{userB}", controller.HandleCompatibility).Methods("GET")
}
