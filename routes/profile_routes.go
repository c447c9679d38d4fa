package routes

import (
	"github.com/gorilla/mux"

	"kindred_server/controllers"
	"kindred_server/services"
)

// RegisterProfileRoutes sets up profile CRUD routes under /api/profiles
func RegisterProfileRoutes(r *mux.Router, profiles *services.ProfileService) {
	controller := controllers.NewProfileController(profiles)

	profileRouter := r.PathPrefix("/api/profiles").Subrouter()
	profileRouter.HandleFunc("", controller.HandleAddProfile).Methods("POST")
	profileRouter.HandleFunc("/{userId}", controller.HandleGetProfile).Methods("GET")
	profileRouter.HandleFunc("/{userId}", controller.HandleDeleteProfile).Methods("DELETE")
}
