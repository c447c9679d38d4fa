package routes

import (
	"github.com/gorilla/mux"

	"kindred_server/controllers"
	"kindred_server/services"
)

// RegisterInteractionRoutes sets up like/pass/superlike/block routes under
// /api/interactions
func RegisterInteractionRoutes(r *mux.Router, interactions *services.InteractionService) {
	controller := controllers.NewInteractionController(interactions)

	interactionRouter := r.PathPrefix("/api/interactions").Subrouter()
	interactionRouter.HandleFunc("/like", controller.HandleLike).Methods("POST")
	interactionRouter.HandleFunc("/pass", controller.HandlePass).Methods("POST")
	interactionRouter.HandleFunc("/superlike", controller.HandleSuperLike).Methods("POST")
	interactionRouter.HandleFunc("/block", controller.HandleBlock).Methods("POST")
}
