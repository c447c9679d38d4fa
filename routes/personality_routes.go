package routes

import (
	"github.com/gorilla/mux"

	"kindred_server/controllers"
	"kindred_server/services"
)

// RegisterPersonalityRoutes sets up questionnaire and trait vector routes
// under /api/personality
func RegisterPersonalityRoutes(r *mux.Router, traits *services.TraitService) {
	controller := controllers.NewPersonalityController(traits)

	personalityRouter := r.PathPrefix("/api/personality").Subrouter()
	personalityRouter.HandleFunc("/questions", controller.HandleGetQuestions).Methods("GET")
	personalityRouter.HandleFunc("/answers", controller.HandleSubmitAnswers).Methods("POST")
	personalityRouter.HandleFunc("/{userId}", controller.HandleGetTraitVector).Methods("GET")
	personalityRouter.HandleFunc("/{userId}", controller.HandleResetPersonality).Methods("DELETE")
}
