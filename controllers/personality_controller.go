package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"kindred_server/models"
	"kindred_server/services"
)

// PersonalityController handles questionnaire and trait vector requests.
type PersonalityController struct {
	Traits *services.TraitService
}

func NewPersonalityController(traits *services.TraitService) *PersonalityController {
	return &PersonalityController{Traits: traits}
}

// HandleGetQuestions returns the questionnaire definitions.
func (pc *PersonalityController) HandleGetQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := pc.Traits.GetQuestions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

// HandleSubmitAnswers replaces the user's answers and returns the recomputed
// trait vector.
func (pc *PersonalityController) HandleSubmitAnswers(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID  string          `json:"userId"`
		Answers []models.Answer `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	vector, err := pc.Traits.SubmitAnswers(r.Context(), request.UserID, request.Answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"traitVector": vector})
}

// HandleGetTraitVector returns the user's trait vector, or completed=false
// when the questionnaire was never finished.
func (pc *PersonalityController) HandleGetTraitVector(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	vector, err := pc.Traits.GetTraitVector(r.Context(), userID)
	if errors.Is(err, services.ErrQuestionnaireIncomplete) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"completed": false})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"completed": true, "traitVector": vector})
}

// HandleResetPersonality clears the user's trait vector, answers and cache
// entries.
func (pc *PersonalityController) HandleResetPersonality(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := pc.Traits.ResetPersonality(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Personality data reset"})
}
