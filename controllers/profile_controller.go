package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"kindred_server/models"
	"kindred_server/services"
)

// ProfileController handles user profile CRUD.
type ProfileController struct {
	Profiles *services.ProfileService
}

func NewProfileController(profiles *services.ProfileService) *ProfileController {
	return &ProfileController{Profiles: profiles}
}

// HandleAddProfile creates or replaces a profile.
func (pc *ProfileController) HandleAddProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	saved, err := pc.Profiles.AddUserProfile(r.Context(), profile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// HandleGetProfile fetches a profile by user id.
func (pc *ProfileController) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := pc.Profiles.GetUserProfile(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// HandleDeleteProfile removes a profile.
func (pc *ProfileController) HandleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := pc.Profiles.DeleteUserProfile(r.Context(), mux.Vars(r)["userId"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile deleted"})
}
