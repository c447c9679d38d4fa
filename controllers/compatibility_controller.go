package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"kindred_server/services"
)

// CompatibilityController handles pairwise and bulk compatibility requests.
type CompatibilityController struct {
	Compat *services.CompatibilityService
}

func NewCompatibilityController(compat *services.CompatibilityService) *CompatibilityController {
	return &CompatibilityController{Compat: compat}
}

// HandleCompatibility returns the cache-first breakdown for a pair.
func (cc *CompatibilityController) HandleCompatibility(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	breakdown, err := cc.Compat.Compatibility(r.Context(), vars["userA"], vars["userB"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

// HandleBulkCompatibility fans out lookups for many targets and returns
// per-target results; one target's failure never fails the batch.
func (cc *CompatibilityController) HandleBulkCompatibility(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID    string   `json:"userId"`
		TargetIDs []string `json:"targetIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.UserID == "" || len(request.TargetIDs) == 0 {
		http.Error(w, "userId and targetIds are required", http.StatusBadRequest)
		return
	}

	results := cc.Compat.BulkCompatibility(r.Context(), request.UserID, request.TargetIDs)
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}
