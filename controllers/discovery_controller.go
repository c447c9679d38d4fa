package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"kindred_server/services"
)

// DiscoveryController handles ranked candidate requests.
type DiscoveryController struct {
	Discovery *services.DiscoveryService
}

func NewDiscoveryController(discovery *services.DiscoveryService) *DiscoveryController {
	return &DiscoveryController{Discovery: discovery}
}

// HandleDiscover returns the ranked top-N candidates for a user. Query
// parameters: userId (required), limit, minAge, maxAge, maxDistance,
// exclude (comma separated).
func (dc *DiscoveryController) HandleDiscover(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userID := query.Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	limit, _ := strconv.Atoi(query.Get("limit"))
	filters := services.DiscoveryFilters{}
	filters.MinAge, _ = strconv.Atoi(query.Get("minAge"))
	filters.MaxAge, _ = strconv.Atoi(query.Get("maxAge"))
	filters.MaxDistanceKM, _ = strconv.ParseFloat(query.Get("maxDistance"), 64)
	if exclude := query.Get("exclude"); exclude != "" {
		filters.Exclude = strings.Split(exclude, ",")
	}

	candidates, err := dc.Discovery.Discover(r.Context(), userID, limit, filters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"candidates": candidates})
}
