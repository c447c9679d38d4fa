package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"kindred_server/services"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps the service error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyLiked):
		status = http.StatusConflict
	case errors.Is(err, services.ErrInvalidOperation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrQuestionnaireIncomplete):
		status = http.StatusPreconditionFailed
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
