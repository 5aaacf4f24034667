package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"hitech-quotation-tool/models"
)

// writeJSON sets the content type, writes status and encodes v
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

// writeError maps domain errors onto HTTP statuses
func writeError(w http.ResponseWriter, prefix string, err error) {
	var validationErr *models.ValidationError
	var serviceErr *models.ServiceError

	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrRunNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &serviceErr):
		log.Printf("❌ %s: %v", prefix, err)
		http.Error(w, prefix+": "+err.Error(), http.StatusBadGateway)
	default:
		log.Printf("❌ %s: %v", prefix, err)
		http.Error(w, prefix+": "+err.Error(), http.StatusInternalServerError)
	}
}
