package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// MessageResponse is the body of every client error
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteMessage writes an error response in the {"message": ...} shape
func WriteMessage(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, MessageResponse{Message: message}, logger)
}
