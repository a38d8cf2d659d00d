package gateway

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type resultEnvelope struct {
	Result string `json:"result"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

// WriteResult writes a 200 response carrying the completion text.
func WriteResult(w http.ResponseWriter, result string) {
	writeJSON(w, http.StatusOK, resultEnvelope{Result: result})
}

// WriteError writes an error envelope with the given status.
func WriteError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response body", "error", err)
	}
}
