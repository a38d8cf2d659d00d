package gateway

import "net/http"

type healthResponse struct {
	Status string `json:"status"`
}

// HealthHandler serves a liveness check.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	})
}
