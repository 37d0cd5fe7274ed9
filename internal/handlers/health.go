package handlers

import "net/http"

// HealthHandler reports process liveness.
type HealthHandler struct{}

// Handle responds to GET /healthz requests.
func (HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	respondData(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"}, "healthy")
}
