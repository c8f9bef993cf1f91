package handlers

import (
	"context"
	"log"
	"net/http"
	"time"
)

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	backend string
}

// NewHealthHandler принимает nil, если база не используется
func NewHealthHandler(db Pinger, backend string) *HealthHandler {
	return &HealthHandler{db: db, backend: backend}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	response := map[string]interface{}{
		"status":    "ok",
		"service":   "course-backend",
		"store":     h.backend,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			log.Printf("❌ Health check failed: %v", err)
			status = http.StatusServiceUnavailable
			response["status"] = "unavailable"
			response["database"] = "down"
		} else {
			response["database"] = "up"
		}
	}

	writeJSON(w, status, response)
}
