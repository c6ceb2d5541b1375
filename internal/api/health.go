package api

import (
	"context"
	"net/http"
	"time"
)

// Pinger is anything with a connectivity check (the Redis client).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports process liveness and session-store reachability.
type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	sessionStore := "ok"
	status := http.StatusOK
	if h.store != nil {
		if err := h.store.Ping(ctx); err != nil {
			// Degraded, not down: turns still work via the in-process
			// fallback while Redis is unreachable.
			sessionStore = "unreachable"
		}
	}

	JSON(w, status, map[string]string{
		"status":        "ok",
		"session_store": sessionStore,
	})
}
