// Package api provides the HTTP surface of the conversational agent.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/session"
)

// Agent is the orchestration surface the handlers depend on.
type Agent interface {
	Handle(ctx context.Context, userID, userText string) string
	Status(ctx context.Context, userID string) (*session.Session, error)
	Reset(ctx context.Context, userID string) error
	Welcome() string
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
