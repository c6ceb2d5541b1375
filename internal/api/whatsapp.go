package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	logx "github.com/Mincaai-cci-col/CCI-colombia-agent/pkg/logger"
)

// WhatsAppHandler exposes the conversational endpoints consumed by the
// WhatsApp webhook bridge.
type WhatsAppHandler struct {
	agent Agent
}

func NewWhatsAppHandler(agent Agent) *WhatsAppHandler {
	return &WhatsAppHandler{agent: agent}
}

// RegisterRoutes registers the WhatsApp routes.
func (h *WhatsAppHandler) RegisterRoutes(r chi.Router) {
	r.Route("/whatsapp", func(r chi.Router) {
		r.Post("/chat", h.Chat)
		r.Get("/status/{userID}", h.Status)
		r.Delete("/session/{userID}", h.ResetSession)
		r.Get("/welcome", h.Welcome)
	})
}

type chatRequest struct {
	UserID    string `json:"user_id"`
	UserInput string `json:"user_input"`
}

type chatResponse struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

// Chat processes one inbound message. The agent degrades internal
// failures to a localized apology, so a well-formed request always gets
// 200 with a readable reply.
func (h *WhatsAppHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.UserInput = strings.TrimSpace(req.UserInput)
	if req.UserID == "" || req.UserInput == "" {
		Error(w, http.StatusBadRequest, "user_id and user_input are required")
		return
	}

	logx.Info().Str("user_id", req.UserID).Msg("Inbound message")
	reply := h.agent.Handle(r.Context(), req.UserID, req.UserInput)

	JSON(w, http.StatusOK, chatResponse{Status: "success", Response: reply})
}

// Status reports the stored conversation state without exposing the
// transcript itself.
func (h *WhatsAppHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		Error(w, http.StatusBadRequest, "user id is required")
		return
	}

	s, err := h.agent.Status(r.Context(), userID)
	if err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("Status lookup failed")
		Error(w, http.StatusBadGateway, "session store unavailable")
		return
	}
	if s == nil {
		JSON(w, http.StatusOK, map[string]interface{}{
			"user_id": userID,
			"exists":  false,
		})
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"user_id":                 userID,
		"exists":                  true,
		"language":                string(s.Language),
		"language_locked":         s.LanguageLocked,
		"mode":                    string(s.Mode),
		"questionnaire_completed": s.QuestionnaireCompleted,
		"message_count":           len(s.Messages),
		"has_summary":             s.Summary != "",
		"has_client_context":      !s.Client.IsEmpty(),
		"last_updated":            s.LastUpdated,
	})
}

// ResetSession deletes the stored session so the next message starts a
// fresh conversation.
func (h *WhatsAppHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		Error(w, http.StatusBadRequest, "user id is required")
		return
	}

	if err := h.agent.Reset(r.Context(), userID); err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("Session reset failed")
		Error(w, http.StatusBadGateway, "failed to reset session")
		return
	}

	JSON(w, http.StatusOK, map[string]string{"status": "success", "user_id": userID})
}

// Welcome returns the static bilingual greeting used before the first
// turn, so the webhook bridge can send it without invoking the model.
func (h *WhatsAppHandler) Welcome(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"message": h.agent.Welcome()})
}
