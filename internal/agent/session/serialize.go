package session

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
)

// recordVersion tags serialized records for future migrations.
const recordVersion = "1.0"

// record is the wire form of a Session. Booleans whose default is true
// are pointers so that records written before the field existed still
// deserialize to the documented defaults.
type record struct {
	DetectedLanguage       string           `json:"detected_language,omitempty"`
	LanguageLocked         bool             `json:"language_locked,omitempty"`
	FirstTurnPending       *bool            `json:"first_turn_pending,omitempty"`
	DialogueMode           string           `json:"dialogue_mode,omitempty"`
	QuestionnaireCompleted bool             `json:"questionnaire_completed,omitempty"`
	ClientContext          *model.ClientInfo `json:"client_context,omitempty"`
	MemoryMessages         []storedMessage  `json:"memory_messages,omitempty"`
	MemorySummary          string           `json:"memory_summary,omitempty"`
	LastUpdated            int64            `json:"_last_updated,omitempty"`
	Version                string           `json:"version,omitempty"`
}

// storedMessage flattens a schema.Message to a (role, text) pair. Richer
// message typing (tool calls, metadata) is deliberately dropped; only the
// roles "user" and "assistant" survive a round trip.
type storedMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Marshal serializes a session for the store.
func Marshal(s *Session) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("nil session")
	}

	rec := record{
		DetectedLanguage:       string(s.Language),
		LanguageLocked:         s.LanguageLocked,
		FirstTurnPending:       boolPtr(s.FirstTurnPending),
		DialogueMode:           string(s.Mode),
		QuestionnaireCompleted: s.QuestionnaireCompleted,
		MemorySummary:          s.Summary,
		Version:                recordVersion,
	}
	if !s.Client.IsEmpty() {
		rec.ClientContext = s.Client
	}
	if !s.LastUpdated.IsZero() {
		rec.LastUpdated = s.LastUpdated.Unix()
	}

	for _, msg := range s.Messages {
		if msg == nil || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		role := roleToWire(msg.Role)
		if role == "" {
			continue
		}
		rec.MemoryMessages = append(rec.MemoryMessages, storedMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	return json.Marshal(rec)
}

// Unmarshal restores a session from stored bytes. Every field is
// optional: records written by older versions deserialize with the
// documented defaults for the fields they lack. Mode is always re-derived
// from questionnaire_completed, never trusted from the stored string.
func Unmarshal(data []byte) (*Session, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal session record: %w", err)
	}

	s := New()
	s.Language = model.ParseLanguage(rec.DetectedLanguage)
	s.LanguageLocked = rec.LanguageLocked
	if rec.FirstTurnPending != nil {
		s.FirstTurnPending = *rec.FirstTurnPending
	}
	s.QuestionnaireCompleted = rec.QuestionnaireCompleted
	if rec.QuestionnaireCompleted {
		s.Mode = model.ModeAssistance
	} else {
		s.Mode = model.ModeQuestionnaire
	}
	if !rec.ClientContext.IsEmpty() {
		s.Client = rec.ClientContext
	}
	s.Summary = rec.MemorySummary
	if rec.LastUpdated != 0 {
		s.LastUpdated = time.Unix(rec.LastUpdated, 0).UTC()
	}

	for _, sm := range rec.MemoryMessages {
		msg := wireToMessage(sm)
		if msg != nil {
			s.Messages = append(s.Messages, msg)
		}
	}

	return s, nil
}

func roleToWire(role schema.RoleType) string {
	switch role {
	case schema.User:
		return "user"
	case schema.Assistant:
		return "assistant"
	default:
		return ""
	}
}

func wireToMessage(sm storedMessage) *schema.Message {
	switch strings.ToLower(strings.TrimSpace(sm.Role)) {
	case "user", "human":
		return schema.UserMessage(sm.Content)
	case "assistant", "agent", "ai":
		return schema.AssistantMessage(sm.Content, nil)
	default:
		return nil
	}
}

func boolPtr(b bool) *bool {
	return &b
}
