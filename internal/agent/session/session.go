// Package session holds the persisted conversation state of one user and
// the rules that mutate it: serialization to and from the session store,
// and the questionnaire-to-assistance mode transition.
package session

import (
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
)

// Session is the unit of persistence, one per user id. A zero-history
// user without a stored record is represented by New(); absence of a
// record is the initial state, not an error.
type Session struct {
	Language               model.Language
	LanguageLocked         bool
	FirstTurnPending       bool
	Mode                   model.Mode
	QuestionnaireCompleted bool
	Client                 *model.ClientInfo

	// Messages is the raw conversational window, insertion order =
	// chronological. Summary digests turns that were pruned from it.
	Messages []*schema.Message
	Summary  string

	// LastUpdated is set by the repository on every write. The agent
	// itself never reads it.
	LastUpdated time.Time
}

// New returns a session with the documented defaults: French, language
// not yet detected, questionnaire mode, empty memory.
func New() *Session {
	return &Session{
		Language:         model.French,
		FirstTurnPending: true,
		Mode:             model.ModeQuestionnaire,
	}
}

// LockLanguage records the outcome of first-turn language detection.
// After this the language never changes for the session lifetime.
func (s *Session) LockLanguage(lang model.Language) {
	s.Language = lang
	s.LanguageLocked = true
	s.FirstTurnPending = false
}

// CompleteQuestionnaire flips the session into assistance mode. The
// transition is one-way: calling it on an assistance session is a no-op.
func (s *Session) CompleteQuestionnaire() {
	s.Mode = model.ModeAssistance
	s.QuestionnaireCompleted = true
}

// Reset restores the defaults for a fresh conversation.
func (s *Session) Reset() {
	*s = *New()
}
