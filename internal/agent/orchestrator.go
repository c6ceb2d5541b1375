package agent

import (
	"context"
	"time"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/language"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/memory"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/prompts"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/repo"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/session"
	logx "github.com/Mincaai-cci-col/CCI-colombia-agent/pkg/logger"
)

// ContactDirectory resolves a WhatsApp user id to known client details.
// Lookups are best effort: implementations return (nil, nil) when the
// directory has nothing, and the agent proceeds without context.
type ContactDirectory interface {
	Lookup(ctx context.Context, userID string) (*model.ClientInfo, error)
}

// Orchestrator is the stateless per-request entry point: load or create
// the session, run the turn, persist, reply. Instances are safe for
// concurrent use; all mutable state is per call.
type Orchestrator struct {
	sessions   repo.SessionRepository
	builder    HarnessBuilder
	detector   LanguageDetector
	summarizer memory.Summarizer
	contacts   ContactDirectory

	memoryTokenBudget int
}

func NewOrchestrator(sessions repo.SessionRepository, builder HarnessBuilder, detector LanguageDetector, summarizer memory.Summarizer, contacts ContactDirectory, memoryTokenBudget int) *Orchestrator {
	return &Orchestrator{
		sessions:          sessions,
		builder:           builder,
		detector:          detector,
		summarizer:        summarizer,
		contacts:          contacts,
		memoryTokenBudget: memoryTokenBudget,
	}
}

// Handle processes one inbound message and always produces a reply the
// user can read: any internal failure, panic included, degrades to a
// localized apology.
func (o *Orchestrator) Handle(ctx context.Context, userID, userText string) (reply string) {
	lang := model.French

	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("user_id", userID).Any("panic", r).Msg("Recovered panic in turn processing")
			reply = prompts.Apology(lang)
		}
	}()

	s := o.loadOrCreate(ctx, userID)
	lang = s.Language

	core, err := NewCore(ctx, s, o.builder, o.detector, o.summarizer, o.memoryTokenBudget)
	if err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("Failed to build conversation core")
		return prompts.Apology(lang)
	}

	reply = core.ProcessTurn(ctx, userText)
	lang = s.Language

	s.LastUpdated = time.Now().UTC()
	if err := o.sessions.Save(ctx, userID, s); err != nil {
		// The reply is already computed; losing one save costs at most
		// this turn's context on the next message.
		logx.Error().Err(err).Str("user_id", userID).Msg("Failed to persist session")
	}

	return reply
}

// Status returns the stored session, or nil when the user has none.
func (o *Orchestrator) Status(ctx context.Context, userID string) (*session.Session, error) {
	return o.sessions.Load(ctx, userID)
}

// Reset deletes the stored session so the next message starts over.
func (o *Orchestrator) Reset(ctx context.Context, userID string) error {
	return o.sessions.Delete(ctx, userID)
}

// Welcome returns the static bilingual greeting shown before any turn.
func (o *Orchestrator) Welcome() string {
	return language.WelcomeMessage()
}

func (o *Orchestrator) loadOrCreate(ctx context.Context, userID string) *session.Session {
	s, err := o.sessions.Load(ctx, userID)
	if err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("Session load failed - starting fresh")
	}
	if s != nil {
		return s
	}

	s = session.New()
	if o.contacts != nil {
		if ci, err := o.contacts.Lookup(ctx, userID); err == nil && ci != nil && !ci.IsEmpty() {
			s.Client = ci
			logx.Debug().Str("user_id", userID).Msg("Client context attached from contact directory")
		}
	}
	return s
}
