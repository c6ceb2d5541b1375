// Package agent wires the per-user conversation pipeline: restore the
// session, run one turn through the reasoning harness, apply the memory
// and mode-transition rules, and hand the updated session back for
// persistence.
package agent

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/memory"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/prompts"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/session"
	logx "github.com/Mincaai-cci-col/CCI-colombia-agent/pkg/logger"
)

// HarnessBuilder produces an immutable turn harness for a (language,
// mode) pair. The graph package provides the production implementation.
type HarnessBuilder interface {
	Build(ctx context.Context, lang model.Language, mode model.Mode, client *model.ClientInfo) (*model.Harness, error)
}

// LanguageDetector decides the conversation language from the first
// user message.
type LanguageDetector interface {
	Detect(ctx context.Context, userText string) model.Language
}

// Core runs turns for a single restored session. It is built per request
// and discarded afterwards; all durable state lives in the session.
type Core struct {
	sess    *session.Session
	mem     *memory.Buffer
	harness *model.Harness

	builder  HarnessBuilder
	detector LanguageDetector
}

// NewCore restores the conversational memory from the session and builds
// the harness for its current language and mode.
func NewCore(ctx context.Context, s *session.Session, builder HarnessBuilder, detector LanguageDetector, summarizer memory.Summarizer, tokenBudget int) (*Core, error) {
	mem := memory.Restore(tokenBudget, summarizer, s.Messages, s.Summary)

	h, err := builder.Build(ctx, s.Language, s.Mode, s.Client)
	if err != nil {
		return nil, err
	}

	return &Core{
		sess:     s,
		mem:      mem,
		harness:  h,
		builder:  builder,
		detector: detector,
	}, nil
}

// ProcessTurn runs one user message through the harness and returns the
// assistant reply. Failures inside the loop degrade to a localized
// apology; the turn is still recorded so the transcript matches what the
// user saw.
func (c *Core) ProcessTurn(ctx context.Context, userText string) string {
	if c.sess.FirstTurnPending {
		lang := c.detector.Detect(ctx, userText)
		c.sess.LockLanguage(lang)
		logx.Info().Str("language", string(lang)).Msg("Conversation language locked")
		c.rebuildHarness(ctx)
	}

	reply := c.runHarness(ctx, userText)

	c.mem.Append(schema.UserMessage(userText))
	c.mem.Append(schema.AssistantMessage(reply, nil))
	if err := c.mem.Compress(ctx); err != nil {
		// Keep the raw window; summarization will be retried next turn.
		logx.Warn().Err(err).Msg("Memory compression failed - keeping raw window")
	}

	if session.ApplyTransition(c.sess, reply) {
		logx.Info().Msg("Questionnaire completed - switching to assistance mode")
	}

	c.sess.Messages = c.mem.Messages()
	c.sess.Summary = c.mem.Summary()

	return reply
}

func (c *Core) runHarness(ctx context.Context, userText string) string {
	msgs := c.assemble(userText)

	out, err := c.harness.Runner.Run(ctx, msgs)
	if err != nil {
		logx.Error().Err(err).Msg("Turn execution failed")
		return prompts.Apology(c.sess.Language)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		logx.Warn().Msg("Model returned an empty reply")
		return prompts.Apology(c.sess.Language)
	}
	return out.Content
}

// assemble builds the turn context: system prompt, summary preamble when
// a summary exists, the raw window, then the incoming message.
func (c *Core) assemble(userText string) []*schema.Message {
	window := c.mem.Messages()
	msgs := make([]*schema.Message, 0, len(window)+3)

	msgs = append(msgs, schema.SystemMessage(c.harness.SystemPrompt))
	if summary := c.mem.Summary(); summary != "" {
		msgs = append(msgs, schema.SystemMessage(prompts.SummaryPreamble(c.sess.Language)+"\n"+summary))
	}
	msgs = append(msgs, window...)
	msgs = append(msgs, schema.UserMessage(userText))
	return msgs
}

// rebuildHarness swaps in a harness matching the session's current
// language and mode, keeping the previous one when the rebuild fails.
func (c *Core) rebuildHarness(ctx context.Context) {
	if c.harness.Language == c.sess.Language && c.harness.Mode == c.sess.Mode {
		return
	}
	h, err := c.builder.Build(ctx, c.sess.Language, c.sess.Mode, c.sess.Client)
	if err != nil {
		logx.Error().Err(err).
			Str("language", string(c.sess.Language)).
			Str("mode", string(c.sess.Mode)).
			Msg("Harness rebuild failed - keeping previous harness")
		return
	}
	c.harness = h
}
