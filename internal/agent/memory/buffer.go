// Package memory keeps the conversational window of one session and
// degrades it lazily into a running summary once a token budget is
// exceeded.
package memory

import (
	"context"
	"unicode/utf8"

	"github.com/cloudwego/eino/schema"

	logx "github.com/Mincaai-cci-col/CCI-colombia-agent/pkg/logger"
)

// Summarizer folds evicted messages into an existing summary. The new
// summary must subsume the old one: overflow events update the digest
// monotonically rather than replacing it.
type Summarizer interface {
	Summarize(ctx context.Context, existing string, evicted []*schema.Message) (string, error)
}

// Buffer holds the raw message window plus the running summary.
type Buffer struct {
	budget     int
	summarizer Summarizer
	messages   []*schema.Message
	summary    string
}

// NewBuffer returns an empty buffer with the given token budget.
func NewBuffer(budget int, s Summarizer) *Buffer {
	return &Buffer{budget: budget, summarizer: s}
}

// Restore rebuilds a buffer from persisted state so the next turn
// behaves as if the process had never restarted.
func Restore(budget int, s Summarizer, messages []*schema.Message, summary string) *Buffer {
	b := NewBuffer(budget, s)
	b.messages = append(b.messages, messages...)
	b.summary = summary
	return b
}

// Append adds one message to the window. Compression is deferred to
// Compress so a turn's user and assistant messages land atomically.
func (b *Buffer) Append(msg *schema.Message) {
	if msg == nil {
		return
	}
	b.messages = append(b.messages, msg)
}

// Messages returns the raw window in chronological order.
func (b *Buffer) Messages() []*schema.Message {
	return b.messages
}

// Summary returns the digest of pruned turns, empty until the budget has
// overflowed at least once.
func (b *Buffer) Summary() string {
	return b.summary
}

// Clear removes both messages and summary.
func (b *Buffer) Clear() {
	b.messages = nil
	b.summary = ""
}

// Compress folds the oldest portion of the window into the summary while
// the window exceeds the token budget. When the summarizer fails, the
// raw messages are kept instead: losing budget discipline is preferable
// to losing factual continuity.
func (b *Buffer) Compress(ctx context.Context) error {
	if b.summarizer == nil || b.budget <= 0 {
		return nil
	}

	var evicted []*schema.Message
	for len(b.messages) > 2 && b.windowTokens() > b.budget {
		evicted = append(evicted, b.messages[0])
		b.messages = b.messages[1:]
	}
	if len(evicted) == 0 {
		return nil
	}

	updated, err := b.summarizer.Summarize(ctx, b.summary, evicted)
	if err != nil {
		// Put the window back; continuity beats budget.
		b.messages = append(evicted, b.messages...)
		logx.Warn().Err(err).Int("evicted", len(evicted)).Msg("memory summarization failed, keeping raw messages")
		return err
	}

	b.summary = updated
	logx.Debug().Int("evicted", len(evicted)).Int("window", len(b.messages)).Msg("memory compressed into summary")
	return nil
}

func (b *Buffer) windowTokens() int {
	total := 0
	for _, msg := range b.messages {
		if msg != nil {
			total += EstimateTokens(msg.Content)
		}
	}
	return total
}

// EstimateTokens approximates token usage without a tokenizer: roughly
// one token per four characters, plus a small per-message overhead.
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text)/4 + 4
}
