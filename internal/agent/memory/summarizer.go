package memory

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const summaryPrompt = `You maintain a running summary of a business conversation between a chamber-of-commerce assistant and a member, held in French or Spanish.
Fold the new conversation lines into the current summary. Keep every fact the member stated (company, sector, needs, answers given), stay in the conversation's language, and keep the result under 200 words.
Output only the updated summary text.`

// LLMSummarizer folds evicted turns into the running summary with a
// small chat model.
type LLMSummarizer struct {
	cm einomodel.BaseChatModel
}

// NewLLMSummarizer wraps the given model as a Summarizer.
func NewLLMSummarizer(cm einomodel.BaseChatModel) *LLMSummarizer {
	return &LLMSummarizer{cm: cm}
}

func (s *LLMSummarizer) Summarize(ctx context.Context, existing string, evicted []*schema.Message) (string, error) {
	if s.cm == nil {
		return "", fmt.Errorf("summarizer model not configured")
	}

	var sb strings.Builder
	if existing != "" {
		sb.WriteString("Current summary:\n")
		sb.WriteString(existing)
		sb.WriteString("\n\n")
	}
	sb.WriteString("New lines:\n")
	for _, msg := range evicted {
		if msg == nil || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		sb.WriteString(string(msg.Role))
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}

	out, err := s.cm.Generate(ctx, []*schema.Message{
		schema.SystemMessage(summaryPrompt),
		schema.UserMessage(sb.String()),
	})
	if err != nil {
		return "", fmt.Errorf("summarize memory: %w", err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", fmt.Errorf("summarize memory: empty model output")
	}
	return strings.TrimSpace(out.Content), nil
}
