package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// TurnRunner executes one assembled turn context through the reasoning
// loop and returns the final assistant message.
type TurnRunner interface {
	Run(ctx context.Context, msgs []*schema.Message) (*schema.Message, error)
}

// Harness is the executable configuration for a conversation's current
// (language, mode) pair: the rendered system prompt plus the compiled
// loop bound to language-scoped tools. A harness is immutable; when the
// language or mode changes the owner builds a new one and swaps it in.
type Harness struct {
	Language     Language
	Mode         Mode
	SystemPrompt string
	Runner       TurnRunner
}
