package nodes

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
)

func TestNormalizeMaxToolCalls(t *testing.T) {
	assert.Equal(t, 3, normalizeMaxToolCalls(0))
	assert.Equal(t, 3, normalizeMaxToolCalls(-5))
	assert.Equal(t, 1, normalizeMaxToolCalls(1))
	assert.Equal(t, 7, normalizeMaxToolCalls(7))
}

func TestCheckAndMarkToolLimitLatchesOnce(t *testing.T) {
	state := &model.TurnState{ToolCallCount: 3}

	assert.True(t, checkAndMarkToolLimit(state, 3), "first check at the cap fires")
	assert.True(t, state.ToolCallLimitReached)
	assert.False(t, checkAndMarkToolLimit(state, 3), "latched: never fires twice")
}

func TestCheckAndMarkToolLimitUnderCap(t *testing.T) {
	state := &model.TurnState{ToolCallCount: 2}
	assert.False(t, checkAndMarkToolLimit(state, 3))
	assert.False(t, state.ToolCallLimitReached)
}

func TestIncrementToolCallAndCheck(t *testing.T) {
	state := &model.TurnState{}

	assert.False(t, incrementToolCallAndCheck(state, 3))
	assert.False(t, incrementToolCallAndCheck(state, 3))
	assert.False(t, incrementToolCallAndCheck(state, 3))
	assert.True(t, incrementToolCallAndCheck(state, 3), "fourth attempt exceeds the cap")
	assert.Equal(t, 4, state.ToolCallCount)
}

func TestResponsePreHandlerAccumulatesHistory(t *testing.T) {
	h := NewResponseChatModelPreHandler(3)
	state := &model.TurnState{}

	in := []*schema.Message{
		schema.SystemMessage("system"),
		schema.UserMessage("hola"),
	}
	out, err := h(context.Background(), in, state)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Len(t, state.History, 2)
}

func TestResponsePreHandlerInjectsWrapUpNoticeOnce(t *testing.T) {
	h := NewResponseChatModelPreHandler(2)
	state := &model.TurnState{ToolCallCount: 2}

	out, err := h(context.Background(), []*schema.Message{schema.UserMessage("q")}, state)
	require.NoError(t, err)

	last := out[len(out)-1]
	assert.Equal(t, schema.System, last.Role)
	assert.Contains(t, last.Content, "maximum tool call limit (2)")
	assert.True(t, state.ToolCallLimitReached)

	// A second pass must not inject another notice.
	out, err = h(context.Background(), nil, state)
	require.NoError(t, err)
	notices := 0
	for _, m := range out {
		if m.Role == schema.System && strings.Contains(m.Content, "SYSTEM NOTICE") {
			notices++
		}
	}
	assert.Equal(t, 1, notices)
}

func TestResponsePreHandlerRepairsToolCallID(t *testing.T) {
	h := NewResponseChatModelPreHandler(3)
	state := &model.TurnState{
		History: []*schema.Message{
			{Role: schema.Assistant, ToolCalls: []schema.ToolCall{{ID: "call_7"}}},
		},
	}

	toolResult := &schema.Message{Role: schema.Tool, Content: "result"}
	_, err := h(context.Background(), []*schema.Message{toolResult}, state)
	require.NoError(t, err)
	assert.Equal(t, "call_7", toolResult.ToolCallID)
}

func TestResponsePostHandlerSynthesizesToolCallIDs(t *testing.T) {
	h := NewResponseChatModelPostHandler("gemini-2.5-flash")
	state := &model.TurnState{}

	out := &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{ID: ""},
			{ID: "keep-me"},
			{ID: " "},
		},
	}
	got, err := h(context.Background(), out, state)
	require.NoError(t, err)

	assert.Equal(t, "call_1", got.ToolCalls[0].ID)
	assert.Equal(t, "keep-me", got.ToolCalls[1].ID)
	assert.Equal(t, "call_2", got.ToolCalls[2].ID)
	assert.Len(t, state.History, 1)
}

func TestResponsePostHandlerAccumulatesCost(t *testing.T) {
	h := NewResponseChatModelPostHandler("gemini-2.5-flash")
	state := &model.TurnState{}

	out := schema.AssistantMessage("done", nil)
	out.ResponseMeta = &schema.ResponseMeta{
		Usage: &schema.TokenUsage{PromptTokens: 1000, CompletionTokens: 500, TotalTokens: 1500},
	}
	_, err := h(context.Background(), out, state)
	require.NoError(t, err)
	assert.Greater(t, state.TotalCostUSD, 0.0)
}

func TestToolExecutorPreHandlerCounts(t *testing.T) {
	h := NewToolExecutorPreHandler(3)
	state := &model.TurnState{}

	msg := &schema.Message{Role: schema.Assistant}
	got, err := h(context.Background(), msg, state)
	require.NoError(t, err)
	assert.Same(t, msg, got)
	assert.Equal(t, 1, state.ToolCallCount)
}
