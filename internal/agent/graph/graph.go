package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/graph/nodes"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/graph/observers"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/prompts"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/tools"
	logx "github.com/Mincaai-cci-col/CCI-colombia-agent/pkg/logger"
)

// Builder assembles immutable turn harnesses: a rendered system prompt and
// a compiled reasoning graph with language-scoped tools bound to a fresh
// response model. One conversation's harness is never shared with another.
type Builder struct {
	models       *nodes.ChatModels
	kb           tools.KnowledgeBase
	maxToolCalls int
	now          func() time.Time
}

// NewBuilder creates a harness builder. kb may be nil; the knowledge tool
// then reports the localized "nothing found" answer instead of searching.
func NewBuilder(models *nodes.ChatModels, kb tools.KnowledgeBase, maxToolCalls int) *Builder {
	return &Builder{
		models:       models,
		kb:           kb,
		maxToolCalls: maxToolCalls,
		now:          time.Now,
	}
}

// Build renders the prompt for the (language, mode) pair, binds the tools
// for that language to a fresh response model, and compiles the turn graph.
func (b *Builder) Build(ctx context.Context, lang model.Language, mode model.Mode, client *model.ClientInfo) (*model.Harness, error) {
	systemPrompt, err := prompts.Render(ctx, mode, lang, client, b.now())
	if err != nil {
		if !errors.Is(err, prompts.ErrPromptNotFound) {
			return nil, fmt.Errorf("render system prompt: %w", err)
		}
		logx.Warn().
			Str("mode", string(mode)).
			Str("language", string(lang)).
			Msg("Prompt template missing - using generic fallback")
		systemPrompt = prompts.Generic
	}

	agentTools := tools.AgentTools(b.kb, lang)
	toolInfos, err := tools.Infos(ctx, agentTools)
	if err != nil {
		logx.Error().Err(err).Msg("Failed to get tool infos")
		return nil, fmt.Errorf("failed to get tool infos: %w", err)
	}

	respModel, err := b.models.NewResponseModel(ctx)
	if err != nil {
		return nil, err
	}
	if err := respModel.BindTools(toolInfos); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools to response model")
		return nil, fmt.Errorf("failed to bind tools: %w", err)
	}

	runnable, err := buildTurnGraph(ctx, &turnGraphConfig{
		ResponseModel:     respModel,
		ResponseModelName: b.models.ResponseModelName,
		Tools:             agentTools,
		MaxToolCalls:      b.maxToolCalls,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().
		Str("mode", string(mode)).
		Str("language", string(lang)).
		Msg("Turn harness built")

	return &model.Harness{
		Language:     lang,
		Mode:         mode,
		SystemPrompt: systemPrompt,
		Runner:       &graphRunner{runnable: runnable},
	}, nil
}

type graphRunner struct {
	runnable compose.Runnable[[]*schema.Message, *schema.Message]
}

func (r *graphRunner) Run(ctx context.Context, msgs []*schema.Message) (*schema.Message, error) {
	return r.runnable.Invoke(ctx, msgs, compose.WithCallbacks(observers.NewAllCallbacks()))
}

type turnGraphConfig struct {
	ResponseModel     einomodel.BaseChatModel
	ResponseModelName string
	Tools             []tool.BaseTool
	MaxToolCalls      int
}

// buildTurnGraph compiles the model/tool loop:
//
//	START -> response model -> (tool calls?) -> tool executor -> response model
//	                        -> END
func buildTurnGraph(ctx context.Context, config *turnGraphConfig) (compose.Runnable[[]*schema.Message, *schema.Message], error) {
	if config == nil || config.ResponseModel == nil {
		return nil, fmt.Errorf("turn graph config is not properly initialized")
	}

	g := compose.NewGraph[[]*schema.Message, *schema.Message](
		compose.WithGenLocalState(func(ctx context.Context) *model.TurnState {
			return &model.TurnState{}
		}),
	)

	toolsNode, err := compose.NewToolNode(ctx, &compose.ToolsNodeConfig{
		Tools:               config.Tools,
		ExecuteSequentially: true,
		UnknownToolsHandler: func(ctx context.Context, name, input string) (string, error) {
			// Gracefully handle hallucinated or malformed tool calls
			logx.Warn().
				Str("tool_name", name).
				Str("arguments", input).
				Msg("Unknown or invalid tool call; returning fallback result")
			return fmt.Sprintf("{\"error\":\"unknown_tool\",\"name\":%q,\"note\":\"ignored\"}", name), nil
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Failed to create tools node")
		return nil, fmt.Errorf("failed to create tools node: %w", err)
	}

	g.AddChatModelNode(nodes.NodeResponseChatModel, config.ResponseModel,
		compose.WithStatePreHandler(nodes.NewResponseChatModelPreHandler(config.MaxToolCalls)),
		compose.WithStatePostHandler(nodes.NewResponseChatModelPostHandler(config.ResponseModelName)),
	)
	g.AddToolsNode(nodes.NodeToolExecutor, toolsNode,
		compose.WithStatePreHandler(nodes.NewToolExecutorPreHandler(config.MaxToolCalls)),
	)

	g.AddEdge(compose.START, nodes.NodeResponseChatModel)
	g.AddEdge(nodes.NodeToolExecutor, nodes.NodeResponseChatModel)

	decisionBranch := compose.NewGraphBranch(
		nodes.NewToolExecutorCondition(),
		map[string]bool{
			nodes.NodeToolExecutor: true,
			compose.END:            true,
		},
	)
	if err := g.AddBranch(nodes.NodeResponseChatModel, decisionBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding decision branch")
		return nil, fmt.Errorf("error adding decision branch: %w", err)
	}

	// Limit total run steps to avoid infinite loops in tool retries
	maxSteps := 10 + config.MaxToolCalls*2
	if maxSteps < 20 {
		maxSteps = 20
	}

	runnable, err := g.Compile(ctx, compose.WithMaxRunSteps(maxSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Turn graph compiled successfully")
	return runnable, nil
}
