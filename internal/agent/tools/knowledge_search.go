// Package tools defines the fixed toolset bound to the response model.
package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/prompts"
	logx "github.com/Mincaai-cci-col/CCI-colombia-agent/pkg/logger"
)

const ToolKnowledgeSearch = "knowledge_base_search"

// KnowledgeBase is the consumer-side view of the retrieval service.
type KnowledgeBase interface {
	Answer(ctx context.Context, query string, lang model.Language) (string, error)
}

type KnowledgeSearchInput struct {
	Query string `json:"query"`
}

type KnowledgeSearchOutput struct {
	Answer string `json:"answer"`
}

// NewKnowledgeSearchTool builds the knowledge base search tool for one
// session language. The language is threaded in explicitly so harnesses
// for different users never share mutable language state. A failed
// search surfaces as a localized tool-error string returned to the
// reasoning loop, never as an error that aborts the turn.
func NewKnowledgeSearchTool(kb KnowledgeBase, lang model.Language) tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolKnowledgeSearch,
			Desc: "Recherche d'informations dans la base de connaissances de la CCI France-Colombie / " +
				"Búsqueda de información en la base de conocimientos de la CCI Francia-Colombia. " +
				"Use this tool for any factual question about services, events, history, contacts or practical information.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Question ou mots-clés à rechercher / Pregunta o palabras clave a buscar. Use simple, direct terms.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *KnowledgeSearchInput) (*KnowledgeSearchOutput, error) {
			if in == nil || in.Query == "" {
				return &KnowledgeSearchOutput{Answer: prompts.SearchError(lang)}, nil
			}
			if kb == nil {
				return &KnowledgeSearchOutput{Answer: prompts.NothingFound(lang)}, nil
			}
			answer, err := kb.Answer(ctx, in.Query, lang)
			if err != nil {
				logx.Error().Err(err).Str("query", in.Query).Msg("knowledge base search failed")
				return &KnowledgeSearchOutput{Answer: prompts.SearchError(lang)}, nil
			}
			return &KnowledgeSearchOutput{Answer: answer}, nil
		},
	)
}

// AgentTools returns the fixed toolset for one session language.
func AgentTools(kb KnowledgeBase, lang model.Language) []tool.BaseTool {
	return []tool.BaseTool{
		NewKnowledgeSearchTool(kb, lang),
	}
}

// Infos collects the ToolInfo of every tool for model binding.
func Infos(ctx context.Context, ts []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}
