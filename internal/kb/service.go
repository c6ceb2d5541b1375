package kb

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/prompts"
)

const personaFR = `Tu es MarIA de la CCI France-Colombie.
Réponds de manière claire et simple en te basant sur les informations fournies.
Sois naturelle et directe, sans être trop formelle.`

const personaES = `Eres MarIA de la CCI Francia-Colombia.
Responde de manera clara y simple basándote en la información proporcionada.
Sé natural y directa, sin ser demasiado formal.`

// Retriever is the slice of Store the service needs; narrowed so tests
// can substitute a canned document source.
type Retriever interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// Service turns a free-text query into a short natural-language answer
// synthesized from retrieved passages.
type Service struct {
	retriever Retriever
	cm        einomodel.BaseChatModel
}

// NewService wires retrieval and answer synthesis together.
func NewService(retriever Retriever, cm einomodel.BaseChatModel) *Service {
	return &Service{retriever: retriever, cm: cm}
}

// Answer runs one retrieval-augmented query in the given language. An
// empty result set yields the localized nothing-found message rather
// than an error; retrieval and synthesis failures return errors for the
// caller (the tool layer) to convert into tool-error strings.
func (s *Service) Answer(ctx context.Context, query string, lang model.Language) (string, error) {
	docs, err := s.retriever.Search(ctx, query)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return prompts.NothingFound(lang), nil
	}

	persona := personaFR
	if lang == model.Spanish {
		persona = personaES
	}

	out, err := s.cm.Generate(ctx, []*schema.Message{
		schema.SystemMessage(persona),
		schema.UserMessage(fmt.Sprintf("Question: %s\n\nInformations: %s", query, strings.Join(docs, "\n\n"))),
	})
	if err != nil {
		return "", fmt.Errorf("synthesize answer: %w", err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", fmt.Errorf("synthesize answer: empty model output")
	}
	return out.Content, nil
}
