// Package language classifies the first user message of a session as
// French or Spanish. The classifier model is consulted once; any failure
// degrades to a keyword heuristic and ultimately to French.
package language

import (
	"context"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
	logx "github.com/Mincaai-cci-col/CCI-colombia-agent/pkg/logger"
)

const classifierPrompt = `Tu es un détecteur de langue expert.
Analyse le texte fourni et détermine s'il est en français (fr) ou en espagnol (es).
Réponds UNIQUEMENT avec 'fr' ou 'es', rien d'autre.

Exemples:
- "Hola, como estas?" -> es
- "Buenos días" -> es
- "Bonjour, comment allez-vous?" -> fr
- "Merci beaucoup" -> fr
- "Sí, tengo tiempo" -> es
- "Oui, j'ai du temps" -> fr`

// spanishHints drive the local fallback when the classifier is
// unavailable. Presence of any hint word classifies the text as Spanish.
var spanishHints = []string{
	"hola", "estoy", "soy", "quiero", "necesito", "gracias",
	"buenos", "buenas", "tengo", "listo", "lista", "empresa",
}

// Detector classifies a single utterance. A nil classifier model is
// valid and means heuristic-only operation.
type Detector struct {
	cm einomodel.BaseChatModel
}

// NewDetector builds a detector around the given classifier model.
func NewDetector(cm einomodel.BaseChatModel) *Detector {
	return &Detector{cm: cm}
}

// Detect returns exactly one of the two supported locales. Classifier
// failures never propagate: they fall back to the keyword heuristic,
// which itself defaults to French for anything ambiguous.
func (d *Detector) Detect(ctx context.Context, userText string) model.Language {
	if d == nil || d.cm == nil {
		return Heuristic(userText)
	}

	out, err := d.cm.Generate(ctx, []*schema.Message{
		schema.SystemMessage(classifierPrompt),
		schema.UserMessage("Texte à analyser: '" + userText + "'"),
	})
	if err != nil || out == nil {
		logx.Warn().Err(err).Msg("language classifier unavailable, using heuristic")
		return Heuristic(userText)
	}

	switch strings.ToLower(strings.TrimSpace(out.Content)) {
	case "es":
		return model.Spanish
	case "fr":
		return model.French
	default:
		logx.Warn().Str("reply", out.Content).Msg("unexpected classifier reply, using heuristic")
		return Heuristic(userText)
	}
}

// Heuristic is the local keyword fallback. Any input not confidently
// classified as Spanish defaults to French.
func Heuristic(userText string) model.Language {
	text := strings.ToLower(userText)
	for _, hint := range spanishHints {
		if containsWord(text, hint) {
			return model.Spanish
		}
	}
	return model.French
}

// containsWord matches hint as a whole word so that e.g. the French
// "solistes" does not trip the "listo" hint.
func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isLetter(text[start-1])
		afterOK := end == len(text) || !isLetter(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}
