// Package prompts maps (mode, language) to system-prompt templates and
// renders them with the client-info block and the current Bogotá date.
package prompts

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
)

//go:embed template/*.txt
var templates embed.FS

// ErrPromptNotFound signals that the backing template for a (mode,
// language) pair is missing. Callers fall back to Generic rather than
// failing the turn.
var ErrPromptNotFound = errors.New("prompt template not found")

// Generic is the hardcoded fallback system prompt used when a template
// cannot be loaded.
const Generic = "Tu es MarIA, l'assistante virtuelle de la CCI France-Colombie. " +
	"Eres MarIA, la asistente virtual de la CCI Francia-Colombia. " +
	"Réponds de manière professionnelle et chaleureuse. Responde de manera profesional y cálida."

// businessTimezone is the timezone used for the current-date variable.
const businessTimezone = "America/Bogota"

// Resolve returns the template name for a (mode, language) pair. Four
// combinations are valid; anything unnormalised collapses to the
// questionnaire/French default.
func Resolve(mode model.Mode, lang model.Language) string {
	if mode == model.ModeAssistance {
		if lang == model.Spanish {
			return "assistance_es"
		}
		return "assistance_fr"
	}
	if lang == model.Spanish {
		return "questionnaire_es"
	}
	return "questionnaire_fr"
}

// Render resolves and renders the system prompt for the given mode,
// language and client context. Rendering goes through the Eino prompt
// component so prompt callbacks fire. A missing template returns
// ErrPromptNotFound; any other render failure is reported as-is.
func Render(ctx context.Context, mode model.Mode, lang model.Language, client *model.ClientInfo, now time.Time) (string, error) {
	name := Resolve(mode, lang)
	raw, err := templates.ReadFile("template/" + name + ".txt")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrPromptNotFound, name)
	}

	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(string(raw)),
	)
	vars := map[string]any{
		"ClientInfo":  ClientBlock(client, lang),
		"CurrentDate": FormatBusinessDate(now),
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("render prompt %s: empty result", name)
	}
	return msgs[0].Content, nil
}

// FormatBusinessDate renders a timestamp in the business timezone as
// DD/MM/YYYY HH:MM. If the timezone database is unavailable the UTC-5
// fixed offset is used, which matches Colombia year-round.
func FormatBusinessDate(now time.Time) string {
	loc, err := time.LoadLocation(businessTimezone)
	if err != nil {
		loc = time.FixedZone("COT", -5*60*60)
	}
	return now.In(loc).Format("02/01/2006 15:04")
}
