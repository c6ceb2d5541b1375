package session

import (
	"strings"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
)

// Phrase markers scanned in the agent's rendered output to decide the
// questionnaire-to-assistance transition. The lists are a fixed part of
// the observable contract; their behavior is tested against production
// prompts and must not be "improved".
var (
	recommendationMarkers = []string{
		// fr
		"je vous recommande",
		"je vous conseille",
		"je te recommande",
		"nous vous recommandons",
		"nous recommandons",
		// es
		"te recomiendo",
		"le recomiendo",
		"les recomiendo",
		"te recomendamos",
		"le recomendamos",
		"recomiendo que",
	}

	nextStepMarkers = []string{
		// fr
		"prochaine étape",
		"prochaines étapes",
		"étape suivante",
		"pour la suite",
		"n'hésitez pas à contacter",
		// es
		"próximo paso",
		"próximos pasos",
		"siguiente paso",
		"para continuar",
		"no dudes en contactar",
		"no dude en contactar",
	}

	advisorMarkers = []string{
		// fr
		"votre conseiller",
		"votre conseillère",
		"notre conseiller",
		"notre conseillère",
		// es
		"tu asesor",
		"tu asesora",
		"su asesor",
		"su asesora",
		"nuestro asesor",
		"nuestra asesora",
	}

	contactLinkMarkers = []string{
		"wa.me/",
		"api.whatsapp.com",
		"whatsapp://send",
	}
)

// ShouldTransition inspects the agent's rendered output text (never the
// user's input) for completion markers. The transition fires when a
// recommendation phrase is accompanied by a next-step phrase, a contact
// link, or an advisor mention, or when a contact link appears on its
// own. Both lists span the two locales; the output language is locked by
// the time this runs, so cross-language matches cost nothing.
func ShouldTransition(agentText string) bool {
	text := strings.ToLower(agentText)

	if containsAny(text, contactLinkMarkers) {
		return true
	}

	if !containsAny(text, recommendationMarkers) {
		return false
	}

	return containsAny(text, nextStepMarkers) || containsAny(text, advisorMarkers)
}

// ApplyTransition evaluates ShouldTransition against one agent reply and
// mutates the session accordingly. It reports whether the mode flipped
// during this call; once a session is in assistance the check is a no-op,
// keeping the transition idempotent and the mode monotonic.
func ApplyTransition(s *Session, agentText string) bool {
	if s == nil || s.Mode == model.ModeAssistance {
		return false
	}
	if !ShouldTransition(agentText) {
		return false
	}
	s.CompleteQuestionnaire()
	return true
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
