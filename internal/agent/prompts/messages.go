package prompts

import (
	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
)

// Apology is the user-facing text returned when a turn fails for any
// reason. It deliberately carries no internal error detail.
func Apology(lang model.Language) string {
	if lang == model.Spanish {
		return "Disculpe, encontré un problema técnico. ¿Podemos continuar?"
	}
	return "Désolé, j'ai rencontré un problème technique. Pouvons-nous continuer ?"
}

// SummaryPreamble labels the conversation summary injected into context
// after older turns have been pruned.
func SummaryPreamble(lang model.Language) string {
	if lang == model.Spanish {
		return "Resumen de la conversación hasta ahora:"
	}
	return "Résumé de la conversation jusqu'ici :"
}

// SearchError is the tool-error string surfaced to the reasoning loop
// when the knowledge base search fails.
func SearchError(lang model.Language) string {
	if lang == model.Spanish {
		return "Error en la búsqueda. Intenta reformular la pregunta."
	}
	return "Erreur lors de la recherche. Essayez de reformuler la question."
}

// NothingFound is the knowledge base answer when retrieval returns no
// documents.
func NothingFound(lang model.Language) string {
	if lang == model.Spanish {
		return "No encontré información específica sobre este tema en nuestra base de conocimientos."
	}
	return "Je n'ai pas trouvé d'informations spécifiques sur ce sujet dans notre base de connaissances."
}
