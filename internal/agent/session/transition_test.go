package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
)

func TestShouldTransition(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "recommendation plus next step fr",
			text: "Je vous recommande notre service d'implantation. La prochaine étape serait un rendez-vous.",
			want: true,
		},
		{
			name: "recommendation plus advisor es",
			text: "Te recomiendo nuestro programa de networking. Tu asesor te contactará pronto.",
			want: true,
		},
		{
			name: "contact link alone",
			text: "Puedes escribirnos aquí: https://wa.me/573001234567",
			want: true,
		},
		{
			name: "recommendation plus contact link",
			text: "Je vous recommande de nous écrire sur https://api.whatsapp.com/send?phone=573001234567",
			want: true,
		},
		{
			name: "recommendation alone is not enough",
			text: "Je vous recommande de répondre aux questions suivantes.",
			want: false,
		},
		{
			name: "next step alone is not enough",
			text: "La prochaine étape du questionnaire concerne votre secteur.",
			want: false,
		},
		{
			name: "plain questionnaire reply",
			text: "¿En qué sector opera su empresa?",
			want: false,
		},
		{
			name: "markers are matched case-insensitively",
			text: "JE VOUS RECOMMANDE notre annuaire. N'HÉSITEZ PAS À CONTACTER notre équipe.",
			want: true,
		},
		{
			name: "empty text",
			text: "",
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShouldTransition(tc.text))
		})
	}
}

func TestApplyTransitionFlipsOnce(t *testing.T) {
	s := New()
	firing := "Te recomiendo el directorio de miembros. Próximo paso: agendar una llamada."

	assert.True(t, ApplyTransition(s, firing))
	assert.Equal(t, model.ModeAssistance, s.Mode)
	assert.True(t, s.QuestionnaireCompleted)

	// Already in assistance: same text no longer reports a flip.
	assert.False(t, ApplyTransition(s, firing))
	assert.Equal(t, model.ModeAssistance, s.Mode)
}

func TestApplyTransitionIsMonotonic(t *testing.T) {
	s := New()
	s.CompleteQuestionnaire()

	// Nothing moves the session back to questionnaire.
	assert.False(t, ApplyTransition(s, "¿Cuál es su empresa?"))
	assert.Equal(t, model.ModeAssistance, s.Mode)
}

func TestApplyTransitionNeverFiresOnPlainReplies(t *testing.T) {
	s := New()
	replies := []string{
		"Merci ! Et quel est votre poste dans l'entreprise ?",
		"Entendido. ¿Hace cuánto opera en Colombia?",
	}
	for _, r := range replies {
		assert.False(t, ApplyTransition(s, r))
	}
	assert.Equal(t, model.ModeQuestionnaire, s.Mode)
}
