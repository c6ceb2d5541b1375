package prompts

import (
	"fmt"
	"strings"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/model"
)

// ClientBlock renders the client-context section injected into system
// prompts. An absent or empty context renders as the empty string, never
// a placeholder.
func ClientBlock(client *model.ClientInfo, lang model.Language) string {
	if client.IsEmpty() {
		return ""
	}

	var header, footer, instructions string
	if lang == model.Spanish {
		header = "=== INFORMACIÓN DEL CLIENTE ACTUAL ==="
		footer = "=== FIN INFORMACIÓN DEL CLIENTE ==="
		instructions = "Tienes esta información sobre el cliente con quien estás hablando. " +
			"Úsala para personalizar tus respuestas de manera apropiada y profesional."
	} else {
		header = "=== INFORMATIONS DU CLIENT ACTUEL ==="
		footer = "=== FIN INFORMATIONS CLIENT ==="
		instructions = "Tu as ces informations sur le client avec qui tu discutes. " +
			"Utilise-les pour personnaliser tes réponses de manière appropriée et professionnelle."
	}

	var parts []string
	if client.Company != "" {
		parts = append(parts, "Entreprise/Empresa: "+client.Company)
	}
	switch {
	case client.FirstName != "" && client.LastName != "":
		parts = append(parts, fmt.Sprintf("Contact: %s %s", client.FirstName, client.LastName))
	case client.FirstName != "":
		parts = append(parts, "Contact: "+client.FirstName)
	}
	if client.Role != "" {
		parts = append(parts, "Poste/Cargo: "+client.Role)
	}
	if client.Sector != "" {
		parts = append(parts, "Secteur/Sector: "+client.Sector)
	}
	if client.Description != "" {
		parts = append(parts, "Description/Descripción: "+client.Description)
	}
	if len(parts) == 0 {
		return ""
	}

	return header + "\n" + strings.Join(parts, "\n") + "\n" + footer + "\n\n" + instructions
}
