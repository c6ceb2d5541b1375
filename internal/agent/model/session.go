package model

// Language is one of the two locales the agent speaks. French is the
// default for anything not confidently classified as Spanish.
type Language string

const (
	French  Language = "fr"
	Spanish Language = "es"
)

// ParseLanguage normalises a stored or detected value. Anything other
// than "es" collapses to French.
func ParseLanguage(v string) Language {
	if Language(v) == Spanish {
		return Spanish
	}
	return French
}

// Mode is the dialogue mode of a session. Sessions start in the scripted
// questionnaire and switch, once and permanently, to free-form assistance.
type Mode string

const (
	ModeQuestionnaire Mode = "questionnaire"
	ModeAssistance    Mode = "assistance"
)

// ParseMode normalises a stored value. Unknown values fall back to the
// questionnaire, which is the initial state of every session.
func ParseMode(v string) Mode {
	if Mode(v) == ModeAssistance {
		return ModeAssistance
	}
	return ModeQuestionnaire
}

// ClientInfo carries the organisation/contact metadata used to
// personalise prompts. Field names follow the contact directory schema.
type ClientInfo struct {
	Company     string `json:"empresa,omitempty"`
	FirstName   string `json:"nombre,omitempty"`
	LastName    string `json:"apellido,omitempty"`
	Role        string `json:"cargo,omitempty"`
	Sector      string `json:"sector,omitempty"`
	Description string `json:"descripcion,omitempty"`
}

// IsEmpty reports whether no directory field carries a value.
func (c *ClientInfo) IsEmpty() bool {
	if c == nil {
		return true
	}
	return c.Company == "" && c.FirstName == "" && c.LastName == "" &&
		c.Role == "" && c.Sector == "" && c.Description == ""
}
