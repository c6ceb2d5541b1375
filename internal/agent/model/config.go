package model

// ================ Config ================

// SessionConfig governs session persistence in Redis.
type SessionConfig struct {
	TTL       string `envconfig:"SESSION_TTL" default:"504h"`
	KeyPrefix string `envconfig:"SESSION_KEY_PREFIX" default:"cci_agent:"`
}

// ResponseModelConfig configures the main conversational model.
type ResponseModelConfig struct {
	Model       string  `envconfig:"RESPONSE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"RESPONSE_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"RESPONSE_TEMPERATURE" default:"0.3"`
}

// ClassifierModelConfig configures the small model used for one-shot
// language detection and memory summarization.
type ClassifierModelConfig struct {
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"CLASSIFIER_MAX_TOKENS" default:"400"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0"`
}

// AgentConfig bounds one conversational turn.
type AgentConfig struct {
	// MaxToolCalls caps tool-call iterations within a single turn.
	MaxToolCalls int `envconfig:"AGENT_MAX_TOOL_CALLS" default:"3"`
	// MemoryTokenBudget is the size of the raw message window before the
	// oldest turns are folded into the running summary.
	MemoryTokenBudget int `envconfig:"AGENT_MEMORY_TOKEN_BUDGET" default:"2000"`
}

// ContactsConfig points at the backend serving the contact directory.
type ContactsConfig struct {
	BackendURL string `envconfig:"BACKEND_URL"`
	TimeoutSec int    `envconfig:"CONTACTS_TIMEOUT" default:"5"`
}

// KnowledgeConfig configures the vector-backed knowledge base.
type KnowledgeConfig struct {
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	EmbeddingModel string `envconfig:"KB_EMBEDDING_MODEL" default:"text-embedding-004"`
	TopK           int    `envconfig:"KB_TOP_K" default:"2"`
}
