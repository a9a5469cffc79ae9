package config

import (
	"os"
	"time"
)

// LLMConfig selects and tunes the remote assistant.  An empty APIKey means
// every chat turn is answered by the offline fallback.
type LLMConfig struct {
	Provider     string        // "openai" (any compatible endpoint) or "gemini"
	APIKey       string
	BaseURL      string        // OpenAI-compatible base, e.g. https://openrouter.ai/api/v1
	Model        string        // provider default when empty
	Timeout      time.Duration // bound on a single remote call
	HistoryLimit int           // prior turns sent with each call
}

// LoadLLMConfig reads LLM_* variables.  EMERGENT_LLM_KEY is accepted as an
// alias for LLM_API_KEY.
func LoadLLMConfig() LLMConfig {
	cfg := LLMConfig{
		Provider:     envStr("LLM_PROVIDER", "openai"),
		APIKey:       envStr("LLM_API_KEY", os.Getenv("EMERGENT_LLM_KEY")),
		BaseURL:      os.Getenv("LLM_BASE_URL"),
		Model:        os.Getenv("LLM_MODEL"),
		Timeout:      envDur("LLM_TIMEOUT", 20*time.Second),
		HistoryLimit: envInt("LLM_HISTORY_LIMIT", 20),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.HistoryLimit < 0 {
		cfg.HistoryLimit = 0
	}
	return cfg
}
