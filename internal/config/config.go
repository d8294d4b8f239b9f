// Package config loads service configuration from EDUTRON_-prefixed
// environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the full configuration surface of the service. Every field
// has a default; the service starts with an empty environment. A missing
// OpenRouter key only disables the generative fallback, never the
// rule-based tools.
type Config struct {
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// StorageBackend selects where sessions, messages, tasks and notes live:
	// "memory", "sqlite" or "firestore".
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"memory"`
	SQLitePath     string `envconfig:"SQLITE_PATH" default:"edutron.db"`
	GCPProjectID   string `envconfig:"GCP_PROJECT" default:""`

	// LLMProvider selects the completion backend for the generative
	// fallback: "openrouter", "vertex", "mock" or "none".
	LLMProvider       string        `envconfig:"LLM_PROVIDER" default:"openrouter"`
	OpenRouterAPIKey  string        `envconfig:"OPENROUTER_API_KEY" default:""`
	OpenRouterModel   string        `envconfig:"OPENROUTER_MODEL" default:"x-ai/grok-4-fast:free"`
	SiteURL           string        `envconfig:"SITE_URL" default:"http://localhost"`
	SiteName          string        `envconfig:"SITE_NAME" default:"edutron"`
	VertexLocation    string        `envconfig:"VERTEX_LOCATION" default:"us-central1"`
	VertexModel       string        `envconfig:"VERTEX_MODEL" default:"gemini-2.5-flash"`
	CompletionTimeout time.Duration `envconfig:"COMPLETION_TIMEOUT" default:"30s"`

	// Planner knobs. These mirror product defaults and are deliberately
	// configuration rather than constants.
	FocusBlockMinutes    int `envconfig:"FOCUS_BLOCK_MINUTES" default:"45"`
	BreakMinutes         int `envconfig:"BREAK_MINUTES" default:"10"`
	MinTaskMinutes       int `envconfig:"MIN_TASK_MINUTES" default:"15"`
	MaxTaskMinutes       int `envconfig:"MAX_TASK_MINUTES" default:"120"`
	DefaultEffortMinutes int `envconfig:"DEFAULT_EFFORT_MINUTES" default:"45"`
	DefaultBudgetMinutes int `envconfig:"DEFAULT_BUDGET_MINUTES" default:"120"`
}

// Load reads the environment and validates cross-field constraints.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("edutron", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	switch cfg.StorageBackend {
	case "memory", "sqlite", "firestore":
	default:
		return nil, fmt.Errorf("config: unknown storage backend %q", cfg.StorageBackend)
	}
	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("config: EDUTRON_GCP_PROJECT is required for the firestore backend")
	}

	switch cfg.LLMProvider {
	case "openrouter", "vertex", "mock", "none":
	default:
		return nil, fmt.Errorf("config: unknown llm provider %q", cfg.LLMProvider)
	}
	if cfg.LLMProvider == "vertex" && cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("config: EDUTRON_GCP_PROJECT is required for the vertex provider")
	}

	if cfg.MinTaskMinutes <= 0 || cfg.MaxTaskMinutes < cfg.MinTaskMinutes {
		return nil, fmt.Errorf("config: invalid task clamp range [%d,%d]", cfg.MinTaskMinutes, cfg.MaxTaskMinutes)
	}
	// A non-positive focus block would stall the planner loop.
	if cfg.FocusBlockMinutes <= 0 {
		return nil, fmt.Errorf("config: focus block minutes must be positive, got %d", cfg.FocusBlockMinutes)
	}
	if cfg.BreakMinutes < 0 {
		return nil, fmt.Errorf("config: break minutes must not be negative, got %d", cfg.BreakMinutes)
	}

	return &cfg, nil
}
