package providers

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrMissingCredential is returned when a client is requested but no API key
// is configured. Raised at first use, not at process start, so endpoints
// that never touch the provider (health checks) stay usable.
var ErrMissingCredential = errors.New("inference provider API key is not configured")

// LLMProviderConfig mirrors config.ExtractionCfg with the API key resolved.
type LLMProviderConfig struct {
	Type       string // "openai"
	Model      string // Model name
	APIKey     string // Resolved API key ("" if the env var is unset)
	Timeout    time.Duration
	MaxRetries int // Transport retry attempts
	RetryDelay time.Duration
}

// Registry holds the inference provider client. The client is constructed
// lazily on first use and shared across concurrent extractions; each call
// carries its own conversation state, so one instance is safe to reuse.
type Registry struct {
	mu     sync.Mutex
	cfg    LLMProviderConfig
	client LLMClient
	logger *slog.Logger
}

// NewRegistry creates a registry with the given provider configuration.
func NewRegistry(cfg LLMProviderConfig, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{cfg: cfg, logger: logger}
}

// Reload replaces the provider configuration. A cached client built from a
// different configuration is dropped and rebuilt on next use.
func (r *Registry) Reload(cfg LLMProviderConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg == r.cfg {
		return
	}
	r.cfg = cfg
	if r.client != nil {
		r.client = nil
		r.logger.Info("provider configuration changed, client will be rebuilt")
	}
}

// SetLLM installs a client directly, bypassing lazy construction. Used by
// tests to substitute a scripted client.
func (r *Registry) SetLLM(client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.client = client
}

// LLM returns the shared inference client, constructing it on first call.
// The mutex guards against concurrent double-initialization; after that the
// same instance is returned to every caller.
func (r *Registry) LLM() (LLMClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client != nil {
		return r.client, nil
	}

	if r.cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}

	client, err := createLLMClient(r.cfg)
	if err != nil {
		return nil, err
	}
	r.client = client
	r.logger.Info("initialized LLM client", "name", client.Name(), "model", r.cfg.Model)
	return r.client, nil
}

// createLLMClient creates an LLM client based on provider type.
func createLLMClient(cfg LLMProviderConfig) (LLMClient, error) {
	switch cfg.Type {
	case "openai", "":
		return NewOpenAIClient(OpenAIConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}
