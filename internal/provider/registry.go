package provider

import (
	"os"
	"strings"

	"github.com/planweave/planweave/internal/errors"
)

// Environment looks up a configuration value by key. Injecting it keeps
// registry resolution deterministic and testable without touching the
// process environment.
type Environment func(key string) string

// registryDefaults holds the per-identity environment keys and fallback
// model names used when no explicit configuration is supplied.
var registryDefaults = map[Identity]struct {
	credentialKey string
	modelKey      string
	defaultModel  string
}{
	OpenAI:  {"OPENAI_API_KEY", "OPENAI_MODEL", "gpt-4o"},
	Groq:    {"GROQ_API_KEY", "GROQ_MODEL", "llama-3.3-70b-versatile"},
	Google:  {"GOOGLE_API_KEY", "GOOGLE_MODEL", "gemini-2.5-flash"},
	Mistral: {"MISTRAL_API_KEY", "MISTRAL_MODEL", "mistral-large-latest"},
}

// constructors maps each identity to its client constructor. Adding a
// backend means one entry here plus its Client implementation.
var constructors = map[Identity]func(Config) (Client, error){
	OpenAI:  func(cfg Config) (Client, error) { return NewOpenAIClient(cfg) },
	Groq:    func(cfg Config) (Client, error) { return NewGroqClient(cfg) },
	Google:  func(cfg Config) (Client, error) { return NewGoogleClient(cfg) },
	Mistral: func(cfg Config) (Client, error) { return NewMistralClient(cfg) },
}

// Registry produces ready Client instances from a provider identity,
// combining explicit caller configuration with environment defaults.
type Registry struct {
	env Environment
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithEnvironment injects the configuration lookup used for defaults.
func WithEnvironment(env Environment) RegistryOption {
	return func(r *Registry) {
		r.env = env
	}
}

// NewRegistry creates a registry reading defaults from the process
// environment unless overridden.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{env: os.Getenv}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns a ready Client for the identity. Explicit configuration
// takes precedence field by field; gaps are filled from the environment
// keyed by the identity. A missing credential fails with CONFIG-002 here,
// before any network call is attempted.
func (r *Registry) Resolve(identity Identity, explicit *Config) (Client, error) {
	construct, ok := constructors[identity]
	if !ok {
		return nil, errors.NewUnsupportedProviderError(string(identity))
	}
	defaults := registryDefaults[identity]

	var cfg Config
	if explicit != nil {
		cfg = *explicit
	}
	cfg.Identity = identity

	if strings.TrimSpace(cfg.APIKey) == "" {
		cfg.APIKey = strings.TrimSpace(r.env(defaults.credentialKey))
	}
	if cfg.APIKey == "" {
		return nil, errors.NewMissingCredentialError(string(identity))
	}

	if cfg.Model == "" {
		cfg.Model = r.env(defaults.modelKey)
	}
	if cfg.Model == "" {
		cfg.Model = defaults.defaultModel
	}

	return construct(cfg)
}

// CredentialPresent reports whether a credential is available for the
// identity without constructing a client or touching the network.
func (r *Registry) CredentialPresent(identity Identity) bool {
	defaults, ok := registryDefaults[identity]
	if !ok {
		return false
	}
	return strings.TrimSpace(r.env(defaults.credentialKey)) != ""
}

// DefaultModel returns the model used for the identity when neither the
// caller nor the environment names one.
func DefaultModel(identity Identity) string {
	return registryDefaults[identity].defaultModel
}
