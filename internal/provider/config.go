package provider

import (
	"strings"

	"github.com/planweave/planweave/internal/errors"
)

// Identity is the fixed choice of which backend service to use.
// The set is closed; adding a backend means adding a constant here plus a
// Client implementation and its tier classification.
type Identity string

const (
	OpenAI  Identity = "openai"
	Groq    Identity = "groq"
	Google  Identity = "google"
	Mistral Identity = "mistral"
)

// Identities returns the supported backends in stable order.
func Identities() []Identity {
	return []Identity{OpenAI, Groq, Google, Mistral}
}

// ParseIdentity parses a provider name, case-insensitively.
func ParseIdentity(s string) (Identity, error) {
	switch Identity(strings.ToLower(strings.TrimSpace(s))) {
	case OpenAI:
		return OpenAI, nil
	case Groq:
		return Groq, nil
	case Google:
		return Google, nil
	case Mistral:
		return Mistral, nil
	default:
		return "", errors.NewUnsupportedProviderError(s)
	}
}

// Generation parameter bounds. Temperature and max tokens are clamped at
// construction time, never at call time.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0

	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2048
)

// outputTokenLimits is the per-backend ceiling on completion length.
var outputTokenLimits = map[Identity]int{
	OpenAI:  16384,
	Groq:    32768,
	Google:  65536,
	Mistral: 8192,
}

// Config configures one Client. It is immutable once a Client is
// constructed from it; clients keep their own normalized copy.
type Config struct {
	// Identity selects the backend.
	Identity Identity

	// Model is the model name sent to the backend.
	Model string

	// APIKey is the credential. Must be non-empty before any Client is
	// constructed.
	APIKey string

	// BaseURL overrides the backend's default endpoint. Optional.
	BaseURL string

	// Temperature controls randomness, clamped to [0.0, 2.0].
	// Zero means unset and takes the default.
	Temperature float64

	// MaxTokens limits the completion length, clamped to
	// [1, backend limit]. Zero means unset and takes the default.
	MaxTokens int
}

// normalize validates the credential and clamps generation parameters.
// Returns the normalized copy; the receiver is not mutated.
func (c Config) normalize() (Config, error) {
	if _, err := ParseIdentity(string(c.Identity)); err != nil {
		return c, err
	}

	c.APIKey = strings.TrimSpace(c.APIKey)
	if c.APIKey == "" {
		return c, errors.NewMissingCredentialError(string(c.Identity))
	}

	if c.Model == "" {
		c.Model = registryDefaults[c.Identity].defaultModel
	}

	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.Temperature < MinTemperature {
		c.Temperature = MinTemperature
	}
	if c.Temperature > MaxTemperature {
		c.Temperature = MaxTemperature
	}

	limit := outputTokenLimits[c.Identity]
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.MaxTokens < 1 {
		return c, errors.Newf(errors.ErrCodeConfigInvalidValue,
			"max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.MaxTokens > limit {
		c.MaxTokens = limit
	}

	return c, nil
}
