package provider

import (
	"time"

	"github.com/google/uuid"

	"github.com/planweave/planweave/internal/schema"
)

// GenerateRequest contains the input for a single generation round trip.
type GenerateRequest struct {
	// ID correlates the request across log lines and the fallback attempt.
	ID string `json:"id"`

	// Prompt is the full input text for the model.
	Prompt string `json:"prompt"`

	// Metadata carries free-form tracking attributes.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewGenerateRequest creates a request with a fresh correlation ID.
func NewGenerateRequest(prompt string) *GenerateRequest {
	return &GenerateRequest{
		ID:     uuid.NewString(),
		Prompt: prompt,
	}
}

// WithPrompt returns a copy of the request carrying a different prompt but
// the same correlation ID. Used when a schema rendering is appended for
// backends without structural support.
func (r *GenerateRequest) WithPrompt(prompt string) *GenerateRequest {
	clone := *r
	clone.Prompt = prompt
	return &clone
}

// GenerateResponse contains a backend's complete response.
type GenerateResponse struct {
	// Content is the generated text. For structured calls this is the raw
	// text to be parsed downstream.
	Content string `json:"content"`

	// Model is the model that actually produced the response.
	Model string `json:"model"`

	// Provider is the identity of the backend that handled the request.
	Provider Identity `json:"provider"`

	// TokensUsed is the total tokens consumed (input + output).
	TokensUsed int `json:"tokens_used"`

	// InputTokens is tokens in the prompt.
	InputTokens int `json:"input_tokens,omitempty"`

	// OutputTokens is tokens in the response.
	OutputTokens int `json:"output_tokens,omitempty"`

	// FinishReason explains why generation stopped.
	FinishReason string `json:"finish_reason,omitempty"`

	// Latency is how long the round trip took.
	Latency time.Duration `json:"latency"`
}

// schemaPrompt appends a human-readable schema rendering to a prompt, for
// backends whose only structural contract is the prompt itself.
func schemaPrompt(prompt string, def *schema.Definition) string {
	return prompt + "\n\nRespond with valid JSON matching this schema:\n" + def.Prompt()
}
