// Package structured turns the uneven native abilities of the backends into
// one uniform contract: ask for JSON matching a schema, get back a parsed
// raw message or a single, well-defined error. The degrade-and-retry policy
// lives here and nowhere else.
package structured

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/planweave/planweave/internal/errors"
	"github.com/planweave/planweave/internal/log"
	"github.com/planweave/planweave/internal/provider"
	"github.com/planweave/planweave/internal/schema"
)

// Adapter runs schema-directed generation against one backend client.
type Adapter struct {
	client provider.Client
	logger *log.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger overrides the default logger.
func WithLogger(logger *log.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// New creates an Adapter around a backend client.
func New(client provider.Client, opts ...Option) *Adapter {
	a := &Adapter{
		client: client,
		logger: log.GetDefault(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Generate requests text conforming to def and returns it as parsed JSON.
//
// The first attempt goes through the backend's native structured path for
// its tier. If that attempt fails, in transit or because the output is not
// valid JSON, the adapter makes exactly one plain-text retry with the
// original prompt and parses that leniently. A second failure is terminal
// and surfaces as a structured-generation error carrying the last raw
// output in its detail.
func (a *Adapter) Generate(ctx context.Context, req *provider.GenerateRequest, def *schema.Definition) (json.RawMessage, error) {
	identity := a.client.Info().Identity
	tier := a.client.Capabilities().StructuredOutput

	resp, err := a.client.GenerateStructured(ctx, req, def)
	var rawText string
	if err == nil {
		rawText = resp.Content
		parsed, parseErr := Parse(resp.Content)
		if parseErr == nil {
			return parsed, nil
		}
		err = parseErr
	}

	a.logger.Warn("structured generation failed, retrying as plain text",
		"request_id", req.ID,
		"provider", identity,
		"tier", tier,
		"error", err.Error(),
	)

	resp, fallbackErr := a.client.Generate(ctx, req)
	if fallbackErr != nil {
		return nil, errors.NewStructuredGenerationError(string(identity), rawText, fallbackErr)
	}

	rawText = resp.Content
	parsed, parseErr := Parse(resp.Content)
	if parseErr != nil {
		return nil, errors.NewStructuredGenerationError(string(identity), rawText, parseErr)
	}

	a.logger.Info("plain-text fallback produced parseable output",
		"request_id", req.ID,
		"provider", identity,
	)
	return parsed, nil
}

// Parse extracts a JSON value from model output. Fenced code blocks are
// unwrapped first since models frequently wrap JSON in markdown even when
// told not to; anything else must be valid JSON as-is.
func Parse(content string) (json.RawMessage, error) {
	text := strings.TrimSpace(content)

	if stripped, ok := stripFence(text); ok {
		text = stripped
	}

	if !json.Valid([]byte(text)) {
		return nil, errors.New(errors.ErrCodeGeneration, "model output is not valid JSON")
	}
	return json.RawMessage(text), nil
}

// stripFence removes a surrounding markdown code fence, with or without a
// language tag, and reports whether one was present.
func stripFence(text string) (string, bool) {
	if !strings.HasPrefix(text, "```") {
		return text, false
	}
	rest := strings.TrimPrefix(text, "```")
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		rest = rest[idx+1:]
	}
	rest = strings.TrimSuffix(strings.TrimSpace(rest), "```")
	return strings.TrimSpace(rest), true
}
