// Package provider wraps the supported text-generation backends behind a
// single Client interface. Each backend is reached over plain HTTPS; the
// package normalizes their wire formats to the Generate/GenerateStructured
// contract and classifies each backend by how strongly it can enforce
// schema conformance natively (its capability tier).
package provider

import (
	"context"

	"github.com/planweave/planweave/internal/schema"
)

// Client is the uniform interface over one vendor backend.
// Implementations are safe for serial use by a single caller; they hold no
// mutable state beyond the immutable configuration captured at construction.
type Client interface {
	// Generate sends a plain prompt and returns the complete response text.
	// It never returns partial text: any transport, auth, or quota failure
	// surfaces as a GenerationError (PROVIDER-002).
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// GenerateStructured sends the prompt through the backend's native
	// structured-output path for its tier. The response content is the raw
	// text the backend produced; parsing and the fallback policy live in
	// the structured package, not here.
	GenerateStructured(ctx context.Context, req *GenerateRequest, def *schema.Definition) (*GenerateResponse, error)

	// Capabilities reports the backend's capability tier and output limits.
	Capabilities() *Capabilities

	// Info returns metadata about the configured backend.
	Info() *Info

	// Close cleans up any resources used by the client.
	Close() error
}

// Tier classifies a backend by its native structured-output support.
type Tier string

const (
	// TierStrict backends enforce a JSON schema during decoding.
	TierStrict Tier = "strict"

	// TierJSON backends guarantee a JSON object but not its shape.
	TierJSON Tier = "json"

	// TierNone backends have no structural support; the schema is
	// described in the prompt and conformance is best-effort.
	TierNone Tier = "none"
)

// Capabilities describes what a backend supports.
type Capabilities struct {
	// StructuredOutput is the backend's capability tier.
	StructuredOutput Tier

	// MaxOutputTokens is the largest completion the backend accepts.
	MaxOutputTokens int
}

// Info contains metadata about a configured client.
type Info struct {
	// Identity is the backend this client talks to.
	Identity Identity

	// Model is the resolved model name.
	Model string

	// Endpoint is the base URL requests are sent to.
	Endpoint string
}
