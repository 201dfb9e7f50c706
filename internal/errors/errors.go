// Package errors provides coded errors for planweave with actionable
// suggestions. Every failure the core can produce carries one of the
// ErrorCode constants below, so callers can branch on the failure class
// without string matching.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Configuration errors (CONFIG-001 to CONFIG-099): caller-fixable setup
	// problems, always detected before any network call.
	ErrCodeConfigUnsupportedProvider ErrorCode = "CONFIG-001"
	ErrCodeConfigMissingCredential   ErrorCode = "CONFIG-002"
	ErrCodeConfigInvalidValue        ErrorCode = "CONFIG-003"

	// Provider errors (PROVIDER-001 to PROVIDER-099)
	ErrCodeProviderInit         ErrorCode = "PROVIDER-001"
	ErrCodeGeneration           ErrorCode = "PROVIDER-002"
	ErrCodeStructuredGeneration ErrorCode = "PROVIDER-003"

	// Plan validation errors (PLAN-001 to PLAN-099)
	ErrCodePlanMalformed          ErrorCode = "PLAN-001"
	ErrCodePlanDuplicateID        ErrorCode = "PLAN-002"
	ErrCodePlanDanglingDependency ErrorCode = "PLAN-003"
	ErrCodePlanCyclicDependency   ErrorCode = "PLAN-004"
)

// PlanweaveError is an error with a code, optional raw detail payload,
// suggestions, and a wrapped cause.
type PlanweaveError struct {
	Code        ErrorCode
	Message     string
	Detail      string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *PlanweaveError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *PlanweaveError) Unwrap() error {
	return e.Cause
}

// New creates a new PlanweaveError
func New(code ErrorCode, message string) *PlanweaveError {
	return &PlanweaveError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new PlanweaveError with a formatted message
func Newf(code ErrorCode, format string, args ...any) *PlanweaveError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new PlanweaveError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *PlanweaveError {
	return &PlanweaveError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *PlanweaveError) WithSuggestion(suggestion string) *PlanweaveError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithDetail attaches a raw payload to the error, e.g. the unparseable
// model output that caused a structured-generation failure.
func (e *PlanweaveError) WithDetail(detail string) *PlanweaveError {
	e.Detail = detail
	return e
}

// Code extracts the ErrorCode from err, unwrapping as needed.
// Returns the empty code for nil and for errors outside this taxonomy.
func Code(err error) ErrorCode {
	var pwErr *PlanweaveError
	if stderrors.As(err, &pwErr) {
		return pwErr.Code
	}
	return ""
}

// HasCode reports whether err carries the given code
func HasCode(err error, code ErrorCode) bool {
	return Code(err) == code
}

// Detail extracts the raw detail payload from err, if any
func Detail(err error) string {
	var pwErr *PlanweaveError
	if stderrors.As(err, &pwErr) {
		return pwErr.Detail
	}
	return ""
}

// Common constructors for frequently produced errors

// NewUnsupportedProviderError creates an unknown-provider-identity error
func NewUnsupportedProviderError(identity string) *PlanweaveError {
	return Newf(ErrCodeConfigUnsupportedProvider, "unsupported provider: %s", identity).
		WithSuggestion("Use one of: openai, groq, google, mistral").
		WithSuggestion("Run 'planweave providers' to list supported backends")
}

// NewMissingCredentialError creates a missing-API-key error for a provider
func NewMissingCredentialError(identity string) *PlanweaveError {
	return Newf(ErrCodeConfigMissingCredential, "no credential available for provider: %s", identity).
		WithSuggestion(fmt.Sprintf("Set the %s_API_KEY environment variable", strings.ToUpper(identity))).
		WithSuggestion("Or pass an explicit API key in the provider configuration")
}

// NewProviderInitError creates a backend client construction error
func NewProviderInitError(identity string, cause error) *PlanweaveError {
	return Wrap(ErrCodeProviderInit, fmt.Sprintf("failed to construct %s client", identity), cause).
		WithSuggestion("Check the endpoint override for a malformed URL")
}

// NewGenerationError creates a plain-generation failure carrying the
// backend's error detail
func NewGenerationError(identity string, cause error) *PlanweaveError {
	return Wrap(ErrCodeGeneration, fmt.Sprintf("%s generation failed", identity), cause).
		WithSuggestion("Check network connectivity and API quota").
		WithSuggestion("Verify the API key is valid and not expired")
}

// NewStructuredGenerationError creates the terminal error after
// schema-directed generation and its single text fallback both failed.
// rawText is the final unparseable model output, kept for diagnostics.
func NewStructuredGenerationError(identity string, rawText string, cause error) *PlanweaveError {
	return Wrap(ErrCodeStructuredGeneration,
		fmt.Sprintf("%s returned no parseable structured output", identity), cause).
		WithDetail(rawText).
		WithSuggestion("Re-run with a lower temperature").
		WithSuggestion("Try a provider with native schema support (openai)")
}
