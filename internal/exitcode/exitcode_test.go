package exitcode

import (
	"fmt"
	"testing"

	"github.com/planweave/planweave/internal/errors"
)

func TestExitCodeValues(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"Success", Success, 0},
		{"GeneralError", GeneralError, 1},
		{"UsageError", UsageError, 2},
		{"ConfigError", ConfigError, 3},
		{"AuthError", AuthError, 4},
		{"GenerationError", GenerationError, 5},
		{"PlanError", PlanError, 6},
		{"Interrupted", Interrupted, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.expected {
				t.Errorf("Exit code %s = %d, want %d", tt.name, tt.code, tt.expected)
			}
		})
	}
}

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, Success},
		{"uncoded error", fmt.Errorf("disk full"), GeneralError},
		{"unsupported provider", errors.NewUnsupportedProviderError("cohere"), ConfigError},
		{"invalid value", errors.New(errors.ErrCodeConfigInvalidValue, "bad temperature"), ConfigError},
		{"missing credential", errors.NewMissingCredentialError("groq"), AuthError},
		{"init failure", errors.NewProviderInitError("openai", fmt.Errorf("bad url")), GenerationError},
		{"generation failure", errors.NewGenerationError("openai", fmt.Errorf("429")), GenerationError},
		{"structured failure", errors.NewStructuredGenerationError("google", "raw", fmt.Errorf("invalid")), GenerationError},
		{"malformed plan", errors.New(errors.ErrCodePlanMalformed, "bad shape"), PlanError},
		{"cyclic plan", errors.New(errors.ErrCodePlanCyclicDependency, "a -> b -> a"), PlanError},
		{"wrapped coded error", fmt.Errorf("planning: %w", errors.NewMissingCredentialError("mistral")), AuthError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineExitCode(tt.err); got != tt.expected {
				t.Errorf("DetermineExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}
