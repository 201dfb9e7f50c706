// Package exitcode maps errors to stable process exit codes so shell
// callers can branch on failure class without parsing stderr.
package exitcode

import (
	"os"

	"github.com/planweave/planweave/internal/errors"
)

const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ConfigError indicates an unsupported provider or invalid configuration value
	ConfigError = 3

	// AuthError indicates a missing or rejected credential
	AuthError = 4

	// GenerationError indicates the backend failed to produce usable output
	GenerationError = 5

	// PlanError indicates the generated plan failed validation
	PlanError = 6

	// Interrupted indicates the run was cancelled by a signal
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with a code determined by the error's class
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

// DetermineExitCode classifies an error by its code. Errors without a code
// (cobra usage errors, IO failures) map to GeneralError.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	switch errors.Code(err) {
	case errors.ErrCodeConfigUnsupportedProvider, errors.ErrCodeConfigInvalidValue:
		return ConfigError
	case errors.ErrCodeConfigMissingCredential:
		return AuthError
	case errors.ErrCodeProviderInit, errors.ErrCodeGeneration, errors.ErrCodeStructuredGeneration:
		return GenerationError
	case errors.ErrCodePlanMalformed, errors.ErrCodePlanDuplicateID,
		errors.ErrCodePlanDanglingDependency, errors.ErrCodePlanCyclicDependency:
		return PlanError
	}
	return GeneralError
}
