package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planweave/planweave/internal/provider"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported backends and credential status",
	Long: `providers shows each supported backend, its default model, how it
produces structured output, and whether a credential is visible in the
environment. No network calls are made.`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) error {
	s := defaultStyles()
	registry := provider.NewRegistry()

	for _, identity := range provider.Identities() {
		status := s.Error.Render("no credential")
		if registry.CredentialPresent(identity) {
			status = s.Success.Render("ready")
		}

		cmd.Println(s.TaskID.Render(string(identity)))
		cmd.Printf("  model:      %s\n", provider.DefaultModel(identity))
		cmd.Printf("  structured: %s\n", tierDescription(identity))
		cmd.Printf("  status:     %s\n\n", status)
	}
	return nil
}

func tierDescription(identity provider.Identity) string {
	switch identity {
	case provider.OpenAI:
		return "strict (schema enforced by the backend)"
	case provider.Groq, provider.Mistral:
		return "json (valid JSON guaranteed, shape best-effort)"
	case provider.Google:
		return "none (schema described in the prompt)"
	default:
		return fmt.Sprintf("unknown backend %s", identity)
	}
}
