package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/planweave/planweave/internal/errors"
	"github.com/planweave/planweave/internal/planner"
	"github.com/planweave/planweave/internal/provider"
)

var (
	flagProvider    string
	flagModel       string
	flagTemperature float64
	flagMaxTokens   int
	flagConfigFile  string
	flagJSON        bool
)

var planCmd = &cobra.Command{
	Use:   "plan [goal]",
	Short: "Generate a validated task plan for a goal",
	Long: `plan breaks a natural-language goal into tasks with tools and
dependencies. The generated plan is validated for duplicate ids, dangling
dependencies, and cycles before anything is printed.

With no goal argument, an interactive form prompts for the provider and
the goal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&flagProvider, "provider", "p", "openai", "backend to use (openai, groq, google, mistral)")
	planCmd.Flags().StringVarP(&flagModel, "model", "m", "", "model override (default per provider)")
	planCmd.Flags().Float64VarP(&flagTemperature, "temperature", "t", 0, "sampling temperature, 0 to 2 (default 0.7)")
	planCmd.Flags().IntVar(&flagMaxTokens, "max-tokens", 0, "completion token limit (default 2048)")
	planCmd.Flags().StringVarP(&flagConfigFile, "config", "c", "", "provider config file (planweave.yaml)")
	planCmd.Flags().BoolVar(&flagJSON, "json", false, "print the plan as JSON instead of formatted text")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	var goal string
	if len(args) > 0 {
		goal = args[0]
	}

	providerName := flagProvider
	if goal == "" {
		picked, pickedGoal, err := promptPlanInput(providerName)
		if err != nil {
			return err
		}
		providerName, goal = picked, pickedGoal
	}

	client, err := buildClient(providerName)
	if err != nil {
		return err
	}
	defer client.Close()

	p := planner.New(client)
	result, err := p.PlanGoal(cmd.Context(), goal)
	if err != nil {
		return err
	}

	if flagJSON {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		cmd.Println(string(out))
		return nil
	}

	cmd.Print(renderPlan(goal, result))
	return nil
}

// buildClient resolves a backend client from the flag set, an optional
// config file, and the environment, in that precedence order.
func buildClient(providerName string) (provider.Client, error) {
	identity, err := provider.ParseIdentity(providerName)
	if err != nil {
		return nil, err
	}

	var explicit *provider.Config
	if flagConfigFile != "" {
		fileCfg, err := provider.LoadFileConfig(flagConfigFile)
		if err != nil {
			return nil, err
		}
		explicit = fileCfg.ConfigFor(identity)
	}
	if explicit == nil {
		explicit = &provider.Config{Identity: identity}
	}

	if flagModel != "" {
		explicit.Model = flagModel
	}
	if flagTemperature != 0 {
		explicit.Temperature = flagTemperature
	}
	if flagMaxTokens != 0 {
		explicit.MaxTokens = flagMaxTokens
	}

	return provider.NewRegistry().Resolve(identity, explicit)
}

// promptPlanInput runs the interactive form used when no goal argument is
// given. Providers without a visible credential are still offered since the
// key may arrive via --config or a dotenv file named later.
func promptPlanInput(defaultProvider string) (string, string, error) {
	registry := provider.NewRegistry()

	options := make([]huh.Option[string], 0, len(provider.Identities()))
	for _, identity := range provider.Identities() {
		label := fmt.Sprintf("%s (%s)", identity, provider.DefaultModel(identity))
		if !registry.CredentialPresent(identity) {
			label += " - no credential"
		}
		options = append(options, huh.NewOption(label, string(identity)))
	}

	picked := defaultProvider
	var goal string
	if err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Provider").
			Options(options...).
			Value(&picked),
		huh.NewInput().
			Title("Goal").
			Placeholder("e.g. Plan a product launch for a mobile app").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("goal must not be empty")
				}
				return nil
			}).
			Value(&goal),
	)).Run(); err != nil {
		return "", "", errors.Wrap(errors.ErrCodeConfigInvalidValue, "interactive input failed", err)
	}

	return picked, goal, nil
}
