// Package cmd wires the CLI surface. Commands stay thin: flag parsing,
// client construction through the provider registry, and rendering.
package cmd

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/planweave/planweave/internal/log"
)

var (
	flagLogLevel  string
	flagLogFormat string
	flagEnvFile   string
)

var rootCmd = &cobra.Command{
	Use:   "planweave",
	Short: "Task planning across multiple LLM backends",
	Long: `planweave turns natural-language goals into validated task plans using
whichever LLM backend you have a credential for. Backends with native
structured output are used strictly; the rest are coerced through JSON
mode or prompt-described schemas, with a single plain-text fallback
when structured generation fails.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadEnvFile()
		return setupLogging()
	},
}

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "env file to load before resolving credentials (default .env if present)")
}

// loadEnvFile loads credentials from a dotenv file. The default .env is
// best-effort; an explicitly named file that cannot be read is still not
// fatal since the credential may come from the real environment.
func loadEnvFile() {
	path := flagEnvFile
	if path == "" {
		path = ".env"
		if _, err := os.Stat(path); err != nil {
			return
		}
	}
	_ = godotenv.Load(path)
}

func setupLogging() error {
	log.SetDefault(log.New(log.Config{
		Level:  log.ParseLevel(flagLogLevel),
		Format: log.ParseFormat(flagLogFormat),
		Output: log.OutputStderr(),
	}))
	return nil
}
