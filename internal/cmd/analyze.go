package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/planweave/planweave/internal/errors"
	"github.com/planweave/planweave/internal/planner"
)

var flagResultsFile string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <goal>",
	Short: "Analyze execution results against the original goal",
	Long: `analyze sends previously captured execution results (a JSON file,
typically keyed by task id) back to the backend and prints its prose
assessment of how the run went.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&flagResultsFile, "results", "r", "", "JSON file with execution results (required)")
	analyzeCmd.Flags().StringVarP(&flagProvider, "provider", "p", "openai", "backend to use (openai, groq, google, mistral)")
	analyzeCmd.Flags().StringVarP(&flagModel, "model", "m", "", "model override (default per provider)")
	analyzeCmd.Flags().StringVarP(&flagConfigFile, "config", "c", "", "provider config file (planweave.yaml)")
	_ = analyzeCmd.MarkFlagRequired("results")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	goal := args[0]

	data, err := os.ReadFile(flagResultsFile)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalidValue,
			fmt.Sprintf("read results file %s", flagResultsFile), err)
	}

	var results any
	if err := json.Unmarshal(data, &results); err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalidValue,
			fmt.Sprintf("parse results file %s", flagResultsFile), err)
	}

	client, err := buildClient(flagProvider)
	if err != nil {
		return err
	}
	defer client.Close()

	analysis, err := planner.New(client).AnalyzeResults(cmd.Context(), goal, results)
	if err != nil {
		return err
	}

	cmd.Println(analysis)
	return nil
}
