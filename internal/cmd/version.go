package cmd

import (
	"github.com/spf13/cobra"

	"github.com/planweave/planweave/internal/version"
)

var flagVersionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.GetInfo()
		if flagVersionShort {
			cmd.Println(info.Short())
			return
		}
		cmd.Println(info.String())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&flagVersionShort, "short", false, "print only the version number")
	rootCmd.AddCommand(versionCmd)
}
