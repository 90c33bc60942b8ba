package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/labrelay/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("labrelay %s\n", version.GitRelease)
		cmd.Printf("  Go:     %s\n", version.GoInfo)
		cmd.Printf("  Commit: %s\n", version.GitCommit)
		cmd.Printf("  Date:   %s\n", version.GitCommitDate)
	},
}
