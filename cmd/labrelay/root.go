package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/labrelay/internal/api"
	"github.com/jackzampolin/labrelay/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "labrelay",
	Short: "Lab report relay: extract, annotate and summarize lab results",
	Long: `labrelay accepts an uploaded lab report (PDF or image), forwards it to a
document extraction service and turns the reply into two views:

  - a doctor view: the raw vendor reply plus each lab value marked
    Normal or Abnormal against built-in reference ranges
  - a patient view: a one-line plain-language summary`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.labrelay/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "labrelay home directory (default: ~/.labrelay)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
