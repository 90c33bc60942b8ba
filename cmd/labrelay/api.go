package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/labrelay/internal/api"
	"github.com/jackzampolin/labrelay/internal/server/endpoints"
)

var (
	serverURL   string
	waitTimeout time.Duration
)

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Block until the server reports healthy",
	Long: `Poll GET /health until the server answers 200 or the timeout elapses.

Useful in scripts that start "labrelay serve" in the background.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.WaitForHealthy(cmd.Context(), getServerURL(), waitTimeout, 500*time.Millisecond); err != nil {
			return err
		}
		cmd.Println("server is healthy:", getServerURL())
		return nil
	},
}

func init() {
	registry := api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{}) {
		registry.Register(ep)
	}
	apiCmd := registry.BuildCommands(getServerURL)

	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8000", "Server URL",
	)

	waitCmd.Flags().DurationVar(&waitTimeout, "timeout", 30*time.Second, "How long to wait")
	apiCmd.AddCommand(waitCmd)

	rootCmd.AddCommand(apiCmd)
}
