package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/labrelay/internal/api"
	"github.com/jackzampolin/labrelay/internal/config"
	"github.com/jackzampolin/labrelay/internal/home"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize configuration",
}

var configForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to the home directory",
	Long: `Write the default configuration to ~/.labrelay/config.yaml
(or <home>/config.yaml when --home is set).

An existing file is left untouched unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if h.ConfigExists() && !configForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", h.ConfigPath())
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}
		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}
		cmd.Println("wrote", h.ConfigPath())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show [key]",
	Short: "Print effective configuration values",
	Long: `Print every configuration key with its effective value, after
config file and LABRELAY_* environment overrides are applied.

With a key argument, print only that value.

Examples:
  labrelay config show
  labrelay config show vendor.base_url
  labrelay config show -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		cfgMgr, err := config.NewManager(cfgFile, h.Path())
		if err != nil {
			return err
		}

		if len(args) == 1 {
			v, err := cfgMgr.Value(args[0])
			if err != nil {
				return err
			}
			// Known keys print with their description; sections print as a map.
			if entry := config.GetDefault(args[0]); entry != nil {
				entry.Value = v
				return api.Output(entry)
			}
			return api.Output(map[string]any{args[0]: v})
		}

		entries := config.DefaultEntries()
		for i := range entries {
			v, err := cfgMgr.Value(entries[i].Key)
			if err != nil {
				return err
			}
			entries[i].Value = v
		}
		return api.Output(map[string]any{
			"file":    cfgMgr.ConfigFileUsed(),
			"entries": entries,
		})
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
