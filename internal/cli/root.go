package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "unoctl",
		Short: "CLI tool for the UNO game API",
		Long: `unoctl is a CLI tool for interacting with the UNO game JSON API.

It covers creating and joining games, playing turns, UNO calls and
challenges, results and stats, and live event streaming.

Requests are made as the player given by --player (env: UNO_PLAYER).`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL, cfg.PlayerID)
			if cfg.Verbose {
				client.trace = cmd.ErrOrStderr()
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: UNO_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.PlayerID, "player", "p", cfg.PlayerID, "Player ID to act as (env: UNO_PLAYER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
