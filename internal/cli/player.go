package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/unogame/internal/api/response"
	"github.com/mcoot/unogame/internal/model"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player commands",
	}

	cmd.AddCommand(newPlayerStatsCmd())
	cmd.AddCommand(newPlayerResultsCmd())

	return cmd
}

// playerArg falls back to the configured player when no id is given
func playerArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.PlayerID == "" {
		return "", fmt.Errorf("no player id given and --player is not set")
	}
	return cfg.PlayerID, nil
}

func newPlayerStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [player-id]",
		Short: "Show lifetime stats",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := playerArg(args)
			if err != nil {
				return err
			}

			var result model.PlayerStats
			if err := client.Get("/api/v1/players/"+url.PathEscape(id)+"/stats", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newPlayerResultsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "results [player-id]",
		Short: "List finished games, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := playerArg(args)
			if err != nil {
				return err
			}

			path := fmt.Sprintf("/api/v1/players/%s/results?limit=%d", url.PathEscape(id), limit)
			var result response.Results
			if err := client.Get(path, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum results to list")

	return cmd
}
