package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mcoot/unogame/internal/api/request"
	"github.com/mcoot/unogame/internal/api/response"
	"github.com/mcoot/unogame/internal/model"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGameAddBotCmd())
	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGamePlayCmd())
	cmd.AddCommand(newGameDrawCmd())
	cmd.AddCommand(newGamePassCmd())
	cmd.AddCommand(newGameUnoCmd())
	cmd.AddCommand(newGameChallengeCmd())
	cmd.AddCommand(newGameHandCmd())
	cmd.AddCommand(newGameResultCmd())

	return cmd
}

func gamePath(id string, parts ...string) string {
	path := "/api/v1/games/" + url.PathEscape(id)
	for _, p := range parts {
		path += "/" + p
	}
	return path
}

func newGameCreateCmd() *cobra.Command {
	var (
		name       string
		maxPlayers int
		private    bool
		houseRules []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game hosted by you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.CreateGameRequest{
				DisplayName: name,
				MaxPlayers:  maxPlayers,
				IsPrivate:   private,
			}
			for _, r := range houseRules {
				rule := model.HouseRule(r)
				if !rule.Valid() {
					return fmt.Errorf("unknown house rule %q", r)
				}
				req.HouseRules = append(req.HouseRules, rule)
			}

			var result response.Game
			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 0, "Maximum players (2-10)")
	cmd.Flags().BoolVar(&private, "private", false, "Make the game private")
	cmd.Flags().StringSliceVar(&houseRules, "house-rule", nil, "House rules to enable (stacking, drawToMatch, ...)")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Get current game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game
			if err := client.Get(gamePath(args[0]), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <game-id>",
		Short: "Join a game that is waiting for players",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game
			if err := client.Post(gamePath(args[0], "join"), request.JoinGameRequest{DisplayName: name}, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")

	return cmd
}

func newGameAddBotCmd() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "add-bot <game-id>",
		Short: "Seat a computer player (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game
			if err := client.Post(gamePath(args[0], "bots"), request.AddBotRequest{Strategy: strategy}, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "random", "Bot strategy: random, greedy")

	return cmd
}

func newGameStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <game-id>",
		Short: "Deal and start the game (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game
			if err := client.Post(gamePath(args[0], "start"), nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGamePlayCmd() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "play <game-id> <card-index>",
		Short: "Play a card from your hand",
		Long: `Play the card at the given index of your hand (see "game hand").

Wild cards need a color: --color red|yellow|green|blue.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid card index: %w", err)
			}

			req := request.ActionRequest{Type: model.ActionTypePlay, CardIndex: &index}
			if color != "" {
				c, err := parseColor(color)
				if err != nil {
					return err
				}
				req.ChosenColor = &c
			}
			return act(cmd, args[0], req)
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Color to choose when playing a wild card")

	return cmd
}

func newGameDrawCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "draw <game-id>",
		Short: "Draw from the pile, or take a pending penalty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return act(cmd, args[0], request.ActionRequest{Type: model.ActionTypeDraw, Count: count})
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "Number of cards to draw")

	return cmd
}

func newGamePassCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pass <game-id>",
		Short: "End your turn without playing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return act(cmd, args[0], request.ActionRequest{Type: model.ActionTypePass})
		},
	}
}

func act(cmd *cobra.Command, gameID string, req request.ActionRequest) error {
	var result response.Action
	if err := client.Post(gamePath(gameID, "actions"), req, &result); err != nil {
		return err
	}
	NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
	return nil
}

func newGameUnoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uno <game-id>",
		Short: "Call UNO",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Player
			if err := client.Post(gamePath(args[0], "uno"), nil, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameChallengeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "challenge <game-id> <player-id>",
		Short: "Challenge a player who did not call UNO",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.ChallengeRequest{TargetID: model.PlayerID(args[1])}
			var result response.Player
			if err := client.Post(gamePath(args[0], "uno", "challenge"), req, &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameHandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hand <game-id>",
		Short: "Show your hand; playable cards are starred",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Hand
			if err := client.Get(gamePath(args[0], "hand"), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newGameResultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "result <game-id>",
		Short: "Show the result of a finished game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result model.GameResult
			if err := client.Get(gamePath(args[0], "result"), &result); err != nil {
				return err
			}
			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

// parseColor accepts a color name in any case
func parseColor(s string) (model.Color, error) {
	c := model.Color(cases.Lower(language.English).String(s))
	if !c.Valid() {
		return "", fmt.Errorf("invalid color %q: must be red, yellow, green or blue", s)
	}
	return c, nil
}
