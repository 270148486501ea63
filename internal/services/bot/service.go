package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mcoot/unogame/internal/dependencies/random"
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/cards"
	"github.com/mcoot/unogame/internal/services/game"
	"github.com/mcoot/unogame/internal/services/rules"
)

const (
	// StrategyRandom and StrategyGreedy name the built-in strategies
	StrategyRandom = "random"
	StrategyGreedy = "greedy"

	// PlayerIDAlphabet is the character set for generating bot player IDs
	PlayerIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// PlayerIDLength is the length of generated bot player IDs, excluding the prefix
	PlayerIDLength = 16
	// MaxBotIterations is a safety limit for the ProcessBotActions loop
	MaxBotIterations = 1000
)

// BotActionType is the kind of move a bot made
type BotActionType string

const (
	ActionPlay         BotActionType = "play"
	ActionDraw         BotActionType = "draw"
	ActionPass         BotActionType = "pass"
	ActionCallUno      BotActionType = "call_uno"
	ActionChallenge    BotActionType = "challenge"
	ActionGameComplete BotActionType = "game_complete"
)

// BotAction is a single move made during ProcessBotActions
type BotAction struct {
	Type     BotActionType
	PlayerID model.PlayerID
	Card     *model.Card    // Set for plays
	TargetID model.PlayerID // Set for challenges
}

// Service seats computer players and plays their turns
type Service struct {
	controller *game.Controller
	strategies map[string]Strategy
	random     random.Random
	logger     *slog.Logger
}

// NewService creates a new bot Service
func NewService(controller *game.Controller, strategies map[string]Strategy, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		controller: controller,
		strategies: strategies,
		random:     rnd,
		logger:     logger.With(slog.String("component", "bot-service")),
	}
}

// Strategies returns the registered strategy names in sorted order
func (s *Service) Strategies() []string {
	names := make([]string, 0, len(s.strategies))
	for name := range s.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddBot seats a new bot in a waiting game. Only the host may add bots.
func (s *Service) AddBot(ctx context.Context, gameID model.GameID, hostID model.PlayerID, strategy string) (*model.Game, error) {
	if _, ok := s.strategies[strategy]; !ok {
		return nil, model.ErrUnknownBotStrategy.WithDetails(map[string]any{
			"strategy":  strategy,
			"available": s.Strategies(),
		})
	}

	players, err := s.controller.GetPlayers(ctx, gameID)
	if err != nil {
		return nil, err
	}
	botCount := 0
	for _, p := range players {
		if p.IsBot() {
			botCount++
		}
	}

	botID := model.PlayerID("bot-" + s.random.String(PlayerIDLength, PlayerIDAlphabet))
	displayName := fmt.Sprintf("Bot %d", botCount+1)
	g, err := s.controller.JoinBot(ctx, gameID, hostID, botID, displayName, strategy)
	if err != nil {
		return nil, err
	}

	s.logger.Info("bot added to game",
		slog.String("game_id", string(gameID)),
		slog.String("bot_id", string(botID)),
		slog.String("strategy", strategy),
	)
	return g, nil
}

// ProcessBotActions plays bot turns until a person is due to act or the game
// ends. It returns every move made, even when it stops on an error.
func (s *Service) ProcessBotActions(ctx context.Context, gameID model.GameID) ([]BotAction, error) {
	var actions []BotAction

	for i := 0; i < MaxBotIterations; i++ {
		g, err := s.controller.GetGame(ctx, gameID)
		if err != nil {
			return actions, err
		}
		if g.State.Status != model.GameStatusInProgress {
			break
		}

		players, err := s.controller.GetPlayers(ctx, gameID)
		if err != nil {
			return actions, err
		}
		current := findPlayer(players, g.State.CurrentTurnPlayerID)
		if current == nil || !current.IsBot() {
			break
		}

		taken, err := s.takeTurn(ctx, g, current, players)
		actions = append(actions, taken...)
		if err != nil {
			s.logger.Error("bot turn failed",
				slog.String("game_id", string(gameID)),
				slog.String("bot_id", string(current.PlayerID)),
				slog.String("error", err.Error()),
			)
			return actions, err
		}
		if n := len(actions); n > 0 && actions[n-1].Type == ActionGameComplete {
			break
		}
	}

	return actions, nil
}

// takeTurn plays one bot turn: challenge anyone caught without UNO, then
// play, or draw and play, or pass
func (s *Service) takeTurn(ctx context.Context, g *model.Game, bot *model.GamePlayer, players []*model.GamePlayer) ([]BotAction, error) {
	var actions []BotAction

	for _, p := range players {
		if p.PlayerID == bot.PlayerID || !p.MustCallUno {
			continue
		}
		if _, err := s.controller.ChallengeUno(ctx, g.ID, bot.PlayerID, p.PlayerID); err != nil {
			return actions, err
		}
		actions = append(actions, BotAction{Type: ActionChallenge, PlayerID: bot.PlayerID, TargetID: p.PlayerID})
	}

	hand, err := s.controller.GetHand(ctx, g.ID, bot.PlayerID)
	if err != nil {
		return actions, err
	}
	strategy := s.strategyFor(bot)
	turn := Turn{Game: g, Hand: hand.Cards, Drawn: g.State.HasDrawn}

	// At most a draw followed by a play or pass
	for i := 0; i < 2; i++ {
		top, _ := turn.Game.State.TopCard()
		turn.Playable = cards.PlayableIndexes(turn.Hand, top, turn.Game.State.CurrentColor, turn.Game.State.MustDraw,
			cards.NewHouseRuleSet(turn.Game.Config.HouseRules...))
		action := nextAction(strategy, turn)

		if action.Type == model.ActionTypePlay && len(turn.Hand) == 2 {
			if _, err := s.controller.CallUno(ctx, g.ID, bot.PlayerID); err != nil {
				return actions, err
			}
			actions = append(actions, BotAction{Type: ActionCallUno, PlayerID: bot.PlayerID})
		}

		penalty := turn.Game.State.MustDraw > 0
		result, err := s.controller.PerformAction(ctx, g.ID, bot.PlayerID, action)
		if action.Type == model.ActionTypeDraw && !penalty && errors.Is(err, model.ErrNotEnoughCards) {
			action = model.PassAction()
			result, err = s.controller.PerformAction(ctx, g.ID, bot.PlayerID, action)
		}
		if err != nil {
			return actions, err
		}
		actions = append(actions, record(bot.PlayerID, action, turn.Hand))

		if result.Result != nil {
			return append(actions, BotAction{Type: ActionGameComplete}), nil
		}
		if result.TurnPhase != rules.TurnAwaitingDraw {
			return actions, nil
		}
		turn = Turn{Game: result.Game, Hand: result.Hand.Cards, Drawn: true}
	}
	return actions, nil
}

func record(playerID model.PlayerID, action model.Action, hand []model.Card) BotAction {
	switch action.Type {
	case model.ActionTypePlay:
		card := hand[action.CardIndex]
		return BotAction{Type: ActionPlay, PlayerID: playerID, Card: &card}
	case model.ActionTypeDraw:
		return BotAction{Type: ActionDraw, PlayerID: playerID}
	}
	return BotAction{Type: ActionPass, PlayerID: playerID}
}

// strategyFor returns the bot's strategy, falling back to random for
// strategies that are no longer registered
func (s *Service) strategyFor(bot *model.GamePlayer) Strategy {
	if st, ok := s.strategies[bot.BotStrategy]; ok {
		return st
	}
	return s.strategies[StrategyRandom]
}

func findPlayer(players []*model.GamePlayer, id model.PlayerID) *model.GamePlayer {
	for _, p := range players {
		if p.PlayerID == id {
			return p
		}
	}
	return nil
}
