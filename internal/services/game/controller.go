package game

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/unogame/internal/dependencies/clock"
	"github.com/mcoot/unogame/internal/dependencies/random"
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/cards"
	"github.com/mcoot/unogame/internal/services/deck"
	"github.com/mcoot/unogame/internal/services/rules"
	"github.com/mcoot/unogame/internal/services/scoring"
	"github.com/mcoot/unogame/internal/storage"
)

// Publisher receives a game's events once the action producing them has committed
type Publisher interface {
	Publish(gameID model.GameID, events []model.Event)
}

// ResultArchive keeps completed game results
type ResultArchive interface {
	SaveResult(ctx context.Context, result *model.GameResult) error
	GetResult(ctx context.Context, gameID model.GameID) (*model.GameResult, error)
	ListResultsForPlayer(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.GameResult, error)
}

// Deps are the collaborators a Controller is built from
type Deps struct {
	Storage   storage.Storage
	Deck      *deck.Engine
	Scoring   *scoring.Service
	Executor  *rules.Executor
	Pipelines *rules.PipelineCache
	Publisher Publisher
	Archive   ResultArchive
	Clock     clock.Clock
	Random    random.Random
	HandSize  int
	Logger    *slog.Logger
}

// Controller drives the game lifecycle and runs player actions through the rule pipeline
type Controller struct {
	storage   storage.Storage
	deck      *deck.Engine
	scoring   *scoring.Service
	executor  *rules.Executor
	pipelines *rules.PipelineCache
	publisher Publisher
	archive   ResultArchive
	clock     clock.Clock
	random    random.Random
	handSize  int
	logger    *slog.Logger
}

// NewController creates a new game Controller
func NewController(deps Deps) *Controller {
	handSize := deps.HandSize
	if handSize <= 0 {
		handSize = model.DefaultHandSize
	}
	return &Controller{
		storage:   deps.Storage,
		deck:      deps.Deck,
		scoring:   deps.Scoring,
		executor:  deps.Executor,
		pipelines: deps.Pipelines,
		publisher: deps.Publisher,
		archive:   deps.Archive,
		clock:     deps.Clock,
		random:    deps.Random,
		handSize:  handSize,
		logger:    deps.Logger.With(slog.String("component", "game")),
	}
}

// ActionResult is what a player sees after their action commits
type ActionResult struct {
	ActionID   string            `json:"actionId"`
	Game       *model.Game       `json:"game"`
	Hand       *model.PlayerHand `json:"hand"`
	CardsDrawn []model.Card      `json:"cardsDrawn"`
	Events     []model.Event     `json:"events"`
	TurnPhase  rules.TurnPhase   `json:"turnPhase"`
	Result     *model.GameResult `json:"result,omitempty"`
}

// CreateGame creates a waiting game with the host seated
func (c *Controller) CreateGame(ctx context.Context, hostID model.PlayerID, displayName string, cfg model.GameConfig) (*model.Game, error) {
	if hostID == "" {
		return nil, model.ErrPlayerNotFound.WithMessage("a player id is required")
	}
	if cfg.HouseRules == nil {
		cfg.HouseRules = []model.HouseRule{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	game := &model.Game{
		ID:      model.GameID(random.NewID(c.random)),
		HostID:  hostID,
		Config:  cfg,
		Players: []model.PlayerID{hostID},
		State: model.GameState{
			Status:        model.GameStatusWaiting,
			Direction:     model.DirectionClockwise,
			DeckSeed:      c.deck.NewSeed(),
			DrawPileCount: deck.Size,
			DiscardPile:   []model.Card{},
		},
		CreatedAt:      now,
		LastActivityAt: now,
	}

	err := c.storage.RunInTransaction(ctx, game.ID, func(tx storage.Tx) error {
		if err := tx.SaveGame(ctx, game); err != nil {
			return err
		}
		return c.seat(ctx, tx, game.ID, &model.GamePlayer{PlayerID: hostID, DisplayName: displayName}, now)
	})
	if err != nil {
		c.logger.Error("failed to create game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("host_id", string(hostID)),
		slog.Int("max_players", cfg.MaxPlayers),
		slog.Any("house_rules", cfg.HouseRules),
	)
	c.publish(game.ID, model.NewEvent(model.EventGameCreated, game.ID, hostID, now, map[string]any{
		"maxPlayers": cfg.MaxPlayers,
		"houseRules": cfg.HouseRules,
	}))
	return game, nil
}

// seat saves a new player's projection and empty hand
func (c *Controller) seat(ctx context.Context, tx storage.Tx, gameID model.GameID, player *model.GamePlayer, now time.Time) error {
	player.GameID = gameID
	if player.DisplayName == "" {
		player.DisplayName = string(player.PlayerID)
	}
	player.Status = model.PlayerStatusActive
	player.JoinedAt = now
	if err := tx.SaveGamePlayer(ctx, player); err != nil {
		return err
	}
	return tx.SaveHand(ctx, &model.PlayerHand{GameID: gameID, PlayerID: player.PlayerID, Cards: []model.Card{}})
}

// JoinGame seats a player in a waiting game
func (c *Controller) JoinGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID, displayName string) (*model.Game, error) {
	if playerID == "" {
		return nil, model.ErrPlayerNotFound.WithMessage("a player id is required")
	}
	return c.join(ctx, gameID, "", &model.GamePlayer{PlayerID: playerID, DisplayName: displayName})
}

// JoinBot seats a computer player on the host's behalf. strategy names how
// the bot picks its moves.
func (c *Controller) JoinBot(ctx context.Context, gameID model.GameID, hostID, botID model.PlayerID, displayName, strategy string) (*model.Game, error) {
	return c.join(ctx, gameID, hostID, &model.GamePlayer{PlayerID: botID, DisplayName: displayName, BotStrategy: strategy})
}

// join seats player. A non-empty hostID must match the game's host.
func (c *Controller) join(ctx context.Context, gameID model.GameID, hostID model.PlayerID, player *model.GamePlayer) (*model.Game, error) {
	now := c.clock.Now()
	playerID := player.PlayerID

	var game *model.Game
	err := c.storage.RunInTransaction(ctx, gameID, func(tx storage.Tx) error {
		var err error
		if game, err = tx.GetGame(ctx, gameID); err != nil {
			return err
		}
		if hostID != "" && game.HostID != hostID {
			return model.ErrNotHost
		}
		if game.State.Status != model.GameStatusWaiting {
			return model.ErrGameNotWaiting.WithDetails(map[string]any{"status": string(game.State.Status)})
		}
		if game.SeatOf(playerID) >= 0 {
			return model.ErrAlreadyJoined
		}
		if game.IsFull() {
			return model.ErrGameFull.WithDetails(map[string]any{"maxPlayers": game.Config.MaxPlayers})
		}

		game.Players = append(game.Players, playerID)
		game.LastActivityAt = now
		if err := tx.SaveGame(ctx, game); err != nil {
			return err
		}
		return c.seat(ctx, tx, gameID, player.Clone(), now)
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("player joined",
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.Bool("bot", player.IsBot()),
		slog.Int("player_count", len(game.Players)),
	)
	c.publish(gameID, model.NewEvent(model.EventPlayerJoined, gameID, playerID, now, map[string]any{
		"playerCount": len(game.Players),
	}))
	return game, nil
}

// StartGame deals the opening hands and turns up the first discard.
// Only the host may start, and only with at least two players seated.
func (c *Controller) StartGame(ctx context.Context, gameID model.GameID, hostID model.PlayerID) (*model.Game, error) {
	now := c.clock.Now()

	var game *model.Game
	err := c.storage.RunInTransaction(ctx, gameID, func(tx storage.Tx) error {
		var err error
		if game, err = tx.GetGame(ctx, gameID); err != nil {
			return err
		}
		if game.State.Status != model.GameStatusWaiting {
			return model.ErrGameNotWaiting.WithDetails(map[string]any{"status": string(game.State.Status)})
		}
		if game.HostID != hostID {
			return model.ErrNotHost
		}
		if len(game.Players) < model.MinPlayers {
			return model.ErrInsufficientPlayers.WithDetails(map[string]any{
				"players": len(game.Players),
				"min":     model.MinPlayers,
			})
		}

		hands, start, err := c.deck.Deal(game.State.DeckSeed, len(game.Players), c.handSize)
		if err != nil {
			return err
		}
		for seat, id := range game.Players {
			player, err := tx.GetGamePlayer(ctx, gameID, id)
			if err != nil {
				return err
			}
			player.CardCount = len(hands[seat])
			if err := tx.SaveGamePlayer(ctx, player); err != nil {
				return err
			}
			if err := tx.SaveHand(ctx, &model.PlayerHand{GameID: gameID, PlayerID: id, Cards: hands[seat]}); err != nil {
				return err
			}
		}

		game.State.Status = model.GameStatusInProgress
		game.State.CurrentTurnPlayerID = game.Players[0]
		game.State.Direction = model.DirectionClockwise
		game.State.DiscardPile = []model.Card{start}
		game.State.CurrentColor = nil
		game.State.MustDraw = 0
		game.State.DrawPileCount = deck.Size - len(game.Players)*c.handSize - 1
		game.StartedAt = &now
		game.LastActivityAt = now
		return tx.SaveGame(ctx, game)
	})
	if err != nil {
		return nil, err
	}

	start, _ := game.State.TopCard()
	c.logger.Info("game started",
		slog.String("game_id", string(gameID)),
		slog.Int("player_count", len(game.Players)),
		slog.String("start_card", start.String()),
	)
	c.publish(gameID, model.NewEvent(model.EventGameStarted, gameID, hostID, now, map[string]any{
		"startCard":     start,
		"firstPlayerId": string(game.State.CurrentTurnPlayerID),
	}))
	return game, nil
}

// PerformAction runs one play, draw or pass through the rule pipeline and
// applies the resulting effects atomically
func (c *Controller) PerformAction(ctx context.Context, gameID model.GameID, playerID model.PlayerID, action model.Action) (*ActionResult, error) {
	actionID := newActionID()
	logger := c.logger.With(
		slog.String("game_id", string(gameID)),
		slog.String("player_id", string(playerID)),
		slog.String("action_id", actionID),
	)
	now := c.clock.Now()

	var out *ActionResult
	var agg *rules.Aggregate
	err := c.storage.RunInTransaction(ctx, gameID, func(tx storage.Tx) error {
		game, err := tx.GetGame(ctx, gameID)
		if err != nil {
			return err
		}
		player, err := optional(tx.GetGamePlayer(ctx, gameID, playerID))
		if err != nil {
			return err
		}
		hand, err := optional(tx.GetHand(ctx, gameID, playerID))
		if err != nil {
			return err
		}

		p := c.pipeline(game.Config.HouseRules)
		rc := rules.NewContext(game, player, hand, action, tx, now)
		rc.PlayerID = playerID
		if p.NeedsAllHands(rc) {
			if rc.AllHands, err = tx.GetHands(ctx, gameID); err != nil {
				return err
			}
		}

		mustDraw := game.State.MustDraw
		result, err := c.executor.Execute(ctx, p, rc)
		if err != nil {
			return err
		}
		if err := applyAggregate(ctx, tx, game, result.Aggregate); err != nil {
			return err
		}

		agg = result.Aggregate
		out = &ActionResult{
			ActionID:   actionID,
			Game:       game,
			Hand:       hand,
			CardsDrawn: result.CardsDrawn,
			Events:     result.Aggregate.Events,
			TurnPhase:  rules.TurnPhaseAfter(action, mustDraw),
		}
		if held, ok := agg.Hands[playerID]; ok {
			out.Hand = &model.PlayerHand{GameID: gameID, PlayerID: playerID, Cards: held}
		}
		if out.CardsDrawn == nil {
			out.CardsDrawn = []model.Card{}
		}
		return nil
	})
	if err != nil {
		if model.IsDomainError(err) {
			logger.Debug("action rejected", slog.String("type", string(action.Type)), slog.String("error", err.Error()))
		} else {
			logger.Error("action failed", slog.String("type", string(action.Type)), slog.String("error", err.Error()))
		}
		return nil, err
	}

	logger.Info("action performed",
		slog.String("type", string(action.Type)),
		slog.Int("cards_drawn", len(out.CardsDrawn)),
		slog.Int("events", len(out.Events)),
	)
	c.publisher.Publish(gameID, out.Events)

	if agg.Winner != nil {
		result := agg.Winner.Data.Result
		out.Result = &result
		logger.Info("game won",
			slog.String("winner_id", string(result.WinnerID)),
			slog.Int("winner_score", result.WinnerScore),
		)
		// The game has committed; a failed archive write only costs the history entry
		if err := c.archive.SaveResult(ctx, &result); err != nil {
			logger.Error("failed to archive result", slog.String("error", err.Error()))
		}
	}
	return out, nil
}

// pipeline returns the cached pipeline for a house-rule set
func (c *Controller) pipeline(houseRules []model.HouseRule) *rules.Pipeline {
	return c.pipelines.GetOrBuild(rules.Signature(houseRules), func() *rules.Pipeline {
		return rules.DefaultPipeline(
			rules.Deps{Deck: c.deck, Scoring: c.scoring},
			cards.NewHouseRuleSet(houseRules...),
		)
	})
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// GetPlayers returns the game's players in seat order
func (c *Controller) GetPlayers(ctx context.Context, gameID model.GameID) ([]*model.GamePlayer, error) {
	return c.storage.GetGamePlayers(ctx, gameID)
}

// GetHand returns a player's own hand
func (c *Controller) GetHand(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.PlayerHand, error) {
	return c.storage.GetHand(ctx, gameID, playerID)
}

// GetStats returns a player's long-lived statistics
func (c *Controller) GetStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	return c.storage.GetPlayerStats(ctx, playerID)
}

// GetResult returns the archived result of a completed game. Results outlive
// the live game documents, so a missing game is not an error by itself.
func (c *Controller) GetResult(ctx context.Context, gameID model.GameID) (*model.GameResult, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	switch {
	case errors.Is(err, model.ErrGameNotFound):
	case err != nil:
		return nil, err
	case game.State.Status != model.GameStatusCompleted:
		return nil, model.ErrResultNotFound.WithDetails(map[string]any{"status": string(game.State.Status)})
	}
	return c.archive.GetResult(ctx, gameID)
}

// ListResults returns a player's most recent archived results, newest first
func (c *Controller) ListResults(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.GameResult, error) {
	return c.archive.ListResultsForPlayer(ctx, playerID, limit)
}

func (c *Controller) publish(gameID model.GameID, events ...model.Event) {
	c.publisher.Publish(gameID, events)
}

// optional turns a NOT_FOUND lookup into a nil document so the pipeline can
// report it with its own rule context
func optional[T any](doc *T, err error) (*T, error) {
	if errors.Is(err, model.ErrPlayerNotFound) || errors.Is(err, model.ErrHandNotFound) {
		return nil, nil
	}
	return doc, err
}

func newActionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
