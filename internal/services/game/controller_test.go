package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/unogame/internal/dependencies/mocks"
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/deck"
	"github.com/mcoot/unogame/internal/services/rules"
	"github.com/mcoot/unogame/internal/services/scoring"
	"github.com/mcoot/unogame/internal/storage"
	"github.com/mcoot/unogame/internal/storage/memory"
	"github.com/mcoot/unogame/internal/testutil"
)

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

func (p *recordingPublisher) Publish(_ model.GameID, events []model.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
}

func (p *recordingPublisher) types() []model.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []model.EventType{}
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeArchive struct {
	results map[model.GameID]*model.GameResult
}

func (a *fakeArchive) SaveResult(_ context.Context, result *model.GameResult) error {
	a.results[result.GameID] = result
	return nil
}

func (a *fakeArchive) GetResult(_ context.Context, gameID model.GameID) (*model.GameResult, error) {
	if r, ok := a.results[gameID]; ok {
		return r, nil
	}
	return nil, model.ErrResultNotFound
}

func (a *fakeArchive) ListResultsForPlayer(_ context.Context, playerID model.PlayerID, _ int) ([]*model.GameResult, error) {
	out := []*model.GameResult{}
	for _, r := range a.results {
		for _, rk := range r.Rankings {
			if rk.PlayerID == playerID {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	deck       *deck.Engine
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	publisher  *recordingPublisher
	archive    *fakeArchive
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.publisher = &recordingPublisher{}
	s.archive = &fakeArchive{results: map[model.GameID]*model.GameResult{}}
	s.deck = deck.NewEngine(deck.NewCache(), s.random, deck.DefaultDrawToMatchLimit, testutil.NopLogger())
	s.controller = NewController(Deps{
		Storage:   s.storage,
		Deck:      s.deck,
		Scoring:   scoring.New(),
		Executor:  rules.NewExecutor(rules.NewAggregator(rules.NewFieldValidator(true, testutil.NopLogger())), testutil.NopLogger()),
		Pipelines: rules.NewPipelineCache(),
		Publisher: s.publisher,
		Archive:   s.archive,
		Clock:     s.clock,
		Random:    s.random,
		Logger:    testutil.NopLogger(),
	})
	s.ctx = context.Background()
}

func red(n int) model.Card  { return model.NumberCard(model.ColorRed, n) }
func blue(n int) model.Card { return model.NumberCard(model.ColorBlue, n) }

// newGame creates game-1 hosted by p1 with the other ids joined
func (s *ControllerSuite) newGame(cfg model.GameConfig, ids ...model.PlayerID) *model.Game {
	s.random.QueueString("game-1", "test-seed")
	game, err := s.controller.CreateGame(s.ctx, "p1", "Alice", cfg)
	s.Require().NoError(err)
	for _, id := range ids {
		game, err = s.controller.JoinGame(s.ctx, game.ID, id, "")
		s.Require().NoError(err)
	}
	return game
}

// started returns a started game whose hands and discard are replaced with fixed cards
func (s *ControllerSuite) started(top model.Card, hands map[model.PlayerID][]model.Card) model.GameID {
	ids := []model.PlayerID{}
	for id := range hands {
		if id != "p1" {
			ids = append(ids, id)
		}
	}
	game := s.newGame(model.DefaultGameConfig(), sortIDs(ids)...)
	_, err := s.controller.StartGame(s.ctx, game.ID, "p1")
	s.Require().NoError(err)

	err = s.storage.RunInTransaction(s.ctx, game.ID, func(tx storage.Tx) error {
		g, err := tx.GetGame(s.ctx, game.ID)
		if err != nil {
			return err
		}
		g.State.DiscardPile = []model.Card{top}
		if err := tx.SaveGame(s.ctx, g); err != nil {
			return err
		}
		for id, held := range hands {
			p, err := tx.GetGamePlayer(s.ctx, game.ID, id)
			if err != nil {
				return err
			}
			p.CardCount = len(held)
			if err := tx.SaveGamePlayer(s.ctx, p); err != nil {
				return err
			}
			if err := tx.SaveHand(s.ctx, &model.PlayerHand{GameID: game.ID, PlayerID: id, Cards: held}); err != nil {
				return err
			}
		}
		return nil
	})
	s.Require().NoError(err)
	return game.ID
}

func sortIDs(ids []model.PlayerID) []model.PlayerID {
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			if ids[j] < ids[i] {
				ids[i], ids[j] = ids[j], ids[i]
			}
		}
	}
	return ids
}

// Lifecycle

func (s *ControllerSuite) TestCreateGame() {
	game := s.newGame(model.DefaultGameConfig())

	s.Equal(model.GameID("game-1"), game.ID)
	s.Equal(model.GameStatusWaiting, game.State.Status)
	s.Equal("test-seed", game.State.DeckSeed)
	s.Equal(deck.Size, game.State.DrawPileCount)
	s.Equal([]model.PlayerID{"p1"}, game.Players)

	player, err := s.storage.GetGamePlayer(s.ctx, "game-1", "p1")
	s.Require().NoError(err)
	s.Equal("Alice", player.DisplayName)
	hand, err := s.controller.GetHand(s.ctx, "game-1", "p1")
	s.Require().NoError(err)
	s.Empty(hand.Cards)

	s.Equal([]model.EventType{model.EventGameCreated}, s.publisher.types())
}

func (s *ControllerSuite) TestCreateGameRejectsBadConfig() {
	_, err := s.controller.CreateGame(s.ctx, "p1", "", model.GameConfig{MaxPlayers: 1})
	s.ErrorIs(err, model.ErrInvalidConfig)

	_, err = s.controller.CreateGame(s.ctx, "p1", "", model.GameConfig{MaxPlayers: 4, HouseRules: []model.HouseRule{"everyone-wins"}})
	s.ErrorIs(err, model.ErrInvalidConfig)
}

func (s *ControllerSuite) TestJoinGame() {
	game := s.newGame(model.DefaultGameConfig(), "p2")

	s.Equal([]model.PlayerID{"p1", "p2"}, game.Players)
	player, err := s.storage.GetGamePlayer(s.ctx, game.ID, "p2")
	s.Require().NoError(err)
	s.Equal("p2", player.DisplayName)

	_, err = s.controller.JoinGame(s.ctx, game.ID, "p2", "")
	s.ErrorIs(err, model.ErrAlreadyJoined)

	_, err = s.controller.JoinGame(s.ctx, "missing", "p3", "")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestJoinFullGame() {
	game := s.newGame(model.GameConfig{MaxPlayers: 2}, "p2")

	_, err := s.controller.JoinGame(s.ctx, game.ID, "p3", "")

	s.ErrorIs(err, model.ErrGameFull)
}

func (s *ControllerSuite) TestStartGameDeals() {
	game := s.newGame(model.DefaultGameConfig(), "p2", "p3")

	started, err := s.controller.StartGame(s.ctx, game.ID, "p1")
	s.Require().NoError(err)

	s.Equal(model.GameStatusInProgress, started.State.Status)
	s.Equal(model.PlayerID("p1"), started.State.CurrentTurnPlayerID)
	s.Equal(deck.Size-3*model.DefaultHandSize-1, started.State.DrawPileCount)
	s.Nil(started.State.CurrentColor)
	s.Equal(s.clock.Now(), *started.StartedAt)

	hands, start, err := s.deck.Deal("test-seed", 3, model.DefaultHandSize)
	s.Require().NoError(err)
	s.Equal([]model.Card{start}, started.State.DiscardPile)

	players, err := s.controller.GetPlayers(s.ctx, game.ID)
	s.Require().NoError(err)
	for seat, p := range players {
		s.Equal(model.DefaultHandSize, p.CardCount)
		hand, err := s.controller.GetHand(s.ctx, game.ID, p.PlayerID)
		s.Require().NoError(err)
		s.Equal(hands[seat], hand.Cards)
	}

	_, err = s.controller.JoinGame(s.ctx, game.ID, "p4", "")
	s.ErrorIs(err, model.ErrGameNotWaiting)
}

func (s *ControllerSuite) TestStartGameGuards() {
	game := s.newGame(model.DefaultGameConfig())

	_, err := s.controller.StartGame(s.ctx, game.ID, "p1")
	s.ErrorIs(err, model.ErrInsufficientPlayers)

	_, err = s.controller.JoinGame(s.ctx, game.ID, "p2", "")
	s.Require().NoError(err)
	_, err = s.controller.StartGame(s.ctx, game.ID, "p2")
	s.ErrorIs(err, model.ErrNotHost)
}

// Actions

func (s *ControllerSuite) TestPlayCard() {
	gameID := s.started(red(5), map[model.PlayerID][]model.Card{
		"p1": {red(3), blue(5), blue(1)},
		"p2": {blue(7), blue(8)},
	})

	res, err := s.controller.PerformAction(s.ctx, gameID, "p1", model.PlayAction(0, nil))
	s.Require().NoError(err)

	s.Equal(rules.TurnComplete, res.TurnPhase)
	s.Equal([]model.Card{blue(5), blue(1)}, res.Hand.Cards)
	s.Equal(model.PlayerID("p2"), res.Game.State.CurrentTurnPlayerID)
	s.Empty(res.CardsDrawn)

	id, err := uuid.Parse(res.ActionID)
	s.Require().NoError(err)
	s.Equal(uuid.Version(7), id.Version())

	game, err := s.controller.GetGame(s.ctx, gameID)
	s.Require().NoError(err)
	top, _ := game.State.TopCard()
	s.Equal(red(3), top)

	player, err := s.storage.GetGamePlayer(s.ctx, gameID, "p1")
	s.Require().NoError(err)
	s.Equal(2, player.CardCount)
	s.Equal(1, player.GameStats.CardsPlayed)
	s.Equal(s.clock.Now(), *player.LastActionAt)

	s.Contains(s.publisher.types(), model.EventCardPlayed)
}

func (s *ControllerSuite) TestRejectedActionChangesNothing() {
	gameID := s.started(red(5), map[model.PlayerID][]model.Card{
		"p1": {red(3), blue(5)},
		"p2": {blue(7), blue(8)},
	})
	published := len(s.publisher.types())

	_, err := s.controller.PerformAction(s.ctx, gameID, "p2", model.PlayAction(0, nil))
	s.ErrorIs(err, model.ErrNotYourTurn)

	_, err = s.controller.PerformAction(s.ctx, gameID, "p1", model.PlayAction(1, nil))
	s.ErrorIs(err, model.ErrCardNotPlayable)

	_, err = s.controller.PerformAction(s.ctx, gameID, "stranger", model.PassAction())
	s.ErrorIs(err, model.ErrPlayerNotFound)

	hand, err := s.controller.GetHand(s.ctx, gameID, "p1")
	s.Require().NoError(err)
	s.Len(hand.Cards, 2)
	s.Len(s.publisher.types(), published)
}

func (s *ControllerSuite) TestDrawThenPass() {
	gameID := s.started(red(5), map[model.PlayerID][]model.Card{
		"p1": {blue(3)},
		"p2": {blue(7), blue(8)},
	})
	before, err := s.controller.GetGame(s.ctx, gameID)
	s.Require().NoError(err)

	res, err := s.controller.PerformAction(s.ctx, gameID, "p1", model.DrawAction(1))
	s.Require().NoError(err)

	s.Equal(rules.TurnAwaitingDraw, res.TurnPhase)
	s.Len(res.CardsDrawn, 1)
	s.Equal(append([]model.Card{blue(3)}, res.CardsDrawn...), res.Hand.Cards)
	s.Equal(model.PlayerID("p1"), res.Game.State.CurrentTurnPlayerID)
	s.Equal(before.State.DeckSeed, res.Game.State.DeckSeed)

	stored, err := s.controller.GetHand(s.ctx, gameID, "p1")
	s.Require().NoError(err)
	s.Equal(res.Hand.Cards, stored.Cards)

	res, err = s.controller.PerformAction(s.ctx, gameID, "p1", model.PassAction())
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p2"), res.Game.State.CurrentTurnPlayerID)
}

func (s *ControllerSuite) TestOneVoluntaryDrawPerTurn() {
	gameID := s.started(red(5), map[model.PlayerID][]model.Card{
		"p1": {blue(3)},
		"p2": {blue(7), blue(8)},
	})

	_, err := s.controller.PerformAction(s.ctx, gameID, "p1", model.DrawAction(1))
	s.Require().NoError(err)

	_, err = s.controller.PerformAction(s.ctx, gameID, "p1", model.DrawAction(1))
	s.ErrorIs(err, model.ErrAlreadyDrew)
	hand, err := s.controller.GetHand(s.ctx, gameID, "p1")
	s.Require().NoError(err)
	s.Len(hand.Cards, 2)

	res, err := s.controller.PerformAction(s.ctx, gameID, "p1", model.PassAction())
	s.Require().NoError(err)
	s.False(res.Game.State.HasDrawn)

	res, err = s.controller.PerformAction(s.ctx, gameID, "p2", model.DrawAction(1))
	s.Require().NoError(err)
	s.True(res.Game.State.HasDrawn)
}

func (s *ControllerSuite) TestPenaltyDraw() {
	gameID := s.started(red(5), map[model.PlayerID][]model.Card{
		"p1": {model.SpecialCard(model.ColorRed, model.ValueDrawTwo), blue(1)},
		"p2": {blue(7), blue(8)},
	})
	_, err := s.controller.PerformAction(s.ctx, gameID, "p1", model.PlayAction(0, nil))
	s.Require().NoError(err)

	_, err = s.controller.PerformAction(s.ctx, gameID, "p2", model.PassAction())
	s.ErrorIs(err, model.ErrMustDrawPenalty)

	res, err := s.controller.PerformAction(s.ctx, gameID, "p2", model.DrawAction(1))
	s.Require().NoError(err)

	s.Len(res.CardsDrawn, 2)
	s.Equal(0, res.Game.State.MustDraw)
	s.Equal(model.PlayerID("p1"), res.Game.State.CurrentTurnPlayerID)
	s.Equal(rules.TurnComplete, res.TurnPhase)
}

func (s *ControllerSuite) TestWinningPlayCompletesGame() {
	gameID := s.started(red(5), map[model.PlayerID][]model.Card{
		"p1": {red(3)},
		"p2": {blue(7), model.WildCard(model.ValueWild)},
	})

	_, err := s.controller.GetResult(s.ctx, gameID)
	s.ErrorIs(err, model.ErrResultNotFound)

	res, err := s.controller.PerformAction(s.ctx, gameID, "p1", model.PlayAction(0, nil))
	s.Require().NoError(err)

	s.Require().NotNil(res.Result)
	s.Equal(57, res.Result.WinnerScore)
	s.Equal(model.GameStatusCompleted, res.Game.State.Status)
	s.Equal(model.PlayerID("p1"), res.Game.WinnerID)
	s.Equal(s.clock.Now(), *res.Game.CompletedAt)

	result, err := s.controller.GetResult(s.ctx, gameID)
	s.Require().NoError(err)
	s.Equal(res.Result, result)

	winner, err := s.controller.GetStats(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal(1, winner.GamesWon)
	s.Equal(57, winner.TotalScore)
	loser, err := s.controller.GetStats(s.ctx, "p2")
	s.Require().NoError(err)
	s.Equal(1, loser.GamesLost)
	s.Equal(0.0, loser.WinRate)

	history, err := s.controller.ListResults(s.ctx, "p2", 10)
	s.Require().NoError(err)
	s.Len(history, 1)

	_, err = s.controller.PerformAction(s.ctx, gameID, "p2", model.PassAction())
	s.ErrorIs(err, model.ErrGameNotInProgress)
	s.Contains(s.publisher.types(), model.EventGameWon)
}

// UNO

func (s *ControllerSuite) TestChallengeUno() {
	gameID := s.started(red(5), map[model.PlayerID][]model.Card{
		"p1": {red(3), blue(5)},
		"p2": {blue(7), blue(8)},
	})
	_, err := s.controller.PerformAction(s.ctx, gameID, "p1", model.PlayAction(0, nil))
	s.Require().NoError(err)

	target, err := s.controller.ChallengeUno(s.ctx, gameID, "p2", "p1")
	s.Require().NoError(err)

	s.Equal(3, target.CardCount)
	s.False(target.MustCallUno)
	s.Equal(2, target.GameStats.CardsDrawn)
	hand, err := s.controller.GetHand(s.ctx, gameID, "p1")
	s.Require().NoError(err)
	s.Len(hand.Cards, 3)
	s.Contains(s.publisher.types(), model.EventUnoPenalty)

	_, err = s.controller.ChallengeUno(s.ctx, gameID, "p2", "p1")
	s.ErrorIs(err, model.ErrUnoNotApplicable)
}

func (s *ControllerSuite) TestPassingClearsMissedUno() {
	gameID := s.started(red(5), map[model.PlayerID][]model.Card{
		"p1": {red(3), blue(5)},
		"p2": {blue(7), blue(8)},
	})
	_, err := s.controller.PerformAction(s.ctx, gameID, "p1", model.PlayAction(0, nil))
	s.Require().NoError(err)

	_, err = s.controller.PerformAction(s.ctx, gameID, "p2", model.DrawAction(1))
	s.Require().NoError(err)
	_, err = s.controller.PerformAction(s.ctx, gameID, "p2", model.PassAction())
	s.Require().NoError(err)

	players, err := s.controller.GetPlayers(s.ctx, gameID)
	s.Require().NoError(err)
	s.True(players[0].MustCallUno)

	_, err = s.controller.PerformAction(s.ctx, gameID, "p1", model.PassAction())
	s.Require().NoError(err)

	players, err = s.controller.GetPlayers(s.ctx, gameID)
	s.Require().NoError(err)
	s.False(players[0].MustCallUno)
	_, err = s.controller.ChallengeUno(s.ctx, gameID, "p2", "p1")
	s.ErrorIs(err, model.ErrUnoNotApplicable)
	hand, err := s.controller.GetHand(s.ctx, gameID, "p1")
	s.Require().NoError(err)
	s.Len(hand.Cards, 1)
}

func (s *ControllerSuite) TestCallingUnoPreventsChallenge() {
	gameID := s.started(red(5), map[model.PlayerID][]model.Card{
		"p1": {red(3), blue(5)},
		"p2": {blue(7), blue(8), blue(9)},
	})

	_, err := s.controller.CallUno(s.ctx, gameID, "p2")
	s.ErrorIs(err, model.ErrUnoNotApplicable)

	player, err := s.controller.CallUno(s.ctx, gameID, "p1")
	s.Require().NoError(err)
	s.True(player.HasCalledUno)

	_, err = s.controller.PerformAction(s.ctx, gameID, "p1", model.PlayAction(0, nil))
	s.Require().NoError(err)

	_, err = s.controller.ChallengeUno(s.ctx, gameID, "p2", "p1")
	s.ErrorIs(err, model.ErrUnoNotApplicable)
	_, err = s.controller.ChallengeUno(s.ctx, gameID, "p1", "p1")
	s.ErrorIs(err, model.ErrUnoNotApplicable)
	s.Contains(s.publisher.types(), model.EventUnoCalled)
}

func (s *ControllerSuite) TestUnoRequiresGameInProgress() {
	game := s.newGame(model.DefaultGameConfig(), "p2")

	_, err := s.controller.CallUno(s.ctx, game.ID, "p1")

	s.ErrorIs(err, model.ErrGameNotInProgress)
}
