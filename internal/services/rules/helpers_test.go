package rules

import (
	"context"
	"time"

	"github.com/mcoot/unogame/internal/dependencies/mocks"
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/cards"
	"github.com/mcoot/unogame/internal/services/deck"
	"github.com/mcoot/unogame/internal/services/scoring"
	"github.com/mcoot/unogame/internal/testutil"
)

var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

// fakeReader serves finalize reads from fixed documents
type fakeReader struct {
	players []*model.GamePlayer
	hands   map[model.PlayerID]*model.PlayerHand
	stats   map[model.PlayerID]*model.PlayerStats
}

func (f *fakeReader) GetGamePlayers(_ context.Context, _ model.GameID) ([]*model.GamePlayer, error) {
	return f.players, nil
}

func (f *fakeReader) GetHands(_ context.Context, _ model.GameID) (map[model.PlayerID]*model.PlayerHand, error) {
	return f.hands, nil
}

func (f *fakeReader) GetPlayerStats(_ context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	if st, ok := f.stats[playerID]; ok {
		return st, nil
	}
	return nil, model.ErrStatsNotFound
}

// table is a game fixture: a game document plus every player's documents
type table struct {
	game    *model.Game
	players map[model.PlayerID]*model.GamePlayer
	hands   map[model.PlayerID]*model.PlayerHand
	stats   map[model.PlayerID]*model.PlayerStats
}

func newTable(top model.Card, houseRules []model.HouseRule, ids ...model.PlayerID) *table {
	t := &table{
		game: &model.Game{
			ID:      "game-1",
			HostID:  ids[0],
			Players: ids,
			Config:  model.GameConfig{MaxPlayers: model.MaxPlayersLimit, HouseRules: houseRules},
			State: model.GameState{
				Status:              model.GameStatusInProgress,
				CurrentTurnPlayerID: ids[0],
				Direction:           model.DirectionClockwise,
				DeckSeed:            "test-seed",
				DiscardPile:         []model.Card{top},
			},
		},
		players: map[model.PlayerID]*model.GamePlayer{},
		hands:   map[model.PlayerID]*model.PlayerHand{},
		stats:   map[model.PlayerID]*model.PlayerStats{},
	}
	for _, id := range ids {
		t.players[id] = &model.GamePlayer{GameID: "game-1", PlayerID: id, Status: model.PlayerStatusActive}
		t.hands[id] = &model.PlayerHand{GameID: "game-1", PlayerID: id, Cards: []model.Card{}}
	}
	return t
}

func (t *table) deal(id model.PlayerID, hand ...model.Card) *table {
	t.hands[id].Cards = hand
	t.players[id].CardCount = len(hand)
	return t
}

func (t *table) reader() *fakeReader {
	r := &fakeReader{hands: t.hands, stats: t.stats}
	for _, id := range t.game.Players {
		r.players = append(r.players, t.players[id])
	}
	return r
}

// context builds the rule context for id performing action
func (t *table) context(id model.PlayerID, action model.Action) *Context {
	rc := NewContext(t.game, t.players[id], t.hands[id], action, t.reader(), testNow)
	rc.PlayerID = id
	rc.AllHands = t.hands
	return rc
}

type harness struct {
	random    *mocks.MockRandom
	deck      *deck.Engine
	scoring   *scoring.Service
	validator *FieldValidator
	executor  *Executor
}

func newHarness() *harness {
	h := &harness{
		random:    mocks.NewMockRandom(),
		scoring:   scoring.New(),
		validator: NewFieldValidator(true, testutil.NopLogger()),
	}
	h.deck = deck.NewEngine(deck.NewCache(), h.random, deck.DefaultDrawToMatchLimit, testutil.NopLogger())
	h.executor = NewExecutor(NewAggregator(h.validator), testutil.NopLogger())
	return h
}

func (h *harness) pipeline(t *table) *Pipeline {
	return DefaultPipeline(Deps{Deck: h.deck, Scoring: h.scoring}, cards.NewHouseRuleSet(t.game.Config.HouseRules...))
}

func (h *harness) run(t *table, id model.PlayerID, action model.Action) (*Result, error) {
	return h.executor.Execute(context.Background(), h.pipeline(t), t.context(id, action))
}

func eventTypes(events []model.Event) []model.EventType {
	out := []model.EventType{}
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func red(n int) model.Card    { return model.NumberCard(model.ColorRed, n) }
func blue(n int) model.Card   { return model.NumberCard(model.ColorBlue, n) }
func green(n int) model.Card  { return model.NumberCard(model.ColorGreen, n) }
func yellow(n int) model.Card { return model.NumberCard(model.ColorYellow, n) }

var (
	redSkip      = model.SpecialCard(model.ColorRed, model.ValueSkip)
	blueSkip     = model.SpecialCard(model.ColorBlue, model.ValueSkip)
	redReverse   = model.SpecialCard(model.ColorRed, model.ValueReverse)
	redDrawTwo   = model.SpecialCard(model.ColorRed, model.ValueDrawTwo)
	blueDrawTwo  = model.SpecialCard(model.ColorBlue, model.ValueDrawTwo)
	yellowDraw2  = model.SpecialCard(model.ColorYellow, model.ValueDrawTwo)
	wild         = model.WildCard(model.ValueWild)
	wildDrawFour = model.WildCard(model.ValueWildDrawFour)
)
