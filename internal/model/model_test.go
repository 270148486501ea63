package model

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ModelSuite struct {
	suite.Suite
}

func TestModelSuite(t *testing.T) {
	suite.Run(t, new(ModelSuite))
}

// Error taxonomy

func (s *ModelSuite) TestErrorsMatchByCode() {
	err := ErrNotYourTurn.WithDetails(map[string]any{"playerId": "p2"})

	s.ErrorIs(err, ErrNotYourTurn)
	s.NotErrorIs(err, ErrGameNotFound)
	s.Equal(KindGameState, KindOf(err))
	s.True(IsDomainError(err))
}

func (s *ModelSuite) TestErrorsMatchThroughWrapping() {
	err := fmt.Errorf("loading game: %w", ErrGameNotFound)

	s.ErrorIs(err, ErrGameNotFound)
	s.Equal(KindGameState, KindOf(err))
}

func (s *ModelSuite) TestWithDetailsDoesNotMutateSentinel() {
	_ = ErrCardNotPlayable.WithDetails(map[string]any{"cardIndex": 3})

	s.Nil(ErrCardNotPlayable.Details)
}

func (s *ModelSuite) TestForeignErrorsAreInternal() {
	err := errors.New("boom")

	s.Equal(KindInternal, KindOf(err))
	s.False(IsDomainError(err))
}

func (s *ModelSuite) TestNewInternalCarriesContext() {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cause := errors.New("nil pointer")

	err := NewInternal(cause, "play-card-effect", "apply", "game-1", "p1", at)

	s.ErrorIs(err, ErrInternal)
	s.ErrorIs(err, cause)
	s.Equal("play-card-effect", err.Details["rule"])
	s.Equal("apply", err.Details["phase"])
	s.Equal("game-1", err.Details["gameId"])
	s.Equal("p1", err.Details["playerId"])
	s.Equal("2024-01-01T12:00:00Z", err.Details["timestamp"])
	s.Contains(err.Error(), "nil pointer")
	s.False(IsDomainError(err))
}

// Actions

func (s *ModelSuite) TestActionValidate() {
	red := ColorRed
	purple := Color("purple")

	s.NoError(PlayAction(0, nil).Validate())
	s.NoError(PlayAction(2, &red).Validate())
	s.NoError(DrawAction(1).Validate())
	s.NoError(PassAction().Validate())

	s.ErrorIs(PlayAction(-1, nil).Validate(), ErrInvalidCardIndex)
	s.ErrorIs(PlayAction(0, &purple).Validate(), ErrInvalidColor)
	s.ErrorIs(DrawAction(0).Validate(), ErrInvalidDrawCount)
	s.ErrorIs(Action{Type: "discard"}.Validate(), ErrInvalidAction)
}

// Cards

func (s *ModelSuite) TestCardValidate() {
	s.NoError(NumberCard(ColorRed, 0).Validate())
	s.NoError(NumberCard(ColorBlue, 9).Validate())
	s.NoError(SpecialCard(ColorGreen, ValueDrawTwo).Validate())
	s.NoError(WildCard(ValueWildDrawFour).Validate())

	s.Error(NumberCard(ColorRed, 10).Validate())
	s.Error(Card{Kind: KindNumber, Color: "pink", Value: "1"}.Validate())
	s.Error(SpecialCard(ColorRed, ValueWild).Validate())
	s.Error(Card{Kind: KindWild, Color: ColorRed, Value: ValueWild}.Validate())
	s.Error(Card{Kind: "joker"}.Validate())
}

func (s *ModelSuite) TestCardEqualityIsStructural() {
	s.Equal(NumberCard(ColorRed, 5), Card{Kind: KindNumber, Color: ColorRed, Value: "5"})
	s.True(NumberCard(ColorRed, 5) == NumberCard(ColorRed, 5))
	s.False(NumberCard(ColorRed, 5) == NumberCard(ColorBlue, 5))
}

func (s *ModelSuite) TestCardString() {
	s.Equal("red 5", NumberCard(ColorRed, 5).String())
	s.Equal("blue skip", SpecialCard(ColorBlue, ValueSkip).String())
	s.Equal("wild_draw4", WildCard(ValueWildDrawFour).String())
}

// Field updates

func (s *ModelSuite) TestGameSetField() {
	g := &Game{ID: "game-1"}
	pile := []Card{NumberCard(ColorRed, 5)}
	green := ColorGreen

	s.Require().NoError(g.SetField(FieldDiscardPile, pile))
	s.Require().NoError(g.SetField(FieldCurrentColor, &green))
	s.Require().NoError(g.SetField(FieldMustDraw, 4))
	s.Require().NoError(g.SetField(FieldDirection, DirectionCounterClockwise))

	pile[0] = NumberCard(ColorBlue, 1)
	s.Equal(NumberCard(ColorRed, 5), g.State.DiscardPile[0])
	s.Equal(ColorGreen, *g.State.CurrentColor)
	s.Equal(4, g.State.MustDraw)
	s.Equal(DirectionCounterClockwise, g.State.Direction)

	s.Require().NoError(g.SetField(FieldCurrentColor, (*Color)(nil)))
	s.Nil(g.State.CurrentColor)
}

func (s *ModelSuite) TestGameSetFieldRejectsBadInput() {
	g := &Game{}

	s.ErrorIs(g.SetField("state.score", 1), ErrUnknownEffectField)
	s.ErrorIs(g.SetField(FieldMustDraw, "two"), ErrInternal)
	s.ErrorIs(g.SetField(FieldMustDraw, -1), ErrInternal)
}

func (s *ModelSuite) TestPlayerSetField() {
	p := &GamePlayer{}
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	s.Require().NoError(p.SetField(FieldCardCount, 6))
	s.Require().NoError(p.SetField(FieldCardsDrawn, 2))
	s.Require().NoError(p.SetField(FieldMustCallUno, true))
	s.Require().NoError(p.SetField(FieldLastActionAt, at))

	s.Equal(6, p.CardCount)
	s.Equal(2, p.GameStats.CardsDrawn)
	s.True(p.MustCallUno)
	s.Equal(at, *p.LastActionAt)
	s.ErrorIs(p.SetField("gameStats.score", 1), ErrUnknownEffectField)
}

func (s *ModelSuite) TestGameCloneIsDeep() {
	red := ColorRed
	g := &Game{
		Players: []PlayerID{"p1", "p2"},
		State: GameState{
			DiscardPile:  []Card{NumberCard(ColorRed, 1)},
			CurrentColor: &red,
		},
	}

	c := g.Clone()
	c.Players[0] = "p3"
	c.State.DiscardPile[0] = NumberCard(ColorBlue, 2)
	*c.State.CurrentColor = ColorBlue

	s.Equal(PlayerID("p1"), g.Players[0])
	s.Equal(NumberCard(ColorRed, 1), g.State.DiscardPile[0])
	s.Equal(ColorRed, *g.State.CurrentColor)
}

func (s *ModelSuite) TestGameConfigValidate() {
	s.NoError(DefaultGameConfig().Validate())
	s.ErrorIs(GameConfig{MaxPlayers: 1}.Validate(), ErrInvalidConfig)
	s.ErrorIs(GameConfig{MaxPlayers: 11}.Validate(), ErrInvalidConfig)
	s.ErrorIs(GameConfig{MaxPlayers: 4, HouseRules: []HouseRule{"doubleDown"}}.Validate(), ErrInvalidConfig)
	s.NoError(GameConfig{MaxPlayers: 4, HouseRules: []HouseRule{HouseRuleStacking, HouseRuleJumpIn}}.Validate())
}
