package rules

import (
	"testing"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type AggregateSuite struct {
	suite.Suite
	aggregator *Aggregator
}

func TestAggregateSuite(t *testing.T) {
	suite.Run(t, new(AggregateSuite))
}

func (s *AggregateSuite) SetupTest() {
	s.aggregator = NewAggregator(NewFieldValidator(true, testutil.NopLogger()))
}

func sourced(rule string, effects ...Effect) []SourcedEffect {
	out := make([]SourcedEffect, 0, len(effects))
	for _, e := range effects {
		out = append(out, SourcedEffect{Rule: rule, Phase: PhaseApply, Effect: e})
	}
	return out
}

func (s *AggregateSuite) TestMergesDisjointWrites() {
	effects := append(
		sourced("a", UpdateGame{Fields: Fields{model.FieldMustDraw: 2}}),
		sourced("b",
			UpdateGame{Fields: Fields{model.FieldDirection: model.DirectionCounterClockwise}},
			UpdatePlayer{PlayerID: "p1", Fields: Fields{model.FieldCardCount: 3}},
			UpdateHand{PlayerID: "p1", Cards: []model.Card{red(1), red(2), red(3)}},
		)...,
	)

	agg, err := s.aggregator.Merge(effects)
	s.Require().NoError(err)

	s.Equal(Fields{model.FieldMustDraw: 2, model.FieldDirection: model.DirectionCounterClockwise}, agg.Game)
	s.Equal(Fields{model.FieldCardCount: 3}, agg.Players["p1"])
	s.Equal([]model.Card{red(1), red(2), red(3)}, agg.Hands["p1"])
	s.Equal([]model.PlayerID{"p1"}, agg.PlayerIDs())
	s.False(agg.IsEmpty())
}

func (s *AggregateSuite) TestEqualWritesAreNotConflicts() {
	effects := append(
		sourced("a", UpdateGame{Fields: Fields{model.FieldLastActivityAt: testNow}}),
		sourced("b", UpdateGame{Fields: Fields{model.FieldLastActivityAt: testNow}})...,
	)

	agg, err := s.aggregator.Merge(effects)

	s.Require().NoError(err)
	s.Equal(testNow, agg.Game[model.FieldLastActivityAt])
}

func (s *AggregateSuite) TestConflictingFieldWrites() {
	effects := append(
		sourced("first", UpdateGame{Fields: Fields{model.FieldMustDraw: 2}}),
		sourced("second", UpdateGame{Fields: Fields{model.FieldMustDraw: 4}})...,
	)

	_, err := s.aggregator.Merge(effects)

	s.Require().ErrorIs(err, model.ErrEffectConflict)
	e, ok := model.AsError(err)
	s.Require().True(ok)
	s.Equal([]string{"first", "second"}, e.Details["rules"])
	s.Equal(string(model.FieldMustDraw), e.Details["path"])
	s.Contains(e.Message, `"first"`)
	s.Contains(e.Message, `"second"`)
}

func (s *AggregateSuite) TestConflictingPlayerWrites() {
	effects := append(
		sourced("first", UpdatePlayer{PlayerID: "p1", Fields: Fields{model.FieldCardCount: 1}}),
		sourced("second", UpdatePlayer{PlayerID: "p1", Fields: Fields{model.FieldCardCount: 2}})...,
	)

	_, err := s.aggregator.Merge(effects)

	s.ErrorIs(err, model.ErrEffectConflict)
}

func (s *AggregateSuite) TestSamePathOnDifferentPlayersIsFine() {
	effects := append(
		sourced("first", UpdatePlayer{PlayerID: "p1", Fields: Fields{model.FieldCardCount: 1}}),
		sourced("second", UpdatePlayer{PlayerID: "p2", Fields: Fields{model.FieldCardCount: 2}})...,
	)

	agg, err := s.aggregator.Merge(effects)

	s.Require().NoError(err)
	s.Equal([]model.PlayerID{"p1", "p2"}, agg.PlayerIDs())
}

func (s *AggregateSuite) TestConflictingHands() {
	effects := append(
		sourced("first", UpdateHand{PlayerID: "p1", Cards: []model.Card{red(1)}}),
		sourced("second", UpdateHand{PlayerID: "p1", Cards: []model.Card{red(2)}})...,
	)

	_, err := s.aggregator.Merge(effects)

	s.ErrorIs(err, model.ErrEffectConflict)
}

func (s *AggregateSuite) TestConflictingWinners() {
	effects := append(
		sourced("first", SetWinner{WinnerID: "p1"}),
		sourced("second", SetWinner{WinnerID: "p2"})...,
	)

	_, err := s.aggregator.Merge(effects)

	s.ErrorIs(err, model.ErrEffectConflict)
}

func (s *AggregateSuite) TestEventsConcatenateInOrder() {
	e1 := model.NewEvent(model.EventCardPlayed, "g", "p1", testNow, nil)
	e2 := model.NewEvent(model.EventPlayerSkipped, "g", "p1", testNow, nil)
	e3 := model.NewEvent(model.EventGameWon, "g", "p1", testNow, nil)
	effects := append(
		sourced("a", EmitEvents{Events: []model.Event{e1, e2}}),
		sourced("b", EmitEvents{Events: []model.Event{e3}})...,
	)

	agg, err := s.aggregator.Merge(effects)

	s.Require().NoError(err)
	s.Equal([]model.EventType{model.EventCardPlayed, model.EventPlayerSkipped, model.EventGameWon}, eventTypes(agg.Events))
}

func (s *AggregateSuite) TestEmptyMerge() {
	agg, err := s.aggregator.Merge(nil)

	s.Require().NoError(err)
	s.True(agg.IsEmpty())
}

func (s *AggregateSuite) TestOutcomeSkipsEmptyEffects() {
	var out Outcome
	out.add(
		UpdateGame{Fields: Fields{}},
		UpdatePlayer{PlayerID: "p1"},
		EmitEvents{},
		UpdateGame{Fields: Fields{model.FieldMustDraw: 0}},
	)

	s.Len(out.Effects, 1)
}

func (s *AggregateSuite) TestStrictValidatorRejectsUnknownFields() {
	_, err := s.aggregator.Merge(sourced("sloppy", UpdateGame{Fields: Fields{"state.bogus": 1}}))

	s.Require().ErrorIs(err, model.ErrUnknownEffectField)
	e, _ := model.AsError(err)
	s.Equal("sloppy", e.Details["rule"])
	s.Equal([]string{"state.bogus"}, e.Details["fields"])
}

func (s *AggregateSuite) TestLenientValidatorDropsUnknownFields() {
	validator := NewFieldValidator(false, testutil.NopLogger())
	aggregator := NewAggregator(validator)

	agg, err := aggregator.Merge(sourced("sloppy",
		UpdateGame{Fields: Fields{"state.bogus": 1, model.FieldMustDraw: 2}},
		UpdatePlayer{PlayerID: "p1", Fields: Fields{model.FieldDiscardPile: nil}},
	))

	s.Require().NoError(err)
	s.False(validator.Strict())
	s.Equal(Fields{model.FieldMustDraw: 2}, agg.Game)
	s.Empty(agg.Players["p1"])
}
