package rules

import (
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/cards"
)

// Apply rules for a play. Each touches its own slice of state so that the
// aggregator can compose them without any of them knowing about the others.

type playCardHandRule struct{ base }

func (playCardHandRule) CanHandle(rc *Context) bool { return rc.IsPlay() }

func (playCardHandRule) Apply(rc *Context) (Outcome, error) {
	i := rc.Action.CardIndex
	hand := make([]model.Card, 0, len(rc.Hand.Cards)-1)
	hand = append(hand, rc.Hand.Cards[:i]...)
	hand = append(hand, rc.Hand.Cards[i+1:]...)

	fields := Fields{model.FieldCardCount: len(hand)}
	if len(hand) == 1 {
		// Down to one card: exposed to a challenge unless UNO was called beforehand
		fields[model.FieldMustCallUno] = !rc.Player.HasCalledUno
	} else {
		fields[model.FieldHasCalledUno] = false
		fields[model.FieldMustCallUno] = false
	}

	var out Outcome
	out.add(
		UpdateHand{PlayerID: rc.PlayerID, Cards: hand},
		UpdatePlayer{PlayerID: rc.PlayerID, Fields: fields},
	)
	return out, nil
}

type playCardDiscardRule struct{ base }

func (playCardDiscardRule) CanHandle(rc *Context) bool { return rc.IsPlay() }

func (playCardDiscardRule) Apply(rc *Context) (Outcome, error) {
	card, _ := rc.PlayedCard()
	pile := append(model.CloneCards(rc.Game.State.DiscardPile), card)

	var chosen *model.Color
	events := []model.Event{rc.event(model.EventCardPlayed, map[string]any{"card": card})}
	if card.IsWild() {
		chosen = model.ColorPtr(*rc.Action.ChosenColor)
		events = append(events, rc.event(model.EventColorChosen, map[string]any{"color": string(*chosen)}))
	}

	var out Outcome
	out.add(
		UpdateGame{Fields: Fields{
			model.FieldDiscardPile:  pile,
			model.FieldCurrentColor: chosen,
		}},
		EmitEvents{Events: events},
	)
	return out, nil
}

type playCardEffectRule struct{ base }

func (playCardEffectRule) CanHandle(rc *Context) bool { return rc.IsPlay() }

func (playCardEffectRule) Apply(rc *Context) (Outcome, error) {
	card, _ := rc.PlayedCard()
	state := rc.Game.State
	players := rc.Game.Players
	seat := rc.Seat()

	effect := cards.ApplyCardEffect(card, state.Direction, state.MustDraw)
	skip := cards.EffectiveSkip(card, len(players))
	next := cards.NextPlayerID(players, seat, effect.Direction, skip)

	var events []model.Event
	if effect.Direction != state.Direction {
		events = append(events, rc.event(model.EventDirectionReversed, map[string]any{
			"direction": string(effect.Direction),
		}))
	}
	if skip {
		skipped := cards.NextPlayerID(players, seat, effect.Direction, false)
		events = append(events, rc.event(model.EventPlayerSkipped, map[string]any{
			"skippedPlayerId": string(skipped),
		}))
	}

	var out Outcome
	out.add(
		UpdateGame{Fields: Fields{
			model.FieldDirection:           effect.Direction,
			model.FieldMustDraw:            effect.MustDraw,
			model.FieldCurrentTurnPlayerID: next,
			model.FieldHasDrawn:            false,
		}},
		EmitEvents{Events: events},
	)
	return out, nil
}

type playCardStatsRule struct{ base }

func (playCardStatsRule) CanHandle(rc *Context) bool { return rc.IsPlay() }

func (playCardStatsRule) Apply(rc *Context) (Outcome, error) {
	card, _ := rc.PlayedCard()
	stats := rc.Player.GameStats

	fields := Fields{
		model.FieldCardsPlayed:  stats.CardsPlayed + 1,
		model.FieldTurnsPlayed:  stats.TurnsPlayed + 1,
		model.FieldLastActionAt: rc.Now,
	}
	if card.Kind != model.KindNumber {
		fields[model.FieldSpecialCardsPlayed] = stats.SpecialCardsPlayed + 1
	}

	var out Outcome
	out.add(
		UpdatePlayer{PlayerID: rc.PlayerID, Fields: fields},
		UpdateGame{Fields: Fields{model.FieldLastActivityAt: rc.Now}},
	)
	return out, nil
}
