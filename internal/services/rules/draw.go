package rules

import (
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/deck"
)

// drawCardsRule handles every kind of draw. A pending penalty is always drawn
// in full as one batch and ends the turn. Otherwise the player draws the
// requested count, or with drawToMatch keeps drawing until something is playable,
// and stays on turn to play or pass.
type drawCardsRule struct {
	base
	deck        *deck.Engine
	drawToMatch bool
}

func (drawCardsRule) CanHandle(rc *Context) bool { return rc.IsDraw() }

func (drawCardsRule) NeedsAllHands() bool { return true }

func (r drawCardsRule) Apply(rc *Context) (Outcome, error) {
	state := rc.Game.State
	penalty := state.MustDraw > 0
	req := deck.DrawRequest{
		Seed:    state.DeckSeed,
		Hand:    rc.Hand.Cards,
		Others:  rc.OtherHands(),
		Discard: state.DiscardPile,
		Count:   rc.Action.Count,
	}

	var result deck.DrawResult
	switch {
	case penalty:
		req.Count = state.MustDraw
		res, err := r.deck.Draw(req)
		if err != nil {
			return Outcome{}, err
		}
		result = res
	case r.drawToMatch:
		top, _ := rc.TopCard()
		result = r.deck.DrawToMatch(req, top, state.CurrentColor, rc.HouseRules)
	default:
		res, err := r.deck.Draw(req)
		if err != nil {
			return Outcome{}, err
		}
		result = res
	}

	hand := append(model.CloneCards(rc.Hand.Cards), result.Cards...)
	playerFields := Fields{
		model.FieldCardCount:    len(hand),
		model.FieldCardsDrawn:   rc.Player.GameStats.CardsDrawn + len(result.Cards),
		model.FieldHasCalledUno: false,
		model.FieldMustCallUno:  false,
	}
	gameFields := Fields{model.FieldDrawPileCount: result.Remaining}
	events := []model.Event{rc.event(model.EventCardsDrawn, map[string]any{
		"count":   len(result.Cards),
		"penalty": penalty,
	})}

	if result.Seed != state.DeckSeed {
		gameFields[model.FieldDeckSeed] = result.Seed
	}
	if result.Reshuffled {
		gameFields[model.FieldDiscardPile] = result.Discard
		events = append(events, rc.event(model.EventDeckReshuffled, map[string]any{
			"remaining": result.Remaining,
		}))
	}
	if penalty {
		gameFields[model.FieldMustDraw] = 0
		gameFields[model.FieldCurrentTurnPlayerID] = rc.nextPlayer()
		gameFields[model.FieldHasDrawn] = false
		playerFields[model.FieldTurnsPlayed] = rc.Player.GameStats.TurnsPlayed + 1
	} else {
		gameFields[model.FieldHasDrawn] = true
	}

	out := Outcome{CardsDrawn: result.Cards}
	out.add(
		UpdateHand{PlayerID: rc.PlayerID, Cards: hand},
		UpdatePlayer{PlayerID: rc.PlayerID, Fields: playerFields},
		UpdateGame{Fields: gameFields},
		EmitEvents{Events: events},
	)
	return out, nil
}

type drawActivityRule struct{ base }

func (drawActivityRule) CanHandle(rc *Context) bool { return rc.IsDraw() }

func (drawActivityRule) Apply(rc *Context) (Outcome, error) {
	var out Outcome
	out.add(
		UpdatePlayer{PlayerID: rc.PlayerID, Fields: Fields{model.FieldLastActionAt: rc.Now}},
		UpdateGame{Fields: Fields{model.FieldLastActivityAt: rc.Now}},
	)
	return out, nil
}

type passTurnRule struct{ base }

func (passTurnRule) CanHandle(rc *Context) bool { return rc.IsPass() }

func (passTurnRule) Apply(rc *Context) (Outcome, error) {
	next := rc.nextPlayer()

	var out Outcome
	out.add(
		UpdateGame{Fields: Fields{
			model.FieldCurrentTurnPlayerID: next,
			model.FieldHasDrawn:            false,
			model.FieldLastActivityAt:      rc.Now,
		}},
		UpdatePlayer{PlayerID: rc.PlayerID, Fields: Fields{
			model.FieldTurnsPlayed:  rc.Player.GameStats.TurnsPlayed + 1,
			model.FieldMustCallUno:  false,
			model.FieldLastActionAt: rc.Now,
		}},
		EmitEvents{Events: []model.Event{rc.event(model.EventTurnPassed, map[string]any{
			"nextPlayerId": string(next),
		})}},
	)
	return out, nil
}
