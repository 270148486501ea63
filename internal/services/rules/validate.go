package rules

import (
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/cards"
	"github.com/mcoot/unogame/internal/services/deck"
)

// Pre-validate: gate on game status, membership and turn ownership

type gameInProgressRule struct{ base }

func (gameInProgressRule) CanHandle(*Context) bool { return true }

func (gameInProgressRule) Validate(rc *Context) error {
	if rc.Game == nil {
		return model.ErrGameNotFound
	}
	if rc.Game.State.Status != model.GameStatusInProgress {
		return model.ErrGameNotInProgress.WithDetails(map[string]any{"status": string(rc.Game.State.Status)})
	}
	return nil
}

type playerInGameRule struct{ base }

func (playerInGameRule) CanHandle(*Context) bool { return true }

func (playerInGameRule) Validate(rc *Context) error {
	if rc.Player == nil || rc.Seat() < 0 {
		return model.ErrPlayerNotFound.WithDetails(map[string]any{"playerId": string(rc.PlayerID)})
	}
	if rc.Hand == nil {
		return model.ErrHandNotFound.WithDetails(map[string]any{"playerId": string(rc.PlayerID)})
	}
	return nil
}

type playerTurnRule struct{ base }

func (playerTurnRule) CanHandle(*Context) bool { return true }

func (playerTurnRule) Validate(rc *Context) error {
	if rc.Game.State.CurrentTurnPlayerID != rc.PlayerID {
		return model.ErrNotYourTurn.WithDetails(map[string]any{
			"playerId":      string(rc.PlayerID),
			"currentPlayer": string(rc.Game.State.CurrentTurnPlayerID),
		})
	}
	return nil
}

// Validate: action shape and card legality

type actionShapeRule struct{ base }

func (actionShapeRule) CanHandle(*Context) bool { return true }

func (actionShapeRule) Validate(rc *Context) error {
	return rc.Action.Validate()
}

type cardIndexRule struct{ base }

func (cardIndexRule) CanHandle(rc *Context) bool { return rc.IsPlay() }

func (cardIndexRule) Validate(rc *Context) error {
	if _, ok := rc.PlayedCard(); !ok {
		return model.ErrInvalidCardIndex.WithDetails(map[string]any{
			"cardIndex": rc.Action.CardIndex,
			"handSize":  len(rc.Hand.Cards),
		})
	}
	return nil
}

type wildColorRule struct{ base }

func (wildColorRule) CanHandle(rc *Context) bool {
	card, ok := rc.PlayedCard()
	return ok && card.IsWild()
}

func (wildColorRule) Validate(rc *Context) error {
	if rc.Action.ChosenColor == nil {
		return model.ErrWildColorRequired
	}
	if !rc.Action.ChosenColor.Valid() {
		return model.ErrInvalidColor.WithDetails(map[string]any{"chosenColor": string(*rc.Action.ChosenColor)})
	}
	return nil
}

type cardPlayableRule struct{ base }

func (cardPlayableRule) CanHandle(rc *Context) bool { return rc.IsPlay() }

func (cardPlayableRule) Validate(rc *Context) error {
	card, _ := rc.PlayedCard()
	top, ok := rc.TopCard()
	if !ok {
		return model.ErrInternal.WithMessage("discard pile is empty")
	}
	state := rc.Game.State

	if state.MustDraw > 0 {
		if !rc.HouseRules.Has(model.HouseRuleStacking) {
			return model.ErrMustDrawPenalty.WithDetails(map[string]any{"mustDraw": state.MustDraw})
		}
		if !card.IsDrawCard() {
			return model.ErrIllegalStacking.WithDetails(map[string]any{
				"card":     card.String(),
				"mustDraw": state.MustDraw,
			})
		}
	}
	if !cards.IsCardPlayable(card, top, state.CurrentColor, state.MustDraw, rc.HouseRules) {
		return model.ErrCardNotPlayable.WithDetails(map[string]any{
			"card":    card.String(),
			"topCard": top.String(),
		})
	}
	return nil
}

type wildDrawFourRule struct{ base }

func (wildDrawFourRule) CanHandle(rc *Context) bool {
	card, ok := rc.PlayedCard()
	return ok && card.Value == model.ValueWildDrawFour
}

func (wildDrawFourRule) Validate(rc *Context) error {
	top, _ := rc.TopCard()
	state := rc.Game.State
	if !cards.CanPlayWildDrawFour(rc.Hand.Cards, rc.Action.CardIndex, top, state.CurrentColor, state.MustDraw, rc.HouseRules) {
		return model.ErrWildDrawFourIllegal
	}
	return nil
}

type drawCountRule struct{ base }

func (drawCountRule) CanHandle(rc *Context) bool { return rc.IsDraw() }

func (drawCountRule) Validate(rc *Context) error {
	if rc.Action.Count > deck.Size {
		return model.ErrInvalidDrawCount.WithDetails(map[string]any{"count": rc.Action.Count, "max": deck.Size})
	}
	return nil
}

// drawOnceRule allows one voluntary draw per turn. Penalty draws are exempt.
type drawOnceRule struct{ base }

func (drawOnceRule) CanHandle(rc *Context) bool { return rc.IsDraw() }

func (drawOnceRule) Validate(rc *Context) error {
	if rc.Game.State.MustDraw == 0 && rc.Game.State.HasDrawn {
		return model.ErrAlreadyDrew
	}
	return nil
}

type passAllowedRule struct{ base }

func (passAllowedRule) CanHandle(rc *Context) bool { return rc.IsPass() }

func (passAllowedRule) Validate(rc *Context) error {
	if rc.Game.State.MustDraw > 0 {
		return model.ErrMustDrawPenalty.WithDetails(map[string]any{"mustDraw": rc.Game.State.MustDraw})
	}
	return nil
}
