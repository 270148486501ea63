package rules

import "github.com/mcoot/unogame/internal/model"

// TurnPhase labels where the acting player is within their turn. It is not
// persisted: turn-complete is the point where currentTurnPlayerId moves on.
type TurnPhase string

const (
	TurnAwaitingPlay    TurnPhase = "awaiting-play"
	TurnResolvingEffect TurnPhase = "resolving-effect"
	TurnAwaitingDraw    TurnPhase = "awaiting-draw"
	TurnComplete        TurnPhase = "turn-complete"
)

// TurnTrigger is something that moves a turn between phases
type TurnTrigger string

const (
	TriggerPlay        TurnTrigger = "play"
	TriggerDraw        TurnTrigger = "draw"
	TriggerPenaltyDraw TurnTrigger = "penalty-draw"
	TriggerPass        TurnTrigger = "pass"
	TriggerResolve     TurnTrigger = "resolve"
)

// NextTurnPhase returns the phase reached from current on trigger
func NextTurnPhase(current TurnPhase, trigger TurnTrigger) (TurnPhase, error) {
	switch {
	case trigger == TriggerPlay && (current == TurnAwaitingPlay || current == TurnAwaitingDraw):
		return TurnResolvingEffect, nil
	case trigger == TriggerDraw && current == TurnAwaitingPlay:
		return TurnAwaitingDraw, nil
	case (trigger == TriggerPenaltyDraw || trigger == TriggerPass) &&
		(current == TurnAwaitingPlay || current == TurnAwaitingDraw):
		return TurnComplete, nil
	case trigger == TriggerResolve && current == TurnResolvingEffect:
		return TurnComplete, nil
	}
	return current, model.ErrInvalidAction.WithMessage("cannot %s while %s", trigger, current)
}

// TriggerFor maps an action against the pre-action state to its turn trigger
func TriggerFor(action model.Action, mustDraw int) TurnTrigger {
	switch action.Type {
	case model.ActionTypePlay:
		return TriggerPlay
	case model.ActionTypeDraw:
		if mustDraw > 0 {
			return TriggerPenaltyDraw
		}
		return TriggerDraw
	}
	return TriggerPass
}

// TurnPhaseAfter returns the phase the acting player is left in by action,
// resolving card effects straight away
func TurnPhaseAfter(action model.Action, mustDraw int) TurnPhase {
	phase, err := NextTurnPhase(TurnAwaitingPlay, TriggerFor(action, mustDraw))
	if err != nil {
		return TurnAwaitingPlay
	}
	if phase == TurnResolvingEffect {
		phase, _ = NextTurnPhase(phase, TriggerResolve)
	}
	return phase
}
