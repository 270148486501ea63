// Package rules is the phased action pipeline. Each player action runs through
// pre-validate, validate, apply and finalize; rules never mutate state and
// instead return effects that the aggregator merges for the store to apply.
package rules

import (
	"context"
	"time"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/cards"
)

// Phase is a stage of the pipeline
type Phase string

const (
	PhasePreValidate Phase = "pre-validate"
	PhaseValidate    Phase = "validate"
	PhaseApply       Phase = "apply"
	PhaseFinalize    Phase = "finalize"
)

// Phases returns the phases in execution order
func Phases() []Phase {
	return []Phase{PhasePreValidate, PhaseValidate, PhaseApply, PhaseFinalize}
}

// Rule is one small, independently testable piece of game logic.
// Validation rules return errors from Validate; apply rules return effects from Apply.
type Rule interface {
	Name() string
	CanHandle(rc *Context) bool
	Validate(rc *Context) error
	Apply(rc *Context) (Outcome, error)
}

// Finalizer runs after apply and may read more state through the transaction.
// It sees the merged apply effects so it can reason about the post-action state.
type Finalizer interface {
	Name() string
	CanHandle(rc *Context) bool
	Finalize(ctx context.Context, rc *Context, applied *Aggregate) (Outcome, error)
}

// HandsDependent is implemented by rules that need every player's hand in the context
type HandsDependent interface {
	NeedsAllHands() bool
}

// Reader is the read side of the transaction the action runs in
type Reader interface {
	GetGamePlayers(ctx context.Context, gameID model.GameID) ([]*model.GamePlayer, error)
	GetHands(ctx context.Context, gameID model.GameID) (map[model.PlayerID]*model.PlayerHand, error)
	GetPlayerStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error)
}

// Context is the read-only bundle every rule receives for one action
type Context struct {
	GameID   model.GameID
	PlayerID model.PlayerID
	Action   model.Action

	Game   *model.Game
	Player *model.GamePlayer
	Hand   *model.PlayerHand

	// Every player's hand, only populated when a rule needs it
	AllHands map[model.PlayerID]*model.PlayerHand

	Tx         Reader
	Now        time.Time
	HouseRules cards.HouseRuleSet
}

// NewContext builds the context for an action from a snapshot
func NewContext(game *model.Game, player *model.GamePlayer, hand *model.PlayerHand, action model.Action, tx Reader, now time.Time) *Context {
	rc := &Context{
		Action: action,
		Game:   game,
		Player: player,
		Hand:   hand,
		Tx:     tx,
		Now:    now,
	}
	if game != nil {
		rc.GameID = game.ID
		rc.HouseRules = cards.NewHouseRuleSet(game.Config.HouseRules...)
	}
	if player != nil {
		rc.PlayerID = player.PlayerID
	}
	return rc
}

// IsPlay returns true for a play action
func (rc *Context) IsPlay() bool { return rc.Action.Type == model.ActionTypePlay }

// IsDraw returns true for a draw action
func (rc *Context) IsDraw() bool { return rc.Action.Type == model.ActionTypeDraw }

// IsPass returns true for a pass action
func (rc *Context) IsPass() bool { return rc.Action.Type == model.ActionTypePass }

// PlayedCard returns the card a play action refers to, if the index is valid
func (rc *Context) PlayedCard() (model.Card, bool) {
	if !rc.IsPlay() || rc.Hand == nil {
		return model.Card{}, false
	}
	i := rc.Action.CardIndex
	if i < 0 || i >= len(rc.Hand.Cards) {
		return model.Card{}, false
	}
	return rc.Hand.Cards[i], true
}

// TopCard returns the top of the discard pile
func (rc *Context) TopCard() (model.Card, bool) {
	return rc.Game.State.TopCard()
}

// Seat returns the acting player's seat index
func (rc *Context) Seat() int {
	return rc.Game.SeatOf(rc.PlayerID)
}

// OtherHands returns every hand except the acting player's
func (rc *Context) OtherHands() [][]model.Card {
	out := make([][]model.Card, 0, len(rc.AllHands))
	for _, id := range rc.Game.Players {
		if id == rc.PlayerID {
			continue
		}
		if h, ok := rc.AllHands[id]; ok {
			out = append(out, h.Cards)
		}
	}
	return out
}

// nextPlayer returns the seat after the acting player in the current direction
func (rc *Context) nextPlayer() model.PlayerID {
	return cards.NextPlayerID(rc.Game.Players, rc.Seat(), rc.Game.State.Direction, false)
}

// event builds an event attributed to the acting player
func (rc *Context) event(eventType model.EventType, payload map[string]any) model.Event {
	return model.NewEvent(eventType, rc.GameID, rc.PlayerID, rc.Now, payload)
}

// base gives rules default no-op capabilities so each rule only implements what it uses
type base struct {
	name string
}

func (b base) Name() string                    { return b.name }
func (b base) Validate(*Context) error         { return nil }
func (b base) Apply(*Context) (Outcome, error) { return Outcome{}, nil }
