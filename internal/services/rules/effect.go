package rules

import "github.com/mcoot/unogame/internal/model"

// EffectKind names an effect variant
type EffectKind string

const (
	EffectUpdateGame   EffectKind = "update-game"
	EffectUpdatePlayer EffectKind = "update-player"
	EffectUpdateHand   EffectKind = "update-hand"
	EffectSetWinner    EffectKind = "set-winner"
	EffectEmitEvents   EffectKind = "emit-events"
)

// Effect is a declarative change a rule wants applied. The set of variants is
// closed: only the types in this file implement it.
type Effect interface {
	Kind() EffectKind
	sealed()
}

// Fields maps dotted field paths to their new values
type Fields map[model.FieldPath]any

// UpdateGame sets fields on the game document
type UpdateGame struct {
	Fields Fields
}

// UpdatePlayer sets fields on one player's game projection
type UpdatePlayer struct {
	PlayerID model.PlayerID
	Fields   Fields
}

// UpdateHand replaces a player's hand
type UpdateHand struct {
	PlayerID model.PlayerID
	Cards    []model.Card
}

// SetWinner completes the game with pre-computed scoring data
type SetWinner struct {
	WinnerID model.PlayerID
	Data     model.FinalizeData
}

// EmitEvents publishes events once the action commits
type EmitEvents struct {
	Events []model.Event
}

func (UpdateGame) Kind() EffectKind   { return EffectUpdateGame }
func (UpdatePlayer) Kind() EffectKind { return EffectUpdatePlayer }
func (UpdateHand) Kind() EffectKind   { return EffectUpdateHand }
func (SetWinner) Kind() EffectKind    { return EffectSetWinner }
func (EmitEvents) Kind() EffectKind   { return EffectEmitEvents }

func (UpdateGame) sealed()   {}
func (UpdatePlayer) sealed() {}
func (UpdateHand) sealed()   {}
func (SetWinner) sealed()    {}
func (EmitEvents) sealed()   {}

// SourcedEffect is an effect tagged with the rule that produced it
type SourcedEffect struct {
	Rule   string
	Phase  Phase
	Effect Effect
}

// Outcome is what a rule returns from apply or finalize
type Outcome struct {
	Effects    []Effect
	CardsDrawn []model.Card
}

// add appends effects, skipping empty field updates
func (o *Outcome) add(effects ...Effect) {
	for _, e := range effects {
		switch v := e.(type) {
		case UpdateGame:
			if len(v.Fields) == 0 {
				continue
			}
		case UpdatePlayer:
			if len(v.Fields) == 0 {
				continue
			}
		case EmitEvents:
			if len(v.Events) == 0 {
				continue
			}
		}
		o.Effects = append(o.Effects, e)
	}
}
