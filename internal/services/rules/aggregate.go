package rules

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/go-cmp/cmp"
	"github.com/mcoot/unogame/internal/model"
)

// Aggregate is the merged result of every effect an action produced
type Aggregate struct {
	Game    Fields
	Players map[model.PlayerID]Fields
	Hands   map[model.PlayerID][]model.Card
	Winner  *SetWinner
	Events  []model.Event

	// Which rule first wrote each target, for conflict reporting
	gameSources   map[model.FieldPath]string
	playerSources map[model.PlayerID]map[model.FieldPath]string
	handSources   map[model.PlayerID]string
	winnerSource  string
}

func newAggregate() *Aggregate {
	return &Aggregate{
		Game:          Fields{},
		Players:       map[model.PlayerID]Fields{},
		Hands:         map[model.PlayerID][]model.Card{},
		Events:        []model.Event{},
		gameSources:   map[model.FieldPath]string{},
		playerSources: map[model.PlayerID]map[model.FieldPath]string{},
		handSources:   map[model.PlayerID]string{},
	}
}

// IsEmpty returns true if nothing would be written
func (a *Aggregate) IsEmpty() bool {
	return len(a.Game) == 0 && len(a.Players) == 0 && len(a.Hands) == 0 && a.Winner == nil && len(a.Events) == 0
}

// PlayerIDs returns the players with field updates, sorted
func (a *Aggregate) PlayerIDs() []model.PlayerID {
	ids := make([]model.PlayerID, 0, len(a.Players))
	for id := range a.Players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Aggregator merges effects and rejects contradictory writes
type Aggregator struct {
	validator *FieldValidator
}

// NewAggregator creates an aggregator that checks field names with validator
func NewAggregator(validator *FieldValidator) *Aggregator {
	return &Aggregator{validator: validator}
}

func conflict(target string, path string, first, second string) error {
	return model.ErrEffectConflict.
		WithMessage("rules %q and %q wrote different values to %s %s", first, second, target, path).
		WithDetails(map[string]any{
			"target": target,
			"path":   path,
			"rules":  []string{first, second},
		})
}

// Merge folds effects together in order. Two rules may write the same path
// only if they agree on the value.
func (ag *Aggregator) Merge(effects []SourcedEffect) (*Aggregate, error) {
	out := newAggregate()
	for _, se := range effects {
		switch e := se.Effect.(type) {
		case UpdateGame:
			fields, err := ag.validator.Check(se.Rule, targetGame, e.Fields)
			if err != nil {
				return nil, err
			}
			if err := mergeFields(out.Game, out.gameSources, fields, se.Rule, "game"); err != nil {
				return nil, err
			}
		case UpdatePlayer:
			fields, err := ag.validator.Check(se.Rule, targetPlayer, e.Fields)
			if err != nil {
				return nil, err
			}
			if _, ok := out.Players[e.PlayerID]; !ok {
				out.Players[e.PlayerID] = Fields{}
				out.playerSources[e.PlayerID] = map[model.FieldPath]string{}
			}
			target := fmt.Sprintf("player %s", e.PlayerID)
			if err := mergeFields(out.Players[e.PlayerID], out.playerSources[e.PlayerID], fields, se.Rule, target); err != nil {
				return nil, err
			}
		case UpdateHand:
			if existing, ok := out.Hands[e.PlayerID]; ok {
				if !cmp.Equal(existing, e.Cards) {
					return nil, conflict(fmt.Sprintf("hand of %s", e.PlayerID), "cards", out.handSources[e.PlayerID], se.Rule)
				}
				continue
			}
			out.Hands[e.PlayerID] = model.CloneCards(e.Cards)
			out.handSources[e.PlayerID] = se.Rule
		case SetWinner:
			if out.Winner != nil {
				if !cmp.Equal(*out.Winner, e) {
					return nil, conflict("game", "winner", out.winnerSource, se.Rule)
				}
				continue
			}
			w := e
			out.Winner = &w
			out.winnerSource = se.Rule
		case EmitEvents:
			out.Events = append(out.Events, e.Events...)
		default:
			return nil, model.ErrInternal.WithMessage("rule %s produced unknown effect %T", se.Rule, se.Effect)
		}
	}
	return out, nil
}

func mergeFields(into Fields, sources map[model.FieldPath]string, fields Fields, rule, target string) error {
	for path, value := range fields {
		if existing, ok := into[path]; ok {
			if !cmp.Equal(existing, value) {
				return conflict(target, string(path), sources[path], rule)
			}
			continue
		}
		into[path] = value
		sources[path] = rule
	}
	return nil
}

const (
	targetGame   = "game"
	targetPlayer = "player"
)

// FieldValidator checks effect field paths against the updatable schema.
// Unknown paths are dropped with a warning, or rejected in strict mode.
type FieldValidator struct {
	strict bool
	known  map[string]map[model.FieldPath]bool
	logger *slog.Logger
}

// NewFieldValidator creates a validator over the model's updatable fields
func NewFieldValidator(strict bool, logger *slog.Logger) *FieldValidator {
	known := map[string]map[model.FieldPath]bool{
		targetGame:   {},
		targetPlayer: {},
	}
	for _, f := range model.GameFields() {
		known[targetGame][f] = true
	}
	for _, f := range model.PlayerFields() {
		known[targetPlayer][f] = true
	}
	return &FieldValidator{strict: strict, known: known, logger: logger}
}

// Strict reports whether unknown fields are errors
func (v *FieldValidator) Strict() bool {
	return v.strict
}

// Check returns the fields that may be written
func (v *FieldValidator) Check(rule, target string, fields Fields) (Fields, error) {
	var unknown []string
	for path := range fields {
		if !v.known[target][path] {
			unknown = append(unknown, string(path))
		}
	}
	if len(unknown) == 0 {
		return fields, nil
	}
	sort.Strings(unknown)

	if v.strict {
		return nil, model.ErrUnknownEffectField.WithDetails(map[string]any{
			"rule":   rule,
			"target": target,
			"fields": unknown,
		})
	}

	v.logger.Warn("dropping unknown effect fields",
		slog.String("rule", rule),
		slog.String("target", target),
		slog.Any("fields", unknown),
	)
	allowed := make(Fields, len(fields))
	for path, value := range fields {
		if v.known[target][path] {
			allowed[path] = value
		}
	}
	return allowed, nil
}
