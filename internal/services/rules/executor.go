package rules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/unogame/internal/model"
)

// Result is the outcome of running a pipeline for one action
type Result struct {
	Effects    []SourcedEffect
	CardsDrawn []model.Card
	Aggregate  *Aggregate
}

// Executor runs pipelines. Rules run one at a time in registration order.
type Executor struct {
	aggregator *Aggregator
	logger     *slog.Logger
}

// NewExecutor creates an executor
func NewExecutor(aggregator *Aggregator, logger *slog.Logger) *Executor {
	return &Executor{
		aggregator: aggregator,
		logger:     logger.With(slog.String("component", "rules")),
	}
}

// Execute runs every phase of p against rc. A validation failure aborts
// before any effect is computed; the returned error then carries its code unchanged.
func (e *Executor) Execute(ctx context.Context, p *Pipeline, rc *Context) (*Result, error) {
	for _, phase := range []Phase{PhasePreValidate, PhaseValidate} {
		for _, rule := range p.Rules(phase) {
			handled, err := e.handles(rc, rule.Name(), phase, rule.CanHandle)
			if err != nil {
				return nil, err
			}
			if !handled {
				continue
			}
			err = e.guard(rc, rule.Name(), phase, func() error {
				return rule.Validate(rc)
			})
			if err != nil {
				e.logger.Debug("action rejected",
					slog.String("game_id", string(rc.GameID)),
					slog.String("player_id", string(rc.PlayerID)),
					slog.String("rule", rule.Name()),
					slog.String("phase", string(phase)),
					slog.String("error", err.Error()),
				)
				return nil, err
			}
		}
	}

	result := &Result{}
	for _, rule := range p.Apply {
		handled, err := e.handles(rc, rule.Name(), PhaseApply, rule.CanHandle)
		if err != nil {
			return nil, err
		}
		if !handled {
			continue
		}
		var out Outcome
		err = e.guard(rc, rule.Name(), PhaseApply, func() error {
			var err error
			out, err = rule.Apply(rc)
			return err
		})
		if err != nil {
			return nil, err
		}
		result.add(rule.Name(), PhaseApply, out)
	}

	applied, err := e.aggregator.Merge(result.Effects)
	if err != nil {
		return nil, err
	}

	// Finalizers run in order, each seeing what the ones before it produced
	for _, f := range p.Finalize {
		handled, err := e.handles(rc, f.Name(), PhaseFinalize, f.CanHandle)
		if err != nil {
			return nil, err
		}
		if !handled {
			continue
		}
		var out Outcome
		err = e.guard(rc, f.Name(), PhaseFinalize, func() error {
			var err error
			out, err = f.Finalize(ctx, rc, applied)
			return err
		})
		if err != nil {
			return nil, err
		}
		result.add(f.Name(), PhaseFinalize, out)
		if applied, err = e.aggregator.Merge(result.Effects); err != nil {
			return nil, err
		}
	}

	result.Aggregate = applied
	return result, nil
}

func (r *Result) add(rule string, phase Phase, out Outcome) {
	for _, effect := range out.Effects {
		r.Effects = append(r.Effects, SourcedEffect{Rule: rule, Phase: phase, Effect: effect})
	}
	r.CardsDrawn = append(r.CardsDrawn, out.CardsDrawn...)
}

// handles asks a rule whether it applies to rc
func (e *Executor) handles(rc *Context, rule string, phase Phase, check func(*Context) bool) (bool, error) {
	handled := false
	err := e.guard(rc, rule, phase, func() error {
		handled = check(rc)
		return nil
	})
	return handled, err
}

// guard runs fn at the rule boundary. Domain errors pass through untouched;
// anything else, including a panic, becomes an internal error naming the rule.
func (e *Executor) guard(rc *Context, rule string, phase Phase, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = model.NewInternal(fmt.Errorf("panic: %v", r), rule, string(phase), rc.GameID, rc.PlayerID, rc.Now)
			e.logger.Error("rule panicked",
				slog.String("game_id", string(rc.GameID)),
				slog.String("player_id", string(rc.PlayerID)),
				slog.String("rule", rule),
				slog.String("phase", string(phase)),
				slog.Any("panic", r),
			)
		}
	}()

	err = fn()
	if err == nil || model.IsDomainError(err) {
		return err
	}
	return model.NewInternal(err, rule, string(phase), rc.GameID, rc.PlayerID, rc.Now)
}
