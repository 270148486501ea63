package rules

import (
	"slices"
	"strings"
	"sync"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/cards"
	"github.com/mcoot/unogame/internal/services/deck"
	"github.com/mcoot/unogame/internal/services/scoring"
)

// Pipeline is the ordered rule lists for each phase. It is a plain value:
// building one has no side effects and it can be inspected freely.
type Pipeline struct {
	PreValidate []Rule
	Validate    []Rule
	Apply       []Rule
	Finalize    []Finalizer
}

// Deps are the services rules are built with
type Deps struct {
	Deck    *deck.Engine
	Scoring *scoring.Service
}

// DefaultPipeline composes the standard rule set for a game with houseRules
func DefaultPipeline(deps Deps, houseRules cards.HouseRuleSet) *Pipeline {
	return &Pipeline{
		PreValidate: []Rule{
			gameInProgressRule{base{"game-in-progress"}},
			playerInGameRule{base{"player-in-game"}},
			playerTurnRule{base{"player-turn"}},
		},
		Validate: []Rule{
			actionShapeRule{base{"action-shape"}},
			cardIndexRule{base{"card-index"}},
			wildColorRule{base{"wild-color"}},
			cardPlayableRule{base{"card-playable"}},
			wildDrawFourRule{base{"wild-draw-four"}},
			drawCountRule{base{"draw-count"}},
			drawOnceRule{base{"draw-once"}},
			passAllowedRule{base{"pass-allowed"}},
		},
		Apply: []Rule{
			playCardHandRule{base{"play-card-hand"}},
			playCardDiscardRule{base{"play-card-discard"}},
			playCardEffectRule{base{"play-card-effect"}},
			playCardStatsRule{base{"play-card-stats"}},
			drawCardsRule{
				base:        base{"draw-cards"},
				deck:        deps.Deck,
				drawToMatch: houseRules.Has(model.HouseRuleDrawToMatch),
			},
			drawActivityRule{base{"draw-activity"}},
			passTurnRule{base{"pass-turn"}},
		},
		Finalize: []Finalizer{
			winDetectionRule{base: base{"win-detection"}, scoring: deps.Scoring},
		},
	}
}

// Rules returns the validate-style rules of a phase. Finalize has its own list.
func (p *Pipeline) Rules(phase Phase) []Rule {
	switch phase {
	case PhasePreValidate:
		return p.PreValidate
	case PhaseValidate:
		return p.Validate
	case PhaseApply:
		return p.Apply
	}
	return nil
}

// RuleNames returns the rule names of a phase in execution order
func (p *Pipeline) RuleNames(phase Phase) []string {
	var names []string
	if phase == PhaseFinalize {
		for _, f := range p.Finalize {
			names = append(names, f.Name())
		}
		return names
	}
	for _, r := range p.Rules(phase) {
		names = append(names, r.Name())
	}
	return names
}

// NeedsAllHands reports whether any rule handling rc needs every hand loaded
func (p *Pipeline) NeedsAllHands(rc *Context) bool {
	for _, phase := range []Phase{PhasePreValidate, PhaseValidate, PhaseApply} {
		for _, r := range p.Rules(phase) {
			if d, ok := r.(HandsDependent); ok && d.NeedsAllHands() && r.CanHandle(rc) {
				return true
			}
		}
	}
	return false
}

// PipelineCache holds built pipelines keyed by house-rule signature. It is a
// pure cache: dropping entries only costs a rebuild.
type PipelineCache struct {
	mu        sync.RWMutex
	pipelines map[string]*Pipeline
}

// NewPipelineCache creates an empty cache
func NewPipelineCache() *PipelineCache {
	return &PipelineCache{pipelines: make(map[string]*Pipeline)}
}

// Signature returns the cache key for a set of house rules
func Signature(houseRules []model.HouseRule) string {
	keys := make([]string, 0, len(houseRules))
	for _, r := range houseRules {
		keys = append(keys, string(r))
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)
	return strings.Join(keys, ",")
}

// GetOrBuild returns the pipeline for key, building it on first use
func (c *PipelineCache) GetOrBuild(key string, build func() *Pipeline) *Pipeline {
	c.mu.RLock()
	p, ok := c.pipelines[key]
	c.mu.RUnlock()
	if ok {
		return p
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pipelines[key]; ok {
		return p
	}
	p = build()
	c.pipelines[key] = p
	return p
}

// Len returns the number of cached pipelines
func (c *PipelineCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pipelines)
}

// Clear drops every cached pipeline
func (c *PipelineCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pipelines = make(map[string]*Pipeline)
}
