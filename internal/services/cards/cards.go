// Package cards holds the pure card rules: legality, per-card effects,
// turn advancement and card scoring.
package cards

import "github.com/mcoot/unogame/internal/model"

const (
	SpecialCardScore = 20
	WildCardScore    = 50
)

// HouseRuleSet is the set of house rules enabled for a game
type HouseRuleSet map[model.HouseRule]bool

// NewHouseRuleSet builds a set from a list of house rules
func NewHouseRuleSet(rules ...model.HouseRule) HouseRuleSet {
	set := make(HouseRuleSet, len(rules))
	for _, r := range rules {
		set[r] = true
	}
	return set
}

// Has returns true if rule is enabled. Safe on a nil set.
func (s HouseRuleSet) Has(rule model.HouseRule) bool {
	return s[rule]
}

// ActiveColor returns the color a non-wild card must match. When the top card
// is wild this is the chosen color, which may be unset.
func ActiveColor(top model.Card, currentColor *model.Color) (model.Color, bool) {
	if top.IsWild() {
		if currentColor == nil {
			return "", false
		}
		return *currentColor, true
	}
	return top.Color, top.Color != ""
}

// IsCardPlayable reports whether card may be played on top given the pending penalty
func IsCardPlayable(card, top model.Card, currentColor *model.Color, mustDraw int, rules HouseRuleSet) bool {
	if mustDraw > 0 {
		// Under a penalty only stacking lets anything through, and then only draw cards
		return rules.Has(model.HouseRuleStacking) && card.IsDrawCard()
	}
	if card.IsWild() {
		return true
	}
	if color, ok := ActiveColor(top, currentColor); ok && card.Color == color {
		return true
	}
	if top.IsWild() {
		return false
	}
	return card.Value == top.Value
}

// PlayableIndexes returns the hand positions that could legally be played
func PlayableIndexes(hand []model.Card, top model.Card, currentColor *model.Color, mustDraw int, rules HouseRuleSet) []int {
	out := []int{}
	for i, c := range hand {
		if !IsCardPlayable(c, top, currentColor, mustDraw, rules) {
			continue
		}
		if c.Value == model.ValueWildDrawFour && !CanPlayWildDrawFour(hand, i, top, currentColor, mustDraw, rules) {
			continue
		}
		out = append(out, i)
	}
	return out
}

// CanPlayWildDrawFour applies the wild draw four restriction: with no penalty pending,
// it may not be played while the hand holds another card of the active color.
// The restriction does not apply while stacking onto a penalty.
func CanPlayWildDrawFour(hand []model.Card, playedIndex int, top model.Card, currentColor *model.Color, mustDraw int, rules HouseRuleSet) bool {
	if mustDraw > 0 && rules.Has(model.HouseRuleStacking) {
		return true
	}
	color, ok := ActiveColor(top, currentColor)
	if !ok {
		return true
	}
	for i, c := range hand {
		if i == playedIndex || c.IsWild() {
			continue
		}
		if c.Color == color {
			return false
		}
	}
	return true
}

// CardEffect is the change to play direction and penalty caused by one card
type CardEffect struct {
	Direction model.Direction
	MustDraw  int
	SkipNext  bool
}

// ApplyCardEffect computes the effect of playing card. Penalties accumulate.
func ApplyCardEffect(card model.Card, direction model.Direction, mustDraw int) CardEffect {
	effect := CardEffect{Direction: direction, MustDraw: mustDraw}
	switch card.Value {
	case model.ValueReverse:
		effect.Direction = direction.Reversed()
	case model.ValueSkip:
		effect.SkipNext = true
	case model.ValueDrawTwo:
		effect.MustDraw += 2
	case model.ValueWildDrawFour:
		effect.MustDraw += 4
	}
	return effect
}

// EffectiveSkip returns true when playing card skips the next seat. A reverse
// between two players skips the lone opponent, returning play to the card's owner.
func EffectiveSkip(card model.Card, playerCount int) bool {
	if card.Value == model.ValueSkip {
		return true
	}
	return card.Value == model.ValueReverse && playerCount == 2
}

// NextPlayerID advances one seat in direction, or two when skip is set
func NextPlayerID(players []model.PlayerID, currentIndex int, direction model.Direction, skip bool) model.PlayerID {
	n := len(players)
	if n == 0 {
		return ""
	}
	step := 1
	if direction == model.DirectionCounterClockwise {
		step = -1
	}
	if skip {
		step *= 2
	}
	next := ((currentIndex+step)%n + n) % n
	return players[next]
}

// CalculateCardScore returns the points a card left in hand is worth
func CalculateCardScore(card model.Card) int {
	switch card.Kind {
	case model.KindNumber:
		return max(card.Number(), 0)
	case model.KindSpecial:
		return SpecialCardScore
	case model.KindWild:
		return WildCardScore
	}
	return 0
}

// HandScore sums the card scores of a hand
func HandScore(hand []model.Card) int {
	total := 0
	for _, c := range hand {
		total += CalculateCardScore(c)
	}
	return total
}
