// Package deck drives the virtual draw pile. The pile is never stored: it is
// the seeded ordering of the standard deck minus every card that is visibly
// in a hand or on the discard pile.
package deck

import "github.com/mcoot/unogame/internal/model"

// Size is the number of cards in a standard deck
const Size = 108

// StandardDeck returns the 108 cards in canonical, unshuffled order:
// per color a single 0, two of each 1-9 and two of each action card,
// followed by four wilds and four wild draw fours.
func StandardDeck() []model.Card {
	out := make([]model.Card, 0, Size)
	for _, color := range model.Colors() {
		out = append(out, model.NumberCard(color, 0))
		for n := 1; n <= 9; n++ {
			out = append(out, model.NumberCard(color, n), model.NumberCard(color, n))
		}
		for _, v := range model.SpecialValues() {
			out = append(out, model.SpecialCard(color, v), model.SpecialCard(color, v))
		}
	}
	for i := 0; i < 4; i++ {
		out = append(out, model.WildCard(model.ValueWild))
	}
	for i := 0; i < 4; i++ {
		out = append(out, model.WildCard(model.ValueWildDrawFour))
	}
	return out
}

// HashSeed folds a seed string into 32 bits with the h*31+c string hash
func HashSeed(seed string) uint32 {
	var h uint32
	for _, r := range seed {
		h = h*31 + uint32(r)
	}
	return h
}

// mulberry32 is a small, fast generator with a 32-bit state. Its output
// must stay bit-for-bit stable: persisted games depend on it.
type mulberry32 struct {
	state uint32
}

func newMulberry32(seed uint32) *mulberry32 {
	return &mulberry32{state: seed}
}

// next returns a float in [0, 1)
func (m *mulberry32) next() float64 {
	m.state += 0x6D2B79F5
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// Shuffle returns the standard deck ordered by seed using Fisher-Yates
func Shuffle(seed string) []model.Card {
	cards := StandardDeck()
	rng := newMulberry32(HashSeed(seed))
	for i := len(cards) - 1; i > 0; i-- {
		j := int(rng.next() * float64(i+1))
		cards[i], cards[j] = cards[j], cards[i]
	}
	return cards
}
