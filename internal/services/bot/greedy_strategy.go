package bot

import (
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/cards"
)

// GreedyStrategy sheds its most valuable playable card first and calls the
// color it holds most of
type GreedyStrategy struct{}

// NewGreedyStrategy creates a new GreedyStrategy
func NewGreedyStrategy() *GreedyStrategy {
	return &GreedyStrategy{}
}

// ChooseCard implements Strategy. Ties go to the earliest card in hand.
func (s *GreedyStrategy) ChooseCard(turn Turn) (int, *model.Color) {
	best := turn.Playable[0]
	for _, i := range turn.Playable[1:] {
		if cards.CalculateCardScore(turn.Hand[i]) > cards.CalculateCardScore(turn.Hand[best]) {
			best = i
		}
	}
	return best, model.ColorPtr(dominantColor(turn.Hand, best))
}

// dominantColor is the most common color in hand ignoring the card at skip.
// Ties and all-wild hands resolve in deck order.
func dominantColor(hand []model.Card, skip int) model.Color {
	counts := make(map[model.Color]int, 4)
	for i, c := range hand {
		if i != skip && !c.IsWild() {
			counts[c.Color]++
		}
	}
	colors := model.Colors()
	best := colors[0]
	for _, c := range colors[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}
