package bot

import (
	"github.com/mcoot/unogame/internal/dependencies/random"
	"github.com/mcoot/unogame/internal/model"
)

// RandomStrategy plays a random legal card and names a random color
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseCard implements Strategy
func (s *RandomStrategy) ChooseCard(turn Turn) (int, *model.Color) {
	index := turn.Playable[s.random.Intn(len(turn.Playable))]
	colors := model.Colors()
	return index, model.ColorPtr(colors[s.random.Intn(len(colors))])
}
