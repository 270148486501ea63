package bot

import "github.com/mcoot/unogame/internal/model"

// Turn is what a bot sees when asked for its next move
type Turn struct {
	Game     *model.Game
	Hand     []model.Card
	Playable []int // Hand indexes that may be played right now
	Drawn    bool  // The bot already drew this turn
}

// Strategy defines how a bot chooses its moves
type Strategy interface {
	// ChooseCard picks one of turn.Playable and, for wild cards, a color
	ChooseCard(turn Turn) (int, *model.Color)
}

// nextAction asks strategy for a play, falling back to drawing and then passing
func nextAction(strategy Strategy, turn Turn) model.Action {
	if len(turn.Playable) > 0 {
		index, color := strategy.ChooseCard(turn)
		if !turn.Hand[index].IsWild() {
			color = nil
		}
		return model.PlayAction(index, color)
	}
	if turn.Game.State.MustDraw > 0 || !turn.Drawn {
		return model.DrawAction(1)
	}
	return model.PassAction()
}
