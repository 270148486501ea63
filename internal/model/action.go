package model

// ActionType identifies what a player is trying to do on their turn
type ActionType string

const (
	ActionTypePlay ActionType = "play"
	ActionTypeDraw ActionType = "draw"
	ActionTypePass ActionType = "pass"
)

// Action is a player's requested move. Which fields are meaningful depends on Type:
// play uses CardIndex and ChosenColor, draw uses Count, pass uses neither.
type Action struct {
	Type        ActionType `json:"type"`
	CardIndex   int        `json:"cardIndex,omitempty"`
	ChosenColor *Color     `json:"chosenColor,omitempty"`
	Count       int        `json:"count,omitempty"`
}

// PlayAction plays the card at index, choosing color when it is a wild
func PlayAction(index int, chosen *Color) Action {
	return Action{Type: ActionTypePlay, CardIndex: index, ChosenColor: chosen}
}

// DrawAction draws count cards
func DrawAction(count int) Action {
	return Action{Type: ActionTypeDraw, Count: count}
}

// PassAction ends the turn without playing
func PassAction() Action {
	return Action{Type: ActionTypePass}
}

// Validate checks the shape of the action, independent of game state
func (a Action) Validate() error {
	switch a.Type {
	case ActionTypePlay:
		if a.CardIndex < 0 {
			return ErrInvalidCardIndex.WithDetails(map[string]any{"cardIndex": a.CardIndex})
		}
		if a.ChosenColor != nil && !a.ChosenColor.Valid() {
			return ErrInvalidColor.WithDetails(map[string]any{"chosenColor": string(*a.ChosenColor)})
		}
	case ActionTypeDraw:
		if a.Count < 1 {
			return ErrInvalidDrawCount.WithDetails(map[string]any{"count": a.Count})
		}
	case ActionTypePass:
	default:
		return ErrInvalidAction.WithDetails(map[string]any{"type": string(a.Type)})
	}
	return nil
}
