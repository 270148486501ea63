package request

import (
	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/bot"
)

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	DisplayName string            `json:"displayName,omitempty"`
	MaxPlayers  int               `json:"maxPlayers,omitempty"`
	IsPrivate   bool              `json:"isPrivate,omitempty"`
	HouseRules  []model.HouseRule `json:"houseRules,omitempty"`
}

// Config returns the game configuration, defaulting unset fields
func (r CreateGameRequest) Config() model.GameConfig {
	cfg := model.DefaultGameConfig()
	if r.MaxPlayers != 0 {
		cfg.MaxPlayers = r.MaxPlayers
	}
	cfg.IsPrivate = r.IsPrivate
	if r.HouseRules != nil {
		cfg.HouseRules = r.HouseRules
	}
	return cfg
}

// JoinGameRequest is the request body for joining a game
type JoinGameRequest struct {
	DisplayName string `json:"displayName,omitempty"`
}

// ActionRequest is the request body for a play, draw or pass
type ActionRequest struct {
	Type        model.ActionType `json:"type"`
	CardIndex   *int             `json:"cardIndex,omitempty"`
	ChosenColor *model.Color     `json:"chosenColor,omitempty"`
	Count       int              `json:"count,omitempty"`
}

// Action converts the request into a model action. A draw without a count
// draws one card.
func (r ActionRequest) Action() (model.Action, error) {
	switch r.Type {
	case model.ActionTypePlay:
		if r.CardIndex == nil {
			return model.Action{}, model.ErrInvalidCardIndex.WithMessage("cardIndex is required")
		}
		return model.PlayAction(*r.CardIndex, r.ChosenColor), nil
	case model.ActionTypeDraw:
		count := r.Count
		if count == 0 {
			count = 1
		}
		return model.DrawAction(count), nil
	case model.ActionTypePass:
		return model.PassAction(), nil
	}
	return model.Action{}, model.ErrInvalidAction.WithDetails(map[string]any{"type": string(r.Type)})
}

// ChallengeRequest is the request body for challenging a missed UNO call
type ChallengeRequest struct {
	TargetID model.PlayerID `json:"targetId"`
}

// AddBotRequest is the request body for seating a bot
type AddBotRequest struct {
	Strategy string `json:"strategy,omitempty"`
}

// StrategyOrDefault returns the requested strategy, or random when unset
func (r AddBotRequest) StrategyOrDefault() string {
	if r.Strategy == "" {
		return bot.StrategyRandom
	}
	return r.Strategy
}
