package response

import (
	"time"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/services/bot"
	"github.com/mcoot/unogame/internal/services/game"
)

// Player is the public view of a seated player
type Player struct {
	PlayerID     model.PlayerID     `json:"playerId"`
	DisplayName  string             `json:"displayName"`
	CardCount    int                `json:"cardCount"`
	Status       model.PlayerStatus `json:"status"`
	HasCalledUno bool               `json:"hasCalledUno"`
	MustCallUno  bool               `json:"mustCallUno"`
	IsBot        bool               `json:"isBot"`
	GameStats    model.GameStats    `json:"gameStats"`
}

// PlayerFromModel converts a model.GamePlayer
func PlayerFromModel(p *model.GamePlayer) Player {
	return Player{
		PlayerID:     p.PlayerID,
		DisplayName:  p.DisplayName,
		CardCount:    p.CardCount,
		Status:       p.Status,
		HasCalledUno: p.HasCalledUno,
		MustCallUno:  p.MustCallUno,
		IsBot:        p.IsBot(),
		GameStats:    p.GameStats,
	}
}

// Game is the public view of a game. The deck seed is never exposed since
// it determines every hidden card.
type Game struct {
	ID                  model.GameID     `json:"id"`
	HostID              model.PlayerID   `json:"hostId"`
	Config              model.GameConfig `json:"config"`
	Status              model.GameStatus `json:"status"`
	CurrentTurnPlayerID model.PlayerID   `json:"currentTurnPlayerId,omitempty"`
	Direction           model.Direction  `json:"direction"`
	TopCard             *model.Card      `json:"topCard,omitempty"`
	DiscardCount        int              `json:"discardCount"`
	DrawPileCount       int              `json:"drawPileCount"`
	CurrentColor        *model.Color     `json:"currentColor"`
	MustDraw            int              `json:"mustDraw"`
	HasDrawn            bool             `json:"hasDrawn"`
	Players             []Player         `json:"players"`
	WinnerID            model.PlayerID   `json:"winnerId,omitempty"`
	CreatedAt           time.Time        `json:"createdAt"`
	StartedAt           *time.Time       `json:"startedAt,omitempty"`
	CompletedAt         *time.Time       `json:"completedAt,omitempty"`
}

// GameFromModel converts a game and its seated players
func GameFromModel(g *model.Game, players []*model.GamePlayer) Game {
	out := Game{
		ID:                  g.ID,
		HostID:              g.HostID,
		Config:              g.Config,
		Status:              g.State.Status,
		CurrentTurnPlayerID: g.State.CurrentTurnPlayerID,
		Direction:           g.State.Direction,
		DiscardCount:        len(g.State.DiscardPile),
		DrawPileCount:       g.State.DrawPileCount,
		CurrentColor:        g.State.CurrentColor,
		MustDraw:            g.State.MustDraw,
		HasDrawn:            g.State.HasDrawn,
		Players:             make([]Player, 0, len(players)),
		WinnerID:            g.WinnerID,
		CreatedAt:           g.CreatedAt,
		StartedAt:           g.StartedAt,
		CompletedAt:         g.CompletedAt,
	}
	if top, ok := g.State.TopCard(); ok {
		out.TopCard = &top
	}
	for _, p := range players {
		out.Players = append(out.Players, PlayerFromModel(p))
	}
	return out
}

// Hand is a player's own cards. Playable lists the indexes that could be
// played right now; it is empty when it is not the player's turn.
type Hand struct {
	GameID   model.GameID   `json:"gameId"`
	PlayerID model.PlayerID `json:"playerId"`
	Cards    []model.Card   `json:"cards"`
	Playable []int          `json:"playable"`
}

// Action is the response to a play, draw or pass
type Action struct {
	ActionID   string            `json:"actionId"`
	Game       Game              `json:"game"`
	Hand       []model.Card      `json:"hand"`
	CardsDrawn []model.Card      `json:"cardsDrawn"`
	Events     []model.Event     `json:"events"`
	TurnPhase  string            `json:"turnPhase"`
	Result     *model.GameResult `json:"result,omitempty"`
	BotMoves   []BotMove         `json:"botMoves,omitempty"`
}

// BotMove is one move a bot made in reply to an action
type BotMove struct {
	Type     bot.BotActionType `json:"type"`
	PlayerID model.PlayerID    `json:"playerId,omitempty"`
	Card     *model.Card       `json:"card,omitempty"`
	TargetID model.PlayerID    `json:"targetId,omitempty"`
}

// BotMovesFromActions converts bot service actions
func BotMovesFromActions(actions []bot.BotAction) []BotMove {
	if len(actions) == 0 {
		return nil
	}
	out := make([]BotMove, len(actions))
	for i, a := range actions {
		out[i] = BotMove{Type: a.Type, PlayerID: a.PlayerID, Card: a.Card, TargetID: a.TargetID}
	}
	return out
}

// ActionFromResult converts a controller result
func ActionFromResult(r *game.ActionResult, players []*model.GamePlayer) Action {
	out := Action{
		ActionID:   r.ActionID,
		Game:       GameFromModel(r.Game, players),
		Hand:       []model.Card{},
		CardsDrawn: r.CardsDrawn,
		Events:     r.Events,
		TurnPhase:  string(r.TurnPhase),
		Result:     r.Result,
	}
	if r.Hand != nil {
		out.Hand = r.Hand.Cards
	}
	if out.Events == nil {
		out.Events = []model.Event{}
	}
	return out
}

// Results is a page of archived results
type Results struct {
	PlayerID model.PlayerID      `json:"playerId"`
	Results  []*model.GameResult `json:"results"`
}

// Health is the health check response
type Health struct {
	Status string `json:"status"`
}
