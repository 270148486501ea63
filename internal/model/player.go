package model

import "time"

// PlayerID uniquely identifies a player across the system
type PlayerID string

// PlayerStatus is a player's standing within one game
type PlayerStatus string

const (
	PlayerStatusActive PlayerStatus = "active"
	PlayerStatusWinner PlayerStatus = "winner"
)

// GameStats are the per-game counters for one player
type GameStats struct {
	CardsPlayed        int `json:"cardsPlayed"`
	CardsDrawn         int `json:"cardsDrawn"`
	TurnsPlayed        int `json:"turnsPlayed"`
	SpecialCardsPlayed int `json:"specialCardsPlayed"`
}

// GamePlayer is the per-game projection of a player
type GamePlayer struct {
	GameID       GameID       `json:"gameId"`
	PlayerID     PlayerID     `json:"playerId"`
	DisplayName  string       `json:"displayName"`
	CardCount    int          `json:"cardCount"` // Always equals len of the persisted hand
	Status       PlayerStatus `json:"status"`
	HasCalledUno bool         `json:"hasCalledUno"`
	MustCallUno  bool         `json:"mustCallUno"` // Down to one card without calling UNO
	GameStats    GameStats    `json:"gameStats"`
	BotStrategy  string       `json:"botStrategy,omitempty"` // Empty for people
	JoinedAt     time.Time    `json:"joinedAt"`
	LastActionAt *time.Time   `json:"lastActionAt,omitempty"`
}

// Clone returns a deep copy of the player document
func (p *GamePlayer) Clone() *GamePlayer {
	out := *p
	if p.LastActionAt != nil {
		t := *p.LastActionAt
		out.LastActionAt = &t
	}
	return &out
}

// IsBot returns true for computer players
func (p *GamePlayer) IsBot() bool {
	return p.BotStrategy != ""
}

// PlayerHand is the ordered set of cards a player holds.
// Cards are addressed by index; there are no stable card IDs.
type PlayerHand struct {
	GameID   GameID   `json:"gameId"`
	PlayerID PlayerID `json:"playerId"`
	Cards    []Card   `json:"cards"`
}

// Clone returns a deep copy of the hand
func (h *PlayerHand) Clone() *PlayerHand {
	return &PlayerHand{GameID: h.GameID, PlayerID: h.PlayerID, Cards: CloneCards(h.Cards)}
}

// PlayerStats is the long-lived statistics document for a player
type PlayerStats struct {
	PlayerID           PlayerID `json:"playerId"`
	GamesPlayed        int      `json:"gamesPlayed"`
	GamesWon           int      `json:"gamesWon"`
	GamesLost          int      `json:"gamesLost"`
	TotalScore         int      `json:"totalScore"`
	HighestGameScore   int      `json:"highestGameScore"`
	WinRate            float64  `json:"winRate"`
	CardsPlayed        int      `json:"cardsPlayed"`
	SpecialCardsPlayed int      `json:"specialCardsPlayed"`

	// Last game folded into these stats, used to make updates idempotent per game
	LastGameID GameID `json:"lastGameId,omitempty"`
}
