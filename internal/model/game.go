package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus represents the lifecycle stage of a game
type GameStatus string

const (
	GameStatusWaiting    GameStatus = "waiting"     // Players joining, nothing dealt
	GameStatusInProgress GameStatus = "in-progress" // Hands dealt, turns being played
	GameStatusCompleted  GameStatus = "completed"   // A player emptied their hand
)

// Direction is the order in which turns pass around the table
type Direction string

const (
	DirectionClockwise        Direction = "clockwise"
	DirectionCounterClockwise Direction = "counter-clockwise"
)

// Reversed returns the opposite direction
func (d Direction) Reversed() Direction {
	if d == DirectionCounterClockwise {
		return DirectionClockwise
	}
	return DirectionCounterClockwise
}

// HouseRule is an optional rule variant. Values are wire-stable.
type HouseRule string

const (
	HouseRuleStacking     HouseRule = "stacking"
	HouseRuleJumpIn       HouseRule = "jumpIn"
	HouseRuleSevenSwap    HouseRule = "sevenSwap"
	HouseRuleDrawToMatch  HouseRule = "drawToMatch"
	HouseRuleZeroRotation HouseRule = "zeroRotation"
)

// Valid returns true if r is a declared house rule
func (r HouseRule) Valid() bool {
	switch r {
	case HouseRuleStacking, HouseRuleJumpIn, HouseRuleSevenSwap, HouseRuleDrawToMatch, HouseRuleZeroRotation:
		return true
	}
	return false
}

const (
	MinPlayers        = 2
	MaxPlayersLimit   = 10
	DefaultMaxPlayers = 4
	DefaultHandSize   = 7
)

// GameConfig holds the settings chosen when the game was created
type GameConfig struct {
	IsPrivate  bool        `json:"isPrivate"`
	MaxPlayers int         `json:"maxPlayers"`
	HouseRules []HouseRule `json:"houseRules"`
}

// DefaultGameConfig returns the default game configuration
func DefaultGameConfig() GameConfig {
	return GameConfig{
		MaxPlayers: DefaultMaxPlayers,
		HouseRules: []HouseRule{},
	}
}

// Has returns true if the house rule is enabled
func (c GameConfig) Has(rule HouseRule) bool {
	for _, r := range c.HouseRules {
		if r == rule {
			return true
		}
	}
	return false
}

// Validate checks player limits and house rule names
func (c GameConfig) Validate() error {
	if c.MaxPlayers < MinPlayers || c.MaxPlayers > MaxPlayersLimit {
		return ErrInvalidConfig.WithDetails(map[string]any{
			"maxPlayers": c.MaxPlayers,
			"min":        MinPlayers,
			"max":        MaxPlayersLimit,
		})
	}
	for _, r := range c.HouseRules {
		if !r.Valid() {
			return ErrInvalidConfig.WithDetails(map[string]any{"houseRule": string(r)})
		}
	}
	return nil
}

// GameState is the mutable play state of a game
type GameState struct {
	Status              GameStatus `json:"status"`
	CurrentTurnPlayerID PlayerID   `json:"currentTurnPlayerId"`
	Direction           Direction  `json:"direction"`
	DeckSeed            string     `json:"deckSeed"`
	DrawPileCount       int        `json:"drawPileCount"` // Informational only
	DiscardPile         []Card     `json:"discardPile"`   // Last element is the top card
	CurrentColor        *Color     `json:"currentColor"`  // Set after a wild is played
	MustDraw            int        `json:"mustDraw"`      // Penalty owed by the current player
	HasDrawn            bool       `json:"hasDrawn"`      // The current player already drew voluntarily
}

// TopCard returns the top of the discard pile
func (s *GameState) TopCard() (Card, bool) {
	if len(s.DiscardPile) == 0 {
		return Card{}, false
	}
	return s.DiscardPile[len(s.DiscardPile)-1], true
}

// Game represents a single UNO game
type Game struct {
	ID     GameID     `json:"id"`
	HostID PlayerID   `json:"hostId"`
	Config GameConfig `json:"config"`
	State  GameState  `json:"state"`

	// Seat order, fixed once the game starts
	Players []PlayerID `json:"players"`

	WinnerID PlayerID `json:"winnerId,omitempty"`

	CreatedAt      time.Time  `json:"createdAt"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	LastActivityAt time.Time  `json:"lastActivityAt"`
}

// SeatOf returns the seat index of a player, or -1 if not seated
func (g *Game) SeatOf(playerID PlayerID) int {
	for i, p := range g.Players {
		if p == playerID {
			return i
		}
	}
	return -1
}

// IsFull returns true when no more players can join
func (g *Game) IsFull() bool {
	return len(g.Players) >= g.Config.MaxPlayers
}

// Clone returns a deep copy of the game document
func (g *Game) Clone() *Game {
	out := *g
	out.Config.HouseRules = append([]HouseRule(nil), g.Config.HouseRules...)
	out.Players = append([]PlayerID(nil), g.Players...)
	out.State.DiscardPile = CloneCards(g.State.DiscardPile)
	if g.State.CurrentColor != nil {
		out.State.CurrentColor = ColorPtr(*g.State.CurrentColor)
	}
	if g.StartedAt != nil {
		t := *g.StartedAt
		out.StartedAt = &t
	}
	if g.CompletedAt != nil {
		t := *g.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}
