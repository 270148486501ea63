package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventGameCreated       EventType = "game_created"
	EventPlayerJoined      EventType = "player_joined"
	EventGameStarted       EventType = "game_started"
	EventCardPlayed        EventType = "card_played"
	EventCardsDrawn        EventType = "cards_drawn"
	EventTurnPassed        EventType = "turn_passed"
	EventDirectionReversed EventType = "direction_reversed"
	EventPlayerSkipped     EventType = "player_skipped"
	EventColorChosen       EventType = "color_chosen"
	EventDeckReshuffled    EventType = "deck_reshuffled"
	EventUnoCalled         EventType = "uno_called"
	EventUnoPenalty        EventType = "uno_penalty"
	EventGameWon           EventType = "game_won"
)

// Event is a notification produced by an action. Payloads only carry public
// information; drawn cards are reported by count, never by face.
type Event struct {
	Type      EventType      `json:"type"`
	GameID    GameID         `json:"gameId,omitempty"`
	PlayerID  PlayerID       `json:"playerId,omitempty"` // The player who triggered or is affected
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// NewEvent creates an event for a player in a game
func NewEvent(eventType EventType, gameID GameID, playerID PlayerID, at time.Time, payload map[string]any) Event {
	return Event{
		Type:      eventType,
		GameID:    gameID,
		PlayerID:  playerID,
		Timestamp: at,
		Payload:   payload,
	}
}
