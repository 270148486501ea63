package model

import "time"

// Ranking is one player's final placing in a completed game
type Ranking struct {
	PlayerID       PlayerID `json:"playerId"`
	Rank           int      `json:"rank"`
	CardsRemaining int      `json:"cardsRemaining"`
	HandScore      int      `json:"handScore"`
}

// GameResult is the outcome of a completed game
type GameResult struct {
	GameID      GameID    `json:"gameId"`
	WinnerID    PlayerID  `json:"winnerId"`
	WinnerScore int       `json:"winnerScore"`
	Rankings    []Ranking `json:"rankings"`
	CompletedAt time.Time `json:"completedAt"`
}

// FinalizeData is everything computed when a game is won, pre-fetched
// during finalize so that applying it needs no further reads.
type FinalizeData struct {
	Result GameResult    `json:"result"`
	Stats  []PlayerStats `json:"stats"` // Updated stats documents, seat order
}
