package redis

import (
	"fmt"

	"github.com/mcoot/unogame/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "uno"

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// playerKey returns the Redis key for a player's projection within a game
func playerKey(gameID model.GameID, playerID model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s:%s", keyPrefix, gameID, playerID)
}

// handKey returns the Redis key for a player's hand
func handKey(gameID model.GameID, playerID model.PlayerID) string {
	return fmt.Sprintf("%s:hand:%s:%s", keyPrefix, gameID, playerID)
}

// statsKey returns the Redis key for a player's long-lived stats
func statsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, playerID)
}
