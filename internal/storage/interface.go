package storage

import (
	"context"

	"github.com/mcoot/unogame/internal/model"
)

// Reader is the read side of the store. Lookups of missing documents return
// the matching NOT_FOUND model error.
type Reader interface {
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	GetGamePlayer(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.GamePlayer, error)
	// GetGamePlayers returns the game's players in seat order
	GetGamePlayers(ctx context.Context, gameID model.GameID) ([]*model.GamePlayer, error)
	GetHand(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.PlayerHand, error)
	GetHands(ctx context.Context, gameID model.GameID) (map[model.PlayerID]*model.PlayerHand, error)
	GetPlayerStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error)
}

// Tx is a transaction over one game. Reads see the transaction's own writes;
// writes are buffered and become visible to others only when it commits.
type Tx interface {
	Reader

	SaveGame(ctx context.Context, game *model.Game) error
	SaveGamePlayer(ctx context.Context, player *model.GamePlayer) error
	SaveHand(ctx context.Context, hand *model.PlayerHand) error
	SavePlayerStats(ctx context.Context, stats *model.PlayerStats) error
}

// Storage defines the interface for data persistence. All writes go through
// RunInTransaction; fn may be run more than once when a backend retries after
// a concurrent update, so it must not have side effects outside tx.
type Storage interface {
	Reader
	RunInTransaction(ctx context.Context, gameID model.GameID, fn func(tx Tx) error) error
}
