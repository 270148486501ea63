package memory

import (
	"context"
	"sync"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Documents are copied in and out so callers never share state with the store.
type Storage struct {
	mu   sync.RWMutex
	txMu sync.Mutex // Transactions run one at a time

	games   map[model.GameID]*model.Game
	players map[seatKey]*model.GamePlayer
	hands   map[seatKey]*model.PlayerHand
	stats   map[model.PlayerID]*model.PlayerStats
}

type seatKey struct {
	gameID   model.GameID
	playerID model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games:   make(map[model.GameID]*model.Game),
		players: make(map[seatKey]*model.GamePlayer),
		hands:   make(map[seatKey]*model.PlayerHand),
		stats:   make(map[model.PlayerID]*model.PlayerStats),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound.WithDetails(map[string]any{"gameId": string(id)})
	}
	return game.Clone(), nil
}

func (s *Storage) GetGamePlayer(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.GamePlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[seatKey{gameID, playerID}]
	if !ok {
		return nil, model.ErrPlayerNotFound.WithDetails(map[string]any{"playerId": string(playerID)})
	}
	return player.Clone(), nil
}

func (s *Storage) GetGamePlayers(ctx context.Context, gameID model.GameID) ([]*model.GamePlayer, error) {
	return storage.SeatedPlayers(ctx, s, gameID)
}

func (s *Storage) GetHand(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.PlayerHand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hand, ok := s.hands[seatKey{gameID, playerID}]
	if !ok {
		return nil, model.ErrHandNotFound.WithDetails(map[string]any{"playerId": string(playerID)})
	}
	return hand.Clone(), nil
}

func (s *Storage) GetHands(ctx context.Context, gameID model.GameID) (map[model.PlayerID]*model.PlayerHand, error) {
	return storage.SeatedHands(ctx, s, gameID)
}

func (s *Storage) GetPlayerStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[playerID]
	if !ok {
		return nil, model.ErrStatsNotFound.WithDetails(map[string]any{"playerId": string(playerID)})
	}
	cp := *stats
	return &cp, nil
}

// RunInTransaction runs fn against a write buffer and commits the buffer if fn
// succeeds. Transactions are serialised, so they never conflict.
func (s *Storage) RunInTransaction(ctx context.Context, gameID model.GameID, fn func(tx storage.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	t := &tx{
		s:       s,
		games:   make(map[model.GameID]*model.Game),
		players: make(map[seatKey]*model.GamePlayer),
		hands:   make(map[seatKey]*model.PlayerHand),
		stats:   make(map[model.PlayerID]*model.PlayerStats),
	}
	if err := fn(t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, g := range t.games {
		s.games[id] = g
	}
	for k, p := range t.players {
		s.players[k] = p
	}
	for k, h := range t.hands {
		s.hands[k] = h
	}
	for id, st := range t.stats {
		s.stats[id] = st
	}
	return nil
}

// tx buffers writes until commit. Reads fall through to the committed state.
type tx struct {
	s *Storage

	games   map[model.GameID]*model.Game
	players map[seatKey]*model.GamePlayer
	hands   map[seatKey]*model.PlayerHand
	stats   map[model.PlayerID]*model.PlayerStats
}

var _ storage.Tx = (*tx)(nil)

func (t *tx) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	if g, ok := t.games[id]; ok {
		return g.Clone(), nil
	}
	return t.s.GetGame(ctx, id)
}

func (t *tx) GetGamePlayer(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.GamePlayer, error) {
	if p, ok := t.players[seatKey{gameID, playerID}]; ok {
		return p.Clone(), nil
	}
	return t.s.GetGamePlayer(ctx, gameID, playerID)
}

func (t *tx) GetGamePlayers(ctx context.Context, gameID model.GameID) ([]*model.GamePlayer, error) {
	return storage.SeatedPlayers(ctx, t, gameID)
}

func (t *tx) GetHand(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.PlayerHand, error) {
	if h, ok := t.hands[seatKey{gameID, playerID}]; ok {
		return h.Clone(), nil
	}
	return t.s.GetHand(ctx, gameID, playerID)
}

func (t *tx) GetHands(ctx context.Context, gameID model.GameID) (map[model.PlayerID]*model.PlayerHand, error) {
	return storage.SeatedHands(ctx, t, gameID)
}

func (t *tx) GetPlayerStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	if st, ok := t.stats[playerID]; ok {
		cp := *st
		return &cp, nil
	}
	return t.s.GetPlayerStats(ctx, playerID)
}

func (t *tx) SaveGame(ctx context.Context, game *model.Game) error {
	t.games[game.ID] = game.Clone()
	return nil
}

func (t *tx) SaveGamePlayer(ctx context.Context, player *model.GamePlayer) error {
	t.players[seatKey{player.GameID, player.PlayerID}] = player.Clone()
	return nil
}

func (t *tx) SaveHand(ctx context.Context, hand *model.PlayerHand) error {
	t.hands[seatKey{hand.GameID, hand.PlayerID}] = hand.Clone()
	return nil
}

func (t *tx) SavePlayerStats(ctx context.Context, stats *model.PlayerStats) error {
	cp := *stats
	t.stats[stats.PlayerID] = &cp
	return nil
}
