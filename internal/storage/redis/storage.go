package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/unogame/internal/model"
	"github.com/mcoot/unogame/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Documents are stored as JSON strings; transactions use WATCH/MULTI.
type Storage struct {
	docs
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		docs:   docs{r: client},
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// RunInTransaction watches the game key, and every key fn reads, then writes
// fn's buffered documents in one MULTI. If any watched key changed in between,
// fn is run again from scratch, up to MaxTxRetries more times.
func (s *Storage) RunInTransaction(ctx context.Context, gameID model.GameID, fn func(tx storage.Tx) error) error {
	for attempt := 0; attempt <= s.cfg.MaxTxRetries; attempt++ {
		err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
			t := newTx(rtx, s.cfg)
			if err := fn(t); err != nil {
				return err
			}
			return t.commit(ctx)
		}, gameKey(gameID))

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return model.ErrTransactionConflict.WithDetails(map[string]any{
		"gameId":   string(gameID),
		"attempts": s.cfg.MaxTxRetries + 1,
	})
}

// getter is the read surface shared by clients and transactions
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
}

// docs reads JSON documents. Inside a transaction watch is set and every key
// is watched before it is read.
type docs struct {
	r     getter
	watch func(ctx context.Context, keys ...string) error
}

func (d docs) watchKeys(ctx context.Context, keys ...string) error {
	if d.watch == nil {
		return nil
	}
	return d.watch(ctx, keys...)
}

func getDoc[T any](ctx context.Context, d docs, key string, notFound error) (*T, error) {
	if err := d.watchKeys(ctx, key); err != nil {
		return nil, err
	}
	data, err := d.r.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound
		}
		return nil, err
	}

	var doc T
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	return &doc, nil
}

// getDocs fetches keys in one MGET, failing with notFound on the first missing key
func getDocs[T any](ctx context.Context, d docs, keys []string, notFound func(i int) error) ([]*T, error) {
	if len(keys) == 0 {
		return []*T{}, nil
	}
	if err := d.watchKeys(ctx, keys...); err != nil {
		return nil, err
	}
	values, err := d.r.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]*T, 0, len(values))
	for i, val := range values {
		s, ok := val.(string)
		if !ok {
			return nil, notFound(i)
		}
		var doc T
		if err := json.Unmarshal([]byte(s), &doc); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", keys[i], err)
		}
		out = append(out, &doc)
	}
	return out, nil
}

func (d docs) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return getDoc[model.Game](ctx, d, gameKey(id),
		model.ErrGameNotFound.WithDetails(map[string]any{"gameId": string(id)}))
}

func (d docs) GetGamePlayer(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.GamePlayer, error) {
	return getDoc[model.GamePlayer](ctx, d, playerKey(gameID, playerID),
		model.ErrPlayerNotFound.WithDetails(map[string]any{"playerId": string(playerID)}))
}

func (d docs) GetGamePlayers(ctx context.Context, gameID model.GameID) ([]*model.GamePlayer, error) {
	game, err := d.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(game.Players))
	for i, id := range game.Players {
		keys[i] = playerKey(gameID, id)
	}
	return getDocs[model.GamePlayer](ctx, d, keys, func(i int) error {
		return model.ErrPlayerNotFound.WithDetails(map[string]any{"playerId": string(game.Players[i])})
	})
}

func (d docs) GetHand(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.PlayerHand, error) {
	return getDoc[model.PlayerHand](ctx, d, handKey(gameID, playerID),
		model.ErrHandNotFound.WithDetails(map[string]any{"playerId": string(playerID)}))
}

func (d docs) GetHands(ctx context.Context, gameID model.GameID) (map[model.PlayerID]*model.PlayerHand, error) {
	game, err := d.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(game.Players))
	for i, id := range game.Players {
		keys[i] = handKey(gameID, id)
	}
	hands, err := getDocs[model.PlayerHand](ctx, d, keys, func(i int) error {
		return model.ErrHandNotFound.WithDetails(map[string]any{"playerId": string(game.Players[i])})
	})
	if err != nil {
		return nil, err
	}

	out := make(map[model.PlayerID]*model.PlayerHand, len(hands))
	for i, h := range hands {
		out[game.Players[i]] = h
	}
	return out, nil
}

func (d docs) GetPlayerStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	return getDoc[model.PlayerStats](ctx, d, statsKey(playerID),
		model.ErrStatsNotFound.WithDetails(map[string]any{"playerId": string(playerID)}))
}

// pending is one buffered document write
type pending struct {
	value any
	ttl   time.Duration
}

// tx serves reads from its own buffer first, then from Redis under WATCH
type tx struct {
	docs
	rtx    *redis.Tx
	cfg    Config
	writes map[string]pending
}

var _ storage.Tx = (*tx)(nil)

func newTx(rtx *redis.Tx, cfg Config) *tx {
	return &tx{
		docs: docs{
			r: rtx,
			watch: func(ctx context.Context, keys ...string) error {
				return rtx.Watch(ctx, keys...).Err()
			},
		},
		rtx:    rtx,
		cfg:    cfg,
		writes: make(map[string]pending),
	}
}

// buffered returns a copy of the pending write to key, if any
func buffered[T any](t *tx, key string) (*T, bool, error) {
	p, ok := t.writes[key]
	if !ok {
		return nil, false, nil
	}
	data, err := json.Marshal(p.value)
	if err != nil {
		return nil, true, err
	}
	var doc T
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, true, err
	}
	return &doc, true, nil
}

func (t *tx) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	if g, ok, err := buffered[model.Game](t, gameKey(id)); ok {
		return g, err
	}
	return t.docs.GetGame(ctx, id)
}

func (t *tx) GetGamePlayer(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.GamePlayer, error) {
	if p, ok, err := buffered[model.GamePlayer](t, playerKey(gameID, playerID)); ok {
		return p, err
	}
	return t.docs.GetGamePlayer(ctx, gameID, playerID)
}

func (t *tx) GetGamePlayers(ctx context.Context, gameID model.GameID) ([]*model.GamePlayer, error) {
	return storage.SeatedPlayers(ctx, t, gameID)
}

func (t *tx) GetHand(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.PlayerHand, error) {
	if h, ok, err := buffered[model.PlayerHand](t, handKey(gameID, playerID)); ok {
		return h, err
	}
	return t.docs.GetHand(ctx, gameID, playerID)
}

func (t *tx) GetHands(ctx context.Context, gameID model.GameID) (map[model.PlayerID]*model.PlayerHand, error) {
	return storage.SeatedHands(ctx, t, gameID)
}

func (t *tx) GetPlayerStats(ctx context.Context, playerID model.PlayerID) (*model.PlayerStats, error) {
	if st, ok, err := buffered[model.PlayerStats](t, statsKey(playerID)); ok {
		return st, err
	}
	return t.docs.GetPlayerStats(ctx, playerID)
}

func (t *tx) SaveGame(ctx context.Context, game *model.Game) error {
	t.writes[gameKey(game.ID)] = pending{value: game.Clone(), ttl: t.cfg.GameTTL}
	return nil
}

func (t *tx) SaveGamePlayer(ctx context.Context, player *model.GamePlayer) error {
	t.writes[playerKey(player.GameID, player.PlayerID)] = pending{value: player.Clone(), ttl: t.cfg.GameTTL}
	return nil
}

func (t *tx) SaveHand(ctx context.Context, hand *model.PlayerHand) error {
	t.writes[handKey(hand.GameID, hand.PlayerID)] = pending{value: hand.Clone(), ttl: t.cfg.GameTTL}
	return nil
}

func (t *tx) SavePlayerStats(ctx context.Context, stats *model.PlayerStats) error {
	cp := *stats
	t.writes[statsKey(stats.PlayerID)] = pending{value: &cp}
	return nil
}

// commit writes every buffered document in one MULTI/EXEC
func (t *tx) commit(ctx context.Context) error {
	if len(t.writes) == 0 {
		return nil
	}
	encoded := make(map[string][]byte, len(t.writes))
	for key, p := range t.writes {
		data, err := json.Marshal(p.value)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		encoded[key] = data
	}

	_, err := t.rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, data := range encoded {
			pipe.Set(ctx, key, data, t.writes[key].ttl)
		}
		return nil
	})
	return err
}
