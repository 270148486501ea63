// Package archive keeps completed game results in SQLite after the live game
// documents have expired.
package archive

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mcoot/unogame/internal/model"
)

//go:embed schema.sql
var schemaSQL string

// DefaultListLimit caps ListResultsForPlayer when no limit is given
const DefaultListLimit = 20

// Archive is a SQLite store of game results
type Archive struct {
	db *sql.DB
}

// Open creates or opens the archive at path. Use ":memory:" for a throwaway archive.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	// SQLite allows one writer at a time. An in-memory database also lives
	// and dies with its connection, so the single connection never expires.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to archive: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// Close closes the database
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// SaveResult records a completed game. Saving the same game twice keeps the first copy.
func (a *Archive) SaveResult(ctx context.Context, result *model.GameResult) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, `
		INSERT INTO game_results (game_id, winner_id, winner_score, completed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(game_id) DO NOTHING
	`,
		string(result.GameID),
		string(result.WinnerID),
		result.WinnerScore,
		result.CompletedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}

	for _, r := range result.Rankings {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO result_rankings (game_id, player_id, rank, cards_remaining, hand_score)
			VALUES (?, ?, ?, ?, ?)
		`, string(result.GameID), string(r.PlayerID), r.Rank, r.CardsRemaining, r.HandScore)
		if err != nil {
			return fmt.Errorf("save ranking for %s: %w", r.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

// GetResult returns the result of a game, or RESULT_NOT_FOUND
func (a *Archive) GetResult(ctx context.Context, gameID model.GameID) (*model.GameResult, error) {
	result := &model.GameResult{GameID: gameID}
	var winnerID, completedAt string
	err := a.db.QueryRowContext(ctx, `
		SELECT winner_id, winner_score, completed_at
		FROM game_results
		WHERE game_id = ?
	`, string(gameID)).Scan(&winnerID, &result.WinnerScore, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrResultNotFound.WithDetails(map[string]any{"gameId": string(gameID)})
	}
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}

	result.WinnerID = model.PlayerID(winnerID)
	if result.CompletedAt, err = time.Parse(time.RFC3339Nano, completedAt); err != nil {
		return nil, fmt.Errorf("get result: bad completed_at %q: %w", completedAt, err)
	}
	if result.Rankings, err = a.rankings(ctx, gameID); err != nil {
		return nil, err
	}
	return result, nil
}

func (a *Archive) rankings(ctx context.Context, gameID model.GameID) ([]model.Ranking, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT player_id, rank, cards_remaining, hand_score
		FROM result_rankings
		WHERE game_id = ?
		ORDER BY rank ASC
	`, string(gameID))
	if err != nil {
		return nil, fmt.Errorf("query rankings: %w", err)
	}
	defer rows.Close()

	rankings := []model.Ranking{}
	for rows.Next() {
		var r model.Ranking
		var playerID string
		if err := rows.Scan(&playerID, &r.Rank, &r.CardsRemaining, &r.HandScore); err != nil {
			return nil, fmt.Errorf("scan ranking: %w", err)
		}
		r.PlayerID = model.PlayerID(playerID)
		rankings = append(rankings, r)
	}
	return rankings, rows.Err()
}

// ListResultsForPlayer returns the most recent results of games playerID took part in
func (a *Archive) ListResultsForPlayer(ctx context.Context, playerID model.PlayerID, limit int) ([]*model.GameResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := a.db.QueryContext(ctx, `
		SELECT g.game_id
		FROM game_results g
		JOIN result_rankings r ON r.game_id = g.game_id
		WHERE r.player_id = ?
		ORDER BY g.completed_at DESC, g.game_id ASC
		LIMIT ?
	`, string(playerID), limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	var ids []model.GameID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan result: %w", err)
		}
		ids = append(ids, model.GameID(id))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	// One connection only, so the id rows are closed before the follow-up reads
	results := make([]*model.GameResult, 0, len(ids))
	for _, id := range ids {
		r, err := a.GetResult(ctx, id)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
