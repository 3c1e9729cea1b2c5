package db

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const gameStatsSchema = `
CREATE TABLE IF NOT EXISTS game_stats (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	game_id TEXT NOT NULL,
	wins INTEGER NOT NULL DEFAULT 0,
	losses INTEGER NOT NULL DEFAULT 0,
	draws INTEGER NOT NULL DEFAULT 0,
	total_games INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (user_id, game_id)
);`

const leaderboardIndex = `
CREATE INDEX IF NOT EXISTS idx_game_stats_leaderboard ON game_stats (game_id, wins DESC);`

// OpenSQLite opens the SQLite database at path. ":memory:" gives a private
// in-memory database, limited to one connection so every query sees it.
func OpenSQLite(ctx context.Context, path string) (*sqlx.DB, error) {
	pool, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		pool.SetMaxOpenConns(1)
	}
	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}
	slog.InfoContext(ctx, "connected to sqlite database", "path", path)
	return pool, nil
}

// MigrateSQLite creates the tables the stats backend needs.
func MigrateSQLite(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, gameStatsSchema); err != nil {
		return fmt.Errorf("failed to create game_stats table: %w", err)
	}
	if _, err := db.ExecContext(ctx, leaderboardIndex); err != nil {
		return fmt.Errorf("failed to create leaderboard index: %w", err)
	}
	slog.InfoContext(ctx, "sqlite schema verified")
	return nil
}
