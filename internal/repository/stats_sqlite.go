package repository

import (
	"context"
	"ctchen222/AI-Arcade/internal/stats"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const statsColumns = `user_id, game_id, wins, losses, draws, total_games, updated_at`

// recordOutcomeQuery inserts the first tally of a (player, game) pair or adds
// to the existing row.
const recordOutcomeQuery = `
INSERT INTO game_stats (user_id, game_id, wins, losses, draws, total_games, updated_at)
VALUES (?, ?, ?, ?, ?, 1, ?)
ON CONFLICT (user_id, game_id) DO UPDATE SET
	wins = wins + excluded.wins,
	losses = losses + excluded.losses,
	draws = draws + excluded.draws,
	total_games = total_games + 1,
	updated_at = excluded.updated_at`

type sqliteStatsRepository struct {
	db *sqlx.DB
}

// NewSQLiteStatsRepository creates a statistics store over the game_stats table.
func NewSQLiteStatsRepository(db *sqlx.DB) stats.Store {
	return &sqliteStatsRepository{db: db}
}

// Record adds one finished game to the player's tallies.
func (r *sqliteStatsRepository) Record(ctx context.Context, outcome stats.Outcome) error {
	ctx, span := tracer.Start(ctx, "SQLiteStatsRepository.Record", trace.WithAttributes(
		attribute.String("player.id", outcome.PlayerID),
		attribute.String("game.id", outcome.GameID),
		attribute.String("game.result", string(outcome.Result)),
	))
	defer span.End()

	if err := outcome.Validate(); err != nil {
		span.RecordError(err)
		return err
	}

	wins, losses, draws := tallies(outcome.Result)
	_, err := r.db.ExecContext(ctx, recordOutcomeQuery,
		outcome.PlayerID, outcome.GameID, wins, losses, draws, finishedAt(outcome))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to record outcome: %w", err)
	}
	return nil
}

// Get returns the tallies of one player for one game.
func (r *sqliteStatsRepository) Get(ctx context.Context, playerID, gameID string) (stats.Stats, error) {
	ctx, span := tracer.Start(ctx, "SQLiteStatsRepository.Get")
	defer span.End()

	var s stats.Stats
	query := `SELECT ` + statsColumns + ` FROM game_stats WHERE user_id = ? AND game_id = ?`
	if err := r.db.GetContext(ctx, &s, query, playerID, gameID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return stats.Stats{}, fmt.Errorf("%w: %s/%s", stats.ErrNotFound, playerID, gameID)
		}
		span.RecordError(err)
		return stats.Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}
	return s, nil
}

// ListByPlayer returns the player's tallies for every game they played.
func (r *sqliteStatsRepository) ListByPlayer(ctx context.Context, playerID string) ([]stats.Stats, error) {
	ctx, span := tracer.Start(ctx, "SQLiteStatsRepository.ListByPlayer")
	defer span.End()

	var list []stats.Stats
	query := `SELECT ` + statsColumns + ` FROM game_stats WHERE user_id = ? ORDER BY game_id`
	if err := r.db.SelectContext(ctx, &list, query, playerID); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list stats: %w", err)
	}
	return list, nil
}

// Leaderboard returns the top players of a game by wins.
func (r *sqliteStatsRepository) Leaderboard(ctx context.Context, gameID string, limit int) ([]stats.Stats, error) {
	ctx, span := tracer.Start(ctx, "SQLiteStatsRepository.Leaderboard")
	defer span.End()

	var list []stats.Stats
	query := `SELECT ` + statsColumns + ` FROM game_stats WHERE game_id = ?
		ORDER BY wins DESC, total_games ASC, user_id ASC LIMIT ?`
	if err := r.db.SelectContext(ctx, &list, query, gameID, limit); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return list, nil
}

func tallies(result stats.Result) (wins, losses, draws int) {
	switch result {
	case stats.Win:
		return 1, 0, 0
	case stats.Loss:
		return 0, 1, 0
	default:
		return 0, 0, 1
	}
}

func finishedAt(o stats.Outcome) time.Time {
	if o.FinishedAt.IsZero() {
		return time.Now().UTC()
	}
	return o.FinishedAt.UTC()
}
