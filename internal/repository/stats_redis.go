package repository

import (
	"context"
	"ctchen222/AI-Arcade/internal/events"
	"ctchen222/AI-Arcade/internal/stats"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("repository.stats")

// Hash fields of a stats:{player}:{game} key.
const (
	fieldWins       = "wins"
	fieldLosses     = "losses"
	fieldDraws      = "draws"
	fieldTotalGames = "total_games"
	fieldUpdatedAt  = "updated_at"
)

func statsKey(playerID, gameID string) string {
	return fmt.Sprintf("stats:%s:%s", playerID, gameID)
}

func playerGamesKey(playerID string) string {
	return fmt.Sprintf("player:%s:games", playerID)
}

func leaderboardKey(gameID string) string {
	return fmt.Sprintf("leaderboard:%s", gameID)
}

type redisStatsRepository struct {
	rdb *redis.Client
}

// NewRedisStatsRepository creates a Redis-based statistics store.
func NewRedisStatsRepository(rdb *redis.Client) stats.Store {
	return &redisStatsRepository{rdb: rdb}
}

// Record increments the tallies in one transaction, then announces the
// finished game on the events channel.
func (r *redisStatsRepository) Record(ctx context.Context, outcome stats.Outcome) error {
	ctx, span := tracer.Start(ctx, "RedisStatsRepository.Record", trace.WithAttributes(
		attribute.String("player.id", outcome.PlayerID),
		attribute.String("game.id", outcome.GameID),
		attribute.String("game.result", string(outcome.Result)),
	))
	defer span.End()

	if err := outcome.Validate(); err != nil {
		span.RecordError(err)
		return err
	}

	field := fieldDraws
	var winDelta float64
	switch outcome.Result {
	case stats.Win:
		field = fieldWins
		winDelta = 1
	case stats.Loss:
		field = fieldLosses
	}
	at := finishedAt(outcome)

	key := statsKey(outcome.PlayerID, outcome.GameID)
	pipe := r.rdb.TxPipeline()
	pipe.HIncrBy(ctx, key, field, 1)
	pipe.HIncrBy(ctx, key, fieldTotalGames, 1)
	pipe.HSet(ctx, key, fieldUpdatedAt, at.Format(time.RFC3339Nano))
	pipe.SAdd(ctx, playerGamesKey(outcome.PlayerID), outcome.GameID)
	// Zero increments still register the player on the board.
	pipe.ZIncrBy(ctx, leaderboardKey(outcome.GameID), winDelta, outcome.PlayerID)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to record outcome")
		return fmt.Errorf("failed to record outcome in redis: %w", err)
	}

	r.publishFinished(ctx, outcome, at)
	return nil
}

func (r *redisStatsRepository) publishFinished(ctx context.Context, outcome stats.Outcome, at time.Time) {
	event, err := events.New(events.TypeGameFinished, events.GameFinishedPayload{
		PlayerID:   outcome.PlayerID,
		GameID:     outcome.GameID,
		Difficulty: outcome.Difficulty,
		Result:     string(outcome.Result),
		FinishedAt: at,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode game_finished event", "error", err)
		return
	}
	if err := r.rdb.Publish(ctx, events.EventsChannel, event).Err(); err != nil {
		slog.WarnContext(ctx, "failed to publish game_finished event", "player.id", outcome.PlayerID, "error", err)
		trace.SpanFromContext(ctx).RecordError(err)
	}
}

// Get returns the tallies of one player for one game.
func (r *redisStatsRepository) Get(ctx context.Context, playerID, gameID string) (stats.Stats, error) {
	ctx, span := tracer.Start(ctx, "RedisStatsRepository.Get")
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, statsKey(playerID, gameID)).Result()
	if err != nil {
		span.RecordError(err)
		return stats.Stats{}, fmt.Errorf("failed to get stats from redis: %w", err)
	}
	if len(data) == 0 {
		return stats.Stats{}, fmt.Errorf("%w: %s/%s", stats.ErrNotFound, playerID, gameID)
	}
	return decodeStats(playerID, gameID, data)
}

// ListByPlayer returns the player's tallies for every game they played.
func (r *redisStatsRepository) ListByPlayer(ctx context.Context, playerID string) ([]stats.Stats, error) {
	ctx, span := tracer.Start(ctx, "RedisStatsRepository.ListByPlayer")
	defer span.End()

	games, err := r.rdb.SMembers(ctx, playerGamesKey(playerID)).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list games of player: %w", err)
	}
	slices.Sort(games)

	list := make([]stats.Stats, 0, len(games))
	for _, gameID := range games {
		s, err := r.Get(ctx, playerID, gameID)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}

// Leaderboard returns the top players of a game by wins.
func (r *redisStatsRepository) Leaderboard(ctx context.Context, gameID string, limit int) ([]stats.Stats, error) {
	ctx, span := tracer.Start(ctx, "RedisStatsRepository.Leaderboard")
	defer span.End()

	if limit <= 0 {
		return []stats.Stats{}, nil
	}
	players, err := r.rdb.ZRevRange(ctx, leaderboardKey(gameID), 0, int64(limit-1)).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	list := make([]stats.Stats, 0, len(players))
	for _, playerID := range players {
		s, err := r.Get(ctx, playerID, gameID)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}

func decodeStats(playerID, gameID string, data map[string]string) (stats.Stats, error) {
	s := stats.Stats{PlayerID: playerID, GameID: gameID}
	for field, dst := range map[string]*int{
		fieldWins:       &s.Wins,
		fieldLosses:     &s.Losses,
		fieldDraws:      &s.Draws,
		fieldTotalGames: &s.Played,
	} {
		raw, ok := data[field]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return stats.Stats{}, fmt.Errorf("failed to decode %s: %w", field, err)
		}
		*dst = n
	}
	if raw := data[fieldUpdatedAt]; raw != "" {
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return stats.Stats{}, fmt.Errorf("failed to decode %s: %w", fieldUpdatedAt, err)
		}
		s.UpdatedAt = at
	}
	return s, nil
}
