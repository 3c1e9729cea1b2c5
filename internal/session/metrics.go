package session

import (
	"context"
	"ctchen222/AI-Arcade/internal/bot"
	"ctchen222/AI-Arcade/internal/stats"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var meter = otel.Meter("session")

type metrics struct {
	gamesStarted  metric.Int64Counter
	moves         metric.Int64Counter
	gamesFinished metric.Int64Counter
	activeGames   metric.Int64UpDownCounter
}

var instruments = sync.OnceValue(newMetrics)

func newMetrics() *metrics {
	m := &metrics{}
	var err error

	if m.gamesStarted, err = meter.Int64Counter("arcade.games.started",
		metric.WithDescription("Games started or reset")); err != nil {
		slog.Warn("failed to create games.started counter", "error", err)
		m.gamesStarted = noop.Int64Counter{}
	}
	if m.moves, err = meter.Int64Counter("arcade.moves",
		metric.WithDescription("Moves applied, by side")); err != nil {
		slog.Warn("failed to create moves counter", "error", err)
		m.moves = noop.Int64Counter{}
	}
	if m.gamesFinished, err = meter.Int64Counter("arcade.games.finished",
		metric.WithDescription("Games that reached a terminal state, by result")); err != nil {
		slog.Warn("failed to create games.finished counter", "error", err)
		m.gamesFinished = noop.Int64Counter{}
	}
	if m.activeGames, err = meter.Int64UpDownCounter("arcade.sessions.active",
		metric.WithDescription("Sessions currently held in memory")); err != nil {
		slog.Warn("failed to create sessions.active counter", "error", err)
		m.activeGames = noop.Int64UpDownCounter{}
	}
	return m
}

func (m *metrics) started(ctx context.Context, gameID string, difficulty bot.Difficulty) {
	m.gamesStarted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("game.id", gameID),
		attribute.String("game.difficulty", difficulty.String()),
	))
}

func (m *metrics) moved(ctx context.Context, gameID string, side Side) {
	m.moves.Add(ctx, 1, metric.WithAttributes(
		attribute.String("game.id", gameID),
		attribute.String("move.side", string(side)),
	))
}

func (m *metrics) finished(ctx context.Context, gameID string, difficulty bot.Difficulty, result stats.Result) {
	m.gamesFinished.Add(ctx, 1, metric.WithAttributes(
		attribute.String("game.id", gameID),
		attribute.String("game.difficulty", difficulty.String()),
		attribute.String("game.result", string(result)),
	))
}

func (m *metrics) sessions(ctx context.Context, delta int64) {
	m.activeGames.Add(ctx, delta)
}
