package room

import (
	"context"
	"ctchen222/AI-Arcade/internal/bot"
	"ctchen222/AI-Arcade/internal/session"
	"ctchen222/AI-Arcade/internal/validator"
	"ctchen222/AI-Arcade/pkg/proto"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HandleMessage handles a message from the client. It acts as a dispatcher
// and reports whether the AI is now due to move.
func (r *Room) HandleMessage(ctx context.Context, rawMessage []byte) bool {
	ctx, span := tracer.Start(ctx, "room.HandleMessage", trace.WithAttributes(
		attribute.String("session.id", r.ID),
	))
	defer span.End()

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		slog.WarnContext(ctx, "error unmarshalling message", "session.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		r.send(ctx, &proto.ServerToClientMessage{Type: proto.TypeError, Reason: "malformed message"})
		return false
	}

	if err := validator.GetValidator().Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from client", "session.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		r.send(ctx, &proto.ServerToClientMessage{Type: proto.TypeError, Reason: "invalid message"})
		return false
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	switch message.Type {
	case proto.TypeMove:
		return r.handleMove(ctx, &message)
	case proto.TypeReset:
		r.handleReset(ctx, &message)
	}
	return false
}

// handleMove applies the human's move and reports whether the AI replies next.
func (r *Room) handleMove(ctx context.Context, message *proto.ClientToServerMessage) bool {
	ctx, span := tracer.Start(ctx, "room.handleMove", trace.WithAttributes(
		attribute.String("session.id", r.ID),
		attribute.IntSlice("move.position", message.Position),
	))
	defer span.End()

	cell, err := r.controller.Variant().CellFromPosition(message.Position)
	if err != nil {
		span.SetAttributes(attribute.Bool("move.valid", false))
		r.send(ctx, &proto.ServerToClientMessage{Type: proto.TypeRejected, Reason: err.Error()})
		return false
	}

	update, ok := r.controller.HumanMove(ctx, cell)
	span.SetAttributes(attribute.Bool("move.valid", ok))
	if !ok {
		r.send(ctx, &proto.ServerToClientMessage{Type: proto.TypeRejected, Reason: "move not accepted"})
		return false
	}

	r.send(ctx, r.moveMessage(update))
	if update.Kind != session.KindInProgress {
		return false
	}
	r.send(ctx, &proto.ServerToClientMessage{Type: proto.TypeThinking, SessionID: r.ID})
	return true
}

// handleReset starts a new game in the same session.
func (r *Room) handleReset(ctx context.Context, message *proto.ClientToServerMessage) {
	ctx, span := tracer.Start(ctx, "room.handleReset", trace.WithAttributes(
		attribute.String("session.id", r.ID),
	))
	defer span.End()

	var difficulty bot.Difficulty
	if message.Difficulty != "" {
		// already checked by the difficulty validation tag
		difficulty, _ = bot.ParseDifficulty(message.Difficulty)
	}

	if !r.controller.Reset(ctx, difficulty) {
		r.controller.Start(ctx, difficulty)
	}
	r.send(ctx, r.stateMessage())
}

// playAI lets the AI reply once the think delay has passed.
func (r *Room) playAI(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "room.playAI", trace.WithAttributes(
		attribute.String("session.id", r.ID),
	))
	defer span.End()

	update, ok := r.controller.AIMove(ctx)
	if !ok {
		return
	}
	r.send(ctx, r.moveMessage(update))
}
