package room

import (
	"context"
	"ctchen222/AI-Arcade/pkg/proto"
	"encoding/json"
	"log/slog"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Connection is the part of *websocket.Conn the room needs.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

// send writes one message to the client.
func (r *Room) send(ctx context.Context, message *proto.ServerToClientMessage) {
	_, span := tracer.Start(ctx, "room.send", trace.WithAttributes(
		attribute.String("session.id", r.ID),
		attribute.String("message.type", message.Type),
	))
	defer span.End()

	data, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error marshalling message")
		return
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if err := r.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.WarnContext(ctx, "error writing message to client", "session.id", r.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error writing message to client")
	}
}

func (r *Room) ping() error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return r.conn.WriteMessage(websocket.PingMessage, nil)
}

// heartbeat pings the client and keeps the session alive while it answers.
func (r *Room) heartbeat() error {
	if err := r.ping(); err != nil {
		return err
	}
	r.controller.Touch()
	return nil
}

// ReadPump forwards client messages to the room loop until the connection
// fails, then cancels the room.
func (r *Room) ReadPump(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	for {
		_, msg, err := r.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "client connection error", "session.id", r.ID, "error", err)
			}
			return
		}
		select {
		case r.incoming <- msg:
		case <-ctx.Done():
			return
		}
	}
}
