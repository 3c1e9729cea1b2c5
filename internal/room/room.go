package room

import (
	"context"
	"ctchen222/AI-Arcade/internal/session"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
)

const (
	heartbeatInterval = 10 * time.Second
	incomingBuffer    = 10
)

var tracer = otel.Tracer("room")

// Room connects one websocket client to one game session. The human's moves
// arrive over the socket; the AI's replies are sent after a short, purely
// cosmetic think delay.
type Room struct {
	ID         string
	controller *session.Controller
	conn       Connection
	thinkDelay time.Duration

	writeMu  sync.Mutex
	incoming chan []byte
	Done     chan struct{}
}

// NewRoom creates a room for controller speaking over conn.
func NewRoom(controller *session.Controller, conn Connection, thinkDelay time.Duration) *Room {
	return &Room{
		ID:         controller.ID(),
		controller: controller,
		conn:       conn,
		thinkDelay: max(thinkDelay, 0),
		incoming:   make(chan []byte, incomingBuffer),
		Done:       make(chan struct{}),
	}
}

// Run serves the connection until the client goes away or ctx is cancelled.
// It closes the connection and Done before returning.
func (r *Room) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		r.conn.Close()
		close(r.Done)
	}()

	go r.ReadPump(ctx, cancel)

	pingTicker := time.NewTicker(heartbeatInterval)
	defer pingTicker.Stop()

	r.send(ctx, r.stateMessage())

	// aiDue fires when the AI should reply; nil while it is not the AI's turn.
	// A client reattaching mid-turn picks the pending reply back up.
	var aiDue <-chan time.Time
	if r.controller.Snapshot().SideToMove == session.SideAI {
		aiDue = time.After(r.thinkDelay)
	}
	defer func() {
		// The human's move stands even if the client left, so its reply must too.
		if aiDue != nil {
			r.controller.AIMove(context.WithoutCancel(ctx))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "room closing", "session.id", r.ID)
			return

		case raw := <-r.incoming:
			if r.HandleMessage(ctx, raw) {
				aiDue = time.After(r.thinkDelay)
			} else if r.controller.Snapshot().SideToMove != session.SideAI {
				aiDue = nil
			}

		case <-aiDue:
			aiDue = nil
			r.playAI(ctx)

		case <-pingTicker.C:
			if err := r.heartbeat(); err != nil {
				slog.WarnContext(ctx, "failed to ping client, assuming disconnect", "session.id", r.ID, "error", err)
				return
			}
		}
	}
}
