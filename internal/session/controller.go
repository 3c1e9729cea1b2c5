package session

import (
	"context"
	"ctchen222/AI-Arcade/internal/bot"
	"ctchen222/AI-Arcade/internal/game"
	"ctchen222/AI-Arcade/internal/stats"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("session")

const defaultReportTimeout = 2 * time.Second

// Side identifies who is to move or who won.
type Side string

const (
	SideNone  Side = ""
	SideHuman Side = "human"
	SideAI    Side = "ai"
)

// UpdateKind is the outcome signal sent after every accepted move.
type UpdateKind string

const (
	KindInProgress UpdateKind = "still_in_progress"
	KindWon        UpdateKind = "won"
	KindDraw       UpdateKind = "draw"
)

// MoveSelector picks the AI's cell. *bot.Selector satisfies it.
type MoveSelector interface {
	SelectMove(board game.Board, difficulty bot.Difficulty, botMark, opponentMark game.PlayerMark) int
}

// Config is fixed for the lifetime of a session, apart from the difficulty
// which a reset may change.
type Config struct {
	Variant    game.Variant
	Difficulty bot.Difficulty
	// PlayerID is empty for guests, whose games are not reported.
	PlayerID  string
	HumanMark game.PlayerMark
}

// Score tallies the finished games of a session. It survives resets.
type Score struct {
	Human int `json:"human"`
	AI    int `json:"ai"`
	Draws int `json:"draws"`
}

// State is a copy of the controller's game state.
type State struct {
	Board      game.Board
	SideToMove Side
	Status     game.Status
	Winner     Side
	WinnerMark game.PlayerMark
	// WinningLine holds the cells of the completed line once a side has won.
	WinningLine []int
	Difficulty  bot.Difficulty
	Moves       int
	Score       Score
}

// Update describes one accepted move and the state it produced.
type Update struct {
	Kind  UpdateKind
	Side  Side
	Cell  int
	State State
	// ReportErr is set when the finished game could not be recorded. The
	// game result stands regardless.
	ReportErr error
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecorder sets where finished games are reported.
func WithRecorder(r stats.Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithReportTimeout bounds how long a report may take.
func WithReportTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.reportTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller runs one human-vs-AI game. All methods are safe for concurrent
// use; moves are applied one at a time.
type Controller struct {
	id            string
	cfg           Config
	aiMark        game.PlayerMark
	selector      MoveSelector
	recorder      stats.Recorder
	reportTimeout time.Duration
	logger        *slog.Logger
	now           func() time.Time
	metrics       *metrics

	mu         sync.Mutex
	state      State
	lastActive time.Time
}

// NewController creates a controller in the setup state.
func NewController(id string, cfg Config, selector MoveSelector, opts ...Option) *Controller {
	if cfg.HumanMark != game.PlayerO {
		cfg.HumanMark = game.PlayerX
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = bot.Hard
	}

	c := &Controller{
		id:            id,
		cfg:           cfg,
		aiMark:        cfg.HumanMark.Opponent(),
		selector:      selector,
		recorder:      stats.Noop{},
		reportTimeout: defaultReportTimeout,
		logger:        slog.Default(),
		now:           time.Now,
		metrics:       instruments(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("session.id", id, "game.id", cfg.Variant.ID)
	c.state = State{Status: game.StatusSetup, Difficulty: cfg.Difficulty}
	c.lastActive = c.now()
	return c
}

func (c *Controller) ID() string { return c.id }

func (c *Controller) Variant() game.Variant { return c.cfg.Variant }

func (c *Controller) PlayerID() string { return c.cfg.PlayerID }

// HumanMark returns the mark the human plays.
func (c *Controller) HumanMark() game.PlayerMark { return c.cfg.HumanMark }

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastActive returns when the session last changed.
func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Touch marks the session as in use without changing the game, so an idle
// sweep keeps sessions whose client is still connected.
func (c *Controller) Touch() {
	c.mu.Lock()
	c.lastActive = c.now()
	c.mu.Unlock()
}

// Start leaves the setup state with an empty board and the human to move.
// It returns false if the game has already started.
func (c *Controller) Start(ctx context.Context, difficulty bot.Difficulty) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Status != game.StatusSetup {
		return false
	}
	if difficulty == "" {
		difficulty = c.cfg.Difficulty
	}
	c.begin(difficulty)
	c.metrics.started(ctx, c.cfg.Variant.ID, difficulty)
	c.logger.InfoContext(ctx, "game started", "difficulty", difficulty)
	return true
}

// Reset clears the board of a started game and hands the first move back to
// the human. The difficulty is kept unless a new one is given. Resetting a
// game that is still in setup does nothing.
func (c *Controller) Reset(ctx context.Context, difficulty bot.Difficulty) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Status == game.StatusSetup {
		return false
	}
	if difficulty == "" {
		difficulty = c.state.Difficulty
	}
	c.begin(difficulty)
	c.metrics.started(ctx, c.cfg.Variant.ID, difficulty)
	c.logger.InfoContext(ctx, "game reset", "difficulty", difficulty)
	return true
}

func (c *Controller) begin(difficulty bot.Difficulty) {
	c.state = State{
		SideToMove: SideHuman,
		Status:     game.StatusInProgress,
		Difficulty: difficulty,
		Score:      c.state.Score,
	}
	c.lastActive = c.now()
}

// HumanMove plays the human's mark on cell. Moves out of turn, on an
// occupied or out-of-range cell, or after the game ended are ignored and
// reported as not applied.
func (c *Controller) HumanMove(ctx context.Context, cell int) (Update, bool) {
	ctx, span := tracer.Start(ctx, "session.HumanMove", trace.WithAttributes(
		attribute.String("session.id", c.id),
		attribute.Int("move.cell", cell),
	))
	defer span.End()

	c.mu.Lock()
	if c.state.Status != game.StatusInProgress || c.state.SideToMove != SideHuman || !c.state.Board.IsEmpty(cell) {
		c.mu.Unlock()
		span.SetAttributes(attribute.Bool("move.valid", false))
		c.logger.DebugContext(ctx, "human move ignored", "cell", cell)
		return Update{}, false
	}
	update, outcome := c.apply(ctx, SideHuman, cell)
	c.mu.Unlock()

	span.SetAttributes(attribute.Bool("move.valid", true))
	c.finish(ctx, &update, outcome)
	return update, true
}

// AIMove lets the selector play when it is the AI's turn.
func (c *Controller) AIMove(ctx context.Context) (Update, bool) {
	ctx, span := tracer.Start(ctx, "session.AIMove", trace.WithAttributes(
		attribute.String("session.id", c.id),
	))
	defer span.End()

	c.mu.Lock()
	if c.state.Status != game.StatusInProgress || c.state.SideToMove != SideAI {
		c.mu.Unlock()
		return Update{}, false
	}
	cell := c.selector.SelectMove(c.state.Board, c.state.Difficulty, c.aiMark, c.cfg.HumanMark)
	if !c.state.Board.IsEmpty(cell) {
		c.mu.Unlock()
		c.logger.ErrorContext(ctx, "selector returned an unusable cell", "cell", cell)
		span.SetStatus(codes.Error, "selector returned an unusable cell")
		return Update{}, false
	}
	update, outcome := c.apply(ctx, SideAI, cell)
	c.mu.Unlock()

	span.SetAttributes(attribute.Int("move.cell", cell))
	c.finish(ctx, &update, outcome)
	return update, true
}

// Play applies a human move and, if the game goes on, the AI's reply. It
// returns the accepted updates in order, or nil when the human move was
// rejected.
func (c *Controller) Play(ctx context.Context, cell int) []Update {
	human, ok := c.HumanMove(ctx, cell)
	if !ok {
		return nil
	}
	updates := []Update{human}
	if human.Kind != KindInProgress {
		return updates
	}
	if reply, ok := c.AIMove(ctx); ok {
		updates = append(updates, reply)
	}
	return updates
}

// apply places the mover's mark and advances the state machine. It must be
// called with c.mu held and returns the outcome to report, if any.
func (c *Controller) apply(ctx context.Context, side Side, cell int) (Update, *stats.Outcome) {
	mark := c.cfg.HumanMark
	if side == SideAI {
		mark = c.aiMark
	}

	c.state.Board = c.state.Board.With(cell, mark)
	c.state.Moves++
	c.lastActive = c.now()
	c.metrics.moved(ctx, c.cfg.Variant.ID, side)

	result := game.Evaluate(c.state.Board)
	update := Update{Side: side, Cell: cell}

	var outcome *stats.Outcome
	switch {
	case result.Winner != game.None:
		c.state.Status = game.StatusWon
		c.state.Winner = side
		c.state.WinnerMark = result.Winner
		if line, ok := game.WinningLine(c.state.Board, result.Winner); ok {
			c.state.WinningLine = line[:]
		}
		c.state.SideToMove = SideNone
		if side == SideHuman {
			c.state.Score.Human++
		} else {
			c.state.Score.AI++
		}
		update.Kind = KindWon
		outcome = c.outcome(side)
	case result.IsDraw:
		c.state.Status = game.StatusDraw
		c.state.SideToMove = SideNone
		c.state.Score.Draws++
		update.Kind = KindDraw
		outcome = c.outcome(SideNone)
	default:
		update.Kind = KindInProgress
		if side == SideHuman {
			c.state.SideToMove = SideAI
		} else {
			c.state.SideToMove = SideHuman
		}
	}
	update.State = c.state

	if outcome != nil {
		c.metrics.finished(ctx, c.cfg.Variant.ID, c.state.Difficulty, outcome.Result)
		c.logger.InfoContext(ctx, "game finished", "status", c.state.Status, "winner", c.state.Winner, "moves", c.state.Moves)
	}
	return update, outcome
}

func (c *Controller) outcome(winner Side) *stats.Outcome {
	result := stats.Draw
	switch winner {
	case SideHuman:
		result = stats.Win
	case SideAI:
		result = stats.Loss
	}
	return &stats.Outcome{
		PlayerID:   c.cfg.PlayerID,
		GameID:     c.cfg.Variant.ID,
		Difficulty: c.state.Difficulty.String(),
		Result:     result,
		FinishedAt: c.now(),
	}
}

// finish reports a finished game outside the state lock. Failures are logged
// and attached to the update; the state is never touched again.
func (c *Controller) finish(ctx context.Context, update *Update, outcome *stats.Outcome) {
	if outcome == nil || outcome.PlayerID == "" {
		return
	}

	reportCtx, cancel := context.WithTimeout(ctx, c.reportTimeout)
	defer cancel()

	if err := c.recorder.Record(reportCtx, *outcome); err != nil {
		c.logger.WarnContext(ctx, "failed to report game outcome", "player.id", outcome.PlayerID, "result", outcome.Result, "error", err)
		trace.SpanFromContext(ctx).RecordError(err)
		update.ReportErr = err
	}
}
