package service

import (
	"context"
	"ctchen222/AI-Arcade/internal/api/models"
	"ctchen222/AI-Arcade/internal/bot"
	"ctchen222/AI-Arcade/internal/game"
	"ctchen222/AI-Arcade/internal/session"
	"errors"
	"fmt"
	"log/slog"
)

var ErrForbidden = errors.New("session belongs to another player")

// reportNotice is added to a move response whose finished game could not be
// saved to the player's statistics.
const reportNotice = "the result could not be saved to your statistics"

// GameService defines the game session use cases of the HTTP API.
type GameService interface {
	Catalog() []game.Variant
	Create(ctx context.Context, playerID string, req *models.CreateSessionRequest) (*models.SessionResponse, error)
	Get(ctx context.Context, playerID, sessionID string) (*models.SessionResponse, error)
	Move(ctx context.Context, playerID, sessionID string, req *models.MoveRequest) (*models.MoveResponse, error)
	Reset(ctx context.Context, playerID, sessionID string, req *models.ResetRequest) (*models.SessionResponse, error)
	Delete(ctx context.Context, playerID, sessionID string) error
	// Open returns the controller of a session the player may use.
	Open(ctx context.Context, playerID, sessionID string) (*session.Controller, error)
}

type gameService struct {
	sessions          *session.Manager
	defaultDifficulty bot.Difficulty
}

// NewGameService creates a GameService over the session manager.
func NewGameService(sessions *session.Manager, defaultDifficulty bot.Difficulty) GameService {
	if defaultDifficulty == "" {
		defaultDifficulty = bot.Medium
	}
	return &gameService{sessions: sessions, defaultDifficulty: defaultDifficulty}
}

// Catalog lists every game, including placeholders that cannot be played.
func (s *gameService) Catalog() []game.Variant {
	return game.Catalog()
}

// Create opens a session for the player and starts the game.
func (s *gameService) Create(ctx context.Context, playerID string, req *models.CreateSessionRequest) (*models.SessionResponse, error) {
	variant, err := game.LookupVariant(req.Game)
	if err != nil {
		return nil, err
	}
	difficulty, err := s.difficulty(req.Difficulty, s.defaultDifficulty)
	if err != nil {
		return nil, err
	}

	c := s.sessions.Create(session.Config{
		Variant:    variant,
		Difficulty: difficulty,
		PlayerID:   playerID,
	})
	c.Start(ctx, difficulty)
	slog.InfoContext(ctx, "session created", "session.id", c.ID(), "game.id", variant.ID, "player.id", playerID)

	return SessionView(c, c.Snapshot()), nil
}

func (s *gameService) Get(ctx context.Context, playerID, sessionID string) (*models.SessionResponse, error) {
	c, err := s.Open(ctx, playerID, sessionID)
	if err != nil {
		return nil, err
	}
	return SessionView(c, c.Snapshot()), nil
}

// Move plays the human's move and, if the game continues, the AI's reply.
// A refused move is not an error: the response says it was not applied.
func (s *gameService) Move(ctx context.Context, playerID, sessionID string, req *models.MoveRequest) (*models.MoveResponse, error) {
	c, err := s.Open(ctx, playerID, sessionID)
	if err != nil {
		return nil, err
	}

	cell, err := c.Variant().CellFromPosition(req.Position)
	if err != nil {
		return refused(c, err.Error()), nil
	}

	updates := c.Play(ctx, cell)
	if len(updates) == 0 {
		return refused(c, "move not accepted"), nil
	}

	resp := &models.MoveResponse{
		Applied: true,
		Moves:   make([]models.MoveView, 0, len(updates)),
		Session: *SessionView(c, updates[len(updates)-1].State),
	}
	for _, u := range updates {
		resp.Moves = append(resp.Moves, models.MoveView{
			Side:     string(u.Side),
			Position: c.Variant().Position(u.Cell),
			Outcome:  string(u.Kind),
		})
		if u.ReportErr != nil {
			resp.Notice = reportNotice
		}
	}
	return resp, nil
}

func refused(c *session.Controller, reason string) *models.MoveResponse {
	return &models.MoveResponse{
		Applied: false,
		Reason:  reason,
		Moves:   []models.MoveView{},
		Session: *SessionView(c, c.Snapshot()),
	}
}

// Reset clears the board and hands the first move back to the human.
func (s *gameService) Reset(ctx context.Context, playerID, sessionID string, req *models.ResetRequest) (*models.SessionResponse, error) {
	c, err := s.Open(ctx, playerID, sessionID)
	if err != nil {
		return nil, err
	}
	difficulty, err := s.difficulty(req.Difficulty, "")
	if err != nil {
		return nil, err
	}
	if !c.Reset(ctx, difficulty) {
		c.Start(ctx, difficulty)
	}
	return SessionView(c, c.Snapshot()), nil
}

func (s *gameService) Delete(ctx context.Context, playerID, sessionID string) error {
	if _, err := s.Open(ctx, playerID, sessionID); err != nil {
		return err
	}
	s.sessions.Delete(sessionID)
	slog.InfoContext(ctx, "session deleted", "session.id", sessionID)
	return nil
}

// Open loads a session, refusing sessions that belong to another player.
// Guest sessions are open to whoever holds their id.
func (s *gameService) Open(_ context.Context, playerID, sessionID string) (*session.Controller, error) {
	c, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if owner := c.PlayerID(); owner != "" && owner != playerID {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, sessionID)
	}
	return c, nil
}

func (s *gameService) difficulty(raw string, fallback bot.Difficulty) (bot.Difficulty, error) {
	if raw == "" {
		return fallback, nil
	}
	return bot.ParseDifficulty(raw)
}

// SessionView renders a session state for clients.
func SessionView(c *session.Controller, state session.State) *models.SessionResponse {
	v := c.Variant()
	var line [][]int
	for _, cell := range state.WinningLine {
		line = append(line, v.Position(cell))
	}
	return &models.SessionResponse{
		ID:          c.ID(),
		Game:        v.ID,
		Layout:      v.Layout,
		Board:       v.Render(state.Board),
		HumanMark:   c.HumanMark(),
		Next:        string(state.SideToMove),
		Status:      state.Status,
		Winner:      string(state.Winner),
		WinnerMark:  state.WinnerMark,
		WinningLine: line,
		Difficulty:  state.Difficulty.String(),
		Moves:       state.Moves,
		Score:       state.Score,
	}
}
