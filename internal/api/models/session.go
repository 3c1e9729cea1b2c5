package models

import (
	"ctchen222/AI-Arcade/internal/game"
	"ctchen222/AI-Arcade/internal/session"
)

// CreateSessionRequest starts a new game. An empty difficulty uses the
// server default.
type CreateSessionRequest struct {
	Game       string `json:"game" binding:"required"`
	Difficulty string `json:"difficulty" binding:"difficulty"`
}

// MoveRequest carries the human's move: [index] for flat games, [row, col]
// for grid games.
type MoveRequest struct {
	Position []int `json:"position" binding:"required,min=1,max=2"`
}

// ResetRequest restarts a session, optionally at another difficulty.
type ResetRequest struct {
	Difficulty string `json:"difficulty" binding:"difficulty"`
}

// SessionResponse is the client's view of a session.
type SessionResponse struct {
	ID         string          `json:"id"`
	Game       string          `json:"game"`
	Layout     game.Layout     `json:"layout"`
	Board      any             `json:"board"`
	HumanMark  game.PlayerMark `json:"human_mark"`
	Next       string          `json:"next,omitempty"`
	Status     game.Status     `json:"status"`
	Winner     string          `json:"winner,omitempty"`
	WinnerMark game.PlayerMark `json:"winner_mark,omitempty"`
	// WinningLine lists the positions of the completed line, if any.
	WinningLine [][]int       `json:"winning_line,omitempty"`
	Difficulty  string        `json:"difficulty"`
	Moves       int           `json:"moves"`
	Score       session.Score `json:"score"`
}

// MoveView is one move applied by a request.
type MoveView struct {
	Side     string `json:"side"`
	Position []int  `json:"position"`
	Outcome  string `json:"outcome"`
}

// MoveResponse answers a move request. Applied is false when the move was
// refused; the session is then unchanged.
type MoveResponse struct {
	Applied bool            `json:"applied"`
	Reason  string          `json:"reason,omitempty"`
	Moves   []MoveView      `json:"moves"`
	Session SessionResponse `json:"session"`
	Notice  string          `json:"notice,omitempty"`
}
