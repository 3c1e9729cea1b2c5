// Package stats defines the contract between finished games and the
// statistics store that keeps per-player tallies.
package stats

//go:generate mockgen -source=stats.go -destination=mocks/stats_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Result is a finished game seen from the human player's side.
type Result string

const (
	Win  Result = "win"
	Loss Result = "loss"
	Draw Result = "draw"
)

var (
	ErrNotFound       = errors.New("stats not found")
	ErrInvalidOutcome = errors.New("invalid outcome")
)

// Valid reports whether r is one of the three tallies.
func (r Result) Valid() bool {
	return r == Win || r == Loss || r == Draw
}

// Outcome is the single event reported when a game ends.
type Outcome struct {
	PlayerID   string    `json:"player_id"`
	GameID     string    `json:"game_id"`
	Difficulty string    `json:"difficulty"`
	Result     Result    `json:"result"`
	FinishedAt time.Time `json:"finished_at"`
}

func (o Outcome) Validate() error {
	switch {
	case o.PlayerID == "":
		return fmt.Errorf("%w: missing player id", ErrInvalidOutcome)
	case o.GameID == "":
		return fmt.Errorf("%w: missing game id", ErrInvalidOutcome)
	case !o.Result.Valid():
		return fmt.Errorf("%w: result %q", ErrInvalidOutcome, o.Result)
	}
	return nil
}

// Stats holds the tallies of one player for one game.
type Stats struct {
	PlayerID  string    `json:"player_id" db:"user_id"`
	GameID    string    `json:"game_id" db:"game_id"`
	Wins      int       `json:"wins" db:"wins"`
	Losses    int       `json:"losses" db:"losses"`
	Draws     int       `json:"draws" db:"draws"`
	Played    int       `json:"total_games" db:"total_games"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// WinRate returns the share of won games as a rounded percentage.
func (s Stats) WinRate() int {
	return winRate(s.Wins, s.Played)
}

// Summary aggregates a player's tallies over every game they played.
type Summary struct {
	PlayerID    string  `json:"player_id"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	Draws       int     `json:"draws"`
	WinRate     int     `json:"win_rate"`
	Games       []Stats `json:"games"`
}

// Summarize folds per-game stats into a profile summary.
func Summarize(playerID string, games []Stats) Summary {
	s := Summary{PlayerID: playerID, Games: games}
	if s.Games == nil {
		s.Games = []Stats{}
	}
	for _, g := range games {
		s.GamesPlayed += g.Played
		s.Wins += g.Wins
		s.Losses += g.Losses
		s.Draws += g.Draws
	}
	s.WinRate = winRate(s.Wins, s.GamesPlayed)
	return s
}

func winRate(wins, played int) int {
	if played == 0 {
		return 0
	}
	return int(math.Round(float64(wins) * 100 / float64(played)))
}

// Recorder persists finished games.
type Recorder interface {
	Record(ctx context.Context, outcome Outcome) error
}

// Reader serves the tallies back to profile and leaderboard views.
type Reader interface {
	Get(ctx context.Context, playerID, gameID string) (Stats, error)
	ListByPlayer(ctx context.Context, playerID string) ([]Stats, error)
	Leaderboard(ctx context.Context, gameID string, limit int) ([]Stats, error)
}

// Store is a full statistics backend.
type Store interface {
	Recorder
	Reader
}

// Noop discards outcomes. It backs the "none" stats backend.
type Noop struct{}

func (Noop) Record(context.Context, Outcome) error { return nil }

func (Noop) Get(_ context.Context, playerID, gameID string) (Stats, error) {
	return Stats{}, fmt.Errorf("%w: %s/%s", ErrNotFound, playerID, gameID)
}

func (Noop) ListByPlayer(context.Context, string) ([]Stats, error) { return nil, nil }

func (Noop) Leaderboard(context.Context, string, int) ([]Stats, error) { return nil, nil }
