package service

import (
	"context"
	"ctchen222/AI-Arcade/internal/api/models"
	"ctchen222/AI-Arcade/internal/game"
	"ctchen222/AI-Arcade/internal/stats"
)

const defaultLeaderboardLimit = 10

// StatsService defines the read side of player statistics.
type StatsService interface {
	PlayerSummary(ctx context.Context, playerID string) (*stats.Summary, error)
	Leaderboard(ctx context.Context, gameID string, limit int) ([]models.LeaderboardEntry, error)
}

type statsService struct {
	reader stats.Reader
}

// NewStatsService creates a new StatsService.
func NewStatsService(reader stats.Reader) StatsService {
	return &statsService{reader: reader}
}

// PlayerSummary returns the player's tallies per game plus the totals.
func (s *statsService) PlayerSummary(ctx context.Context, playerID string) (*stats.Summary, error) {
	list, err := s.reader.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	summary := stats.Summarize(playerID, list)
	return &summary, nil
}

// Leaderboard ranks the players of a playable game by wins.
func (s *statsService) Leaderboard(ctx context.Context, gameID string, limit int) ([]models.LeaderboardEntry, error) {
	if _, err := game.LookupVariant(gameID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	list, err := s.reader.Leaderboard(ctx, gameID, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(list))
	for i, st := range list {
		entries = append(entries, models.LeaderboardEntry{
			Rank:     i + 1,
			PlayerID: st.PlayerID,
			Wins:     st.Wins,
			Losses:   st.Losses,
			Draws:    st.Draws,
			Played:   st.Played,
			WinRate:  st.WinRate(),
		})
	}
	return entries, nil
}
