package models

// LeaderboardEntry is one ranked player of a game.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
	Played   int    `json:"total_games"`
	WinRate  int    `json:"win_rate"`
}

// LeaderboardQuery is bound from the leaderboard query string.
type LeaderboardQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
