package controller

import (
	"ctchen222/AI-Arcade/internal/api/middleware"
	"ctchen222/AI-Arcade/internal/api/models"
	"ctchen222/AI-Arcade/internal/api/response"
	"ctchen222/AI-Arcade/internal/api/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatsController serves player statistics.
type StatsController struct {
	statsService service.StatsService
}

// NewStatsController creates a new StatsController.
func NewStatsController(statsService service.StatsService) *StatsController {
	return &StatsController{
		statsService: statsService,
	}
}

// Me returns the signed-in player's statistics. Guests have none.
func (sc *StatsController) Me(c *gin.Context) {
	playerID := middleware.PlayerID(c)
	if playerID == "" {
		response.ErrorResponse(c, http.StatusUnauthorized, "sign in to see your statistics")
		return
	}

	summary, err := sc.statsService.PlayerSummary(c.Request.Context(), playerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessResponse(c, summary)
}

// Leaderboard ranks the players of one game.
func (sc *StatsController) Leaderboard(c *gin.Context) {
	var q models.LeaderboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := sc.statsService.Leaderboard(c.Request.Context(), c.Param("game"), q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessResponseList(c, entries)
}
