package controller

import (
	"ctchen222/AI-Arcade/internal/api/middleware"
	"ctchen222/AI-Arcade/internal/api/models"
	"ctchen222/AI-Arcade/internal/api/response"
	"ctchen222/AI-Arcade/internal/api/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GameController handles game session HTTP requests.
type GameController struct {
	gameService service.GameService
}

// NewGameController creates a new GameController.
func NewGameController(gameService service.GameService) *GameController {
	return &GameController{
		gameService: gameService,
	}
}

// Catalog lists the games on offer.
func (gc *GameController) Catalog(c *gin.Context) {
	response.SuccessResponseList(c, gc.gameService.Catalog())
}

// Create handles the new session endpoint.
func (gc *GameController) Create(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := gc.gameService.Create(c.Request.Context(), middleware.PlayerID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.CreatedResponse(c, sess)
}

func (gc *GameController) Get(c *gin.Context) {
	sess, err := gc.gameService.Get(c.Request.Context(), middleware.PlayerID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessResponse(c, sess)
}

// Move plays the human's move followed by the AI's reply.
func (gc *GameController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := gc.gameService.Move(c.Request.Context(), middleware.PlayerID(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessResponse(c, resp)
}

func (gc *GameController) Reset(c *gin.Context) {
	var req models.ResetRequest
	// An empty body keeps the current difficulty.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	sess, err := gc.gameService.Reset(c.Request.Context(), middleware.PlayerID(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessResponse(c, sess)
}

func (gc *GameController) Delete(c *gin.Context) {
	if err := gc.gameService.Delete(c.Request.Context(), middleware.PlayerID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessResponse(c, gin.H{"message": "session closed"})
}
