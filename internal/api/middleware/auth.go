package middleware

import (
	"ctchen222/AI-Arcade/internal/api/response"
	"ctchen222/AI-Arcade/internal/api/service"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const playerIDKey = "player_id"

// Auth resolves the caller's player id from a bearer token, or the "token"
// query parameter for WebSocket upgrades. A request without a token is a
// guest; a request with a bad token is refused.
func Auth(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" || !auth.Enabled() {
			c.Next()
			return
		}

		playerID, err := auth.PlayerID(token)
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}
		c.Set(playerIDKey, playerID)
		c.Next()
	}
}

// PlayerID returns the authenticated player, or "" for guests.
func PlayerID(c *gin.Context) string {
	return c.GetString(playerIDKey)
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return c.Query("token")
}
