package response

import (
	"ctchen222/AI-Arcade/internal/api/service"
	"ctchen222/AI-Arcade/internal/bot"
	"ctchen222/AI-Arcade/internal/game"
	"ctchen222/AI-Arcade/internal/session"
	"ctchen222/AI-Arcade/internal/stats"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusFor maps a domain error onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrUnknownVariant),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, stats.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrVariantUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, bot.ErrUnknownDifficulty),
		errors.Is(err, game.ErrBadPosition),
		errors.Is(err, game.ErrOutOfBounds):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err with its mapped status. Internal errors are logged and
// their text is not sent to the client.
func Error(c *gin.Context, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		ErrorResponse(c, code, http.StatusText(code))
		return
	}
	ErrorResponse(c, code, err.Error())
}
