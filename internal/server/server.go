package server

import (
	"ctchen222/AI-Arcade/internal/api/controller"
	"ctchen222/AI-Arcade/internal/api/middleware"
	"ctchen222/AI-Arcade/internal/api/models"
	"ctchen222/AI-Arcade/internal/api/response"
	"ctchen222/AI-Arcade/internal/api/service"
	"ctchen222/AI-Arcade/internal/room"
	"ctchen222/AI-Arcade/internal/validator"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

// Server routes the HTTP API and the websocket play endpoint.
type Server struct {
	engine     *gin.Engine
	upgrader   websocket.Upgrader
	games      service.GameService
	auth       service.AuthService
	thinkDelay time.Duration
	gameCtl    *controller.GameController
	statsCtl   *controller.StatsController
}

// NewServer wires the routes. thinkDelay is the pause before the AI's reply
// on websocket sessions.
func NewServer(games service.GameService, statsService service.StatsService, auth service.AuthService, thinkDelay time.Duration) *Server {
	if v, ok := binding.Validator.Engine().(*playground.Validate); ok {
		if err := validator.Register(v); err != nil {
			panic(err)
		}
	}

	s := &Server{
		engine: gin.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		games:      games,
		auth:       auth,
		thinkDelay: thinkDelay,
		gameCtl:    controller.NewGameController(games),
		statsCtl:   controller.NewStatsController(statsService),
	}
	s.RegisterHandlers()
	return s
}

// Engine returns the router for use as an http.Handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterHandlers() {
	s.engine.Use(gin.Recovery(), middleware.Auth(s.auth))

	s.engine.GET("/healthz", func(c *gin.Context) {
		response.SuccessResponse(c, gin.H{"status": "ok"})
	})
	s.engine.GET("/ws", s.handleWebSocket)

	api := s.engine.Group("/api")
	api.GET("/games", s.gameCtl.Catalog)

	sessions := api.Group("/sessions")
	sessions.POST("", s.gameCtl.Create)
	sessions.GET("/:id", s.gameCtl.Get)
	sessions.POST("/:id/moves", s.gameCtl.Move)
	sessions.POST("/:id/reset", s.gameCtl.Reset)
	sessions.DELETE("/:id", s.gameCtl.Delete)

	st := api.Group("/stats")
	st.GET("/me", s.statsCtl.Me)
	st.GET("/:game/leaderboard", s.statsCtl.Leaderboard)
}

// handleWebSocket attaches a client to an existing session, or to a new one
// when no session id is given, and serves it until the client leaves.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("http.method", c.Request.Method),
	))
	defer span.End()

	playerID := middleware.PlayerID(c)
	sessionID := c.Query("session")
	if sessionID == "" {
		created, err := s.games.Create(ctx, playerID, &models.CreateSessionRequest{
			Game:       c.Query("game"),
			Difficulty: c.Query("difficulty"),
		})
		if err != nil {
			span.RecordError(err)
			response.Error(c, err)
			return
		}
		sessionID = created.ID
	}

	ctl, err := s.games.Open(ctx, playerID, sessionID)
	if err != nil {
		span.RecordError(err)
		response.Error(c, err)
		return
	}
	span.SetAttributes(attribute.String("session.id", sessionID), attribute.String("player.id", playerID))

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.ErrorContext(ctx, "failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	room.NewRoom(ctl, conn, s.thinkDelay).Run(ctx)
}
