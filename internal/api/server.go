package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Server wraps the echo instance serving the queue API.
type Server struct {
	echo   *echo.Echo
	port   int
	logger zerolog.Logger
}

// NewServer builds the router with all queue routes registered.
func NewServer(port int, h *Handlers, rl RateLimitConfig, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(RateLimitMiddleware(rl))

	api := e.Group("/api/v1")

	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)

	api.POST("/queue", h.Enqueue)
	api.DELETE("/queue/:clientID", h.RemoveFromGeneralQueue)

	api.POST("/staff/:id/start", h.StartService)
	api.POST("/staff/:id/finish", h.FinishService)
	api.POST("/staff/:id/pause", h.Pause)
	api.POST("/staff/:id/resume", h.Resume)
	api.DELETE("/staff/:id/queue/:clientID", h.RemoveFromQueue)

	api.PUT("/hours/:day", h.UpdateHours)

	api.GET("/board", h.Board)
	api.GET("/status", h.ShopStatus)
	api.GET("/export", h.Export)

	return &Server{echo: e, port: port, logger: logger}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.echo.Shutdown(ctxShutdown)
	}()

	addr := fmt.Sprintf(":%d", s.port)
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		s.logger.Error().Err(err).Msg("api server error")
	}
}
