package server

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kriedko/tastepulse/internal/auth"
	"github.com/kriedko/tastepulse/internal/config"
	"github.com/kriedko/tastepulse/internal/domain"
	apperrors "github.com/kriedko/tastepulse/internal/errors"
	"github.com/kriedko/tastepulse/internal/stream"
)

type Server struct {
	echo      *echo.Echo
	config    *config.Config
	app       domain.FeedbackService
	auth      *auth.Service
	notifier  *stream.Notifier
	clock     clockwork.Clock
	startTime time.Time
}

func NewServer(cfg *config.Config, app domain.FeedbackService, authSvc *auth.Service, notifier *stream.Notifier, clock clockwork.Clock) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		app:       app,
		auth:      authSvc,
		notifier:  notifier,
		clock:     clock,
		startTime: clock.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
