package server

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

func (s *Server) registerRoutes() {
	// Observability endpoints (no auth required)
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Public API
	s.echo.POST("/api/feedback", s.handleSubmitFeedback, s.feedbackRateLimiter())
	s.echo.GET("/api/aggregates", s.handleAggregates)
	s.echo.GET("/api/status", s.handleStatus)
	s.echo.GET("/api/sentiment-stream", s.handleStream)

	// Auth
	s.echo.POST("/api/login", s.handleLogin)
	s.echo.POST("/api/logout", s.handleLogout)
	s.echo.GET("/api/logout", s.handleLogout)

	// Admin surface (session cookie or shared-secret header)
	s.echo.GET("/api/submissions", s.handleListSubmissions, s.requireAdmin)
	s.echo.DELETE("/api/submissions", s.handleDeleteSubmissions, s.requireAdmin)
	s.echo.POST("/api/submissions", s.handleImportSubmissions, s.requireAdmin)
	s.echo.GET("/api/export", s.handleExport, s.requireAdmin)

	// Static assets (feedback form and admin dashboard)
	if s.config.PublicDir != "" {
		s.echo.Static("/", s.config.PublicDir)
	}
}

// feedbackRateLimiter throttles ingestion per client IP.
func (s *Server) feedbackRateLimiter() echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(s.config.FeedbackRateLimit),
		Burst:     int(s.config.FeedbackRateLimit) * 2,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiter(store)
}
