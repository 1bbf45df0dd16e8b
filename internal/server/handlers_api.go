package server

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kriedko/tastepulse/internal/domain"
	apperrors "github.com/kriedko/tastepulse/internal/errors"
	"github.com/kriedko/tastepulse/internal/metrics"
)

func (s *Server) handleSubmitFeedback(c echo.Context) error {
	var raw domain.RawSubmission
	if err := c.Bind(&raw); err != nil {
		metrics.SubmissionsRejectedTotal.Inc()
		return apperrors.ValidationError("malformed feedback payload")
	}

	sub, err := s.app.SubmitFeedback(c.Request().Context(), raw)
	if err != nil {
		return err
	}

	if err := c.JSON(201, sub); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleAggregates(c echo.Context) error {
	aggregate, err := s.app.Aggregates(c.Request().Context())
	if err != nil {
		return err
	}

	if err := c.JSON(200, aggregate); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// handleStatus reports a lightweight service summary so the public form can
// show whether feedback is being collected without hitting the admin surface.
func (s *Server) handleStatus(c echo.Context) error {
	ctx := c.Request().Context()

	version, err := s.app.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	aggregate, err := s.app.Aggregates(ctx)
	if err != nil {
		return err
	}

	uptime := s.clock.Since(s.startTime).Round(time.Second).Seconds()
	if err := c.JSON(200, map[string]any{
		"status":  "ok",
		"backend": s.config.StoreBackend,
		"count":   aggregate.Count,
		"version": version,
		"uptime":  uptime,
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
