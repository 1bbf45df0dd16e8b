package server

import (
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/kriedko/tastepulse/internal/domain"
	apperrors "github.com/kriedko/tastepulse/internal/errors"
)

func (s *Server) handleListSubmissions(c echo.Context) error {
	subs, err := s.app.ListSubmissions(c.Request().Context())
	if err != nil {
		return err
	}

	if err := c.JSON(200, map[string]any{
		"count":     len(subs),
		"feedbacks": subs,
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// handleDeleteSubmissions deletes one submission (?id=...) or every
// submission (?all=true). Exactly one of the two must be given.
func (s *Server) handleDeleteSubmissions(c echo.Context) error {
	id := c.QueryParam("id")
	all := c.QueryParam("all")

	switch {
	case id != "" && all != "":
		return apperrors.ValidationError("id and all are mutually exclusive")

	case all == "true" || all == "1":
		if err := s.app.DeleteAll(c.Request().Context()); err != nil {
			return err
		}
		slog.Info("Admin wiped all submissions", "admin", c.Get(contextKeyAdmin))

	case id != "":
		removed, err := s.app.DeleteSubmission(c.Request().Context(), id)
		if err != nil {
			return err
		}
		if !removed {
			return apperrors.NotFoundError("submission not found").WithField("id", id)
		}

	default:
		return apperrors.ValidationError("either id or all=true is required")
	}

	if err := c.JSON(200, map[string]string{"status": "ok"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// handleImportSubmissions restores a previously exported file. Records are
// taken as-is; normalization and sentiment scoring happened when they were
// first ingested.
func (s *Server) handleImportSubmissions(c echo.Context) error {
	var file domain.ExportFile
	if err := c.Bind(&file); err != nil {
		return apperrors.ValidationError("malformed import payload")
	}
	if file.Version != "" && file.Version != domain.ExportFormatVersion {
		return apperrors.ValidationError("unsupported export format version").
			WithField("version", file.Version)
	}
	if file.Feedbacks == nil {
		return apperrors.ValidationError("feedbacks array is required")
	}

	imported, err := s.app.Import(c.Request().Context(), file.Feedbacks)
	if err != nil {
		return err
	}

	if err := c.JSON(200, map[string]any{
		"status":   "ok",
		"imported": imported,
	}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleExport(c echo.Context) error {
	file, err := s.app.Export(c.Request().Context())
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="feedback-export.json"`)
	if err := c.JSON(200, file); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
