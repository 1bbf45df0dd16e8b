package server

import (
	"fmt"

	"github.com/labstack/echo/v4"

	apperrors "github.com/kriedko/tastepulse/internal/errors"
	"github.com/kriedko/tastepulse/internal/metrics"
)

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("malformed login payload")
	}

	if !s.auth.VerifyCredentials(req.Username, req.Password) {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return apperrors.UnauthorizedError("invalid credentials")
	}

	token, err := s.auth.IssueSession(req.Username)
	if err != nil {
		return apperrors.InternalError("failed to issue session", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	c.SetCookie(s.sessionCookie(token, int(s.auth.SessionMaxAge().Seconds())))

	if err := c.JSON(200, map[string]string{"status": "ok"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

// handleLogout clears the session cookie. It succeeds whether or not a
// session existed; logging out twice is not an error.
func (s *Server) handleLogout(c echo.Context) error {
	c.SetCookie(s.sessionCookie("", -1))
	if err := c.JSON(200, map[string]string{"status": "ok"}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
