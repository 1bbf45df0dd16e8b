package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/kriedko/tastepulse/internal/errors"
)

const (
	sessionCookieName = "tastepulse_session"
	adminTokenHeader  = "X-Admin-Token"
	contextKeyAdmin   = "adminSubject"
)

// requireAdmin gates the admin surface. Either credential is accepted: the
// signed session cookie issued by login, or the static shared-secret header.
// Failures are a uniform 401 with no hint of which check failed.
func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.auth.VerifyHeaderToken(c.Request().Header.Get(adminTokenHeader)) {
			c.Set(contextKeyAdmin, "token")
			return next(c)
		}

		cookie, err := c.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			return apperrors.UnauthorizedError("unauthorized")
		}
		subject, err := s.auth.VerifySession(cookie.Value)
		if err != nil {
			return apperrors.UnauthorizedError("unauthorized")
		}

		c.Set(contextKeyAdmin, subject)
		return next(c)
	}
}

// sessionCookie builds the session cookie with the given value and max age.
// A negative maxAge deletes the cookie.
func (s *Server) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.config.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	}
}
