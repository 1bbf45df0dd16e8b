// Package auth issues and verifies admin credentials: an HMAC-signed
// expiring session token carried in a cookie, and a static shared-secret
// header as the alternate admin path.
package auth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	apperrors "github.com/kriedko/tastepulse/internal/errors"
)

// Service signs and verifies admin session tokens.
type Service struct {
	secret     []byte
	adminUser  string
	adminPass  string
	adminToken string
	maxAge     time.Duration
	clock      clockwork.Clock
}

// NewService creates the auth service. adminToken may be empty, which
// disables the header credential path entirely.
func NewService(secret, adminUser, adminPass, adminToken string, maxAge time.Duration, clock clockwork.Clock) *Service {
	return &Service{
		secret:     []byte(secret),
		adminUser:  adminUser,
		adminPass:  adminPass,
		adminToken: adminToken,
		maxAge:     maxAge,
		clock:      clock,
	}
}

// SessionMaxAge reports how long issued sessions stay valid.
func (s *Service) SessionMaxAge() time.Duration {
	return s.maxAge
}

// VerifyCredentials checks the login form credentials in constant time.
func (s *Service) VerifyCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPass)) == 1
	return userOK && passOK
}

// VerifyHeaderToken checks the static shared-secret credential in constant
// time. Always false when no header token is configured.
func (s *Service) VerifyHeaderToken(token string) bool {
	if s.adminToken == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) == 1
}

// IssueSession signs an HS256 token carrying the subject and expiry.
func (s *Service) IssueSession(subject string) (string, error) {
	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.maxAge)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// VerifySession validates the signature and expiry of a session token and
// returns its subject. The error is always the generic unauthorized error;
// why a token failed is nobody's business but the log's.
func (s *Service) VerifySession(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return "", apperrors.UnauthorizedError("unauthorized")
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return "", apperrors.UnauthorizedError("unauthorized")
	}
	return claims.Subject, nil
}
