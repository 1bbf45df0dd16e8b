package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/kriedko/tastepulse/internal/app"
	"github.com/kriedko/tastepulse/internal/auth"
	"github.com/kriedko/tastepulse/internal/config"
	"github.com/kriedko/tastepulse/internal/domain"
	apperrors "github.com/kriedko/tastepulse/internal/errors"
	"github.com/kriedko/tastepulse/internal/store"
	"github.com/kriedko/tastepulse/internal/stream"
)

const (
	testAdminUser   = "admin"
	testAdminPass   = "hunter2"
	testAdminToken  = "header-secret"
	testSessionKey  = "test-session-secret"
	testSessionTTL  = time.Hour
	testMaxLifetime = 5 * time.Minute
)

// newTestServer wires a server around the real service and an in-memory
// store so tests exercise the full request path.
func newTestServer(t *testing.T) (*Server, *app.Service) {
	t.Helper()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))
	memStore := store.NewMemoryStore()
	appSvc := app.NewService(memStore, clock)
	authSvc := auth.NewService(testSessionKey, testAdminUser, testAdminPass, testAdminToken, testSessionTTL, clock)

	cfg := &config.Config{
		AppEnv:             "test",
		StoreBackend:       config.BackendMemory,
		FeedbackRateLimit:  1000,
		StreamPollInterval: time.Second,
		StreamPingInterval: 25 * time.Second,
		StreamMaxLifetime:  testMaxLifetime,
	}

	logger := testLogger()
	notifier := stream.NewNotifier(appSvc, clock, cfg.StreamPollInterval, cfg.StreamPingInterval, cfg.StreamMaxLifetime, logger)

	e := echo.New()
	e.Use(apperrors.Middleware())

	srv := &Server{
		echo:      e,
		config:    cfg,
		app:       appSvc,
		auth:      authSvc,
		notifier:  notifier,
		clock:     clock,
		startTime: clock.Now(),
	}
	srv.registerRoutes()

	return srv, appSvc
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doRequest(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func getRequest(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func adminRequest(method, target, body string) *http.Request {
	req := jsonRequest(method, target, body)
	req.Header.Set(adminTokenHeader, testAdminToken)
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func seedSubmission(t *testing.T, srv *Server, body string) domain.Submission {
	t.Helper()
	rec := doRequest(srv, jsonRequest(http.MethodPost, "/api/feedback", body))
	require.Equal(t, 201, rec.Code)

	var sub domain.Submission
	decodeBody(t, rec, &sub)
	return sub
}
