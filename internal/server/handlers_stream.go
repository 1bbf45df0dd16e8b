package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/kriedko/tastepulse/internal/errors"
)

// sseSink writes server-sent events to one response. Serve drives it from a
// single goroutine, so no locking is needed.
type sseSink struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (s *sseSink) Send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return fmt.Errorf("failed to write %s event: %w", event, err)
	}
	s.flusher.Flush()
	return nil
}

// handleStream serves the live aggregate feed. The connection closes after
// the configured max lifetime; EventSource clients reconnect on their own.
func (s *Server) handleStream(c echo.Context) error {
	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return apperrors.InternalError("streaming unsupported by connection", nil)
	}

	h := c.Response().Header()
	h.Set(echo.HeaderContentType, "text/event-stream")
	h.Set(echo.HeaderCacheControl, "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(200)
	flusher.Flush()

	sink := &sseSink{w: c.Response().Writer, flusher: flusher}
	// Client disconnects and write failures surface as sink errors; the
	// stream is already committed, so there is nothing useful to return.
	_ = s.notifier.Serve(c.Request().Context(), sink)
	return nil
}
