package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The notifier sends the connect burst before blocking on its timers, so a
// pre-cancelled request context yields the initial events and a clean close.
func TestHandleStream_InitialBurst(t *testing.T) {
	srv, _ := newTestServer(t)
	seedSubmission(t, srv, `{"overall": 4}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := getRequest("/api/sentiment-stream").WithContext(ctx)

	rec := doRequest(srv, req)
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "event: aggregate")
	assert.Contains(t, body, "event: tick")
	assert.Contains(t, body, "event: ping")
	assert.Contains(t, body, `"count":1`)
}
