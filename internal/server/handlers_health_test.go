package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleLiveness(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, getRequest("/health/live"))
	require.Equal(t, 200, rec.Code)

	var body map[string]any
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestHandleReadiness(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, getRequest("/health/ready"))
	require.Equal(t, 200, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "ready", body["status"])
}

func TestHandleVersion(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, getRequest("/version"))
	require.Equal(t, 200, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "dev", body["version"])
	assert.NotEmpty(t, body["go_version"])
}
