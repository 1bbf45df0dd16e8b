// Package server implements the HTTP surface using the Echo framework.
//
// Routes: public feedback ingestion and aggregates, the SSE notification
// stream, admin auth (login/logout), and the admin query/mutation surface.
// Handlers split by concern: handlers_api.go, handlers_auth.go,
// handlers_admin.go, handlers_stream.go, handlers_health.go.
package server
