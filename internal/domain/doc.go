// Package domain holds the core model types and capability interfaces.
//
// Handlers, the application service, the stream notifier, and every store
// backend depend on this package rather than on each other.
package domain
