// Package app provides the application service layer.
//
// Orchestrates use cases: feedback ingestion (normalize, score, persist),
// aggregate computation, admin listing/deletion, export/import. Sits
// between HTTP handlers and the store; depends on domain interfaces only.
package app
