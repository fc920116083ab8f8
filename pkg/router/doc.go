// Package router hosts the WebSocket transport and per-connection session
// state machine that sits in front of pkg/realm (spec §4.5). A Router owns
// a set of named realms, created lazily on first Hello, and serves one
// WebSocket endpoint plus an operational /metrics and /healthz endpoint.
package router
