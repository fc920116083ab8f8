// Package client implements the peer side of a WAMP session (spec §4.6):
// connect, subscribe/publish, register/call, and a clean shutdown
// handshake, all driven by a single background read loop.
package client
