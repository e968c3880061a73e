// Package session owns the client side of the server session.
//
// Ownership boundary:
// - searching/connected state
// - discovery, hello and key-input emission
// - server liveness tracking and destination fallback
//
// The machine is driven by a single goroutine: heartbeat ticks, inbound
// message arrivals and key presses must be delivered sequentially.
package session
