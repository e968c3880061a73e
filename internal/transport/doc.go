// Package transport carries client datagrams over a single IPv4 UDP socket.
package transport
