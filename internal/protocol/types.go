package protocol

import "fmt"

const (
	// ServerPort is the well-known UDP port of the music server.
	ServerPort = 3483

	// MessageSize is the size of every client datagram.
	MessageSize = 18
	// HeaderLen is the display-update header skipped before the first token.
	HeaderLen = 18

	PrefixCommand byte = 0x02
	PrefixData    byte = 0x03

	keyTimestampOffset = 2
	keyCodeOffset      = 8
)

// MessageType is the single-byte tag at offset 0 of every datagram.
type MessageType byte

const (
	TypeDiscovery         MessageType = 'd'
	TypeHello             MessageType = 'h'
	TypeInput             MessageType = 'i'
	TypeDiscoveryResponse MessageType = 'D'
	TypeDisplayUpdate     MessageType = 'l'
)

func (t MessageType) String() string {
	switch t {
	case TypeDiscovery:
		return "discovery"
	case TypeHello:
		return "hello"
	case TypeInput:
		return "input"
	case TypeDiscoveryResponse:
		return "discovery_response"
	case TypeDisplayUpdate:
		return "display_update"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(t))
	}
}

// Inbound reports whether t is a server-to-client type this client handles.
func (t MessageType) Inbound() bool {
	return t == TypeDiscoveryResponse || t == TypeDisplayUpdate
}

// KeyInput is the decoded body of an input datagram.
type KeyInput struct {
	Timestamp uint32
	Code      uint32
}
