package session

import (
	"fmt"
	"net/netip"
)

type DestinationKind int

const (
	DestBroadcast DestinationKind = iota
	DestLoopback
	DestHost
)

// Destination is where the next datagram goes. Addr is set only for
// DestHost; the port is always the server's well-known port.
type Destination struct {
	Kind DestinationKind
	Addr netip.Addr
}

func Broadcast() Destination { return Destination{Kind: DestBroadcast} }

func Loopback() Destination { return Destination{Kind: DestLoopback} }

func Host(addr netip.Addr) Destination {
	return Destination{Kind: DestHost, Addr: addr.Unmap()}
}

func (d Destination) String() string {
	switch d.Kind {
	case DestBroadcast:
		return "broadcast"
	case DestLoopback:
		return "loopback"
	case DestHost:
		return d.Addr.String()
	default:
		return fmt.Sprintf("destination(%d)", int(d.Kind))
	}
}

// Label is the bounded metric label for d.
func (d Destination) Label() string {
	if d.Kind == DestHost {
		return "host"
	}
	return d.String()
}

// Sender delivers one datagram. Implementations must not block beyond a
// short write deadline.
type Sender interface {
	Send(msg []byte, dst Destination) error
}
