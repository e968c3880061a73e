package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sync"
	"time"

	"github.com/danmuck/slimvfd/internal/protocol"
	"github.com/danmuck/slimvfd/internal/protocol/session"
	"github.com/rs/zerolog/log"
	"github.com/thejerf/suture/v4"
)

const (
	defaultWriteTimeout = 2 * time.Second
	defaultInboxSize    = 64
	maxDatagram         = 2048
)

var ErrNoBroadcastTarget = errors.New("transport: no broadcast target")

// Config controls the client socket.
type Config struct {
	// BindAddr is the local address to bind, "" for any address and an
	// ephemeral port.
	BindAddr string
	// ServerPort is the destination port for every datagram.
	ServerPort int
	// BroadcastAddr overrides interface broadcast discovery when set.
	BroadcastAddr string
	WriteTimeout  time.Duration
	InboxSize     int
}

func (c Config) withDefaults() Config {
	if c.ServerPort <= 0 {
		c.ServerPort = protocol.ServerPort
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = defaultWriteTimeout
	}
	if c.InboxSize <= 0 {
		c.InboxSize = defaultInboxSize
	}
	return c
}

// Datagram is one received packet.
type Datagram struct {
	Data []byte
	From netip.Addr
}

// UDP is the client's single IPv4 socket. Send is safe for concurrent use.
// Serve runs the read loop as a supervised service.
type UDP struct {
	cfg      Config
	conn     *net.UDPConn
	override netip.Addr
	inbound  chan Datagram

	closeOnce sync.Once
	closeErr  error

	// broadcastTargets is replaced in tests.
	broadcastTargets func() []netip.Addr
}

// Listen binds the socket described by cfg.
func Listen(cfg Config) (*UDP, error) {
	cfg = cfg.withDefaults()

	var override netip.Addr
	if cfg.BroadcastAddr != "" {
		addr, err := netip.ParseAddr(cfg.BroadcastAddr)
		if err != nil || !addr.Unmap().Is4() {
			return nil, fmt.Errorf("transport: invalid broadcast address %q", cfg.BroadcastAddr)
		}
		override = addr.Unmap()
	}

	var laddr *net.UDPAddr
	if cfg.BindAddr != "" {
		resolved, err := net.ResolveUDPAddr("udp4", cfg.BindAddr)
		if err != nil {
			return nil, fmt.Errorf("transport: resolve bind %q: %w", cfg.BindAddr, err)
		}
		laddr = resolved
	}
	conn, err := net.ListenUDP("udp4", laddr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen: %w", err)
	}

	u := &UDP{
		cfg:      cfg,
		conn:     conn,
		override: override,
		inbound:  make(chan Datagram, cfg.InboxSize),
	}
	u.broadcastTargets = interfaceBroadcasts
	log.Debug().Str("local", u.LocalAddr().String()).Int("server_port", cfg.ServerPort).Msg("transport bound")
	return u, nil
}

// LocalAddr returns the bound address.
func (u *UDP) LocalAddr() netip.AddrPort {
	if ua, ok := u.conn.LocalAddr().(*net.UDPAddr); ok {
		ap := ua.AddrPort()
		return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
	}
	return netip.AddrPort{}
}

// Inbound delivers received datagrams. Packets arriving while it is full
// are dropped.
func (u *UDP) Inbound() <-chan Datagram { return u.inbound }

// Send writes msg to dst. A broadcast is sent to every target and fails
// only when no target accepts it.
func (u *UDP) Send(msg []byte, dst session.Destination) error {
	switch dst.Kind {
	case session.DestHost:
		return u.write(msg, dst.Addr)
	case session.DestLoopback:
		return u.write(msg, netip.AddrFrom4([4]byte{127, 0, 0, 1}))
	case session.DestBroadcast:
		return u.broadcast(msg)
	default:
		return fmt.Errorf("transport: unsupported destination %s", dst)
	}
}

func (u *UDP) broadcast(msg []byte) error {
	var targets []netip.Addr
	if u.override.IsValid() {
		targets = []netip.Addr{u.override}
	} else {
		targets = u.broadcastTargets()
	}
	if len(targets) == 0 {
		targets = []netip.Addr{netip.AddrFrom4([4]byte{255, 255, 255, 255})}
	}

	var errs []error
	delivered := 0
	for _, ip := range targets {
		if err := u.write(msg, ip); err != nil {
			errs = append(errs, err)
			continue
		}
		delivered++
	}
	if delivered > 0 {
		return nil
	}
	if len(errs) == 0 {
		return ErrNoBroadcastTarget
	}
	return errors.Join(errs...)
}

func (u *UDP) write(msg []byte, ip netip.Addr) error {
	dst := netip.AddrPortFrom(ip, uint16(u.cfg.ServerPort))
	if err := u.conn.SetWriteDeadline(time.Now().Add(u.cfg.WriteTimeout)); err != nil {
		return fmt.Errorf("transport: deadline: %w", err)
	}
	if _, err := u.conn.WriteToUDPAddrPort(msg, dst); err != nil {
		return fmt.Errorf("transport: write %s: %w", dst, err)
	}
	log.Trace().Int("bytes", len(msg)).Str("dst", dst.String()).Msg("transport sent")
	return nil
}

// Serve reads until ctx is done or the socket is closed.
func (u *UDP) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = u.Close() })
	defer stop()

	buf := make([]byte, maxDatagram)
	for {
		n, from, err := u.conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return suture.ErrDoNotRestart
			}
			log.Warn().Err(err).Msg("transport read failed")
			return fmt.Errorf("transport: read: %w", err)
		}
		if n == 0 {
			continue
		}

		d := Datagram{
			Data: append([]byte(nil), buf[:n]...),
			From: from.Addr().Unmap(),
		}
		select {
		case u.inbound <- d:
		default:
			log.Debug().Str("from", d.From.String()).Msg("transport inbox full, dropping datagram")
		}
	}
}

// Close releases the socket. It is safe to call more than once.
func (u *UDP) Close() error {
	u.closeOnce.Do(func() {
		u.closeErr = u.conn.Close()
	})
	return u.closeErr
}

func (u *UDP) String() string {
	return fmt.Sprintf("udp@%s", u.LocalAddr())
}

// interfaceBroadcasts returns the directed broadcast address of every IPv4
// global unicast interface address.
func interfaceBroadcasts() []netip.Addr {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		log.Debug().Err(err).Msg("transport interface lookup failed")
		return nil
	}
	var out []netip.Addr
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.To4() == nil || !ipnet.IP.IsGlobalUnicast() {
			continue
		}
		if b, ok := netip.AddrFromSlice(bcast(ipnet).IP.To4()); ok {
			out = append(out, b)
		}
	}
	return out
}

func bcast(ip *net.IPNet) *net.IPNet {
	bc := &net.IPNet{}
	bc.IP = make([]byte, len(ip.IP))
	copy(bc.IP, ip.IP)
	bc.Mask = ip.Mask

	offset := len(bc.IP) - len(bc.Mask)
	for i := range bc.IP {
		if i-offset >= 0 {
			bc.IP[i] = ip.IP[i] | ^ip.Mask[i-offset]
		}
	}
	return bc
}
