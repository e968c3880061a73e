package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/danmuck/slimvfd/internal/display"
	"github.com/danmuck/slimvfd/internal/font"
	"github.com/danmuck/slimvfd/internal/observability"
	"github.com/danmuck/slimvfd/internal/protocol"
	"github.com/danmuck/slimvfd/internal/protocol/session"
	"github.com/danmuck/slimvfd/internal/transport"
	"github.com/rs/zerolog/log"
	"github.com/thejerf/suture/v4"
)

const (
	DefaultSearchBanner = "Looking for server..."
	defaultKeyBuffer    = 32
)

var ErrKeyQueueFull = errors.New("client: key queue full")

// Config controls one receiver client.
type Config struct {
	Session      session.Config
	Transport    transport.Config
	SearchBanner string
	KeyBuffer    int
}

func (c Config) withDefaults() Config {
	c.Session = c.Session.WithDefaults()
	if c.SearchBanner == "" {
		c.SearchBanner = DefaultSearchBanner
	}
	if c.KeyBuffer <= 0 {
		c.KeyBuffer = defaultKeyBuffer
	}
	return c
}

// Conn is the datagram socket the client drives. *transport.UDP implements
// it.
type Conn interface {
	session.Sender
	suture.Service
	Inbound() <-chan transport.Datagram
	Close() error
}

type Option func(*Client)

// WithClock replaces time.Now for the session machine.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithTicks replaces the heartbeat ticker.
func WithTicks(ticks <-chan time.Time) Option {
	return func(c *Client) { c.ticks = ticks }
}

// WithObserver subscribes o to display changes.
func WithObserver(o display.Observer) Option {
	return func(c *Client) { c.display.Subscribe(o) }
}

// Client runs the receiver. A single loop goroutine owns the session machine
// and is the only writer of the display.
type Client struct {
	cfg      Config
	conn     Conn
	display  *display.Display
	machine  *session.Machine
	keys     chan uint32
	now      func() time.Time
	ticks    <-chan time.Time
	services []suture.Service

	mu      sync.RWMutex
	session session.Snapshot
}

// Dial binds a UDP transport and builds a client on it.
func Dial(cfg Config, tbl font.Table, opts ...Option) (*Client, error) {
	conn, err := transport.Listen(cfg.Transport)
	if err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}
	return New(cfg, conn, tbl, opts...), nil
}

func New(cfg Config, conn Conn, tbl font.Table, opts ...Option) *Client {
	cfg = cfg.withDefaults()
	c := &Client{
		cfg:     cfg,
		conn:    conn,
		display: display.New(tbl),
		keys:    make(chan uint32, cfg.KeyBuffer),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.machine = session.New(cfg.Session, conn,
		session.WithClock(c.now),
		session.WithSearchHook(c.showSearching),
	)
	c.session = c.machine.Snapshot()
	return c
}

func (c *Client) Display() *display.Display { return c.display }

// Session returns the session state as of the loop's last step.
func (c *Client) Session() session.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Ready reports whether a server is pinned and alive.
func (c *Client) Ready() bool {
	return c.Session().State == session.StateConnected.String()
}

// SubmitKey queues a key press for the loop. It never blocks.
func (c *Client) SubmitKey(code uint32) error {
	select {
	case c.keys <- code:
		return nil
	default:
		log.Warn().Uint32("code", code).Msg("client key queue full, dropping key")
		return ErrKeyQueueFull
	}
}

// Supervise adds a service to run alongside the client. It must be called
// before Run.
func (c *Client) Supervise(svc suture.Service) {
	c.services = append(c.services, svc)
}

// Run supervises the transport reader, the client loop and any extra
// services until ctx is done.
func (c *Client) Run(ctx context.Context) error {
	sup := suture.New("slimvfd", suture.Spec{
		EventHook: func(e suture.Event) {
			log.Warn().Str("event", e.String()).Msg("supervisor event")
		},
	})
	sup.Add(c.conn)
	sup.Add(c)
	for _, svc := range c.services {
		sup.Add(svc)
	}
	defer func() { _ = c.conn.Close() }()

	err := sup.Serve(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Serve is the client loop.
func (c *Client) Serve(ctx context.Context) error {
	ticks := c.ticks
	if ticks == nil {
		ticker := time.NewTicker(c.cfg.Session.HeartbeatInterval)
		defer ticker.Stop()
		ticks = ticker.C
	}
	inbound := c.conn.Inbound()

	c.machine.Start()
	c.publish()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d := <-inbound:
			c.handle(d)
			c.drain(inbound)
		case <-ticks:
			c.machine.Tick()
		case code := <-c.keys:
			_ = c.machine.SubmitKey(code)
		}
		c.publish()
	}
}

func (c *Client) String() string { return "client loop" }

func (c *Client) drain(inbound <-chan transport.Datagram) {
	for {
		select {
		case d := <-inbound:
			c.handle(d)
		default:
			return
		}
	}
}

func (c *Client) handle(d transport.Datagram) {
	in, err := protocol.ParseInbound(d.Data)
	if err != nil {
		kind := "unknown_type"
		if errors.Is(err, protocol.ErrEmptyMessage) {
			kind = "empty"
		}
		observability.RecordAnomaly(kind)
		log.Warn().Err(err).Str("from", d.From.String()).Int("bytes", len(d.Data)).Msg("client dropped datagram")
		return
	}
	observability.RecordDatagramReceived(in.Type.String())
	c.machine.Receive(in.Type, d.From)

	if in.Type != protocol.TypeDisplayUpdate {
		return
	}
	if len(in.Data) < protocol.HeaderLen {
		observability.RecordAnomaly("short_update")
		log.Debug().Int("bytes", len(in.Data)).Msg("client display update shorter than header")
		return
	}
	res := c.display.Apply(in.Data)
	observability.RecordDisplayTokens(res.Commands, res.Tokens-res.Commands)
	if res.Unknown {
		observability.RecordAnomaly("unknown_prefix")
		log.Debug().
			Err(fmt.Errorf("%w: 0x%02x", protocol.ErrUnknownPrefix, res.Prefix)).
			Int("tokens", res.Tokens).
			Msg("client display update stopped at unknown prefix")
	}
	log.Trace().
		Int("tokens", res.Tokens).
		Int("written", res.Written).
		Int("dropped", res.Dropped).
		Int("defined", res.Defined).
		Msg("client display update applied")
}

func (c *Client) showSearching() {
	c.display.SetLines(c.cfg.SearchBanner, "")
}

func (c *Client) publish() {
	snap := c.machine.Snapshot()
	c.mu.Lock()
	c.session = snap
	c.mu.Unlock()
}
