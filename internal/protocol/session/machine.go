package session

import (
	"net/netip"
	"time"

	"github.com/danmuck/slimvfd/internal/observability"
	"github.com/danmuck/slimvfd/internal/protocol"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type State int

const (
	StateSearching State = iota
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only view of the machine.
type Snapshot struct {
	State       string    `json:"state"`
	Destination string    `json:"destination"`
	LastSeen    time.Time `json:"last_seen"`
	FoundServer bool      `json:"found_server"`
	SessionID   string    `json:"session_id,omitempty"`
}

type Option func(*Machine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// WithSearchHook runs fn before every discovery emission.
func WithSearchHook(fn func()) Option {
	return func(m *Machine) {
		m.onSearch = fn
	}
}

// Machine is the client session state machine. It is not safe for
// concurrent use.
type Machine struct {
	cfg      Config
	sender   Sender
	now      func() time.Time
	onSearch func()
	started  time.Time

	state     State
	dst       Destination
	lastSeen  time.Time
	found     bool
	sessionID string
}

func New(cfg Config, sender Sender, opts ...Option) *Machine {
	m := &Machine{
		cfg:    cfg.WithDefaults(),
		sender: sender,
		now:    time.Now,
		state:  StateSearching,
		dst:    Broadcast(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.started = m.now()
	return m
}

// Start emits the initial discovery.
func (m *Machine) Start() {
	log.Info().Dur("heartbeat", m.cfg.HeartbeatInterval).Msg("session searching for server")
	m.discover()
}

// Tick handles one heartbeat.
func (m *Machine) Tick() {
	if m.state != StateConnected {
		m.discover()
		return
	}
	if silent := m.now().Sub(m.lastSeen); silent >= m.cfg.LivenessWindow {
		log.Warn().
			Str("server", m.dst.String()).
			Dur("silent", silent).
			Msg("session detected stale server")
		m.search()
		return
	}
	m.hello()
}

// Receive records an inbound message of type t from addr. It reports whether
// the type is one the session tracks.
func (m *Machine) Receive(t protocol.MessageType, from netip.Addr) bool {
	if !t.Inbound() {
		return false
	}
	m.lastSeen = m.now()
	if t != protocol.TypeDiscoveryResponse {
		return true
	}

	m.found = true
	m.dst = Host(from)
	if m.state != StateConnected {
		m.sessionID = uuid.NewString()
		m.transition(StateConnected)
		log.Info().
			Str("server", m.dst.String()).
			Str("session_id", m.sessionID).
			Msg("session connected")
	}
	m.hello()
	return true
}

// SubmitKey sends a key press to the current destination. A failed send
// while connected drops back to discovery.
func (m *Machine) SubmitKey(code uint32) error {
	ts := uint32(m.now().Sub(m.started).Milliseconds())
	err := m.send(protocol.TypeInput, protocol.EncodeKeyInput(ts, code), m.dst)
	if err != nil && m.state == StateConnected {
		m.search()
	}
	return err
}

func (m *Machine) State() State { return m.state }

func (m *Machine) Destination() Destination { return m.dst }

func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		State:       m.state.String(),
		Destination: m.dst.String(),
		LastSeen:    m.lastSeen,
		FoundServer: m.found,
		SessionID:   m.sessionID,
	}
}

// search abandons the pinned server and emits discovery.
func (m *Machine) search() {
	m.sessionID = ""
	m.dst = Broadcast()
	m.transition(StateSearching)
	m.discover()
}

func (m *Machine) discover() {
	if m.onSearch != nil {
		m.onSearch()
	}
	m.dst = Broadcast()
	msg := protocol.EncodeDiscovery()
	if err := m.send(protocol.TypeDiscovery, msg, m.dst); err == nil {
		return
	}
	m.dst = Loopback()
	_ = m.send(protocol.TypeDiscovery, msg, m.dst)
}

func (m *Machine) hello() {
	if err := m.send(protocol.TypeHello, protocol.EncodeHello(), m.dst); err != nil && m.state == StateConnected {
		m.search()
	}
}

func (m *Machine) send(t protocol.MessageType, msg []byte, dst Destination) error {
	err := m.sender.Send(msg, dst)
	observability.RecordDatagramSent(t.String(), dst.Label(), err)
	if err != nil {
		log.Warn().Err(err).Str("type", t.String()).Str("dst", dst.String()).Msg("session send failed")
		return err
	}
	log.Trace().Str("type", t.String()).Str("dst", dst.String()).Msg("session sent")
	return nil
}

func (m *Machine) transition(to State) {
	if m.state == to {
		return
	}
	from := m.state
	m.state = to
	observability.RecordSessionTransition(to.String(), to == StateConnected)
	log.Debug().Str("from", from.String()).Str("to", to.String()).Msg("session transition")
}
