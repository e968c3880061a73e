package session

import "time"

// Config defines session timing.
type Config struct {
	HeartbeatInterval time.Duration
	LivenessWindow    time.Duration
}

// DefaultConfig returns the receiver's timing: a hello or discovery every
// 5 seconds, and a server considered gone after 30 seconds of silence.
func DefaultConfig() Config {
	return Config{
		HeartbeatInterval: 5 * time.Second,
		LivenessWindow:    30 * time.Second,
	}
}

// WithDefaults fills zero or negative fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = def.HeartbeatInterval
	}
	if c.LivenessWindow <= 0 {
		c.LivenessWindow = def.LivenessWindow
	}
	return c
}
