package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/slimvfd/internal/admin"
	"github.com/danmuck/slimvfd/internal/client"
	"github.com/danmuck/slimvfd/internal/protocol"
	"github.com/danmuck/slimvfd/internal/protocol/session"
	"github.com/danmuck/slimvfd/internal/transport"
)

type fileConfig struct {
	ServerPort          int               `toml:"server_port"`
	BindAddr            string            `toml:"bind_addr"`
	BroadcastAddr       string            `toml:"broadcast_addr"`
	HeartbeatInterval   string            `toml:"heartbeat_interval"`
	HeartbeatIntervalMS int64             `toml:"heartbeat_interval_ms"`
	LivenessWindow      string            `toml:"liveness_window"`
	SearchBanner        string            `toml:"search_banner"`
	AdminAddr           string            `toml:"admin_addr"`
	AdminCORSOrigins    []string          `toml:"admin_cors_origins"`
	FontFile            string            `toml:"font_file"`
	Preview             bool              `toml:"preview"`
	Keys                map[string]string `toml:"keys"`
}

type runConfig struct {
	Client           client.Config
	AdminAddr        string
	AdminCORSOrigins []string
	FontFile         string
	Preview          bool
	Keys             keymap
}

func defaultRunConfig() runConfig {
	return runConfig{
		Client: client.Config{
			Session:      session.DefaultConfig(),
			Transport:    transport.Config{ServerPort: protocol.ServerPort},
			SearchBanner: client.DefaultSearchBanner,
		},
		Preview: true,
		Keys:    defaultKeymap(),
	}
}

// loadRunConfig returns the defaults when path is empty, otherwise the
// defaults overridden by every key the file defines.
func loadRunConfig(path string) (runConfig, error) {
	cfg := defaultRunConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return runConfig{}, fmt.Errorf("load slimctl config: %w", err)
	}

	if meta.IsDefined("server_port") {
		if raw.ServerPort <= 0 || raw.ServerPort > 65535 {
			return runConfig{}, fmt.Errorf("parse server_port: %d out of range", raw.ServerPort)
		}
		cfg.Client.Transport.ServerPort = raw.ServerPort
	}

	if meta.IsDefined("bind_addr") {
		cfg.Client.Transport.BindAddr = strings.TrimSpace(raw.BindAddr)
	}

	if meta.IsDefined("broadcast_addr") {
		cfg.Client.Transport.BroadcastAddr = strings.TrimSpace(raw.BroadcastAddr)
	}

	if meta.IsDefined("heartbeat_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.HeartbeatInterval))
		if err != nil {
			return runConfig{}, fmt.Errorf("parse heartbeat_interval: %w", err)
		}
		cfg.Client.Session.HeartbeatInterval = d
	}

	if meta.IsDefined("heartbeat_interval_ms") {
		cfg.Client.Session.HeartbeatInterval = time.Duration(raw.HeartbeatIntervalMS) * time.Millisecond
	}

	if meta.IsDefined("liveness_window") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.LivenessWindow))
		if err != nil {
			return runConfig{}, fmt.Errorf("parse liveness_window: %w", err)
		}
		cfg.Client.Session.LivenessWindow = d
	}

	if meta.IsDefined("search_banner") {
		cfg.Client.SearchBanner = raw.SearchBanner
	}

	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}

	if meta.IsDefined("admin_cors_origins") {
		cfg.AdminCORSOrigins = normalizeOrigins(raw.AdminCORSOrigins)
	}

	if meta.IsDefined("font_file") {
		cfg.FontFile = strings.TrimSpace(raw.FontFile)
	}

	if meta.IsDefined("preview") {
		cfg.Preview = raw.Preview
	}

	if meta.IsDefined("keys") {
		for key, rawCode := range raw.Keys {
			if len(key) != 1 {
				return runConfig{}, fmt.Errorf("parse keys: %q is not a single character", key)
			}
			code, err := admin.ParseKeyCode(strings.TrimSpace(rawCode))
			if err != nil {
				return runConfig{}, fmt.Errorf("parse keys.%s: %w", key, err)
			}
			cfg.Keys.bind(key[0], code, "")
		}
	}

	return cfg, nil
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
