package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/cigi/internal/protocol/session"
	"github.com/danmuck/cigi/internal/transport"
)

// Config is the cigictl runtime configuration.
type Config struct {
	Session SessionConfig
	Log     LogConfig
	Metrics MetricsConfig
	Host    HostConfig
	IG      IGConfig
}

type SessionConfig struct {
	SendAddress       string
	ReceiveAddress    string
	Interface         string
	MTU               int
	AsyncPollInterval time.Duration
	// DialAttempts bounds session.DialRetry; 0 retries until cancelled.
	DialAttempts int
}

type LogConfig struct {
	Level string
}

type MetricsConfig struct {
	// Address serves /metrics when set.
	Address string
}

type HostConfig struct {
	DatabaseNumber int8
	// FrameTimeout is how long the host waits for a StartOfFrame before
	// logging a missed frame.
	FrameTimeout time.Duration
}

type IGConfig struct {
	DatabaseNumber int8
	FrameRate      float64
}

type fileConfig struct {
	Session struct {
		SendAddress       string `toml:"send_address"`
		ReceiveAddress    string `toml:"receive_address"`
		Interface         string `toml:"interface"`
		MTU               int    `toml:"mtu"`
		AsyncPollInterval string `toml:"async_poll_interval"`
		DialAttempts      int    `toml:"dial_attempts"`
	} `toml:"session"`
	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`
	Metrics struct {
		Address string `toml:"address"`
	} `toml:"metrics"`
	Host struct {
		DatabaseNumber int    `toml:"database_number"`
		FrameTimeout   string `toml:"frame_timeout"`
	} `toml:"host"`
	IG struct {
		DatabaseNumber int     `toml:"database_number"`
		FrameRate      float64 `toml:"frame_rate"`
	} `toml:"ig"`
}

func DefaultConfig() Config {
	def := session.DefaultConfig()
	return Config{
		Session: SessionConfig{
			MTU:               def.MTU,
			AsyncPollInterval: def.AsyncPollInterval,
			DialAttempts:      5,
		},
		Log: LogConfig{Level: "info"},
		Host: HostConfig{
			FrameTimeout: time.Second,
		},
		IG: IGConfig{
			FrameRate: 60,
		},
	}
}

// Load reads path and applies every key it defines on top of DefaultConfig.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("session", "send_address") {
		cfg.Session.SendAddress = strings.TrimSpace(raw.Session.SendAddress)
	}
	if meta.IsDefined("session", "receive_address") {
		cfg.Session.ReceiveAddress = strings.TrimSpace(raw.Session.ReceiveAddress)
	}
	if meta.IsDefined("session", "interface") {
		cfg.Session.Interface = strings.TrimSpace(raw.Session.Interface)
	}
	if meta.IsDefined("session", "mtu") {
		cfg.Session.MTU = raw.Session.MTU
	}
	if meta.IsDefined("session", "async_poll_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Session.AsyncPollInterval))
		if err != nil {
			return Config{}, fmt.Errorf("parse session.async_poll_interval: %w", err)
		}
		cfg.Session.AsyncPollInterval = d
	}
	if meta.IsDefined("session", "dial_attempts") {
		cfg.Session.DialAttempts = raw.Session.DialAttempts
	}

	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("metrics", "address") {
		cfg.Metrics.Address = strings.TrimSpace(raw.Metrics.Address)
	}

	if meta.IsDefined("host", "database_number") {
		cfg.Host.DatabaseNumber = int8(raw.Host.DatabaseNumber)
		if raw.Host.DatabaseNumber < -128 || raw.Host.DatabaseNumber > 127 {
			return Config{}, fmt.Errorf("host.database_number %d out of range", raw.Host.DatabaseNumber)
		}
	}
	if meta.IsDefined("host", "frame_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Host.FrameTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse host.frame_timeout: %w", err)
		}
		cfg.Host.FrameTimeout = d
	}
	if meta.IsDefined("ig", "database_number") {
		cfg.IG.DatabaseNumber = int8(raw.IG.DatabaseNumber)
		if raw.IG.DatabaseNumber < -128 || raw.IG.DatabaseNumber > 127 {
			return Config{}, fmt.Errorf("ig.database_number %d out of range", raw.IG.DatabaseNumber)
		}
	}
	if meta.IsDefined("ig", "frame_rate") {
		cfg.IG.FrameRate = raw.IG.FrameRate
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Session.SendAddress) == "" {
		return fmt.Errorf("session config missing send_address")
	}
	if strings.TrimSpace(cfg.Session.ReceiveAddress) == "" {
		return fmt.Errorf("session config missing receive_address")
	}
	if cfg.Session.MTU <= 2 || cfg.Session.MTU > 65507 {
		return fmt.Errorf("session config mtu %d out of range", cfg.Session.MTU)
	}
	if cfg.Session.AsyncPollInterval <= 0 {
		return fmt.Errorf("session config async_poll_interval must be positive")
	}
	if cfg.Session.DialAttempts < 0 {
		return fmt.Errorf("session config dial_attempts must not be negative")
	}
	if cfg.Host.FrameTimeout <= 0 {
		return fmt.Errorf("host config frame_timeout must be positive")
	}
	if cfg.IG.FrameRate <= 0 || cfg.IG.FrameRate > 1000 {
		return fmt.Errorf("ig config frame_rate %.1f out of range", cfg.IG.FrameRate)
	}
	return nil
}

// SessionConfig converts the [session] section for session.Dial.
func (c Config) SessionConfig(rec session.Recorder) session.Config {
	out := session.DefaultConfig()
	out.SendAddress = c.Session.SendAddress
	out.ReceiveAddress = c.Session.ReceiveAddress
	out.Interface = c.Session.Interface
	out.MTU = c.Session.MTU
	if out.MTU <= 0 {
		out.MTU = transport.DefaultMTU
	}
	out.AsyncPollInterval = c.Session.AsyncPollInterval
	out.Recorder = rec
	return out
}
