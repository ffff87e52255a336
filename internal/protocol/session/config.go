package session

import (
	"time"

	"github.com/danmuck/cigi/internal/transport"
)

// BackoffConfig defines retry backoff behavior for DialRetry.
type BackoffConfig struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

// Config defines how a session reaches its peer.
type Config struct {
	// SendAddress is the peer's "host:port". Broadcast and multicast
	// addresses are allowed.
	SendAddress string
	// ReceiveAddress is bound for incoming datagrams. A multicast host part
	// joins that group; otherwise only the port is used.
	ReceiveAddress string
	// Interface names the interface, by name or IPv4 address, for multicast.
	Interface         string
	MTU               int
	AsyncPollInterval time.Duration
	Backoff           BackoffConfig
	Recorder          Recorder
}

// DefaultConfig returns the defaults used when a field is left unset.
func DefaultConfig() Config {
	return Config{
		MTU:               transport.DefaultMTU,
		AsyncPollInterval: time.Millisecond,
		Backoff: BackoffConfig{
			InitialDelay: 250 * time.Millisecond,
			Multiplier:   2.0,
			MaxDelay:     5 * time.Second,
			Jitter:       true,
		},
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MTU <= 0 {
		c.MTU = def.MTU
	}
	if c.AsyncPollInterval <= 0 {
		c.AsyncPollInterval = def.AsyncPollInterval
	}
	if c.Backoff.InitialDelay <= 0 {
		c.Backoff = def.Backoff
	}
	if c.Recorder == nil {
		c.Recorder = NopRecorder{}
	}
	return c
}
