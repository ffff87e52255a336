package node

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/danmuck/cigi/internal/config"
	"github.com/danmuck/cigi/internal/protocol"
	"github.com/danmuck/cigi/internal/protocol/host"
	"github.com/danmuck/cigi/internal/protocol/ig"
	"github.com/danmuck/cigi/internal/protocol/session"
	"github.com/rs/zerolog/log"
)

// IG emits a StartOfFrame at a fixed rate and consumes host records in
// between.
type IG struct {
	s     *session.Session
	cfg   config.IGConfig
	reg   *protocol.Registry
	start time.Time

	frames        atomic.Uint32
	lastHostFrame atomic.Uint32
	hostRecords   atomic.Uint64
}

func NewIG(s *session.Session, cfg config.IGConfig) *IG {
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = 60
	}
	return &IG{
		s:     s,
		cfg:   cfg,
		reg:   newRegistry(host.Register),
		start: time.Now(),
	}
}

func (g *IG) Role() string { return "ig" }

// Frames is the number of StartOfFrame records sent.
func (g *IG) Frames() uint32 { return g.frames.Load() }

// LastHostFrame is the HostFrameNumber of the newest IGControl seen.
func (g *IG) LastHostFrame() uint32 { return g.lastHostFrame.Load() }

// HostRecords counts decoded host records of any kind.
func (g *IG) HostRecords() uint64 { return g.hostRecords.Load() }

func (g *IG) period() time.Duration {
	return time.Duration(float64(time.Second) / g.cfg.FrameRate)
}

// Run blocks until ctx ends or the session closes.
func (g *IG) Run(ctx context.Context) error {
	period := g.period()
	log.Info().Float64("frame_rate", g.cfg.FrameRate).Dur("period", period).Msg("ig: running")
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		if err := g.Step(); err != nil {
			if errors.Is(err, session.ErrClosed) && ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Step drains whatever has arrived, then opens the next frame.
func (g *IG) Step() error {
	for {
		got, err := g.s.Poll(0)
		if err != nil {
			return err
		}
		if !got {
			break
		}
	}
	g.s.Dispatch(g.reg, g.handle)

	var sof ig.StartOfFrame
	sof.DatabaseNumber = g.cfg.DatabaseNumber
	sof.Flags.SetMode(ig.Operate)
	sof.Flags.SetTimestampValid(true)
	sof.IGFrameNumber = g.frames.Load() + 1
	sof.Timestamp = timestamp(g.start)
	sof.LastHostFrameNumber = g.lastHostFrame.Load()

	if err := g.s.Write(sof); err != nil {
		return err
	}
	if err := g.s.Flush(); err != nil {
		return err
	}
	g.frames.Add(1)
	return nil
}

func (g *IG) handle(p protocol.Packet) {
	g.hostRecords.Add(1)
	logPacket(g.Role(), p)
	if ctrl, ok := p.(*host.IGControl); ok {
		g.lastHostFrame.Store(ctrl.HostFrameNumber)
		if g.cfg.DatabaseNumber != ctrl.DatabaseNumber.Get() {
			log.Info().
				Int8("requested", ctrl.DatabaseNumber.Get()).
				Msg("ig: database change requested")
			g.cfg.DatabaseNumber = ctrl.DatabaseNumber.Get()
		}
	}
}
