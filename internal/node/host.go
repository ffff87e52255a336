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

// Host waits for each StartOfFrame and answers it with an IGControl.
type Host struct {
	s     *session.Session
	cfg   config.HostConfig
	reg   *protocol.Registry
	start time.Time

	frames atomic.Uint32
	missed atomic.Uint32
}

func NewHost(s *session.Session, cfg config.HostConfig) *Host {
	if cfg.FrameTimeout <= 0 {
		cfg.FrameTimeout = time.Second
	}
	return &Host{
		s:     s,
		cfg:   cfg,
		reg:   newRegistry(ig.Register),
		start: time.Now(),
	}
}

func (h *Host) Role() string { return "host" }

// Frames is the number of IGControl records sent.
func (h *Host) Frames() uint32 { return h.frames.Load() }

// Missed counts frame timeouts.
func (h *Host) Missed() uint32 { return h.missed.Load() }

// Run blocks until ctx ends or the session closes.
func (h *Host) Run(ctx context.Context) error {
	log.Info().Int8("database", h.cfg.DatabaseNumber).Dur("frame_timeout", h.cfg.FrameTimeout).Msg("host: running")
	for {
		frameCtx, cancel := context.WithTimeout(ctx, h.cfg.FrameTimeout)
		sof, err := session.ReadAsync[ig.StartOfFrame](frameCtx, h.s, session.LaunchDeferred).Get(frameCtx)
		cancel()
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, context.DeadlineExceeded):
			h.missed.Add(1)
			log.Warn().Uint32("frame", h.frames.Load()).Msg("host: no start of frame")
			continue
		case err != nil:
			return err
		}
		if err := h.Step(sof); err != nil {
			return err
		}
	}
}

// Step answers one StartOfFrame and passes along any other IG records
// queued with it.
func (h *Host) Step(sof ig.StartOfFrame) error {
	h.s.Dispatch(h.reg, func(p protocol.Packet) { logPacket(h.Role(), p) })

	var ctrl host.IGControl
	ctrl.DatabaseNumber.Set(h.cfg.DatabaseNumber)
	ctrl.Flags.SetMode(host.Operate)
	ctrl.Flags.SetTimestampValid(true)
	ctrl.HostFrameNumber = h.frames.Load() + 1
	ctrl.Timestamp = timestamp(h.start)
	ctrl.LastIGFrameNumber = sof.IGFrameNumber

	if err := h.s.Write(ctrl); err != nil {
		return err
	}
	if err := h.s.Flush(); err != nil {
		return err
	}
	h.frames.Add(1)
	log.Debug().
		Uint32("host_frame", ctrl.HostFrameNumber).
		Uint32("ig_frame", sof.IGFrameNumber).
		Str("ig_mode", sof.Flags.Mode().String()).
		Msg("host: frame sent")
	return nil
}
