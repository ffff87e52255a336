package node

import (
	"context"
	"testing"
	"time"

	"github.com/danmuck/cigi/internal/config"
	"github.com/danmuck/cigi/internal/protocol/ig"
	"github.com/danmuck/cigi/internal/protocol/session"
	"github.com/danmuck/cigi/internal/testutil/testlog"
	"github.com/danmuck/cigi/internal/transport"
)

// newPair wires a host session and an IG session back to back.
func newPair(t *testing.T) (*session.Session, *session.Session) {
	t.Helper()
	toIG := transport.NewLoopback(64)
	toHost := transport.NewLoopback(64)
	hostTx, err := transport.NewDatagramSender(toIG, transport.DefaultMTU)
	if err != nil {
		t.Fatalf("host sender: %v", err)
	}
	igTx, err := transport.NewDatagramSender(toHost, transport.DefaultMTU)
	if err != nil {
		t.Fatalf("ig sender: %v", err)
	}
	hs, err := session.New(hostTx, toHost, session.Config{})
	if err != nil {
		t.Fatalf("host session: %v", err)
	}
	gs, err := session.New(igTx, toIG, session.Config{})
	if err != nil {
		t.Fatalf("ig session: %v", err)
	}
	t.Cleanup(func() {
		_ = hs.Close()
		_ = gs.Close()
	})
	return hs, gs
}

func TestHostAnswersStartOfFrame(t *testing.T) {
	testlog.Start(t)
	hs, gs := newPair(t)
	h := NewHost(hs, config.HostConfig{DatabaseNumber: 7, FrameTimeout: time.Second})
	g := NewIG(gs, config.IGConfig{DatabaseNumber: 1, FrameRate: 60})

	if err := g.Step(); err != nil {
		t.Fatalf("ig step: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	sof, err := session.ReadAsync[ig.StartOfFrame](ctx, hs, session.LaunchDeferred).Get(ctx)
	if err != nil {
		t.Fatalf("read start of frame: %v", err)
	}
	if sof.IGFrameNumber != 1 || sof.Flags.Mode() != ig.Operate {
		t.Fatalf("unexpected start of frame: %+v", sof)
	}
	if err := h.Step(sof); err != nil {
		t.Fatalf("host step: %v", err)
	}
	if h.Frames() != 1 {
		t.Fatalf("host frames=%d", h.Frames())
	}

	if err := g.Step(); err != nil {
		t.Fatalf("second ig step: %v", err)
	}
	if g.LastHostFrame() != 1 {
		t.Fatalf("ig last host frame=%d", g.LastHostFrame())
	}
	if g.HostRecords() != 1 {
		t.Fatalf("ig host records=%d", g.HostRecords())
	}
	if g.cfg.DatabaseNumber != 7 {
		t.Fatalf("ig did not follow database request: %d", g.cfg.DatabaseNumber)
	}
	if g.Frames() != 2 {
		t.Fatalf("ig frames=%d", g.Frames())
	}
}

func TestHostAndIGRun(t *testing.T) {
	testlog.Start(t)
	hs, gs := newPair(t)
	h := NewHost(hs, config.HostConfig{DatabaseNumber: 1, FrameTimeout: 500 * time.Millisecond})
	g := NewIG(gs, config.IGConfig{DatabaseNumber: 1, FrameRate: 200})

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	errs := make(chan error, 2)
	for _, n := range []Node{h, g} {
		go func(n Node) { errs <- n.Run(ctx) }(n)
	}
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("run: %v", err)
		}
	}
	if h.Frames() == 0 {
		t.Fatalf("host sent no frames")
	}
	if g.LastHostFrame() == 0 {
		t.Fatalf("ig saw no host frames")
	}
	if g.Frames() < h.Frames() {
		t.Fatalf("host answered more frames (%d) than ig opened (%d)", h.Frames(), g.Frames())
	}
}

func TestHostCountsMissedFrames(t *testing.T) {
	testlog.Start(t)
	hs, _ := newPair(t)
	h := NewHost(hs, config.HostConfig{FrameTimeout: 20 * time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Millisecond)
	defer cancel()
	if err := h.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if h.Missed() == 0 {
		t.Fatalf("expected missed frames")
	}
	if h.Frames() != 0 {
		t.Fatalf("unexpected frames=%d", h.Frames())
	}
}

func TestRoles(t *testing.T) {
	testlog.Start(t)
	hs, gs := newPair(t)
	if r := NewHost(hs, config.HostConfig{}).Role(); r != "host" {
		t.Fatalf("host role=%q", r)
	}
	g := NewIG(gs, config.IGConfig{})
	if r := g.Role(); r != "ig" {
		t.Fatalf("ig role=%q", r)
	}
	if p := g.period(); p != time.Second/60 {
		t.Fatalf("default period=%v", p)
	}
}
