package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/danmuck/cigi/internal/protocol"
	"github.com/danmuck/cigi/internal/transport"
	"github.com/rs/zerolog/log"
)

// Launch selects where a ReadAsync loop runs.
type Launch uint8

const (
	// LaunchAsync starts the loop on its own goroutine right away.
	LaunchAsync Launch = iota
	// LaunchDeferred runs the loop on the goroutine that first calls Get.
	LaunchDeferred
)

func (l Launch) String() string {
	switch l {
	case LaunchAsync:
		return "async"
	case LaunchDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// Future is the pending result of ReadAsync.
type Future[T any] struct {
	once sync.Once
	run  func(context.Context)
	done chan struct{}
	val  T
	err  error
}

// Get waits for the result. For a deferred future the first Get runs the
// read loop itself, stopping early if either ctx or the ReadAsync context
// ends; the future then completes with that error.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	f.once.Do(func() {
		if f.run != nil {
			f.run(ctx)
		}
	})
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed once the result is set.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

func (f *Future[T]) finish(v T, err error) {
	f.val, f.err = v, err
	close(f.done)
}

// ReadAsync keeps polling s and returns the first record with T's tag that
// decodes. The loop ends with an error when ctx ends or s is closed; other
// poll errors are logged and retried.
func ReadAsync[T any, PT interface {
	*T
	protocol.Decoder
}](ctx context.Context, s *Session, launch Launch) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	loop := func(ctx context.Context) {
		f.finish(awaitRecord[T, PT](ctx, s))
	}
	if launch == LaunchDeferred {
		f.run = func(getCtx context.Context) {
			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			stop := context.AfterFunc(getCtx, cancel)
			defer stop()
			loop(runCtx)
		}
		return f
	}
	go loop(ctx)
	return f
}

func awaitRecord[T any, PT interface {
	*T
	protocol.Decoder
}](ctx context.Context, s *Session) (T, error) {
	var zero T
	interval := s.cfg.AsyncPollInterval
	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		if v, ok := Read[T, PT](s); ok {
			return v, nil
		}
		_, err := s.Poll(interval)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrClosed) || errors.Is(err, transport.ErrClosed) {
			return zero, err
		}
		log.Warn().Err(err).Msg("session: poll failed")
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(interval):
		}
	}
}
