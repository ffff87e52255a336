package transport

import (
	"sync"
	"time"
)

// Loopback is an in-memory datagram pipe. Each Write is one datagram; the
// Receiver side reads them back in order.
type Loopback struct {
	queue chan []byte
	done  chan struct{}
	once  sync.Once

	mu      sync.Mutex
	pending []byte
	ready   bool
	stats   counters
}

// NewLoopback returns a pipe that holds up to depth unread datagrams. Writes
// beyond that block until the reader catches up or the pipe is closed.
func NewLoopback(depth int) *Loopback {
	if depth < 1 {
		depth = 1
	}
	return &Loopback{
		queue: make(chan []byte, depth),
		done:  make(chan struct{}),
	}
}

func (l *Loopback) Write(p []byte) (int, error) {
	dgram := append([]byte(nil), p...)
	select {
	case <-l.done:
		return 0, ErrClosed
	default:
	}
	select {
	case l.queue <- dgram:
		return len(p), nil
	case <-l.done:
		return 0, ErrClosed
	}
}

func (l *Loopback) Ready(timeout time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ready {
		return true, nil
	}
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case dgram := <-l.queue:
		l.accept(dgram)
		return true, nil
	default:
	}
	if expired == nil {
		return l.closedErr()
	}
	select {
	case dgram := <-l.queue:
		l.accept(dgram)
		return true, nil
	case <-expired:
		return false, nil
	case <-l.done:
		return false, ErrClosed
	}
}

func (l *Loopback) accept(dgram []byte) {
	l.pending = dgram
	l.ready = true
	l.stats.received(len(dgram))
}

func (l *Loopback) closedErr() (bool, error) {
	select {
	case <-l.done:
		return false, ErrClosed
	default:
		return false, nil
	}
}

func (l *Loopback) Available() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

func (l *Loopback) Receive(max int) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.ready {
		return nil, nil
	}
	dgram := l.pending
	if max < len(dgram) {
		dgram = dgram[:max]
	}
	l.pending, l.ready = nil, false
	return dgram, nil
}

// Stats reports datagrams taken off the pipe.
func (l *Loopback) Stats() Stats { return l.stats.snapshot() }

func (l *Loopback) Close() error {
	l.once.Do(func() { close(l.done) })
	return nil
}
