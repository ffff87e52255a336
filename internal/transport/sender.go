package transport

import (
	"fmt"
	"io"
	"sync"

	"github.com/danmuck/cigi/internal/protocol/frame"
)

// DatagramSender coalesces records and writes each finished datagram to w
// with a single Write call.
type DatagramSender struct {
	mu    sync.Mutex
	w     io.Writer
	mtu   int
	cache []byte
	stats counters
}

// NewDatagramSender wraps w. Closing the sender closes w when it is an
// io.Closer.
func NewDatagramSender(w io.Writer, mtu int) (*DatagramSender, error) {
	if mtu <= frame.HeaderLen {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMTU, mtu)
	}
	return &DatagramSender{w: w, mtu: mtu, cache: make([]byte, 0, mtu)}, nil
}

func (s *DatagramSender) Send(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return ErrClosed
	}
	if next, ok := frame.Append(s.cache, p, s.mtu); ok {
		s.cache = next
		return nil
	}
	err := s.flushLocked()
	s.cache = append(s.cache[:0], p...)
	return err
}

func (s *DatagramSender) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return ErrClosed
	}
	return s.flushLocked()
}

func (s *DatagramSender) flushLocked() error {
	if len(s.cache) == 0 {
		return nil
	}
	n := len(s.cache)
	_, err := s.w.Write(s.cache)
	s.cache = s.cache[:0]
	s.stats.sent(n)
	if err != nil {
		return fmt.Errorf("transport: send %d byte datagram: %w", n, err)
	}
	return nil
}

// Pending is the size of the datagram being built.
func (s *DatagramSender) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

func (s *DatagramSender) MTU() int { return s.mtu }

func (s *DatagramSender) Stats() Stats { return s.stats.snapshot() }

// Close drops any pending datagram and closes the underlying writer.
func (s *DatagramSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return nil
	}
	w := s.w
	s.w = nil
	s.cache = nil
	if c, ok := w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
