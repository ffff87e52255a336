// Package transport moves CIGI datagrams.
//
// A Sender coalesces encoded records into datagrams no larger than the MTU.
// A Receiver waits for and hands back whole datagrams. UDP implementations
// cover unicast, broadcast and multicast; Loopback is an in-memory pipe.
package transport

import (
	"errors"
	"sync/atomic"
	"time"
)

// DefaultMTU is the largest datagram a Sender builds.
const DefaultMTU = 1432

var (
	ErrClosed     = errors.New("transport: closed")
	ErrInvalidMTU = errors.New("transport: invalid mtu")
)

// Sender accepts encoded records and groups them into datagrams.
type Sender interface {
	// Send queues p. When p would bring the pending datagram to the MTU or
	// beyond, the pending datagram is sent first and p starts a new one.
	Send(p []byte) error
	// Flush sends the pending datagram, if any.
	Flush() error
	Stats() Stats
	Close() error
}

// Receiver hands back whole datagrams.
type Receiver interface {
	// Ready waits up to timeout for a datagram. A zero timeout polls.
	Ready(timeout time.Duration) (bool, error)
	// Available is the size of the datagram Ready found, or 0.
	Available() int
	// Receive returns up to max bytes of the ready datagram and consumes it.
	Receive(max int) ([]byte, error)
	Close() error
}

// Stats counts datagram traffic.
type Stats struct {
	DatagramsSent     uint64
	BytesSent         uint64
	DatagramsReceived uint64
	BytesReceived     uint64
}

type counters struct {
	datagramsSent     atomic.Uint64
	bytesSent         atomic.Uint64
	datagramsReceived atomic.Uint64
	bytesReceived     atomic.Uint64
}

func (c *counters) sent(n int) {
	c.datagramsSent.Add(1)
	c.bytesSent.Add(uint64(n))
}

func (c *counters) received(n int) {
	c.datagramsReceived.Add(1)
	c.bytesReceived.Add(uint64(n))
}

func (c *counters) snapshot() Stats {
	return Stats{
		DatagramsSent:     c.datagramsSent.Load(),
		BytesSent:         c.bytesSent.Load(),
		DatagramsReceived: c.datagramsReceived.Load(),
		BytesReceived:     c.bytesReceived.Load(),
	}
}

// Add sums two snapshots.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		DatagramsSent:     s.DatagramsSent + o.DatagramsSent,
		BytesSent:         s.BytesSent + o.BytesSent,
		DatagramsReceived: s.DatagramsReceived + o.DatagramsReceived,
		BytesReceived:     s.BytesReceived + o.BytesReceived,
	}
}
