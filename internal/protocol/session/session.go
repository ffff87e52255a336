package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/danmuck/cigi/internal/protocol"
	"github.com/danmuck/cigi/internal/protocol/frame"
	"github.com/danmuck/cigi/internal/transport"
	"github.com/rs/zerolog/log"
)

var (
	ErrClosed        = errors.New("session: closed")
	ErrMissingSender = errors.New("session: missing sender")
)

type state struct {
	out      [][]byte
	in       inbox
	sender   transport.Sender
	receiver transport.Receiver
	closed   bool
}

// Session queues outgoing records and sorts incoming ones by tag.
type Session struct {
	own chan *state
	cfg Config
	rec Recorder

	// sendMu orders Flush calls. It is taken before own, never after.
	sendMu sync.Mutex
	spare  [][]byte
}

// New builds a session over an existing sender and receiver. receiver may be
// nil for a send-only session.
func New(sender transport.Sender, receiver transport.Receiver, cfg Config) (*Session, error) {
	if sender == nil {
		return nil, ErrMissingSender
	}
	cfg = cfg.withDefaults()
	s := &Session{
		own: make(chan *state, 1),
		cfg: cfg,
		rec: cfg.Recorder,
	}
	s.own <- &state{in: newInbox(), sender: sender, receiver: receiver}
	return s, nil
}

// Dial opens a UDP sender to cfg.SendAddress and a receiver on
// cfg.ReceiveAddress.
func Dial(cfg Config) (*Session, error) {
	cfg = cfg.withDefaults()
	if cfg.SendAddress == "" {
		return nil, errors.New("session config missing send_address")
	}
	if cfg.ReceiveAddress == "" {
		return nil, errors.New("session config missing receive_address")
	}
	tx, err := transport.DialSend(cfg.SendAddress, cfg.MTU)
	if err != nil {
		return nil, fmt.Errorf("session: dial %s: %w", cfg.SendAddress, err)
	}
	rx, err := transport.ListenReceive(cfg.ReceiveAddress, cfg.Interface)
	if err != nil {
		_ = tx.Close()
		return nil, fmt.Errorf("session: listen %s: %w", cfg.ReceiveAddress, err)
	}
	log.Info().
		Str("send", cfg.SendAddress).
		Str("receive", cfg.ReceiveAddress).
		Int("mtu", cfg.MTU).
		Msg("session: connected")
	return New(tx, rx, cfg)
}

func (s *Session) acquire() *state { return <-s.own }

func (s *Session) release(st *state) { s.own <- st }

// Write encodes rec and queues it for the next Flush. Nothing is queued when
// encoding fails.
func (s *Session) Write(rec protocol.Encoder) error {
	b, err := rec.Encode()
	if err != nil {
		return fmt.Errorf("session: encode tag %d: %w", rec.PacketID(), err)
	}
	st := s.acquire()
	defer s.release(st)
	if st.closed {
		return ErrClosed
	}
	st.out = append(st.out, b)
	s.rec.RecordWritten(rec.PacketID())
	return nil
}

// Flush hands every queued record to the sender in order and forces the
// sender to transmit. The queue is cleared even when sending fails; the first
// error is returned. The session is released before the sender is written,
// so Poll can drain a receiver fed by a sender that blocks.
func (s *Session) Flush() error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	st := s.acquire()
	if st.closed {
		s.release(st)
		return ErrClosed
	}
	out, sender := st.out, st.sender
	st.out = s.spare[:0]
	s.release(st)

	var first error
	for _, b := range out {
		if err := sender.Send(b); err != nil && first == nil {
			first = err
		}
	}
	if err := sender.Flush(); err != nil && first == nil {
		first = err
	}
	n := len(out)
	clear(out)
	s.spare = out[:0]
	s.rec.RecordsFlushed(n)
	if first != nil {
		log.Warn().Err(first).Int("records", n).Msg("session: flush failed")
	}
	return first
}

// Pending is the number of records waiting for Flush.
func (s *Session) Pending() int {
	st := s.acquire()
	defer s.release(st)
	return len(st.out)
}

// Poll waits up to timeout for one datagram and files its records by tag.
// A zero timeout checks without waiting. It reports whether a datagram was
// read.
func (s *Session) Poll(timeout time.Duration) (bool, error) {
	st := s.acquire()
	defer s.release(st)
	if st.closed {
		return false, ErrClosed
	}
	if st.receiver == nil {
		return false, nil
	}
	ready, err := st.receiver.Ready(timeout)
	if err != nil {
		return false, err
	}
	if !ready {
		return false, nil
	}
	dgram, err := st.receiver.Receive(st.receiver.Available())
	if err != nil {
		return false, err
	}
	if len(dgram) == 0 {
		return false, nil
	}
	s.rec.DatagramReceived(len(dgram))
	s.demux(st, dgram)
	return true, nil
}

func (s *Session) demux(st *state, dgram []byte) {
	scan := frame.Split(dgram)
	for _, r := range scan.Records {
		st.in.push(r[0], r)
		s.rec.RecordReceived(r[0])
	}
	if scan.Stop == frame.Complete {
		return
	}
	var tag uint8
	if len(scan.Tail) > 0 {
		tag = scan.Tail[0]
	}
	s.drop(tag, scan.Stop.String(), scan.Stop.Err(), len(scan.Tail))
}

func (s *Session) drop(tag uint8, reason string, err error, n int) {
	s.rec.RecordDropped(tag, reason)
	log.Debug().
		Uint8("tag", tag).
		Str("reason", reason).
		Int("bytes", n).
		Err(err).
		Msg("session: record dropped")
}

// Queued is the number of received records of tag not yet read.
func (s *Session) Queued(tag uint8) int {
	st := s.acquire()
	defer s.release(st)
	return st.in.len(tag)
}

// Stats sums the counters of the sender and, when it keeps them, the
// receiver.
func (s *Session) Stats() transport.Stats {
	st := s.acquire()
	defer s.release(st)
	out := st.sender.Stats()
	if rs, ok := st.receiver.(interface{ Stats() transport.Stats }); ok {
		out = out.Add(rs.Stats())
	}
	return out
}

// Close shuts both transport ends, receiver first so a Flush blocked on a
// pipe that feeds it is released. Records already received stay readable.
func (s *Session) Close() error {
	st := s.acquire()
	defer s.release(st)
	if st.closed {
		return nil
	}
	st.closed = true
	st.out = nil
	var err error
	if st.receiver != nil {
		err = st.receiver.Close()
	}
	return errors.Join(err, st.sender.Close())
}
