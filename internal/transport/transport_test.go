package transport

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/danmuck/cigi/internal/testutil/testlog"
)

type datagramLog struct {
	writes [][]byte
	err    error
}

func (d *datagramLog) Write(p []byte) (int, error) {
	d.writes = append(d.writes, append([]byte(nil), p...))
	return len(p), d.err
}

func TestSenderCoalescesUnderMTU(t *testing.T) {
	testlog.Start(t)
	var out datagramLog
	s, err := NewDatagramSender(&out, DefaultMTU)
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}

	rec := bytes.Repeat([]byte{0xaa}, 48)
	// 29 records of 48 bytes make 1392 bytes; the 30th would reach 1440.
	for i := 0; i < 29; i++ {
		if err := s.Send(rec); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	if len(out.writes) != 0 || s.Pending() != 29*48 {
		t.Fatalf("flushed early: writes=%d pending=%d", len(out.writes), s.Pending())
	}

	if err := s.Send(rec); err != nil {
		t.Fatalf("boundary send: %v", err)
	}
	if len(out.writes) != 1 {
		t.Fatalf("implicit flushes = %d, want 1", len(out.writes))
	}
	if len(out.writes[0]) != 29*48 {
		t.Fatalf("first datagram = %d bytes", len(out.writes[0]))
	}
	if s.Pending() != 48 {
		t.Fatalf("boundary record not cached: pending=%d", s.Pending())
	}

	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if len(out.writes) != 2 || len(out.writes[1]) != 48 {
		t.Fatalf("forced flush: writes=%d", len(out.writes))
	}
	st := s.Stats()
	if st.DatagramsSent != 2 || st.BytesSent != 30*48 {
		t.Fatalf("stats = %+v", st)
	}

	if err := s.Flush(); err != nil || len(out.writes) != 2 {
		t.Fatalf("empty flush sent a datagram: writes=%d err=%v", len(out.writes), err)
	}
}

func TestSenderReportsWriteErrors(t *testing.T) {
	testlog.Start(t)
	boom := errors.New("boom")
	out := datagramLog{err: boom}
	s, _ := NewDatagramSender(&out, 64)
	_ = s.Send(make([]byte, 16))
	if err := s.Flush(); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped write error, got %v", err)
	}
	if s.Pending() != 0 {
		t.Fatalf("cache not cleared after failed flush")
	}
}

func TestSenderRejectsTinyMTU(t *testing.T) {
	if _, err := NewDatagramSender(&datagramLog{}, 2); !errors.Is(err, ErrInvalidMTU) {
		t.Fatalf("expected ErrInvalidMTU, got %v", err)
	}
}

func TestSenderClosed(t *testing.T) {
	s, _ := NewDatagramSender(&datagramLog{}, DefaultMTU)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Send([]byte{1, 8}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestLoopbackDeliversDatagramsInOrder(t *testing.T) {
	testlog.Start(t)
	lb := NewLoopback(4)
	defer lb.Close()

	if ok, err := lb.Ready(0); ok || err != nil {
		t.Fatalf("empty pipe ready=%v err=%v", ok, err)
	}
	_, _ = lb.Write([]byte("one"))
	_, _ = lb.Write([]byte("three"))

	for _, want := range []string{"one", "three"} {
		ok, err := lb.Ready(10 * time.Millisecond)
		if !ok || err != nil {
			t.Fatalf("ready=%v err=%v", ok, err)
		}
		if lb.Available() != len(want) {
			t.Fatalf("available = %d", lb.Available())
		}
		got, _ := lb.Receive(lb.Available())
		if string(got) != want {
			t.Fatalf("received %q, want %q", got, want)
		}
	}
	if lb.Available() != 0 {
		t.Fatalf("datagram left pending")
	}
	if st := lb.Stats(); st.DatagramsReceived != 2 || st.BytesReceived != 8 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestLoopbackReadyTimesOut(t *testing.T) {
	lb := NewLoopback(1)
	start := time.Now()
	ok, err := lb.Ready(20 * time.Millisecond)
	if ok || err != nil {
		t.Fatalf("ready=%v err=%v", ok, err)
	}
	if time.Since(start) < 15*time.Millisecond {
		t.Fatalf("ready returned before its timeout")
	}
	_ = lb.Close()
	if _, err := lb.Ready(time.Second); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := lb.Write([]byte{1}); !errors.Is(err, ErrClosed) {
		t.Fatalf("write after close: %v", err)
	}
}

func TestUDPSendReceive(t *testing.T) {
	testlog.Start(t)
	rx, err := ListenReceive("127.0.0.1:0", "")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer rx.Close()

	tx, err := DialSend(fmt.Sprintf("127.0.0.1:%d", rx.LocalAddr().Port), DefaultMTU)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer tx.Close()

	a := bytes.Repeat([]byte{1}, 24)
	b := bytes.Repeat([]byte{2}, 16)
	_ = tx.Send(a)
	_ = tx.Send(b)
	if err := tx.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	ok, err := rx.Ready(2 * time.Second)
	if !ok || err != nil {
		t.Fatalf("ready=%v err=%v", ok, err)
	}
	if rx.Available() != 40 {
		t.Fatalf("available = %d", rx.Available())
	}
	got, err := rx.Receive(rx.Available())
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if !bytes.Equal(got, append(append([]byte{}, a...), b...)) {
		t.Fatalf("datagram mismatch: % x", got)
	}

	if ok, err := rx.Ready(0); ok || err != nil {
		t.Fatalf("idle socket ready=%v err=%v", ok, err)
	}
	if st := tx.Stats(); st.DatagramsSent != 1 || st.BytesSent != 40 {
		t.Fatalf("send stats = %+v", st)
	}
}

func TestStatsAdd(t *testing.T) {
	s := Stats{DatagramsSent: 1, BytesSent: 10}.Add(Stats{DatagramsReceived: 2, BytesReceived: 5, BytesSent: 1})
	if s.DatagramsSent != 1 || s.BytesSent != 11 || s.DatagramsReceived != 2 || s.BytesReceived != 5 {
		t.Fatalf("sum = %+v", s)
	}
}
