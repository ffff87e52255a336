package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// maxDatagram bounds a single UDP read.
const maxDatagram = 64 * 1024

// minReadWindow is the shortest read deadline used by a zero-timeout Ready.
// A deadline already in the past fails before the socket is read.
const minReadWindow = 200 * time.Microsecond

// DialSend opens a UDP socket whose datagrams go to addr ("host:port").
// Broadcast and multicast destinations are allowed.
func DialSend(addr string, mtu int) (*DatagramSender, error) {
	if mtu <= 0 {
		mtu = DefaultMTU
	}
	d := net.Dialer{Control: controlSend}
	conn, err := d.DialContext(context.Background(), "udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", addr, err)
	}
	s, err := NewDatagramSender(conn, mtu)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	log.Debug().Str("remote", conn.RemoteAddr().String()).Int("mtu", mtu).Msg("transport: send socket open")
	return s, nil
}

// UDPReceiver reads datagrams from a bound UDP socket.
type UDPReceiver struct {
	conn *net.UDPConn

	mu      sync.Mutex
	buf     []byte
	pending []byte
	ready   bool
	stats   counters
}

// ListenReceive binds a UDP socket on the port of addr. When the host part of
// addr is a multicast group the socket joins it, on iface if given. iface may
// be an interface name or one of its IPv4 addresses.
func ListenReceive(addr, iface string) (*UDPReceiver, error) {
	udpAddr, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve %s: %w", addr, err)
	}

	var conn *net.UDPConn
	if udpAddr.IP != nil && udpAddr.IP.IsMulticast() {
		ifi, err := lookupInterface(iface)
		if err != nil {
			return nil, err
		}
		conn, err = net.ListenMulticastUDP("udp4", ifi, udpAddr)
		if err != nil {
			return nil, fmt.Errorf("transport: join %s: %w", udpAddr, err)
		}
		log.Debug().Str("group", udpAddr.String()).Str("iface", iface).Msg("transport: joined multicast group")
	} else {
		lc := net.ListenConfig{Control: controlReceive}
		pc, err := lc.ListenPacket(context.Background(), "udp4", fmt.Sprintf(":%d", udpAddr.Port))
		if err != nil {
			return nil, fmt.Errorf("transport: bind :%d: %w", udpAddr.Port, err)
		}
		conn = pc.(*net.UDPConn)
	}
	return &UDPReceiver{conn: conn, buf: make([]byte, maxDatagram)}, nil
}

// LocalAddr is the bound address, useful when binding port 0.
func (r *UDPReceiver) LocalAddr() *net.UDPAddr {
	return r.conn.LocalAddr().(*net.UDPAddr)
}

func (r *UDPReceiver) Ready(timeout time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ready {
		return true, nil
	}
	if timeout < minReadWindow {
		timeout = minReadWindow
	}
	if err := r.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return false, r.wrap(err)
	}
	n, _, err := r.conn.ReadFromUDP(r.buf)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return false, nil
		}
		return false, r.wrap(err)
	}
	r.pending = append(r.pending[:0], r.buf[:n]...)
	r.ready = true
	r.stats.received(n)
	return true, nil
}

func (r *UDPReceiver) Available() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ready {
		return 0
	}
	return len(r.pending)
}

func (r *UDPReceiver) Receive(max int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.ready {
		return nil, nil
	}
	n := min(max, len(r.pending))
	out := make([]byte, n)
	copy(out, r.pending)
	r.ready = false
	r.pending = r.pending[:0]
	return out, nil
}

func (r *UDPReceiver) Stats() Stats { return r.stats.snapshot() }

func (r *UDPReceiver) Close() error {
	return r.conn.Close()
}

func (r *UDPReceiver) wrap(err error) error {
	if errors.Is(err, net.ErrClosed) {
		return ErrClosed
	}
	return fmt.Errorf("transport: receive: %w", err)
}

func lookupInterface(iface string) (*net.Interface, error) {
	if iface == "" {
		return nil, nil
	}
	if ip := net.ParseIP(iface); ip != nil {
		ifaces, err := net.Interfaces()
		if err != nil {
			return nil, fmt.Errorf("transport: list interfaces: %w", err)
		}
		for i := range ifaces {
			addrs, err := ifaces[i].Addrs()
			if err != nil {
				continue
			}
			for _, a := range addrs {
				if n, ok := a.(*net.IPNet); ok && n.IP.Equal(ip) {
					return &ifaces[i], nil
				}
			}
		}
		return nil, fmt.Errorf("transport: no interface has address %s", iface)
	}
	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		return nil, fmt.Errorf("transport: interface %q: %w", iface, err)
	}
	return ifi, nil
}
