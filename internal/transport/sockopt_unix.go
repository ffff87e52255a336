//go:build unix

package transport

import (
	"syscall"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// controlSend lets a send socket reuse its address and reach broadcast
// destinations.
func controlSend(network, address string, c syscall.RawConn) error {
	return setOptions(c, unix.SO_REUSEADDR, unix.SO_BROADCAST)
}

// controlReceive lets several receivers share a port.
func controlReceive(network, address string, c syscall.RawConn) error {
	return setOptions(c, unix.SO_REUSEADDR)
}

func setOptions(c syscall.RawConn, opts ...int) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		for _, opt := range opts {
			if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, opt, 1); err != nil {
				log.Warn().Err(err).Int("option", opt).Msg("transport: setsockopt failed")
				sockErr = err
				return
			}
		}
	})
	if err != nil {
		return err
	}
	return sockErr
}
