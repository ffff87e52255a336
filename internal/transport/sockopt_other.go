//go:build !unix

package transport

import "syscall"

func controlSend(network, address string, c syscall.RawConn) error    { return nil }
func controlReceive(network, address string, c syscall.RawConn) error { return nil }
