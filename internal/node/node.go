// Package node runs the two ends of a CIGI exchange: a Host frame loop that
// answers each StartOfFrame with an IGControl, and an IG emulator that opens
// frames at a fixed rate.
package node

import (
	"context"
	"fmt"
	"time"

	"github.com/danmuck/cigi/internal/protocol"
	"github.com/rs/zerolog/log"
)

type Node interface {
	Role() string
	Run(ctx context.Context) error
}

// timestampTick is the resolution of CIGI frame timestamps.
const timestampTick = 10 * time.Microsecond

func timestamp(start time.Time) uint32 {
	return uint32(time.Since(start) / timestampTick)
}

func newRegistry(register func(*protocol.Registry) error) *protocol.Registry {
	reg := protocol.NewRegistry()
	if err := register(reg); err != nil {
		// Each package registers distinct tags; a failure is a programming error.
		panic(fmt.Sprintf("node: register records: %v", err))
	}
	return reg
}

func logPacket(role string, p protocol.Packet) {
	log.Debug().
		Str("role", role).
		Uint8("tag", p.PacketID()).
		Uint8("size", p.PacketSize()).
		Str("type", fmt.Sprintf("%T", p)).
		Msg("node: record received")
}
