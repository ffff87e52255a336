// Package ig defines the records an Image Generator sends back to its Host.
package ig

import (
	"strconv"

	"github.com/danmuck/cigi/internal/protocol"
)

// Record tags.
const (
	TagStartOfFrame                 uint8 = 101
	TagHATHOTResponse               uint8 = 102
	TagPositionResponse             uint8 = 108
	TagCollisionSegmentNotification uint8 = 113
	TagAnimationStopNotification    uint8 = 115
	TagEventNotification            uint8 = 116
	TagImageGeneratorMessage        uint8 = 117
)

// Register adds every IG record to r.
func Register(r *protocol.Registry) error {
	regs := []func(*protocol.Registry) error{
		protocol.Register[StartOfFrame],
		protocol.Register[HATHOTResponse],
		protocol.Register[PositionResponse],
		protocol.Register[CollisionSegmentNotification],
		protocol.Register[AnimationStopNotification],
		protocol.Register[EventNotification],
		protocol.Register[ImageGeneratorMessage],
	}
	for _, reg := range regs {
		if err := reg(r); err != nil {
			return err
		}
	}
	return nil
}

func unknown(v uint8) string {
	return "unknown(" + strconv.Itoa(int(v)) + ")"
}
