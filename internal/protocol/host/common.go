package host

import (
	"strconv"

	"github.com/danmuck/cigi/internal/protocol"
)

// Record tags.
const (
	TagIGControl              uint8 = 1
	TagEntityControl          uint8 = 2
	TagRateControl            uint8 = 8
	TagViewControl            uint8 = 16
	TagHATHOTRequest          uint8 = 24
	TagPositionRequest        uint8 = 27
	TagSymbolTextDefinition   uint8 = 30
	TagSymbolCircleDefinition uint8 = 31
	TagSymbolLineDefinition   uint8 = 32
	TagSymbolClone            uint8 = 33
)

// Register adds every host record to r.
func Register(r *protocol.Registry) error {
	regs := []func(*protocol.Registry) error{
		protocol.Register[IGControl],
		protocol.Register[EntityControl],
		protocol.Register[RateControl],
		protocol.Register[ViewControl],
		protocol.Register[HATHOTRequest],
		protocol.Register[PositionRequest],
		protocol.Register[SymbolTextDefinition],
		protocol.Register[SymbolCircleDefinition],
		protocol.Register[SymbolLineDefinition],
		protocol.Register[SymbolClone],
	}
	for _, reg := range regs {
		if err := reg(r); err != nil {
			return err
		}
	}
	return nil
}

// DatabaseRange bounds the database number a Host may request.
type DatabaseRange struct{}

func (DatabaseRange) Bounds() (int8, int8) { return 0, 127 }

type DatabaseNumber = protocol.Bounded[int8, DatabaseRange]

// ActiveState is the lifecycle state of an entity.
type ActiveState uint8

const (
	Inactive ActiveState = iota
	Active
	Destroyed
)

func (s ActiveState) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Destroyed:
		return "destroyed"
	default:
		return unknown(uint8(s))
	}
}

// Coordinates selects the frame positional fields are expressed in.
type Coordinates uint8

const (
	Geodetic Coordinates = iota
	EntityRelative
)

func (c Coordinates) String() string {
	switch c {
	case Geodetic:
		return "geodetic"
	case EntityRelative:
		return "entity"
	default:
		return unknown(uint8(c))
	}
}

func unknown(v uint8) string {
	return "unknown(" + strconv.Itoa(int(v)) + ")"
}
