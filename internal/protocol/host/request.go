package host

import "github.com/danmuck/cigi/internal/protocol"

// HATHOTKind selects what a height query returns.
type HATHOTKind uint8

const (
	HeightAboveTerrain HATHOTKind = iota
	HeightOfTerrain
	HATHOTExtended
)

func (k HATHOTKind) String() string {
	switch k {
	case HeightAboveTerrain:
		return "hat"
	case HeightOfTerrain:
		return "hot"
	case HATHOTExtended:
		return "extended"
	default:
		return unknown(uint8(k))
	}
}

var (
	hatKindBits   = protocol.BitField{Shift: 0, Width: 2}
	hatCoordsBits = protocol.BitField{Shift: 2, Width: 1}
)

type HATHOTFlags uint8

func (f HATHOTFlags) Kind() HATHOTKind         { return HATHOTKind(hatKindBits.Get(uint8(f))) }
func (f HATHOTFlags) Coordinates() Coordinates { return Coordinates(hatCoordsBits.Get(uint8(f))) }
func (f *HATHOTFlags) SetKind(k HATHOTKind)    { *f = HATHOTFlags(hatKindBits.Set(uint8(*f), uint8(k))) }
func (f *HATHOTFlags) SetCoordinates(c Coordinates) {
	*f = HATHOTFlags(hatCoordsBits.Set(uint8(*f), uint8(c)))
}

// HATHOTRequest asks the IG for height above or of terrain at a point. An
// UpdatePeriod of zero requests a single answer.
type HATHOTRequest struct {
	RequestID    uint16
	Flags        HATHOTFlags
	UpdatePeriod uint8
	EntityID     uint16
	Latitude     protocol.Latitude
	Longitude    protocol.Longitude
	Altitude     float64
}

func (HATHOTRequest) PacketID() uint8   { return TagHATHOTRequest }
func (HATHOTRequest) PacketSize() uint8 { return 32 }

func (r HATHOTRequest) Encode() ([]byte, error) { return protocol.EncodeFixed(r) }
func (r *HATHOTRequest) Decode(b []byte) error  { return protocol.DecodeFixed(b, r) }

// ObjectClass identifies what a Position Request refers to.
type ObjectClass uint8

const (
	ClassEntity ObjectClass = iota
	ClassArticulatedPart
	ClassView
	ClassViewGroup
	ClassMotionTracker
)

func (c ObjectClass) String() string {
	switch c {
	case ClassEntity:
		return "entity"
	case ClassArticulatedPart:
		return "articulated_part"
	case ClassView:
		return "view"
	case ClassViewGroup:
		return "view_group"
	case ClassMotionTracker:
		return "motion_tracker"
	default:
		return unknown(uint8(c))
	}
}

// PositionFrame is the reference frame of a Position Request.
type PositionFrame uint8

const (
	FrameGeodetic PositionFrame = iota
	FrameParentEntity
	FrameSubmodel
)

var (
	posUpdateBits = protocol.BitField{Shift: 0, Width: 1}
	posClassBits  = protocol.BitField{Shift: 1, Width: 3}
	posFrameBits  = protocol.BitField{Shift: 4, Width: 2}
)

type PositionRequestFlags uint8

func (f PositionRequestFlags) Continuous() bool     { return posUpdateBits.Bool(uint8(f)) }
func (f PositionRequestFlags) Class() ObjectClass   { return ObjectClass(posClassBits.Get(uint8(f))) }
func (f PositionRequestFlags) Frame() PositionFrame { return PositionFrame(posFrameBits.Get(uint8(f))) }
func (f *PositionRequestFlags) SetContinuous(v bool) {
	*f = PositionRequestFlags(posUpdateBits.SetBool(uint8(*f), v))
}
func (f *PositionRequestFlags) SetClass(c ObjectClass) {
	*f = PositionRequestFlags(posClassBits.Set(uint8(*f), uint8(c)))
}
func (f *PositionRequestFlags) SetFrame(p PositionFrame) {
	*f = PositionRequestFlags(posFrameBits.Set(uint8(*f), uint8(p)))
}

// PositionRequest asks the IG to report the position of an object.
type PositionRequest struct {
	ObjectID uint16
	PartID   uint8
	Flags    PositionRequestFlags
	_        uint16
}

func (PositionRequest) PacketID() uint8   { return TagPositionRequest }
func (PositionRequest) PacketSize() uint8 { return 8 }

func (r PositionRequest) Encode() ([]byte, error) { return protocol.EncodeFixed(r) }
func (r *PositionRequest) Decode(b []byte) error  { return protocol.DecodeFixed(b, r) }
