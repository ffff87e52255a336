package ig

import "github.com/danmuck/cigi/internal/protocol"

var (
	hatValidBits = protocol.BitField{Shift: 0, Width: 1}
	hatKindBits  = protocol.BitField{Shift: 1, Width: 1}
	hatFrameBits = protocol.BitField{Shift: 4, Width: 4}
)

// HATHOTFlags carries validity, the kind of height reported and the low
// nibble of the host frame the answer belongs to.
type HATHOTFlags uint8

func (f HATHOTFlags) Valid() bool { return hatValidBits.Bool(uint8(f)) }

// HeightOfTerrain reports a HOT answer; false means HAT.
func (f HATHOTFlags) HeightOfTerrain() bool { return hatKindBits.Bool(uint8(f)) }
func (f HATHOTFlags) HostFrameLSN() uint8   { return hatFrameBits.Get(uint8(f)) }
func (f *HATHOTFlags) SetValid(v bool)      { *f = HATHOTFlags(hatValidBits.SetBool(uint8(*f), v)) }
func (f *HATHOTFlags) SetHeightOfTerrain(v bool) {
	*f = HATHOTFlags(hatKindBits.SetBool(uint8(*f), v))
}
func (f *HATHOTFlags) SetHostFrameLSN(n uint8) {
	*f = HATHOTFlags(hatFrameBits.Set(uint8(*f), n))
}

// HATHOTResponse answers a HAT/HOT Request with a single height.
type HATHOTResponse struct {
	RequestID uint16
	Flags     HATHOTFlags
	_         uint8
	_         uint16
	Height    float64
}

func (HATHOTResponse) PacketID() uint8   { return TagHATHOTResponse }
func (HATHOTResponse) PacketSize() uint8 { return 16 }

func (r HATHOTResponse) Encode() ([]byte, error) { return protocol.EncodeFixed(r) }
func (r *HATHOTResponse) Decode(b []byte) error  { return protocol.DecodeFixed(b, r) }

// ObjectClass identifies what a Position Response describes.
type ObjectClass uint8

const (
	ClassEntity ObjectClass = iota
	ClassArticulatedPart
	ClassView
	ClassViewGroup
	ClassMotionTracker
)

// PositionFrame is the reference frame of a Position Response.
type PositionFrame uint8

const (
	FrameGeodetic PositionFrame = iota
	FrameParentEntity
	FrameSubmodel
)

var (
	posClassBits = protocol.BitField{Shift: 0, Width: 3}
	posFrameBits = protocol.BitField{Shift: 3, Width: 2}
)

type PositionFlags uint8

func (f PositionFlags) Class() ObjectClass   { return ObjectClass(posClassBits.Get(uint8(f))) }
func (f PositionFlags) Frame() PositionFrame { return PositionFrame(posFrameBits.Get(uint8(f))) }
func (f *PositionFlags) SetClass(c ObjectClass) {
	*f = PositionFlags(posClassBits.Set(uint8(*f), uint8(c)))
}
func (f *PositionFlags) SetFrame(p PositionFrame) {
	*f = PositionFlags(posFrameBits.Set(uint8(*f), uint8(p)))
}

// PositionResponse reports the position and attitude of an object. Outside
// the geodetic frame Latitude, Longitude and Altitude hold X, Y and Z offsets.
type PositionResponse struct {
	ObjectID  uint16
	PartID    uint8
	Flags     PositionFlags
	_         uint16
	Latitude  protocol.Latitude
	Longitude protocol.Longitude
	Altitude  float64
	Roll      protocol.Roll
	Pitch     protocol.Pitch
	Yaw       protocol.Yaw
	_         uint32
}

func (PositionResponse) PacketID() uint8   { return TagPositionResponse }
func (PositionResponse) PacketSize() uint8 { return 48 }

func (r PositionResponse) Encode() ([]byte, error) { return protocol.EncodeFixed(r) }
func (r *PositionResponse) Decode(b []byte) error  { return protocol.DecodeFixed(b, r) }
