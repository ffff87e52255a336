package host

import (
	"fmt"

	"github.com/danmuck/cigi/internal/protocol"
	"github.com/danmuck/cigi/internal/protocol/cursor"
)

// IGMode is the operating mode the Host asks the IG to enter.
type IGMode uint8

const (
	Standby IGMode = iota
	Operate
	Debug
)

// Reset is the same mode as Standby.
const Reset = Standby

func (m IGMode) String() string {
	switch m {
	case Standby:
		return "standby"
	case Operate:
		return "operate"
	case Debug:
		return "debug"
	default:
		return unknown(uint8(m))
	}
}

var (
	igModeBits          = protocol.BitField{Shift: 0, Width: 2}
	igTimestampBits     = protocol.BitField{Shift: 2, Width: 1}
	igExtrapolationBits = protocol.BitField{Shift: 3, Width: 1}
	igMinorVersionBits  = protocol.BitField{Shift: 4, Width: 4}
)

// IGControlFlags packs the mode, timestamp validity, extrapolation enable and
// minor version.
type IGControlFlags uint8

func (f IGControlFlags) Mode() IGMode         { return IGMode(igModeBits.Get(uint8(f))) }
func (f IGControlFlags) TimestampValid() bool { return igTimestampBits.Bool(uint8(f)) }
func (f IGControlFlags) Extrapolation() bool  { return igExtrapolationBits.Bool(uint8(f)) }
func (f IGControlFlags) MinorVersion() uint8  { return igMinorVersionBits.Get(uint8(f)) }
func (f *IGControlFlags) SetMode(m IGMode)    { *f = IGControlFlags(igModeBits.Set(uint8(*f), uint8(m))) }
func (f *IGControlFlags) SetTimestampValid(v bool) {
	*f = IGControlFlags(igTimestampBits.SetBool(uint8(*f), v))
}
func (f *IGControlFlags) SetExtrapolation(v bool) {
	*f = IGControlFlags(igExtrapolationBits.SetBool(uint8(*f), v))
}

// IGControl opens every Host frame. It carries the CIGI version and the
// byte-order magic, which are written by the codec and checked on decode.
type IGControl struct {
	DatabaseNumber    DatabaseNumber
	Flags             IGControlFlags
	HostFrameNumber   uint32
	Timestamp         uint32
	LastIGFrameNumber uint32
}

func (IGControl) PacketID() uint8   { return TagIGControl }
func (IGControl) PacketSize() uint8 { return 24 }

func (r IGControl) Encode() ([]byte, error) {
	c := cursor.New(int(r.PacketSize()))
	protocol.WriteHeader(c, r)
	c.PutU8(protocol.MajorVersion.Value())
	c.PutI8(r.DatabaseNumber.Get())
	c.PutU8(igMinorVersionBits.Set(uint8(r.Flags), protocol.MinorVersion.Value()))
	c.Skip(1)
	c.PutU16(protocol.ByteSwapMagic.Value())
	c.PutU32(r.HostFrameNumber)
	c.PutU32(r.Timestamp)
	c.PutU32(r.LastIGFrameNumber)
	return c.Bytes(), nil
}

func (r *IGControl) Decode(b []byte) error {
	c, err := protocol.ReadFrame(b, r)
	if err != nil {
		return err
	}
	if major := c.U8(); !protocol.MajorVersion.Is(major) {
		return fmt.Errorf("%w: major version %d", protocol.ErrMismatchedConstant, major)
	}
	var out IGControl
	out.DatabaseNumber.Value = c.I8()
	out.Flags = IGControlFlags(c.U8())
	c.Skip(1)
	if magic := c.U16(); !protocol.ByteSwapMagic.Is(magic) {
		return fmt.Errorf("%w: byte swap magic %#04x", protocol.ErrMismatchedConstant, magic)
	}
	out.HostFrameNumber = c.U32()
	out.Timestamp = c.U32()
	out.LastIGFrameNumber = c.U32()
	*r = out
	return nil
}

// GroundClamp keeps an entity on the ground or ocean surface.
type GroundClamp uint8

const (
	NoClamp GroundClamp = iota
	NonConformal
	Conformal
)

// AnimationState drives an animated entity.
type AnimationState uint8

const (
	AnimationStop AnimationState = iota
	AnimationPause
	AnimationPlay
	AnimationContinue
)

var (
	entityStateBits     = protocol.BitField{Shift: 0, Width: 2}
	entityAttachBits    = protocol.BitField{Shift: 2, Width: 1}
	entityCollisionBits = protocol.BitField{Shift: 3, Width: 1}
	entityInheritBits   = protocol.BitField{Shift: 4, Width: 1}
	entityClampBits     = protocol.BitField{Shift: 5, Width: 2}

	animDirectionBits = protocol.BitField{Shift: 0, Width: 1}
	animLoopBits      = protocol.BitField{Shift: 1, Width: 1}
	animStateBits     = protocol.BitField{Shift: 2, Width: 2}
	animExtrapBits    = protocol.BitField{Shift: 4, Width: 1}
)

// EntityFlags is the first flag byte of Entity Control.
type EntityFlags uint8

func (f EntityFlags) State() ActiveState       { return ActiveState(entityStateBits.Get(uint8(f))) }
func (f EntityFlags) Attached() bool           { return entityAttachBits.Bool(uint8(f)) }
func (f EntityFlags) CollisionDetection() bool { return entityCollisionBits.Bool(uint8(f)) }
func (f EntityFlags) InheritAlpha() bool       { return entityInheritBits.Bool(uint8(f)) }
func (f EntityFlags) GroundClamp() GroundClamp { return GroundClamp(entityClampBits.Get(uint8(f))) }
func (f *EntityFlags) SetState(s ActiveState)  { *f = EntityFlags(entityStateBits.Set(uint8(*f), uint8(s))) }
func (f *EntityFlags) SetAttached(v bool)      { *f = EntityFlags(entityAttachBits.SetBool(uint8(*f), v)) }
func (f *EntityFlags) SetInheritAlpha(v bool)  { *f = EntityFlags(entityInheritBits.SetBool(uint8(*f), v)) }
func (f *EntityFlags) SetGroundClamp(c GroundClamp) {
	*f = EntityFlags(entityClampBits.Set(uint8(*f), uint8(c)))
}
func (f *EntityFlags) SetCollisionDetection(v bool) {
	*f = EntityFlags(entityCollisionBits.SetBool(uint8(*f), v))
}

// AnimationFlags is the second flag byte of Entity Control.
type AnimationFlags uint8

func (f AnimationFlags) Backward() bool        { return animDirectionBits.Bool(uint8(f)) }
func (f AnimationFlags) Continuous() bool      { return animLoopBits.Bool(uint8(f)) }
func (f AnimationFlags) State() AnimationState { return AnimationState(animStateBits.Get(uint8(f))) }
func (f AnimationFlags) Extrapolation() bool   { return animExtrapBits.Bool(uint8(f)) }
func (f *AnimationFlags) SetBackward(v bool)   { *f = AnimationFlags(animDirectionBits.SetBool(uint8(*f), v)) }
func (f *AnimationFlags) SetContinuous(v bool) { *f = AnimationFlags(animLoopBits.SetBool(uint8(*f), v)) }
func (f *AnimationFlags) SetState(s AnimationState) {
	*f = AnimationFlags(animStateBits.Set(uint8(*f), uint8(s)))
}
func (f *AnimationFlags) SetExtrapolation(v bool) {
	*f = AnimationFlags(animExtrapBits.SetBool(uint8(*f), v))
}

// EntityControl positions a top-level entity geodetically, or a child entity
// by offsets from its parent. Latitude and Longitude double as the X and Y
// offsets for attached entities.
type EntityControl struct {
	EntityID   uint16
	Flags      EntityFlags
	Animation  AnimationFlags
	Alpha      uint8
	_          uint8
	EntityType uint16
	ParentID   uint16
	Roll       protocol.Roll
	Pitch      protocol.Pitch
	Yaw        protocol.Yaw
	Latitude   protocol.Latitude
	Longitude  protocol.Longitude
	Altitude   float64
}

func (EntityControl) PacketID() uint8   { return TagEntityControl }
func (EntityControl) PacketSize() uint8 { return 48 }

func (r EntityControl) Encode() ([]byte, error) { return protocol.EncodeFixed(r) }
func (r *EntityControl) Decode(b []byte) error  { return protocol.DecodeFixed(b, r) }

// Offsets returns the positional fields read as parent-relative offsets.
func (r EntityControl) Offsets() (x, y, z float64) {
	return r.Latitude.Value, r.Longitude.Value, r.Altitude
}

// SetOffsets stores parent-relative offsets without clamping them to
// geodetic ranges.
func (r *EntityControl) SetOffsets(x, y, z float64) {
	r.Latitude.Value, r.Longitude.Value, r.Altitude = x, y, z
}

var (
	rateApplyPartBits = protocol.BitField{Shift: 0, Width: 1}
	rateLocalBits     = protocol.BitField{Shift: 1, Width: 1}
)

// RateFlags selects whether rates apply to an articulated part and whether
// they are expressed in the local frame.
type RateFlags uint8

func (f RateFlags) ApplyToPart() bool      { return rateApplyPartBits.Bool(uint8(f)) }
func (f RateFlags) Local() bool            { return rateLocalBits.Bool(uint8(f)) }
func (f *RateFlags) SetApplyToPart(v bool) { *f = RateFlags(rateApplyPartBits.SetBool(uint8(*f), v)) }
func (f *RateFlags) SetLocal(v bool)       { *f = RateFlags(rateLocalBits.SetBool(uint8(*f), v)) }

// RateControl sets linear and angular rates for an entity or articulated part.
type RateControl struct {
	EntityID  uint16
	PartID    uint8
	Flags     RateFlags
	_         uint16
	XRate     float32
	YRate     float32
	ZRate     float32
	RollRate  float32
	PitchRate float32
	YawRate   float32
}

func (RateControl) PacketID() uint8   { return TagRateControl }
func (RateControl) PacketSize() uint8 { return 32 }

func (r RateControl) Encode() ([]byte, error) { return protocol.EncodeFixed(r) }
func (r *RateControl) Decode(b []byte) error  { return protocol.DecodeFixed(b, r) }

// ViewFlags enables each of the six view offset components.
type ViewFlags uint8

const (
	ViewX ViewFlags = 1 << iota
	ViewY
	ViewZ
	ViewRoll
	ViewPitch
	ViewYaw
)

func (f ViewFlags) Has(bit ViewFlags) bool { return f&bit != 0 }

// ViewControl attaches a view or view group to an entity.
type ViewControl struct {
	ViewID   uint16
	GroupID  uint8
	Flags    ViewFlags
	EntityID uint16
	X        float32
	Y        float32
	Z        float32
	Roll     protocol.Roll
	Pitch    protocol.Pitch
	Yaw      protocol.Yaw
}

func (ViewControl) PacketID() uint8   { return TagViewControl }
func (ViewControl) PacketSize() uint8 { return 32 }

func (r ViewControl) Encode() ([]byte, error) { return protocol.EncodeFixed(r) }
func (r *ViewControl) Decode(b []byte) error  { return protocol.DecodeFixed(b, r) }
