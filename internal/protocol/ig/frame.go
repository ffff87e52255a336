package ig

import (
	"fmt"

	"github.com/danmuck/cigi/internal/protocol"
	"github.com/danmuck/cigi/internal/protocol/cursor"
)

// Mode is the IG's current operating mode.
type Mode uint8

const (
	Standby Mode = iota
	Operate
	Debug
	OfflineMaintenance
)

// Reset is the same mode as Standby.
const Reset = Standby

func (m Mode) String() string {
	switch m {
	case Standby:
		return "standby"
	case Operate:
		return "operate"
	case Debug:
		return "debug"
	case OfflineMaintenance:
		return "offline_maintenance"
	default:
		return unknown(uint8(m))
	}
}

// EarthModel is the reference ellipsoid the IG uses.
type EarthModel uint8

const (
	WGS84 EarthModel = iota
	HostDefined
)

var (
	sofModeBits      = protocol.BitField{Shift: 0, Width: 2}
	sofTimestampBits = protocol.BitField{Shift: 2, Width: 1}
	sofEarthBits     = protocol.BitField{Shift: 3, Width: 1}
	sofMinorBits     = protocol.BitField{Shift: 4, Width: 4}
)

type FrameFlags uint8

func (f FrameFlags) Mode() Mode             { return Mode(sofModeBits.Get(uint8(f))) }
func (f FrameFlags) TimestampValid() bool   { return sofTimestampBits.Bool(uint8(f)) }
func (f FrameFlags) EarthModel() EarthModel { return EarthModel(sofEarthBits.Get(uint8(f))) }
func (f FrameFlags) MinorVersion() uint8    { return sofMinorBits.Get(uint8(f)) }
func (f *FrameFlags) SetMode(m Mode)        { *f = FrameFlags(sofModeBits.Set(uint8(*f), uint8(m))) }
func (f *FrameFlags) SetTimestampValid(v bool) {
	*f = FrameFlags(sofTimestampBits.SetBool(uint8(*f), v))
}
func (f *FrameFlags) SetEarthModel(m EarthModel) {
	*f = FrameFlags(sofEarthBits.Set(uint8(*f), uint8(m)))
}

// StartOfFrame opens every IG frame. A negative DatabaseNumber means the
// database is still loading.
type StartOfFrame struct {
	DatabaseNumber      int8
	Status              uint8
	Flags               FrameFlags
	IGFrameNumber       uint32
	Timestamp           uint32
	LastHostFrameNumber uint32
}

func (StartOfFrame) PacketID() uint8   { return TagStartOfFrame }
func (StartOfFrame) PacketSize() uint8 { return 24 }

func (r StartOfFrame) Encode() ([]byte, error) {
	c := cursor.New(int(r.PacketSize()))
	protocol.WriteHeader(c, r)
	c.PutU8(protocol.MajorVersion.Value())
	c.PutI8(r.DatabaseNumber)
	c.PutU8(r.Status)
	c.PutU8(sofMinorBits.Set(uint8(r.Flags), protocol.MinorVersion.Value()))
	c.PutU16(protocol.ByteSwapMagic.Value())
	c.PutU32(r.IGFrameNumber)
	c.PutU32(r.Timestamp)
	c.PutU32(r.LastHostFrameNumber)
	return c.Bytes(), nil
}

func (r *StartOfFrame) Decode(b []byte) error {
	c, err := protocol.ReadFrame(b, r)
	if err != nil {
		return err
	}
	if major := c.U8(); !protocol.MajorVersion.Is(major) {
		return fmt.Errorf("%w: major version %d", protocol.ErrMismatchedConstant, major)
	}
	var out StartOfFrame
	out.DatabaseNumber = c.I8()
	out.Status = c.U8()
	out.Flags = FrameFlags(c.U8())
	if magic := c.U16(); !protocol.ByteSwapMagic.Is(magic) {
		return fmt.Errorf("%w: byte swap magic %#04x", protocol.ErrMismatchedConstant, magic)
	}
	out.IGFrameNumber = c.U32()
	out.Timestamp = c.U32()
	out.LastHostFrameNumber = c.U32()
	*r = out
	return nil
}
