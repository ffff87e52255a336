package ig

import (
	"math"

	"github.com/danmuck/cigi/internal/protocol"
)

var collisionEntityBits = protocol.BitField{Shift: 0, Width: 1}

type CollisionFlags uint8

// WithEntity reports a collision with another entity rather than terrain.
func (f CollisionFlags) WithEntity() bool { return collisionEntityBits.Bool(uint8(f)) }
func (f *CollisionFlags) SetWithEntity(v bool) {
	*f = CollisionFlags(collisionEntityBits.SetBool(uint8(*f), v))
}

// CollisionSegmentNotification reports that a collision segment of an entity
// intersected something.
type CollisionSegmentNotification struct {
	EntityID          uint16
	SegmentID         uint8
	Flags             CollisionFlags
	ContactedEntityID uint16
	MaterialCode      uint32
	Distance          float32
}

func (CollisionSegmentNotification) PacketID() uint8   { return TagCollisionSegmentNotification }
func (CollisionSegmentNotification) PacketSize() uint8 { return 16 }

func (r CollisionSegmentNotification) Encode() ([]byte, error) { return protocol.EncodeFixed(r) }
func (r *CollisionSegmentNotification) Decode(b []byte) error  { return protocol.DecodeFixed(b, r) }

// AnimationStopNotification reports that an entity's animation finished.
type AnimationStopNotification struct {
	EntityID uint16
	_        uint32
}

func (AnimationStopNotification) PacketID() uint8   { return TagAnimationStopNotification }
func (AnimationStopNotification) PacketSize() uint8 { return 8 }

func (r AnimationStopNotification) Encode() ([]byte, error) { return protocol.EncodeFixed(r) }
func (r *AnimationStopNotification) Decode(b []byte) error  { return protocol.DecodeFixed(b, r) }

// Offsets into the event payload, by unit size. Out-of-range offsets clamp to
// the last slot.
type (
	byteOffset  struct{}
	wordOffset  struct{}
	dwordOffset struct{}
)

func (byteOffset) Bounds() (uint8, uint8)  { return 0, 11 }
func (wordOffset) Bounds() (uint8, uint8)  { return 0, 5 }
func (dwordOffset) Bounds() (uint8, uint8) { return 0, 2 }

// EventNotification carries an IG-defined event with twelve bytes of
// payload. The accessors address the payload as bytes, 16-bit words or
// 32-bit dwords within its three dwords.
type EventNotification struct {
	EventID uint16
	Data    [3]uint32
}

func (EventNotification) PacketID() uint8   { return TagEventNotification }
func (EventNotification) PacketSize() uint8 { return 16 }

func (r EventNotification) Encode() ([]byte, error) { return protocol.EncodeFixed(r) }
func (r *EventNotification) Decode(b []byte) error  { return protocol.DecodeFixed(b, r) }

func (r EventNotification) U8(i uint8) uint8 {
	i = protocol.Clamp[uint8, byteOffset](i)
	return uint8(r.Data[i/4] >> (i % 4 * 8))
}

func (r *EventNotification) SetU8(i, v uint8) {
	i = protocol.Clamp[uint8, byteOffset](i)
	shift := i % 4 * 8
	r.Data[i/4] = r.Data[i/4]&^(0xff<<shift) | uint32(v)<<shift
}

func (r EventNotification) I8(i uint8) int8        { return int8(r.U8(i)) }
func (r *EventNotification) SetI8(i uint8, v int8) { r.SetU8(i, uint8(v)) }

func (r EventNotification) U16(i uint8) uint16 {
	i = protocol.Clamp[uint8, wordOffset](i)
	return uint16(r.Data[i/2] >> (i % 2 * 16))
}

func (r *EventNotification) SetU16(i uint8, v uint16) {
	i = protocol.Clamp[uint8, wordOffset](i)
	shift := i % 2 * 16
	r.Data[i/2] = r.Data[i/2]&^(0xffff<<shift) | uint32(v)<<shift
}

func (r EventNotification) I16(i uint8) int16        { return int16(r.U16(i)) }
func (r *EventNotification) SetI16(i uint8, v int16) { r.SetU16(i, uint16(v)) }

func (r EventNotification) U32(i uint8) uint32 {
	return r.Data[protocol.Clamp[uint8, dwordOffset](i)]
}

func (r *EventNotification) SetU32(i uint8, v uint32) {
	r.Data[protocol.Clamp[uint8, dwordOffset](i)] = v
}

func (r EventNotification) I32(i uint8) int32          { return int32(r.U32(i)) }
func (r *EventNotification) SetI32(i uint8, v int32)   { r.SetU32(i, uint32(v)) }
func (r EventNotification) F32(i uint8) float32        { return math.Float32frombits(r.U32(i)) }
func (r *EventNotification) SetF32(i uint8, v float32) { r.SetU32(i, math.Float32bits(v)) }

// Bit reports payload bit i, counted from bit 0 of the first dword.
func (r EventNotification) Bit(i uint8) bool {
	if i >= 96 {
		i = 95
	}
	return r.Data[i/32]>>(i%32)&1 != 0
}

func (r *EventNotification) SetBit(i uint8, v bool) {
	if i >= 96 {
		i = 95
	}
	if v {
		r.Data[i/32] |= 1 << (i % 32)
	} else {
		r.Data[i/32] &^= 1 << (i % 32)
	}
}
