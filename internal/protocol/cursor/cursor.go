// Package cursor provides the fixed-capacity byte buffer used by record codecs.
//
// Values are written and read in host byte order. A Cursor never grows: callers
// size it from the record's size descriptor before encoding and must not consume
// past its length when decoding.
package cursor

import (
	"encoding/binary"
	"errors"
	"math"
)

// Order is the byte order every record is encoded in.
var Order = binary.NativeEndian

var (
	ErrShortBuffer  = errors.New("cursor: short buffer")
	ErrNotFixedSize = errors.New("cursor: value has no fixed binary size")
)

// Cursor is an owned byte region with a single read/write position.
type Cursor struct {
	buf []byte
	off int
}

// New returns a zeroed cursor of exactly size bytes positioned at 0.
func New(size int) *Cursor {
	return &Cursor{buf: make([]byte, size)}
}

// Wrap takes ownership of b. The caller must not use b afterwards.
func Wrap(b []byte) *Cursor {
	return &Cursor{buf: b}
}

func (c *Cursor) Bytes() []byte  { return c.buf }
func (c *Cursor) Len() int       { return len(c.buf) }
func (c *Cursor) Offset() int    { return c.off }
func (c *Cursor) Remaining() int { return len(c.buf) - c.off }

// Rewind moves the position back to the start of the buffer.
func (c *Cursor) Rewind() { c.off = 0 }

// Skip advances the position by n bytes without touching them.
func (c *Cursor) Skip(n int) {
	c.off += n
	if c.off > len(c.buf) {
		c.off = len(c.buf)
	}
}

func (c *Cursor) PutU8(v uint8) {
	c.buf[c.off] = v
	c.off++
}

func (c *Cursor) PutI8(v int8) { c.PutU8(uint8(v)) }

func (c *Cursor) PutU16(v uint16) {
	Order.PutUint16(c.buf[c.off:c.off+2], v)
	c.off += 2
}

func (c *Cursor) PutI16(v int16) { c.PutU16(uint16(v)) }

func (c *Cursor) PutU32(v uint32) {
	Order.PutUint32(c.buf[c.off:c.off+4], v)
	c.off += 4
}

func (c *Cursor) PutI32(v int32) { c.PutU32(uint32(v)) }

func (c *Cursor) PutU64(v uint64) {
	Order.PutUint64(c.buf[c.off:c.off+8], v)
	c.off += 8
}

func (c *Cursor) PutI64(v int64)   { c.PutU64(uint64(v)) }
func (c *Cursor) PutF32(v float32) { c.PutU32(math.Float32bits(v)) }
func (c *Cursor) PutF64(v float64) { c.PutU64(math.Float64bits(v)) }

// PutBytes copies p at the position and advances by len(p).
func (c *Cursor) PutBytes(p []byte) {
	n := copy(c.buf[c.off:c.off+len(p)], p)
	c.off += n
}

func (c *Cursor) U8() uint8 {
	v := c.buf[c.off]
	c.off++
	return v
}

func (c *Cursor) I8() int8 { return int8(c.U8()) }

func (c *Cursor) U16() uint16 {
	v := Order.Uint16(c.buf[c.off : c.off+2])
	c.off += 2
	return v
}

func (c *Cursor) I16() int16 { return int16(c.U16()) }

func (c *Cursor) U32() uint32 {
	v := Order.Uint32(c.buf[c.off : c.off+4])
	c.off += 4
	return v
}

func (c *Cursor) I32() int32 { return int32(c.U32()) }

func (c *Cursor) U64() uint64 {
	v := Order.Uint64(c.buf[c.off : c.off+8])
	c.off += 8
	return v
}

func (c *Cursor) I64() int64   { return int64(c.U64()) }
func (c *Cursor) F32() float32 { return math.Float32frombits(c.U32()) }
func (c *Cursor) F64() float64 { return math.Float64frombits(c.U64()) }

// Next returns the next n bytes without copying and advances past them.
func (c *Cursor) Next(n int) []byte {
	out := c.buf[c.off : c.off+n]
	c.off += n
	return out
}

// PutValue writes the binary image of a fixed-size value (see encoding/binary)
// at the position.
func (c *Cursor) PutValue(v any) error {
	if err := c.fits(v); err != nil {
		return err
	}
	n, err := binary.Encode(c.buf[c.off:], Order, v)
	if err != nil {
		return err
	}
	c.off += n
	return nil
}

// Value fills the fixed-size value pointed to by v from the position.
func (c *Cursor) Value(v any) error {
	if err := c.fits(v); err != nil {
		return err
	}
	n, err := binary.Decode(c.buf[c.off:], Order, v)
	if err != nil {
		return err
	}
	c.off += n
	return nil
}

func (c *Cursor) fits(v any) error {
	size := binary.Size(v)
	if size < 0 {
		return ErrNotFixedSize
	}
	if size > c.Remaining() {
		return ErrShortBuffer
	}
	return nil
}
