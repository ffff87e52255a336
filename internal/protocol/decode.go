package protocol

import (
	"fmt"

	"github.com/danmuck/cigi/internal/protocol/cursor"
)

// CheckFrame validates the leading record in b against an expected tag and an
// inclusive range of declared sizes, and returns the declared size.
func CheckFrame(b []byte, tag, lo, hi uint8) (uint8, error) {
	if len(b) < HeaderSize {
		return 0, fmt.Errorf("%w: %d byte buffer has no header", ErrMismatchedConstant, len(b))
	}
	if b[0] != tag {
		return 0, fmt.Errorf("%w: tag %d, want %d", ErrMismatchedConstant, b[0], tag)
	}
	size := b[1]
	if len(b) < int(size) {
		return 0, fmt.Errorf("%w: tag %d declares %d bytes, buffer holds %d",
			ErrMismatchedConstant, tag, size, len(b))
	}
	if size < lo || size > hi {
		return 0, fmt.Errorf("%w: tag %d size %d outside [%d, %d]",
			ErrMismatchedConstant, tag, size, lo, hi)
	}
	return size, nil
}

// CheckFixed runs the framing check for a record of constant size.
func CheckFixed(b []byte, rec Record) error {
	_, err := CheckFrame(b, rec.PacketID(), rec.PacketSize(), rec.PacketSize())
	return err
}

// CheckVariable runs the framing check for a variable record whose size
// descriptor is bounded by R.
func CheckVariable[R Range[uint8]](b []byte, tag uint8) (uint8, error) {
	var r R
	lo, hi := r.Bounds()
	return CheckFrame(b, tag, lo, hi)
}

// DecodeFixed fills the record pointed to by rec from b. rec is untouched
// unless the framing check passes.
func DecodeFixed(b []byte, rec Record) error {
	if err := CheckFixed(b, rec); err != nil {
		return err
	}
	if err := checkLayout(rec); err != nil {
		return err
	}
	c := cursor.Wrap(b[:rec.PacketSize()])
	c.Skip(HeaderSize)
	return c.Value(rec)
}

// ReadFrame runs the framing check for rec and returns a cursor over its
// declared bytes, positioned past the header. Hand-written codecs use it.
func ReadFrame(b []byte, rec Record) (*cursor.Cursor, error) {
	if err := CheckFixed(b, rec); err != nil {
		return nil, err
	}
	c := cursor.Wrap(b[:rec.PacketSize()])
	c.Skip(HeaderSize)
	return c, nil
}
