package protocol

import (
	"encoding/binary"
	"fmt"

	"github.com/danmuck/cigi/internal/protocol/cursor"
)

// EncodeFixed encodes a fixed-layout record: tag, size, then the binary image
// of rec. The image must account for every byte after the header.
//
// When the declared size disagrees with the layout the result is a zeroed
// buffer of the declared size and ErrNonConstantPacketSize.
func EncodeFixed(rec Record) ([]byte, error) {
	size := int(rec.PacketSize())
	if err := checkLayout(rec); err != nil {
		return make([]byte, size), err
	}
	c := cursor.New(size)
	WriteHeader(c, rec)
	if err := c.PutValue(rec); err != nil {
		return c.Bytes(), fmt.Errorf("%w: tag %d: %v", ErrNonConstantPacketSize, rec.PacketID(), err)
	}
	return c.Bytes(), nil
}

// WriteHeader writes the tag and size bytes of rec at the cursor position.
func WriteHeader(c *cursor.Cursor, rec Record) {
	c.PutU8(rec.PacketID())
	c.PutU8(rec.PacketSize())
}

// FixedSize reports the binary image size of rec plus the record header, or
// -1 when rec has no fixed layout.
func FixedSize(rec Record) int {
	n := binary.Size(rec)
	if n < 0 {
		return -1
	}
	return n + HeaderSize
}

func checkLayout(rec Record) error {
	if got := FixedSize(rec); got != int(rec.PacketSize()) {
		return fmt.Errorf("%w: tag %d declares %d bytes, layout is %d",
			ErrNonConstantPacketSize, rec.PacketID(), rec.PacketSize(), got)
	}
	return nil
}
