// Package frame splits datagrams into the records they carry.
//
// A datagram is zero or more records back to back. Each record starts with a
// tag byte and a size byte; the size counts the whole record.
package frame

import (
	"errors"
	"fmt"
)

// HeaderLen is the tag byte plus the size byte.
const HeaderLen = 2

var (
	ErrShortHeader = errors.New("frame: short record header")
	ErrZeroSize    = errors.New("frame: zero record size")
	ErrOverrun     = errors.New("frame: record runs past datagram")
)

// Header is the self-describing prefix of every record.
type Header struct {
	Tag  uint8
	Size uint8
}

// Stop says why a scan ended.
type Stop uint8

const (
	// Complete means every byte of the datagram was consumed.
	Complete Stop = iota
	// ZeroSize means a record declared size zero.
	ZeroSize
	// Truncated means the last record, or its header, ran past the datagram.
	Truncated
)

func (s Stop) String() string {
	switch s {
	case Complete:
		return "complete"
	case ZeroSize:
		return "zero_size"
	case Truncated:
		return "truncated"
	default:
		return fmt.Sprintf("stop(%d)", uint8(s))
	}
}

// Err maps a stop reason to its sentinel error, nil for Complete.
func (s Stop) Err() error {
	switch s {
	case ZeroSize:
		return ErrZeroSize
	case Truncated:
		return ErrOverrun
	default:
		return nil
	}
}

// DecodeHeader reads the header at the start of b.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderLen {
		return Header{}, ErrShortHeader
	}
	return Header{Tag: b[0], Size: b[1]}, nil
}

// Scan is the result of splitting one datagram.
type Scan struct {
	Records [][]byte
	// Tail holds the bytes left unread when Stop is not Complete.
	Tail []byte
	Stop Stop
}

// Split returns the records of datagram in order. Records alias datagram and
// are capped so appends cannot spill into a neighbour. Scanning stops at the
// first record with a zero size or one that does not fit.
func Split(datagram []byte) Scan {
	var out Scan
	off := 0
	for off < len(datagram) {
		h, err := DecodeHeader(datagram[off:])
		if err != nil {
			out.Stop = Truncated
			break
		}
		if h.Size == 0 {
			out.Stop = ZeroSize
			break
		}
		end := off + int(h.Size)
		if end > len(datagram) {
			out.Stop = Truncated
			break
		}
		out.Records = append(out.Records, datagram[off:end:end])
		off = end
	}
	if out.Stop != Complete {
		out.Tail = datagram[off:]
	}
	return out
}

// Append adds record to the datagram being built in dst and reports whether
// it fit within mtu. dst is returned unchanged when it did not.
func Append(dst, record []byte, mtu int) ([]byte, bool) {
	if len(dst)+len(record) >= mtu {
		return dst, false
	}
	return append(dst, record...), true
}
