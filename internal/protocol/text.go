package protocol

import "bytes"

// Align is the granularity every encoded record size is a multiple of.
const Align = 8

// PaddedLen is the record size for a header of header bytes followed by n
// bytes of text, zero padded up to the next multiple of Align.
func PaddedLen(header, n int) int {
	return (header + n + Align - 1) / Align * Align
}

// TrimAtNul returns b up to, not including, its first zero byte.
func TrimAtNul(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}
