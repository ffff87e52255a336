package protocol

import "errors"

var (
	// ErrNonConstantPacketSize reports a fixed-layout record whose declared size
	// disagrees with its binary layout. It is a build defect, not a wire condition.
	ErrNonConstantPacketSize = errors.New("protocol: non-constant packet size")
	// ErrMismatchedConstant covers an unexpected tag, an undersized buffer and an
	// out-of-range declared size (or any other fixed wire constant).
	ErrMismatchedConstant = errors.New("protocol: mismatched constant")
	ErrUnknownTag         = errors.New("protocol: unknown tag")
	ErrDuplicateTag       = errors.New("protocol: duplicate tag")
)
