package protocol

// HeaderSize is the tag byte plus the size byte that lead every record.
const HeaderSize = 2

// Record is the self-describing part every CIGI record shares.
type Record interface {
	// PacketID is the record's constant type tag.
	PacketID() uint8
	// PacketSize is the encoded size in bytes, tag and size included. It is a
	// multiple of 8.
	PacketSize() uint8
}

// Encoder produces the wire image of a record. On error the returned bytes
// may be partial or zeroed.
type Encoder interface {
	Record
	Encode() ([]byte, error)
}

// Decoder replaces its receiver with the record held in b. The receiver is
// left untouched when an error is returned.
type Decoder interface {
	Record
	Decode(b []byte) error
}

// Packet is implemented by pointers to concrete record types.
type Packet interface {
	Encoder
	Decoder
}

// Number is the set of primitive types that appear in record fields.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}
