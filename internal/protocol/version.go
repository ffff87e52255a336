package protocol

// Version constants carried by the IG Control and Start of Frame records.
var (
	MajorVersion = Const[uint8](3)
	MinorVersion = Const[uint8](2)
	// ByteSwapMagic reads as 0x8000 only when sender and receiver share byte order.
	ByteSwapMagic = Const[uint16](0x8000)
)

// DefaultMTU is the largest datagram payload a session builds.
const DefaultMTU = 1432
