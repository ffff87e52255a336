// Package host defines the records a Host sends to an Image Generator.
//
// Fixed-layout records encode through protocol.EncodeFixed: their exported
// fields are the wire image after the two header bytes, in order. Packed
// flag bytes are named types with accessors. Symbol definitions are variable
// length and keep their repeated portion behind methods so the size
// descriptor always agrees with the content.
package host
