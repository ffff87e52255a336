// Package protocol owns the CIGI record contract and codec primitives.
//
// Ownership boundary:
// - record contract (Record, Encoder, Decoder, Packet)
// - fixed-layout codec and the generic framing check
// - field primitives: Bounded, Constant, BitField, padded text
// - tag registry used to dispatch demultiplexed records
//
// Concrete records live in the host (Host -> IG) and ig (IG -> Host) packages.
package protocol
