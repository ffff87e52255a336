// Package session owns the Host<->IG record exchange over a datagram transport.
//
// Ownership boundary:
// - outgoing record queue and its hand-off to a transport.Sender
// - incoming datagram demultiplexing into per-tag queues
// - typed consumption: Read, ReadAll, ReadAsync and registry Dispatch
// - drop accounting through a Recorder
//
// Session state has a single owner at any time. Every operation takes the
// state from a one-slot channel and puts it back when done, so a ReadAsync
// loop and its caller never touch the queues concurrently.
package session
