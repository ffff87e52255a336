package session

import (
	"github.com/danmuck/cigi/internal/protocol"
)

// Read pops the oldest received record with T's tag and decodes it. A record
// that fails to decode is consumed and dropped; ok is false then, and when
// nothing is queued.
func Read[T any, PT interface {
	*T
	protocol.Decoder
}](s *Session) (T, bool) {
	var v T
	tag := PT(&v).PacketID()

	st := s.acquire()
	defer s.release(st)
	b, ok := st.in.pop(tag)
	if !ok {
		return v, false
	}
	if err := PT(&v).Decode(b); err != nil {
		s.drop(tag, DropDecode, err, len(b))
		var zero T
		return zero, false
	}
	return v, true
}

// ReadAll drains every received record with T's tag in receipt order,
// dropping those that fail to decode.
func ReadAll[T any, PT interface {
	*T
	protocol.Decoder
}](s *Session) []T {
	var zero T
	tag := PT(&zero).PacketID()

	st := s.acquire()
	defer s.release(st)
	bufs := st.in.drain(tag)
	out := make([]T, 0, len(bufs))
	for _, b := range bufs {
		var v T
		if err := PT(&v).Decode(b); err != nil {
			s.drop(tag, DropDecode, err, len(b))
			continue
		}
		out = append(out, v)
	}
	return out
}

// Dispatch decodes every queued record whose tag reg knows, in ascending tag
// order and receipt order within a tag, and calls fn for each after the
// session is released. Records of unregistered tags stay queued. It returns
// the number of records passed to fn.
func (s *Session) Dispatch(reg *protocol.Registry, fn func(protocol.Packet)) int {
	var out []protocol.Packet

	st := s.acquire()
	for _, tag := range reg.Tags() {
		for _, b := range st.in.drain(tag) {
			p, err := reg.Decode(b)
			if err != nil {
				s.drop(tag, DropDecode, err, len(b))
				continue
			}
			out = append(out, p)
		}
	}
	s.release(st)

	for _, p := range out {
		fn(p)
	}
	return len(out)
}
