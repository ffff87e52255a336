package session

import "slices"

// inbox holds received record buffers per tag in receipt order. Queues are
// created on first use and kept, possibly empty, afterwards.
type inbox struct {
	queues map[uint8][][]byte
}

func newInbox() inbox {
	return inbox{queues: make(map[uint8][][]byte)}
}

func (b inbox) push(tag uint8, buf []byte) {
	b.queues[tag] = append(b.queues[tag], buf)
}

func (b inbox) pop(tag uint8) ([]byte, bool) {
	q := b.queues[tag]
	if len(q) == 0 {
		return nil, false
	}
	buf := q[0]
	q[0] = nil
	b.queues[tag] = q[1:]
	return buf, true
}

func (b inbox) drain(tag uint8) [][]byte {
	q := b.queues[tag]
	if len(q) == 0 {
		return nil
	}
	b.queues[tag] = q[:0:0]
	return q
}

func (b inbox) len(tag uint8) int {
	return len(b.queues[tag])
}

// tags lists tags that have a queue, ascending.
func (b inbox) tags() []uint8 {
	out := make([]uint8, 0, len(b.queues))
	for tag := range b.queues {
		out = append(out, tag)
	}
	slices.Sort(out)
	return out
}
