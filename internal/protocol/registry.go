package protocol

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps record tags to constructors so a raw record can be decoded
// without knowing its type up front.
type Registry struct {
	mu    sync.RWMutex
	ctors map[uint8]func() Packet
}

func NewRegistry() *Registry {
	return &Registry{ctors: make(map[uint8]func() Packet)}
}

// Register adds T under its own tag.
func Register[T any, PT interface {
	*T
	Packet
}](r *Registry) error {
	var zero T
	tag := PT(&zero).PacketID()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ctors[tag]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateTag, tag)
	}
	r.ctors[tag] = func() Packet { return PT(new(T)) }
	return nil
}

// New returns a zero record for tag.
func (r *Registry) New(tag uint8) (Packet, bool) {
	r.mu.RLock()
	ctor, ok := r.ctors[tag]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// Decode decodes the leading record in b by its tag.
func (r *Registry) Decode(b []byte) (Packet, error) {
	if len(b) < HeaderSize {
		return nil, fmt.Errorf("%w: %d byte buffer has no header", ErrMismatchedConstant, len(b))
	}
	p, ok := r.New(b[0])
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTag, b[0])
	}
	if err := p.Decode(b); err != nil {
		return nil, err
	}
	return p, nil
}

// Tags lists registered tags in ascending order.
func (r *Registry) Tags() []uint8 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]uint8, 0, len(r.ctors))
	for tag := range r.ctors {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}
