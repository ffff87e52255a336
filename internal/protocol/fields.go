package protocol

import "math"

// Range supplies the static bounds of a Bounded field. Implementations are
// empty struct types so the bounds travel with the field's type.
type Range[T Number] interface {
	Bounds() (lo, hi T)
}

// Bounded is a field with a mandated range. Its binary image is exactly that
// of T, so it can sit inside fixed-layout records.
type Bounded[T Number, R Range[T]] struct {
	// Value is the raw stored value. Decoders fill it straight from the wire so
	// Valid can flag out-of-range input; readers go through Get.
	Value T
}

// NewBounded returns a Bounded holding v clamped into range.
func NewBounded[T Number, R Range[T]](v T) Bounded[T, R] {
	var b Bounded[T, R]
	b.Set(v)
	return b
}

// Set stores v clamped into [lo, hi].
func (b *Bounded[T, R]) Set(v T) {
	b.Value = Clamp[T, R](v)
}

// Get returns the stored value clamped into [lo, hi], so a record decoded
// with an out-of-range field still yields a usable value.
func (b Bounded[T, R]) Get() T {
	return Clamp[T, R](b.Value)
}

// Valid reports whether the stored value lies inside the bounds.
func (b Bounded[T, R]) Valid() bool {
	lo, hi := bounds[T, R]()
	return b.Value >= lo && b.Value <= hi
}

func (b Bounded[T, R]) Bounds() (T, T) { return bounds[T, R]() }

// Clamp forces v into the bounds of R. NaN maps to lo.
func Clamp[T Number, R Range[T]](v T) T {
	lo, hi := bounds[T, R]()
	if v != v {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func bounds[T Number, R Range[T]]() (T, T) {
	var r R
	return r.Bounds()
}

// Shared angular and geodetic ranges, in degrees.
type (
	RollRange        struct{}
	PitchRange       struct{}
	YawRange         struct{}
	LatitudeRange    struct{}
	LongitudeRange   struct{}
	NonNegativeRange struct{}
	AngleRange       struct{}
)

func (RollRange) Bounds() (float32, float32)        { return -180, 180 }
func (PitchRange) Bounds() (float32, float32)       { return -90, 90 }
func (YawRange) Bounds() (float32, float32)         { return 0, 360 }
func (LatitudeRange) Bounds() (float64, float64)    { return -90, 90 }
func (LongitudeRange) Bounds() (float64, float64)   { return -180, 180 }
func (NonNegativeRange) Bounds() (float32, float32) { return 0, math.MaxFloat32 }
func (AngleRange) Bounds() (float32, float32)       { return 0, 360 }

type (
	Roll      = Bounded[float32, RollRange]
	Pitch     = Bounded[float32, PitchRange]
	Yaw       = Bounded[float32, YawRange]
	Latitude  = Bounded[float64, LatitudeRange]
	Longitude = Bounded[float64, LongitudeRange]
)

// Constant is a wire value fixed where it is declared. It can be read and
// compared but not changed once built.
type Constant[T Number] struct {
	v T
}

func Const[T Number](v T) Constant[T] { return Constant[T]{v: v} }

func (c Constant[T]) Value() T { return c.v }

// Is reports whether v equals the constant.
func (c Constant[T]) Is(v T) bool { return c.v == v }

// BitField locates a sub-byte field: Width bits starting Shift bits from the
// least significant end.
type BitField struct {
	Shift uint8
	Width uint8
}

func (f BitField) mask() uint8 {
	return uint8((uint(1)<<f.Width)-1) << f.Shift
}

// Get extracts the field from b.
func (f BitField) Get(b uint8) uint8 {
	return (b & f.mask()) >> f.Shift
}

// Set returns b with the field replaced by v. Bits of v beyond Width are dropped.
func (f BitField) Set(b, v uint8) uint8 {
	m := f.mask()
	return b&^m | (v<<f.Shift)&m
}

func (f BitField) Bool(b uint8) bool { return f.Get(b) != 0 }

func (f BitField) SetBool(b uint8, v bool) uint8 {
	if v {
		return f.Set(b, 1)
	}
	return f.Set(b, 0)
}
