package protocol

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

type unitRange struct{}

func (unitRange) Bounds() (float32, float32) { return -1, 1 }

type int8Range struct{}

func (int8Range) Bounds() (int8, int8) { return -10, 10 }

type sampleRecord struct {
	ID    uint16
	Flags uint8
	_     uint8
	Roll  Roll
	Rate  float32
	_     uint16
}

func (sampleRecord) PacketID() uint8           { return 200 }
func (sampleRecord) PacketSize() uint8         { return 16 }
func (r sampleRecord) Encode() ([]byte, error) { return EncodeFixed(r) }
func (r *sampleRecord) Decode(b []byte) error  { return DecodeFixed(b, r) }

type misdeclared struct {
	A uint32
}

func (misdeclared) PacketID() uint8           { return 201 }
func (misdeclared) PacketSize() uint8         { return 16 }
func (r misdeclared) Encode() ([]byte, error) { return EncodeFixed(r) }
func (r *misdeclared) Decode(b []byte) error  { return DecodeFixed(b, r) }

func TestBoundedSetClamps(t *testing.T) {
	var b Bounded[float32, unitRange]
	cases := []struct{ in, want float32 }{
		{0.5, 0.5}, {-3, -1}, {7, 1}, {1, 1}, {-1, -1},
	}
	for _, tc := range cases {
		b.Set(tc.in)
		if got := b.Get(); got != tc.want {
			t.Fatalf("Set(%v) = %v, want %v", tc.in, got, tc.want)
		}
		b.Set(b.Get())
		if got := b.Get(); got != tc.want {
			t.Fatalf("second Set(%v) = %v, want %v", tc.want, got, tc.want)
		}
		if !b.Valid() {
			t.Fatalf("value %v should be valid", b.Get())
		}
	}
}

func TestBoundedValidFlagsRawValue(t *testing.T) {
	b := Bounded[float32, unitRange]{Value: 2}
	if b.Valid() {
		t.Fatalf("raw value 2 outside [-1, 1] reported valid")
	}
	if got := b.Get(); got != 1 {
		t.Fatalf("Get on raw value 2 = %v, want 1", got)
	}
	b.Value = -9
	if got := b.Get(); got != -1 || b.Valid() {
		t.Fatalf("Get on raw value -9 = %v valid=%v, want -1 invalid", got, b.Valid())
	}
	if got := NewBounded[float32, unitRange](2).Get(); got != 1 {
		t.Fatalf("NewBounded(2) = %v, want 1", got)
	}
	lo, hi := b.Bounds()
	if lo != -1 || hi != 1 {
		t.Fatalf("bounds = [%v, %v]", lo, hi)
	}
}

func TestClampMapsNaNToLowerBound(t *testing.T) {
	nan := float32(math.NaN())
	if got := Clamp[float32, unitRange](nan); got != -1 {
		t.Fatalf("Clamp(NaN) = %v, want -1", got)
	}
	var b Bounded[float32, unitRange]
	b.Set(nan)
	if got := b.Get(); got != -1 || !b.Valid() {
		t.Fatalf("Set(NaN) stored %v valid=%v", got, b.Valid())
	}
	raw := Bounded[float32, unitRange]{Value: nan}
	if raw.Valid() {
		t.Fatalf("raw NaN reported valid")
	}
	if got := raw.Get(); got != -1 {
		t.Fatalf("Get on raw NaN = %v, want -1", got)
	}
	if got := Clamp[int8, int8Range](5); got != 5 {
		t.Fatalf("Clamp on integer = %d", got)
	}
}

func TestConstant(t *testing.T) {
	if MajorVersion.Value() != 3 || !MajorVersion.Is(3) || MajorVersion.Is(4) {
		t.Fatalf("major version constant broken: %d", MajorVersion.Value())
	}
	if ByteSwapMagic.Value() != 0x8000 {
		t.Fatalf("magic = %#x", ByteSwapMagic.Value())
	}
}

func TestBitField(t *testing.T) {
	mode := BitField{Shift: 0, Width: 2}
	flag := BitField{Shift: 2, Width: 1}
	minor := BitField{Shift: 4, Width: 4}

	var b uint8
	b = mode.Set(b, 2)
	b = flag.SetBool(b, true)
	b = minor.Set(b, 0x2)
	if b != 0b0010_0110 {
		t.Fatalf("packed = %08b", b)
	}
	if mode.Get(b) != 2 || !flag.Bool(b) || minor.Get(b) != 2 {
		t.Fatalf("unpack mismatch: mode=%d flag=%v minor=%d", mode.Get(b), flag.Bool(b), minor.Get(b))
	}
	b = mode.Set(b, 0xff)
	if mode.Get(b) != 3 || minor.Get(b) != 2 {
		t.Fatalf("overwide value leaked into neighbours: %08b", b)
	}
	b = flag.SetBool(b, false)
	if flag.Bool(b) {
		t.Fatalf("flag still set: %08b", b)
	}
}

func TestPaddedLen(t *testing.T) {
	cases := []struct{ header, n, want int }{
		{12, 0, 16}, {12, 4, 16}, {12, 5, 24}, {12, 12, 24}, {12, 235, 248},
		{4, 0, 8}, {4, 100, 104},
	}
	for _, tc := range cases {
		if got := PaddedLen(tc.header, tc.n); got != tc.want {
			t.Fatalf("PaddedLen(%d, %d) = %d, want %d", tc.header, tc.n, got, tc.want)
		}
	}
	if got := string(TrimAtNul([]byte("ab\x00cd"))); got != "ab" {
		t.Fatalf("TrimAtNul = %q", got)
	}
}

func TestFixedRoundTrip(t *testing.T) {
	in := sampleRecord{ID: 0x1234, Flags: 5, Roll: NewBounded[float32, RollRange](-45), Rate: 2.5}
	b, err := in.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(b) != 16 || b[0] != 200 || b[1] != 16 || b[5] != 0 {
		t.Fatalf("unexpected image % x", b)
	}
	var out sampleRecord
	if err := out.Decode(b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Fatalf("round trip = %+v, want %+v", out, in)
	}
}

func TestFixedLayoutMismatch(t *testing.T) {
	b, err := misdeclared{A: 7}.Encode()
	if !errors.Is(err, ErrNonConstantPacketSize) {
		t.Fatalf("expected ErrNonConstantPacketSize, got %v", err)
	}
	if !bytes.Equal(b, make([]byte, 16)) {
		t.Fatalf("expected zeroed buffer of declared size, got % x", b)
	}
	if FixedSize(sampleRecord{}) != 16 {
		t.Fatalf("sampleRecord fixed size = %d", FixedSize(sampleRecord{}))
	}
}

func TestFramingRejectsWithoutMutation(t *testing.T) {
	good, err := sampleRecord{ID: 9}.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := sampleRecord{ID: 77, Flags: 1}

	cases := map[string][]byte{
		"empty":     nil,
		"one byte":  good[:1],
		"truncated": good[:15],
		"wrong tag": append([]byte{201}, good[1:]...),
		"bad size":  append([]byte{200, 24}, append(good[2:], make([]byte, 8)...)...),
	}
	for name, b := range cases {
		got := want
		if err := got.Decode(b); !errors.Is(err, ErrMismatchedConstant) {
			t.Fatalf("%s: expected ErrMismatchedConstant, got %v", name, err)
		}
		if got != want {
			t.Fatalf("%s: record mutated to %+v", name, got)
		}
	}
}

func TestCheckFrameVariableRange(t *testing.T) {
	b := make([]byte, 32)
	b[0], b[1] = 30, 24
	if size, err := CheckFrame(b, 30, 16, 248); err != nil || size != 24 {
		t.Fatalf("CheckFrame = %d, %v", size, err)
	}
	b[1] = 8
	if _, err := CheckFrame(b, 30, 16, 248); !errors.Is(err, ErrMismatchedConstant) {
		t.Fatalf("undersized declaration accepted: %v", err)
	}
	b[1] = 40
	if _, err := CheckFrame(b, 30, 16, 248); !errors.Is(err, ErrMismatchedConstant) {
		t.Fatalf("declared size past buffer accepted: %v", err)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	if err := Register[sampleRecord](reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := Register[sampleRecord](reg); !errors.Is(err, ErrDuplicateTag) {
		t.Fatalf("expected ErrDuplicateTag, got %v", err)
	}
	b, _ := sampleRecord{ID: 3}.Encode()
	p, err := reg.Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got, ok := p.(*sampleRecord); !ok || got.ID != 3 {
		t.Fatalf("decoded %#v", p)
	}
	if _, err := reg.Decode([]byte{99, 8, 0, 0, 0, 0, 0, 0}); !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
	if tags := reg.Tags(); len(tags) != 1 || tags[0] != 200 {
		t.Fatalf("tags = %v", tags)
	}
}
