package ig

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/danmuck/cigi/internal/protocol"
)

func roundTrip[T any, PT interface {
	*T
	protocol.Packet
}](t *testing.T, in T) T {
	t.Helper()
	b, err := PT(&in).Encode()
	if err != nil {
		t.Fatalf("encode %T: %v", in, err)
	}
	if len(b) != int(PT(&in).PacketSize()) || len(b)%protocol.Align != 0 {
		t.Fatalf("%T: encoded %d bytes, declared %d", in, len(b), PT(&in).PacketSize())
	}
	var out T
	if err := PT(&out).Decode(b); err != nil {
		t.Fatalf("decode %T: %v", in, err)
	}
	return out
}

func TestFixedLayoutsMatchDeclaredSize(t *testing.T) {
	recs := []protocol.Record{
		HATHOTResponse{}, PositionResponse{}, CollisionSegmentNotification{},
		AnimationStopNotification{}, EventNotification{},
	}
	for _, rec := range recs {
		if got := protocol.FixedSize(rec); got != int(rec.PacketSize()) {
			t.Fatalf("%T: layout %d bytes, declared %d", rec, got, rec.PacketSize())
		}
	}
}

func TestRegisterCoversEveryRecord(t *testing.T) {
	reg := protocol.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	want := []uint8{101, 102, 108, 113, 115, 116, 117}
	if got := reg.Tags(); !reflect.DeepEqual(got, want) {
		t.Fatalf("tags = %v, want %v", got, want)
	}
	if err := Register(reg); !errors.Is(err, protocol.ErrDuplicateTag) {
		t.Fatalf("expected ErrDuplicateTag on second registration, got %v", err)
	}
}

func TestStartOfFrameRoundTrip(t *testing.T) {
	in := StartOfFrame{DatabaseNumber: -3, Status: 9, IGFrameNumber: 500, Timestamp: 1234, LastHostFrameNumber: 499}
	in.Flags.SetMode(Operate)
	in.Flags.SetEarthModel(HostDefined)
	out := roundTrip(t, in)
	if out.Flags.MinorVersion() != 2 {
		t.Fatalf("minor version = %d", out.Flags.MinorVersion())
	}
	if out.Flags.Mode() != Operate || out.Flags.EarthModel() != HostDefined || out.Flags.TimestampValid() {
		t.Fatalf("flags = %08b", out.Flags)
	}
	if out.DatabaseNumber != -3 || out.Status != 9 || out.IGFrameNumber != 500 || out.LastHostFrameNumber != 499 {
		t.Fatalf("decoded %+v", out)
	}
}

func TestStartOfFrameRejectsSwappedMagic(t *testing.T) {
	b, _ := StartOfFrame{}.Encode()
	b[6], b[7] = b[7], b[6]
	var got StartOfFrame
	if err := got.Decode(b); !errors.Is(err, protocol.ErrMismatchedConstant) {
		t.Fatalf("expected ErrMismatchedConstant, got %v", err)
	}
}

func TestResponsesRoundTrip(t *testing.T) {
	hat := HATHOTResponse{RequestID: 8, Height: 321.75}
	hat.Flags.SetValid(true)
	hat.Flags.SetHeightOfTerrain(true)
	hat.Flags.SetHostFrameLSN(0x1b)
	out := roundTrip(t, hat)
	if out != hat || !out.Flags.Valid() || !out.Flags.HeightOfTerrain() || out.Flags.HostFrameLSN() != 0xb {
		t.Fatalf("hat/hot response = %+v", out)
	}

	pos := PositionResponse{ObjectID: 4, PartID: 2, Altitude: 88}
	pos.Flags.SetClass(ClassView)
	pos.Flags.SetFrame(FrameParentEntity)
	pos.Latitude.Set(-91)
	pos.Longitude.Set(179)
	pos.Roll.Set(-181)
	pos.Yaw.Set(359)
	got := roundTrip(t, pos)
	if got != pos || got.Flags.Class() != ClassView || got.Flags.Frame() != FrameParentEntity {
		t.Fatalf("position response = %+v", got)
	}
	if got.Latitude.Get() != -90 || got.Roll.Get() != -180 {
		t.Fatalf("clamped values lost: lat=%v roll=%v", got.Latitude.Get(), got.Roll.Get())
	}
}

func TestPositionResponseDecodeClampsOutOfRangeValues(t *testing.T) {
	pos := PositionResponse{}
	pos.Latitude.Value = 200
	pos.Pitch.Value = 120
	pos.Roll.Value = -500
	b, _ := pos.Encode()
	var out PositionResponse
	if err := out.Decode(b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Latitude.Valid() || out.Pitch.Valid() || out.Roll.Valid() {
		t.Fatalf("out-of-range wire values reported valid: %+v", out)
	}
	if out.Latitude.Value != 200 || out.Pitch.Value != 120 {
		t.Fatalf("raw wire values not kept: lat=%v pitch=%v", out.Latitude.Value, out.Pitch.Value)
	}
	if got := out.Latitude.Get(); got != 90 {
		t.Fatalf("latitude = %v, want 90", got)
	}
	if got := out.Pitch.Get(); got != 90 {
		t.Fatalf("pitch = %v, want 90", got)
	}
	if got := out.Roll.Get(); got != -180 {
		t.Fatalf("roll = %v, want -180", got)
	}
}

func TestNotificationsRoundTrip(t *testing.T) {
	col := CollisionSegmentNotification{EntityID: 1, SegmentID: 2, ContactedEntityID: 3, MaterialCode: 0xdeadbeef, Distance: 4.5}
	col.Flags.SetWithEntity(true)
	if out := roundTrip(t, col); out != col || !out.Flags.WithEntity() {
		t.Fatalf("collision = %+v", out)
	}

	stop := AnimationStopNotification{EntityID: 66}
	if out := roundTrip(t, stop); out != stop {
		t.Fatalf("animation stop = %+v", out)
	}
}

func TestEventNotificationAccessors(t *testing.T) {
	var ev EventNotification
	ev.EventID = 12
	ev.SetU8(0, 0x11)
	ev.SetU8(3, 0x44)
	ev.SetU16(3, 0xbeef)
	ev.SetF32(2, 1.25)

	if ev.Data[0] != 0x44000011 {
		t.Fatalf("dword 0 = %#x", ev.Data[0])
	}
	if ev.Data[1] != 0xbeef0000 || ev.U16(3) != 0xbeef || ev.U8(7) != 0xbe {
		t.Fatalf("dword 1 = %#x", ev.Data[1])
	}
	if ev.F32(2) != 1.25 {
		t.Fatalf("f32 = %v", ev.F32(2))
	}
	ev.SetI8(1, -1)
	if ev.I8(1) != -1 || ev.U8(0) != 0x11 || ev.U8(2) != 0 {
		t.Fatalf("signed byte write disturbed neighbours: %#x", ev.Data[0])
	}
	ev.SetU8(40, 0x99)
	if ev.U8(11) != 0x99 {
		t.Fatalf("out of range byte offset did not clamp to the last byte")
	}
	ev.SetBit(33, true)
	if !ev.Bit(33) || ev.Data[1]&(1<<1) == 0 {
		t.Fatalf("bit 33 not set: %#x", ev.Data[1])
	}
	ev.SetBit(33, false)
	if ev.Bit(33) {
		t.Fatalf("bit 33 still set")
	}

	out := roundTrip(t, ev)
	if out != ev {
		t.Fatalf("round trip = %+v, want %+v", out, ev)
	}
}

func TestImageGeneratorMessage(t *testing.T) {
	var m ImageGeneratorMessage
	if m.PacketSize() != 8 {
		t.Fatalf("empty message size = %d", m.PacketSize())
	}
	m.MessageID = 5
	if !m.SetMessage("database loaded") {
		t.Fatalf("SetMessage refused")
	}
	if m.PacketSize() != 24 {
		t.Fatalf("size = %d", m.PacketSize())
	}
	out := roundTrip(t, m)
	if out.MessageID != 5 || out.Message() != "database loaded" {
		t.Fatalf("decoded id=%d msg=%q", out.MessageID, out.Message())
	}

	if m.SetMessage(strings.Repeat("m", MaxMessageLength+1)) {
		t.Fatalf("over-long message accepted")
	}
	if m.Message() != "database loaded" {
		t.Fatalf("message changed after refusal: %q", m.Message())
	}
	if !m.SetMessage(strings.Repeat("m", MaxMessageLength)) || m.PacketSize() != 104 {
		t.Fatalf("max message size = %d", m.PacketSize())
	}
}

func TestImageGeneratorMessageFraming(t *testing.T) {
	var m ImageGeneratorMessage
	m.SetMessage("abc")
	b, _ := m.Encode()

	keep := ImageGeneratorMessage{MessageID: 9}
	keep.SetMessage("keep")
	got := keep
	if err := got.Decode(b[:len(b)-2]); !errors.Is(err, protocol.ErrMismatchedConstant) {
		t.Fatalf("expected ErrMismatchedConstant, got %v", err)
	}
	if got.MessageID != 9 || got.Message() != "keep" {
		t.Fatalf("record mutated: %+v", got)
	}
}
