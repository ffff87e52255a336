package host

import (
	"github.com/danmuck/cigi/internal/protocol"
	"github.com/danmuck/cigi/internal/protocol/cursor"
)

// Limits on the repeated portion of symbol definitions.
const (
	MaxTextLength = 235
	MaxArcs       = 9
	MaxVertices   = 29
)

const (
	textHeaderSize  = 12
	shapeHeaderSize = 16
	arcSize         = 24
	vertexSize      = 8
)

type (
	textSizeRange   struct{}
	circleSizeRange struct{}
	lineSizeRange   struct{}
)

func (textSizeRange) Bounds() (uint8, uint8)   { return 16, 248 }
func (circleSizeRange) Bounds() (uint8, uint8) { return 16, 232 }
func (lineSizeRange) Bounds() (uint8, uint8)   { return 16, 248 }

// Alignment anchors symbol text to its reference point.
type Alignment uint8

const (
	TopLeft Alignment = iota
	TopCenter
	TopRight
	CenterLeft
	Center
	CenterRight
	BottomLeft
	BottomCenter
	BottomRight
)

// Orientation is the direction text runs in.
type Orientation uint8

const (
	LeftToRight Orientation = iota
	TopToBottom
	RightToLeft
	BottomToTop
)

// Font selects an IG font; zero is the IG default.
type Font uint8

const (
	FontDefault Font = iota
	FontSans
	FontSansBold
	FontSansItalic
	FontSansBoldItalic
	FontSerif
	FontSerifBold
	FontSerifItalic
	FontSerifBoldItalic
	FontMonoSans
	FontMonoSansBold
	FontMonoSansItalic
	FontMonoSansBoldItalic
	FontMonoSerif
	FontMonoSerifBold
	FontMonoSerifItalic
	FontMonoSerifBoldItalic
)

var (
	textAlignmentBits   = protocol.BitField{Shift: 0, Width: 4}
	textOrientationBits = protocol.BitField{Shift: 4, Width: 2}
)

// SymbolTextDefinition defines a text symbol.
type SymbolTextDefinition struct {
	SymbolID    uint16
	Alignment   Alignment
	Orientation Orientation
	Font        Font
	FontSize    float32

	text []byte
}

func (SymbolTextDefinition) PacketID() uint8 { return TagSymbolTextDefinition }

func (r SymbolTextDefinition) PacketSize() uint8 {
	return protocol.NewBounded[uint8, textSizeRange](
		uint8(protocol.PaddedLen(textHeaderSize, len(r.text)))).Get()
}

// SetText replaces the text. Anything from the first zero byte on is dropped.
// Text longer than MaxTextLength is refused and the record keeps its text.
func (r *SymbolTextDefinition) SetText(s string) bool {
	if len(s) > MaxTextLength {
		return false
	}
	r.text = append(r.text[:0], protocol.TrimAtNul([]byte(s))...)
	return true
}

func (r SymbolTextDefinition) Text() string { return string(r.text) }

func (r SymbolTextDefinition) Encode() ([]byte, error) {
	c := cursor.New(int(r.PacketSize()))
	protocol.WriteHeader(c, r)
	c.PutU16(r.SymbolID)
	var bits uint8
	bits = textAlignmentBits.Set(bits, uint8(r.Alignment))
	bits = textOrientationBits.Set(bits, uint8(r.Orientation))
	c.PutU8(bits)
	c.PutU8(uint8(r.Font))
	c.Skip(2)
	c.PutF32(r.FontSize)
	c.PutBytes(r.text)
	return c.Bytes(), nil
}

func (r *SymbolTextDefinition) Decode(b []byte) error {
	size, err := protocol.CheckVariable[textSizeRange](b, TagSymbolTextDefinition)
	if err != nil {
		return err
	}
	c := cursor.Wrap(b[:size])
	c.Skip(protocol.HeaderSize)
	var out SymbolTextDefinition
	out.SymbolID = c.U16()
	bits := c.U8()
	out.Alignment = Alignment(textAlignmentBits.Get(bits))
	out.Orientation = Orientation(textOrientationBits.Get(bits))
	out.Font = Font(c.U8())
	c.Skip(2)
	out.FontSize = c.F32()
	out.text = append([]byte(nil), protocol.TrimAtNul(c.Next(c.Remaining()))...)
	*r = out
	return nil
}

// DrawingStyle selects outlined or filled circles.
type DrawingStyle uint8

const (
	StyleLine DrawingStyle = iota
	StyleFill
)

var circleStyleBits = protocol.BitField{Shift: 0, Width: 1}

// Arc is one circle or arc of a circle symbol, in symbol surface units.
type Arc struct {
	CenterU     float32
	CenterV     float32
	Radius      protocol.Bounded[float32, protocol.NonNegativeRange]
	InnerRadius protocol.Bounded[float32, protocol.NonNegativeRange]
	StartAngle  protocol.Bounded[float32, protocol.AngleRange]
	EndAngle    protocol.Bounded[float32, protocol.AngleRange]
}

// Stipple describes the line pattern shared by circle and line symbols.
type Stipple struct {
	Pattern   uint16
	LineWidth float32
	Length    float32
}

// SymbolCircleDefinition defines a symbol made of up to MaxArcs circles.
type SymbolCircleDefinition struct {
	SymbolID uint16
	Style    DrawingStyle
	Stipple  Stipple

	arcs []Arc
}

func (SymbolCircleDefinition) PacketID() uint8 { return TagSymbolCircleDefinition }

func (r SymbolCircleDefinition) PacketSize() uint8 {
	return protocol.NewBounded[uint8, circleSizeRange](
		uint8(shapeHeaderSize + arcSize*len(r.arcs))).Get()
}

// AddArc appends a. It reports false and leaves the record unchanged once
// MaxArcs are present.
func (r *SymbolCircleDefinition) AddArc(a Arc) bool {
	if len(r.arcs) >= MaxArcs {
		return false
	}
	r.arcs = append(r.arcs, a)
	return true
}

func (r SymbolCircleDefinition) Arcs() []Arc { return append([]Arc(nil), r.arcs...) }

func (r SymbolCircleDefinition) Encode() ([]byte, error) {
	c := cursor.New(int(r.PacketSize()))
	protocol.WriteHeader(c, r)
	c.PutU16(r.SymbolID)
	c.PutU8(circleStyleBits.Set(0, uint8(r.Style)))
	c.Skip(1)
	putStipple(c, r.Stipple)
	for i := range r.arcs {
		if err := c.PutValue(&r.arcs[i]); err != nil {
			return c.Bytes(), err
		}
	}
	return c.Bytes(), nil
}

func (r *SymbolCircleDefinition) Decode(b []byte) error {
	size, err := protocol.CheckVariable[circleSizeRange](b, TagSymbolCircleDefinition)
	if err != nil {
		return err
	}
	c := cursor.Wrap(b[:size])
	c.Skip(protocol.HeaderSize)
	var out SymbolCircleDefinition
	out.SymbolID = c.U16()
	out.Style = DrawingStyle(circleStyleBits.Get(c.U8()))
	c.Skip(1)
	out.Stipple = stipple(c)
	n := (int(size) - shapeHeaderSize) / arcSize
	out.arcs = make([]Arc, n)
	for i := range out.arcs {
		if err := c.Value(&out.arcs[i]); err != nil {
			return err
		}
	}
	*r = out
	return nil
}

// Primitive is how the vertices of a line symbol are joined.
type Primitive uint8

const (
	Points Primitive = iota
	Lines
	LineStrip
	LineLoop
	Triangles
	TriangleStrip
	TriangleFan
)

var linePrimitiveBits = protocol.BitField{Shift: 0, Width: 4}

// Vertex is a point on the symbol surface.
type Vertex struct {
	U float32
	V float32
}

// SymbolLineDefinition defines a symbol made of up to MaxVertices vertices.
type SymbolLineDefinition struct {
	SymbolID  uint16
	Primitive Primitive
	Stipple   Stipple

	vertices []Vertex
}

func (SymbolLineDefinition) PacketID() uint8 { return TagSymbolLineDefinition }

func (r SymbolLineDefinition) PacketSize() uint8 {
	return protocol.NewBounded[uint8, lineSizeRange](
		uint8(shapeHeaderSize + vertexSize*len(r.vertices))).Get()
}

// AddVertex appends v. It reports false and leaves the record unchanged once
// MaxVertices are present.
func (r *SymbolLineDefinition) AddVertex(v Vertex) bool {
	if len(r.vertices) >= MaxVertices {
		return false
	}
	r.vertices = append(r.vertices, v)
	return true
}

func (r SymbolLineDefinition) Vertices() []Vertex { return append([]Vertex(nil), r.vertices...) }

func (r SymbolLineDefinition) Encode() ([]byte, error) {
	c := cursor.New(int(r.PacketSize()))
	protocol.WriteHeader(c, r)
	c.PutU16(r.SymbolID)
	c.PutU8(linePrimitiveBits.Set(0, uint8(r.Primitive)))
	c.Skip(1)
	putStipple(c, r.Stipple)
	for _, v := range r.vertices {
		c.PutF32(v.U)
		c.PutF32(v.V)
	}
	return c.Bytes(), nil
}

func (r *SymbolLineDefinition) Decode(b []byte) error {
	size, err := protocol.CheckVariable[lineSizeRange](b, TagSymbolLineDefinition)
	if err != nil {
		return err
	}
	c := cursor.Wrap(b[:size])
	c.Skip(protocol.HeaderSize)
	var out SymbolLineDefinition
	out.SymbolID = c.U16()
	out.Primitive = Primitive(linePrimitiveBits.Get(c.U8()))
	c.Skip(1)
	out.Stipple = stipple(c)
	n := (int(size) - shapeHeaderSize) / vertexSize
	out.vertices = make([]Vertex, n)
	for i := range out.vertices {
		out.vertices[i] = Vertex{U: c.F32(), V: c.F32()}
	}
	*r = out
	return nil
}

func putStipple(c *cursor.Cursor, s Stipple) {
	c.PutU16(s.Pattern)
	c.PutF32(s.LineWidth)
	c.PutF32(s.Length)
}

func stipple(c *cursor.Cursor) Stipple {
	return Stipple{Pattern: c.U16(), LineWidth: c.F32(), Length: c.F32()}
}

// SourceKind tells whether a clone copies a symbol or a symbol template.
type SourceKind uint8

const (
	SourceSymbol SourceKind = iota
	SourceTemplate
)

var cloneSourceBits = protocol.BitField{Shift: 0, Width: 1}

type CloneFlags uint8

func (f CloneFlags) Source() SourceKind { return SourceKind(cloneSourceBits.Get(uint8(f))) }
func (f *CloneFlags) SetSource(s SourceKind) {
	*f = CloneFlags(cloneSourceBits.Set(uint8(*f), uint8(s)))
}

// SymbolClone creates a symbol as a copy of an existing symbol or template.
type SymbolClone struct {
	SymbolID uint16
	Flags    CloneFlags
	_        uint8
	SourceID uint16
}

func (SymbolClone) PacketID() uint8   { return TagSymbolClone }
func (SymbolClone) PacketSize() uint8 { return 8 }

func (r SymbolClone) Encode() ([]byte, error) { return protocol.EncodeFixed(r) }
func (r *SymbolClone) Decode(b []byte) error  { return protocol.DecodeFixed(b, r) }
