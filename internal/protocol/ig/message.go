package ig

import (
	"github.com/danmuck/cigi/internal/protocol"
	"github.com/danmuck/cigi/internal/protocol/cursor"
)

// MaxMessageLength is the longest message text an IG may send.
const MaxMessageLength = 100

const messageHeaderSize = 4

type messageSizeRange struct{}

func (messageSizeRange) Bounds() (uint8, uint8) { return 8, 104 }

// ImageGeneratorMessage carries free text from the IG, typically for a log.
type ImageGeneratorMessage struct {
	MessageID uint16

	text []byte
}

func (ImageGeneratorMessage) PacketID() uint8 { return TagImageGeneratorMessage }

func (r ImageGeneratorMessage) PacketSize() uint8 {
	return protocol.NewBounded[uint8, messageSizeRange](
		uint8(protocol.PaddedLen(messageHeaderSize, len(r.text)))).Get()
}

// SetMessage replaces the text, cutting it at the first zero byte. Text
// longer than MaxMessageLength is refused and the record keeps its text.
func (r *ImageGeneratorMessage) SetMessage(s string) bool {
	if len(s) > MaxMessageLength {
		return false
	}
	r.text = append(r.text[:0], protocol.TrimAtNul([]byte(s))...)
	return true
}

func (r ImageGeneratorMessage) Message() string { return string(r.text) }

func (r ImageGeneratorMessage) Encode() ([]byte, error) {
	c := cursor.New(int(r.PacketSize()))
	protocol.WriteHeader(c, r)
	c.PutU16(r.MessageID)
	c.PutBytes(r.text)
	return c.Bytes(), nil
}

func (r *ImageGeneratorMessage) Decode(b []byte) error {
	size, err := protocol.CheckVariable[messageSizeRange](b, TagImageGeneratorMessage)
	if err != nil {
		return err
	}
	c := cursor.Wrap(b[:size])
	c.Skip(protocol.HeaderSize)
	var out ImageGeneratorMessage
	out.MessageID = c.U16()
	out.text = append([]byte(nil), protocol.TrimAtNul(c.Next(c.Remaining()))...)
	*r = out
	return nil
}
