package session

// Drop reasons reported to a Recorder.
const (
	DropDecode    = "decode"
	DropZeroSize  = "zero_size"
	DropTruncated = "truncated"
)

// Recorder observes session traffic. Implementations must be safe for
// concurrent use; sessions call them while holding their own state.
type Recorder interface {
	RecordWritten(tag uint8)
	RecordsFlushed(n int)
	DatagramReceived(size int)
	RecordReceived(tag uint8)
	RecordDropped(tag uint8, reason string)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordWritten(uint8)         {}
func (NopRecorder) RecordsFlushed(int)          {}
func (NopRecorder) DatagramReceived(int)        {}
func (NopRecorder) RecordReceived(uint8)        {}
func (NopRecorder) RecordDropped(uint8, string) {}
