package joystick

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// Event is one change reported by the device.
type Event struct {
	// Init marks the synthetic events reporting initial state.
	Init bool
	// Axis is true for axis events, false for buttons.
	Axis  bool
	Index int
	// Value is the axis position in [-32767, 32767], or non-zero for
	// a pressed button.
	Value int
}

// Pressed indicates a pressed button.
func (e Event) Pressed() bool {
	return !e.Axis && e.Value != 0
}

// Device represents an opened joystick.
type Device interface {
	io.Closer
	// Index returns the index of the device on the system.
	Index() int
	// Name returns the name of the device.
	Name() string
	// ReadEvent reads one event from the device.
	ReadEvent() (*Event, error)
}

// ErrUnsupported indicates joysticks can't be opened on this platform.
var ErrUnsupported = errors.New("joystick not supported on this platform")

// AxisMax is the full scale of an axis.
const AxisMax = 32767

const (
	evINIT uint8 = 0x80
	evBTN  uint8 = 0x01
	evAXIS uint8 = 0x02

	eventSize = 8
)

type rawEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

// DecodeEvent decodes a js_event record. It returns nil for types
// other than axis and button.
func DecodeEvent(buf []byte) (*Event, error) {
	var raw rawEvent
	if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &raw); err != nil {
		return nil, err
	}
	ev := &Event{
		Init:  raw.Type&evINIT != 0,
		Index: int(raw.Number),
		Value: int(raw.Value),
	}
	switch raw.Type &^ evINIT {
	case evAXIS:
		ev.Axis = true
	case evBTN:
	default:
		return nil, nil
	}
	return ev, nil
}

// ReadEvents reads events from r until it fails.
func ReadEvents(r io.Reader, fn func(*Event)) error {
	buf := make([]byte, eventSize)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return err
		}
		ev, err := DecodeEvent(buf)
		if err != nil {
			return err
		}
		if ev != nil {
			fn(ev)
		}
	}
}
