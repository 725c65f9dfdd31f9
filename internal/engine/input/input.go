// Package input turns window events into logical viewer actions.
package input

// EventType identifies a translated window event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Mouse buttons, numbered as SDL numbers them.
const (
	ButtonLeft   uint8 = 1
	ButtonMiddle uint8 = 2
	ButtonRight  uint8 = 3
)

// Event represents a processed input event.
type Event struct {
	Type EventType

	// Key is the SDL scancode name, e.g. "W", "Left Shift", "F12".
	Key    string
	Repeat bool

	X, Y   int32
	Button uint8
	Wheel  float32

	Width  int
	Height int
}
