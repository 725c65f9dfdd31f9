package input

// Frame is the input gathered during one frame.
type Frame struct {
	// Actions are key-triggered actions in event order.
	Actions []Action
	Quit    bool

	// Resized is set when the window size changed.
	Resized       bool
	Width, Height int

	// Left-button drag edges, where the drag started, and the cursor at the
	// end of the frame.
	DragStarted    bool
	DragEnded      bool
	PressX, PressY int32
	MouseX, MouseY int32

	Wheel float32
}

// Controller owns the input state that outlives a frame: bindings, the
// cursor position and the left button.
type Controller struct {
	bindings Bindings

	mouseX, mouseY int32
	leftDown       bool

	frame Frame
}

// NewController creates a controller using b.
func NewController(b Bindings) *Controller {
	return &Controller{
		bindings: b,
		frame:    Frame{Actions: make([]Action, 0, 8)},
	}
}

// LeftDown reports whether the left mouse button is held.
func (c *Controller) LeftDown() bool { return c.leftDown }

// Process folds one frame of events into a Frame. Key presses and key
// repeats trigger their bound action; releases do not. The returned Frame is
// reused by the next call.
func (c *Controller) Process(events []Event) *Frame {
	c.frame = Frame{Actions: c.frame.Actions[:0]}
	f := &c.frame

	for _, e := range events {
		switch e.Type {
		case EventQuit:
			f.Quit = true

		case EventWindowResize:
			f.Resized = true
			f.Width, f.Height = e.Width, e.Height

		case EventKeyDown:
			a := c.bindings.Lookup(e.Key)
			switch a {
			case ActionNone:
			case ActionQuit:
				f.Quit = true
			default:
				f.Actions = append(f.Actions, a)
			}

		case EventMouseMove:
			c.mouseX, c.mouseY = e.X, e.Y

		case EventMouseDown:
			c.mouseX, c.mouseY = e.X, e.Y
			if e.Button == ButtonLeft && !c.leftDown {
				c.leftDown = true
				f.DragStarted = true
				f.PressX, f.PressY = e.X, e.Y
			}

		case EventMouseUp:
			c.mouseX, c.mouseY = e.X, e.Y
			if e.Button == ButtonLeft && c.leftDown {
				c.leftDown = false
				f.DragEnded = true
			}

		case EventMouseWheel:
			f.Wheel += e.Wheel
		}
	}

	f.MouseX, f.MouseY = c.mouseX, c.mouseY
	return f
}
