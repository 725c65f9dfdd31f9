package rig

import "fmt"

// Facing is the direction the character was last moved in.
type Facing int

const (
	Forward Facing = iota
	Backward
)

func (f Facing) String() string {
	switch f {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Facing(%d)", int(f))
	}
}

// Command is a logical character command, decoupled from the key that
// triggered it.
type Command int

const (
	CmdNone Command = iota
	CmdForward
	CmdBackward
	CmdTurnLeft
	CmdTurnRight
	CmdRise
	CmdSink
)

var commandNames = map[Command]string{
	CmdNone:      "none",
	CmdForward:   "forward",
	CmdBackward:  "backward",
	CmdTurnLeft:  "turn_left",
	CmdTurnRight: "turn_right",
	CmdRise:      "rise",
	CmdSink:      "sink",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}
