package input

import (
	"fmt"
	"sort"
	"strings"
)

// Action is a logical command triggered by a key.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBackward
	ActionTurnLeft
	ActionTurnRight
	ActionRise
	ActionSink
	ActionQuit
	ActionScreenshot
)

var actionNames = map[Action]string{
	ActionNone:       "none",
	ActionForward:    "forward",
	ActionBackward:   "backward",
	ActionTurnLeft:   "turn_left",
	ActionTurnRight:  "turn_right",
	ActionRise:       "rise",
	ActionSink:       "sink",
	ActionQuit:       "quit",
	ActionScreenshot: "screenshot",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ParseAction looks up an action by its config name.
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if a != ActionNone && n == name {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", name)
}

// DefaultKeys returns the stock key names per action.
func DefaultKeys() map[string][]string {
	return map[string][]string{
		"forward":    {"W", "Up"},
		"backward":   {"S", "Down"},
		"turn_left":  {"A", "Left"},
		"turn_right": {"D", "Right"},
		"rise":       {"Left Shift"},
		"sink":       {"Left Ctrl"},
		"quit":       {"Q", "Escape"},
		"screenshot": {"F12"},
	}
}

// Bindings maps normalized key names to actions.
type Bindings map[string]Action

// ParseBindings builds bindings from action names to key names. A key may
// only be bound once.
func ParseBindings(keys map[string][]string) (Bindings, error) {
	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	sort.Strings(names)

	b := make(Bindings)
	for _, name := range names {
		action, err := ParseAction(name)
		if err != nil {
			return nil, err
		}
		for _, key := range keys[name] {
			k := normalizeKey(key)
			if k == "" {
				return nil, fmt.Errorf("action %s: empty key name", name)
			}
			if prev, dup := b[k]; dup && prev != action {
				return nil, fmt.Errorf("key %q bound to both %s and %s", key, prev, action)
			}
			b[k] = action
		}
	}
	return b, nil
}

// DefaultBindings returns the parsed stock bindings.
func DefaultBindings() Bindings {
	b, err := ParseBindings(DefaultKeys())
	if err != nil {
		panic(err)
	}
	return b
}

// Lookup returns the action bound to a key name.
func (b Bindings) Lookup(key string) Action {
	return b[normalizeKey(key)]
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
