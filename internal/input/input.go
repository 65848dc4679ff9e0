// Package input defines the polled intent flag set the simulation reads
// each frame, and the key bindings that produce it.
package input

import "strings"

// Intent is a named player action.
type Intent uint8

const (
	Forward Intent = iota
	Backward
	Left
	Right
	Sprint
	Jump
	Interact
	Slot1
	Slot2
	Fire
	Aim

	intentCount
)

var intentNames = [intentCount]string{
	Forward:  "forward",
	Backward: "backward",
	Left:     "left",
	Right:    "right",
	Sprint:   "sprint",
	Jump:     "jump",
	Interact: "interact",
	Slot1:    "slot1",
	Slot2:    "slot2",
	Fire:     "fire",
	Aim:      "aim",
}

func (i Intent) String() string {
	if i >= intentCount {
		return "unknown"
	}
	return intentNames[i]
}

// ParseIntent maps a binding name to an intent.
func ParseIntent(name string) (Intent, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range intentNames {
		if n == name {
			return Intent(i), true
		}
	}
	return 0, false
}

// Intents is the held-state flag set plus one-shot presses since the last
// frame. Held flags follow key-down/key-up; presses are cleared by Consume.
type Intents struct {
	held    uint16
	pressed uint16

	// Look deltas in radians accumulated since the last frame.
	Yaw   float32
	Pitch float32
}

// Press marks intent as held and records an edge press.
func (in *Intents) Press(i Intent) {
	if i >= intentCount {
		return
	}
	if in.held&(1<<i) == 0 {
		in.pressed |= 1 << i
	}
	in.held |= 1 << i
}

// Release clears the held flag.
func (in *Intents) Release(i Intent) {
	if i >= intentCount {
		return
	}
	in.held &^= 1 << i
}

// Tap records a press and immediate release, for inputs without key-up
// events such as terminal keys.
func (in *Intents) Tap(i Intent) {
	if i >= intentCount {
		return
	}
	in.pressed |= 1 << i
}

// Held reports whether intent is currently down.
func (in Intents) Held(i Intent) bool {
	return i < intentCount && in.held&(1<<i) != 0
}

// Pressed reports whether intent went down since the last Consume.
func (in Intents) Pressed(i Intent) bool {
	return i < intentCount && in.pressed&(1<<i) != 0
}

// Look adds a look delta.
func (in *Intents) Look(yaw, pitch float32) {
	in.Yaw += yaw
	in.Pitch += pitch
}

// Consume returns the current state and clears the one-shot parts.
func (in *Intents) Consume() Intents {
	out := *in
	in.pressed = 0
	in.Yaw = 0
	in.Pitch = 0
	return out
}
