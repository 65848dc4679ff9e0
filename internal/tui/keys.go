// Package tui is the terminal front-end: a tcell top-down map with a HUD
// line, and an adapter from terminal key events to input intents.
package tui

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/Faultbox/totemfall/internal/input"
)

const (
	// HoldFrames is how long a movement, fire or jump key counts as held
	// after its last event. Terminals report no key-up, only auto-repeat.
	HoldFrames = 30
	LookStep   = 0.06 // radians per arrow key event
)

// Keys turns tcell key events into the polled intent set.
type Keys struct {
	bindings input.Bindings
	hold     int

	in      input.Intents
	latched map[input.Intent]int
	aiming  bool
}

// NewKeys creates an adapter. hold <= 0 uses HoldFrames.
func NewKeys(bindings input.Bindings, hold int) *Keys {
	if hold <= 0 {
		hold = HoldFrames
	}
	return &Keys{bindings: bindings, hold: hold, latched: make(map[input.Intent]int)}
}

// Handle applies one key event. It returns false when the user asked to
// quit.
func (k *Keys) Handle(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		k.in.Look(LookStep, 0)
		return true
	case tcell.KeyRight:
		k.in.Look(-LookStep, 0)
		return true
	case tcell.KeyUp:
		k.in.Look(0, LookStep)
		return true
	case tcell.KeyDown:
		k.in.Look(0, -LookStep)
		return true
	}

	name := keyName(ev)
	if ev.Key() == tcell.KeyRune && unicode.IsUpper(ev.Rune()) {
		k.latch(input.Sprint)
	}
	intent, ok := k.bindings.Lookup(name)
	if !ok {
		return true
	}

	switch intent {
	case input.Forward, input.Backward, input.Left, input.Right, input.Sprint,
		input.Fire, input.Jump:
		k.latch(intent)
	case input.Aim:
		k.aiming = !k.aiming
		if k.aiming {
			k.in.Press(input.Aim)
		} else {
			k.in.Release(input.Aim)
		}
	default:
		k.in.Tap(intent)
	}
	return true
}

func (k *Keys) latch(i input.Intent) {
	k.in.Press(i)
	k.latched[i] = k.hold
}

// Frame ages the held keys and returns the intents for one frame.
func (k *Keys) Frame() input.Intents {
	out := k.in.Consume()
	for i, n := range k.latched {
		if n <= 1 {
			k.in.Release(i)
			delete(k.latched, i)
			continue
		}
		k.latched[i] = n - 1
	}
	return out
}

func keyName(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		if ev.Rune() == ' ' {
			return "space"
		}
		return string(unicode.ToLower(ev.Rune()))
	}
	return strings.ToLower(tcell.KeyNames[ev.Key()])
}
