package match

import (
	gomath "math"

	"github.com/Faultbox/totemfall/internal/input"
	"github.com/Faultbox/totemfall/internal/player"
	"github.com/Faultbox/totemfall/pkg/math"
)

// Bot range tuning.
const (
	BotEngageRange = 120.0
	BotSprintRange = 80.0
	BotStopRange   = 15.0
)

// Bot plays a match on its own: it shoots triggered enemies in range and
// otherwise walks to the nearest crate or unlit totem and uses it.
type Bot struct {
	in input.Intents
}

// NewBot creates a bot with no keys held.
func NewBot() *Bot {
	return &Bot{}
}

// Intents returns the bot's input for the next frame. It fits Fixed.Input.
func (b *Bot) Intents(s *Session) input.Intents {
	p := s.Player
	eye := p.Eye()

	if target, ok := b.nearestThreat(s, eye); ok {
		b.look(p, target)
		b.hold(input.Forward, false)
		b.hold(input.Sprint, false)
		b.hold(input.Fire, true)
		return b.in.Consume()
	}
	b.hold(input.Fire, false)

	target, ok := b.nearestObjective(s, eye)
	if !ok {
		b.hold(input.Forward, false)
		return b.in.Consume()
	}
	b.look(p, target)

	dist := target.XZ().Distance(eye.XZ())
	b.hold(input.Forward, dist > BotStopRange)
	b.hold(input.Sprint, dist > BotSprintRange)
	if dist < player.InteractDistance/2 {
		b.in.Tap(input.Interact)
	}
	return b.in.Consume()
}

func (b *Bot) hold(i input.Intent, down bool) {
	if down {
		b.in.Press(i)
		return
	}
	b.in.Release(i)
}

// look turns the player to face target exactly.
func (b *Bot) look(p *player.Player, target math.Vec3) {
	d := target.Sub(p.Eye())
	yaw := float32(gomath.Atan2(float64(-d.X), float64(-d.Z)))
	pitch := float32(gomath.Atan2(float64(d.Y), float64(d.Flat().Length())))
	b.in.Look(wrapAngle(yaw-p.Yaw), pitch-p.Pitch)
}

func (b *Bot) nearestThreat(s *Session, eye math.Vec3) (math.Vec3, bool) {
	best, found := float32(BotEngageRange), false
	var at math.Vec3
	for _, t := range s.Totems.Totems() {
		for _, e := range t.Spawner.Enemies() {
			if !e.Triggered {
				continue
			}
			if d := e.Position.Distance(eye); d < best {
				best, at, found = d, e.Position, true
			}
		}
	}
	return at, found
}

func (b *Bot) nearestObjective(s *Session, eye math.Vec3) (math.Vec3, bool) {
	best, found := float32(gomath.MaxFloat32), false
	var at math.Vec3
	consider := func(p math.Vec3) {
		if d := p.XZ().Distance(eye.XZ()); d < best {
			best, at, found = d, p, true
		}
	}
	for _, c := range s.Crates.Crates() {
		if c.Interactable() {
			consider(c.Box.Center())
		}
	}
	for _, t := range s.Totems.Totems() {
		if t.Interactable() {
			consider(t.Box.Center())
		}
	}
	return at, found
}

func wrapAngle(a float32) float32 {
	for a > gomath.Pi {
		a -= 2 * gomath.Pi
	}
	for a < -gomath.Pi {
		a += 2 * gomath.Pi
	}
	return a
}
