package weapon

import (
	"github.com/Faultbox/totemfall/internal/collab"
	"github.com/Faultbox/totemfall/pkg/geom"
	"github.com/Faultbox/totemfall/pkg/math"
)

// Projectile is a bullet in flight.
type Projectile struct {
	ID          uint32
	Position    math.Vec3
	Orientation math.Quat
	Speed       float32
	Damage      float32
	Size        float32
	Box         geom.AABB

	weapon string
	spent  bool
}

// Direction returns the unit travel direction.
func (p *Projectile) Direction() math.Vec3 {
	return p.Orientation.Forward()
}

// Spend marks the projectile as used up; it is dropped on the next update.
func (p *Projectile) Spend() {
	p.spent = true
}

// Spent reports whether the projectile already hit something.
func (p *Projectile) Spent() bool {
	return p.spent
}

// Ref returns the scene reference.
func (p *Projectile) Ref() collab.Ref {
	return collab.Ref{Kind: collab.KindProjectile, ID: p.ID, Tag: p.weapon}
}

func (p *Projectile) advance(dt float32) {
	p.Position = p.Position.Add(p.Direction().Scale(p.Speed * dt))
	p.updateBox()
}

func (p *Projectile) updateBox() {
	half := p.Size / 2
	p.Box = geom.BoxAround(p.Position, math.Vec3{X: half, Y: half, Z: half})
}
