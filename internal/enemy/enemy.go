package enemy

import (
	gomath "math"

	"github.com/Faultbox/totemfall/internal/collab"
	"github.com/Faultbox/totemfall/pkg/geom"
	"github.com/Faultbox/totemfall/pkg/math"
)

// Enemy is one live member of a spawner's population.
type Enemy struct {
	ID        uint32
	Arch      *Archetype
	Position  math.Vec3
	Yaw       float32 // travel heading, 0 faces -Z
	Spin      float32 // cosmetic roll while charging
	Health    float32
	Triggered bool
	Flashing  bool
	Box       geom.AABB
}

// Forward returns the horizontal travel direction.
func (e *Enemy) Forward() math.Vec3 {
	s, c := gomath.Sincos(float64(e.Yaw))
	return math.Vec3{X: float32(-s), Z: float32(-c)}
}

// Right returns the horizontal sideways direction.
func (e *Enemy) Right() math.Vec3 {
	s, c := gomath.Sincos(float64(e.Yaw))
	return math.Vec3{X: float32(c), Z: float32(-s)}
}

// ModelYaw is the heading the mesh is drawn with.
func (e *Enemy) ModelYaw() float32 {
	return e.Yaw + e.Arch.YawOffset
}

// Face turns the enemy toward target on the horizontal plane.
func (e *Enemy) Face(target math.Vec3) {
	d := target.Sub(e.Position)
	if d.X == 0 && d.Z == 0 {
		return
	}
	e.Yaw = float32(gomath.Atan2(float64(-d.X), float64(-d.Z)))
}

// Dead reports whether health is depleted.
func (e *Enemy) Dead() bool {
	return e.Health <= 0
}

// Ref returns the scene reference.
func (e *Enemy) Ref() collab.Ref {
	return collab.Ref{Kind: collab.KindEnemy, ID: e.ID, Tag: e.Arch.Name}
}

func (e *Enemy) updateBox() {
	e.Box = geom.BoxAround(e.Position, e.Arch.Half)
}
