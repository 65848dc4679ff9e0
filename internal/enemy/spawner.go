// Package enemy implements the enemy populations that guard totems: spawn
// scheduling, the wander/pursue state machine, terrain following, contact
// damage, projectile hits and death.
package enemy

import (
	gomath "math"
	"math/rand/v2"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/totemfall/internal/assets"
	"github.com/Faultbox/totemfall/internal/clock"
	"github.com/Faultbox/totemfall/internal/collab"
	"github.com/Faultbox/totemfall/internal/terrain"
	"github.com/Faultbox/totemfall/internal/weapon"
	"github.com/Faultbox/totemfall/pkg/geom"
	"github.com/Faultbox/totemfall/pkg/math"
)

const (
	TriggeredBase   = 3 // triggered speed multiplier is TriggeredBase + level
	TetherRadius    = 70.0
	TurnProbability = 0.001
	HitFlash        = 300 * time.Millisecond
	SpinRate        = 6.0 // radians per second per level
)

// Target is the player as enemies see it.
type Target interface {
	Eye() math.Vec3
	Bounds() geom.AABB
	TakeDamage(raw float32) bool
}

// Deps are the shared match services a spawner uses.
type Deps struct {
	RNG    *rand.Rand
	Clock  *clock.Clock
	Scene  collab.Scene
	IDs    *collab.IDs
	Assets *assets.Tracker
	Log    *zap.Logger
}

// Spawner owns the population around one totem.
type Spawner struct {
	arch    *Archetype
	level   int
	home    math.Vec3
	enemies []*Enemy

	rng    *rand.Rand
	clock  *clock.Clock
	scene  collab.Scene
	ids    *collab.IDs
	assets *assets.Tracker
	log    *zap.Logger
}

// NewSpawner creates an empty population of arch around home.
func NewSpawner(arch *Archetype, level int, home math.Vec3, deps Deps) *Spawner {
	s := &Spawner{
		arch:   arch,
		level:  max(level, 1),
		home:   home,
		rng:    deps.RNG,
		clock:  deps.Clock,
		scene:  deps.Scene,
		ids:    deps.IDs,
		assets: deps.Assets,
		log:    deps.Log,
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(1, 2))
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.scene == nil {
		s.scene = collab.Nop{}
	}
	if s.ids == nil {
		s.ids = &collab.IDs{}
	}
	if s.assets == nil {
		s.assets = assets.AllLoaded()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Archetype returns the kind this spawner produces.
func (s *Spawner) Archetype() *Archetype {
	return s.arch
}

// Home returns the totem position the population is tethered to.
func (s *Spawner) Home() math.Vec3 {
	return s.home
}

// Enemies returns the live enemies.
func (s *Spawner) Enemies() []*Enemy {
	return s.enemies
}

// Len returns the live enemy count.
func (s *Spawner) Len() int {
	return len(s.enemies)
}

// Ready reports whether the archetype's model has loaded.
func (s *Spawner) Ready() bool {
	return s.assets.Ready(s.arch.Asset)
}

// Spawn rolls for a new enemy and places it if the roll succeeds and the
// population is under its cap.
func (s *Spawner) Spawn(terr *terrain.Terrain) (*Enemy, bool) {
	if !s.Ready() {
		return nil, false
	}
	if s.rng.Float64() >= s.arch.SpawnRate*float64(s.level) {
		return nil, false
	}
	if len(s.enemies) >= s.arch.Cap(s.level) {
		return nil, false
	}
	return s.Place(terr)
}

// Place spawns an enemy at a random point of the annulus around home,
// standing on the terrain. Nothing is placed when there is no ground there.
func (s *Spawner) Place(terr *terrain.Terrain) (*Enemy, bool) {
	dist := s.arch.SpawnMin + s.rng.Float32()*(s.arch.SpawnMax-s.arch.SpawnMin)
	angle := s.rng.Float64() * 2 * gomath.Pi
	sin, cos := gomath.Sincos(angle)
	pos := s.home.Add(math.Vec3{X: float32(cos) * dist, Z: float32(sin) * dist})

	ground, ok := terr.HeightAt(pos)
	if !ok {
		s.log.Debug("spawn skipped, no ground", zap.String("archetype", s.arch.Name),
			zap.Float32("x", pos.X), zap.Float32("z", pos.Z))
		return nil, false
	}
	pos.Y = ground + s.arch.HoverHeight

	e := &Enemy{
		ID:       s.ids.Next(),
		Arch:     s.arch,
		Position: pos,
		Yaw:      s.rng.Float32() * 2 * gomath.Pi,
		Health:   s.arch.Health * float32(s.level),
	}
	e.updateBox()
	s.enemies = append(s.enemies, e)
	s.scene.Add(e.Ref())
	s.log.Debug("enemy spawned", zap.Stringer("ref", e.Ref()))
	return e, true
}

// Update runs one frame for the population and returns the score earned by
// kills.
func (s *Spawner) Update(dt float32, target Target, projectiles []*weapon.Projectile, terr *terrain.Terrain) int {
	if !s.Ready() {
		return 0
	}
	eye := target.Eye()
	for _, e := range s.enemies {
		s.move(dt, e, eye, terr)
	}
	s.checkContact(target)
	s.checkHits(projectiles)
	return s.removeDead()
}

func (s *Spawner) move(dt float32, e *Enemy, eye math.Vec3, terr *terrain.Terrain) {
	if e.Position.Distance(eye) <= e.Arch.DetectRange {
		e.Triggered = true
	}

	speed := e.Arch.ForwardSpeed * dt
	if e.Triggered {
		mult := float32(TriggeredBase + s.level)
		e.Face(eye)
		step := e.Forward().Scale(speed * mult)
		if e.Arch.LateralSpeed > 0 {
			step = step.Add(e.Right().Scale(e.Arch.LateralSpeed * dt * mult * 2))
		}
		e.Position = e.Position.Add(step)
		e.Spin += SpinRate * dt * float32(s.level)
	} else {
		if s.rng.Float64() < TurnProbability {
			s.wander(e)
		}
		e.Position = e.Position.Add(e.Forward().Scale(speed))
	}

	// Without ground under it the enemy keeps its height.
	e.Position = terr.ClampToWorldBounds(e.Position)
	if ground, ok := terr.HeightAt(e.Position); ok {
		e.Position.Y = max(e.Position.Y-e.Arch.FallRate*dt, ground+e.Arch.HoverHeight)
	}
	e.updateBox()
}

// wander picks a new heading, or heads home when strayed past the tether.
func (s *Spawner) wander(e *Enemy) {
	angle := s.rng.Float64() * 2 * gomath.Pi
	sin, cos := gomath.Sincos(angle)
	probe := e.Position.Add(math.Vec3{X: float32(cos), Z: float32(sin)})
	if probe.XZ().Distance(s.home.XZ()) > TetherRadius {
		e.Face(s.home)
		return
	}
	e.Face(probe)
}

// checkContact damages the target on the first overlapping enemy.
func (s *Spawner) checkContact(target Target) {
	box := target.Bounds()
	for _, e := range s.enemies {
		if e.Box.Intersects(box) {
			if target.TakeDamage(e.Arch.Damage * float32(s.level)) {
				s.log.Debug("player hit", zap.Stringer("by", e.Ref()))
			}
			return
		}
	}
}

// checkHits applies each unspent projectile to the first enemy it touches.
func (s *Spawner) checkHits(projectiles []*weapon.Projectile) {
	for _, p := range projectiles {
		if p.Spent() {
			continue
		}
		for _, e := range s.enemies {
			if !p.Box.Intersects(e.Box) {
				continue
			}
			e.Triggered = true
			e.Health -= p.Damage
			p.Spend()
			s.flash(e)
			break
		}
	}
}

func (s *Spawner) flash(e *Enemy) {
	e.Flashing = true
	id := e.ID
	s.clock.After(HitFlash, func() {
		if e := s.find(id); e != nil {
			e.Flashing = false
		}
	})
}

func (s *Spawner) find(id uint32) *Enemy {
	for _, e := range s.enemies {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// removeDead drops every dead enemy and returns the score for them.
func (s *Spawner) removeDead() int {
	score, dead := 0, 0
	for _, e := range s.enemies {
		if e.Dead() {
			dead++
			s.scene.Remove(e.Ref())
			score += e.Arch.Score
			s.log.Debug("enemy killed", zap.Stringer("ref", e.Ref()), zap.Int("score", e.Arch.Score))
		}
	}
	if dead > 0 {
		s.enemies = slices.DeleteFunc(s.enemies, (*Enemy).Dead)
	}
	return score
}
