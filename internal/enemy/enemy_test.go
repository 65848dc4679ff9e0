package enemy

import (
	gomath "math"
	"math/rand/v2"
	"testing"

	"github.com/Faultbox/totemfall/internal/assets"
	"github.com/Faultbox/totemfall/internal/clock"
	"github.com/Faultbox/totemfall/internal/collab"
	"github.com/Faultbox/totemfall/internal/terrain"
	"github.com/Faultbox/totemfall/internal/weapon"
	"github.com/Faultbox/totemfall/pkg/geom"
	"github.com/Faultbox/totemfall/pkg/math"
)

const dt = float32(0.016)

type fakeTarget struct {
	eye  math.Vec3
	box  geom.AABB
	hits []float32
}

func (f *fakeTarget) Eye() math.Vec3 { return f.eye }
func (f *fakeTarget) Bounds() geom.AABB { return f.box }
func (f *fakeTarget) TakeDamage(raw float32) bool {
	f.hits = append(f.hits, raw)
	return true
}

// farTarget sits outside every detect range.
func farTarget() *fakeTarget {
	far := math.Vec3{X: 5000, Y: 10, Z: 5000}
	return &fakeTarget{eye: far, box: geom.BoxAround(far, math.Vec3{X: 1, Y: 1, Z: 1})}
}

type fixture struct {
	terr  *terrain.Terrain
	clock *clock.Clock
	scene *collab.Registry
	deps  Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	terr, err := terrain.NewGrid(400, 8, terrain.Flat(0))
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	f := &fixture{terr: terr, clock: clock.New(), scene: collab.NewRegistry()}
	f.deps = Deps{
		RNG:   rand.New(rand.NewPCG(7, 11)),
		Clock: f.clock,
		Scene: f.scene,
		IDs:   &collab.IDs{},
	}
	return f
}

func (f *fixture) place(t *testing.T, s *Spawner, pos math.Vec3) *Enemy {
	t.Helper()
	e, ok := s.Place(f.terr)
	if !ok {
		t.Fatal("Place failed on flat ground")
	}
	e.Position = pos
	e.updateBox()
	return e
}

func TestCap(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{0, 5},
		{1, 5},
		{2, 6},
		{7, 6},
	}
	for _, tt := range tests {
		if got := Ghost.Cap(tt.level); got != tt.want {
			t.Errorf("Cap(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestRockyChance(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{1, 0.5},
		{2, 0.6},
		{4, 0.8},
		{10, 0.8},
	}
	for _, tt := range tests {
		if got := RockyChance(tt.level); gomath.Abs(got-tt.want) > 1e-9 {
			t.Errorf("RockyChance(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestPlaceInAnnulus(t *testing.T) {
	f := newFixture(t)
	home := math.Vec3{X: 10, Z: -20}
	s := NewSpawner(Ghost, 2, home, f.deps)

	for range 50 {
		e, ok := s.Place(f.terr)
		if !ok {
			t.Fatal("Place failed")
		}
		d := e.Position.Flat().Distance(home)
		if d < Ghost.SpawnMin-0.01 || d > Ghost.SpawnMax+0.01 {
			t.Errorf("spawn distance %v outside [%v, %v]", d, Ghost.SpawnMin, Ghost.SpawnMax)
		}
		if e.Position.Y != Ghost.HoverHeight {
			t.Errorf("Y = %v, want hover height", e.Position.Y)
		}
		if e.Health != Ghost.Health*2 {
			t.Errorf("Health = %v, want %v", e.Health, Ghost.Health*2)
		}
		if !f.scene.Has(e.Ref()) {
			t.Error("enemy not added to scene")
		}
	}
}

func TestPlaceSkipsWithoutGround(t *testing.T) {
	f := newFixture(t)
	s := NewSpawner(Rocky, 1, math.Vec3{X: 1000}, f.deps)
	if _, ok := s.Place(f.terr); ok {
		t.Error("placed enemy off the mesh")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d", s.Len())
	}
}

func TestSpawnRespectsCap(t *testing.T) {
	f := newFixture(t)
	eager := *Rocky
	eager.SpawnRate = 1
	s := NewSpawner(&eager, 1, math.Vec3{}, f.deps)

	for range 50 {
		s.Spawn(f.terr)
	}
	if s.Len() != eager.Cap(1) {
		t.Errorf("Len = %d, want %d", s.Len(), eager.Cap(1))
	}
}

func TestSpawnWaitsForAssets(t *testing.T) {
	f := newFixture(t)
	f.deps.Assets = assets.NewTracker()
	eager := *Ghost
	eager.SpawnRate = 1
	s := NewSpawner(&eager, 1, math.Vec3{}, f.deps)

	if _, ok := s.Spawn(f.terr); ok {
		t.Fatal("spawned before model loaded")
	}
	f.deps.Assets.MarkLoaded(assets.Ghost)
	if _, ok := s.Spawn(f.terr); !ok {
		t.Error("spawn refused after model loaded")
	}
}

func TestDetection(t *testing.T) {
	f := newFixture(t)
	s := NewSpawner(Rocky, 1, math.Vec3{}, f.deps)
	near := f.place(t, s, math.Vec3{X: 100, Y: Rocky.HoverHeight})
	far := f.place(t, s, math.Vec3{X: -190, Y: Rocky.HoverHeight})

	target := &fakeTarget{eye: math.Vec3{X: -40, Y: 10}}
	target.box = geom.BoxAround(target.eye, math.Vec3{X: 1, Y: 1, Z: 1})
	s.Update(dt, target, nil, f.terr)

	if !near.Triggered {
		t.Error("enemy within range not triggered")
	}
	if far.Triggered {
		t.Error("enemy out of range triggered")
	}
}

func TestPursuit(t *testing.T) {
	f := newFixture(t)
	s := NewSpawner(Rocky, 2, math.Vec3{}, f.deps)
	e := f.place(t, s, math.Vec3{X: 100, Y: Rocky.HoverHeight})

	target := farTarget()
	target.eye = math.Vec3{Y: Rocky.HoverHeight}
	e.Triggered = true

	before := e.Position.Flat().Distance(target.eye.Flat())
	s.Update(dt, target, nil, f.terr)
	after := e.Position.Flat().Distance(target.eye.Flat())

	want := Rocky.ForwardSpeed * dt * float32(TriggeredBase+2)
	if gomath.Abs(float64(before-after-want)) > 1e-3 {
		t.Errorf("closed %v, want %v", before-after, want)
	}
}

func TestGhostStrafesWhenTriggered(t *testing.T) {
	f := newFixture(t)
	s := NewSpawner(Ghost, 1, math.Vec3{}, f.deps)
	e := f.place(t, s, math.Vec3{X: 100, Y: Ghost.HoverHeight})
	e.Triggered = true

	target := farTarget()
	target.eye = math.Vec3{Y: Ghost.HoverHeight}
	s.Update(dt, target, nil, f.terr)

	// Heading is -X, so the sideways drift shows up on Z.
	if e.Position.Z == 0 {
		t.Error("ghost did not drift sideways")
	}
}

func TestWanderTether(t *testing.T) {
	f := newFixture(t)
	home := math.Vec3{}
	s := NewSpawner(Ghost, 1, home, f.deps)
	e := f.place(t, s, math.Vec3{X: 150, Y: Ghost.HoverHeight})

	for range 10 {
		s.wander(e)
		toHome := home.Sub(e.Position).Flat().Normalize()
		if d := e.Forward().Dot(toHome); d < 0.999 {
			t.Fatalf("strayed enemy not heading home: dot %v", d)
		}
	}
}

func TestHoverClamp(t *testing.T) {
	f := newFixture(t)
	s := NewSpawner(Ghost, 1, math.Vec3{}, f.deps)
	high := f.place(t, s, math.Vec3{X: 40, Y: 100})
	low := f.place(t, s, math.Vec3{X: -40, Y: 2})

	s.Update(dt, farTarget(), nil, f.terr)
	if want := 100 - Ghost.FallRate*dt; gomath.Abs(float64(high.Position.Y-want)) > 1e-4 {
		t.Errorf("high Y = %v, want %v", high.Position.Y, want)
	}
	if low.Position.Y != Ghost.HoverHeight {
		t.Errorf("low Y = %v, want %v", low.Position.Y, Ghost.HoverHeight)
	}
}

func TestStaysInWorld(t *testing.T) {
	f := newFixture(t)
	s := NewSpawner(Rocky, 1, math.Vec3{}, f.deps)
	e := f.place(t, s, math.Vec3{X: 199.99, Y: Rocky.HoverHeight})
	e.Triggered = true

	target := farTarget()
	target.eye = math.Vec3{X: 5000, Y: 10}
	for i := range 100 {
		s.Update(dt, target, nil, f.terr)
		if e.Position.Y < Rocky.HoverHeight {
			t.Fatalf("frame %d: Y = %v, below hover height %v", i, e.Position.Y, Rocky.HoverHeight)
		}
	}
	if e.Position.X > 200 {
		t.Errorf("X = %v, beyond half world size", e.Position.X)
	}
}

func TestContactDamage(t *testing.T) {
	f := newFixture(t)
	s := NewSpawner(Rocky, 2, math.Vec3{}, f.deps)
	e := f.place(t, s, math.Vec3{X: 50, Y: Rocky.HoverHeight})
	f.place(t, s, math.Vec3{X: 50, Y: Rocky.HoverHeight})

	target := farTarget()
	target.box = e.Box
	s.Update(dt, target, nil, f.terr)

	if len(target.hits) != 1 {
		t.Fatalf("hits = %v, want one", target.hits)
	}
	if target.hits[0] != Rocky.Damage*2 {
		t.Errorf("damage = %v, want %v", target.hits[0], Rocky.Damage*2)
	}
}

func projectileAt(pos math.Vec3, damage float32) *weapon.Projectile {
	return &weapon.Projectile{
		ID:       1,
		Position: pos,
		Damage:   damage,
		Box:      geom.BoxAround(pos, math.Vec3{X: 1, Y: 1, Z: 1}),
	}
}

func TestProjectileHit(t *testing.T) {
	f := newFixture(t)
	s := NewSpawner(Ghost, 1, math.Vec3{}, f.deps)
	e := f.place(t, s, math.Vec3{X: 40, Y: Ghost.HoverHeight})
	other := f.place(t, s, math.Vec3{X: 40, Y: Ghost.HoverHeight})

	p := projectileAt(e.Position, 5)
	s.Update(dt, farTarget(), []*weapon.Projectile{p}, f.terr)

	if !p.Spent() {
		t.Error("projectile not spent")
	}
	if !e.Triggered || e.Health != Ghost.Health-5 || !e.Flashing {
		t.Errorf("hit enemy: triggered=%v health=%v flashing=%v", e.Triggered, e.Health, e.Flashing)
	}
	if other.Health != Ghost.Health {
		t.Error("one projectile damaged two enemies")
	}

	s.Update(dt, farTarget(), []*weapon.Projectile{p}, f.terr)
	if e.Health != Ghost.Health-5 {
		t.Error("spent projectile hit again")
	}

	f.clock.Advance(0.31)
	if e.Flashing {
		t.Error("hit flash did not revert")
	}
}

func TestDeathRemovesAdjacentAndScoresOnce(t *testing.T) {
	f := newFixture(t)
	s := NewSpawner(Ghost, 1, math.Vec3{}, f.deps)
	a := f.place(t, s, math.Vec3{X: 40, Y: Ghost.HoverHeight})
	b := f.place(t, s, math.Vec3{X: -40, Y: Ghost.HoverHeight})
	c := f.place(t, s, math.Vec3{Z: 40, Y: Ghost.HoverHeight})
	a.Health = 0
	b.Health = -3

	score := s.Update(dt, farTarget(), nil, f.terr)
	if score != 2*Ghost.Score {
		t.Errorf("score = %d, want %d", score, 2*Ghost.Score)
	}
	if s.Len() != 1 || s.Enemies()[0] != c {
		t.Fatalf("survivors = %d", s.Len())
	}
	if f.scene.Has(a.Ref()) || f.scene.Has(b.Ref()) {
		t.Error("dead enemies still in scene")
	}

	if score := s.Update(dt, farTarget(), nil, f.terr); score != 0 {
		t.Errorf("second update scored %d", score)
	}
}

func TestKillByProjectileSameFrame(t *testing.T) {
	f := newFixture(t)
	s := NewSpawner(Rocky, 1, math.Vec3{}, f.deps)
	e := f.place(t, s, math.Vec3{X: 40, Y: Rocky.HoverHeight})

	score := s.Update(dt, farTarget(), []*weapon.Projectile{projectileAt(e.Position, 100)}, f.terr)
	if score != Rocky.Score || s.Len() != 0 {
		t.Errorf("score = %d, len = %d", score, s.Len())
	}

	// The pending flash revert must tolerate the removed enemy.
	f.clock.Advance(1)
}

func TestFace(t *testing.T) {
	e := &Enemy{Arch: Ghost}
	targets := []math.Vec3{{X: 1}, {X: -1}, {Z: 1}, {Z: -1}, {X: 3, Z: 4}}
	for _, target := range targets {
		e.Face(target)
		want := target.Flat().Normalize()
		if d := e.Forward().Dot(want); d < 0.9999 {
			t.Errorf("Face(%+v): forward %+v", target, e.Forward())
		}
	}
}
