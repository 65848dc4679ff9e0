// Package weapon implements the two-slot weapon system: aiming, fire-rate
// gated shots, recoil pose and projectile flight and expiry.
package weapon

import (
	"math/rand/v2"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/totemfall/internal/assets"
	"github.com/Faultbox/totemfall/internal/clock"
	"github.com/Faultbox/totemfall/internal/collab"
	"github.com/Faultbox/totemfall/internal/stats"
	"github.com/Faultbox/totemfall/pkg/math"
)

const (
	BaseFOV            = 75.0
	AccuracyPenalty    = 0.0004 // spread per unit of player speed
	MuzzleOffset       = 5.0
	ProjectileSize     = 0.5
	ProjectileLifetime = 5 * time.Second
	AimSpreadFactor    = 0.5
)

// Shooter is the camera and body the weapon is attached to.
type Shooter interface {
	Eye() math.Vec3
	Orientation() math.Quat
	Speed() float32
	SetFOV(fov float32)
	SetAiming(aiming bool)
}

// Options configures a System.
type Options struct {
	Slots  [2]Spec
	RNG    *rand.Rand
	Clock  *clock.Clock
	Scene  collab.Scene
	IDs    *collab.IDs
	Assets *assets.Tracker
	Log    *zap.Logger
}

// System owns the held weapon and every projectile in flight.
type System struct {
	slots [2]Spec
	held  int

	shooting    bool
	aiming      bool
	trigger     bool
	shootFrames int
	maxFrames   int
	accuracy    float32
	recoil      Pose

	projectiles []*Projectile
	ids         *collab.IDs

	rng    *rand.Rand
	clock  *clock.Clock
	scene  collab.Scene
	assets *assets.Tracker
	log    *zap.Logger
}

// New creates a weapon system holding slot 0.
func New(opts Options) *System {
	s := &System{
		slots:  opts.Slots,
		rng:    opts.RNG,
		clock:  opts.Clock,
		scene:  opts.Scene,
		ids:    opts.IDs,
		assets: opts.Assets,
		log:    opts.Log,
	}
	if s.slots == ([2]Spec{}) {
		s.slots = [2]Spec{Edge14, Longshot}
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

// Held returns the active weapon.
func (s *System) Held() Spec {
	return s.slots[s.held]
}

// Slot returns the active slot index.
func (s *System) Slot() int {
	return s.held
}

// Aiming reports whether the scope is up.
func (s *System) Aiming() bool {
	return s.aiming
}

// Shooting reports whether the recoil animation is running.
func (s *System) Shooting() bool {
	return s.shooting
}

// Accuracy returns the current speed-based spread penalty.
func (s *System) Accuracy() float32 {
	return s.accuracy
}

// Crosshair returns the crosshair scale.
func (s *System) Crosshair() float32 {
	if s.aiming {
		return 1 / s.Held().Scope
	}
	return 1
}

// Overlay reports whether the scope overlay is shown.
func (s *System) Overlay() bool {
	return s.aiming && s.Held().Overlay
}

// MeshVisible reports whether the weapon model is drawn.
func (s *System) MeshVisible() bool {
	return !s.Overlay()
}

// Pose returns the current weapon placement including recoil.
func (s *System) Pose() Pose {
	base := HipPose
	if s.aiming {
		base = AimPose
	}
	return base.Add(s.recoil)
}

// Projectiles returns the live projectiles. Callers may Spend them but must
// not retain the slice across updates.
func (s *System) Projectiles() []*Projectile {
	return s.projectiles
}

// Switch selects slot. Ignored while aiming.
func (s *System) Switch(slot int) bool {
	if s.aiming || slot < 0 || slot >= len(s.slots) || slot == s.held {
		return false
	}
	s.held = slot
	s.trigger = false
	s.log.Debug("weapon switched", zap.String("weapon", s.Held().Name))
	return true
}

// SetAim raises or lowers the scope and updates the shooter's FOV.
func (s *System) SetAim(aiming bool, sh Shooter) {
	if aiming == s.aiming {
		return
	}
	s.aiming = aiming
	sh.SetAiming(aiming)
	if aiming {
		sh.SetFOV(BaseFOV / s.Held().Scope)
	} else {
		sh.SetFOV(BaseFOV)
	}
}

// PullTrigger fires once and, for automatic weapons, keeps firing after
// each recoil until ReleaseTrigger.
func (s *System) PullTrigger(sh Shooter, mods stats.Modifiers) bool {
	if s.Held().Auto {
		s.trigger = true
	}
	return s.Fire(sh, mods)
}

// ReleaseTrigger stops automatic fire.
func (s *System) ReleaseTrigger() {
	s.trigger = false
}

// Fire emits one projectile unless the recoil animation is still running.
func (s *System) Fire(sh Shooter, mods stats.Modifiers) bool {
	if s.shooting || !s.assets.Ready(assets.Weapons) {
		return false
	}
	w := s.Held()

	rate := mods.FireRate
	if rate <= 0 {
		rate = 1
	}
	s.maxFrames = max(1, int(float32(w.Frames)/rate+0.5))
	s.shootFrames = 0
	s.shooting = true

	spread := w.Spread * mods.Spread
	if s.aiming {
		spread *= AimSpreadFactor
	}
	spread += s.accuracy

	aim := sh.Orientation()
	jitter := math.QuatFromYawPitch(s.jitter(spread), s.jitter(spread))
	orient := aim.Mul(jitter).Normalize()

	p := &Projectile{
		ID:          s.ids.Next(),
		Position:    sh.Eye().Add(aim.Forward().Scale(MuzzleOffset)),
		Orientation: orient,
		Speed:       w.Speed * mods.ShotSpeed,
		Damage:      w.Damage + mods.Damage,
		Size:        ProjectileSize * (1 + mods.BulletSize),
		weapon:      w.Name,
	}
	p.updateBox()
	s.projectiles = append(s.projectiles, p)
	s.scene.Add(p.Ref())

	id := p.ID
	s.clock.After(ProjectileLifetime, func() { s.expire(id) })
	return true
}

func (s *System) jitter(spread float32) float32 {
	return (s.rng.Float32()*2 - 1) * spread
}

// Update advances recoil, accuracy, automatic fire and projectiles.
func (s *System) Update(dt float32, sh Shooter, mods stats.Modifiers) {
	if !s.assets.Ready(assets.Weapons) {
		return
	}
	s.accuracy = AccuracyPenalty * sh.Speed()

	s.dropSpent()
	for _, p := range s.projectiles {
		p.advance(dt)
	}

	if !s.shooting {
		return
	}
	s.shootFrames++
	if s.shootFrames < s.maxFrames {
		s.recoil = s.Held().Recoil(s.shootFrames, s.maxFrames)
		return
	}
	s.shooting = false
	s.recoil = Pose{}
	if s.trigger {
		s.Fire(sh, mods)
	}
}

func (s *System) dropSpent() {
	for _, p := range s.projectiles {
		if p.spent {
			s.scene.Remove(p.Ref())
		}
	}
	s.projectiles = slices.DeleteFunc(s.projectiles, func(p *Projectile) bool { return p.spent })
}

// expire removes projectile id if it is still in flight.
func (s *System) expire(id uint32) {
	i := slices.IndexFunc(s.projectiles, func(p *Projectile) bool { return p.ID == id })
	if i < 0 {
		return
	}
	s.scene.Remove(s.projectiles[i].Ref())
	s.projectiles = slices.Delete(s.projectiles, i, i+1)
}
