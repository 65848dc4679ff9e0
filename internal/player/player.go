// Package player implements the first-person kinematic controller: stat
// refresh, regeneration, friction, acceleration, integration against the
// terrain, jumping and the interaction ray.
package player

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/totemfall/internal/input"
	"github.com/Faultbox/totemfall/internal/stats"
	"github.com/Faultbox/totemfall/internal/terrain"
	"github.com/Faultbox/totemfall/pkg/geom"
	"github.com/Faultbox/totemfall/pkg/math"
)

// Controller tuning, from the pointer-lock controls the prototype grew from.
const (
	BaseAcceleration  = 400.0
	Friction          = 10.0 // per second
	Gravity           = 9.8
	Mass              = 100.0
	JumpImpulse       = 350.0
	SprintFactor      = 1.6
	AimFactor         = 0.5
	Height            = 10.0 // eye height above ground
	CapsuleRadius     = 3.0
	BaseMaxHealth     = 100.0
	BaseRegenRate     = 1.0 // health per second
	HitCooldownFrames = 60
	InteractDistance  = 40.0
	ArmorConstant     = 40.0
	MaxPitch          = 1.5
	BaseFOV           = 75.0
)

// Player owns its physics state and item counts.
type Player struct {
	// Position is the eye position in world space.
	Position math.Vec3
	// Velocity is in look space: X strafes right, Z moves forward, Y is
	// world vertical.
	Velocity math.Vec3

	Yaw   float32
	Pitch float32
	FOV   float32

	Health    float32
	MaxHealth float32
	Armor     float32

	HitCooldown int
	CanJump     bool
	Sprinting   bool
	Aiming      bool
	Flight      bool

	Items stats.Counts
	Box   geom.AABB

	interactRay geom.Ray
	log         *zap.Logger
}

// Options configures a new player.
type Options struct {
	Flight bool
	Log    *zap.Logger
}

// New places a player standing on ground point spawn.
func New(spawn math.Vec3, opts Options) *Player {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	p := &Player{
		Position:  spawn.Add(math.Vec3{Y: Height}),
		FOV:       BaseFOV,
		Health:    BaseMaxHealth,
		MaxHealth: BaseMaxHealth,
		Flight:    opts.Flight,
		log:       log,
	}
	p.updateBox()
	p.updateInteractRay()
	return p
}

// Orientation returns the look rotation.
func (p *Player) Orientation() math.Quat {
	return math.QuatFromYawPitch(p.Yaw, p.Pitch)
}

// Eye returns the camera position.
func (p *Player) Eye() math.Vec3 {
	return p.Position
}

// SetFOV is written by the weapon system when aiming.
func (p *Player) SetFOV(fov float32) {
	p.FOV = fov
}

// SetAiming is written by the weapon system.
func (p *Player) SetAiming(aiming bool) {
	p.Aiming = aiming
}

// Speed returns the horizontal speed.
func (p *Player) Speed() float32 {
	return p.Velocity.XZ().Length()
}

// Feet returns the ground contact point.
func (p *Player) Feet() math.Vec3 {
	return p.Position.Sub(math.Vec3{Y: Height})
}

// Bounds returns the collision box.
func (p *Player) Bounds() geom.AABB {
	return p.Box
}

// Dead reports whether health is depleted.
func (p *Player) Dead() bool {
	return p.Health <= 0
}

// HealthFraction returns health / max health in [0, 1].
func (p *Player) HealthFraction() float32 {
	if p.MaxHealth <= 0 {
		return 0
	}
	return math.Clamp(p.Health/p.MaxHealth, 0, 1)
}

// InteractRay returns the forward ray recomputed at the end of each update.
func (p *Player) InteractRay() geom.Ray {
	return p.interactRay
}

// Update advances the controller by dt seconds.
func (p *Player) Update(dt float32, in input.Intents, terr *terrain.Terrain) {
	mods := p.refreshStats()
	p.regenerate(dt, mods)

	if p.HitCooldown > 0 {
		p.HitCooldown--
	}

	p.Yaw += in.Yaw
	p.Pitch = math.Clamp(p.Pitch+in.Pitch, -MaxPitch, MaxPitch)

	p.Sprinting = in.Held(input.Sprint) && !p.Aiming

	p.applyFriction(dt)
	p.applyAcceleration(dt, in, mods)
	p.integrate(dt, terr)
	p.DetectFloor(terr)

	if in.Pressed(input.Jump) && p.CanJump {
		p.Velocity.Y += JumpImpulse
		p.CanJump = false
	}

	p.updateBox()
	p.updateInteractRay()
}

// refreshStats recomputes armor and max health from the item counts.
func (p *Player) refreshStats() stats.Modifiers {
	mods := stats.Aggregate(p.Items)
	p.MaxHealth = BaseMaxHealth + mods.MaxHealth
	p.Armor = mods.Armor
	if p.Health > p.MaxHealth {
		p.Health = p.MaxHealth
	}
	return mods
}

func (p *Player) regenerate(dt float32, mods stats.Modifiers) {
	if p.HitCooldown > 0 || p.Health >= p.MaxHealth || p.Dead() {
		return
	}
	p.Health = min(p.Health+BaseRegenRate*dt*(1+mods.Regen), p.MaxHealth)
}

// applyFriction damps horizontal velocity proportionally and pulls the
// vertical velocity down by gravity.
func (p *Player) applyFriction(dt float32) {
	k := min(Friction*dt, 1)
	p.Velocity.X -= p.Velocity.X * k
	p.Velocity.Z -= p.Velocity.Z * k
	if p.Flight {
		p.Velocity.Y -= p.Velocity.Y * k
		return
	}
	p.Velocity.Y -= Gravity * Mass * dt
}

// Acceleration returns the look-space acceleration for the held intents.
func (p *Player) Acceleration(in input.Intents, mods stats.Modifiers) (x, z float32) {
	dirZ := boolf(in.Held(input.Forward)) - boolf(in.Held(input.Backward))
	dirX := boolf(in.Held(input.Right)) - boolf(in.Held(input.Left))
	if dirX == 0 && dirZ == 0 {
		return 0, 0
	}
	l := float32(gomath.Sqrt(float64(dirX*dirX + dirZ*dirZ)))
	dirX /= l
	dirZ /= l

	accel := BaseAcceleration + mods.Speed
	x = dirX * accel
	z = dirZ * accel

	if p.Sprinting && in.Held(input.Forward) && dirZ > 0 {
		z *= SprintFactor
	}
	if p.Aiming {
		x *= AimFactor
		z *= AimFactor
	}
	return x, z
}

func (p *Player) applyAcceleration(dt float32, in input.Intents, mods stats.Modifiers) {
	x, z := p.Acceleration(in, mods)
	p.Velocity.X += x * dt
	p.Velocity.Z += z * dt
	if p.Flight && in.Held(input.Jump) {
		p.Velocity.Y += (BaseAcceleration + mods.Speed) * dt
	}
}

// integrate moves the player by its look-space velocity. Outside flight the
// motion stays on the horizontal plane; the vertical part is plain Euler.
func (p *Player) integrate(dt float32, terr *terrain.Terrain) {
	var forward, right math.Vec3
	if p.Flight {
		q := p.Orientation()
		forward, right = q.Forward(), q.Right()
	} else {
		q := math.QuatFromYawPitch(p.Yaw, 0)
		forward, right = q.Forward().Flat().Normalize(), q.Right().Flat().Normalize()
	}

	step := right.Scale(p.Velocity.X * dt).Add(forward.Scale(p.Velocity.Z * dt))
	p.Position = p.Position.Add(step)
	if terr != nil {
		p.Position = terr.ClampToWorldBounds(p.Position)
	}
	p.Position.Y += p.Velocity.Y * dt
}

// DetectFloor snaps the player onto the ground when below eye height over
// it. When no ground is found under the player nothing changes.
func (p *Player) DetectFloor(terr *terrain.Terrain) bool {
	if terr == nil {
		return false
	}
	ground, ok := terr.HeightAt(p.Position)
	if !ok {
		p.log.Debug("no ground under player", zap.Float32("x", p.Position.X), zap.Float32("z", p.Position.Z))
		return false
	}
	if p.Position.Y < ground+Height {
		p.Position.Y = ground + Height
		p.Velocity.Y = 0
		p.CanJump = true
		return true
	}
	return false
}

// TakeDamage applies armor-mitigated damage unless the hit cooldown is
// running. Returns whether damage was applied.
func (p *Player) TakeDamage(raw float32) bool {
	if p.HitCooldown > 0 || raw <= 0 {
		return false
	}
	dmg := raw * ArmorConstant / (ArmorConstant + p.Armor)
	p.Health = math.Clamp(p.Health-dmg, 0, p.MaxHealth)
	p.HitCooldown = HitCooldownFrames
	p.log.Debug("player hit", zap.Float32("damage", dmg), zap.Float32("health", p.Health))
	return true
}

func (p *Player) updateBox() {
	p.Box = geom.BoxOnGround(p.Feet(), CapsuleRadius, Height+CapsuleRadius)
}

func (p *Player) updateInteractRay() {
	p.interactRay = geom.NewRay(p.Position, p.Orientation().Forward())
}

func boolf(b bool) float32 {
	if b {
		return 1
	}
	return 0
}
