// Package match ties the simulation together: one Session per match owns the
// clock, randomness, score and every system, and runs the per-frame flow.
package match

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/totemfall/internal/assets"
	"github.com/Faultbox/totemfall/internal/clock"
	"github.com/Faultbox/totemfall/internal/collab"
	"github.com/Faultbox/totemfall/internal/crate"
	"github.com/Faultbox/totemfall/internal/enemy"
	"github.com/Faultbox/totemfall/internal/input"
	"github.com/Faultbox/totemfall/internal/player"
	"github.com/Faultbox/totemfall/internal/stats"
	"github.com/Faultbox/totemfall/internal/terrain"
	"github.com/Faultbox/totemfall/internal/totem"
	"github.com/Faultbox/totemfall/internal/weapon"
	"github.com/Faultbox/totemfall/pkg/math"
)

// ScoreDecay is the score lost per second.
const ScoreDecay = 2.0

// Outcome is the match state.
type Outcome uint8

const (
	Running Outcome = iota
	Victory
	Defeat
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	}
	return "unknown"
}

// Config holds the per-match settings.
type Config struct {
	Level     int
	Seed      uint64 // 0 picks a random seed
	Flight    bool
	MaxFrames int // 0 runs until the match ends
}

// Deps are the collaborators a session reports to.
type Deps struct {
	Scene  collab.Scene
	HUD    collab.HUD
	Assets *assets.Tracker
	Log    *zap.Logger
}

// Session is one match from level start to victory or defeat.
type Session struct {
	ID uuid.UUID

	Player  *player.Player
	Weapons *weapon.System
	Crates  *crate.Manager
	Totems  *totem.Manager

	cfg     Config
	terr    *terrain.Terrain
	clock   *clock.Clock
	rng     *rand.Rand
	ids     *collab.IDs
	score   float64
	frames  int
	outcome Outcome

	hud collab.HUD
	log *zap.Logger
}

var (
	ErrNoTerrain    = errors.New("match: no terrain")
	ErrInvalidLevel = errors.New("match: level must be at least 1")
)

// New builds every system for a match on terr.
func New(cfg Config, terr *terrain.Terrain, deps Deps) (*Session, error) {
	if terr == nil {
		return nil, ErrNoTerrain
	}
	if cfg.Level < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLevel, cfg.Level)
	}
	if deps.Scene == nil {
		deps.Scene = collab.Nop{}
	}
	if deps.HUD == nil {
		deps.HUD = collab.Nop{}
	}
	if deps.Assets == nil {
		deps.Assets = assets.AllLoaded()
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s := &Session{
		ID:    uuid.New(),
		cfg:   cfg,
		terr:  terr,
		clock: clock.New(),
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		ids:   &collab.IDs{},
		hud:   deps.HUD,
	}
	s.log = deps.Log.With(zap.String("session", s.ID.String()))

	spawn := math.Vec3{}
	ground, ok := terr.HeightAt(spawn)
	if !ok {
		return nil, fmt.Errorf("match: no ground at player spawn: %w", ErrNoTerrain)
	}
	spawn.Y = ground

	s.Player = player.New(spawn, player.Options{Flight: cfg.Flight, Log: s.log.Named("player")})
	s.Weapons = weapon.New(weapon.Options{
		RNG:    s.rng,
		Clock:  s.clock,
		Scene:  deps.Scene,
		IDs:    s.ids,
		Assets: deps.Assets,
		Log:    s.log.Named("weapon"),
	})
	s.Crates = crate.NewManager(crate.Deps{
		RNG:    s.rng,
		Clock:  s.clock,
		Scene:  deps.Scene,
		HUD:    deps.HUD,
		IDs:    s.ids,
		Assets: deps.Assets,
		Log:    s.log.Named("crate"),
	})
	s.Totems = totem.NewManager(cfg.Level, enemy.Deps{
		RNG:    s.rng,
		Clock:  s.clock,
		Scene:  deps.Scene,
		IDs:    s.ids,
		Assets: deps.Assets,
		Log:    s.log.Named("enemy"),
	}, deps.HUD)

	s.log.Info("match started",
		zap.Int("level", cfg.Level),
		zap.Uint64("seed", seed),
		zap.Float32("world", terr.Size))
	return s, nil
}

// Level returns the world level.
func (s *Session) Level() int {
	return s.cfg.Level
}

// Score returns the current score.
func (s *Session) Score() int {
	return int(s.score)
}

// Outcome returns the match state.
func (s *Session) Outcome() Outcome {
	return s.outcome
}

// Frames returns the number of simulated frames.
func (s *Session) Frames() int {
	return s.frames
}

// Clock returns the simulation clock.
func (s *Session) Clock() *clock.Clock {
	return s.clock
}

// Terrain returns the level terrain.
func (s *Session) Terrain() *terrain.Terrain {
	return s.terr
}

// AddScore adds points.
func (s *Session) AddScore(points int) {
	s.score += float64(points)
}

// Frame advances the match by dt seconds. Once the match has ended it does
// nothing and returns the final outcome.
func (s *Session) Frame(dt float32, in input.Intents) Outcome {
	if s.outcome != Running {
		return s.outcome
	}
	s.frames++
	s.clock.Advance(dt)
	s.score = max(0, s.score-ScoreDecay*float64(dt))

	s.handleWeaponInput(in)
	s.Player.Update(dt, in, s.terr)
	if in.Pressed(input.Interact) {
		s.interact()
	}

	mods := stats.Aggregate(s.Player.Items)
	if in.Pressed(input.Fire) {
		s.Weapons.PullTrigger(s.Player, mods)
	}
	if !in.Held(input.Fire) {
		s.Weapons.ReleaseTrigger()
	}
	s.Weapons.Update(dt, s.Player, mods)

	s.AddScore(s.Totems.Update(dt, s.Player, s.Weapons.Projectiles(), s.terr))
	s.Crates.Update(dt, s.terr)

	s.hud.Health(s.Player.HealthFraction())
	s.hud.Score(s.Score())
	return s.evaluate()
}

func (s *Session) handleWeaponInput(in input.Intents) {
	switch {
	case in.Pressed(input.Slot1):
		s.Weapons.Switch(0)
	case in.Pressed(input.Slot2):
		s.Weapons.Switch(1)
	}
	s.Weapons.SetAim(in.Held(input.Aim), s.Player)
}

// interact loots the first crate and lights the first totem in reach.
func (s *Session) interact() {
	if c, ok := player.FirstInReach(s.Player, s.Crates.Crates()); ok {
		s.AddScore(s.Crates.Loot(c, &s.Player.Items))
	}
	if t, ok := player.FirstInReach(s.Player, s.Totems.Totems()); ok {
		s.AddScore(s.Totems.Light(t))
	}
}

func (s *Session) evaluate() Outcome {
	lit, total := s.Totems.LitCount(), s.Totems.Count()
	switch {
	case s.Player.Dead():
		s.outcome = Defeat
	case lit > 0 && lit == total:
		s.outcome = Victory
	default:
		return Running
	}
	s.log.Info("match ended",
		zap.Stringer("outcome", s.outcome),
		zap.Int("score", s.Score()),
		zap.Int("frames", s.frames),
		zap.Int("lit", lit),
		zap.Int("totems", total))
	s.hud.Ended(s.outcome == Victory)
	return s.outcome
}
