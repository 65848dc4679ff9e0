package match

import (
	"context"
	"errors"
	"testing"

	"github.com/Faultbox/totemfall/internal/collab"
	"github.com/Faultbox/totemfall/internal/input"
	"github.com/Faultbox/totemfall/internal/terrain"
	"github.com/Faultbox/totemfall/pkg/geom"
	"github.com/Faultbox/totemfall/pkg/math"
)

const dt = float32(0.016)

type endHUD struct {
	collab.Nop
	ended    int
	victory  bool
	lastHP   float32
	lastLoot string
}

func (h *endHUD) Ended(victory bool) {
	h.ended++
	h.victory = victory
}

func (h *endHUD) Health(f float32) { h.lastHP = f }
func (h *endHUD) Loot(name, _ string) { h.lastLoot = name }

func newSession(t *testing.T, cfg Config, hud collab.HUD) *Session {
	t.Helper()
	terr, err := terrain.NewGrid(300, 30, terrain.Flat(0))
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if cfg.Level == 0 {
		cfg.Level = 1
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	s, err := New(cfg, terr, Deps{HUD: hud})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewValidates(t *testing.T) {
	if _, err := New(Config{Level: 1}, nil, Deps{}); !errors.Is(err, ErrNoTerrain) {
		t.Errorf("nil terrain: err = %v", err)
	}

	terr, err := terrain.NewGrid(100, 4, terrain.Flat(0))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(Config{Level: 0}, terr, Deps{}); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("level 0: err = %v", err)
	}
}

func TestSessionIDsDiffer(t *testing.T) {
	a := newSession(t, Config{}, nil)
	b := newSession(t, Config{}, nil)
	if a.ID == b.ID {
		t.Error("sessions share an ID")
	}
}

func TestScoreDecaysToZero(t *testing.T) {
	s := newSession(t, Config{}, nil)
	s.AddScore(10)

	s.Frame(1, input.Intents{})
	if s.Score() != 8 {
		t.Errorf("Score = %d, want 8", s.Score())
	}
	for range 10 {
		s.Frame(1, input.Intents{})
	}
	if s.Score() != 0 {
		t.Errorf("Score = %d, want 0", s.Score())
	}
}

func TestVictoryWhenAllTotemsLit(t *testing.T) {
	hud := &endHUD{}
	s := newSession(t, Config{}, hud)
	for range 3 {
		s.Frame(dt, input.Intents{})
	}
	totems := s.Totems.Totems()
	if len(totems) != 3 {
		t.Fatalf("totems = %d, want 3", len(totems))
	}

	s.Totems.Light(totems[0])
	s.Totems.Light(totems[1])
	if o := s.Frame(dt, input.Intents{}); o != Running {
		t.Fatalf("outcome with 2 of 3 lit = %v", o)
	}
	if hud.ended != 0 {
		t.Fatal("ended early")
	}

	s.Totems.Light(totems[2])
	if o := s.Frame(dt, input.Intents{}); o != Victory {
		t.Fatalf("outcome = %v, want victory", o)
	}
	if hud.ended != 1 || !hud.victory {
		t.Errorf("ended = %d, victory = %v", hud.ended, hud.victory)
	}

	frames := s.Frames()
	if o := s.Frame(dt, input.Intents{}); o != Victory {
		t.Errorf("outcome after end = %v", o)
	}
	if hud.ended != 1 || s.Frames() != frames {
		t.Error("frame ran after the match ended")
	}
}

func TestDefeat(t *testing.T) {
	hud := &endHUD{}
	s := newSession(t, Config{}, hud)
	s.Frame(dt, input.Intents{})
	s.Player.TakeDamage(1e6)

	if o := s.Frame(dt, input.Intents{}); o != Defeat {
		t.Fatalf("outcome = %v, want defeat", o)
	}
	if hud.ended != 1 || hud.victory {
		t.Errorf("ended = %d, victory = %v", hud.ended, hud.victory)
	}
	if hud.lastHP != 0 {
		t.Errorf("health fraction = %v", hud.lastHP)
	}
}

func TestInteractLootsCrate(t *testing.T) {
	hud := &endHUD{}
	s := newSession(t, Config{}, hud)
	s.Frame(dt, input.Intents{})

	c, ok := s.Crates.Place(s.Terrain())
	if !ok {
		t.Fatal("Place failed")
	}
	ahead := s.Player.Eye().Add(math.Vec3{Z: -10})
	c.Box = geom.BoxAround(ahead, math.Vec3{X: 3, Y: 3, Z: 3})

	var in input.Intents
	in.Tap(input.Interact)
	s.Frame(dt, in.Consume())

	if !c.Looted {
		t.Fatal("crate in reach not looted")
	}
	if s.Player.Items.Total() == 0 || hud.lastLoot == "" {
		t.Error("loot not granted or not shown")
	}
	if s.Score() < 24 {
		t.Errorf("Score = %d, want loot bonus", s.Score())
	}
}

type countingScene struct {
	collab.Nop
	added map[collab.Kind]int
}

func (c *countingScene) Add(ref collab.Ref) { c.added[ref.Kind]++ }

func TestHeldFireKeepsShooting(t *testing.T) {
	terr, err := terrain.NewGrid(300, 30, terrain.Flat(0))
	if err != nil {
		t.Fatal(err)
	}
	scene := &countingScene{added: map[collab.Kind]int{}}
	s, err := New(Config{Level: 1, Seed: 7}, terr, Deps{Scene: scene})
	if err != nil {
		t.Fatal(err)
	}

	var in input.Intents
	in.Press(input.Fire)
	s.Frame(dt, in.Consume())
	if scene.added[collab.KindProjectile] != 1 {
		t.Fatalf("projectiles after first frame = %d", scene.added[collab.KindProjectile])
	}

	// Edge14 recoil is 8 frames, so 30 more held frames fire at 8, 16 and 24.
	for range 30 {
		s.Frame(dt, in.Consume())
	}
	if got := scene.added[collab.KindProjectile]; got != 4 {
		t.Fatalf("projectiles while held = %d, want 4", got)
	}

	in.Release(input.Fire)
	for range 30 {
		s.Frame(dt, in.Consume())
	}
	if got := scene.added[collab.KindProjectile]; got != 4 {
		t.Errorf("fired after release: %d", got)
	}
}

func TestRunStopsAtFrameLimit(t *testing.T) {
	s := newSession(t, Config{MaxFrames: 50}, nil)
	o, err := s.Run(context.Background(), Fixed{DT: dt})
	if err != nil || o != Running {
		t.Fatalf("Run = %v, %v", o, err)
	}
	if s.Frames() != 50 {
		t.Errorf("Frames = %d, want 50", s.Frames())
	}
}

func TestRunCancelled(t *testing.T) {
	s := newSession(t, Config{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Run(ctx, Fixed{DT: dt}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

type quitAfter struct {
	n int
}

func (q *quitAfter) NextFrame(_ context.Context, _ *Session) (Step, error) {
	if q.n == 0 {
		return Step{}, ErrQuit
	}
	q.n--
	return Step{DT: dt}, nil
}

func TestRunQuit(t *testing.T) {
	s := newSession(t, Config{}, nil)
	o, err := s.Run(context.Background(), &quitAfter{n: 5})
	if err != nil || o != Running || s.Frames() != 5 {
		t.Errorf("Run = %v, %v after %d frames", o, err, s.Frames())
	}
}

func TestRunEndsOnOutcome(t *testing.T) {
	s := newSession(t, Config{MaxFrames: 1000}, nil)
	src := Fixed{DT: dt, Input: func(s *Session) input.Intents {
		if s.Frames() == 10 {
			s.Player.TakeDamage(1e6)
		}
		return input.Intents{}
	}}
	o, err := s.Run(context.Background(), src)
	if err != nil || o != Defeat {
		t.Errorf("Run = %v, %v", o, err)
	}
}

func TestBotMoves(t *testing.T) {
	s := newSession(t, Config{MaxFrames: 600}, nil)
	start := s.Player.Position
	bot := NewBot()

	if _, err := s.Run(context.Background(), Fixed{DT: dt, Input: bot.Intents}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.Player.Position.Flat().Distance(start.Flat()) < 1 {
		t.Error("bot never moved")
	}
	if s.Player.Health < 0 || s.Player.Health > s.Player.MaxHealth {
		t.Errorf("health out of range: %v", s.Player.Health)
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct{ in, want float32 }{
		{0, 0},
		{4, 4 - 2*3.14159265},
		{-4, -4 + 2*3.14159265},
	}
	for _, tt := range tests {
		if got := wrapAngle(tt.in); got-tt.want > 1e-5 || tt.want-got > 1e-5 {
			t.Errorf("wrapAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
