// Package crate spawns loot crates on the terrain and resolves their loot.
package crate

import (
	"math/rand/v2"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/totemfall/internal/assets"
	"github.com/Faultbox/totemfall/internal/clock"
	"github.com/Faultbox/totemfall/internal/collab"
	"github.com/Faultbox/totemfall/internal/stats"
	"github.com/Faultbox/totemfall/internal/terrain"
	"github.com/Faultbox/totemfall/pkg/geom"
	"github.com/Faultbox/totemfall/pkg/math"
)

const (
	SpawnChance    = 0.001 // per frame
	MaxCrates      = 5
	DisappearAfter = 5.0 // seconds after looting
	LootScore      = 25
	ActiveRolls    = 2
	LootPopup      = 3 * time.Second

	HalfWidth = 4.0
	BoxHeight = 8.0
	GlowFade  = 0.5 // glow scale lost per second once looted
)

// Kind is the crate rarity.
type Kind uint8

const (
	Normal Kind = iota
	Rare
	Active
)

func (k Kind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Rare:
		return "rare"
	case Active:
		return "active"
	}
	return "unknown"
}

// PickKind draws a rarity: normal 70%, rare 25%, active 5%.
func PickKind(rng *rand.Rand) Kind {
	r := rng.Float64()
	switch {
	case r < 0.70:
		return Normal
	case r < 0.95:
		return Rare
	default:
		return Active
	}
}

// Crate is one lootable box.
type Crate struct {
	ID       uint32
	Kind     Kind
	Position math.Vec3
	Box      geom.AABB
	Looted   bool
	Timer    float32 // seconds left once looted
	Glow     float32
}

// Bounds returns the collision box.
func (c *Crate) Bounds() geom.AABB { return c.Box }

// Interactable is true until the crate is looted.
func (c *Crate) Interactable() bool { return !c.Looted }

// Ref returns the scene reference.
func (c *Crate) Ref() collab.Ref {
	return collab.Ref{Kind: collab.KindCrate, ID: c.ID, Tag: c.Kind.String()}
}

// Deps are the shared match services the manager uses.
type Deps struct {
	RNG    *rand.Rand
	Clock  *clock.Clock
	Scene  collab.Scene
	HUD    collab.HUD
	IDs    *collab.IDs
	Assets *assets.Tracker
	Log    *zap.Logger
}

// Manager owns the active crates.
type Manager struct {
	crates []*Crate
	popup  uint64

	rng    *rand.Rand
	clock  *clock.Clock
	scene  collab.Scene
	hud    collab.HUD
	ids    *collab.IDs
	assets *assets.Tracker
	log    *zap.Logger
}

// NewManager creates a manager with no crates.
func NewManager(deps Deps) *Manager {
	m := &Manager{
		rng:    deps.RNG,
		clock:  deps.Clock,
		scene:  deps.Scene,
		hud:    deps.HUD,
		ids:    deps.IDs,
		assets: deps.Assets,
		log:    deps.Log,
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(1, 2))
	}
	if m.clock == nil {
		m.clock = clock.New()
	}
	if m.scene == nil {
		m.scene = collab.Nop{}
	}
	if m.hud == nil {
		m.hud = collab.Nop{}
	}
	if m.ids == nil {
		m.ids = &collab.IDs{}
	}
	if m.assets == nil {
		m.assets = assets.AllLoaded()
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	return m
}

// Crates returns the active crates.
func (m *Manager) Crates() []*Crate {
	return m.crates
}

// Len returns the active crate count.
func (m *Manager) Len() int {
	return len(m.crates)
}

// Update rolls for a new crate and runs the looted crates' timers.
func (m *Manager) Update(dt float32, terr *terrain.Terrain) {
	if !m.assets.Ready(assets.Crate) {
		return
	}
	m.Spawn(terr)
	m.tick(dt)
}

// Spawn rolls the per-frame chance and places a crate when under the cap.
func (m *Manager) Spawn(terr *terrain.Terrain) (*Crate, bool) {
	if m.rng.Float64() >= SpawnChance {
		return nil, false
	}
	return m.Place(terr)
}

// Place puts a crate of random rarity on a random terrain vertex.
func (m *Manager) Place(terr *terrain.Terrain) (*Crate, bool) {
	if len(m.crates) >= MaxCrates {
		return nil, false
	}
	pos := terr.RandomVertex(m.rng)
	c := &Crate{
		ID:       m.ids.Next(),
		Kind:     PickKind(m.rng),
		Position: pos,
		Box:      geom.BoxOnGround(pos, HalfWidth, BoxHeight),
		Timer:    DisappearAfter,
		Glow:     1,
	}
	m.crates = append(m.crates, c)
	m.scene.Add(c.Ref())
	m.log.Debug("crate spawned", zap.Stringer("ref", c.Ref()))
	return c, true
}

func (m *Manager) tick(dt float32) {
	expired := false
	for _, c := range m.crates {
		if !c.Looted {
			continue
		}
		c.Glow = max(0, c.Glow-GlowFade*dt)
		c.Timer -= dt
		if c.Timer <= 0 {
			expired = true
			m.scene.Remove(c.Ref())
		}
	}
	if expired {
		m.crates = slices.DeleteFunc(m.crates, func(c *Crate) bool { return c.Looted && c.Timer <= 0 })
	}
}

// Loot opens c, adds its items to items and returns the score earned.
// Looting an already opened crate does nothing.
func (m *Manager) Loot(c *Crate, items *stats.Counts) int {
	if c == nil || c.Looted {
		return 0
	}
	c.Looted = true

	item, n := m.roll(c.Kind)
	items.Add(item, n)
	m.log.Info("crate looted",
		zap.Stringer("crate", c.Kind),
		zap.Stringer("item", item),
		zap.Int("count", n))

	m.hud.Loot(item.String(), item.Description())
	m.popup++
	seq := m.popup
	m.clock.After(LootPopup, func() {
		if seq == m.popup {
			m.hud.DismissLoot()
		}
	})
	return LootScore
}

func (m *Manager) roll(kind Kind) (stats.Item, int) {
	switch kind {
	case Rare:
		return stats.Pick(m.rng, stats.RareLoot), 1
	case Active:
		return stats.Any(m.rng), ActiveRolls
	default:
		return stats.Pick(m.rng, stats.NormalLoot), 1
	}
}
