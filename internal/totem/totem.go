// Package totem places the objective totems, runs the enemy population each
// one guards and tracks which have been lit.
package totem

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/Faultbox/totemfall/internal/assets"
	"github.com/Faultbox/totemfall/internal/collab"
	"github.com/Faultbox/totemfall/internal/enemy"
	"github.com/Faultbox/totemfall/internal/terrain"
	"github.com/Faultbox/totemfall/internal/weapon"
	"github.com/Faultbox/totemfall/pkg/geom"
	"github.com/Faultbox/totemfall/pkg/math"
)

const (
	LitScore  = 200
	HalfWidth = 4.0
	BoxHeight = 20.0
)

// Caps is the number of totems per level, indexed by level-1. Levels past
// the table use the last entry.
var Caps = []int{3, 5}

// Cap returns the totem count for level.
func Cap(level int) int {
	i := min(max(level, 1), len(Caps)) - 1
	return Caps[i]
}

// Totem is one objective.
type Totem struct {
	ID       uint32
	Position math.Vec3
	Box      geom.AABB
	Lit      bool
	Spawner  *enemy.Spawner
}

// Bounds returns the collision box.
func (t *Totem) Bounds() geom.AABB { return t.Box }

// Interactable is true until the totem is lit.
func (t *Totem) Interactable() bool { return !t.Lit }

// Ref returns the scene reference.
func (t *Totem) Ref() collab.Ref {
	return collab.Ref{Kind: collab.KindTotem, ID: t.ID, Tag: t.Spawner.Archetype().Name}
}

// Manager owns the totems of one level and, through them, their spawners.
type Manager struct {
	level  int
	totems []*Totem

	deps enemy.Deps
	hud  collab.HUD
}

// NewManager creates a manager for level. The enemy deps are shared with
// every spawner it creates.
func NewManager(level int, deps enemy.Deps, hud collab.HUD) *Manager {
	if deps.RNG == nil {
		deps.RNG = rand.New(rand.NewPCG(1, 2))
	}
	if deps.IDs == nil {
		deps.IDs = &collab.IDs{}
	}
	if deps.Scene == nil {
		deps.Scene = collab.Nop{}
	}
	if deps.Assets == nil {
		deps.Assets = assets.AllLoaded()
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if hud == nil {
		hud = collab.Nop{}
	}
	return &Manager{level: max(level, 1), deps: deps, hud: hud}
}

// Totems returns every placed totem.
func (m *Manager) Totems() []*Totem {
	return m.totems
}

// Count returns the number of placed totems.
func (m *Manager) Count() int {
	return len(m.totems)
}

// LitCount returns the number of lit totems.
func (m *Manager) LitCount() int {
	n := 0
	for _, t := range m.totems {
		if t.Lit {
			n++
		}
	}
	return n
}

// EnemyCount returns the live enemies across all spawners.
func (m *Manager) EnemyCount() int {
	n := 0
	for _, t := range m.totems {
		n += t.Spawner.Len()
	}
	return n
}

// Update places at most one totem, lets unlit totems spawn, then runs every
// population. It returns the score earned by kills.
func (m *Manager) Update(dt float32, target enemy.Target, projectiles []*weapon.Projectile, terr *terrain.Terrain) int {
	if m.deps.Assets.Ready(assets.Totem) {
		m.Place(terr)
	}

	score := 0
	for _, t := range m.totems {
		if !t.Lit {
			t.Spawner.Spawn(terr)
		}
		score += t.Spawner.Update(dt, target, projectiles, terr)
	}
	return score
}

// Place adds a totem on a random terrain vertex unless the level cap is
// reached.
func (m *Manager) Place(terr *terrain.Terrain) (*Totem, bool) {
	if len(m.totems) >= Cap(m.level) {
		return nil, false
	}
	pos := terr.RandomVertex(m.deps.RNG)
	t := &Totem{
		ID:       m.deps.IDs.Next(),
		Position: pos,
		Box:      geom.BoxOnGround(pos, HalfWidth, BoxHeight),
		Spawner:  enemy.NewSpawner(enemy.Pick(m.deps.RNG, m.level), m.level, pos, m.deps),
	}
	m.totems = append(m.totems, t)
	m.deps.Scene.Add(t.Ref())
	m.deps.Log.Debug("totem placed", zap.Stringer("ref", t.Ref()),
		zap.Float32("x", pos.X), zap.Float32("z", pos.Z))
	m.hud.Totems(m.LitCount(), len(m.totems))
	return t, true
}

// Light lights t and returns the score earned. A lit totem stays lit.
func (m *Manager) Light(t *Totem) int {
	if t == nil || t.Lit {
		return 0
	}
	t.Lit = true
	lit := m.LitCount()
	m.deps.Log.Info("totem lit", zap.Stringer("ref", t.Ref()), zap.Int("lit", lit), zap.Int("total", len(m.totems)))
	m.hud.Totems(lit, len(m.totems))
	return LitScore
}
