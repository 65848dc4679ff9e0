// Package collab defines the collaborators the simulation talks to but does
// not own: the scene graph and the HUD.
package collab

import (
	"fmt"

	"go.uber.org/zap"
)

// Kind is the type of a scene entity.
type Kind uint8

const (
	KindEnemy Kind = iota
	KindCrate
	KindTotem
	KindProjectile
)

func (k Kind) String() string {
	switch k {
	case KindEnemy:
		return "enemy"
	case KindCrate:
		return "crate"
	case KindTotem:
		return "totem"
	case KindProjectile:
		return "projectile"
	}
	return "unknown"
}

// Ref names one visual entity.
type Ref struct {
	Kind Kind
	ID   uint32
	Tag  string // archetype, crate kind, weapon name
}

func (r Ref) String() string {
	return fmt.Sprintf("%s#%d(%s)", r.Kind, r.ID, r.Tag)
}

// IDs hands out entity IDs unique within one match.
type IDs struct {
	last uint32
}

// Next returns a fresh ID. IDs start at 1.
func (a *IDs) Next() uint32 {
	a.last++
	return a.last
}

// Scene accepts visual entity lifecycle notifications. An entity exists in
// the simulation until it is removed here.
type Scene interface {
	Add(Ref)
	Remove(Ref)
}

// HUD receives one-way notifications. The simulation never reads it.
type HUD interface {
	Health(fraction float32)
	Score(score int)
	Loot(name, description string)
	DismissLoot()
	Totems(lit, total int)
	Ended(victory bool)
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Add(Ref) {}
func (Nop) Remove(Ref) {}
func (Nop) Health(float32) {}
func (Nop) Score(int) {}
func (Nop) Loot(string, string) {}
func (Nop) DismissLoot() {}
func (Nop) Totems(int, int) {}
func (Nop) Ended(bool) {}

// Registry is an in-memory Scene that remembers live entities.
type Registry struct {
	live map[Ref]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{live: make(map[Ref]struct{})}
}

func (r *Registry) Add(ref Ref) { r.live[ref] = struct{}{} }
func (r *Registry) Remove(ref Ref) { delete(r.live, ref) }

// Has reports whether ref is in the scene.
func (r *Registry) Has(ref Ref) bool {
	_, ok := r.live[ref]
	return ok
}

// Count returns the number of live entities of kind.
func (r *Registry) Count(kind Kind) int {
	n := 0
	for ref := range r.live {
		if ref.Kind == kind {
			n++
		}
	}
	return n
}

// LogHUD writes HUD notifications to a logger. Health and score are
// reported only when they change to keep per-frame noise down.
type LogHUD struct {
	log       *zap.Logger
	lastScore int
	lastHP    float32
}

// NewLogHUD creates a logging HUD.
func NewLogHUD(log *zap.Logger) *LogHUD {
	return &LogHUD{log: log, lastScore: -1, lastHP: -1}
}

func (h *LogHUD) Health(fraction float32) {
	if fraction == h.lastHP {
		return
	}
	h.lastHP = fraction
	h.log.Debug("health", zap.Float32("fraction", fraction))
}

func (h *LogHUD) Score(score int) {
	if score == h.lastScore {
		return
	}
	h.lastScore = score
	h.log.Debug("score", zap.Int("score", score))
}

func (h *LogHUD) Loot(name, description string) {
	h.log.Info("loot", zap.String("item", name), zap.String("description", description))
}

func (h *LogHUD) DismissLoot() {}

func (h *LogHUD) Totems(lit, total int) {
	h.log.Info("totems", zap.Int("lit", lit), zap.Int("total", total))
}

func (h *LogHUD) Ended(victory bool) {
	if victory {
		h.log.Info("victory")
		return
	}
	h.log.Info("defeat")
}
