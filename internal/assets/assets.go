// Package assets tracks which models have finished loading. Loading happens
// outside the frame loop; the simulation only asks whether a kind is ready.
package assets

import "sync"

// Kind identifies a loadable model.
type Kind uint8

const (
	Ghost Kind = iota
	Rocky
	Crate
	Totem
	Weapons

	kindCount
)

var kindNames = [kindCount]string{
	Ghost:   "ghost",
	Rocky:   "rocky",
	Crate:   "crate",
	Totem:   "totem",
	Weapons: "weapons",
}

func (k Kind) String() string {
	if k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Tracker records model readiness. Safe for concurrent use: loaders mark
// kinds from their own goroutines while the frame loop reads.
type Tracker struct {
	mu     sync.RWMutex
	loaded [kindCount]bool
}

// NewTracker returns a tracker with nothing loaded.
func NewTracker() *Tracker {
	return &Tracker{}
}

// AllLoaded returns a tracker with every kind ready, for headless runs.
func AllLoaded() *Tracker {
	t := NewTracker()
	for k := range kindCount {
		t.loaded[k] = true
	}
	return t
}

// MarkLoaded flips kind to ready.
func (t *Tracker) MarkLoaded(k Kind) {
	if k >= kindCount {
		return
	}
	t.mu.Lock()
	t.loaded[k] = true
	t.mu.Unlock()
}

// Ready reports whether kind has loaded.
func (t *Tracker) Ready(k Kind) bool {
	if t == nil || k >= kindCount {
		return false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loaded[k]
}
