package player

import "github.com/Faultbox/totemfall/pkg/geom"

// Target is something the interact ray can act on.
type Target interface {
	Bounds() geom.AABB
	// Interactable is false once the target has been used.
	Interactable() bool
}

// Reaches reports whether the interact ray hits box within range.
func (p *Player) Reaches(box geom.AABB) bool {
	t, hit := p.interactRay.IntersectAABB(box)
	return hit && t <= InteractDistance
}

// FirstInReach returns the first interactable target the interact ray hits
// within range, in slice order.
func FirstInReach[T Target](p *Player, targets []T) (T, bool) {
	for _, t := range targets {
		if t.Interactable() && p.Reaches(t.Bounds()) {
			return t, true
		}
	}
	var zero T
	return zero, false
}
