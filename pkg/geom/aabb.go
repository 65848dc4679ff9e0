package geom

import "github.com/Faultbox/totemfall/pkg/math"

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewAABB creates an AABB from two corners, ordering each axis.
func NewAABB(a, b math.Vec3) AABB {
	box := AABB{Min: a, Max: b}
	if box.Min.X > box.Max.X {
		box.Min.X, box.Max.X = box.Max.X, box.Min.X
	}
	if box.Min.Y > box.Max.Y {
		box.Min.Y, box.Max.Y = box.Max.Y, box.Min.Y
	}
	if box.Min.Z > box.Max.Z {
		box.Min.Z, box.Max.Z = box.Max.Z, box.Min.Z
	}
	return box
}

// BoxAround creates a box centered on center with the given half extents.
func BoxAround(center, half math.Vec3) AABB {
	return NewAABB(center.Sub(half), center.Add(half))
}

// BoxOnGround creates a box whose base sits at base, extending height upward.
func BoxOnGround(base math.Vec3, halfWidth, height float32) AABB {
	return NewAABB(
		math.Vec3{X: base.X - halfWidth, Y: base.Y, Z: base.Z - halfWidth},
		math.Vec3{X: base.X + halfWidth, Y: base.Y + height, Z: base.Z + halfWidth},
	)
}

// Intersects reports whether two boxes overlap (touching counts).
func (b AABB) Intersects(other AABB) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y &&
		b.Min.Z <= other.Max.Z && b.Max.Z >= other.Min.Z
}

// Contains reports whether p lies inside the box.
func (b AABB) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Center returns the box midpoint.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}
