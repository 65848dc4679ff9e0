// Package terrain provides height and region queries over an immutable
// triangle mesh.
package terrain

import (
	"errors"
	"fmt"
	gomath "math"
	"math/rand/v2"

	"github.com/Faultbox/totemfall/pkg/geom"
	"github.com/Faultbox/totemfall/pkg/math"
)

// bucketsPerSide is the resolution of the XZ lookup grid over triangles.
const bucketsPerSide = 32

// ErrEmptyMesh is returned when a terrain is built without triangles.
var ErrEmptyMesh = errors.New("terrain mesh has no triangles")

// Triangle references three vertices by index.
type Triangle struct {
	A, B, C uint32
}

// Terrain is the per-level floor mesh. It is read-only after New.
type Terrain struct {
	Vertices  []math.Vec3
	Indices   []uint32
	Triangles []Triangle

	// MinIndex and MaxIndex are positions in Indices of the lowest and
	// highest vertex. Spawners never place objects on them.
	MinIndex int
	MaxIndex int
	MinY     float32
	MaxY     float32

	// Size is the world edge length; playable X/Z is [-Size/2, Size/2].
	Size float32

	// XZ bucket grid over the mesh bounds
	minX, minZ   float32
	cellX, cellZ float32
	buckets      [][]int
}

// New builds a terrain from a vertex and index buffer.
func New(vertices []math.Vec3, indices []uint32, size float32) (*Terrain, error) {
	if len(indices) < 3 {
		return nil, ErrEmptyMesh
	}
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid world size %v", size)
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("index %d at %d out of range (%d vertices)", idx, i, len(vertices))
		}
	}

	t := &Terrain{
		Vertices: vertices,
		Indices:  indices,
		Size:     size,
		MinY:     float32(gomath.MaxFloat32),
		MaxY:     -float32(gomath.MaxFloat32),
	}

	t.Triangles = make([]Triangle, 0, len(indices)/3)
	for i := 0; i < len(indices); i += 3 {
		t.Triangles = append(t.Triangles, Triangle{indices[i], indices[i+1], indices[i+2]})
	}

	for i, idx := range indices {
		y := vertices[idx].Y
		if y < t.MinY {
			t.MinY = y
			t.MinIndex = i
		}
		if y > t.MaxY {
			t.MaxY = y
			t.MaxIndex = i
		}
	}

	t.buildBuckets()
	return t, nil
}

func (t *Terrain) buildBuckets() {
	minX, minZ := float32(gomath.MaxFloat32), float32(gomath.MaxFloat32)
	maxX, maxZ := -minX, -minZ
	for _, idx := range t.Indices {
		v := t.Vertices[idx]
		minX = min(minX, v.X)
		minZ = min(minZ, v.Z)
		maxX = max(maxX, v.X)
		maxZ = max(maxZ, v.Z)
	}

	t.minX, t.minZ = minX, minZ
	t.cellX = max((maxX-minX)/bucketsPerSide, 1e-3)
	t.cellZ = max((maxZ-minZ)/bucketsPerSide, 1e-3)
	t.buckets = make([][]int, bucketsPerSide*bucketsPerSide)

	for i, tri := range t.Triangles {
		a, b, c := t.corners(tri)
		x0, z0 := t.cellOf(min(a.X, b.X, c.X), min(a.Z, b.Z, c.Z))
		x1, z1 := t.cellOf(max(a.X, b.X, c.X), max(a.Z, b.Z, c.Z))
		for z := z0; z <= z1; z++ {
			for x := x0; x <= x1; x++ {
				cell := z*bucketsPerSide + x
				t.buckets[cell] = append(t.buckets[cell], i)
			}
		}
	}
}

// cellOf maps a world XZ position to a clamped bucket coordinate.
func (t *Terrain) cellOf(x, z float32) (int, int) {
	cx := int((x - t.minX) / t.cellX)
	cz := int((z - t.minZ) / t.cellZ)
	return min(max(cx, 0), bucketsPerSide-1), min(max(cz, 0), bucketsPerSide-1)
}

func (t *Terrain) inBounds(x, z float32) bool {
	return x >= t.minX && z >= t.minZ &&
		x <= t.minX+t.cellX*bucketsPerSide && z <= t.minZ+t.cellZ*bucketsPerSide
}

func (t *Terrain) corners(tri Triangle) (math.Vec3, math.Vec3, math.Vec3) {
	return t.Vertices[tri.A], t.Vertices[tri.B], t.Vertices[tri.C]
}

// Cast intersects a ray with the triangles under its origin's XZ cell and
// returns the nearest hit point. Intended for vertical probes; rays that
// travel far horizontally should use TrianglesIn directly.
func (t *Terrain) Cast(r geom.Ray) (math.Vec3, bool) {
	if !t.inBounds(r.Origin.X, r.Origin.Z) {
		return math.Vec3{}, false
	}
	cx, cz := t.cellOf(r.Origin.X, r.Origin.Z)

	best := float32(gomath.MaxFloat32)
	found := false
	for _, i := range t.buckets[cz*bucketsPerSide+cx] {
		a, b, c := t.corners(t.Triangles[i])
		if d, hit := r.IntersectTriangle(a, b, c); hit && d < best {
			best = d
			found = true
		}
	}
	if !found {
		return math.Vec3{}, false
	}
	return r.At(best), true
}

// Probe returns the downward ray used to find the ground under p. Its
// origin sits above the highest vertex so buried points still resolve.
func (t *Terrain) Probe(p math.Vec3) geom.Ray {
	return geom.NewRay(math.Vec3{X: p.X, Y: t.MaxY + 1, Z: p.Z}, math.Down)
}

// HeightAt returns the elevation of the highest surface under p.
// ok is false when no triangle lies under p.
func (t *Terrain) HeightAt(p math.Vec3) (float32, bool) {
	hit, ok := t.Cast(t.Probe(p))
	if !ok {
		return 0, false
	}
	return hit.Y, true
}

// ClampToWorldBounds clamps X and Z to the playable square.
func (t *Terrain) ClampToWorldBounds(p math.Vec3) math.Vec3 {
	half := t.Size / 2
	p.X = math.Clamp(p.X, -half, half)
	p.Z = math.Clamp(p.Z, -half, half)
	return p
}

// TrianglesIn returns the indices of triangles whose bucket overlaps the
// XZ rectangle. The result may include triangles just outside it.
func (t *Terrain) TrianglesIn(minX, minZ, maxX, maxZ float32) []int {
	x0, z0 := t.cellOf(minX, minZ)
	x1, z1 := t.cellOf(maxX, maxZ)

	seen := make(map[int]struct{})
	var out []int
	for z := z0; z <= z1; z++ {
		for x := x0; x <= x1; x++ {
			for _, i := range t.buckets[z*bucketsPerSide+x] {
				if _, dup := seen[i]; dup {
					continue
				}
				seen[i] = struct{}{}
				out = append(out, i)
			}
		}
	}
	return out
}

// RandomVertex picks a vertex through a random index buffer slot, skipping
// the slots of the lowest and highest vertex.
func (t *Terrain) RandomVertex(rng *rand.Rand) math.Vec3 {
	if len(t.Indices) <= 2 {
		return t.Vertices[t.Indices[0]]
	}
	for {
		i := rng.IntN(len(t.Indices))
		if i != t.MinIndex && i != t.MaxIndex {
			return t.Vertices[t.Indices[i]]
		}
	}
}
