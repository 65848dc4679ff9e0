package terrain

import (
	gomath "math"

	"github.com/Faultbox/totemfall/pkg/math"
)

// HeightFunc returns terrain elevation at a world XZ position.
type HeightFunc func(x, z float32) float32

// NewGrid builds a regular grid mesh of cells x cells quads centered on the
// origin, sampling height at every vertex. Each quad becomes two triangles.
func NewGrid(size float32, cells int, height HeightFunc) (*Terrain, error) {
	if cells < 1 {
		cells = 1
	}
	step := size / float32(cells)
	half := size / 2

	row := cells + 1
	vertices := make([]math.Vec3, 0, row*row)
	for z := range row {
		for x := range row {
			wx := -half + float32(x)*step
			wz := -half + float32(z)*step
			vertices = append(vertices, math.Vec3{X: wx, Y: height(wx, wz), Z: wz})
		}
	}

	indices := make([]uint32, 0, cells*cells*6)
	for z := range cells {
		for x := range cells {
			tl := uint32(z*row + x)
			tr := tl + 1
			bl := tl + uint32(row)
			br := bl + 1
			indices = append(indices, tl, bl, tr, tr, bl, br)
		}
	}

	return New(vertices, indices, size)
}

// Flat returns a constant height function.
func Flat(y float32) HeightFunc {
	return func(_, _ float32) float32 { return y }
}

// Rolling returns smooth sine hills with the given amplitude and wavelength.
func Rolling(amplitude, wavelength float32) HeightFunc {
	k := 2 * gomath.Pi / float64(wavelength)
	return func(x, z float32) float32 {
		h := gomath.Sin(float64(x)*k) + gomath.Cos(float64(z)*k*0.7)
		return amplitude * float32(1+h/2)
	}
}
