package enemy

import (
	gomath "math"
	"math/rand/v2"

	"github.com/Faultbox/totemfall/internal/assets"
	"github.com/Faultbox/totemfall/pkg/math"
)

// Archetype holds everything that differs between enemy kinds. Behavior is
// shared; only these numbers change.
type Archetype struct {
	Name  string
	Asset assets.Kind

	ForwardSpeed float32
	LateralSpeed float32 // sideways drift, only while triggered
	FallRate     float32
	HoverHeight  float32

	Damage      float32 // contact damage at level 1
	Health      float32 // health at level 1
	DetectRange float32
	Score       int

	SpawnMin  float32 // annulus around the totem
	SpawnMax  float32
	SpawnRate float64 // per-frame probability at level 1
	Caps      []int   // concurrent cap, indexed by level-1

	Half math.Vec3 // collision box half extents

	// YawOffset turns the model so its mesh faces the travel direction.
	YawOffset float32
}

var (
	Ghost = &Archetype{
		Name:         "ghost",
		Asset:        assets.Ghost,
		ForwardSpeed: 10,
		LateralSpeed: 5,
		FallRate:     10,
		HoverHeight:  20,
		Damage:       2,
		Health:       20,
		DetectRange:  200,
		Score:        80,
		SpawnMin:     30,
		SpawnMax:     50,
		SpawnRate:    0.0015,
		Caps:         []int{5, 6},
		Half:         math.Vec3{X: 5, Y: 10, Z: 5},
		YawOffset:    -gomath.Pi / 2,
	}
	Rocky = &Archetype{
		Name:         "rocky",
		Asset:        assets.Rocky,
		ForwardSpeed: 10,
		FallRate:     20,
		HoverHeight:  5,
		Damage:       3,
		Health:       30,
		DetectRange:  150,
		Score:        120,
		SpawnMin:     30,
		SpawnMax:     40,
		SpawnRate:    0.001,
		Caps:         []int{5, 6},
		Half:         math.Vec3{X: 5, Y: 5, Z: 5},
		YawOffset:    gomath.Pi,
	}
)

// Cap returns the concurrent limit for level. Levels past the table use
// the last entry.
func (a *Archetype) Cap(level int) int {
	if len(a.Caps) == 0 {
		return 0
	}
	i := min(max(level, 1), len(a.Caps)) - 1
	return a.Caps[i]
}

// RockyChance returns the probability that a new spawner produces rocky.
func RockyChance(level int) float64 {
	return min(0.8, 0.5+0.1*float64(level-1))
}

// Pick chooses the archetype for a new spawner.
func Pick(rng *rand.Rand, level int) *Archetype {
	if rng.Float64() < RockyChance(level) {
		return Rocky
	}
	return Ghost
}
