package weapon

import "github.com/Faultbox/totemfall/pkg/math"

// Spec describes one weapon.
type Spec struct {
	Name    string
	Frames  int     // recoil length at fire rate 1
	Spread  float32 // radians
	Speed   float32
	Damage  float32
	Scope   float32 // FOV divisor while aiming
	Auto    bool    // keeps firing while the trigger is held
	Overlay bool    // aiming shows a scope overlay and hides the mesh
	Kick    Pose    // recoil peak
}

// Pose is the weapon's offset from the camera.
type Pose struct {
	Offset math.Vec3
	Pitch  float32
}

// Add returns the component-wise sum.
func (p Pose) Add(o Pose) Pose {
	return Pose{Offset: p.Offset.Add(o.Offset), Pitch: p.Pitch + o.Pitch}
}

// Scale scales both offset and pitch.
func (p Pose) Scale(s float32) Pose {
	return Pose{Offset: p.Offset.Scale(s), Pitch: p.Pitch * s}
}

var (
	Edge14 = Spec{
		Name:   "Edge14",
		Frames: 8,
		Spread: 0.03,
		Speed:  600,
		Damage: 5,
		Scope:  1.25,
		Auto:   true,
		Kick:   Pose{Offset: math.Vec3{Z: 0.5}, Pitch: 0.05},
	}
	Longshot = Spec{
		Name:    "Longshot",
		Frames:  70,
		Spread:  0.01,
		Speed:   1600,
		Damage:  30,
		Scope:   4,
		Overlay: true,
		Kick:    Pose{Offset: math.Vec3{Z: 2}, Pitch: 0.2},
	}
)

// Mesh placement relative to the camera.
var (
	HipPose = Pose{Offset: math.Vec3{X: 3, Y: -2.5, Z: -5}}
	AimPose = Pose{Offset: math.Vec3{X: 0, Y: -1.5, Z: -4}}
)

// Recoil returns the kick for frame out of total: a linear rise to the peak
// over the first half and back to neutral over the second.
func (s Spec) Recoil(frame, total int) Pose {
	if total <= 0 || frame <= 0 || frame >= total {
		return Pose{}
	}
	f := float32(frame) / float32(total)
	amount := f * 2
	if f > 0.5 {
		amount = (1 - f) * 2
	}
	return s.Kick.Scale(amount)
}
