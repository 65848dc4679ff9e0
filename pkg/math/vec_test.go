package math

import (
	"testing"
)

func TestVec2Distance(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{4, 6}
	got := a.Distance(b)
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Distance() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}

	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("Normalize of zero vector should stay zero")
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Flat(t *testing.T) {
	got := Vec3{1, 7, -2}.Flat()
	if got != (Vec3{1, 0, -2}) {
		t.Errorf("Vec3.Flat() = %v", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 1) != 1 || Clamp(-5, 0, 1) != 0 || Clamp(0.5, 0, 1) != 0.5 {
		t.Error("Clamp returned value outside range")
	}
}

func TestVec3XZ(t *testing.T) {
	a := Vec3{1, 50, 2}
	b := Vec3{4, -3, 6}
	if got := a.XZ().Distance(b.XZ()); got != 5 {
		t.Errorf("ground distance = %v, want 5 (height ignored)", got)
	}
}
