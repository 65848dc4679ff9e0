package input

import "testing"

func TestPressRelease(t *testing.T) {
	var in Intents
	in.Press(Forward)
	in.Press(Sprint)

	if !in.Held(Forward) || !in.Held(Sprint) {
		t.Fatal("expected forward and sprint held")
	}
	if !in.Pressed(Forward) {
		t.Error("expected forward edge press")
	}

	frame := in.Consume()
	if !frame.Pressed(Forward) {
		t.Error("consumed frame should carry the press")
	}
	if in.Pressed(Forward) {
		t.Error("press should be cleared after Consume")
	}
	if !in.Held(Forward) {
		t.Error("held flag should survive Consume")
	}

	in.Release(Forward)
	if in.Held(Forward) {
		t.Error("forward still held after Release")
	}
}

func TestRepeatPressIsNotEdge(t *testing.T) {
	var in Intents
	in.Press(Jump)
	in.Consume()
	in.Press(Jump) // key repeat while held

	if in.Pressed(Jump) {
		t.Error("repeat while held should not count as a new press")
	}
}

func TestTap(t *testing.T) {
	var in Intents
	in.Tap(Interact)
	if !in.Pressed(Interact) || in.Held(Interact) {
		t.Error("tap should press without holding")
	}
}

func TestLookAccumulates(t *testing.T) {
	var in Intents
	in.Look(0.1, 0.2)
	in.Look(0.1, -0.1)
	frame := in.Consume()

	if frame.Yaw < 0.199 || frame.Yaw > 0.201 {
		t.Errorf("Yaw = %v, want 0.2", frame.Yaw)
	}
	if in.Yaw != 0 || in.Pitch != 0 {
		t.Error("look deltas should reset after Consume")
	}
}

func TestBindings(t *testing.T) {
	b, err := NewBindings(DefaultKeys())
	if err != nil {
		t.Fatalf("NewBindings: %v", err)
	}
	if i, ok := b.Lookup("W"); !ok || i != Forward {
		t.Errorf("Lookup(W) = %v, %v", i, ok)
	}

	if _, err := NewBindings(map[string]string{"x": "teleport"}); err == nil {
		t.Error("expected error for unknown intent")
	}
}
