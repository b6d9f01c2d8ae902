package animation

import (
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"Spiral":         Spiral,
		"spiral":         Spiral,
		"ReverseSpiral":  ReverseSpiral,
		"reverse_spiral": ReverseSpiral,
		"Fade":           Fade,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		if err != nil {
			t.Errorf("ParseKind(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseKind(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseKind("Bounce"); err == nil {
		t.Error("ParseKind(\"Bounce\") should fail")
	}
}

func TestSet_KindsStable(t *testing.T) {
	s := Set{Fade: 1, Spiral: 2, ReverseSpiral: 3}
	kinds := s.Kinds()
	if len(kinds) != 3 || kinds[0] != Spiral || kinds[1] != ReverseSpiral || kinds[2] != Fade {
		t.Errorf("Kinds() = %v", kinds)
	}
}

func TestSet_Clone(t *testing.T) {
	s := Set{Fade: 1}
	c := s.Clone()
	c[Spiral] = 2
	if s.Has(Spiral) {
		t.Error("Clone shares storage")
	}
	if Set(nil).Clone() != nil {
		t.Error("nil Clone should be nil")
	}
}

func TestFrameInterval(t *testing.T) {
	if got := FrameInterval(50); got != 20*time.Millisecond {
		t.Errorf("FrameInterval(50) = %v", got)
	}
	if got := FrameInterval(0); got != FrameInterval(DefaultFPS) {
		t.Errorf("FrameInterval(0) = %v, want default", got)
	}
}

func TestFadeTicks(t *testing.T) {
	if got := FadeTicks(100, 50); got != 10 {
		t.Errorf("FadeTicks(100, 50) = %d, want 10", got)
	}
	if got := FadeTicks(50, 50); got != 20 {
		t.Errorf("FadeTicks(50, 50) = %d, want 20", got)
	}
	if got := FadeTicks(0, 60); got != 0 {
		t.Errorf("FadeTicks(0, 60) = %d, want 0", got)
	}
}

func TestEaseInOut(t *testing.T) {
	if EaseInOut(0) != 0 || EaseInOut(1) != 1 {
		t.Fatal("endpoints must be exact")
	}
	if v := EaseInOut(0.5); v < 0.499 || v > 0.501 {
		t.Errorf("EaseInOut(0.5) = %v, want ~0.5", v)
	}
	prev := 0.0
	for x := 0.01; x < 1; x += 0.01 {
		v := EaseInOut(x)
		if v < prev {
			t.Fatalf("not monotonic at %v: %v < %v", x, v, prev)
		}
		prev = v
	}
	if EaseInOut(0.1) >= 0.1 {
		t.Error("curve should ease in")
	}
}
