// Package animation tracks per-window animation progress for the closed set
// of border animations and advances it once per frame.
package animation

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind identifies one of the supported animations.
type Kind int

const (
	Spiral Kind = iota + 1
	ReverseSpiral
	Fade
)

const (
	// DefaultSpeed is used when a kind is configured without a speed.
	DefaultSpeed = 100.0
	// DefaultFPS is the frame rate used when none is configured.
	DefaultFPS = 60

	// SpiralPeriod is one full revolution at DefaultSpeed.
	SpiralPeriod = 3600 * time.Millisecond
	// FadeDuration is a full 0->1 fade at DefaultSpeed.
	FadeDuration = 200 * time.Millisecond
)

var kindNames = map[Kind]string{
	Spiral:        "Spiral",
	ReverseSpiral: "ReverseSpiral",
	Fade:          "Fade",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText renders the kind name so sets serialize as readable maps.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind converts a configured name ("Spiral", "reverse_spiral", ...) to a Kind.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s))
	for k, name := range kindNames {
		if strings.ToLower(name) == norm {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown animation %q (expected Spiral, ReverseSpiral, or Fade)", s)
}

// Set maps each configured kind to its speed. An empty set means transitions
// are instantaneous.
type Set map[Kind]float64

// Has reports whether k is configured.
func (s Set) Has(k Kind) bool {
	_, ok := s[k]
	return ok
}

// Kinds returns the configured kinds in a stable order.
func (s Set) Kinds() []Kind {
	kinds := make([]Kind, 0, len(s))
	for k := range s {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// FrameInterval is the tick period for fps; non-positive fps uses DefaultFPS.
func FrameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}

// FadeTicks is the number of frames a full fade takes at speed and fps.
// Zero means the fade is instantaneous.
func FadeTicks(speed float64, fps int) int {
	if speed <= 0 {
		return 0
	}
	d := float64(FadeDuration) * DefaultSpeed / speed
	frame := float64(FrameInterval(fps))
	n := int(d / frame)
	if float64(n)*frame < d {
		n++
	}
	return n
}
