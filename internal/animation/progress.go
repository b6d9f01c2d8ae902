package animation

import (
	"math"
	"time"
)

// maxSpiralStep keeps a single frame from advancing a spiral by a whole turn.
const maxSpiralStep = 359.0 / 360.0

// settleEpsilon absorbs float drift so a fade lands exactly on its target.
const settleEpsilon = 1e-9

// Animation is the progress of one kind. For spirals Phase is the rotation in
// turns, wrapped to [0,1). For Fade, Phase is the linear progress in [0,1]
// moving toward Target.
type Animation struct {
	Kind   Kind
	Speed  float64
	Phase  float64
	Target float64

	// implicit marks the opacity holder kept when Fade is not configured.
	implicit bool
}

// done reports whether a fade reached its target. Spirals never finish.
func (a Animation) done() bool {
	return a.Kind == Fade && a.Phase == a.Target
}

func (a *Animation) advance(elapsed time.Duration) {
	switch a.Kind {
	case Spiral, ReverseSpiral:
		step := elapsed.Seconds() / SpiralPeriod.Seconds() * a.Speed / DefaultSpeed
		step = math.Max(-maxSpiralStep, math.Min(maxSpiralStep, step))
		if a.Kind == ReverseSpiral {
			step = -step
		}
		a.Phase = wrap(a.Phase + step)

	case Fade:
		if a.done() {
			return
		}
		if a.implicit || a.Speed <= 0 {
			a.Phase = a.Target
			return
		}
		step := float64(elapsed) / float64(FadeDuration) * a.Speed / DefaultSpeed
		if a.Target > a.Phase {
			a.Phase = math.Min(a.Target, a.Phase+step)
		} else {
			a.Phase = math.Max(a.Target, a.Phase-step)
		}
		if math.Abs(a.Target-a.Phase) < settleEpsilon {
			a.Phase = a.Target
		}
	}
}

// Params is what the renderer needs from one window's animations for a frame.
type Params struct {
	Kinds         []Kind  `json:"kinds,omitempty"  yaml:"kinds,omitempty"`
	Spiral        float64 `json:"spiral"           yaml:"spiral"`
	ReverseSpiral float64 `json:"reverse_spiral"   yaml:"reverse_spiral"`
	Opacity       float64 `json:"opacity"          yaml:"opacity"`
	Fading        bool    `json:"fading,omitempty" yaml:"fading,omitempty"`
}

// Has reports whether k contributed to these params.
func (p Params) Has(k Kind) bool {
	for _, x := range p.Kinds {
		if x == k {
			return true
		}
	}
	return false
}

// Rotation is the combined spiral rotation in turns, in [0,1).
func (p Params) Rotation() float64 {
	r := 0.0
	if p.Has(Spiral) {
		r += p.Spiral
	}
	if p.Has(ReverseSpiral) {
		r += p.ReverseSpiral
	}
	return wrap(r)
}

// Progress holds the running animations of one window. It is not safe for
// concurrent use; the owning border serializes access.
type Progress struct {
	anims []Animation
}

// Start replaces all running animations with the kinds in set. A configured
// Fade runs from fadeFrom to fadeTo; without Fade the opacity is fadeTo.
func (p *Progress) Start(set Set, fadeFrom, fadeTo float64) {
	p.anims = p.anims[:0]
	for _, k := range set.Kinds() {
		a := Animation{Kind: k, Speed: set[k]}
		if k == Fade {
			a.Phase, a.Target = clamp01(fadeFrom), clamp01(fadeTo)
			if a.Speed <= 0 {
				a.Phase = a.Target
			}
		}
		p.anims = append(p.anims, a)
	}
	if !set.Has(Fade) {
		p.anims = append(p.anims, Animation{Kind: Fade, Phase: clamp01(fadeTo), Target: clamp01(fadeTo), implicit: true})
	}
}

// FadeTo retargets the fade, keeping its current progress. It reports
// whether a visible fade is now in flight; without a configured Fade the
// opacity jumps to target.
func (p *Progress) FadeTo(target float64) bool {
	target = clamp01(target)
	for i := range p.anims {
		a := &p.anims[i]
		if a.Kind != Fade {
			continue
		}
		a.Target = target
		if a.implicit || a.Speed <= 0 {
			a.Phase = target
		}
		return !a.done()
	}
	p.anims = append(p.anims, Animation{Kind: Fade, Phase: target, Target: target, implicit: true})
	return false
}

// Stop discards all progress.
func (p *Progress) Stop() {
	p.anims = p.anims[:0]
}

// Fading reports whether a fade has not yet reached its target.
func (p *Progress) Fading() bool {
	for _, a := range p.anims {
		if a.Kind == Fade && !a.done() {
			return true
		}
	}
	return false
}

// FadePhase returns the linear fade progress in [0,1], before easing. It is
// 1 when nothing is running.
func (p *Progress) FadePhase() float64 {
	for _, a := range p.anims {
		if a.Kind == Fade {
			return a.Phase
		}
	}
	return 1
}

// Continuous reports whether an idle animation (a spiral) is running.
func (p *Progress) Continuous() bool {
	for _, a := range p.anims {
		if a.Kind == Spiral || a.Kind == ReverseSpiral {
			return true
		}
	}
	return false
}

// Animations returns a copy of the running animations.
func (p *Progress) Animations() []Animation {
	return append([]Animation(nil), p.anims...)
}

// Advance moves every animation forward by elapsed and returns the resulting
// parameters.
func (p *Progress) Advance(elapsed time.Duration) Params {
	if elapsed > 0 {
		for i := range p.anims {
			p.anims[i].advance(elapsed)
		}
	}
	return p.Params()
}

// Params returns the current parameters without advancing.
func (p *Progress) Params() Params {
	params := Params{Opacity: 1}
	for _, a := range p.anims {
		switch a.Kind {
		case Spiral:
			params.Spiral = a.Phase
		case ReverseSpiral:
			params.ReverseSpiral = a.Phase
		case Fade:
			params.Opacity = EaseInOut(a.Phase)
			params.Fading = !a.done()
			if a.implicit {
				continue
			}
		}
		params.Kinds = append(params.Kinds, a.Kind)
	}
	return params
}

func wrap(v float64) float64 {
	v = math.Mod(v, 1)
	if v < 0 {
		v++
	}
	if v >= 1 {
		v = 0
	}
	return v
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
