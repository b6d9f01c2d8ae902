package config

import (
	"fmt"

	"github.com/mj1618/desktop-borders/internal/animation"
	"github.com/mj1618/desktop-borders/internal/color"
)

// Diagnostic is one problem found by Validate. The configuration stays
// usable; the offending value has been normalized or will degrade at runtime.
type Diagnostic struct {
	Path    string `json:"path"    yaml:"path"`
	Message string `json:"message" yaml:"message"`
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Path, d.Message)
}

// Validate normalizes out-of-range values in place and reports every
// problem. Regex compilation is checked by the rule matcher.
func (c *Config) Validate() []Diagnostic {
	var diags []Diagnostic
	add := func(path, format string, args ...any) {
		diags = append(diags, Diagnostic{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if c.FPS <= 0 {
		add("global.animations.fps", "must be positive, got %d; using %d", c.FPS, animation.DefaultFPS)
		c.FPS = animation.DefaultFPS
	}

	checkSettings := func(prefix string, s *Settings) {
		if s.BorderWidth < 0 {
			add(prefix+".border_width", "must not be negative, got %d; using 0", s.BorderWidth)
			s.BorderWidth = 0
		}
		if !s.BorderRadius.Auto && s.BorderRadius.Pixels < 0 {
			add(prefix+".border_radius", "must be auto or non-negative, got %g; using auto", s.BorderRadius.Pixels)
			s.BorderRadius = AutoRadius
		}
		if s.InitializeDelay < 0 {
			add(prefix+".initialize_delay", "must not be negative, got %d; using 0", s.InitializeDelay)
			s.InitializeDelay = 0
		}
		if s.UnminimizeDelay < 0 {
			add(prefix+".unminimize_delay", "must not be negative, got %d; using 0", s.UnminimizeDelay)
			s.UnminimizeDelay = 0
		}
		checkColor(prefix+".active_color", s.ActiveColor, add)
		checkColor(prefix+".inactive_color", s.InactiveColor, add)
	}
	checkSettings("global", &c.Global)

	for i := range c.Rules {
		r := &c.Rules[i]
		prefix := fmt.Sprintf("window_rules[%d]", i)
		if r.Match == MatchUnset {
			add(prefix+".match", "must be Class or Title; rule never matches")
		}
		if r.Strategy == StrategyInvalid {
			add(prefix+".strategy", "must be Equals, Contains, or Regex; rule never matches")
		}
		if r.Name == "" {
			add(prefix+".name", "is empty")
		}
		checkOverrides(prefix, &r.Overrides, add)
	}
	return diags
}

// checkOverrides reports and normalizes only the fields a rule sets.
func checkOverrides(prefix string, o *Overrides, add func(string, string, ...any)) {
	if o.BorderWidth != nil && *o.BorderWidth < 0 {
		add(prefix+".border_width", "must not be negative, got %d; using 0", *o.BorderWidth)
		*o.BorderWidth = 0
	}
	if o.BorderRadius != nil && !o.BorderRadius.Auto && o.BorderRadius.Pixels < 0 {
		add(prefix+".border_radius", "must be auto or non-negative, got %g; using auto", o.BorderRadius.Pixels)
		*o.BorderRadius = AutoRadius
	}
	if o.InitializeDelay != nil && *o.InitializeDelay < 0 {
		add(prefix+".initialize_delay", "must not be negative, got %d; using 0", *o.InitializeDelay)
		*o.InitializeDelay = 0
	}
	if o.UnminimizeDelay != nil && *o.UnminimizeDelay < 0 {
		add(prefix+".unminimize_delay", "must not be negative, got %d; using 0", *o.UnminimizeDelay)
		*o.UnminimizeDelay = 0
	}
	if o.ActiveColor != nil {
		checkColor(prefix+".active_color", *o.ActiveColor, add)
	}
	if o.InactiveColor != nil {
		checkColor(prefix+".inactive_color", *o.InactiveColor, add)
	}
}

func checkColor(path string, spec color.Spec, add func(string, string, ...any)) {
	if spec.IsAccent() {
		return
	}
	if _, err := color.Resolve(spec, nil); err != nil {
		add(path, "%v; %s will be used", err, color.FallbackHex)
	}
}
