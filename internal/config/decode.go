package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mj1618/desktop-borders/internal/animation"
	"github.com/mj1618/desktop-borders/internal/color"
)

// fileConfig mirrors the on-disk layout. Polymorphic values (colors,
// directions, animation sets, radius) are decoded generically and converted
// afterwards so YAML and TOML share one conversion path.
type fileConfig struct {
	Global      rawSettings `yaml:"global"       toml:"global"`
	WindowRules []rawRule   `yaml:"window_rules" toml:"window_rules"`
}

type rawSettings struct {
	BorderWidth     *int           `yaml:"border_width"     toml:"border_width"`
	BorderOffset    *int           `yaml:"border_offset"    toml:"border_offset"`
	BorderRadius    any            `yaml:"border_radius"    toml:"border_radius"`
	ActiveColor     any            `yaml:"active_color"     toml:"active_color"`
	InactiveColor   any            `yaml:"inactive_color"   toml:"inactive_color"`
	InitializeDelay *int           `yaml:"initialize_delay" toml:"initialize_delay"`
	UnminimizeDelay *int           `yaml:"unminimize_delay" toml:"unminimize_delay"`
	Animations      *rawAnimations `yaml:"animations"       toml:"animations"`
}

type rawAnimations struct {
	Active   any  `yaml:"active"   toml:"active"`
	Inactive any  `yaml:"inactive" toml:"inactive"`
	FPS      *int `yaml:"fps"      toml:"fps"`
}

type rawRule struct {
	Match       string `yaml:"match"    toml:"match"`
	Name        string `yaml:"name"     toml:"name"`
	Strategy    string `yaml:"strategy" toml:"strategy"`
	Enabled     *bool  `yaml:"enabled"  toml:"enabled"`
	rawSettings `yaml:",inline"`
}

// build converts the raw file into a Config. Structural problems (a value of
// the wrong shape) are errors; semantic problems are left to Validate.
func (f *fileConfig) build() (*Config, error) {
	cfg := Default()

	o, fps, err := f.Global.overrides()
	if err != nil {
		return nil, fmt.Errorf("%w: global: %v", ErrInvalidConfig, err)
	}
	cfg.Global = cfg.Global.Apply(o)
	if fps != nil {
		cfg.FPS = *fps
	}

	for i, rr := range f.WindowRules {
		rule, err := rr.rule()
		if err != nil {
			return nil, fmt.Errorf("%w: window_rules[%d]: %v", ErrInvalidConfig, i, err)
		}
		cfg.Rules = append(cfg.Rules, rule)
	}
	return cfg, nil
}

func (r rawRule) rule() (Rule, error) {
	o, fps, err := r.overrides()
	if err != nil {
		return Rule{}, err
	}
	if fps != nil {
		return Rule{}, fmt.Errorf("fps is global-only")
	}
	// Unknown match kinds and strategies are kept as unset/invalid so the
	// matcher can report them and treat the rule as never matching.
	match, _ := ParseMatchKind(r.Match)
	strategy, _ := ParseStrategy(r.Strategy)
	return Rule{
		Match:     match,
		Name:      r.Name,
		Strategy:  strategy,
		Enabled:   r.Enabled,
		Overrides: o,
	}, nil
}

func (s rawSettings) overrides() (Overrides, *int, error) {
	o := Overrides{
		BorderWidth:     s.BorderWidth,
		BorderOffset:    s.BorderOffset,
		InitializeDelay: s.InitializeDelay,
		UnminimizeDelay: s.UnminimizeDelay,
	}
	if s.BorderRadius != nil {
		r, err := decodeRadius(s.BorderRadius)
		if err != nil {
			return o, nil, fmt.Errorf("border_radius: %v", err)
		}
		o.BorderRadius = &r
	}
	if s.ActiveColor != nil {
		c, err := decodeColor(s.ActiveColor)
		if err != nil {
			return o, nil, fmt.Errorf("active_color: %v", err)
		}
		o.ActiveColor = &c
	}
	if s.InactiveColor != nil {
		c, err := decodeColor(s.InactiveColor)
		if err != nil {
			return o, nil, fmt.Errorf("inactive_color: %v", err)
		}
		o.InactiveColor = &c
	}
	var fps *int
	if a := s.Animations; a != nil {
		fps = a.FPS
		if a.Active != nil {
			set, err := decodeSet(a.Active)
			if err != nil {
				return o, nil, fmt.Errorf("animations.active: %v", err)
			}
			o.ActiveAnims = &set
		}
		if a.Inactive != nil {
			set, err := decodeSet(a.Inactive)
			if err != nil {
				return o, nil, fmt.Errorf("animations.inactive: %v", err)
			}
			o.InactiveAnims = &set
		}
	}
	return o, fps, nil
}

// decodeColor accepts a string ("#RRGGBB", "#RRGGBBAA", "accent") or a
// mapping {colors: [...], direction: ...}. Hex validity is not checked here.
func decodeColor(v any) (color.Spec, error) {
	switch t := v.(type) {
	case string:
		return color.Solid(t), nil
	case map[string]any:
		rawColors, ok := t["colors"]
		if !ok {
			return color.Spec{}, fmt.Errorf("gradient without colors")
		}
		list, ok := rawColors.([]any)
		if !ok {
			return color.Spec{}, fmt.Errorf("colors must be a list, got %T", rawColors)
		}
		colors := make([]string, 0, len(list))
		for _, c := range list {
			s, ok := c.(string)
			if !ok {
				return color.Spec{}, fmt.Errorf("gradient color must be a string, got %T", c)
			}
			colors = append(colors, s)
		}
		dir := color.Angle(0)
		if rawDir, ok := t["direction"]; ok && rawDir != nil {
			d, err := decodeDirection(rawDir)
			if err != nil {
				return color.Spec{}, err
			}
			dir = d
		}
		return color.NewGradient(dir, colors...), nil
	default:
		return color.Spec{}, fmt.Errorf("unsupported color value %v (%T)", v, v)
	}
}

// decodeDirection accepts 45, "45", "45deg" or {start: [x, y], end: [x, y]}.
func decodeDirection(v any) (color.Direction, error) {
	if deg, ok := toFloat(v); ok {
		return color.Angle(deg), nil
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(t)), "deg")
		deg, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return color.Direction{}, fmt.Errorf("invalid direction %q", t)
		}
		return color.Angle(deg), nil
	case map[string]any:
		start, err := decodePoint(t["start"])
		if err != nil {
			return color.Direction{}, fmt.Errorf("direction.start: %v", err)
		}
		end, err := decodePoint(t["end"])
		if err != nil {
			return color.Direction{}, fmt.Errorf("direction.end: %v", err)
		}
		return color.Vector(start, end), nil
	default:
		return color.Direction{}, fmt.Errorf("unsupported direction %v (%T)", v, v)
	}
}

func decodePoint(v any) (color.Point, error) {
	list, ok := v.([]any)
	if !ok || len(list) != 2 {
		return color.Point{}, fmt.Errorf("expected [x, y], got %v", v)
	}
	x, okX := toFloat(list[0])
	y, okY := toFloat(list[1])
	if !okX || !okY {
		return color.Point{}, fmt.Errorf("expected numbers, got %v", v)
	}
	return color.Point{X: x, Y: y}, nil
}

// decodeSet accepts {Spiral: 120, Fade: ~} or a list of kind names. A null
// speed is animation.DefaultSpeed.
func decodeSet(v any) (animation.Set, error) {
	set := animation.Set{}
	switch t := v.(type) {
	case map[string]any:
		for name, raw := range t {
			k, err := animation.ParseKind(name)
			if err != nil {
				return nil, err
			}
			speed := animation.DefaultSpeed
			if raw != nil {
				f, ok := toFloat(raw)
				if !ok {
					return nil, fmt.Errorf("%s: speed must be a number, got %v", name, raw)
				}
				speed = f
			}
			set[k] = speed
		}
	case []any:
		for _, raw := range t {
			name, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("animation name must be a string, got %v", raw)
			}
			k, err := animation.ParseKind(name)
			if err != nil {
				return nil, err
			}
			set[k] = animation.DefaultSpeed
		}
	default:
		return nil, fmt.Errorf("unsupported animation set %v (%T)", v, v)
	}
	return set, nil
}

// decodeRadius accepts "auto", -1 (auto) or a non-negative number.
func decodeRadius(v any) (Radius, error) {
	if s, ok := v.(string); ok {
		if strings.EqualFold(strings.TrimSpace(s), "auto") {
			return AutoRadius, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return Radius{}, fmt.Errorf("invalid radius %q", s)
		}
		v = f
	}
	f, ok := toFloat(v)
	if !ok {
		return Radius{}, fmt.Errorf("unsupported radius %v (%T)", v, v)
	}
	if f == -1 {
		return AutoRadius, nil
	}
	return Radius{Pixels: f}, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
