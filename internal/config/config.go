// Package config defines the decoded configuration the border engine consumes:
// global visual defaults plus an ordered list of per-window override rules.
//
// Configuration is loaded from a single YAML or TOML file. The engine never
// reads files itself; it is handed a *Config.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mj1618/desktop-borders/internal/animation"
	"github.com/mj1618/desktop-borders/internal/color"
)

// ErrInvalidConfig wraps every structural decoding and validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Default values for Settings.
const (
	DefaultBorderWidth     = 4
	DefaultBorderOffset    = -1
	DefaultInactiveColor   = "#808080"
	DefaultInitializeDelay = 200
	DefaultUnminimizeDelay = 200
)

// Radius is a border corner radius in pixels, or Auto to follow the
// window's own corner rounding.
type Radius struct {
	Auto   bool    `json:"auto,omitempty"   yaml:"auto,omitempty"`
	Pixels float64 `json:"pixels,omitempty" yaml:"pixels,omitempty"`
}

// AutoRadius follows the window's corner rounding.
var AutoRadius = Radius{Auto: true}

func (r Radius) String() string {
	if r.Auto {
		return "auto"
	}
	return fmt.Sprintf("%gpx", r.Pixels)
}

// Animations holds the animation sets for each focus state.
type Animations struct {
	Active   animation.Set `json:"active,omitempty"   yaml:"active,omitempty"`
	Inactive animation.Set `json:"inactive,omitempty" yaml:"inactive,omitempty"`
}

// Settings is the full set of visual and timing parameters. The global block
// of the configuration is a Settings; so is every window's effective config.
type Settings struct {
	BorderWidth     int        `json:"border_width"     yaml:"border_width"`
	BorderOffset    int        `json:"border_offset"    yaml:"border_offset"`
	BorderRadius    Radius     `json:"border_radius"    yaml:"border_radius"`
	ActiveColor     color.Spec `json:"-"                yaml:"-"`
	InactiveColor   color.Spec `json:"-"                yaml:"-"`
	InitializeDelay int        `json:"initialize_delay" yaml:"initialize_delay"` // milliseconds
	UnminimizeDelay int        `json:"unminimize_delay" yaml:"unminimize_delay"` // milliseconds
	Animations      Animations `json:"animations"       yaml:"animations"`
}

// Overrides is a partial Settings: nil fields inherit.
type Overrides struct {
	BorderWidth     *int
	BorderOffset    *int
	BorderRadius    *Radius
	ActiveColor     *color.Spec
	InactiveColor   *color.Spec
	InitializeDelay *int
	UnminimizeDelay *int
	ActiveAnims     *animation.Set
	InactiveAnims   *animation.Set
}

// Apply returns s with every field set in o replaced. s is not modified.
func (s Settings) Apply(o Overrides) Settings {
	out := s
	out.Animations = Animations{
		Active:   s.Animations.Active.Clone(),
		Inactive: s.Animations.Inactive.Clone(),
	}
	if o.BorderWidth != nil {
		out.BorderWidth = *o.BorderWidth
	}
	if o.BorderOffset != nil {
		out.BorderOffset = *o.BorderOffset
	}
	if o.BorderRadius != nil {
		out.BorderRadius = *o.BorderRadius
	}
	if o.ActiveColor != nil {
		out.ActiveColor = *o.ActiveColor
	}
	if o.InactiveColor != nil {
		out.InactiveColor = *o.InactiveColor
	}
	if o.InitializeDelay != nil {
		out.InitializeDelay = *o.InitializeDelay
	}
	if o.UnminimizeDelay != nil {
		out.UnminimizeDelay = *o.UnminimizeDelay
	}
	if o.ActiveAnims != nil {
		out.Animations.Active = o.ActiveAnims.Clone()
	}
	if o.InactiveAnims != nil {
		out.Animations.Inactive = o.InactiveAnims.Clone()
	}
	return out
}

// MatchKind selects which window string a rule tests.
type MatchKind int

const (
	MatchUnset MatchKind = iota
	MatchClass
	MatchTitle
)

func (m MatchKind) String() string {
	switch m {
	case MatchClass:
		return "Class"
	case MatchTitle:
		return "Title"
	default:
		return "unset"
	}
}

// ParseMatchKind converts "Class" or "Title" (any case).
func ParseMatchKind(s string) (MatchKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "class":
		return MatchClass, nil
	case "title":
		return MatchTitle, nil
	default:
		return MatchUnset, fmt.Errorf("unknown match %q (expected Class or Title)", s)
	}
}

// Strategy is how a rule compares its string with the window's.
type Strategy int

const (
	StrategyEquals Strategy = iota
	StrategyContains
	StrategyRegex
	StrategyInvalid
)

func (s Strategy) String() string {
	switch s {
	case StrategyEquals:
		return "Equals"
	case StrategyContains:
		return "Contains"
	case StrategyRegex:
		return "Regex"
	default:
		return "invalid"
	}
}

// ParseStrategy converts "Equals", "Contains" or "Regex" (any case). The
// empty string is Equals.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "equals":
		return StrategyEquals, nil
	case "contains":
		return StrategyContains, nil
	case "regex":
		return StrategyRegex, nil
	default:
		return StrategyInvalid, fmt.Errorf("unknown strategy %q (expected Equals, Contains, or Regex)", s)
	}
}

// Rule overrides settings for windows whose class or title matches.
type Rule struct {
	Match    MatchKind
	Name     string
	Strategy Strategy
	// Enabled, when set to false, disables borders for matching windows.
	Enabled *bool
	Overrides
}

// Disables reports whether the rule turns borders off.
func (r Rule) Disables() bool {
	return r.Enabled != nil && !*r.Enabled
}

func (r Rule) String() string {
	return fmt.Sprintf("%s %s %q", r.Match, r.Strategy, r.Name)
}

// Config is the decoded configuration.
type Config struct {
	Global Settings
	Rules  []Rule

	// FPS is the target frame rate of the shared frame tick.
	FPS int
}

// Defaults returns the settings used for anything the file leaves out.
func Defaults() Settings {
	return Settings{
		BorderWidth:     DefaultBorderWidth,
		BorderOffset:    DefaultBorderOffset,
		BorderRadius:    AutoRadius,
		ActiveColor:     color.Accent(),
		InactiveColor:   color.Solid(DefaultInactiveColor),
		InitializeDelay: DefaultInitializeDelay,
		UnminimizeDelay: DefaultUnminimizeDelay,
	}
}

// Default returns a configuration with default settings and no rules.
func Default() *Config {
	return &Config{Global: Defaults(), FPS: animation.DefaultFPS}
}
