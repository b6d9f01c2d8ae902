package output

import (
	"errors"

	"github.com/mj1618/desktop-borders/internal/animation"
	"github.com/mj1618/desktop-borders/internal/border"
	"github.com/mj1618/desktop-borders/internal/config"
	"github.com/mj1618/desktop-borders/internal/model"
	"github.com/mj1618/desktop-borders/internal/rules"
)

// SettingsView is the printable form of config.Settings.
type SettingsView struct {
	BorderWidth     int                `yaml:"border_width"         json:"border_width"`
	BorderOffset    int                `yaml:"border_offset"        json:"border_offset"`
	BorderRadius    string             `yaml:"border_radius"        json:"border_radius"`
	ActiveColor     string             `yaml:"active_color"         json:"active_color"`
	InactiveColor   string             `yaml:"inactive_color"       json:"inactive_color"`
	InitializeDelay int                `yaml:"initialize_delay"     json:"initialize_delay"`
	UnminimizeDelay int                `yaml:"unminimize_delay"     json:"unminimize_delay"`
	ActiveAnims     map[string]float64 `yaml:"active_animations,omitempty"   json:"active_animations,omitempty"`
	InactiveAnims   map[string]float64 `yaml:"inactive_animations,omitempty" json:"inactive_animations,omitempty"`
}

// NewSettingsView converts s for printing.
func NewSettingsView(s config.Settings) SettingsView {
	return SettingsView{
		BorderWidth:     s.BorderWidth,
		BorderOffset:    s.BorderOffset,
		BorderRadius:    s.BorderRadius.String(),
		ActiveColor:     s.ActiveColor.String(),
		InactiveColor:   s.InactiveColor.String(),
		InitializeDelay: s.InitializeDelay,
		UnminimizeDelay: s.UnminimizeDelay,
		ActiveAnims:     setView(s.Animations.Active),
		InactiveAnims:   setView(s.Animations.Inactive),
	}
}

func setView(set animation.Set) map[string]float64 {
	if len(set) == 0 {
		return nil
	}
	out := make(map[string]float64, len(set))
	for k, speed := range set {
		out[k.String()] = speed
	}
	return out
}

// ResolveResult is the output of the `resolve` command.
type ResolveResult struct {
	Class    string       `yaml:"class"          json:"class"`
	Title    string       `yaml:"title"          json:"title"`
	Enabled  bool         `yaml:"enabled"        json:"enabled"`
	Rule     string       `yaml:"rule,omitempty" json:"rule,omitempty"`
	Settings SettingsView `yaml:"settings"       json:"settings"`
}

// NewResolveResult describes eff for a window with class and title. rule is
// the winning rule, if any.
func NewResolveResult(class, title string, eff rules.Effective, rule *config.Rule) ResolveResult {
	r := ResolveResult{
		Class:    class,
		Title:    title,
		Enabled:  eff.Enabled,
		Settings: NewSettingsView(eff.Settings),
	}
	if rule != nil {
		r.Rule = rule.String()
	}
	return r
}

// ValidateResult is the output of the `validate` command.
type ValidateResult struct {
	Valid       bool     `yaml:"valid"                 json:"valid"`
	Rules       int      `yaml:"rules"                 json:"rules"`
	FPS         int      `yaml:"fps"                   json:"fps"`
	Diagnostics []string `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
}

// NewValidateResult combines configuration diagnostics with the rule
// matcher's. Matcher errors for unknown match kinds or strategies repeat a
// configuration diagnostic and are skipped.
func NewValidateResult(cfg *config.Config, diags []config.Diagnostic, ruleErrs []error) ValidateResult {
	res := ValidateResult{Rules: len(cfg.Rules), FPS: cfg.FPS}
	for _, d := range diags {
		res.Diagnostics = append(res.Diagnostics, d.Error())
	}
	for _, err := range ruleErrs {
		if errors.Is(err, rules.ErrRuleInvalid) {
			continue
		}
		res.Diagnostics = append(res.Diagnostics, err.Error())
	}
	res.Valid = len(res.Diagnostics) == 0
	return res
}

// SimulateResult is the output of the `simulate` command.
type SimulateResult struct {
	Duration string          `yaml:"duration"          json:"duration"`
	Frames   int             `yaml:"frames"            json:"frames"`
	Renders  int             `yaml:"renders"           json:"renders"`
	Hides    int             `yaml:"hides"             json:"hides"`
	Windows  []border.Status `yaml:"windows"           json:"windows"`
	Errors   []string        `yaml:"errors,omitempty"  json:"errors,omitempty"`
	Image    string          `yaml:"image,omitempty"   json:"image,omitempty"`
}

// FrameLine is the compact one-line form of a frame used by the log
// compositor.
type FrameLine struct {
	Event    string         `yaml:"event"              json:"event"`
	Window   model.WindowID `yaml:"window"             json:"window"`
	State    string         `yaml:"state,omitempty"    json:"state,omitempty"`
	Bounds   model.Geometry `yaml:"bounds,omitempty"   json:"bounds,omitempty"`
	Width    int            `yaml:"width,omitempty"    json:"width,omitempty"`
	Colors   []string       `yaml:"colors,omitempty"   json:"colors,omitempty"`
	From     []string       `yaml:"from,omitempty"     json:"from,omitempty"`
	Opacity  float64        `yaml:"opacity,omitempty"  json:"opacity,omitempty"`
	Rotation float64        `yaml:"rotation,omitempty" json:"rotation,omitempty"`
}

// NewFrameLine summarizes f.
func NewFrameLine(f border.Frame) FrameLine {
	l := FrameLine{
		Event:    "render",
		Window:   f.Window,
		State:    f.State.String(),
		Bounds:   f.Bounds,
		Width:    f.Width,
		Opacity:  f.Params.Opacity,
		Rotation: f.Params.Rotation(),
	}
	for _, s := range f.Color.Stops {
		l.Colors = append(l.Colors, s.Color.Hex())
	}
	if f.From != nil {
		for _, s := range f.From.Stops {
			l.From = append(l.From, s.Color.Hex())
		}
	}
	return l
}

// HideLine is the log compositor's record of a hidden border.
func HideLine(id model.WindowID) FrameLine {
	return FrameLine{Event: "hide", Window: id}
}
