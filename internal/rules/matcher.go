// Package rules resolves a window's effective settings from the global
// defaults and the first matching window rule.
package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mj1618/desktop-borders/internal/config"
)

var (
	// ErrRuleRegexInvalid is reported for a Regex rule whose pattern does not
	// compile. The rule never matches.
	ErrRuleRegexInvalid = errors.New("invalid rule regex")
	// ErrRuleInvalid is reported for a rule with an unknown match kind or
	// strategy. The rule never matches.
	ErrRuleInvalid = errors.New("invalid rule")
)

// NoRule is the Effective.Rule index when no rule matched.
const NoRule = -1

// Effective is the resolved configuration for one window.
type Effective struct {
	config.Settings
	// Enabled is false only when the winning rule disables borders.
	Enabled bool `json:"enabled" yaml:"enabled"`
	// Rule is the index of the winning rule, or NoRule.
	Rule int `json:"rule" yaml:"rule"`
}

type compiled struct {
	rule config.Rule
	re   *regexp.Regexp
	dead bool
}

func (c compiled) matches(class, title string) bool {
	if c.dead {
		return false
	}
	subject := class
	if c.rule.Match == config.MatchTitle {
		subject = title
	}
	switch c.rule.Strategy {
	case config.StrategyEquals:
		return subject == c.rule.Name
	case config.StrategyContains:
		return strings.Contains(subject, c.rule.Name)
	case config.StrategyRegex:
		return c.re.MatchString(subject)
	}
	return false
}

// Matcher is an immutable, compiled rule list. It is safe for concurrent use.
type Matcher struct {
	globals config.Settings
	rules   []compiled
	diags   []error
}

// New compiles cfg's rules. Rules that cannot be compiled are kept as
// never-matching and reported by Diagnostics.
func New(cfg *config.Config) *Matcher {
	m := &Matcher{
		globals: cfg.Global,
		rules:   make([]compiled, 0, len(cfg.Rules)),
	}
	for i, r := range cfg.Rules {
		c := compiled{rule: r}
		switch {
		case r.Match == config.MatchUnset:
			c.dead = true
			m.diags = append(m.diags, fmt.Errorf("%w: window_rules[%d] %s: unknown match kind", ErrRuleInvalid, i, r))
		case r.Strategy == config.StrategyInvalid:
			c.dead = true
			m.diags = append(m.diags, fmt.Errorf("%w: window_rules[%d] %s: unknown strategy", ErrRuleInvalid, i, r))
		case r.Strategy == config.StrategyRegex:
			re, err := regexp.Compile(r.Name)
			if err != nil {
				c.dead = true
				m.diags = append(m.diags, fmt.Errorf("%w: window_rules[%d] %q: %v", ErrRuleRegexInvalid, i, r.Name, err))
			}
			c.re = re
		}
		m.rules = append(m.rules, c)
	}
	return m
}

// Diagnostics returns the problems found while compiling.
func (m *Matcher) Diagnostics() []error {
	return m.diags
}

// Match returns the index of the first rule matching the window, or NoRule.
func (m *Matcher) Match(class, title string) int {
	for i, c := range m.rules {
		if c.matches(class, title) {
			return i
		}
	}
	return NoRule
}

// Resolve merges the globals with the first matching rule.
func (m *Matcher) Resolve(class, title string) Effective {
	i := m.Match(class, title)
	if i == NoRule {
		return Effective{Settings: m.globals.Apply(config.Overrides{}), Enabled: true, Rule: NoRule}
	}
	r := m.rules[i].rule
	return Effective{
		Settings: m.globals.Apply(r.Overrides),
		Enabled:  !r.Disables(),
		Rule:     i,
	}
}

// Rule returns the i'th rule as configured.
func (m *Matcher) Rule(i int) (config.Rule, bool) {
	if i < 0 || i >= len(m.rules) {
		return config.Rule{}, false
	}
	return m.rules[i].rule, true
}

// Len is the number of rules, including never-matching ones.
func (m *Matcher) Len() int {
	return len(m.rules)
}
