package output

import (
	"bytes"
	"encoding/json"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/mj1618/desktop-borders/internal/animation"
	"github.com/mj1618/desktop-borders/internal/border"
	"github.com/mj1618/desktop-borders/internal/color"
	"github.com/mj1618/desktop-borders/internal/config"
	"github.com/mj1618/desktop-borders/internal/model"
	"github.com/mj1618/desktop-borders/internal/rules"
	"gopkg.in/yaml.v3"
)

func TestPrintYAML(t *testing.T) {
	result := ValidateResult{Valid: false, Rules: 2, FPS: 60, Diagnostics: []string{"a", "b"}}

	// Capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := PrintYAML(result)
	w.Close()
	os.Stdout = old

	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	if bytes.Count([]byte(output), []byte("\n")) <= 1 {
		t.Errorf("YAML output should be multi-line, got:\n%s", output)
	}

	var decoded ValidateResult
	if err := yaml.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.Rules != 2 || len(decoded.Diagnostics) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestEncode_JSONCompactAndPretty(t *testing.T) {
	v := ValidateResult{Valid: true, Rules: 1, FPS: 30}

	var compact bytes.Buffer
	if err := Encode(&compact, v, FormatJSON, false); err != nil {
		t.Fatal(err)
	}
	if strings.Count(compact.String(), "\n") != 1 {
		t.Errorf("compact output should be a single line, got:\n%s", compact.String())
	}

	var pretty bytes.Buffer
	if err := Encode(&pretty, v, FormatJSON, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(pretty.String(), "\n  \"valid\": true") {
		t.Errorf("pretty output not indented:\n%s", pretty.String())
	}

	var decoded ValidateResult
	if err := json.Unmarshal(compact.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(decoded, v) {
		t.Errorf("decoded = %+v", decoded)
	}
	if _, ok := decodeMap(t, compact.Bytes())["diagnostics"]; ok {
		t.Error("empty diagnostics should be omitted")
	}
}

func decodeMap(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestEncode_UnknownFormat(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, 1, Format("xml"), false); err == nil {
		t.Error("expected error")
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat accepted xml")
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
}

func TestNewResolveResult(t *testing.T) {
	s := config.Defaults()
	s.Animations.Active = animation.Set{animation.Spiral: 120}
	s.InactiveColor = color.NewGradient(color.Angle(45), "#000000", "#ffffff")
	rule := config.Rule{Match: config.MatchTitle, Name: "Doc"}
	res := NewResolveResult("App", "Doc", rules.Effective{Settings: s, Enabled: true, Rule: 0}, &rule)

	var buf bytes.Buffer
	if err := EncodeYAML(&buf, res); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"rule: Title Equals",
		"active_color: accent",
		"border_radius: auto",
		"Spiral: 120",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "inactive_animations") {
		t.Error("empty animation set should be omitted")
	}
}

func TestNewFrameLine(t *testing.T) {
	desc, err := color.Resolve(color.Solid("#ff0000"), nil)
	if err != nil {
		t.Fatal(err)
	}
	from, _ := color.Resolve(color.Solid("#0000ff"), nil)
	f := border.Frame{
		Window: 7,
		State:  border.VisibleActive,
		Bounds: model.Geometry{Width: 10, Height: 10},
		Width:  4,
		Color:  desc,
		From:   &from,
		Params: animation.Params{Opacity: 0.5},
	}
	l := NewFrameLine(f)
	if l.Event != "render" || l.State != "visible-active" || l.Colors[0] != "#ff0000" || l.From[0] != "#0000ff" {
		t.Errorf("line = %+v", l)
	}
	if h := HideLine(7); h.Event != "hide" || h.Window != 7 {
		t.Errorf("hide = %+v", h)
	}
}

func TestNewValidateResult(t *testing.T) {
	cfg := config.Default()
	cfg.Rules = []config.Rule{
		{Match: config.MatchUnset, Name: "x"},
		{Match: config.MatchTitle, Name: "(", Strategy: config.StrategyRegex},
	}
	diags := cfg.Validate()
	res := NewValidateResult(cfg, diags, rules.New(cfg).Diagnostics())

	if res.Valid || res.Rules != 2 || res.FPS != 60 {
		t.Errorf("result = %+v", res)
	}
	// One diagnostic for the unset match kind, one for the regex; the
	// matcher's duplicate of the first is dropped.
	if len(res.Diagnostics) != 2 {
		t.Fatalf("diagnostics = %q", res.Diagnostics)
	}
	if !strings.HasPrefix(res.Diagnostics[0], "window_rules[0].match") {
		t.Errorf("first = %q", res.Diagnostics[0])
	}
	if !strings.Contains(res.Diagnostics[1], "window_rules[1]") {
		t.Errorf("second = %q", res.Diagnostics[1])
	}

	clean := config.Default()
	if res := NewValidateResult(clean, clean.Validate(), nil); !res.Valid || len(res.Diagnostics) != 0 {
		t.Errorf("clean result = %+v", res)
	}
}
