package output

import (
	"fmt"
	"io"
	"os"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q (expected yaml or json)", s)
	}
}

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Print serializes v to stdout in the current output format.
func Print(v interface{}) error {
	return Encode(os.Stdout, v, OutputFormat, PrettyOutput)
}

// Encode serializes v to w in format.
func Encode(w io.Writer, v interface{}, format Format, pretty bool) error {
	switch format {
	case FormatJSON:
		return EncodeJSON(w, v, pretty)
	case FormatYAML:
		return EncodeYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// PrintJSON serializes v to stdout as compact single-line JSON.
func PrintJSON(v interface{}) error {
	return EncodeJSON(os.Stdout, v, false)
}

// PrintPrettyJSON serializes v to stdout as indented JSON.
func PrintPrettyJSON(v interface{}) error {
	return EncodeJSON(os.Stdout, v, true)
}

// PrintYAML serializes v to stdout as YAML.
func PrintYAML(v interface{}) error {
	return EncodeYAML(os.Stdout, v)
}
