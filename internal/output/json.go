package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// EncodeJSON serializes v to w as JSON.
// If pretty is true, uses indentation; otherwise single-line.
func EncodeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}
