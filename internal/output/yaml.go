package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// EncodeYAML serializes v to w as YAML.
func EncodeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
