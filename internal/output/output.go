// Package output renders command results as text, JSON or YAML
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format selects how results are written
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Texter is implemented by values with a human-readable rendering
type Texter interface {
	Text() string
}

// ParseFormat resolves a --output flag value. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format: %s (want text, json or yaml)", s)
	}
}

// Write renders data to w in the given format
func Write(w io.Writer, format Format, data any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	case FormatText, "":
		if t, ok := data.(Texter); ok {
			_, err := io.WriteString(w, t.Text())
			return err
		}
		_, err := fmt.Fprintln(w, data)
		return err
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
