// Package output renders command results as a table, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Supported formats.
const (
	Table = "table"
	JSON  = "json"
	YAML  = "yaml"
)

// Validate returns an error for unknown formats.
func Validate(format string) error {
	switch format {
	case Table, JSON, YAML:
		return nil
	default:
		return fmt.Errorf("unknown output format '%s', must be one of: table, json, yaml", format)
	}
}

// Render writes v in format. For the table format, table is called with a
// tabwriter that is flushed afterwards.
func Render(w io.Writer, format string, v any, table func(w io.Writer)) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case Table:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	default:
		return Validate(format)
	}
}
