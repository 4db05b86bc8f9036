// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-logfmt/logfmt"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/vrss/pkg/types"
)

// Format selects how signals are written.
type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatLogfmt Format = "logfmt"
)

// ParseFormat validates a user-supplied output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML, FormatLogfmt:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use text, json, yaml, or logfmt", s)
	}
}

// Write renders signals to w in the given format.
func Write(w io.Writer, signals []types.Signal, format Format) error {
	switch format {
	case FormatText, "":
		for _, line := range Lines(signals) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records(signals))
	case FormatYAML:
		return EncodeYAML(w, records(signals))
	case FormatLogfmt:
		return writeLogfmt(w, signals)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// EncodeYAML writes v as a YAML document with two-space indentation.
func EncodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

func records(signals []types.Signal) []types.SignalRecord {
	out := make([]types.SignalRecord, len(signals))
	for i, s := range signals {
		out[i] = s.ToRecord()
	}
	return out
}

func writeLogfmt(w io.Writer, signals []types.Signal) error {
	enc := logfmt.NewEncoder(w)
	for _, s := range signals {
		if err := enc.EncodeKeyvals("record", s.Record, "pov", s.Pov); err != nil {
			return err
		}
		for i, n := range s.Fields() {
			if err := enc.EncodeKeyval(types.SignalFields[i], n.String()); err != nil {
				return err
			}
		}
		if err := enc.EndRecord(); err != nil {
			return err
		}
	}
	return nil
}
