// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rss

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/vrss/internal/extract"
	"github.com/pdiddy/vrss/pkg/types"
)

// Value is one named predicate result.
type Value struct {
	Name  string       `json:"name" yaml:"name"`
	Value types.Number `json:"value" yaml:"value"`
	Holds bool         `json:"holds" yaml:"holds"`
}

// Result is the structured form of one signal's predicates.
type Result struct {
	Record     int     `json:"record" yaml:"record"`
	Pov        int     `json:"pov" yaml:"pov"`
	Predicates []Value `json:"predicates" yaml:"predicates"`
}

// Line formats predicate values space-separated in p0..p7 order.
func (p Predicates) Line() string {
	parts := make([]string, Count)
	for i, v := range p {
		parts[i] = types.FloatNumber(v).String()
	}
	return strings.Join(parts, " ")
}

// Write renders predicates for signals in text, json, or yaml form.
// preds[i] must belong to signals[i].
func Write(w io.Writer, signals []types.Signal, preds []Predicates, format extract.Format) error {
	if len(signals) != len(preds) {
		return fmt.Errorf("have %d signals but %d predicate rows", len(signals), len(preds))
	}

	switch format {
	case extract.FormatText, "":
		for _, p := range preds {
			if _, err := fmt.Fprintln(w, p.Line()); err != nil {
				return err
			}
		}
		return nil
	case extract.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results(signals, preds))
	case extract.FormatYAML:
		return extract.EncodeYAML(w, results(signals, preds))
	default:
		return fmt.Errorf("unsupported predicate format %q: use text, json, or yaml", format)
	}
}

func results(signals []types.Signal, preds []Predicates) []Result {
	out := make([]Result, len(signals))
	for i, s := range signals {
		holds := preds[i].Holds()
		values := make([]Value, Count)
		for j, v := range preds[i] {
			values[j] = Value{Name: Names[j], Value: types.FloatNumber(v), Holds: holds[j]}
		}
		out[i] = Result{Record: s.Record, Pov: s.Pov, Predicates: values}
	}
	return out
}
