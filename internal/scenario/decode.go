// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scenario decodes scenario documents into typed records.
// Every required field is checked at decode time so that malformed input
// fails before any extraction starts, with the record index and field
// path in the error.
package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/vrss/pkg/types"
)

// Format identifies the encoding of a scenario document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied input format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported input format %q: use json or yaml", s)
	}
}

// FormatForPath picks the format from a file extension, falling back to
// def for unknown extensions and stdin.
func FormatForPath(path string, def Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return def
	}
}

// FieldError reports a missing or mistyped field inside a record.
type FieldError struct {
	// Path locates the enclosing mapping, e.g. "povs[1].agent".
	Path string

	// Field is the key that is missing or mistyped.
	Field string

	// Want is the expected kind. Empty means the field is missing.
	Want string

	// Got is the kind actually found.
	Got string
}

func (e *FieldError) Error() string {
	if e.Want == "" {
		if e.Path == "" {
			return fmt.Sprintf("missing field %q", e.Field)
		}
		return fmt.Sprintf("%s: missing field %q", e.Path, e.Field)
	}
	return fmt.Sprintf("%s: expected %s, got %s", joinPath(e.Path, e.Field), e.Want, e.Got)
}

// Decode reads a whole scenario document from r and returns its records
// in document order.
func Decode(r io.Reader, format Format) ([]types.ScenarioElement, error) {
	var (
		doc any
		err error
	)
	switch format {
	case FormatJSON, "":
		doc, err = readJSON(r)
	case FormatYAML:
		doc, err = readYAML(r)
	default:
		return nil, fmt.Errorf("unsupported input format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing scenarios: %w", err)
	}
	return fromTree(doc)
}

func readJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty input")
		}
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return doc, nil
}

func readYAML(r io.Reader) (any, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty input")
		}
		return nil, err
	}
	return doc, nil
}

func fromTree(doc any) ([]types.ScenarioElement, error) {
	list, ok := doc.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array of scenario records, got %s", kindOf(doc))
	}

	records := make([]types.ScenarioElement, 0, len(list))
	for i, item := range list {
		e, err := decodeElement(item)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, e)
	}
	return records, nil
}

func decodeElement(v any) (types.ScenarioElement, error) {
	var e types.ScenarioElement

	m, ok := v.(map[string]any)
	if !ok {
		return e, fmt.Errorf("expected object, got %s", kindOf(v))
	}

	svRaw, err := lookup(m, "", "sv")
	if err != nil {
		return e, err
	}
	e.SV, err = decodeKinematics(svRaw, "sv")
	if err != nil {
		return e, err
	}

	povsRaw, err := lookup(m, "", "povs")
	if err != nil {
		return e, err
	}
	povs, ok := povsRaw.([]any)
	if !ok {
		return e, &FieldError{Field: "povs", Want: "array", Got: kindOf(povsRaw)}
	}

	e.Povs = make([]types.PovEntry, 0, len(povs))
	for j, p := range povs {
		path := "povs[" + strconv.Itoa(j) + "]"
		pm, ok := p.(map[string]any)
		if !ok {
			return e, &FieldError{Field: path, Want: "object", Got: kindOf(p)}
		}
		agentRaw, err := lookup(pm, path, "agent")
		if err != nil {
			return e, err
		}
		agent, err := decodeKinematics(agentRaw, path+".agent")
		if err != nil {
			return e, err
		}
		e.Povs = append(e.Povs, types.PovEntry{Agent: agent})
	}

	return e, nil
}

func decodeKinematics(v any, path string) (types.Kinematics, error) {
	var k types.Kinematics

	m, ok := v.(map[string]any)
	if !ok {
		return k, &FieldError{Field: path, Want: "object", Got: kindOf(v)}
	}

	fields := []struct {
		key string
		dst *types.Number
	}{
		{"x", &k.X},
		{"y", &k.Y},
		{"velX", &k.VelX},
		{"accelX", &k.AccelX},
	}
	for _, f := range fields {
		raw, err := lookup(m, path, f.key)
		if err != nil {
			return k, err
		}
		n, err := toNumber(raw)
		if err != nil {
			return k, &FieldError{Path: path, Field: f.key, Want: "number", Got: err.Error()}
		}
		*f.dst = n
	}
	return k, nil
}

func lookup(m map[string]any, path, key string) (any, error) {
	v, ok := m[key]
	if !ok {
		return nil, &FieldError{Path: path, Field: key}
	}
	return v, nil
}

// toNumber converts a decoded scalar into a Number. The returned error text
// describes what was found instead of a number.
func toNumber(v any) (types.Number, error) {
	switch n := v.(type) {
	case json.Number:
		num, err := types.ParseNumber(string(n))
		if err != nil {
			return types.Number{}, fmt.Errorf("invalid number %s", n)
		}
		return num, nil
	case int:
		return types.IntNumber(int64(n)), nil
	case int64:
		return types.IntNumber(n), nil
	case uint64:
		return types.ParseNumber(strconv.FormatUint(n, 10))
	case float64:
		if math.IsInf(n, 0) || math.IsNaN(n) {
			return types.Number{}, fmt.Errorf("non-finite number")
		}
		return types.FloatNumber(n), nil
	default:
		return types.Number{}, errors.New(kindOf(v))
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case json.Number, int, int64, uint64, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}
