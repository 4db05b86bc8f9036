// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pairs each scenario's subject vehicle with the preceding
// agent in its lane and renders the resulting signals.
package extract

import (
	"fmt"
	"math"

	"github.com/pdiddy/vrss/pkg/types"
)

// Summary holds counts from one extraction pass.
type Summary struct {
	// Records is the number of scenario records read.
	Records int

	// Matched is the number of records that produced a signal.
	Matched int
}

// Skipped returns the number of records with no preceding agent.
func (s Summary) Skipped() int {
	return s.Records - s.Matched
}

// Extract returns one Signal per record that has a qualifying preceding
// agent, in record order. Only the first qualifying agent of a record is
// used.
func Extract(records []types.ScenarioElement, cfg types.ExtractConfig) []types.Signal {
	width := cfg.LateralWidth
	if width <= 0 {
		width = types.DefaultLateralWidth
	}

	var signals []types.Signal
	for i, e := range records {
		j, ok := Preceding(e.SV, e.Povs, width)
		if !ok {
			continue
		}
		signals = append(signals, types.Signal{
			Record:    i,
			Pov:       j,
			Subject:   e.SV,
			Preceding: e.Povs[j].Agent,
		})
	}
	return signals
}

// Validate checks that the lateral corridor width is positive. Extract
// itself treats a zero width as the default.
func Validate(cfg types.ExtractConfig) error {
	if !(cfg.LateralWidth > 0) {
		return fmt.Errorf("lateral_width must be positive, got %v", cfg.LateralWidth)
	}
	return nil
}

// Summarize counts records and matches for a completed pass.
func Summarize(records []types.ScenarioElement, signals []types.Signal) Summary {
	return Summary{Records: len(records), Matched: len(signals)}
}

// Preceding returns the index of the first agent in povs that is ahead of
// sv and inside its lane corridor.
func Preceding(sv types.Kinematics, povs []types.PovEntry, width float64) (int, bool) {
	for j, pov := range povs {
		if Ahead(sv, pov.Agent, width) {
			return j, true
		}
	}
	return -1, false
}

// Ahead reports whether agent is strictly ahead of sv along y and strictly
// within width of it along x.
func Ahead(sv, agent types.Kinematics, width float64) bool {
	return agent.Y.Float64() > sv.Y.Float64() &&
		math.Abs(agent.X.Float64()-sv.X.Float64()) < width
}

// Lines formats each signal as "x_b y_b v_b a_b x_f y_f v_f a_f".
func Lines(signals []types.Signal) []string {
	lines := make([]string, len(signals))
	for i, s := range signals {
		lines[i] = s.String()
	}
	return lines
}
