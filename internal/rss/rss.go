// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rss evaluates responsibility-sensitive safety predicates over
// rear/front vehicle signals.
//
// Each predicate is a real value; the predicate holds when the value is
// strictly positive.
//
//	p0  d_posMin                     minimum safe longitudinal distance is positive
//	p1  y_f - y_b                    front vehicle is ahead
//	p2  y_f - y_b - d_posMin         actual gap exceeds the safe distance
//	p3  a_maxAcc - a_b               rear acceleration within the allowed maximum
//	p4  -a_minBr - a_b               rear vehicle brakes at least a_minBr
//	p5  a_f + a_maxBr                front braking within a_maxBr
//	p6  x_f - x_b + d_lat            lateral offset above -d_lat
//	p7  x_b - x_f + d_lat            lateral offset below d_lat
package rss

import (
	"fmt"

	"github.com/pdiddy/vrss/pkg/types"
)

// Count is the number of predicates evaluated per signal.
const Count = 8

// Names labels each predicate in output.
var Names = [Count]string{
	"d_pos_min",
	"gap",
	"safe_gap",
	"accel_within_max",
	"braking_min",
	"front_brake_within_max",
	"lateral_lower",
	"lateral_upper",
}

// References are the approximate maximum magnitudes of each predicate
// value in the reference simulator, used to normalize values into [-1, 1].
var References = [Count]float64{250, 100, 350, 30, 30, 30, 10, 10}

// Predicates holds the values of p0..p7 for one signal.
type Predicates [Count]float64

// Holds reports, per predicate, whether the value is positive.
func (p Predicates) Holds() [Count]bool {
	var out [Count]bool
	for i, v := range p {
		out[i] = v > 0
	}
	return out
}

// Normalized divides each value by its reference magnitude.
func (p Predicates) Normalized() Predicates {
	var out Predicates
	for i, v := range p {
		out[i] = v / References[i]
	}
	return out
}

// Validate checks that the braking constants can be divided by.
func Validate(cfg types.RSSConfig) error {
	if cfg.AMinBr <= 0 {
		return fmt.Errorf("a_min_br must be positive, got %v", cfg.AMinBr)
	}
	if cfg.AMaxBr <= 0 {
		return fmt.Errorf("a_max_br must be positive, got %v", cfg.AMaxBr)
	}
	if cfg.Rho < 0 {
		return fmt.Errorf("rho must not be negative, got %v", cfg.Rho)
	}
	return nil
}

// MinSafeDistance returns d_posMin, the longitudinal distance the rear
// vehicle at speed vRear needs to stop behind a front vehicle at speed
// vFront that brakes as hard as allowed.
func MinSafeDistance(vRear, vFront float64, cfg types.RSSConfig) float64 {
	preBrake := (vRear + cfg.Rho*cfg.AMaxAcc/2) * cfg.Rho
	vAfterResponse := vRear + cfg.Rho*cfg.AMaxAcc
	rearBrake := vAfterResponse * vAfterResponse / (2 * cfg.AMinBr)
	frontBrake := vFront * vFront / (2 * cfg.AMaxBr)
	return preBrake + rearBrake - frontBrake
}

// Evaluate computes the predicates for one signal.
func Evaluate(s types.Signal, cfg types.RSSConfig) Predicates {
	v := s.Values()
	xb, yb, vb, ab := v[0], v[1], v[2], v[3]
	xf, yf, vf, af := v[4], v[5], v[6], v[7]

	dMin := MinSafeDistance(vb, vf, cfg)
	return Predicates{
		dMin,
		yf - yb,
		yf - yb - dMin,
		cfg.AMaxAcc - ab,
		-cfg.AMinBr - ab,
		af + cfg.AMaxBr,
		xf - xb + cfg.DLat,
		xb - xf + cfg.DLat,
	}
}

// EvaluateAll evaluates every signal in order.
func EvaluateAll(signals []types.Signal, cfg types.RSSConfig) []Predicates {
	out := make([]Predicates, len(signals))
	for i, s := range signals {
		out[i] = Evaluate(s, cfg)
	}
	return out
}
