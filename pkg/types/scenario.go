// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Kinematics is the state of one vehicle in a scenario frame.
type Kinematics struct {
	// X is the lateral position.
	X Number `json:"x" yaml:"x"`

	// Y is the longitudinal position.
	Y Number `json:"y" yaml:"y"`

	// VelX is the velocity along the principal axis.
	VelX Number `json:"velX" yaml:"velX"`

	// AccelX is the acceleration along the principal axis.
	AccelX Number `json:"accelX" yaml:"accelX"`
}

// PovEntry wraps another vehicle present in the scenario.
type PovEntry struct {
	Agent Kinematics `json:"agent" yaml:"agent"`
}

// ScenarioElement is one simulation frame: the subject vehicle and the
// other agents around it, in source order.
type ScenarioElement struct {
	SV   Kinematics `json:"sv" yaml:"sv"`
	Povs []PovEntry `json:"povs" yaml:"povs"`
}

// SignalFields names the eight signal fields in output order.
var SignalFields = [8]string{"x_b", "y_b", "v_b", "a_b", "x_f", "y_f", "v_f", "a_f"}

// Signal pairs a following subject vehicle with the preceding agent
// selected for it.
type Signal struct {
	// Record is the zero-based index of the source ScenarioElement.
	Record int

	// Pov is the index of the matched entry in the record's povs.
	Pov int

	// Subject is the rear (following) vehicle.
	Subject Kinematics

	// Preceding is the front vehicle.
	Preceding Kinematics
}

// Fields returns x_b, y_b, v_b, a_b, x_f, y_f, v_f, a_f.
func (s Signal) Fields() [8]Number {
	return [8]Number{
		s.Subject.X, s.Subject.Y, s.Subject.VelX, s.Subject.AccelX,
		s.Preceding.X, s.Preceding.Y, s.Preceding.VelX, s.Preceding.AccelX,
	}
}

// Values returns the numeric values of Fields.
func (s Signal) Values() [8]float64 {
	var out [8]float64
	for i, n := range s.Fields() {
		out[i] = n.Float64()
	}
	return out
}

// String formats the signal as a single space-separated line.
func (s Signal) String() string {
	fields := s.Fields()
	parts := make([]string, len(fields))
	for i, n := range fields {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ")
}

// SignalRecord is the named-field form of a Signal used by structured
// output and export.
type SignalRecord struct {
	Record int    `json:"record" yaml:"record"`
	Pov    int    `json:"pov" yaml:"pov"`
	XB     Number `json:"x_b" yaml:"x_b"`
	YB     Number `json:"y_b" yaml:"y_b"`
	VB     Number `json:"v_b" yaml:"v_b"`
	AB     Number `json:"a_b" yaml:"a_b"`
	XF     Number `json:"x_f" yaml:"x_f"`
	YF     Number `json:"y_f" yaml:"y_f"`
	VF     Number `json:"v_f" yaml:"v_f"`
	AF     Number `json:"a_f" yaml:"a_f"`
}

// ToRecord converts the signal to its named-field form.
func (s Signal) ToRecord() SignalRecord {
	return SignalRecord{
		Record: s.Record,
		Pov:    s.Pov,
		XB:     s.Subject.X,
		YB:     s.Subject.Y,
		VB:     s.Subject.VelX,
		AB:     s.Subject.AccelX,
		XF:     s.Preceding.X,
		YF:     s.Preceding.Y,
		VF:     s.Preceding.VelX,
		AF:     s.Preceding.AccelX,
	}
}
