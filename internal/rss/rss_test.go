// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rss

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/vrss/internal/extract"
	"github.com/pdiddy/vrss/pkg/types"
)

func signal(vals ...float64) types.Signal {
	n := func(f float64) types.Number { return types.FloatNumber(f) }
	return types.Signal{
		Subject:   types.Kinematics{X: n(vals[0]), Y: n(vals[1]), VelX: n(vals[2]), AccelX: n(vals[3])},
		Preceding: types.Kinematics{X: n(vals[4]), Y: n(vals[5]), VelX: n(vals[6]), AccelX: n(vals[7])},
	}
}

func TestMinSafeDistance(t *testing.T) {
	cfg := types.DefaultRSSConfig()

	// v_b=5, v_f=4: preBrake=(5+1)*1=6, rearBrake=7^2/14=3.5, frontBrake=16/18.
	assert.InDelta(t, 6+3.5-16.0/18, MinSafeDistance(5, 4, cfg), 1e-12)

	// Both stopped: only the response-time terms remain.
	assert.InDelta(t, 1+4.0/14, MinSafeDistance(0, 0, cfg), 1e-12)
}

func TestEvaluate(t *testing.T) {
	cfg := types.DefaultRSSConfig()
	p := Evaluate(signal(0, 0, 5, 0, 1, 3, 4, -1), cfg)

	dMin := 6 + 3.5 - 16.0/18
	want := Predicates{dMin, 3, 3 - dMin, 2, -7, 8, 5, 3}
	for i := range want {
		assert.InDelta(t, want[i], p[i], 1e-12, Names[i])
	}

	assert.Equal(t, [Count]bool{true, true, false, true, false, true, true, true}, p.Holds())
}

func TestEvaluateCustomConfig(t *testing.T) {
	cfg := types.RSSConfig{Rho: 0.1, AMaxAcc: 2, AMaxBr: 9, AMinBr: 7, DLat: 1}
	p := Evaluate(signal(0, 0, 10, 1, 1.5, 50, 10, 0), cfg)

	preBrake := (10 + 0.1*2/2) * 0.1
	rear := (10 + 0.2) * (10 + 0.2) / 14
	front := 100.0 / 18
	assert.InDelta(t, preBrake+rear-front, p[0], 1e-12)
	assert.InDelta(t, 2.5, p[6], 1e-12)
	assert.InDelta(t, -0.5, p[7], 1e-12)
	assert.False(t, p.Holds()[7])
}

func TestNormalized(t *testing.T) {
	p := Predicates{250, 50, -350, 3, 0, 30, 10, -5}
	n := p.Normalized()
	assert.Equal(t, Predicates{1, 0.5, -1, 0.1, 0, 1, 1, -0.5}, n)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(types.DefaultRSSConfig()))

	bad := types.DefaultRSSConfig()
	bad.AMinBr = 0
	assert.ErrorContains(t, Validate(bad), "a_min_br")

	bad = types.DefaultRSSConfig()
	bad.AMaxBr = -1
	assert.ErrorContains(t, Validate(bad), "a_max_br")

	bad = types.DefaultRSSConfig()
	bad.Rho = -0.1
	assert.ErrorContains(t, Validate(bad), "rho")
}

func TestWriteText(t *testing.T) {
	signals := []types.Signal{signal(0, 0, 0, 0, 0, 10, 0, 0)}
	preds := EvaluateAll(signals, types.DefaultRSSConfig())

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, signals, preds, extract.FormatText))

	// d_posMin = 1 + 4/14; remaining values are exact.
	assert.Equal(t, "1.2857142857142856 10.0 8.714285714285715 2.0 -7.0 9.0 4.0 4.0\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	signals := []types.Signal{signal(0, 0, 5, 0, 1, 3, 4, -1)}
	signals[0].Record = 4
	preds := EvaluateAll(signals, types.DefaultRSSConfig())

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, signals, preds, extract.FormatJSON))

	var got []struct {
		Record     int `json:"record"`
		Predicates []struct {
			Name  string  `json:"name"`
			Value float64 `json:"value"`
			Holds bool    `json:"holds"`
		} `json:"predicates"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got), buf.String())
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].Record)
	require.Len(t, got[0].Predicates, Count)
	assert.Equal(t, "gap", got[0].Predicates[1].Name)
	assert.Equal(t, 3.0, got[0].Predicates[1].Value)
	assert.True(t, got[0].Predicates[1].Holds)
	assert.False(t, got[0].Predicates[2].Holds)
}

func TestWriteRejectsMismatchAndLogfmt(t *testing.T) {
	signals := []types.Signal{signal(0, 0, 0, 0, 0, 1, 0, 0)}
	var buf bytes.Buffer

	assert.Error(t, Write(&buf, signals, nil, extract.FormatText))
	assert.Error(t, Write(&buf, signals, EvaluateAll(signals, types.DefaultRSSConfig()), extract.FormatLogfmt))
}

func TestWriteOverflowingSpeeds(t *testing.T) {
	// Squaring 1e200 overflows both braking distances, so d_posMin is NaN.
	signals := []types.Signal{signal(0, 0, 1e200, 0, 1, 3, 1e200, -1)}
	preds := EvaluateAll(signals, types.DefaultRSSConfig())

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, signals, preds, extract.FormatText))
	assert.Equal(t, "nan 3.0 nan 2.0 -7.0 8.0 5.0 3.0\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, signals, preds, extract.FormatJSON))
	var got []struct {
		Predicates []struct {
			Value *float64 `json:"value"`
			Holds bool     `json:"holds"`
		} `json:"predicates"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got), buf.String())
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Predicates[0].Value)
	assert.False(t, got[0].Predicates[0].Holds)
	require.NotNil(t, got[0].Predicates[1].Value)
	assert.Equal(t, 3.0, *got[0].Predicates[1].Value)
}
