package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPowerCurveValidate(t *testing.T) {
	assert.Error(t, PowerCurve{}.Validate())
	assert.Error(t, PowerCurve{Points: []CurvePoint{{WindSpeed: 1, Power: 0}}}.Validate())
	assert.Error(t, PowerCurve{Points: []CurvePoint{
		{WindSpeed: 1, Power: 0},
		{WindSpeed: 1, Power: 2},
	}}.Validate())
	assert.NoError(t, testCurve().Validate())
}

func TestPowerCurveMaxSpeed(t *testing.T) {
	assert.Equal(t, 20.0, testCurve().MaxSpeed())
}

func TestPowerCurveInterpolate(t *testing.T) {
	pc := testCurve()

	cases := []struct {
		name  string
		speed float64
		want  float64
	}{
		{"on a point", 5, 1},
		{"midpoint", 7.5, 2},
		{"between upper points", 17.5, 3.15},
		{"near lower bound", 1, 0.2},
		{"at upper bound", 20, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, pc.Interpolate(tc.speed), 1e-9)
		})
	}
}

func TestPowerCurveInterpolateUsesCloserNeighbour(t *testing.T) {
	// Query at 11: closest point is 10 and its closer neighbour is 15, so
	// the segment picked is 10..15.
	pc := testCurve()
	// Gradient on 10..15 is 0.06 per m/s.
	assert.InDelta(t, 3.06, pc.Interpolate(11), 1e-9)

	// Query at 9: closest is 10, closer neighbour is 5, segment 5..10.
	assert.InDelta(t, 2.6, pc.Interpolate(9), 1e-9)
}
