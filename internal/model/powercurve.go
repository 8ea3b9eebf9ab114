package model

import (
	"errors"
	"math"
)

// CurvePoint is one row of a manufacturer power curve: the power output of a
// single turbine at a given hub-height wind speed, defined at standard air
// density (1.225 kg/m^3).
type CurvePoint struct {
	WindSpeed float64 // m/s
	Power     float64 // kW
}

// PowerCurve is an ordered lookup table mapping hub-height wind speed to
// turbine power output. Points must be sorted ascending by wind speed.
type PowerCurve struct {
	Points []CurvePoint
}

func (pc PowerCurve) Validate() error {
	if len(pc.Points) < 2 {
		return errors.New("power curve needs at least 2 points")
	}
	for i := 1; i < len(pc.Points); i++ {
		if pc.Points[i].WindSpeed <= pc.Points[i-1].WindSpeed {
			return errors.New("power curve wind speeds must be strictly increasing")
		}
	}
	return nil
}

// MaxSpeed returns the highest wind speed the curve is defined at. Above this
// speed the turbine output is treated as zero (cut-off), never extrapolated.
func (pc PowerCurve) MaxSpeed() float64 {
	max := 0.0
	for _, p := range pc.Points {
		if p.WindSpeed > max {
			max = p.WindSpeed
		}
	}
	return max
}

// Interpolate returns the power at the given speed by linear interpolation
// between the curve point closest to the query speed and its closer
// neighbour (by absolute speed delta). The caller is responsible for the
// cut-off check above MaxSpeed.
func (pc PowerCurve) Interpolate(speed float64) float64 {
	pts := pc.Points

	// Closest point to the query speed; ties resolve to the lower index.
	idx1 := 0
	best := math.Abs(pts[0].WindSpeed - speed)
	for i := 1; i < len(pts); i++ {
		d := math.Abs(pts[i].WindSpeed - speed)
		if d < best {
			best = d
			idx1 = i
		}
	}

	// Second point is the neighbour with the smaller delta, with boundary
	// handling at the first and last indices.
	var idx2 int
	switch {
	case idx1 == len(pts)-1:
		idx2 = idx1 - 1
	case idx1 == 0:
		idx2 = 1
	default:
		below := math.Abs(pts[idx1-1].WindSpeed - speed)
		above := math.Abs(pts[idx1+1].WindSpeed - speed)
		if below <= above {
			idx2 = idx1 - 1
		} else {
			idx2 = idx1 + 1
		}
	}

	lower, upper := pts[min(idx1, idx2)], pts[max(idx1, idx2)]
	gradient := (upper.Power - lower.Power) / (upper.WindSpeed - lower.WindSpeed)
	return lower.Power + gradient*(speed-lower.WindSpeed)
}
