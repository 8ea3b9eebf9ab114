package model

import (
	"errors"
	"math"
)

// Barometric-formula constants used for the altitude air-density correction.
const (
	seaLevelTempK  = 288.16 // K
	lapseRateKPerM = 0.0065 // K/m
	gasConstant    = 287.0  // J/kg.K
	gravity        = 9.81   // m/s^2
)

// WindParams defines the fixed configuration of a wind turbine array.
// Units:
// - heights and roughness: m
// - Altitude: m above sea level
// - power curve: m/s -> kW per turbine at standard air density
type WindParams struct {
	HubHeight        float64
	AnemometerHeight float64
	SurfaceRoughness float64
	Altitude         float64
	TurbineCount     float64
	Curve            PowerCurve
}

// WindState captures the last computed per-timestep values.
type WindState struct {
	AnemometerSpeed float64 // m/s, as supplied by the wind resource
	HubSpeed        float64 // m/s at hub height
	PowerKW         float64 // array output, density corrected
}

// WindArray bundles params + state for one turbine array.
type WindArray struct {
	Params WindParams
	State  WindState
}

func NewWindArray(params WindParams) (*WindArray, error) {
	w := &WindArray{Params: params}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *WindArray) Validate() error {
	p := w.Params
	if p.HubHeight <= 0 {
		return errors.New("HubHeight must be > 0")
	}
	if p.AnemometerHeight <= 0 {
		return errors.New("AnemometerHeight must be > 0")
	}
	if p.SurfaceRoughness <= 0 {
		return errors.New("SurfaceRoughness must be > 0")
	}
	// The log wind profile divides by ln(z_anem/z_0).
	if p.SurfaceRoughness == p.AnemometerHeight || p.SurfaceRoughness == p.HubHeight {
		return errors.New("SurfaceRoughness must differ from the measurement heights")
	}
	if p.Altitude < 0 {
		return errors.New("Altitude must be >= 0")
	}
	if p.TurbineCount < 0 {
		return errors.New("TurbineCount must be >= 0")
	}
	if err := p.Curve.Validate(); err != nil {
		return err
	}
	return nil
}

// HubSpeed converts an anemometer-height wind speed to hub height using the
// logarithmic wind-profile law. The caller guarantees uAnem >= 0.
func (w *WindArray) HubSpeed(uAnem float64) float64 {
	p := w.Params
	w.State.AnemometerSpeed = uAnem
	w.State.HubSpeed = uAnem * (math.Log(p.HubHeight/p.SurfaceRoughness) /
		math.Log(p.AnemometerHeight/p.SurfaceRoughness))
	return w.State.HubSpeed
}

// PowerOutput interpolates the power curve at the current hub-height speed,
// scales by turbine count and corrects for air density at altitude. Speeds
// above the curve's maximum produce zero (cut-off, not extrapolation).
func (w *WindArray) PowerOutput() float64 {
	p := w.Params

	if w.State.HubSpeed > p.Curve.MaxSpeed() {
		w.State.PowerKW = 0
		return 0
	}

	out := p.Curve.Interpolate(w.State.HubSpeed) * p.TurbineCount
	out *= airDensityRatio(p.Altitude)

	// Extrapolation below the first curve point can go negative.
	if out < 0 {
		out = 0
	}
	w.State.PowerKW = out
	return out
}

// airDensityRatio is the ratio of air density at the given altitude to air
// density at standard conditions, from the barometric formula.
func airDensityRatio(altitude float64) float64 {
	term1 := 1 - (lapseRateKPerM*altitude)/seaLevelTempK
	term2 := seaLevelTempK / (seaLevelTempK - lapseRateKPerM*altitude)
	return math.Pow(term1, gravity/(gasConstant*lapseRateKPerM)) * term2
}
