package model

import (
	"errors"
	"math"
)

// solarConstant is the extraterrestrial normal irradiance at mean
// earth-sun distance, in kW/m^2.
const solarConstant = 1.367

// SolarParams defines the fixed configuration of a PV array and its site.
// Angles are in degrees: Latitude positive north, Longitude positive east,
// Slope is panel tilt from horizontal, Azimuth is zero due south and
// positive clockwise. TimeZone is hours east of GMT.
type SolarParams struct {
	TimeZone         float64
	Longitude        float64
	Latitude         float64
	Slope            float64
	Azimuth          float64
	StepHours        float64
	ModuleCapacityKW float64 // rated capacity per module at STC
	ModuleCount      float64
	Albedo           float64 // ground reflectance, decimal
	DeratingFactor   float64 // decimal; 0.9 means 10% real-life losses
}

// ArrayCapacityKW is the rated capacity of the whole array at STC.
func (p SolarParams) ArrayCapacityKW() float64 {
	return p.ModuleCount * p.ModuleCapacityKW
}

// SolarState holds the intermediate values of the radiation decomposition
// pipeline for the current timestep. Each value is produced by one pipeline
// step and consumed by later ones.
type SolarState struct {
	DayOfYear int
	CivilTime float64 // hours, 14.75 = 14:45

	Declination         float64 // degrees
	SolarTime           float64 // hours
	HourAngle           float64 // degrees
	NormalRadiation     float64 // extraterrestrial normal, kW/m^2
	IncidenceAngle      float64 // degrees
	Zenith              float64 // degrees
	HorizontalRadiation float64 // extraterrestrial horizontal, step average, kW/m^2
	BeamRatio           float64
	ClearnessIndex      float64
	DiffuseRadiation    float64 // kW/m^2
	BeamRadiation       float64 // kW/m^2
	AnisotropyIndex     float64
	HorizonFactor       float64
	IncidentRadiation   float64 // plane-of-array, kW/m^2
	PowerKW             float64
}

// SolarArray bundles params + state for one PV array.
type SolarArray struct {
	Params SolarParams
	State  SolarState
}

func NewSolarArray(params SolarParams) (*SolarArray, error) {
	s := &SolarArray{Params: params}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SolarArray) Validate() error {
	p := s.Params
	if p.StepHours <= 0 {
		return errors.New("StepHours must be > 0")
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return errors.New("Latitude must be in [-90, 90]")
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return errors.New("Longitude must be in [-180, 180]")
	}
	if p.ModuleCapacityKW <= 0 {
		return errors.New("ModuleCapacityKW must be > 0")
	}
	if p.ModuleCount < 0 {
		return errors.New("ModuleCount must be >= 0")
	}
	if p.Albedo < 0 || p.Albedo > 1 {
		return errors.New("Albedo must be in [0, 1]")
	}
	if p.DeratingFactor <= 0 || p.DeratingFactor > 1 {
		return errors.New("DeratingFactor must be in (0, 1]")
	}
	return nil
}

// Declination computes the solar declination for day-of-year n (1..365).
func (s *SolarArray) Declination(n int) float64 {
	s.State.DayOfYear = n
	s.State.Declination = 23.45 * math.Sin((2*math.Pi/365)*float64(284+n))
	return s.State.Declination
}

// equationOfTime is the correction, in hours, between clock time and solar
// time due to the earth's orbital eccentricity and axial tilt.
func equationOfTime(n int) float64 {
	b := 2 * math.Pi * (float64(n-1) / 365)
	term1 := 0.000075 + 0.001868*math.Cos(b)
	term2 := 0.032077 * math.Sin(b)
	term3 := 0.014615 * math.Cos(2*b)
	term4 := 0.04089 * math.Sin(2*b)
	return 3.82 * (term1 - term2 - term3 - term4)
}

// SolarTime converts civil time tc (hours) on day n to local solar time,
// applying the longitude/time-zone correction and the equation of time.
func (s *SolarArray) SolarTime(n int, tc float64) float64 {
	s.State.DayOfYear = n
	s.State.CivilTime = tc
	s.State.SolarTime = tc + (s.Params.Longitude / 15) - s.Params.TimeZone + equationOfTime(n)
	return s.State.SolarTime
}

// HourAngle derives the sun's hour angle from the current solar time:
// zero at solar noon, 15 degrees per hour, afternoon positive.
func (s *SolarArray) HourAngle() float64 {
	s.State.HourAngle = (s.State.SolarTime - 12) * 15
	return s.State.HourAngle
}

// NormalRadiation computes the extraterrestrial normal radiation for day n.
func (s *SolarArray) NormalRadiation(n int) float64 {
	s.State.DayOfYear = n
	s.State.NormalRadiation = solarConstant * (1 + 0.033*math.Cos((2*math.Pi*float64(n))/365))
	return s.State.NormalRadiation
}

// IncidenceAngle computes the angle between the panel normal and the sun,
// and the solar zenith angle (the incidence angle of a horizontal panel).
// Requires Declination and HourAngle to have been computed for this step.
func (s *SolarArray) IncidenceAngle() (incidence, zenith float64) {
	lat := radians(s.Params.Latitude)
	slope := radians(s.Params.Slope)
	azimuth := radians(s.Params.Azimuth)
	dec := radians(s.State.Declination)
	hourAngle := radians(s.State.HourAngle)

	term1 := math.Sin(dec) * math.Sin(lat) * math.Cos(slope)
	term2 := math.Sin(dec) * math.Cos(lat) * math.Sin(slope) * math.Cos(azimuth)
	term3 := math.Cos(dec) * math.Cos(lat) * math.Cos(slope) * math.Cos(hourAngle)
	term4 := math.Cos(dec) * math.Sin(lat) * math.Sin(slope) * math.Cos(azimuth) * math.Cos(hourAngle)
	term5 := math.Cos(dec) * math.Sin(slope) * math.Sin(azimuth) * math.Sin(hourAngle)
	s.State.IncidenceAngle = degrees(math.Acos(term1 - term2 + term3 + term4 + term5))

	// Zenith is the same expression with slope artificially set to zero.
	s.State.Zenith = degrees(math.Acos(math.Sin(dec)*math.Sin(lat) +
		math.Cos(dec)*math.Cos(lat)*math.Cos(hourAngle)))
	return s.State.IncidenceAngle, s.State.Zenith
}

// HorizontalRadiation computes the extraterrestrial horizontal radiation
// averaged over the timestep starting at civil time tc on day n, by
// subdividing the step into 10 sub-intervals. g is the measured global
// horizontal irradiance for the step, in kW/m^2, used by the sunset
// exception below.
func (s *SolarArray) HorizontalRadiation(n int, tc, g float64) float64 {
	s.State.DayOfYear = n
	s.State.CivilTime = tc

	lat := radians(s.Params.Latitude)
	dec := radians(s.State.Declination)
	e := equationOfTime(n)
	sub := s.Params.StepHours / 10

	sum := 0.0
	for k := 0; k < 10; k++ {
		t1 := tc + float64(k)*sub
		t2 := t1 + sub
		// Hour angles at the bounds of the sub-interval.
		ts1 := t1 + (s.Params.Longitude / 15) - s.Params.TimeZone + e
		ts2 := t2 + (s.Params.Longitude / 15) - s.Params.TimeZone + e
		w1 := radians((ts1 - 12) * 15)
		w2 := radians((ts2 - 12) * 15)

		term1 := math.Cos(lat) * math.Cos(dec) * (math.Sin(w2) - math.Sin(w1))
		term2 := (w2 - w1) * math.Sin(lat) * math.Sin(dec)
		g0 := (12 / math.Pi) * s.State.NormalRadiation * (term1 + term2)
		// The trig terms can produce small negative artifacts.
		if g0 < 0 {
			g0 = 0
		}
		sum += g0
	}
	s.State.HorizontalRadiation = sum / 10

	// Sunset exception: near sunrise/sunset the computed extraterrestrial
	// value reaches zero faster than measured irradiance from real sensors,
	// which would blow up the clearness index. If the hour angle says the
	// site is in daylight and the measurement exceeds the computed value,
	// force the extraterrestrial value above the measurement.
	a := radians(-0.83)
	rise := math.Acos(math.Sin(a) - math.Tan(lat)*math.Tan(dec)) // NaN at polar day/night
	set := -rise
	hourAngle := radians(s.State.HourAngle)
	if hourAngle > set || hourAngle < rise {
		if g > s.State.HorizontalRadiation {
			s.State.HorizontalRadiation = g * 10
		}
	}
	return s.State.HorizontalRadiation
}

// ComputeBeamRatio is the ratio of beam radiation on the tilted surface to
// beam radiation on the horizontal. At a zenith of 90 degrees beam radiation
// is parallel to the ground and the cosine ratio is 0/0-unstable, so the
// ratio is defined as exactly 1 there (grazing incidence).
func (s *SolarArray) ComputeBeamRatio() float64 {
	if math.Ceil(s.State.Zenith) == 90 || math.Floor(s.State.Zenith) == 90 {
		s.State.BeamRatio = 1
		return 1
	}
	incidence := radians(s.State.IncidenceAngle)
	zenith := radians(s.State.Zenith)
	s.State.BeamRatio = math.Abs(math.Cos(incidence) / math.Cos(zenith))
	return s.State.BeamRatio
}

// ComputeClearnessIndex is the ratio of measured to extraterrestrial
// horizontal radiation. Defined as 1 when the extraterrestrial value is zero
// (night-time), a perfect clearness index.
func (s *SolarArray) ComputeClearnessIndex(g float64) float64 {
	if s.State.HorizontalRadiation == 0 {
		s.State.ClearnessIndex = 1
	} else {
		s.State.ClearnessIndex = g / s.State.HorizontalRadiation
	}
	return s.State.ClearnessIndex
}

// SplitDiffuseBeam splits the measured global horizontal irradiance g into
// diffuse and beam components using a three-piece polynomial in the
// clearness index with breakpoints at 0.22 and 0.80.
func (s *SolarArray) SplitDiffuseBeam(g float64) (diffuse, beam float64) {
	kt := s.State.ClearnessIndex
	var ratio float64
	switch {
	case kt <= 0.22:
		ratio = 1 - 0.09*kt
	case kt <= 0.8:
		ratio = 0.9511 - 0.1604*kt + 4.338*kt*kt - 16.638*kt*kt*kt + 12.336*kt*kt*kt*kt
	default:
		ratio = 0.165
	}
	s.State.DiffuseRadiation = ratio * g
	s.State.BeamRadiation = g - s.State.DiffuseRadiation
	return s.State.DiffuseRadiation, s.State.BeamRadiation
}

// ComputeAnisotropyIndex measures how much of the diffuse radiation is
// circumsolar. Defined as 0 when the extraterrestrial horizontal radiation
// is zero: beam and diffuse are also zero then, so the value has no effect.
func (s *SolarArray) ComputeAnisotropyIndex() float64 {
	if s.State.HorizontalRadiation == 0 {
		s.State.AnisotropyIndex = 0
	} else {
		s.State.AnisotropyIndex = s.State.BeamRadiation / s.State.HorizontalRadiation
	}
	return s.State.AnisotropyIndex
}

// ComputeHorizonFactor is the horizon-brightening factor. Defined as 0 when
// the measured irradiance is zero, where the value has no effect.
func (s *SolarArray) ComputeHorizonFactor(g float64) float64 {
	if g == 0 {
		s.State.HorizonFactor = 0
	} else {
		s.State.HorizonFactor = math.Sqrt(s.State.BeamRadiation / g)
	}
	return s.State.HorizonFactor
}

// ComputeIncidentRadiation assembles the plane-of-array radiation from the
// beam, circumsolar-diffuse, sky-diffuse and ground-reflected terms.
func (s *SolarArray) ComputeIncidentRadiation(g float64) float64 {
	gb := s.State.BeamRadiation
	gd := s.State.DiffuseRadiation
	ai := s.State.AnisotropyIndex
	rb := s.State.BeamRatio
	f := s.State.HorizonFactor
	slope := radians(s.Params.Slope)

	term1 := (gb + gd*ai) * rb
	term2 := gd * (1 - ai)
	term3 := (1 + math.Cos(slope)) / 2
	term4 := 1 + f*math.Pow(math.Sin(slope/2), 3)
	term5 := g * s.Params.Albedo
	term6 := (1 - math.Cos(slope)) / 2
	s.State.IncidentRadiation = term1 + term2*term3*term4 + term5*term6
	return s.State.IncidentRadiation
}

// PowerOutput converts the incident radiation to array power output,
// clamped to the rated array capacity (rounding can overshoot).
func (s *SolarArray) PowerOutput() float64 {
	const stcRadiation = 1.0 // kW/m^2 at standard test conditions
	out := s.Params.ArrayCapacityKW() * s.Params.DeratingFactor * (s.State.IncidentRadiation / stcRadiation)
	if out > s.Params.ArrayCapacityKW() {
		out = s.Params.ArrayCapacityKW()
	}
	s.State.PowerKW = out
	return out
}

// Step runs the full decomposition pipeline for one timestep: day-of-year n,
// civil time tc in hours, measured global horizontal irradiance g in kW/m^2.
func (s *SolarArray) Step(n int, tc, g float64) float64 {
	s.Declination(n)
	s.SolarTime(n, tc)
	s.HourAngle()
	s.NormalRadiation(n)
	s.IncidenceAngle()
	s.HorizontalRadiation(n, tc, g)
	s.ComputeBeamRatio()
	s.ComputeClearnessIndex(g)
	s.SplitDiffuseBeam(g)
	s.ComputeAnisotropyIndex()
	s.ComputeHorizonFactor(g)
	s.ComputeIncidentRadiation(g)
	return s.PowerOutput()
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }
