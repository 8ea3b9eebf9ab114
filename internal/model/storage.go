package model

import (
	"errors"
	"math"
)

// StorageParams defines the fixed configuration of a li-ion storage array.
// The array is assumed to be a parallel configuration of identical cells.
// Units:
// - StepHours: h
// - NominalVoltage: V per cell
// - NominalCapacityAh: Ah per cell
// - current limits: A per cell
// - RoundTripEfficiency: decimal, 0.95 means 5% loss each way
// - SoC values: percent
type StorageParams struct {
	StepHours             float64
	CellCount             float64
	NominalVoltage        float64
	NominalCapacityAh     float64
	MinSoC                float64
	ChargeCurrentLimit    float64
	DischargeCurrentLimit float64
	RoundTripEfficiency   float64
}

// StorageState captures mutable per-timestep state.
type StorageState struct {
	// SoC is the state of charge in percent, within [MinSoC, 100].
	SoC float64
	// PowerKW is the metered output of the last step: positive means
	// discharge, negative means charge.
	PowerKW float64
}

// StorageArray bundles params + state for one storage array.
type StorageArray struct {
	Params StorageParams
	State  StorageState
}

func NewStorageArray(params StorageParams, initialSoC float64) (*StorageArray, error) {
	s := &StorageArray{
		Params: params,
		State:  StorageState{SoC: initialSoC},
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *StorageArray) Validate() error {
	p := s.Params
	if p.StepHours <= 0 {
		return errors.New("StepHours must be > 0")
	}
	if p.CellCount < 0 {
		return errors.New("CellCount must be >= 0")
	}
	if p.NominalVoltage <= 0 {
		return errors.New("NominalVoltage must be > 0")
	}
	if p.NominalCapacityAh <= 0 {
		return errors.New("NominalCapacityAh must be > 0")
	}
	if p.MinSoC < 0 || p.MinSoC >= 100 {
		return errors.New("MinSoC must be in [0, 100)")
	}
	if p.ChargeCurrentLimit <= 0 || p.DischargeCurrentLimit <= 0 {
		return errors.New("current limits must be > 0")
	}
	if p.RoundTripEfficiency <= 0 || p.RoundTripEfficiency > 1 {
		return errors.New("RoundTripEfficiency must be in (0, 1]")
	}
	if s.State.SoC < p.MinSoC || s.State.SoC > 100 {
		return errors.New("initial SoC must be within [MinSoC, 100]")
	}
	return nil
}

// Step decides whether the array charges or discharges given the generation
// and load at the current timestep (all in kW), applies SoC and per-cell
// current limits, and returns the metered power output in kW (positive =
// discharge, negative = charge). The SoC is advanced to the end of the step.
//
// The metered power is what the rest of the plant sees. During discharge the
// cells must deliver more than the metered power (inverter loss); during
// charge the cells receive less than the metered draw (rectifier loss). The
// electrical chain per step, for the whole parallel array:
//
//	I = P_cells / V_nominal        array current, A
//	Q = I * dt                     charge moved, Ah
//	dSoC = Q / (count*q_nominal) * 100
//
// Curtailment is two-stage and order matters: the SoC bound is applied
// first, then the per-cell current limit is checked against the
// SoC-curtailed current. When both bind, the current limit wins.
func (s *StorageArray) Step(pSolarKW, pWindKW, pLoadKW float64) float64 {
	p := s.Params

	if p.CellCount == 0 {
		s.State.PowerKW = 0
		return 0
	}

	out := 0.0 // metered power, W

	// Work in watts.
	pSolar := pSolarKW * 1000
	pWind := pWindKW * 1000
	pLoad := pLoadKW * 1000

	// Deficit in serving the load; negative is a surplus.
	pDelta := pLoad - (pSolar + pWind)

	arrayCapacity := p.CellCount * p.NominalCapacityAh

	if pDelta < 0 {
		// Surplus: charge. Rectifier loss applies going into the cells.
		pCells := pDelta * p.RoundTripEfficiency
		current := pCells / p.NominalVoltage // negative by convention
		q := current * p.StepHours
		socDelta := q / arrayCapacity * 100
		socEnd := s.State.SoC - socDelta

		switch {
		case s.State.SoC == 100:
			// Already full, no charge occurs.
		case socEnd > 100:
			// Accepting the full surplus would overcharge: curtail so the
			// SoC caps at exactly 100, and re-derive power and current from
			// the curtailed charge quantity.
			socDelta = -(100 - s.State.SoC)
			socEnd = 100
			q = socDelta / 100 * arrayCapacity
			current = q / p.StepHours
			pCells = current * p.NominalVoltage
			pDelta = pCells / p.RoundTripEfficiency
			perCell := current / p.CellCount
			// The SoC-capped current can itself exceed the cell limit.
			if limited, lp, lsoc := s.clampToCurrentLimit(perCell, true); limited {
				pDelta = lp
				socEnd = lsoc
			}
			out = pDelta
			s.State.SoC = socEnd
		case socEnd < 100:
			out = pDelta
			s.State.SoC = socEnd
		}
	}

	if pDelta > 0 {
		// Deficit: discharge. Inverter loss applies coming out of the cells.
		pCells := pDelta / p.RoundTripEfficiency
		current := pCells / p.NominalVoltage
		q := current * p.StepHours
		socDelta := q / arrayCapacity * 100
		socEnd := s.State.SoC - socDelta

		switch {
		case s.State.SoC <= p.MinSoC:
			// Already at the floor, no discharge occurs.
		case socEnd < p.MinSoC:
			// Serving the full deficit would over-discharge: curtail so the
			// SoC bottoms out at exactly MinSoC.
			socDelta = s.State.SoC - p.MinSoC
			socEnd = p.MinSoC
			q = socDelta / 100 * arrayCapacity
			current = q / p.StepHours
			pCells = current * p.NominalVoltage
			pDelta = pCells * p.RoundTripEfficiency
			perCell := current / p.CellCount
			if limited, lp, lsoc := s.clampToCurrentLimit(perCell, false); limited {
				pDelta = lp
				socEnd = lsoc
			}
			out = pDelta
			s.State.SoC = socEnd
		case socEnd > p.MinSoC:
			out = pDelta
			s.State.SoC = socEnd
		}
	}

	// pDelta == 0 falls through: output zero, SoC unchanged.

	s.State.PowerKW = out / 1000
	return s.State.PowerKW
}

// clampToCurrentLimit checks a per-cell current against the charge or
// discharge limit. If the limit binds, it returns the metered power (W) and
// end-of-step SoC recomputed from the clamped current.
func (s *StorageArray) clampToCurrentLimit(perCell float64, charge bool) (limited bool, pDeltaW, socEnd float64) {
	p := s.Params
	perCell = math.Abs(perCell)

	if charge && perCell >= p.ChargeCurrentLimit {
		current := -(p.ChargeCurrentLimit * p.CellCount) // charging is negative
		pCells := current * p.NominalVoltage
		pDeltaW = pCells / p.RoundTripEfficiency
		q := current * p.StepHours
		socDelta := q / (p.CellCount * p.NominalCapacityAh) * 100
		socEnd = s.State.SoC - socDelta
		return true, pDeltaW, socEnd
	}
	if !charge && perCell >= p.DischargeCurrentLimit {
		current := p.DischargeCurrentLimit * p.CellCount
		pCells := current * p.NominalVoltage
		pDeltaW = pCells * p.RoundTripEfficiency
		q := current * p.StepHours
		socDelta := q / (p.CellCount * p.NominalCapacityAh) * 100
		socEnd = s.State.SoC - socDelta
		return true, pDeltaW, socEnd
	}
	return false, 0, 0
}
