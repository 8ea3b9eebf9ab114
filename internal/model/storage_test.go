package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultStorageParams() StorageParams {
	return StorageParams{
		StepHours:             1,
		CellCount:             10,
		NominalVoltage:        6,
		NominalCapacityAh:     167,
		MinSoC:                20,
		ChargeCurrentLimit:    167,
		DischargeCurrentLimit: 500,
		RoundTripEfficiency:   0.95,
	}
}

func newTestStorageArray(t *testing.T, p StorageParams, initialSoC float64) *StorageArray {
	t.Helper()
	s, err := NewStorageArray(p, initialSoC)
	require.NoError(t, err)
	return s
}

func TestStepZeroCellsIsPassive(t *testing.T) {
	p := defaultStorageParams()
	p.CellCount = 0
	s := newTestStorageArray(t, p, 100)

	assert.Equal(t, 0.0, s.Step(0, 0, 50))
	assert.Equal(t, 100.0, s.State.SoC)
}

func TestStepDischargeServesDeficit(t *testing.T) {
	s := newTestStorageArray(t, defaultStorageParams(), 100)

	// 1 kW deficit for one hour. The cells deliver 1/0.95 kW, moving
	// 175.44 Ah out of a 1670 Ah array.
	out := s.Step(0, 0, 1)
	assert.InDelta(t, 1.0, out, 1e-9)
	assert.InDelta(t, 100-10.505, s.State.SoC, 0.01)
	assert.Equal(t, out, s.State.PowerKW)
}

func TestStepChargeAbsorbsSurplus(t *testing.T) {
	s := newTestStorageArray(t, defaultStorageParams(), 50)

	// 1 kW surplus: the cells receive 0.95 kW after rectifier loss.
	out := s.Step(1, 0, 0)
	assert.InDelta(t, -1.0, out, 1e-9)
	assert.InDelta(t, 50+9.481, s.State.SoC, 0.01)
}

func TestStepFullPackRefusesCharge(t *testing.T) {
	s := newTestStorageArray(t, defaultStorageParams(), 100)

	assert.Equal(t, 0.0, s.Step(5, 0, 0))
	assert.Equal(t, 100.0, s.State.SoC)
}

func TestStepEmptyPackRefusesDischarge(t *testing.T) {
	s := newTestStorageArray(t, defaultStorageParams(), 20)

	assert.Equal(t, 0.0, s.Step(0, 0, 5))
	assert.Equal(t, 20.0, s.State.SoC)
}

func TestStepDischargeCurtailedBySoCFloor(t *testing.T) {
	s := newTestStorageArray(t, defaultStorageParams(), 25)

	// A 10 kW deficit would pull far below the floor; only the 5% above
	// MinSoC is deliverable: 83.5 Ah * 6 V * 0.95 = 476 W.
	out := s.Step(0, 0, 10)
	assert.InDelta(t, 0.47595, out, 1e-4)
	assert.Equal(t, 20.0, s.State.SoC)
}

func TestStepChargeCurtailedBySoCCeiling(t *testing.T) {
	s := newTestStorageArray(t, defaultStorageParams(), 95)

	// A 10 kW surplus would overshoot 100%; only 5% of the array is
	// acceptable: 83.5 Ah * 6 V / 0.95 = 527 W metered.
	out := s.Step(10, 0, 0)
	assert.InDelta(t, -0.52737, out, 1e-4)
	assert.Equal(t, 100.0, s.State.SoC)
}

func TestStepDischargeCurrentLimitWins(t *testing.T) {
	// One cell with a tight discharge limit: the SoC curtailment alone
	// would still exceed the per-cell current limit, so the limit decides.
	p := defaultStorageParams()
	p.CellCount = 1
	p.DischargeCurrentLimit = 100
	s := newTestStorageArray(t, p, 100)

	out := s.Step(0, 0, 10)
	// 100 A * 6 V * 0.95 = 570 W metered; 100 Ah of 167 Ah is 59.88%.
	assert.InDelta(t, 0.570, out, 1e-9)
	assert.InDelta(t, 100-59.88, s.State.SoC, 0.01)
}

func TestStepChargeCurrentLimitWins(t *testing.T) {
	p := defaultStorageParams()
	p.CellCount = 1
	p.ChargeCurrentLimit = 100
	s := newTestStorageArray(t, p, 20)

	out := s.Step(10, 0, 0)
	// 100 A * 6 V / 0.95 = 631.6 W metered draw; SoC rises 59.88%.
	assert.InDelta(t, -0.63158, out, 1e-4)
	assert.InDelta(t, 20+59.88, s.State.SoC, 0.01)
}

func TestStepBalancedPowerIsIdle(t *testing.T) {
	s := newTestStorageArray(t, defaultStorageParams(), 60)

	assert.Equal(t, 0.0, s.Step(2, 3, 5))
	assert.Equal(t, 60.0, s.State.SoC)
}

func TestStepSoCNeverLeavesBounds(t *testing.T) {
	s := newTestStorageArray(t, defaultStorageParams(), 60)

	// Alternate pathological surpluses and deficits.
	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			s.Step(500, 500, 0)
		} else {
			s.Step(0, 0, 1000)
		}
		assert.GreaterOrEqual(t, s.State.SoC, s.Params.MinSoC)
		assert.LessOrEqual(t, s.State.SoC, 100.0)
	}
}

func TestStepLandingExactlyOnCeilingDoesNothing(t *testing.T) {
	// Binary-exact parameters so the end-of-step SoC lands on exactly 100.
	// The bound comparisons are strict, so no charge is applied.
	p := StorageParams{
		StepHours:             1,
		CellCount:             1,
		NominalVoltage:        1,
		NominalCapacityAh:     100,
		MinSoC:                20,
		ChargeCurrentLimit:    1000,
		DischargeCurrentLimit: 1000,
		RoundTripEfficiency:   1,
	}
	s := newTestStorageArray(t, p, 37.5)

	out := s.Step(0.0625, 0, 0) // 62.5 W surplus moves SoC by exactly 62.5
	assert.Equal(t, 0.0, out)
	assert.Equal(t, 37.5, s.State.SoC)
}

func TestNewStorageArrayRejectsBadParams(t *testing.T) {
	cases := []struct {
		name       string
		mutate     func(*StorageParams)
		initialSoC float64
	}{
		{"zero step", func(p *StorageParams) { p.StepHours = 0 }, 100},
		{"negative cell count", func(p *StorageParams) { p.CellCount = -1 }, 100},
		{"zero voltage", func(p *StorageParams) { p.NominalVoltage = 0 }, 100},
		{"zero capacity", func(p *StorageParams) { p.NominalCapacityAh = 0 }, 100},
		{"min soc at 100", func(p *StorageParams) { p.MinSoC = 100 }, 100},
		{"zero charge limit", func(p *StorageParams) { p.ChargeCurrentLimit = 0 }, 100},
		{"efficiency above 1", func(p *StorageParams) { p.RoundTripEfficiency = 1.1 }, 100},
		{"initial soc below floor", func(p *StorageParams) {}, 10},
		{"initial soc above 100", func(p *StorageParams) {}, 101},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := defaultStorageParams()
			tc.mutate(&p)
			_, err := NewStorageArray(p, tc.initialSoC)
			assert.Error(t, err)
		})
	}
}
