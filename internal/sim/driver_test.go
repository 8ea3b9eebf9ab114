package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkmc-personal/hybridsizer/internal/data"
	"github.com/tkmc-personal/hybridsizer/internal/model"
)

func hourlySeries(values []float64) data.Series {
	start := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	s := make(data.Series, len(values))
	for i, v := range values {
		s[i] = data.Sample{Timestamp: start.Add(time.Duration(i) * time.Hour), Value: v}
	}
	return s
}

func TestRunWindAlignsWithInput(t *testing.T) {
	w, err := model.NewWindArray(model.WindParams{
		HubHeight:        10,
		AnemometerHeight: 10,
		SurfaceRoughness: 0.01,
		TurbineCount:     2,
		Curve: model.PowerCurve{Points: []model.CurvePoint{
			{WindSpeed: 0, Power: 0},
			{WindSpeed: 10, Power: 5},
		}},
	})
	require.NoError(t, err)

	out := RunWind(w, hourlySeries([]float64{0, 5, 10, 99}))
	require.Len(t, out, 4)
	assert.InDelta(t, 0.0, out[0], 1e-9)
	assert.InDelta(t, 5.0, out[1], 1e-9)
	assert.InDelta(t, 10.0, out[2], 1e-9)
	assert.Equal(t, 0.0, out[3]) // above the curve: cut-off
}

func TestRunSolarUsesTimestamps(t *testing.T) {
	s, err := model.NewSolarArray(model.SolarParams{
		Latitude:         45,
		Slope:            30,
		StepHours:        1,
		ModuleCapacityKW: 0.3,
		ModuleCount:      10,
		Albedo:           0.2,
		DeratingFactor:   0.9,
	})
	require.NoError(t, err)

	// Midnight then noon on 1 June.
	start := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	irr := data.Series{
		{Timestamp: start, Value: 0},
		{Timestamp: start.Add(12 * time.Hour), Value: 0.8},
	}
	out := RunSolar(s, irr)
	require.Len(t, out, 2)
	assert.Equal(t, 0.0, out[0])
	assert.Greater(t, out[1], 0.0)
}

func TestRunStorageSequentialSoC(t *testing.T) {
	st, err := model.NewStorageArray(model.StorageParams{
		StepHours:             1,
		CellCount:             10,
		NominalVoltage:        6,
		NominalCapacityAh:     167,
		MinSoC:                20,
		ChargeCurrentLimit:    167,
		DischargeCurrentLimit: 500,
		RoundTripEfficiency:   0.95,
	}, 100)
	require.NoError(t, err)

	load := hourlySeries([]float64{1, 1, 0})
	solar := []float64{0, 0, 2}
	wind := []float64{0, 0, 0}

	power, soc, err := RunStorage(st, load, solar, wind)
	require.NoError(t, err)
	require.Len(t, power, 3)

	assert.InDelta(t, 1.0, power[0], 1e-9)
	assert.InDelta(t, 1.0, power[1], 1e-9)
	assert.Less(t, soc[1], soc[0])
	// Step 3 has a surplus and the array recharges.
	assert.Negative(t, power[2])
	assert.Greater(t, soc[2], soc[1])
}

func TestRunStorageLengthMismatch(t *testing.T) {
	st, err := model.NewStorageArray(model.StorageParams{
		StepHours: 1, CellCount: 1, NominalVoltage: 6, NominalCapacityAh: 167,
		MinSoC: 20, ChargeCurrentLimit: 167, DischargeCurrentLimit: 500,
		RoundTripEfficiency: 0.95,
	}, 100)
	require.NoError(t, err)

	_, _, err = RunStorage(st, hourlySeries([]float64{1, 1}), []float64{0}, []float64{0, 0})
	assert.Error(t, err)
}

func TestCapacityShortage(t *testing.T) {
	load := hourlySeries([]float64{10, 10, 10, 10})

	t.Run("fully served", func(t *testing.T) {
		got, err := CapacityShortage(load,
			[]float64{10, 10, 10, 10}, []float64{0, 0, 0, 0}, []float64{0, 0, 0, 0})
		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	})

	t.Run("partially served", func(t *testing.T) {
		got, err := CapacityShortage(load,
			[]float64{10, 10, 0, 0}, []float64{0, 0, 5, 0}, []float64{0, 0, 0, 5})
		require.NoError(t, err)
		// 5 + 5 unmet of 40 total.
		assert.InDelta(t, 0.25, got, 1e-9)
	})

	t.Run("overgeneration does not offset deficits", func(t *testing.T) {
		got, err := CapacityShortage(load,
			[]float64{100, 0, 100, 100}, []float64{0, 0, 0, 0}, []float64{0, 0, 0, 0})
		require.NoError(t, err)
		assert.InDelta(t, 0.25, got, 1e-9)
	})

	t.Run("zero load", func(t *testing.T) {
		empty := hourlySeries([]float64{0, 0})
		got, err := CapacityShortage(empty, []float64{0, 0}, []float64{0, 0}, []float64{0, 0})
		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := CapacityShortage(load, []float64{1}, []float64{1}, []float64{1})
		assert.Error(t, err)
	})
}

func TestBuildLedger(t *testing.T) {
	load := hourlySeries([]float64{5, 5, 5})
	windP := []float64{2, 0, 8}
	solarP := []float64{1, 0, 0}
	storageP := []float64{2, 3, -2}
	soc := []float64{80, 50, 70}

	ledger, err := BuildLedger(load, windP, solarP, storageP, soc)
	require.NoError(t, err)
	require.Len(t, ledger, 3)

	assert.Equal(t, 0, ledger[0].Index)
	assert.Equal(t, load[0].Timestamp, ledger[0].Timestamp)
	assert.InDelta(t, 5.0, ledger[0].GenerationKW, 1e-9)
	assert.Equal(t, 0.0, ledger[0].UnmetKW)
	assert.Equal(t, model.ActionDischarging, ledger[0].Action)

	assert.InDelta(t, 2.0, ledger[1].UnmetKW, 1e-9)
	assert.Equal(t, model.ActionDischarging, ledger[1].Action)

	// Overgeneration clamps unmet at zero; the array is charging.
	assert.Equal(t, 0.0, ledger[2].UnmetKW)
	assert.Equal(t, model.ActionCharging, ledger[2].Action)

	_, err = BuildLedger(load, windP[:2], solarP, storageP, soc)
	assert.Error(t, err)
}
