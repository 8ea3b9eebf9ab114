package sim

import (
	"fmt"

	"github.com/tkmc-personal/hybridsizer/internal/data"
	"github.com/tkmc-personal/hybridsizer/internal/model"
)

// RunWind simulates a wind array over the full wind-speed series, returning
// the power output in kW aligned sample-for-sample with the input.
func RunWind(w *model.WindArray, wind data.Series) []float64 {
	out := make([]float64, len(wind))
	for i, smp := range wind {
		w.HubSpeed(smp.Value)
		out[i] = w.PowerOutput()
	}
	return out
}

// RunSolar simulates a solar array over the full irradiance series. The
// day-of-year and civil time for each step come from the sample timestamp.
func RunSolar(s *model.SolarArray, irradiance data.Series) []float64 {
	out := make([]float64, len(irradiance))
	for i, smp := range irradiance {
		n := smp.Timestamp.YearDay()
		tc := float64(smp.Timestamp.Hour()) + float64(smp.Timestamp.Minute())/60
		out[i] = s.Step(n, tc, smp.Value)
	}
	return out
}

// RunStorage simulates a storage array over the full load series against
// precomputed solar and wind power series. It returns the metered storage
// power and the end-of-step SoC, both aligned with the load series.
// Iteration is strictly sequential: the SoC at step i depends on step i-1.
func RunStorage(st *model.StorageArray, load data.Series, solarP, windP []float64) (power, soc []float64, err error) {
	if len(solarP) != len(load) || len(windP) != len(load) {
		return nil, nil, fmt.Errorf("series length mismatch: load=%d solar=%d wind=%d",
			len(load), len(solarP), len(windP))
	}
	power = make([]float64, len(load))
	soc = make([]float64, len(load))
	for i, smp := range load {
		power[i] = st.Step(solarP[i], windP[i], smp.Value)
		soc[i] = st.State.SoC
	}
	return power, soc, nil
}

// CapacityShortage aggregates generation against load and returns the
// capacity-shortage fraction: the fraction of total load energy not met by
// generation plus storage over the simulated period. This is the sole
// feasibility signal for the sizing search.
func CapacityShortage(load data.Series, windP, solarP, storageP []float64) (float64, error) {
	if len(windP) != len(load) || len(solarP) != len(load) || len(storageP) != len(load) {
		return 0, fmt.Errorf("series length mismatch: load=%d wind=%d solar=%d storage=%d",
			len(load), len(windP), len(solarP), len(storageP))
	}
	totalLoad := 0.0
	totalUnmet := 0.0
	for i, smp := range load {
		totalLoad += smp.Value
		unmet := smp.Value - (windP[i] + solarP[i] + storageP[i])
		if unmet > 0 {
			totalUnmet += unmet
		}
	}
	if totalLoad == 0 {
		return 0, nil
	}
	return totalUnmet / totalLoad, nil
}
