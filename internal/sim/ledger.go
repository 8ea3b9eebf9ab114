package sim

import (
	"fmt"
	"time"

	"github.com/tkmc-personal/hybridsizer/internal/data"
	"github.com/tkmc-personal/hybridsizer/internal/model"
)

// LedgerRow is one row of per-timestep output for a simulated plant.
// This is the primary artifact for "what happened" over the year.
type LedgerRow struct {
	Index     int
	Timestamp time.Time

	LoadKW    float64
	WindKW    float64
	SolarKW   float64
	StorageKW float64
	SoC       float64

	Action model.Action

	GenerationKW float64 // wind + solar + storage
	UnmetKW      float64 // max(load - generation, 0)
}

// Result bundles the aligned series for one simulated design.
type Result struct {
	Ledger   []LedgerRow
	WindP    []float64
	SolarP   []float64
	StorageP []float64
	SoC      []float64

	Shortage float64
	FinalSoC float64
}

// BuildLedger assembles per-timestep rows from the aligned series.
func BuildLedger(load data.Series, windP, solarP, storageP, soc []float64) ([]LedgerRow, error) {
	if len(windP) != len(load) || len(solarP) != len(load) || len(storageP) != len(load) || len(soc) != len(load) {
		return nil, fmt.Errorf("series length mismatch: load=%d", len(load))
	}
	ledger := make([]LedgerRow, 0, len(load))
	for i, smp := range load {
		gen := windP[i] + solarP[i] + storageP[i]
		unmet := smp.Value - gen
		if unmet < 0 {
			unmet = 0
		}
		ledger = append(ledger, LedgerRow{
			Index:        i,
			Timestamp:    smp.Timestamp,
			LoadKW:       smp.Value,
			WindKW:       windP[i],
			SolarKW:      solarP[i],
			StorageKW:    storageP[i],
			SoC:          soc[i],
			Action:       model.ActionFromPowerKW(storageP[i]),
			GenerationKW: gen,
			UnmetKW:      unmet,
		})
	}
	return ledger, nil
}
