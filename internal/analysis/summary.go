package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/tkmc-personal/hybridsizer/internal/model"
	"github.com/tkmc-personal/hybridsizer/internal/sim"
)

// PlantSummary is a design-level digest of one simulated year, for reports
// and ranking output. It does not depend on the search strategy that
// produced the design.
type PlantSummary struct {
	Start time.Time
	End   time.Time

	Steps int

	TotalLoadKWh       float64
	TotalGenerationKWh float64
	TotalUnmetKWh      float64
	ShortageFraction   float64

	WindShareOfGen  float64
	SolarShareOfGen float64

	PeakUnmetKW float64
	UnmetHours  int

	HoursCharging    int
	HoursDischarging int
	HoursIdle        int

	MinSoC float64
	P05SoC float64
}

// Summarize digests a simulation ledger into plant-level statistics.
func Summarize(ledger []sim.LedgerRow) PlantSummary {
	s := PlantSummary{}
	if len(ledger) == 0 {
		return s
	}
	s.Start = ledger[0].Timestamp
	s.End = ledger[len(ledger)-1].Timestamp
	s.Steps = len(ledger)

	s.MinSoC = math.Inf(1)
	socs := make([]float64, 0, len(ledger))
	windKWh := 0.0
	solarKWh := 0.0
	for _, r := range ledger {
		s.TotalLoadKWh += r.LoadKW
		s.TotalGenerationKWh += r.GenerationKW
		s.TotalUnmetKWh += r.UnmetKW
		windKWh += r.WindKW
		solarKWh += r.SolarKW

		if r.UnmetKW > 0 {
			s.UnmetHours++
		}
		if r.UnmetKW > s.PeakUnmetKW {
			s.PeakUnmetKW = r.UnmetKW
		}
		switch r.Action {
		case model.ActionCharging:
			s.HoursCharging++
		case model.ActionDischarging:
			s.HoursDischarging++
		default:
			s.HoursIdle++
		}
		if r.SoC < s.MinSoC {
			s.MinSoC = r.SoC
		}
		socs = append(socs, r.SoC)
	}
	if s.TotalLoadKWh > 0 {
		s.ShortageFraction = s.TotalUnmetKWh / s.TotalLoadKWh
	}
	if s.TotalGenerationKWh > 0 {
		s.WindShareOfGen = windKWh / s.TotalGenerationKWh
		s.SolarShareOfGen = solarKWh / s.TotalGenerationKWh
	}
	sort.Float64s(socs)
	s.P05SoC = percentileSorted(socs, 0.05)
	return s
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
