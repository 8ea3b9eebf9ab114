// Package finance implements the discounted cash-flow model used to score
// plant designs: each technology's component array is costed independently
// over the project lifetime and summed to a plant net present cost.
package finance

import (
	"errors"
	"math"
)

// ProjectParams are the economy-wide inputs shared by every component array.
// Rates are percentages expressed in decimal (0.02 = 2%).
type ProjectParams struct {
	Lifetime            float64 // years until decommissioning
	InflationRate       float64
	NominalDiscountRate float64
}

// ComponentCosts are the per-component economics of one technology.
// All currency values are per component (one cell, one turbine, one module).
type ComponentCosts struct {
	Lifetime        float64 // years one component operates before replacement
	CapitalCost     float64
	ReplacementCost float64
	OMCost          float64 // operations and maintenance, per year
}

func (p ProjectParams) Validate() error {
	if p.Lifetime <= 0 {
		return errors.New("project Lifetime must be > 0")
	}
	if p.InflationRate <= -1 {
		return errors.New("InflationRate must be > -1")
	}
	return nil
}

func (c ComponentCosts) Validate() error {
	if c.Lifetime <= 0 {
		return errors.New("component Lifetime must be > 0")
	}
	if c.CapitalCost < 0 || c.ReplacementCost < 0 || c.OMCost < 0 {
		return errors.New("component costs must be >= 0")
	}
	return nil
}

// CashFlowRow is one row of the discounted cash-flow schedule. Sign
// convention: costs (capital, replacement, O&M) are negative, salvage is
// positive. Year and DiscountFactor are rounded to 3 decimals, currency
// columns to the nearest whole unit.
type CashFlowRow struct {
	Year           float64
	DiscountFactor float64
	Capital        float64
	Replacement    float64
	Salvage        float64
	OM             float64
	Total          float64
}

// DiscountFactor adjusts a nominal cash flow in the given year to its
// present value. The real discount rate strips inflation out of the nominal
// rate. The factor is rounded to 3 decimals before use, so schedule rows
// match the reported factors exactly.
func DiscountFactor(year, inflationRate, nominalDiscountRate float64) float64 {
	real := (nominalDiscountRate - inflationRate) / (1 + inflationRate)
	return round3(1 / math.Pow(1+real, year))
}

// FinancialYears produces the sorted schedule of years the cash-flow model
// runs at: every annual year 0..projectLifetime, interleaved with the years
// at which components need replacing (multiples of the component lifetime
// strictly below the project lifetime). A replacement year that coincides
// with an annual year appears as a second, distinct entry after it.
func FinancialYears(componentLifetime, projectLifetime float64) (financial, replacements []float64) {
	for y := componentLifetime; y < projectLifetime; y += componentLifetime {
		replacements = append(replacements, y)
	}

	var check float64
	year := 0.0
	idx := 0
	for year <= projectLifetime {
		if idx < len(replacements) {
			check = replacements[idx]
		}
		if idx < len(replacements) && year > check {
			financial = append(financial, replacements[idx])
			idx++
		} else {
			financial = append(financial, year)
			year++
		}
	}
	return financial, replacements
}

// SalvageValue is the residual value of one component at decommissioning,
// proportional to the life remaining after the last replacement interval.
func SalvageValue(replacementCost, componentLifetime, projectLifetime float64) float64 {
	lastReplacement := componentLifetime * math.Floor(projectLifetime/componentLifetime)
	remaining := componentLifetime - (projectLifetime - lastReplacement)
	return math.Abs(replacementCost * (remaining / componentLifetime))
}

// NPC performs the discounted cash-flow analysis for an array of count
// identical components and returns the schedule plus the net present cost.
// Capital is charged at year 0 only; replacement cost at each replacement
// year; O&M at every year except year 0 and replacement years; salvage
// revenue at the final year only.
func NPC(proj ProjectParams, costs ComponentCosts, count float64) ([]CashFlowRow, float64) {
	years, replacements := FinancialYears(costs.Lifetime, proj.Lifetime)

	factors := make([]float64, len(years))
	for i, y := range years {
		factors[i] = DiscountFactor(y, proj.InflationRate, proj.NominalDiscountRate)
	}

	capitals := make([]float64, len(years))
	capitals[0] = costs.CapitalCost * count

	// Each replacement year charges once, at its first occurrence in the
	// schedule (the annual entry when the years coincide).
	reps := make([]float64, len(years))
	idx := 0
	for i := range years {
		if idx < len(replacements) && years[i] == replacements[idx] {
			reps[i] = costs.ReplacementCost * count
			idx++
		}
	}

	salvages := make([]float64, len(years))
	salvages[len(years)-1] = SalvageValue(costs.ReplacementCost, costs.Lifetime, proj.Lifetime) * count

	oms := make([]float64, len(years))
	idx = 0
	for i := range years {
		if i != 0 {
			oms[i] = costs.OMCost * count
		}
		if idx < len(replacements) && years[i] == replacements[idx] {
			oms[i] = 0
			idx++
		}
	}

	rows := make([]CashFlowRow, len(years))
	npc := 0.0
	for i := range years {
		capital := -factors[i] * capitals[i]
		replacement := -factors[i] * reps[i]
		salvage := factors[i] * salvages[i]
		om := -factors[i] * oms[i]
		total := capital + replacement + salvage + om
		npc += total
		rows[i] = CashFlowRow{
			Year:           round3(years[i]),
			DiscountFactor: factors[i],
			Capital:        math.Round(capital),
			Replacement:    math.Round(replacement),
			Salvage:        math.Round(salvage),
			OM:             math.Round(om),
			Total:          math.Round(total),
		}
	}
	return rows, math.Abs(npc)
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
