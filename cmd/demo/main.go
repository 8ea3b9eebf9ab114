package main

import (
	"flag"
	"fmt"
	"math"
	"time"

	"github.com/tkmc-personal/hybridsizer/internal/analysis"
	"github.com/tkmc-personal/hybridsizer/internal/data"
	"github.com/tkmc-personal/hybridsizer/internal/finance"
	"github.com/tkmc-personal/hybridsizer/internal/model"
	"github.com/tkmc-personal/hybridsizer/internal/search"
	"github.com/tkmc-personal/hybridsizer/internal/sim"
)

// Demo:
// - Generate a synthetic year of wind, irradiance and load profiles
// - Size the plant with a coarse grid sweep
// - Simulate the winning design and print a digest
func main() {
	step := flag.Float64("step", 20, "Grid sweep step for component counts")
	max := flag.Float64("max", 100, "Grid sweep upper bound for component counts")
	flag.Parse()

	windRes, solarRes, load := syntheticYear()

	curve := model.PowerCurve{Points: []model.CurvePoint{
		{WindSpeed: 0, Power: 0},
		{WindSpeed: 3, Power: 0},
		{WindSpeed: 5, Power: 0.7},
		{WindSpeed: 7, Power: 1.7},
		{WindSpeed: 9, Power: 2.7},
		{WindSpeed: 11, Power: 3.3},
		{WindSpeed: 13, Power: 3.4},
		{WindSpeed: 16, Power: 3.3},
		{WindSpeed: 20, Power: 3.1},
	}}

	wind := model.WindParams{
		HubHeight:        17,
		AnemometerHeight: 10,
		SurfaceRoughness: 0.01,
		Curve:            curve,
	}
	solar := model.SolarParams{
		TimeZone:         0,
		Longitude:        -4.0,
		Latitude:         52.4,
		Slope:            30,
		Azimuth:          0,
		StepHours:        1,
		ModuleCapacityKW: 0.3,
		Albedo:           0.2,
		DeratingFactor:   0.9,
	}
	storage := model.StorageParams{
		StepHours:             1,
		NominalVoltage:        6,
		NominalCapacityAh:     167,
		MinSoC:                20,
		ChargeCurrentLimit:    167,
		DischargeCurrentLimit: 500,
		RoundTripEfficiency:   0.95,
	}
	costs := search.CostTable{
		Project: finance.ProjectParams{Lifetime: 25, InflationRate: 0.02, NominalDiscountRate: 0.08},
		Cells:    finance.ComponentCosts{Lifetime: 15, CapitalCost: 550, ReplacementCost: 550, OMCost: 10},
		Turbines: finance.ComponentCosts{Lifetime: 20, CapitalCost: 18000, ReplacementCost: 18000, OMCost: 180},
		Modules:  finance.ComponentCosts{Lifetime: 20, CapitalCost: 2500, ReplacementCost: 2500, OMCost: 10},
	}

	eval, err := search.NewEvaluator(wind, solar, storage, 100,
		windRes, solarRes, load, costs, 0.01)
	if err != nil {
		panic(err)
	}

	strat := &search.GridSearch{Counts: search.CountRange(0, *max, *step)}
	result, err := strat.Search(eval)
	if err != nil {
		panic(err)
	}

	best := result.Best
	fmt.Printf("Swept %d designs, %d feasible\n", result.Evaluations, len(result.Feasible))
	fmt.Printf("Optimal: cells=%.0f turbines=%.0f modules=%.0f shortage=%.4f NPC=%.2f\n",
		best.Candidate.Cells, best.Candidate.Turbines, best.Candidate.Modules,
		best.Shortage, best.NPC)

	windP, err := eval.WindSeries(best.Candidate.Turbines)
	if err != nil {
		panic(err)
	}
	solarP, err := eval.SolarSeries(best.Candidate.Modules)
	if err != nil {
		panic(err)
	}
	storageP, soc, err := eval.StorageSeries(best.Candidate.Cells, solarP, windP)
	if err != nil {
		panic(err)
	}
	ledger, err := sim.BuildLedger(load, windP, solarP, storageP, soc)
	if err != nil {
		panic(err)
	}

	s := analysis.Summarize(ledger)
	fmt.Printf("Load=%.0f kWh Generation=%.0f kWh Unmet=%.0f kWh over %d unmet hours\n",
		s.TotalLoadKWh, s.TotalGenerationKWh, s.TotalUnmetKWh, s.UnmetHours)
	fmt.Printf("Wind share=%.1f%% Solar share=%.1f%% Min SoC=%.1f P05 SoC=%.1f\n",
		100*s.WindShareOfGen, 100*s.SolarShareOfGen, s.MinSoC, s.P05SoC)

	fmt.Println("First day of dispatch:")
	for _, r := range ledger[:24] {
		fmt.Printf("  %s load=%6.1f wind=%6.1f solar=%6.1f storage=%7.1f soc=%5.1f %s\n",
			r.Timestamp.Format("15:04"), r.LoadKW, r.WindKW, r.SolarKW, r.StorageKW, r.SoC, r.Action)
	}
}

// syntheticYear builds one hourly year of deterministic resource profiles:
// wind with a seasonal swell, irradiance from a clear-sky day shape scaled
// by season, and a load with a morning and evening peak.
func syntheticYear() (wind, irradiance, load data.Series) {
	start := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	const hours = 8760
	wind = make(data.Series, hours)
	irradiance = make(data.Series, hours)
	load = make(data.Series, hours)

	for i := 0; i < hours; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		day := float64(ts.YearDay())
		hour := float64(ts.Hour())

		seasonal := math.Sin(2 * math.Pi * (day - 80) / 365) // peaks midsummer

		windSpeed := 6.5 - 1.5*seasonal + 1.2*math.Sin(2*math.Pi*hour/24)
		if windSpeed < 0 {
			windSpeed = 0
		}

		sunShape := math.Sin(math.Pi * (hour - 6) / 12)
		if sunShape < 0 {
			sunShape = 0
		}
		irr := (0.45 + 0.35*seasonal) * sunShape
		if irr < 0 {
			irr = 0
		}

		demand := 40.0 +
			12*math.Exp(-(hour-8)*(hour-8)/8) +
			18*math.Exp(-(hour-19)*(hour-19)/8)

		wind[i] = data.Sample{Timestamp: ts, Value: windSpeed}
		irradiance[i] = data.Sample{Timestamp: ts, Value: irr}
		load[i] = data.Sample{Timestamp: ts, Value: demand}
	}
	return wind, irradiance, load
}
