package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/tkmc-personal/hybridsizer/internal/analysis"
	"github.com/tkmc-personal/hybridsizer/internal/api/models"
	"github.com/tkmc-personal/hybridsizer/internal/data"
	"github.com/tkmc-personal/hybridsizer/internal/finance"
	"github.com/tkmc-personal/hybridsizer/internal/model"
	"github.com/tkmc-personal/hybridsizer/internal/search"
	"github.com/tkmc-personal/hybridsizer/internal/sim"
)

const defaultMaxShortage = 0.01

// buildSeries materializes the inline resource arrays as co-indexed
// timestamped series.
func buildSeries(rd models.ResourceData) (wind, irradiance, load data.Series, stepHours float64, err error) {
	start, err := time.Parse(time.RFC3339, rd.Start)
	if err != nil {
		return nil, nil, nil, 0, fmt.Errorf("resources.start must be RFC 3339: %w", err)
	}
	stepHours = rd.StepHours
	if stepHours == 0 {
		stepHours = 1
	}
	if stepHours < 0 {
		return nil, nil, nil, 0, errors.New("resources.step_hours must be > 0")
	}
	n := len(rd.LoadKW)
	if n == 0 {
		return nil, nil, nil, 0, errors.New("resources.load_kw is empty")
	}
	if len(rd.WindSpeedMS) != n || len(rd.Irradiance) != n {
		return nil, nil, nil, 0, fmt.Errorf("resource arrays must be the same length: wind=%d irradiance=%d load=%d",
			len(rd.WindSpeedMS), len(rd.Irradiance), n)
	}

	step := time.Duration(stepHours * float64(time.Hour))
	wind = make(data.Series, n)
	irradiance = make(data.Series, n)
	load = make(data.Series, n)
	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i) * step)
		wind[i] = data.Sample{Timestamp: ts, Value: rd.WindSpeedMS[i]}
		irradiance[i] = data.Sample{Timestamp: ts, Value: rd.Irradiance[i]}
		load[i] = data.Sample{Timestamp: ts, Value: rd.LoadKW[i]}
	}
	return wind, irradiance, load, stepHours, nil
}

func buildCurve(points []models.CurvePoint) model.PowerCurve {
	pts := make([]model.CurvePoint, len(points))
	for i, p := range points {
		pts[i] = model.CurvePoint{WindSpeed: p.WindSpeedMS, Power: p.PowerKW}
	}
	return model.PowerCurve{Points: pts}
}

func buildCosts(f models.FinanceSettings) search.CostTable {
	conv := func(c models.ComponentCosts) finance.ComponentCosts {
		return finance.ComponentCosts{
			Lifetime:        c.LifetimeYears,
			CapitalCost:     c.CapitalCost,
			ReplacementCost: c.ReplacementCost,
			OMCost:          c.OMCostPerYear,
		}
	}
	return search.CostTable{
		Project: finance.ProjectParams{
			Lifetime:            f.ProjectLifetimeYears,
			InflationRate:       f.InflationRate,
			NominalDiscountRate: f.NominalDiscountRate,
		},
		Cells:    conv(f.Cells),
		Turbines: conv(f.Turbines),
		Modules:  conv(f.Modules),
	}
}

// buildEvaluator converts an API plant definition into the evaluation oracle
// the simulation and search endpoints share.
func buildEvaluator(plant models.PlantSettings, rd models.ResourceData, maxShortage float64) (*search.Evaluator, error) {
	windRes, solarRes, load, stepHours, err := buildSeries(rd)
	if err != nil {
		return nil, err
	}
	if maxShortage == 0 {
		maxShortage = defaultMaxShortage
	}

	windParams := model.WindParams{
		HubHeight:        plant.Wind.HubHeightM,
		AnemometerHeight: plant.Wind.AnemometerHeightM,
		SurfaceRoughness: plant.Wind.SurfaceRoughnessM,
		Altitude:         plant.Wind.AltitudeM,
		Curve:            buildCurve(plant.PowerCurve),
	}
	solarParams := model.SolarParams{
		TimeZone:         plant.Solar.TimeZone,
		Longitude:        plant.Solar.Longitude,
		Latitude:         plant.Solar.Latitude,
		Slope:            plant.Solar.Slope,
		Azimuth:          plant.Solar.Azimuth,
		StepHours:        stepHours,
		ModuleCapacityKW: plant.Solar.ModuleCapacityKW,
		Albedo:           plant.Solar.Albedo,
		DeratingFactor:   plant.Solar.DeratingFactor,
	}
	storageParams := model.StorageParams{
		StepHours:             stepHours,
		NominalVoltage:        plant.Storage.NominalVoltageV,
		NominalCapacityAh:     plant.Storage.NominalCapacityAh,
		MinSoC:                plant.Storage.MinSoC,
		ChargeCurrentLimit:    plant.Storage.ChargeCurrentLimitA,
		DischargeCurrentLimit: plant.Storage.DischargeCurrentLimitA,
		RoundTripEfficiency:   plant.Storage.RoundTripEfficiency,
	}
	initialSoC := plant.Storage.InitialSoC
	if initialSoC == 0 {
		initialSoC = 100
	}

	return search.NewEvaluator(windParams, solarParams, storageParams, initialSoC,
		windRes, solarRes, load, buildCosts(plant.Finance), maxShortage)
}

func toSummary(s analysis.PlantSummary) models.PlantSummary {
	return models.PlantSummary{
		Window:             models.TimeWindow{Start: s.Start, End: s.End},
		Steps:              s.Steps,
		TotalLoadKWh:       s.TotalLoadKWh,
		TotalGenerationKWh: s.TotalGenerationKWh,
		TotalUnmetKWh:      s.TotalUnmetKWh,
		ShortageFraction:   s.ShortageFraction,
		WindShareOfGen:     s.WindShareOfGen,
		SolarShareOfGen:    s.SolarShareOfGen,
		PeakUnmetKW:        s.PeakUnmetKW,
		UnmetHours:         s.UnmetHours,
		HoursCharging:      s.HoursCharging,
		HoursDischarging:   s.HoursDischarging,
		HoursIdle:          s.HoursIdle,
		MinSoC:             s.MinSoC,
		P05SoC:             s.P05SoC,
	}
}

func toLedger(ledger []sim.LedgerRow) []models.LedgerRow {
	out := make([]models.LedgerRow, len(ledger))
	for i, r := range ledger {
		out[i] = models.LedgerRow{
			Index:        r.Index,
			Timestamp:    r.Timestamp,
			LoadKW:       r.LoadKW,
			WindKW:       r.WindKW,
			SolarKW:      r.SolarKW,
			StorageKW:    r.StorageKW,
			SoC:          r.SoC,
			Action:       string(r.Action),
			GenerationKW: r.GenerationKW,
			UnmetKW:      r.UnmetKW,
		}
	}
	return out
}

func toCashFlowRows(rows []finance.CashFlowRow) []models.CashFlowRow {
	out := make([]models.CashFlowRow, len(rows))
	for i, r := range rows {
		out[i] = models.CashFlowRow{
			Year:           r.Year,
			DiscountFactor: r.DiscountFactor,
			Capital:        r.Capital,
			Replacement:    r.Replacement,
			Salvage:        r.Salvage,
			OM:             r.OM,
			Total:          r.Total,
		}
	}
	return out
}

func toDesignResult(ev search.Evaluation) models.DesignResult {
	return models.DesignResult{
		Cells:    ev.Candidate.Cells,
		Turbines: ev.Candidate.Turbines,
		Modules:  ev.Candidate.Modules,
		Shortage: ev.Shortage,
		NPC:      ev.NPC,
		Feasible: ev.Feasible,
	}
}
