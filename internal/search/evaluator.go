// Package search sizes the plant: it explores the space of (cell, turbine,
// module) counts, using the simulation driver as the feasibility oracle and
// the financial model as the objective.
package search

import (
	"errors"
	"fmt"

	"github.com/tkmc-personal/hybridsizer/internal/data"
	"github.com/tkmc-personal/hybridsizer/internal/finance"
	"github.com/tkmc-personal/hybridsizer/internal/model"
	"github.com/tkmc-personal/hybridsizer/internal/sim"
)

// Candidate is one plant design: component counts per technology. The grid
// strategy uses whole numbers; the evolution strategy relaxes counts to
// continuous values.
type Candidate struct {
	Cells    float64
	Turbines float64
	Modules  float64
}

// Evaluation is the scored outcome of simulating one candidate.
type Evaluation struct {
	Candidate Candidate
	Shortage  float64 // capacity-shortage fraction
	NPC       float64 // summed plant net present cost
	Feasible  bool
}

// CostTable carries the financial inputs for each technology.
type CostTable struct {
	Project  finance.ProjectParams
	Cells    finance.ComponentCosts
	Turbines finance.ComponentCosts
	Modules  finance.ComponentCosts
}

func (t CostTable) Validate() error {
	if err := t.Project.Validate(); err != nil {
		return err
	}
	if err := t.Cells.Validate(); err != nil {
		return fmt.Errorf("cells: %w", err)
	}
	if err := t.Turbines.Validate(); err != nil {
		return fmt.Errorf("turbines: %w", err)
	}
	if err := t.Modules.Validate(); err != nil {
		return fmt.Errorf("modules: %w", err)
	}
	return nil
}

// Evaluator is the expensive evaluation oracle shared by the search
// strategies. It owns the resource series and the per-technology parameter
// templates; per candidate it instantiates fresh model state, so no mutable
// state is shared between candidates.
//
// The wind/solar memo caches are the only cross-candidate resource. They are
// write-once via Precompute before a sweep begins and read-only afterwards,
// so concurrent candidate evaluations need no locking.
type Evaluator struct {
	wind       model.WindParams
	solar      model.SolarParams
	storage    model.StorageParams
	initialSoC float64

	windRes  data.Series
	solarRes data.Series
	load     data.Series

	costs       CostTable
	maxShortage float64

	windMemo  map[float64][]float64
	solarMemo map[float64][]float64
}

// NewEvaluator validates the inputs and builds an evaluator. The count
// fields of the parameter templates are ignored; each candidate supplies its
// own counts.
func NewEvaluator(
	wind model.WindParams,
	solar model.SolarParams,
	storage model.StorageParams,
	initialSoC float64,
	windRes, solarRes, load data.Series,
	costs CostTable,
	maxShortage float64,
) (*Evaluator, error) {
	if len(load) == 0 {
		return nil, errors.New("load series is empty")
	}
	if len(windRes) != len(load) || len(solarRes) != len(load) {
		return nil, fmt.Errorf("resource series must be co-indexed: wind=%d solar=%d load=%d",
			len(windRes), len(solarRes), len(load))
	}
	if maxShortage < 0 || maxShortage > 1 {
		return nil, errors.New("maxShortage must be in [0, 1]")
	}
	if err := costs.Validate(); err != nil {
		return nil, err
	}

	// Fail on bad physics parameters now, not mid-search.
	wind.TurbineCount = 1
	if _, err := model.NewWindArray(wind); err != nil {
		return nil, fmt.Errorf("wind params invalid: %w", err)
	}
	solar.ModuleCount = 1
	if _, err := model.NewSolarArray(solar); err != nil {
		return nil, fmt.Errorf("solar params invalid: %w", err)
	}
	storage.CellCount = 1
	if _, err := model.NewStorageArray(storage, initialSoC); err != nil {
		return nil, fmt.Errorf("storage params invalid: %w", err)
	}

	return &Evaluator{
		wind:        wind,
		solar:       solar,
		storage:     storage,
		initialSoC:  initialSoC,
		windRes:     windRes,
		solarRes:    solarRes,
		load:        load,
		costs:       costs,
		maxShortage: maxShortage,
		windMemo:    map[float64][]float64{},
		solarMemo:   map[float64][]float64{},
	}, nil
}

// Steps returns the number of timesteps in one simulation.
func (e *Evaluator) Steps() int { return len(e.load) }

// MaxShortage returns the feasibility threshold.
func (e *Evaluator) MaxShortage() float64 { return e.maxShortage }

// Load returns the load series the evaluator simulates against.
func (e *Evaluator) Load() data.Series { return e.load }

// Precompute populates the wind and solar memo caches for the given counts.
// Wind and solar output depend only on their own technology's count, so one
// simulation per distinct count covers every candidate that reuses it.
func (e *Evaluator) Precompute(counts []float64) error {
	for _, c := range counts {
		p, err := e.WindSeries(c)
		if err != nil {
			return err
		}
		e.windMemo[c] = p
		p, err = e.SolarSeries(c)
		if err != nil {
			return err
		}
		e.solarMemo[c] = p
	}
	return nil
}

// WindSeries returns the wind power series for a turbine count, consulting
// the memo cache first. Cache misses simulate without storing, keeping the
// cache read-only outside Precompute.
func (e *Evaluator) WindSeries(count float64) ([]float64, error) {
	if p, ok := e.windMemo[count]; ok {
		return p, nil
	}
	if count == 0 {
		return make([]float64, len(e.windRes)), nil
	}
	params := e.wind
	params.TurbineCount = count
	w, err := model.NewWindArray(params)
	if err != nil {
		return nil, err
	}
	return sim.RunWind(w, e.windRes), nil
}

// SolarSeries returns the solar power series for a module count; see
// WindSeries for the caching contract.
func (e *Evaluator) SolarSeries(count float64) ([]float64, error) {
	if p, ok := e.solarMemo[count]; ok {
		return p, nil
	}
	if count == 0 {
		return make([]float64, len(e.solarRes)), nil
	}
	params := e.solar
	params.ModuleCount = count
	s, err := model.NewSolarArray(params)
	if err != nil {
		return nil, err
	}
	return sim.RunSolar(s, e.solarRes), nil
}

// StorageSeries runs the storage state machine fresh for a candidate:
// storage output depends on all three counts, so it is never memoized.
func (e *Evaluator) StorageSeries(cells float64, solarP, windP []float64) (power, soc []float64, err error) {
	if cells == 0 {
		return make([]float64, len(e.load)), make([]float64, len(e.load)), nil
	}
	params := e.storage
	params.CellCount = cells
	st, err := model.NewStorageArray(params, e.initialSoC)
	if err != nil {
		return nil, nil, err
	}
	return sim.RunStorage(st, e.load, solarP, windP)
}

// Evaluate simulates and scores one candidate.
func (e *Evaluator) Evaluate(c Candidate) (Evaluation, error) {
	if c.Cells < 0 || c.Turbines < 0 || c.Modules < 0 {
		return Evaluation{}, fmt.Errorf("candidate counts must be >= 0: %+v", c)
	}

	windP, err := e.WindSeries(c.Turbines)
	if err != nil {
		return Evaluation{}, err
	}
	solarP, err := e.SolarSeries(c.Modules)
	if err != nil {
		return Evaluation{}, err
	}
	storageP, _, err := e.StorageSeries(c.Cells, solarP, windP)
	if err != nil {
		return Evaluation{}, err
	}

	shortage, err := sim.CapacityShortage(e.load, windP, solarP, storageP)
	if err != nil {
		return Evaluation{}, err
	}

	return Evaluation{
		Candidate: c,
		Shortage:  shortage,
		NPC:       e.NPC(c),
		Feasible:  shortage <= e.maxShortage,
	}, nil
}

// NPC scores a candidate financially: each technology's array is evaluated
// independently with its own lifetime and cost parameters, and the three net
// present costs are summed. Interaction effects between jointly sized
// technologies are deliberately not modeled.
func (e *Evaluator) NPC(c Candidate) float64 {
	_, cellNPC := finance.NPC(e.costs.Project, e.costs.Cells, c.Cells)
	_, turbineNPC := finance.NPC(e.costs.Project, e.costs.Turbines, c.Turbines)
	_, moduleNPC := finance.NPC(e.costs.Project, e.costs.Modules, c.Modules)
	return cellNPC + turbineNPC + moduleNPC
}

// CashFlows returns the per-technology discounted cash-flow schedules for a
// candidate, for reporting.
func (e *Evaluator) CashFlows(c Candidate) (cells, turbines, modules []finance.CashFlowRow) {
	cells, _ = finance.NPC(e.costs.Project, e.costs.Cells, c.Cells)
	turbines, _ = finance.NPC(e.costs.Project, e.costs.Turbines, c.Turbines)
	modules, _ = finance.NPC(e.costs.Project, e.costs.Modules, c.Modules)
	return cells, turbines, modules
}
