package search

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// GridSearch enumerates every (cells, turbines, modules) triple from a fixed
// set of candidate counts. Wind and solar series are precomputed once per
// distinct count and reused across the whole sweep; only the storage state
// machine is simulated fresh per triple, since its output depends on all
// three counts.
type GridSearch struct {
	// Counts are the candidate component counts, applied to each technology.
	Counts []float64

	// Workers bounds the number of concurrent candidate evaluations.
	// Zero means one worker per CPU.
	Workers int

	Logger zerolog.Logger
}

func (g *GridSearch) Name() string { return "grid" }

// CountRange generates the inclusive range min..max in the given step.
func CountRange(min, max, step float64) []float64 {
	if step <= 0 || max < min {
		return nil
	}
	var counts []float64
	for c := min; c <= max; c += step {
		counts = append(counts, c)
	}
	return counts
}

func (g *GridSearch) Search(eval *Evaluator) (*Result, error) {
	if len(g.Counts) == 0 {
		return nil, fmt.Errorf("grid search needs at least one candidate count")
	}

	// Populate the memo caches before the sweep so the concurrent part only
	// reads them.
	if err := eval.Precompute(g.Counts); err != nil {
		return nil, err
	}

	workers := g.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Each cell count owns one slot so goroutines never share a write
	// target; flattening afterwards preserves enumeration order
	// (cells, then turbines, then modules).
	perCell := make([][]Evaluation, len(g.Counts))

	var eg errgroup.Group
	eg.SetLimit(workers)
	for ci, cells := range g.Counts {
		ci, cells := ci, cells
		eg.Go(func() error {
			g.Logger.Debug().Float64("cells", cells).Msg("evaluating cell count")
			evals := make([]Evaluation, 0, len(g.Counts)*len(g.Counts))
			for _, turbines := range g.Counts {
				for _, modules := range g.Counts {
					ev, err := eval.Evaluate(Candidate{Cells: cells, Turbines: turbines, Modules: modules})
					if err != nil {
						return err
					}
					evals = append(evals, ev)
				}
			}
			perCell[ci] = evals
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	res := &Result{}
	for _, evals := range perCell {
		for _, ev := range evals {
			res.Evaluations++
			if !ev.Feasible {
				continue
			}
			res.Feasible = append(res.Feasible, ev)
			// Strict less-than: the first-found candidate wins NPC ties.
			if len(res.Feasible) == 1 || ev.NPC < res.Best.NPC {
				res.Best = ev
			}
		}
	}
	if len(res.Feasible) == 0 {
		return nil, ErrNoFeasibleDesign
	}

	g.Logger.Info().
		Float64("cells", res.Best.Candidate.Cells).
		Float64("turbines", res.Best.Candidate.Turbines).
		Float64("modules", res.Best.Candidate.Modules).
		Float64("npc", res.Best.NPC).
		Float64("shortage", res.Best.Shortage).
		Int("feasible", len(res.Feasible)).
		Msg("grid search complete")
	return res, nil
}
