package search

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rs/zerolog"
)

// DifferentialEvolution sizes the plant with a constrained, population-based
// stochastic optimizer. Counts are relaxed to continuous box-constrained
// variables; the capacity-shortage constraint is handled by feasibility-rule
// selection (a feasible candidate always beats an infeasible one, and
// infeasible candidates compete on constraint violation).
type DifferentialEvolution struct {
	// Bounds are the inclusive (min, max) box constraints per dimension:
	// cells, turbines, modules.
	Bounds [3][2]float64

	// PopSize is the population size. Zero defaults to 15 per dimension.
	PopSize int

	// Mutation is the dithering range: each generation draws the scale
	// factor uniformly from [Mutation[0], Mutation[1]).
	Mutation [2]float64

	// CrossoverProb is the binomial crossover probability.
	CrossoverProb float64

	// Tol stops the run when the population NPC spread (standard deviation)
	// falls below Tol relative to the mean NPC.
	Tol float64

	// MaxGenerations bounds the run when Tol is never reached.
	MaxGenerations int

	// Seed makes a run reproducible.
	Seed int64

	Logger zerolog.Logger
}

func (d *DifferentialEvolution) Name() string { return "evolve" }

func (d *DifferentialEvolution) Search(eval *Evaluator) (*Result, error) {
	popSize := d.PopSize
	if popSize <= 0 {
		popSize = 15 * 3
	}
	if popSize < 4 {
		return nil, fmt.Errorf("population size must be >= 4, got %d", popSize)
	}
	mutLo, mutHi := d.Mutation[0], d.Mutation[1]
	if mutLo == 0 && mutHi == 0 {
		mutLo, mutHi = 0.25, 0.5
	}
	if mutLo <= 0 || mutHi < mutLo || mutHi >= 2 {
		return nil, fmt.Errorf("mutation dither range (%v, %v) invalid", mutLo, mutHi)
	}
	crossProb := d.CrossoverProb
	if crossProb == 0 {
		crossProb = 0.7
	}
	maxGen := d.MaxGenerations
	if maxGen <= 0 {
		maxGen = 300
	}
	for dim := 0; dim < 3; dim++ {
		if d.Bounds[dim][1] < d.Bounds[dim][0] || d.Bounds[dim][0] < 0 {
			return nil, fmt.Errorf("bounds for dimension %d invalid: %v", dim, d.Bounds[dim])
		}
	}

	rng := rand.New(rand.NewSource(d.Seed))

	// Initial population: uniform over the box.
	pop := make([]Evaluation, popSize)
	res := &Result{}
	for i := range pop {
		var c Candidate
		c.Cells = d.Bounds[0][0] + rng.Float64()*(d.Bounds[0][1]-d.Bounds[0][0])
		c.Turbines = d.Bounds[1][0] + rng.Float64()*(d.Bounds[1][1]-d.Bounds[1][0])
		c.Modules = d.Bounds[2][0] + rng.Float64()*(d.Bounds[2][1]-d.Bounds[2][0])
		ev, err := eval.Evaluate(c)
		if err != nil {
			return nil, err
		}
		pop[i] = ev
		res.Evaluations++
	}

	threshold := eval.MaxShortage()
	bestIdx := 0
	for i := 1; i < len(pop); i++ {
		if better(pop[i], pop[bestIdx], threshold) {
			bestIdx = i
		}
	}

	for gen := 0; gen < maxGen; gen++ {
		res.Generations = gen + 1
		f := mutLo + rng.Float64()*(mutHi-mutLo)

		for i := range pop {
			r1, r2 := pickDistinct(rng, popSize, i, bestIdx)

			// best/1/bin mutation around the current best member.
			base := vector(pop[bestIdx].Candidate)
			v1 := vector(pop[r1].Candidate)
			v2 := vector(pop[r2].Candidate)
			target := vector(pop[i].Candidate)

			var trial [3]float64
			jrand := rng.Intn(3)
			for dim := 0; dim < 3; dim++ {
				if dim == jrand || rng.Float64() < crossProb {
					trial[dim] = base[dim] + f*(v1[dim]-v2[dim])
				} else {
					trial[dim] = target[dim]
				}
				trial[dim] = clip(trial[dim], d.Bounds[dim][0], d.Bounds[dim][1])
			}

			ev, err := eval.Evaluate(candidate(trial))
			if err != nil {
				return nil, err
			}
			res.Evaluations++
			if better(ev, pop[i], threshold) {
				pop[i] = ev
				if better(ev, pop[bestIdx], threshold) {
					bestIdx = i
				}
			}
		}

		mean, std := npcSpread(pop)
		d.Logger.Debug().
			Int("generation", gen+1).
			Float64("bestNPC", pop[bestIdx].NPC).
			Float64("spread", std).
			Msg("evolution generation done")
		if std <= d.Tol*math.Abs(mean) {
			res.Converged = true
			break
		}
	}

	if !pop[bestIdx].Feasible {
		return nil, ErrNoFeasibleDesign
	}
	res.Best = pop[bestIdx]
	d.Logger.Info().
		Float64("cells", res.Best.Candidate.Cells).
		Float64("turbines", res.Best.Candidate.Turbines).
		Float64("modules", res.Best.Candidate.Modules).
		Float64("npc", res.Best.NPC).
		Int("generations", res.Generations).
		Bool("converged", res.Converged).
		Msg("evolution complete")
	return res, nil
}

// better reports whether a is preferred over b under the feasibility rule:
// feasibility first, then constraint violation, then cost.
func better(a, b Evaluation, threshold float64) bool {
	switch {
	case a.Feasible && !b.Feasible:
		return true
	case !a.Feasible && b.Feasible:
		return false
	case !a.Feasible && !b.Feasible:
		// Both violate the constraint; less violation wins.
		return a.Shortage-threshold < b.Shortage-threshold
	default:
		return a.NPC < b.NPC
	}
}

func pickDistinct(rng *rand.Rand, n, exclude1, exclude2 int) (int, int) {
	r1 := rng.Intn(n)
	for r1 == exclude1 || r1 == exclude2 {
		r1 = rng.Intn(n)
	}
	r2 := rng.Intn(n)
	for r2 == exclude1 || r2 == exclude2 || r2 == r1 {
		r2 = rng.Intn(n)
	}
	return r1, r2
}

func vector(c Candidate) [3]float64 {
	return [3]float64{c.Cells, c.Turbines, c.Modules}
}

func candidate(v [3]float64) Candidate {
	return Candidate{Cells: v[0], Turbines: v[1], Modules: v[2]}
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func npcSpread(pop []Evaluation) (mean, std float64) {
	for _, ev := range pop {
		mean += ev.NPC
	}
	mean /= float64(len(pop))
	for _, ev := range pop {
		d := ev.NPC - mean
		std += d * d
	}
	return mean, math.Sqrt(std / float64(len(pop)))
}
