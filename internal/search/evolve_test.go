package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBetterFeasibilityRule(t *testing.T) {
	feasCheap := Evaluation{Feasible: true, NPC: 100, Shortage: 0}
	feasDear := Evaluation{Feasible: true, NPC: 200, Shortage: 0.005}
	infeasNear := Evaluation{Feasible: false, NPC: 50, Shortage: 0.2}
	infeasFar := Evaluation{Feasible: false, NPC: 10, Shortage: 0.9}

	// Feasible always beats infeasible, price notwithstanding.
	assert.True(t, better(feasDear, infeasFar, 0.01))
	assert.False(t, better(infeasFar, feasDear, 0.01))

	// Two feasible candidates compete on cost.
	assert.True(t, better(feasCheap, feasDear, 0.01))
	assert.False(t, better(feasDear, feasCheap, 0.01))

	// Two infeasible candidates compete on constraint violation.
	assert.True(t, better(infeasNear, infeasFar, 0.01))
	assert.False(t, better(infeasFar, infeasNear, 0.01))
}

func TestClip(t *testing.T) {
	assert.Equal(t, 0.0, clip(-1, 0, 10))
	assert.Equal(t, 10.0, clip(11, 0, 10))
	assert.Equal(t, 5.0, clip(5, 0, 10))
}

func TestNPCSpread(t *testing.T) {
	pop := []Evaluation{{NPC: 2}, {NPC: 4}, {NPC: 6}}
	mean, std := npcSpread(pop)
	assert.InDelta(t, 4.0, mean, 1e-9)
	assert.InDelta(t, 1.63299, std, 1e-4)

	mean, std = npcSpread([]Evaluation{{NPC: 7}, {NPC: 7}})
	assert.InDelta(t, 7.0, mean, 1e-9)
	assert.Equal(t, 0.0, std)
}

func TestEvolveRejectsBadSettings(t *testing.T) {
	eval := testEvaluator(t, 1, testCosts())

	d := &DifferentialEvolution{PopSize: 3}
	_, err := d.Search(eval)
	assert.Error(t, err)

	d = &DifferentialEvolution{PopSize: 8, Mutation: [2]float64{0.5, 0.1}}
	_, err = d.Search(eval)
	assert.Error(t, err)

	d = &DifferentialEvolution{PopSize: 8, Bounds: [3][2]float64{{2, 1}, {0, 1}, {0, 1}}}
	_, err = d.Search(eval)
	assert.Error(t, err)
}

func TestEvolveIsDeterministicForASeed(t *testing.T) {
	box := [2]float64{0, 2}
	newStrategy := func() *DifferentialEvolution {
		return &DifferentialEvolution{
			Bounds:         [3][2]float64{box, box, box},
			PopSize:        8,
			MaxGenerations: 4,
			Seed:           42,
		}
	}

	a, err := newStrategy().Search(testEvaluator(t, 1, testCosts()))
	require.NoError(t, err)
	b, err := newStrategy().Search(testEvaluator(t, 1, testCosts()))
	require.NoError(t, err)

	assert.Equal(t, a.Best.Candidate, b.Best.Candidate)
	assert.Equal(t, a.Best.NPC, b.Best.NPC)
	assert.Equal(t, a.Evaluations, b.Evaluations)
}

func TestEvolveRunsAllGenerationsWithoutTolerance(t *testing.T) {
	// Tol zero never converges on a spread-out population, so the run is
	// bounded by MaxGenerations and evaluation counting is exact.
	box := [2]float64{0, 2}
	d := &DifferentialEvolution{
		Bounds:         [3][2]float64{box, box, box},
		PopSize:        8,
		MaxGenerations: 5,
		Seed:           7,
	}

	result, err := d.Search(testEvaluator(t, 1, testCosts()))
	require.NoError(t, err)

	assert.LessOrEqual(t, result.Generations, 5)
	assert.Equal(t, 8+result.Generations*8, result.Evaluations)
	assert.True(t, result.Best.Feasible)
}

func TestEvolveConvergesOnFlatObjective(t *testing.T) {
	// Free designs make every NPC zero: the population spread is zero after
	// the first generation and the run stops immediately.
	box := [2]float64{0, 2}
	d := &DifferentialEvolution{
		Bounds:         [3][2]float64{box, box, box},
		PopSize:        8,
		MaxGenerations: 50,
		Seed:           1,
	}

	result, err := d.Search(testEvaluator(t, 1, freeCosts()))
	require.NoError(t, err)

	assert.True(t, result.Converged)
	assert.Equal(t, 1, result.Generations)
}

func TestEvolveNoFeasibleDesign(t *testing.T) {
	// Bounds too small for any design to serve the load.
	box := [2]float64{0, 0.01}
	d := &DifferentialEvolution{
		Bounds:         [3][2]float64{box, box, box},
		PopSize:        6,
		MaxGenerations: 3,
		Seed:           3,
	}

	_, err := d.Search(testEvaluator(t, 0.01, testCosts()))
	assert.ErrorIs(t, err, ErrNoFeasibleDesign)
}
