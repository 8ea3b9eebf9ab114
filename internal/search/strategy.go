package search

import "errors"

// ErrNoFeasibleDesign is returned when no candidate satisfies the capacity
// shortage constraint. The search reports this explicitly rather than
// returning an arbitrary design.
var ErrNoFeasibleDesign = errors.New("no feasible design satisfies the capacity shortage constraint")

// Result is the outcome of one sizing search.
type Result struct {
	Best Evaluation

	// Feasible holds every retained candidate in enumeration order
	// (grid strategy only; the evolution strategy keeps no archive).
	Feasible []Evaluation

	// Evaluations counts candidate simulations performed.
	Evaluations int

	// Generations and Converged describe the evolution strategy's run.
	Generations int
	Converged   bool
}

// Strategy is a sizing-search algorithm. Strategies are interchangeable:
// feasibility and cost are pure functions of the candidate, so any strategy
// exploring the same bounds finds comparable designs.
type Strategy interface {
	Name() string
	Search(eval *Evaluator) (*Result, error)
}
