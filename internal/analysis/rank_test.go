package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tkmc-personal/hybridsizer/internal/search"
)

func TestRankByNPC(t *testing.T) {
	input := []search.Evaluation{
		{Candidate: search.Candidate{Cells: 30}, NPC: 300, Feasible: true},
		{Candidate: search.Candidate{Cells: 10}, NPC: 100, Feasible: true},
		{Candidate: search.Candidate{Cells: 20}, NPC: 200, Feasible: true},
	}

	ranked := RankByNPC(input)

	assert.Equal(t, 100.0, ranked[0].NPC)
	assert.Equal(t, 200.0, ranked[1].NPC)
	assert.Equal(t, 300.0, ranked[2].NPC)

	// Input order is untouched.
	assert.Equal(t, 300.0, input[0].NPC)
}

func TestRankByNPCStableOnTies(t *testing.T) {
	input := []search.Evaluation{
		{Candidate: search.Candidate{Cells: 1}, NPC: 100},
		{Candidate: search.Candidate{Cells: 2}, NPC: 100},
		{Candidate: search.Candidate{Cells: 3}, NPC: 50},
	}

	ranked := RankByNPC(input)

	assert.Equal(t, 3.0, ranked[0].Candidate.Cells)
	assert.Equal(t, 1.0, ranked[1].Candidate.Cells)
	assert.Equal(t, 2.0, ranked[2].Candidate.Cells)
}
