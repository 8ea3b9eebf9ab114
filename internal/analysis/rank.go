package analysis

import (
	"sort"

	"github.com/tkmc-personal/hybridsizer/internal/search"
)

// RankByNPC orders feasible designs cheapest-first. The sort is stable so
// equal-NPC designs keep their enumeration order (first-found wins).
func RankByNPC(feasible []search.Evaluation) []search.Evaluation {
	out := make([]search.Evaluation, len(feasible))
	copy(out, feasible)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NPC < out[j].NPC
	})
	return out
}
