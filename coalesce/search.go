package coalesce

import (
	"sort"

	"github.com/xujuntwt95329/binaryen/interference"
	"github.com/xujuntwt95329/binaryen/ir"
)

// deterministicOrders builds two fixed coloring orders: the
// non-parameter indices sorted by descending total copy weight
// (parameters pinned first), and the same sorted list reversed.
func deterministicOrders(numLocals, numParams int, weights PairWeights) (asc, desc []int) {
	// Accumulate each index's total weight by walking pairs in a fixed
	// order, rather than recomputing weights.Total(idx) once per index.
	totals := make(map[int]int, numLocals-numParams)
	for _, k := range weights.sortedKeys() {
		w := weights[k]
		totals[k.A] += w
		totals[k.B] += w
	}

	nonParams := make([]int, 0, numLocals-numParams)
	for i := numParams; i < numLocals; i++ {
		nonParams = append(nonParams, i)
	}
	sort.Slice(nonParams, func(i, j int) bool {
		wi, wj := totals[nonParams[i]], totals[nonParams[j]]
		if wi != wj {
			return wi > wj
		}
		return nonParams[i] < nonParams[j]
	})

	params := make([]int, numParams)
	for i := range params {
		params[i] = i
	}

	asc = append(append([]int(nil), params...), nonParams...)

	reversed := make([]int, len(nonParams))
	for i, v := range nonParams {
		reversed[len(nonParams)-1-i] = v
	}
	desc = append(append([]int(nil), params...), reversed...)
	return
}

// better reports whether a improves on b under the (maxColor,
// -removedCopies) objective: fewer colors wins outright, and among
// colorings that tie on color count, more removed copies wins.
func better(a, b Coloring) bool {
	if a.MaxColor != b.MaxColor {
		return a.MaxColor < b.MaxColor
	}
	return a.RemovedCopies > b.RemovedCopies
}

// SearchOrders runs the allocator under both deterministic orders plus
// the genetic learning overlay (when there is more than one declared
// variable) and returns the best coloring and its order.
func SearchOrders(numLocals, numParams int, types []ir.Type, interf *interference.Graph, weights PairWeights) (Coloring, []int) {
	asc, desc := deterministicOrders(numLocals, numParams, weights)

	bestOrder := asc
	best := GreedyColor(numLocals, numParams, types, interf, weights, asc)

	descColoring := GreedyColor(numLocals, numParams, types, interf, weights, desc)
	if better(descColoring, best) {
		best = descColoring
		bestOrder = desc
	}

	if numLocals-numParams > 1 {
		gaOrder, gaColoring := runGeneticSearch(numLocals, numParams, types, interf, weights, bestOrder)
		if better(gaColoring, best) {
			best = gaColoring
			bestOrder = gaOrder
		}
	}

	return best, bestOrder
}
