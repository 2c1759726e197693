// Package copyprop implements a copy propagator: for reads of
// variables certified single-assigned, rewrite the read's index to the
// minimum index reachable through a chain of read-of-read or
// read-of-tee copies. Grounded on the alias-chasing shape of wazero's
// ssa package passRedundantPhiEliminationOpt, which walks each value's
// b.alias link to its b.resolveAlias canonical form before rewriting
// any operand; this package walks the analogous read/tee copy chain
// down to its minimum equivalent local index instead.
package copyprop

import (
	"sort"

	"github.com/xujuntwt95329/binaryen/ir"
	"github.com/xujuntwt95329/binaryen/setreach"
)

// SingleAssignmentOracle answers whether a local index is assigned at
// most once along every execution path, the external fact required
// before a copy chain may be followed.
type SingleAssignmentOracle interface {
	IsSingleAssigned(index int) bool
}

// Run rewrites fn's reads of single-assigned locals to the minimum
// equivalent index reachable through a chain of trivial copies.
func Run(fn *ir.Function, sr *setreach.Graph, norm ir.FallthroughNormalizer, oracle SingleAssignmentOracle) {
	rewritten := make(map[ir.NodeID]bool)

	for i := 0; i < fn.NumNodes(); i++ {
		id := ir.NodeID(i)
		n := fn.Node(id)
		if n.Kind != ir.KindRead || !oracle.IsSingleAssigned(n.Index) {
			continue
		}
		if rewritten[id] {
			continue
		}

		min, ok := minimumEquivalentIndex(fn, sr, norm, oracle, id, n.Index)
		if ok && min < n.Index {
			n.Index = min
		}
		rewritten[id] = true
	}
}

// minimumEquivalentIndex follows the read/tee copy chain reachable
// from read id and returns the minimum index among the distinct
// same-assignment indices collected, guarding against cycles in
// unreachable code with a visited set.
func minimumEquivalentIndex(fn *ir.Function, sr *setreach.Graph, norm ir.FallthroughNormalizer, oracle SingleAssignmentOracle, id ir.NodeID, startIndex int) (int, bool) {
	reaching := sr.ReachingWrites(id)
	if len(reaching) != 1 {
		return 0, false
	}
	var write ir.NodeID
	for w := range reaching {
		write = w
	}

	visitedWrites := make(map[ir.NodeID]bool)
	indexes := map[int]bool{startIndex: true}

	var walk func(w ir.NodeID)
	walk = func(w ir.NodeID) {
		if visitedWrites[w] {
			return
		}
		visitedWrites[w] = true

		val := norm.UnusedFallthrough(fn, fn.Node(w).Value)
		valNode := fn.Node(val)

		switch {
		case valNode.Kind == ir.KindRead:
			if !oracle.IsSingleAssigned(valNode.Index) {
				return
			}
			indexes[valNode.Index] = true
			rs := sr.ReachingWrites(val)
			if len(rs) != 1 {
				return
			}
			for next := range rs {
				walk(next)
			}
		case valNode.Kind == ir.KindWrite && valNode.Tee:
			if !oracle.IsSingleAssigned(valNode.Index) {
				return
			}
			indexes[valNode.Index] = true
			walk(val)
		}
	}
	walk(write)

	if len(indexes) == 0 {
		return 0, false
	}
	keys := make([]int, 0, len(indexes))
	for k := range indexes {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys[0], true
}
