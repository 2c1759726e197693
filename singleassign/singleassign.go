// Package singleassign provides the default single-assignment oracle:
// which local indices are assigned at most once along every path,
// plus reaching-writes/influences views delegated to the set-reach
// graph (the copy propagator consumes only IsSingleAssigned). Binaryen's own computeSSAIndexes in
// local-graph.h was not present in the retrieved source tree, so this
// implements the straightforward sufficient condition — an index with
// exactly one static Write in the whole function is trivially
// single-assigned along every path, since no path can execute it
// twice. This is a deliberate simplification of Binaryen's fuller,
// path-sensitive analysis (which also certifies some multiply-written
// indices whose writes are mutually exclusive), documented as an open
// question resolution rather than a literal port.
package singleassign

import (
	"github.com/xujuntwt95329/binaryen/ir"
	"github.com/xujuntwt95329/binaryen/setreach"
)

// Oracle is the default single-assignment oracle, backed by a static
// write count per index and a set-reach graph for the reaching-writes
// and influences views.
type Oracle struct {
	singleAssigned map[int]bool
	sr             *setreach.Graph
}

// Build computes the oracle for fn using the already-built set-reach
// graph sr.
func Build(fn *ir.Function, sr *setreach.Graph) *Oracle {
	counts := make(map[int]int)
	for i := 0; i < fn.NumNodes(); i++ {
		id := ir.NodeID(i)
		if fn.Node(id).Kind == ir.KindWrite {
			counts[fn.Node(id).Index]++
		}
	}
	single := make(map[int]bool, len(counts))
	for idx, n := range counts {
		single[idx] = n == 1
	}
	return &Oracle{singleAssigned: single, sr: sr}
}

// IsSingleAssigned reports whether index has exactly one static write.
func (o *Oracle) IsSingleAssigned(index int) bool {
	return o.singleAssigned[index]
}

// ReachingWrites delegates to the underlying set-reach graph.
func (o *Oracle) ReachingWrites(read ir.NodeID) []ir.NodeID {
	set := o.sr.ReachingWrites(read)
	out := make([]ir.NodeID, 0, len(set))
	for w := range set {
		out = append(out, w)
	}
	return out
}

// Influences delegates to the underlying set-reach graph.
func (o *Oracle) Influences(write ir.NodeID) []ir.NodeID {
	return o.sr.Influenced(write)
}
