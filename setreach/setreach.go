// Package setreach computes the set-reaches-use graph: for each Read,
// which Writes may have produced the value it observes, and the
// inverse mapping from each Write to the Reads it may influence.
//
// This is exported as a standalone, reusable type (rather than folded
// into the interference engine) because copy-propagation and
// redundant-set-elimination both need it as an independent component,
// the same way Binaryen's LocalGraph (original_source's
// ir/local-utils.h family) is built once and consumed by multiple
// passes.
package setreach

import (
	"github.com/xujuntwt95329/binaryen/cfg"
	"github.com/xujuntwt95329/binaryen/ir"
	"github.com/xujuntwt95329/binaryen/liveness"
)

// Graph is the set-reaches-use map and its inverse.
type Graph struct {
	// Reach maps a Read's NodeID to the Writes that may reach it. An
	// absent key, or a present key with an empty set, means only
	// implicit zero-initialization reaches (no write dominates the
	// read along some path).
	Reach map[ir.NodeID]liveness.WriteSet
	// Influences is the inverse: a Write's NodeID to the Reads it may
	// reach.
	Influences map[ir.NodeID]readSet
}

type readSet map[ir.NodeID]struct{}

// ReachingWrites returns the writes that may reach read (possibly
// empty).
func (g *Graph) ReachingWrites(read ir.NodeID) liveness.WriteSet {
	return g.Reach[read]
}

// Influenced returns the reads a write may reach.
func (g *Graph) Influenced(write ir.NodeID) []ir.NodeID {
	rs := g.Influences[write]
	out := make([]ir.NodeID, 0, len(rs))
	for r := range rs {
		out = append(out, r)
	}
	return out
}

// Build computes the set-reach graph of g using the write-liveness
// result lr (already computed by the liveness package).
func Build(g *cfg.Graph, lr *liveness.Result) *Graph {
	res := &Graph{
		Reach:      make(map[ir.NodeID]liveness.WriteSet),
		Influences: make(map[ir.NodeID]readSet),
	}

	for _, id := range g.LiveBlocks() {
		b := g.Block(id)
		st := lr.At(id)

		current := make(map[int]liveness.WriteSet)
		for w := range st.StartWrites {
			idx := g.Func.Node(w).Index
			set, ok := current[idx]
			if !ok {
				set = liveness.NewWriteSet()
				current[idx] = set
			}
			set.Add(w)
		}

		for _, a := range b.Actions {
			switch a.Kind {
			case cfg.ActionWrite:
				fresh := liveness.NewWriteSet()
				fresh.Add(a.Node)
				current[a.Index] = fresh
			case cfg.ActionRead:
				reaching := current[a.Index]
				snapshot := liveness.NewWriteSet()
				if reaching != nil {
					snapshot.UnionWith(reaching)
				}
				res.Reach[a.Node] = snapshot
				for w := range snapshot {
					rs, ok := res.Influences[w]
					if !ok {
						rs = make(readSet)
						res.Influences[w] = rs
					}
					rs[a.Node] = struct{}{}
				}
			}
		}
	}
	return res
}
