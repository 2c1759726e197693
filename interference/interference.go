// Package interference computes the write-level and index-level
// interference relations, the input the coalescer needs to know which
// locals can never share a color. Grounded on the
// interference-graph construction in wazero's
// internal/engine/wazevo/backend/regalloc (the buildLiveRanges /
// interference-edge bookkeeping driving its Chaitin-style allocator),
// adapted from physical-register interference to local-index
// interference and driven backward per basic block rather than
// forward over live ranges.
package interference

import (
	"sort"

	"github.com/xujuntwt95329/binaryen/cfg"
	"github.com/xujuntwt95329/binaryen/diag"
	"github.com/xujuntwt95329/binaryen/equivalence"
	"github.com/xujuntwt95329/binaryen/ir"
	"github.com/xujuntwt95329/binaryen/liveness"
	"github.com/xujuntwt95329/binaryen/setreach"
)

// Graph holds both the fine-grained write-level interference relation
// and its coarsening to index-level interference.
type Graph struct {
	writeEdges map[ir.NodeID]map[ir.NodeID]struct{}
	indexEdges map[int]map[int]struct{}
	numLocals  int
}

func newGraph(numLocals int) *Graph {
	return &Graph{
		writeEdges: make(map[ir.NodeID]map[ir.NodeID]struct{}),
		indexEdges: make(map[int]map[int]struct{}),
		numLocals:  numLocals,
	}
}

func (g *Graph) addWriteEdge(a, b ir.NodeID) {
	if a == b {
		return
	}
	if g.writeEdges[a] == nil {
		g.writeEdges[a] = make(map[ir.NodeID]struct{})
	}
	if g.writeEdges[b] == nil {
		g.writeEdges[b] = make(map[ir.NodeID]struct{})
	}
	g.writeEdges[a][b] = struct{}{}
	g.writeEdges[b][a] = struct{}{}
}

func (g *Graph) addIndexEdge(i, j int) {
	if i == j {
		return
	}
	if g.indexEdges[i] == nil {
		g.indexEdges[i] = make(map[int]struct{})
	}
	if g.indexEdges[j] == nil {
		g.indexEdges[j] = make(map[int]struct{})
	}
	g.indexEdges[i][j] = struct{}{}
	g.indexEdges[j][i] = struct{}{}
}

// Interferes reports whether indices i and j may never share a color.
func (g *Graph) Interferes(i, j int) bool {
	if i == j {
		return false
	}
	_, ok := g.indexEdges[i][j]
	return ok
}

// Neighbors returns the sorted set of indices that interfere with i.
func (g *Graph) Neighbors(i int) []int {
	m := g.indexEdges[i]
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// Build computes the interference graph for fn under a scoped
// parameter/zero-init transformation: it temporarily prepends explicit
// writes for every parameter and declared variable, recomputes every
// analysis fresh over that scoped body, and restores fn.Body before
// returning.
func Build(fn *ir.Function, b ir.Builder, norm ir.FallthroughNormalizer) *Graph {
	savedBody := fn.Body
	scoped := ir.PrependInits(fn, b)
	fn.Body = scoped.Body
	defer func() { fn.Body = savedBody }()

	cg := cfg.Build(fn)
	lr := liveness.Compute(cg)
	sr := setreach.Build(cg, lr)
	eq := equivalence.Build(fn, sr, norm)

	return build(fn, cg, lr, sr, eq, fn.NumParams(), scoped.ZeroInits)
}

// build is the scope-independent computation that Build runs over the
// scoped body. With a nil zeroInits no parameter/zero-init edges are
// forced.
func build(fn *ir.Function, cg *cfg.Graph, lr *liveness.Result, sr *setreach.Graph, eq *equivalence.Graph, numParams int, zeroInits []ir.NodeID) *Graph {
	g := newGraph(fn.NumLocals())

	for _, id := range cg.LiveBlocks() {
		b := cg.Block(id)
		st := lr.At(id)

		live := st.EndWrites.Clone()
		for i := len(b.Actions) - 1; i >= 0; i-- {
			a := b.Actions[i]
			switch a.Kind {
			case cfg.ActionWrite:
				if diag.InterferenceValidationEnabled {
					for w := range live {
						diag.Assert(fn.Node(w).Index != a.Index || w == a.Node, "interference.Build",
							"write %d of index %d still live at its own definition", w, a.Index)
					}
				}
				delete(live, a.Node)
			case cfg.ActionRead:
				reaching := sr.ReachingWrites(a.Node)
				for w := range reaching {
					if live.Has(w) {
						continue
					}
					for other := range live {
						if other == w {
							continue
						}
						if fn.Node(other).Index == fn.Node(w).Index {
							continue
						}
						if eq.SameClass(w, other) {
							continue
						}
						g.addWriteEdge(w, other)
					}
					live.Add(w)
				}
			}
		}
	}

	for w, peers := range g.writeEdges {
		wi := fn.Node(w).Index
		for p := range peers {
			g.addIndexEdge(wi, fn.Node(p).Index)
		}
	}

	addZeroInitParamEdges(sr, zeroInits, numParams, g)

	return g
}

// addZeroInitParamEdges forces an edge between every parameter index
// and a variable's synthesized zero-init write, but only when that
// particular write has a consuming read: it is specifically the
// implicit zero-initialization PrependInits prepends per declared
// variable that must never be folded into a parameter's slot, not any
// write that merely happens to carry the zero value (an explicit
// `v := 0` write is free to coalesce with a parameter like any other
// write once it is no longer live across the synthesized init).
func addZeroInitParamEdges(sr *setreach.Graph, zeroInits []ir.NodeID, numParams int, g *Graph) {
	for idx, id := range zeroInits {
		if !id.Valid() {
			continue
		}
		if len(sr.Influenced(id)) == 0 {
			continue
		}
		for p := 0; p < numParams; p++ {
			g.addIndexEdge(idx, p)
		}
	}
}
