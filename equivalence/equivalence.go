// Package equivalence computes the value-equivalence classes: a
// partition of Write∪ConstantLiteral such that two members of the
// same class are guaranteed to hold the same value whenever each
// completes.
//
// Conceptually the partition is a colored flood fill over a graph of
// direct edges (definite equality) and merge edges (confluence, equal
// only when every input already agrees). This package realizes the
// same partition with a union-find over the
// direct edges plus a fixpoint sweep over merge constraints, which
// converges to the identical result regardless of visitation order —
// a standard substitution for hand-rolled flood fill, in the same
// spirit as wazero's ssa package preferring a textbook dominator
// algorithm (pass_cfg.go's calculateDominators) over an ad hoc one.
package equivalence

import (
	"sort"

	"github.com/xujuntwt95329/binaryen/ir"
	"github.com/xujuntwt95329/binaryen/liveness"
	"github.com/xujuntwt95329/binaryen/setreach"
)

// memberKind tags a union-find element as representing a Write or a
// Literal (the "has-write" vs "has-literal" sum type from Design Notes).
type memberKind byte

const (
	memberWrite memberKind = iota
	memberLiteral
)

type member struct {
	kind  memberKind
	write ir.NodeID
	lit   ir.Literal
}

type mergeGroup struct {
	consumer  int // index into uf for the write being assigned a value
	producers []int
}

// Graph is the computed equivalence partition.
type Graph struct {
	uf        []int // union-find parent array, indexed by member index
	members   []member
	writeIdx  map[ir.NodeID]int
	litIdx    map[ir.Literal]int
	classOf   map[int]int // root index -> dense class id
	classSize int
}

func (g *Graph) find(x int) int {
	for g.uf[x] != x {
		g.uf[x] = g.uf[g.uf[x]]
		x = g.uf[x]
	}
	return x
}

func (g *Graph) union(a, b int) {
	ra, rb := g.find(a), g.find(b)
	if ra != rb {
		g.uf[rb] = ra
	}
}

func (g *Graph) literalID(lit ir.Literal) int {
	if idx, ok := g.litIdx[lit]; ok {
		return idx
	}
	idx := len(g.members)
	g.members = append(g.members, member{kind: memberLiteral, lit: lit})
	g.uf = append(g.uf, idx)
	g.litIdx[lit] = idx
	return idx
}

// Build computes the equivalence classes of fn given its set-reach
// graph sr and a fallthrough normalizer.
func Build(fn *ir.Function, sr *setreach.Graph, norm ir.FallthroughNormalizer) *Graph {
	g := &Graph{
		writeIdx: make(map[ir.NodeID]int),
		litIdx:   make(map[ir.Literal]int),
	}

	// Pre-seed the type-appropriate zero literal for every scalar
	// type, representing zero-initialization.
	for _, t := range []ir.Type{ir.TypeI32, ir.TypeI64, ir.TypeF32, ir.TypeF64} {
		g.literalID(ir.Literal{Typ: t, Bits: 0})
	}

	writes := collectWrites(fn)
	for _, w := range writes {
		idx := len(g.members)
		g.members = append(g.members, member{kind: memberWrite, write: w})
		g.uf = append(g.uf, idx)
		g.writeIdx[w] = idx
	}

	var groups []mergeGroup
	for _, w := range writes {
		wIdx := g.writeIdx[w]
		n := fn.Node(w)
		val := norm.UnusedFallthrough(fn, n.Value)
		valNode := fn.Node(val)

		switch {
		case valNode.Kind == ir.KindRead:
			reaching := sr.ReachingWrites(val)
			switch len(reaching) {
			case 0:
				g.union(wIdx, g.literalID(ir.Literal{Typ: valNode.Typ, Bits: 0}))
			case 1:
				for p := range reaching {
					g.union(wIdx, g.writeIdx[p])
				}
			default:
				producers := make([]int, 0, len(reaching))
				for p := range reaching {
					producers = append(producers, g.writeIdx[p])
				}
				sort.Ints(producers)
				groups = append(groups, mergeGroup{consumer: wIdx, producers: producers})
			}

		case valNode.Kind == ir.KindWrite && valNode.Tee:
			g.union(wIdx, g.writeIdx[val])

		case valNode.IsLiteral():
			g.union(wIdx, g.literalID(valNode.Lit))
		}
	}

	resolveMerges(g, groups)
	g.assignClasses()
	return g
}

func collectWrites(fn *ir.Function) []ir.NodeID {
	var writes []ir.NodeID
	for i := 0; i < fn.NumNodes(); i++ {
		id := ir.NodeID(i)
		if fn.Node(id).Kind == ir.KindWrite {
			writes = append(writes, id)
		}
	}
	return writes
}

// resolveMerges repeatedly unions each merge group's consumer with its
// producers once all producers agree, stopping when a full sweep makes
// no further progress (a simple, deterministic fixpoint; each group
// resolves at most once, matching the "processed at most once" result
// even though the mechanism here is union-find rather than a literal
// revisit counter).
func resolveMerges(g *Graph, groups []mergeGroup) {
	for {
		changed := false
		for i := range groups {
			gr := &groups[i]
			if gr.producers == nil {
				continue // already resolved
			}
			root := g.find(gr.producers[0])
			agree := true
			for _, p := range gr.producers[1:] {
				if g.find(p) != root {
					agree = false
					break
				}
			}
			if agree {
				g.union(gr.consumer, gr.producers[0])
				gr.producers = nil
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}

func (g *Graph) assignClasses() {
	g.classOf = make(map[int]int)
	roots := make([]int, 0, len(g.members))
	seen := make(map[int]bool)
	for i := range g.members {
		r := g.find(i)
		if !seen[r] {
			seen[r] = true
			roots = append(roots, r)
		}
	}
	sort.Ints(roots)
	for i, r := range roots {
		g.classOf[r] = i + 1
	}
	g.classSize = len(roots)
}

// ClassOf returns the equivalence class id of a Write.
func (g *Graph) ClassOf(write ir.NodeID) int {
	idx, ok := g.writeIdx[write]
	if !ok {
		return 0
	}
	return g.classOf[g.find(idx)]
}

// LiteralClass returns the class id of a literal constant, creating no
// new class (returns 0, false if the literal was never observed).
func (g *Graph) LiteralClass(lit ir.Literal) (int, bool) {
	idx, ok := g.litIdx[lit]
	if !ok {
		return 0, false
	}
	return g.classOf[g.find(idx)], true
}

// ZeroClass returns the class id representing zero-initialization for
// values of type t.
func (g *Graph) ZeroClass(t ir.Type) int {
	c, _ := g.LiteralClass(ir.Literal{Typ: t, Bits: 0})
	return c
}

// SameClass reports whether two Writes are guaranteed equivalent.
func (g *Graph) SameClass(a, b ir.NodeID) bool {
	ai, aok := g.writeIdx[a]
	bi, bok := g.writeIdx[b]
	if !aok || !bok {
		return false
	}
	return g.find(ai) == g.find(bi)
}

// NumClasses returns the number of distinct equivalence classes.
func (g *Graph) NumClasses() int { return g.classSize }

// AnyEquivalent reports whether candidate is provably equivalent to any
// member of peers.
func (g *Graph) AnyEquivalent(candidate ir.NodeID, peers liveness.WriteSet) bool {
	for p := range peers {
		if g.SameClass(candidate, p) {
			return true
		}
	}
	return false
}
