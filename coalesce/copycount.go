// Package coalesce implements a local-coalescing register allocator:
// copy-affinity counting, greedy coloring under a permutation, a pair
// of deterministic order searches, a genetic order search overlay, and
// the final index-rewrite sweep. Grounded on the
// allocator driver in wazero's internal/engine/wazevo/backend/regalloc
// (allocator.go's doAllocation, coloring.go's greedy assignment loop),
// adapted from physical-register coloring with spill costs to
// local-index coloring with copy-affinity costs.
package coalesce

import (
	"sort"

	"github.com/xujuntwt95329/binaryen/cfg"
	"github.com/xujuntwt95329/binaryen/ir"
)

// PairKey identifies an unordered pair of local indices.
type PairKey struct{ A, B int }

func makeKey(a, b int) PairKey {
	if a > b {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// PairWeights accumulates copy-affinity weight between pairs of
// indices, keyed symmetrically so (a, b) and (b, a) share one entry.
type PairWeights map[PairKey]int

func (w PairWeights) add(a, b, weight int) {
	if a == b {
		return
	}
	w[makeKey(a, b)] += weight
}

// Weight returns the accumulated affinity between a and b.
func (w PairWeights) Weight(a, b int) int {
	return w[makeKey(a, b)]
}

// Total returns the sum of weights of every pair touching idx.
func (w PairWeights) Total(idx int) int {
	total := 0
	for k, v := range w {
		if k.A == idx || k.B == idx {
			total += v
		}
	}
	return total
}

// CountCopies walks g's actions and records copy-affinity pairs: a
// Write whose value is a plain Read, or an expression-If whose
// branches are each plain Reads, each worth weight 2; an extra weight
// of 1 is added when the write's block has an outgoing loop back edge.
func CountCopies(fn *ir.Function, g *cfg.Graph) PairWeights {
	w := make(PairWeights)

	backEdgeBlock := make(map[int]bool)
	for _, b := range g.Blocks {
		for _, e := range b.Succs {
			if e.Back {
				backEdgeBlock[b.ID] = true
			}
		}
	}

	for _, id := range g.LiveBlocks() {
		b := g.Block(id)
		bonus := 0
		if backEdgeBlock[id] {
			bonus = 1
		}
		for _, a := range b.Actions {
			if a.Kind != cfg.ActionWrite {
				continue
			}
			wn := fn.Node(a.Node)
			val := fn.Node(wn.Value)
			switch {
			case val.Kind == ir.KindRead:
				w.add(a.Index, val.Index, 2+bonus)
			case val.Kind == ir.KindIf && val.Typ != ir.TypeNone:
				thenN, elseN := fn.Node(val.Then), fn.Node(val.Else)
				if thenN.Kind == ir.KindRead {
					w.add(a.Index, thenN.Index, 2+bonus)
				}
				if elseN.Kind == ir.KindRead {
					w.add(a.Index, elseN.Index, 2+bonus)
				}
			}
		}
	}
	return w
}

// sortedKeys returns w's keys in a stable order, for deterministic
// iteration wherever a rewrite depends on pair-processing order.
func (w PairWeights) sortedKeys() []PairKey {
	keys := make([]PairKey, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].A != keys[j].A {
			return keys[i].A < keys[j].A
		}
		return keys[i].B < keys[j].B
	})
	return keys
}
