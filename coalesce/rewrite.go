package coalesce

import (
	"github.com/xujuntwt95329/binaryen/cfg"
	"github.com/xujuntwt95329/binaryen/ir"
	"github.com/xujuntwt95329/binaryen/setreach"
)

// Rewrite maps every Read/Write's index through colorOf, then drops
// self-copies and dead writes in the same sweep.
// sr must have been computed over fn's body before this call (dropping
// a write changes the tree's shape, not any NodeID, so sr's write
// identities stay valid for the liveness check below).
func Rewrite(fn *ir.Function, g *cfg.Graph, sr *setreach.Graph, colorOf []int) {
	for i := 0; i < fn.NumNodes(); i++ {
		id := ir.NodeID(i)
		n := fn.Node(id)
		if n.Kind == ir.KindRead || n.Kind == ir.KindWrite {
			n.Index = colorOf[n.Index]
		}
	}

	dropped := make(map[ir.NodeID]bool)
	for i := 0; i < fn.NumNodes(); i++ {
		id := ir.NodeID(i)
		n := fn.Node(id)
		if n.Kind != ir.KindWrite {
			continue
		}
		valNode := fn.Node(n.Value)
		selfCopy := valNode.Kind == ir.KindRead && valNode.Index == n.Index
		dead := len(sr.Influenced(id)) == 0
		if !selfCopy && !dead {
			continue
		}
		dropWrite(fn, id, n)
		dropped[id] = true
	}

	for _, b := range g.Blocks {
		for ai := range b.Actions {
			if dropped[b.Actions[ai].Node] {
				b.Actions[ai].Kind = cfg.ActionOther
			}
		}
	}
}

// dropWrite neutralizes a write found to be a self-copy or dead: a tee
// is replaced by its value node's content, a void write by a Drop of
// its value (mirrors cfg.neutralizeWriteInUnreachable's tee-preserving
// scheme, applied here for coalescing instead of unreachable code).
func dropWrite(fn *ir.Function, id ir.NodeID, n *ir.Node) {
	if n.Tee {
		*n = *fn.Node(n.Value)
		return
	}
	value := n.Value
	*n = ir.Node{Kind: ir.KindDrop, Typ: ir.TypeNone, Value: value, HasSideEffects: fn.Node(value).HasSideEffects}
}
