// Package redundantset implements a redundant-set eliminator:
// instrument every Write to expose the value it is about to
// overwrite as a synthesized Read, use the set-reaches-use and
// equivalence engines to learn whether that predecessor value already
// equals the value being written, and delete the writes that turn out
// to be no-ops. Grounded on the same instrument/analyze/revert shape
// wazero's ssa optimization passes use around a temporary scratch
// arena (pass.go's per-pass analysis cache, released once the pass
// commits its rewrite).
package redundantset

import (
	"github.com/xujuntwt95329/binaryen/cfg"
	"github.com/xujuntwt95329/binaryen/equivalence"
	"github.com/xujuntwt95329/binaryen/ir"
	"github.com/xujuntwt95329/binaryen/liveness"
	"github.com/xujuntwt95329/binaryen/setreach"
)

type instrumentation struct {
	original  map[ir.NodeID]ir.Node
	innerRead map[ir.NodeID]ir.NodeID
}

// instrumentWrites rewrites every Write(index, value) into
// Write(index, Block[Drop(value), Read(index)]) in place, recording
// enough to revert or finalize each one afterward.
func instrumentWrites(fn *ir.Function, b ir.Builder, writeIDs []ir.NodeID) *instrumentation {
	inst := &instrumentation{
		original:  make(map[ir.NodeID]ir.Node, len(writeIDs)),
		innerRead: make(map[ir.NodeID]ir.NodeID, len(writeIDs)),
	}
	for _, id := range writeIDs {
		w := fn.Node(id)
		inst.original[id] = *w

		originalValue := w.Value
		valType := fn.Node(originalValue).Typ
		innerRead := b.Read(w.Index, valType)
		dropNode := b.Drop(originalValue)
		blockNode := b.Block(dropNode, innerRead)

		w.Value = blockNode
		inst.innerRead[id] = innerRead
	}
	return inst
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

// Run eliminates writes of fn proven redundant and reports how many
// were removed.
func Run(fn *ir.Function, b ir.Builder, norm ir.FallthroughNormalizer) int {
	g0 := cfg.Build(fn)
	lr0 := liveness.Compute(g0)
	sr0 := setreach.Build(g0, lr0)
	eq0 := equivalence.Build(fn, sr0, norm)

	writeIDs := collectWrites(fn)
	inst := instrumentWrites(fn, b, writeIDs)

	gInst := cfg.Build(fn)
	lrInst := liveness.Compute(gInst)
	srInst := setreach.Build(gInst, lrInst)

	unneeded := make(map[ir.NodeID]bool)
	for _, id := range writeIDs {
		innerRead := inst.innerRead[id]
		reaching := srInst.ReachingWrites(innerRead)

		class, ok := predecessorClass(eq0, reaching, fn.Node(innerRead).Typ)
		if !ok {
			continue
		}
		if eq0.ClassOf(id) == class {
			unneeded[id] = true
		}
	}

	removed := 0
	for _, id := range writeIDs {
		orig := inst.original[id]
		n := fn.Node(id)
		if unneeded[id] {
			finalizeRemoved(fn, n, orig)
			removed++
			continue
		}
		*n = orig
	}
	return removed
}

// predecessorClass determines the equivalence class a write's prior
// value belongs to: the class of the single reaching write, or of the
// mutually-equivalent reaching writes, or the zero class when nothing
// reaches.
func predecessorClass(eq *equivalence.Graph, reaching liveness.WriteSet, typ ir.Type) (int, bool) {
	switch len(reaching) {
	case 0:
		return eq.ZeroClass(typ), true
	case 1:
		for w := range reaching {
			return eq.ClassOf(w), true
		}
	default:
		var first ir.NodeID
		seenFirst := false
		for w := range reaching {
			if !seenFirst {
				first = w
				seenFirst = true
				continue
			}
			if !eq.SameClass(first, w) {
				return 0, false
			}
		}
		return eq.ClassOf(first), true
	}
	return 0, false
}

// finalizeRemoved replaces an unneeded write with a Drop of its
// original value (void writes) or the value itself (tee writes),
// mirroring the same tee-preserving neutralization used by the
// coalescer's dead-write sweep.
func finalizeRemoved(fn *ir.Function, n *ir.Node, orig ir.Node) {
	if orig.Tee {
		*n = *fn.Node(orig.Value)
		return
	}
	*n = ir.Node{Kind: ir.KindDrop, Typ: ir.TypeNone, Value: orig.Value, HasSideEffects: fn.Node(orig.Value).HasSideEffects}
}
