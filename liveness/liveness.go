// Package liveness computes two dataflows: backward index liveness
// (which local indexes may be read before being overwritten) and
// forward write liveness (which concrete Write actions may still be
// the reaching definition). Grounded on the
// liveIns/liveOuts/defs/lastUses per-block maps in wazero's
// internal/engine/wazevo/backend/regalloc (computeLive and friends),
// adapted from real-register liveness to local-index liveness and
// split into the two-stage pipeline the spec requires.
package liveness

import (
	"fmt"

	"github.com/xujuntwt95329/binaryen/cfg"
	"github.com/xujuntwt95329/binaryen/diag"
)

// BlockState holds the four liveness sets tracked per block: index
// liveness and write liveness, each at block entry and block exit.
type BlockState struct {
	StartIndexes, EndIndexes IndexSet
	StartWrites, EndWrites   WriteSet
}

// Result is the liveness state for every block of a Graph, indexed by
// BasicBlock.ID.
type Result struct {
	Blocks []BlockState
}

func (r *Result) At(blockID int) *BlockState { return &r.Blocks[blockID] }

// Compute runs both dataflows over g and returns the per-block result.
func Compute(g *cfg.Graph) *Result {
	r := &Result{Blocks: make([]BlockState, len(g.Blocks))}
	for _, id := range g.LiveBlocks() {
		r.Blocks[id] = BlockState{
			StartIndexes: NewIndexSet(),
			EndIndexes:   NewIndexSet(),
			StartWrites:  NewWriteSet(),
			EndWrites:    NewWriteSet(),
		}
	}
	computeIndexLiveness(g, r)
	computeWriteLiveness(g, r)
	return r
}

// scanIndexesBackward recomputes startIndexes for a block given its
// current endIndexes, by scanning actions in reverse: a Read adds its
// index (it is live going backward across this point), a Write
// removes it (the value is produced here, so nothing before this
// point needs it live on this account).
func scanIndexesBackward(b *cfg.BasicBlock, end IndexSet) IndexSet {
	start := end.Clone()
	for i := len(b.Actions) - 1; i >= 0; i-- {
		a := b.Actions[i]
		switch a.Kind {
		case cfg.ActionRead:
			start.Add(a.Index)
		case cfg.ActionWrite:
			start.Remove(a.Index)
		}
	}
	return start
}

func computeIndexLiveness(g *cfg.Graph, r *Result) {
	live := g.LiveBlocks()
	for _, id := range live {
		b := g.Block(id)
		st := r.At(id)
		st.StartIndexes = scanIndexesBackward(b, NewIndexSet())
	}

	queue := append([]int(nil), live...)
	queued := make(map[int]bool, len(live))
	for _, id := range live {
		queued[id] = true
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		queued[id] = false

		b := g.Block(id)
		st := r.At(id)

		newEnd := NewIndexSet()
		for _, e := range b.Succs {
			newEnd.UnionWith(r.At(e.To).StartIndexes)
		}

		if len(newEnd) == len(st.EndIndexes) {
			// No growth: union only ever adds elements, so equal size
			// after re-deriving means no change at all.
			continue
		}
		if diag.LivenessValidationEnabled {
			diag.Assert(len(newEnd) >= len(st.EndIndexes), "computeIndexLiveness",
				"endIndexes shrank for block %d", id)
		}
		st.EndIndexes = newEnd

		newStart := scanIndexesBackward(b, st.EndIndexes)
		if diag.LivenessValidationEnabled {
			diag.Assert(len(newStart) >= len(st.StartIndexes), "computeIndexLiveness",
				"startIndexes shrank for block %d", id)
		}
		grew := len(newStart) > len(st.StartIndexes)
		st.StartIndexes = newStart
		if diag.LivenessLoggingEnabled {
			fmt.Printf("liveness: block %d end=%v start=%v\n", id, st.EndIndexes.Sorted(), st.StartIndexes.Sorted())
		}

		if grew {
			for _, e := range b.Preds {
				if !queued[e.To] {
					queue = append(queue, e.To)
					queued[e.To] = true
				}
			}
		}
	}
}

// writesInBlock returns the set of indexes written anywhere in b and,
// per index, the position in b.Actions of its last write.
func writesInBlock(b *cfg.BasicBlock) (written IndexSet, latest map[int]int) {
	written = NewIndexSet()
	latest = make(map[int]int)
	for i, a := range b.Actions {
		if a.Kind == cfg.ActionWrite {
			written.Add(a.Index)
			latest[a.Index] = i
		}
	}
	return
}

func computeWriteLiveness(g *cfg.Graph, r *Result) {
	live := g.LiveBlocks()

	written := make(map[int]IndexSet, len(live))
	latestIdx := make(map[int]map[int]int, len(live))
	for _, id := range live {
		w, l := writesInBlock(g.Block(id))
		written[id] = w
		latestIdx[id] = l
	}

	queue := append([]int(nil), live...)
	queued := make(map[int]bool, len(live))
	for _, id := range live {
		queued[id] = true
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		queued[id] = false

		b := g.Block(id)
		st := r.At(id)

		newEnd := NewWriteSet()
		for idx := range written[id] {
			if st.EndIndexes.Has(idx) {
				li := latestIdx[id][idx]
				newEnd.Add(b.Actions[li].Node)
			}
		}
		for w := range st.StartWrites {
			wIdx := g.Func.Node(w).Index
			if st.EndIndexes.Has(wIdx) && !written[id].Has(wIdx) {
				newEnd.Add(w)
			}
		}
		st.EndWrites = newEnd

		for _, e := range b.Succs {
			succSt := r.At(e.To)
			cand := NewWriteSet()
			for w := range newEnd {
				wIdx := g.Func.Node(w).Index
				// Live at the successor's start: it is read there before
				// any overwrite, or passes through it.
				if succSt.StartIndexes.Has(wIdx) {
					cand.Add(w)
				}
			}
			if succSt.StartWrites.UnionWith(cand) {
				if !queued[e.To] {
					queue = append(queue, e.To)
					queued[e.To] = true
				}
			}
		}
	}
}
