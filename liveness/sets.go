package liveness

import (
	"sort"

	"github.com/xujuntwt95329/binaryen/ir"
)

// IndexSet is a set of local indexes. Backed by a map for O(1)
// membership, with Sorted used wherever iteration order feeds a
// rewrite, so results stay deterministic across runs.
type IndexSet map[int]struct{}

func NewIndexSet() IndexSet { return make(IndexSet) }

func (s IndexSet) Clone() IndexSet {
	c := make(IndexSet, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}

func (s IndexSet) Has(i int) bool { _, ok := s[i]; return ok }
func (s IndexSet) Add(i int)      { s[i] = struct{}{} }
func (s IndexSet) Remove(i int)   { delete(s, i) }

// UnionWith merges other into s and reports whether s grew, preserving
// the monotonicity invariant asserted during fixpoint iteration
// (Testable Property #2).
func (s IndexSet) UnionWith(other IndexSet) (grew bool) {
	before := len(s)
	for k := range other {
		s[k] = struct{}{}
	}
	return len(s) > before
}

func (s IndexSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// WriteSet is a set of Write handles (ir.NodeID of KindWrite nodes).
type WriteSet map[ir.NodeID]struct{}

func NewWriteSet() WriteSet { return make(WriteSet) }

func (s WriteSet) Clone() WriteSet {
	c := make(WriteSet, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}

func (s WriteSet) Has(w ir.NodeID) bool { _, ok := s[w]; return ok }
func (s WriteSet) Add(w ir.NodeID)      { s[w] = struct{}{} }

func (s WriteSet) UnionWith(other WriteSet) (grew bool) {
	before := len(s)
	for k := range other {
		s[k] = struct{}{}
	}
	return len(s) > before
}

func (s WriteSet) Sorted() []ir.NodeID {
	out := make([]ir.NodeID, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
