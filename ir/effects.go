package ir

// EffectAnalyzer is the consumed black-box predicate: given an
// expression node, answer whether it has side effects, and whether its
// effects invalidate (conflict with) another node's effects. This core
// treats it purely as an external collaborator and only ever calls it
// through this interface.
type EffectAnalyzer interface {
	HasSideEffects(n *Node) bool
	Invalidates(n, other *Node) bool
}

// defaultEffectAnalyzer answers directly from the per-node
// HasSideEffects field set by whatever produced the node (a frontend,
// a test fixture, or the Builder's instrumentation helpers), the way
// a memoizing effect analyzer would report a precomputed answer.
type defaultEffectAnalyzer struct{}

// NewDefaultEffectAnalyzer returns the reference EffectAnalyzer, which
// answers from per-node fields only. A production pass runner would
// substitute a real analyzer that walks arbitrary WebAssembly
// expression subtrees.
func NewDefaultEffectAnalyzer() EffectAnalyzer { return defaultEffectAnalyzer{} }

func (defaultEffectAnalyzer) HasSideEffects(n *Node) bool {
	switch n.Kind {
	case KindWrite:
		return true
	default:
		return n.HasSideEffects
	}
}

// Invalidates reports whether n and other cannot be safely reordered.
// Conservatively: any two side-effecting nodes invalidate each other.
func (defaultEffectAnalyzer) Invalidates(n, other *Node) bool {
	a := defaultEffectAnalyzer{}
	return a.HasSideEffects(n) && a.HasSideEffects(other)
}

// FallthroughNormalizer is the consumed interface that unwraps
// blocks, no-effect sequences, and drops to reveal the operative
// sub-expression. Copy-propagation and the equivalence engine both
// normalize through it before asking "is this value just a Read or a
// tee-Write"; the coalescer's copy-counting inspects values directly.
type FallthroughNormalizer interface {
	UnusedFallthrough(f *Function, id NodeID) NodeID
}

type defaultFallthroughNormalizer struct{}

// NewDefaultFallthroughNormalizer returns the reference normalizer:
// a single-child Block forwards to its normalized child, everything
// else is already operative.
func NewDefaultFallthroughNormalizer() FallthroughNormalizer {
	return defaultFallthroughNormalizer{}
}

func (defaultFallthroughNormalizer) UnusedFallthrough(f *Function, id NodeID) NodeID {
	for id.Valid() {
		n := f.Node(id)
		if n.Kind == KindBlock && len(n.Children) == 1 {
			id = n.Children[0]
			continue
		}
		return id
	}
	return id
}
