package ir

import "github.com/xujuntwt95329/binaryen/arena"

// Function is the per-function owner of the expression tree this core
// optimizes: an ordered sequence of parameter slots followed by
// declared variable slots, plus the arena that owns every Node
// reachable from Body.
//
// A Function is created per compilation of one function body and
// discarded afterward; analysis structures built against it (CFG,
// liveness, equivalence, interference) must not outlive it.
type Function struct {
	// ParamTypes has one entry per parameter; parameters always occupy
	// indices [0, len(ParamTypes)).
	ParamTypes []Type
	// LocalTypes has one entry per declared variable, indices starting
	// at len(ParamTypes).
	LocalTypes []Type

	Body NodeID

	nodes arena.Pool[Node]
}

// NumParams returns the parameter count P; indices [0,P) are fixed in
// place by the coalescer.
func (f *Function) NumParams() int { return len(f.ParamTypes) }

// NumLocals returns the total slot count (parameters + declared vars).
func (f *Function) NumLocals() int { return len(f.ParamTypes) + len(f.LocalTypes) }

// TypeOf returns the declared type of local index idx.
func (f *Function) TypeOf(idx int) Type {
	if idx < len(f.ParamTypes) {
		return f.ParamTypes[idx]
	}
	return f.LocalTypes[idx-len(f.ParamTypes)]
}

// Node resolves a NodeID to its mutable Node. The returned pointer is
// a stable "pointer-to-node" handle and remains valid for the
// Function's lifetime (arena pages are never compacted mid-function).
func (f *Function) Node(id NodeID) *Node {
	return f.nodes.View(arena.Index(id))
}

// NewNode allocates a zero-valued node of the given kind and returns
// its handle.
func (f *Function) NewNode(kind NodeKind) NodeID {
	idx := f.nodes.Allocate()
	id := NodeID(idx)
	n := f.Node(id)
	n.Kind = kind
	// Not a literal unless the caller sets Lit explicitly.
	n.Lit = Literal{Typ: TypeNone}
	return id
}

// NumNodes returns how many nodes have been allocated in this
// function's arena, used by passes that need a dense per-node scratch
// array (e.g. the InstructionGroupID-style bookkeeping a real pass
// would want).
func (f *Function) NumNodes() int { return f.nodes.Allocated() }

// NewFunction constructs an empty function with the given signature.
// Body must be assigned by the caller (typically via Builder) before
// the function is handed to the CFG builder.
func NewFunction(paramTypes, localTypes []Type) *Function {
	return &Function{
		ParamTypes: paramTypes,
		LocalTypes: localTypes,
		Body:       InvalidNodeID,
		nodes:      arena.NewPool[Node](),
	}
}
