package ir

import "github.com/xujuntwt95329/binaryen/arena"

// NodeID is a handle into a Function's node arena. It doubles as a
// mutable "pointer-to-node" handle: analyses store NodeIDs in actions
// and rewrite the tree in place by mutating the Node a NodeID
// resolves to, instead of aliasing a raw pointer into a parent's
// child slot.
type NodeID arena.Index

// InvalidNodeID is the zero value of an unset NodeID slot.
const InvalidNodeID NodeID = -1

// Valid reports whether id refers to an allocated node.
func (id NodeID) Valid() bool { return id >= 0 }

// NodeKind tags the union of node shapes this core understands. Everything
// else in a real function body is represented as KindOther, an opaque
// leaf carrying only a type and an externally-supplied side-effect
// profile, the same way wazero's Instruction is one flattened
// struct tagged by Opcode rather than a family of Go types
// (internal/engine/wazevo/ssa/instructions.go).
type NodeKind byte

const (
	KindOther NodeKind = iota
	KindRead
	KindWrite
	KindBlock
	KindLoop
	KindIf
	KindBreak
	KindSwitch
	// KindDrop evaluates Value and discards its result, preserving side
	// effects. The redundant-set eliminator's instrumentation and the
	// coalescer's tee-preserving neutralization both synthesize Drops,
	// so it is a first-class kind rather than an opaque Other leaf.
	KindDrop
)

func (k NodeKind) String() string {
	switch k {
	case KindRead:
		return "Read"
	case KindWrite:
		return "Write"
	case KindBlock:
		return "Block"
	case KindLoop:
		return "Loop"
	case KindIf:
		return "If"
	case KindBreak:
		return "Break"
	case KindSwitch:
		return "Switch"
	case KindDrop:
		return "Drop"
	default:
		return "Other"
	}
}

// Node is the flattened representation of every expression-tree node
// this core can observe or rewrite. Which fields are meaningful
// depends on Kind, exactly as wazero's Instruction documents ("each
// field has different meaning depending on Opcode").
type Node struct {
	Kind NodeKind
	Typ  Type

	// Index is the local slot for KindRead/KindWrite.
	Index int
	// Tee marks a KindWrite that evaluates to its written value rather
	// than void.
	Tee bool
	// Value is the operand written by a KindWrite, or the scrutinee of
	// a KindSwitch.
	Value NodeID

	// Children holds the sequence of a KindBlock's body, or is unused
	// by nodes with dedicated fields below.
	Children []NodeID

	// Cond/Then/Else are used by KindIf. Else may be InvalidNodeID for
	// a then-only If.
	Cond, Then, Else NodeID

	// Body is the loop body for KindLoop, or the block body for
	// KindBlock when Children is not used directly (Block reuses
	// Children; Loop has exactly one child body).
	Body NodeID

	// Target names the enclosing KindBlock/KindLoop a KindBreak exits
	// to (branches to a Loop's Target re-enter at the top, i.e. a
	// back edge; branches to a Block's Target skip to after it).
	Target NodeID
	// BreakCond is the optional condition of a conditional break
	// (InvalidNodeID for an unconditional break, which also means the
	// node unconditionally terminates the block).
	BreakCond NodeID
	// BreakValue is the optional value carried out of a block-typed
	// break (InvalidNodeID when the target type is TypeNone).
	BreakValue NodeID

	// SwitchTargets holds the Break-style arms of a KindSwitch: one
	// NodeID per case plus a trailing default, dispatched on Value.
	SwitchTargets []NodeID

	// Lit is the constant value of a KindOther leaf that is a literal,
	// used by the equivalence engine. Literal.Typ == TypeNone when this
	// Other node is not a recognized literal.
	Lit Literal

	// HasSideEffects is the effect profile an
	// external effect analyzer would compute; stored directly on
	// the node so the default EffectAnalyzer in this package is a
	// pure field read, the same way a real effect analyzer would
	// memoize its answer per node.
	HasSideEffects bool

	// Terminates marks an opaque leaf (KindOther) that unconditionally
	// ends control flow, standing in for Return and Unreachable, which
	// count as block terminators but are otherwise ordinary opaque
	// leaves. A frontend is expected to set this the same way it sets
	// HasSideEffects.
	Terminates bool
}

// IsLiteral reports whether n is a recognized constant leaf.
func (n *Node) IsLiteral() bool {
	return n.Kind == KindOther && n.Lit.Typ != TypeNone
}
