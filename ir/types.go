package ir

// Type is the value type of a local slot or an expression result,
// mirroring the small closed set of WebAssembly value types that
// matter to this core. Named and enumerated the way wazero's
// wazeroir.UnsignedType enumerates the types it cares about
// (internal/wazeroir/operations.go).
type Type byte

const (
	TypeI32 Type = iota
	TypeI64
	TypeF32
	TypeF64
	// TypeNone is the type of a Write that is not a tee (evaluates to void).
	TypeNone
)

func (t Type) String() string {
	switch t {
	case TypeI32:
		return "i32"
	case TypeI64:
		return "i64"
	case TypeF32:
		return "f32"
	case TypeF64:
		return "f64"
	case TypeNone:
		return "none"
	default:
		return "unknown"
	}
}

// ZeroLiteral is the value the engine treats as the zero-initialization
// of a declared local of type t: every declared local is pre-seeded
// with the type-appropriate zero for its scalar type.
type ZeroLiteral struct {
	Typ Type
}

// Literal is a constant value observed as the value of a Write. Two
// Literals are the same constant iff Typ and Bits match; Bits holds
// the raw value reinterpreted as an unsigned integer of the type's
// width (float bits included), so literal identity is just equality,
// the same trick wazero's ssa package uses for Instruction.u64.
type Literal struct {
	Typ  Type
	Bits uint64
}
