package ir

// Builder exposes the factory operations for Read, Write, Drop, Block,
// typed zero literals, and placeholder calls. It is the
// Function-scoped analogue of wazero's
// ssa.Builder, which likewise exposes allocation-style factories
// (AllocateInstruction, AllocateBasicBlock) rather than letting callers
// construct nodes by hand.
//
// Out of scope components (the serializer, the full expression
// language) never need more than this to synthesize the handful of
// shapes the core itself introduces during instrumentation.
type Builder interface {
	Read(index int, typ Type) NodeID
	Write(index int, value NodeID, tee bool) NodeID
	Drop(value NodeID) NodeID
	Block(children ...NodeID) NodeID
	ZeroLiteral(typ Type) NodeID
	// Placeholder returns an opaque, side-effect-free leaf of type typ
	// standing in for a value this core does not otherwise model (used
	// to seed the scoped parameter-initialization transform PrependInits
	// builds).
	Placeholder(typ Type) NodeID
}

// funcBuilder is the default Builder backed directly by a Function's
// node arena.
type funcBuilder struct {
	f *Function
}

// NewBuilder returns the default Builder for f.
func NewBuilder(f *Function) Builder {
	return &funcBuilder{f: f}
}

func (b *funcBuilder) Read(index int, typ Type) NodeID {
	id := b.f.NewNode(KindRead)
	n := b.f.Node(id)
	n.Index = index
	n.Typ = typ
	return id
}

func (b *funcBuilder) Write(index int, value NodeID, tee bool) NodeID {
	id := b.f.NewNode(KindWrite)
	n := b.f.Node(id)
	n.Index = index
	n.Value = value
	n.Tee = tee
	if tee {
		n.Typ = b.f.Node(value).Typ
	} else {
		n.Typ = TypeNone
	}
	return id
}

func (b *funcBuilder) Drop(value NodeID) NodeID {
	id := b.f.NewNode(KindDrop)
	n := b.f.Node(id)
	n.Value = value
	n.Typ = TypeNone
	n.HasSideEffects = b.f.Node(value).HasSideEffects
	return id
}

func (b *funcBuilder) Block(children ...NodeID) NodeID {
	id := b.f.NewNode(KindBlock)
	n := b.f.Node(id)
	n.Children = append([]NodeID(nil), children...)
	if len(children) > 0 {
		n.Typ = b.f.Node(children[len(children)-1]).Typ
	} else {
		n.Typ = TypeNone
	}
	return id
}

func (b *funcBuilder) ZeroLiteral(typ Type) NodeID {
	id := b.f.NewNode(KindOther)
	n := b.f.Node(id)
	n.Typ = typ
	n.Lit = Literal{Typ: typ, Bits: 0}
	return id
}

func (b *funcBuilder) Placeholder(typ Type) NodeID {
	id := b.f.NewNode(KindOther)
	n := b.f.Node(id)
	n.Typ = typ
	return id
}
