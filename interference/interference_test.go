package interference

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xujuntwt95329/binaryen/ir"
)

func TestSimultaneouslyLiveWritesInterfere(t *testing.T) {
	f := ir.NewFunction(nil, []ir.Type{ir.TypeI32, ir.TypeI32})
	b := ir.NewBuilder(f)

	litZero := b.ZeroLiteral(ir.TypeI32)
	litOne := f.NewNode(ir.KindOther)
	f.Node(litOne).Typ = ir.TypeI32
	f.Node(litOne).Lit = ir.Literal{Typ: ir.TypeI32, Bits: 1}

	wa := b.Write(0, litZero, false)
	wb := b.Write(1, litOne, false)
	ra := b.Drop(b.Read(0, ir.TypeI32))
	rb := b.Drop(b.Read(1, ir.TypeI32))
	f.Body = b.Block(wa, wb, ra, rb)

	norm := ir.NewDefaultFallthroughNormalizer()
	g := Build(f, b, norm)

	require.True(t, g.Interferes(0, 1), "both values must stay live across each other's read")
}

// TestImplicitZeroInitWithConsumingReadForcedAgainstParam declares a
// variable that relies entirely on its implicit zero-initialization
// (never explicitly written before its read), so the only reaching
// write is the synthesized one PrependInits adds. That write must be
// forced against every parameter.
func TestImplicitZeroInitWithConsumingReadForcedAgainstParam(t *testing.T) {
	f := ir.NewFunction([]ir.Type{ir.TypeI32}, []ir.Type{ir.TypeI32})
	b := ir.NewBuilder(f)

	use := b.Drop(b.Read(1, ir.TypeI32))
	f.Body = use

	norm := ir.NewDefaultFallthroughNormalizer()
	g := Build(f, b, norm)

	require.True(t, g.Interferes(0, 1), "an implicitly zero-initialized variable may never share storage with a parameter")
}

// TestUnusedImplicitZeroInitIsNotForced declares a variable that is
// never read at all, so its synthesized zero-init write has no
// consuming read and carries nothing to protect.
func TestUnusedImplicitZeroInitIsNotForced(t *testing.T) {
	f := ir.NewFunction([]ir.Type{ir.TypeI32}, []ir.Type{ir.TypeI32})
	b := ir.NewBuilder(f)

	f.Body = b.Drop(b.Read(0, ir.TypeI32))

	norm := ir.NewDefaultFallthroughNormalizer()
	g := Build(f, b, norm)

	require.False(t, g.Interferes(0, 1), "a zero-init with no consuming read carries nothing to protect")
}

// TestExplicitZeroWriteIsNotForcedAgainstParam covers the narrow case
// the forced edge must not over-apply to: a declared variable that is
// always explicitly written before any read (v := 0; use(v)) never
// goes through the synthesized zero-init at all, so it is free to
// coalesce with a parameter like any other write.
func TestExplicitZeroWriteIsNotForcedAgainstParam(t *testing.T) {
	f := ir.NewFunction([]ir.Type{ir.TypeI32}, []ir.Type{ir.TypeI32})
	b := ir.NewBuilder(f)

	w := b.Write(1, b.ZeroLiteral(ir.TypeI32), false)
	use := b.Drop(b.Read(1, ir.TypeI32))
	f.Body = b.Block(w, use)

	norm := ir.NewDefaultFallthroughNormalizer()
	g := Build(f, b, norm)

	require.False(t, g.Interferes(0, 1), "an explicit write that always precedes the read never touches the synthesized zero-init")
}
