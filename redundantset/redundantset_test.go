package redundantset

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xujuntwt95329/binaryen/ir"
)

// TestRunRemovesSelfAssignment builds p := p (a parameter written back
// its own incoming value with no intervening write) and checks the
// write is recognized as redundant and neutralized into a side-effect
// preserving drop.
func TestRunRemovesSelfAssignment(t *testing.T) {
	f := ir.NewFunction([]ir.Type{ir.TypeI32}, nil)
	b := ir.NewBuilder(f)

	r := b.Read(0, ir.TypeI32)
	w := b.Write(0, r, false)
	f.Body = w

	norm := ir.NewDefaultFallthroughNormalizer()
	removed := Run(f, b, norm)

	require.Equal(t, 1, removed)
	require.Equal(t, ir.KindDrop, f.Node(w).Kind)
	require.Equal(t, r, f.Node(w).Value, "the drop must still evaluate the original read, preserving any side effect")
}

func TestRunKeepsWriteOfADifferentValue(t *testing.T) {
	f := ir.NewFunction([]ir.Type{ir.TypeI32}, nil)
	b := ir.NewBuilder(f)

	litOne := f.NewNode(ir.KindOther)
	f.Node(litOne).Typ = ir.TypeI32
	f.Node(litOne).Lit = ir.Literal{Typ: ir.TypeI32, Bits: 1}

	w := b.Write(0, litOne, false)
	f.Body = w

	norm := ir.NewDefaultFallthroughNormalizer()
	removed := Run(f, b, norm)

	require.Equal(t, 0, removed)
	require.Equal(t, ir.KindWrite, f.Node(w).Kind, "writing a genuinely different value is never redundant")
}

func TestRunRemovesRewriteOfSameReachingValue(t *testing.T) {
	f := ir.NewFunction(nil, []ir.Type{ir.TypeI32})
	b := ir.NewBuilder(f)

	litOneA := f.NewNode(ir.KindOther)
	f.Node(litOneA).Typ = ir.TypeI32
	f.Node(litOneA).Lit = ir.Literal{Typ: ir.TypeI32, Bits: 1}
	litOneB := f.NewNode(ir.KindOther)
	f.Node(litOneB).Typ = ir.TypeI32
	f.Node(litOneB).Lit = ir.Literal{Typ: ir.TypeI32, Bits: 1}

	w1 := b.Write(0, litOneA, false)
	w2 := b.Write(0, litOneB, false)
	f.Body = b.Block(w1, w2)

	norm := ir.NewDefaultFallthroughNormalizer()
	removed := Run(f, b, norm)

	require.Equal(t, 1, removed, "the second write sets the index to the value it already held")
	require.Equal(t, ir.KindDrop, f.Node(w2).Kind)
	require.Equal(t, ir.KindWrite, f.Node(w1).Kind, "the first write still establishes the value and must survive")
}
