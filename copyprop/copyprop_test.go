package copyprop

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xujuntwt95329/binaryen/cfg"
	"github.com/xujuntwt95329/binaryen/ir"
	"github.com/xujuntwt95329/binaryen/liveness"
	"github.com/xujuntwt95329/binaryen/setreach"
	"github.com/xujuntwt95329/binaryen/singleassign"
)

// TestRunFollowsChainToMinimumIndex builds a := p; b := a; c := b; return c
// and checks that the read of c is rewritten all the way back to a, the
// minimum index reachable through single-assignment copies (p itself is
// not single-assigned by the default oracle, so the chain stops there).
func TestRunFollowsChainToMinimumIndex(t *testing.T) {
	f := ir.NewFunction([]ir.Type{ir.TypeI32}, []ir.Type{ir.TypeI32, ir.TypeI32, ir.TypeI32})
	b := ir.NewBuilder(f)

	wa := b.Write(1, b.Read(0, ir.TypeI32), false)
	wb := b.Write(2, b.Read(1, ir.TypeI32), false)
	wc := b.Write(3, b.Read(2, ir.TypeI32), false)
	finalRead := b.Read(3, ir.TypeI32)
	f.Body = b.Block(wa, wb, wc, b.Drop(finalRead))

	g := cfg.Build(f)
	lr := liveness.Compute(g)
	sr := setreach.Build(g, lr)
	norm := ir.NewDefaultFallthroughNormalizer()
	oracle := singleassign.Build(f, sr)

	Run(f, sr, norm, oracle)

	require.Equal(t, 1, f.Node(finalRead).Index, "the chain resolves to a's index, p being excluded as not single-assigned")
}

func TestRunLeavesMultiplyAssignedChainsAlone(t *testing.T) {
	f := ir.NewFunction(nil, []ir.Type{ir.TypeI32, ir.TypeI32})
	b := ir.NewBuilder(f)

	w1 := b.Write(0, b.ZeroLiteral(ir.TypeI32), false)
	w2 := b.Write(0, b.ZeroLiteral(ir.TypeI32), false)
	wb := b.Write(1, b.Read(0, ir.TypeI32), false)
	finalRead := b.Read(1, ir.TypeI32)
	f.Body = b.Block(w1, w2, wb, b.Drop(finalRead))

	g := cfg.Build(f)
	lr := liveness.Compute(g)
	sr := setreach.Build(g, lr)
	norm := ir.NewDefaultFallthroughNormalizer()
	oracle := singleassign.Build(f, sr)

	Run(f, sr, norm, oracle)

	require.Equal(t, 1, f.Node(finalRead).Index, "index 0 is written twice, so the chain must not be followed through it")
}
