package setreach

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xujuntwt95329/binaryen/cfg"
	"github.com/xujuntwt95329/binaryen/ir"
	"github.com/xujuntwt95329/binaryen/liveness"
)

func TestBuildSingleReach(t *testing.T) {
	f := ir.NewFunction(nil, []ir.Type{ir.TypeI32})
	b := ir.NewBuilder(f)

	w := b.Write(0, b.ZeroLiteral(ir.TypeI32), false)
	r := b.Read(0, ir.TypeI32)
	f.Body = b.Block(w, b.Drop(r))

	g := cfg.Build(f)
	lr := liveness.Compute(g)
	sr := Build(g, lr)

	reaching := sr.ReachingWrites(r)
	require.Len(t, reaching, 1)
	require.True(t, reaching.Has(w))
	require.ElementsMatch(t, []ir.NodeID{r}, sr.Influenced(w))
}

func TestBuildEmptyReachBeforeAnyWrite(t *testing.T) {
	f := ir.NewFunction([]ir.Type{ir.TypeI32}, nil)
	b := ir.NewBuilder(f)

	r := b.Read(0, ir.TypeI32)
	f.Body = b.Drop(r)

	g := cfg.Build(f)
	lr := liveness.Compute(g)
	sr := Build(g, lr)

	require.Empty(t, sr.ReachingWrites(r), "nothing has written index 0 yet, only implicit initialization reaches")
}

func TestBuildDiamondConfluence(t *testing.T) {
	f := ir.NewFunction(nil, []ir.Type{ir.TypeI32})
	b := ir.NewBuilder(f)

	ifNode := f.NewNode(ir.KindIf)
	cond := b.ZeroLiteral(ir.TypeI32)
	thenWrite := b.Write(0, b.ZeroLiteral(ir.TypeI32), false)
	elseWrite := b.Write(0, b.ZeroLiteral(ir.TypeI32), false)
	n := f.Node(ifNode)
	n.Cond, n.Then, n.Else, n.Typ = cond, thenWrite, elseWrite, ir.TypeNone

	afterRead := b.Read(0, ir.TypeI32)
	f.Body = b.Block(ifNode, b.Drop(afterRead))

	g := cfg.Build(f)
	lr := liveness.Compute(g)
	sr := Build(g, lr)

	reaching := sr.ReachingWrites(afterRead)
	require.Len(t, reaching, 2, "both branch writes must reach the post-if read")
	require.True(t, reaching.Has(thenWrite))
	require.True(t, reaching.Has(elseWrite))
}
