package singleassign

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xujuntwt95329/binaryen/cfg"
	"github.com/xujuntwt95329/binaryen/ir"
	"github.com/xujuntwt95329/binaryen/liveness"
	"github.com/xujuntwt95329/binaryen/setreach"
)

func TestBuildClassifiesByStaticWriteCount(t *testing.T) {
	f := ir.NewFunction(nil, []ir.Type{ir.TypeI32, ir.TypeI32})
	b := ir.NewBuilder(f)

	single := b.Write(0, b.ZeroLiteral(ir.TypeI32), false)
	double1 := b.Write(1, b.ZeroLiteral(ir.TypeI32), false)
	double2 := b.Write(1, b.ZeroLiteral(ir.TypeI32), false)
	f.Body = b.Block(single, double1, double2)

	g := cfg.Build(f)
	lr := liveness.Compute(g)
	sr := setreach.Build(g, lr)
	oracle := Build(f, sr)

	require.True(t, oracle.IsSingleAssigned(0))
	require.False(t, oracle.IsSingleAssigned(1))
}

func TestBuildUnwrittenIndexIsNotSingleAssigned(t *testing.T) {
	f := ir.NewFunction([]ir.Type{ir.TypeI32}, nil)
	b := ir.NewBuilder(f)
	f.Body = b.Drop(b.Read(0, ir.TypeI32))

	g := cfg.Build(f)
	lr := liveness.Compute(g)
	sr := setreach.Build(g, lr)
	oracle := Build(f, sr)

	require.False(t, oracle.IsSingleAssigned(0), "a parameter with zero explicit writes fails the static-write-count test")
}

func TestReachingWritesAndInfluencesDelegate(t *testing.T) {
	f := ir.NewFunction(nil, []ir.Type{ir.TypeI32})
	b := ir.NewBuilder(f)

	w := b.Write(0, b.ZeroLiteral(ir.TypeI32), false)
	r := b.Read(0, ir.TypeI32)
	f.Body = b.Block(w, b.Drop(r))

	g := cfg.Build(f)
	lr := liveness.Compute(g)
	sr := setreach.Build(g, lr)
	oracle := Build(f, sr)

	require.Equal(t, []ir.NodeID{w}, oracle.ReachingWrites(r))
	require.Equal(t, []ir.NodeID{r}, oracle.Influences(w))
}
