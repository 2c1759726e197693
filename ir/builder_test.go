package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderWriteTeeType(t *testing.T) {
	f := NewFunction([]Type{TypeI32}, []Type{TypeI32})
	b := NewBuilder(f)

	r := b.Read(0, TypeI32)
	tee := b.Write(1, r, true)
	void := b.Write(1, r, false)

	require.Equal(t, TypeI32, f.Node(tee).Typ)
	require.Equal(t, TypeNone, f.Node(void).Typ)
}

func TestBuilderBlockTypeIsLastChild(t *testing.T) {
	f := NewFunction(nil, []Type{TypeI64})
	b := NewBuilder(f)

	drop := b.Drop(b.ZeroLiteral(TypeI32))
	read := b.Read(0, TypeI64)
	block := b.Block(drop, read)

	require.Equal(t, TypeI64, f.Node(block).Typ)

	empty := b.Block()
	require.Equal(t, TypeNone, f.Node(empty).Typ)
}

func TestBuilderDropCarriesSideEffects(t *testing.T) {
	f := NewFunction(nil, []Type{TypeI32})
	b := NewBuilder(f)

	v := b.Placeholder(TypeI32)
	f.Node(v).HasSideEffects = true

	d := b.Drop(v)
	require.True(t, f.Node(d).HasSideEffects)
}

func TestFallthroughNormalizerUnwrapsSingleChildBlocks(t *testing.T) {
	f := NewFunction(nil, []Type{TypeI32})
	b := NewBuilder(f)
	norm := NewDefaultFallthroughNormalizer()

	read := b.Read(0, TypeI32)
	wrapped := b.Block(b.Block(b.Block(read)))

	require.Equal(t, read, norm.UnusedFallthrough(f, wrapped))
}

func TestPrependInits(t *testing.T) {
	f := NewFunction([]Type{TypeI32}, []Type{TypeI64})
	b := NewBuilder(f)
	f.Body = b.Read(0, TypeI32)

	scoped := PrependInits(f, b)
	n := f.Node(scoped.Body)
	require.Equal(t, KindBlock, n.Kind)
	require.Len(t, n.Children, 3) // param init, local init, original body

	paramInit := f.Node(n.Children[0])
	require.Equal(t, KindWrite, paramInit.Kind)
	require.Equal(t, 0, paramInit.Index)

	localInit := f.Node(n.Children[1])
	require.Equal(t, KindWrite, localInit.Kind)
	require.Equal(t, 1, localInit.Index)
	require.True(t, f.Node(localInit.Value).IsLiteral())

	require.Equal(t, f.Body, n.Children[2])

	require.Equal(t, InvalidNodeID, scoped.ZeroInits[0], "parameter slots have no zero-init entry")
	require.Equal(t, n.Children[1], scoped.ZeroInits[1], "local slot 1's zero-init entry names the synthesized write")
}
