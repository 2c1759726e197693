package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolAllocateAcrossPages(t *testing.T) {
	p := NewPool[int]()
	var last Index
	for i := 0; i < pageSize*2+5; i++ {
		last = p.Allocate()
		*p.View(last) = i
	}
	require.Equal(t, pageSize*2+5, p.Allocated())
	require.Equal(t, pageSize*2+4, *p.View(last))
}

func TestPoolViewIsStable(t *testing.T) {
	p := NewPool[string]()
	a := p.Allocate()
	*p.View(a) = "alpha"
	b := p.Allocate()
	*p.View(b) = "beta"

	require.Equal(t, "alpha", *p.View(a))
	require.Equal(t, "beta", *p.View(b))
}

func TestPoolReset(t *testing.T) {
	p := NewPool[int]()
	p.Allocate()
	p.Allocate()
	require.Equal(t, 2, p.Allocated())

	p.Reset()
	require.Equal(t, 0, p.Allocated())

	idx := p.Allocate()
	require.Equal(t, 0, int(idx))
}
