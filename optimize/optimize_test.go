package optimize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xujuntwt95329/binaryen/ir"
	"github.com/xujuntwt95329/binaryen/passrunner"
)

func TestDefaultPipelineOrder(t *testing.T) {
	passes := DefaultPipeline()
	require.Len(t, passes, 3)
	require.Equal(t, "copy-propagation", passes[0].Name())
	require.Equal(t, "coalesce-locals", passes[1].Name())
	require.Equal(t, "redundant-set-elimination", passes[2].Name())
}

// TestRunModuleEndToEnd chains a := p; b := a; return b through the
// full default pipeline: copy propagation rewrites the final read to
// a's index (p has no explicit write, so the default oracle does not
// count it as single-assigned), after which coalescing folds every
// local into the parameter's color, drops both intermediate writes as
// self-copies, and leaves the final read on p's slot; redundant-set
// elimination has nothing left to do.
func TestRunModuleEndToEnd(t *testing.T) {
	f := ir.NewFunction([]ir.Type{ir.TypeI32}, []ir.Type{ir.TypeI32, ir.TypeI32})
	b := ir.NewBuilder(f)

	wa := b.Write(1, b.Read(0, ir.TypeI32), false)
	wb := b.Write(2, b.Read(1, ir.TypeI32), false)
	finalRead := b.Read(2, ir.TypeI32)
	f.Body = b.Block(wa, wb, b.Drop(finalRead))

	funcs := []passrunner.NamedFunction{{Name: "f", Fn: f}}
	err := RunModule(funcs, passrunner.Options{})
	require.NoError(t, err)

	require.Equal(t, 0, f.Node(finalRead).Index, "the whole copy chain collapses onto the parameter's slot")
}
