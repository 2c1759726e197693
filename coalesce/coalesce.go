package coalesce

import (
	"github.com/xujuntwt95329/binaryen/cfg"
	"github.com/xujuntwt95329/binaryen/interference"
	"github.com/xujuntwt95329/binaryen/ir"
	"github.com/xujuntwt95329/binaryen/liveness"
	"github.com/xujuntwt95329/binaryen/setreach"
)

// Run drives the full coalescer over fn: builds the interference graph
// under the scoped parameter/zero-init transformation, counts copy
// affinities, picks the best index permutation via the deterministic
// and genetic order searches, and rewrites the tree in place.
func Run(fn *ir.Function, b ir.Builder, norm ir.FallthroughNormalizer) Coloring {
	g := cfg.Build(fn)
	lr := liveness.Compute(g)
	sr := setreach.Build(g, lr)

	interf := interference.Build(fn, b, norm)

	numLocals := fn.NumLocals()
	numParams := fn.NumParams()

	types := make([]ir.Type, numLocals)
	for i := range types {
		types[i] = fn.TypeOf(i)
	}

	weights := CountCopies(fn, g)
	best, _ := SearchOrders(numLocals, numParams, types, interf, weights)
	Rewrite(fn, g, sr, best.ColorOf)
	return best
}
