// Package optimize wires the core components into the pass-runner
// contract: one Pass implementation per mutating stage, assembled
// into the default pipeline order that exploits each stage for the
// next — propagate copies first so coalescing sees fewer live
// ranges, coalesce locals next, then eliminate whatever redundant sets
// coalescing exposed.
package optimize

import (
	"github.com/xujuntwt95329/binaryen/cfg"
	"github.com/xujuntwt95329/binaryen/coalesce"
	"github.com/xujuntwt95329/binaryen/copyprop"
	"github.com/xujuntwt95329/binaryen/ir"
	"github.com/xujuntwt95329/binaryen/liveness"
	"github.com/xujuntwt95329/binaryen/passrunner"
	"github.com/xujuntwt95329/binaryen/redundantset"
	"github.com/xujuntwt95329/binaryen/setreach"
	"github.com/xujuntwt95329/binaryen/singleassign"
)

// CopyPropPass runs the copy propagator.
type CopyPropPass struct{}

func (CopyPropPass) Name() string            { return "copy-propagation" }
func (CopyPropPass) IsFunctionParallel() bool { return true }
func (CopyPropPass) Run(fn *ir.Function) error {
	g := cfg.Build(fn)
	lr := liveness.Compute(g)
	sr := setreach.Build(g, lr)
	norm := ir.NewDefaultFallthroughNormalizer()
	oracle := singleassign.Build(fn, sr)
	copyprop.Run(fn, sr, norm, oracle)
	return nil
}

// CoalescePass runs the local-coalescing allocator.
type CoalescePass struct{}

func (CoalescePass) Name() string            { return "coalesce-locals" }
func (CoalescePass) IsFunctionParallel() bool { return true }
func (CoalescePass) Run(fn *ir.Function) error {
	b := ir.NewBuilder(fn)
	norm := ir.NewDefaultFallthroughNormalizer()
	coalesce.Run(fn, b, norm)
	return nil
}

// RedundantSetPass runs the redundant-set eliminator.
type RedundantSetPass struct{}

func (RedundantSetPass) Name() string             { return "redundant-set-elimination" }
func (RedundantSetPass) IsFunctionParallel() bool { return true }
func (RedundantSetPass) Run(fn *ir.Function) error {
	b := ir.NewBuilder(fn)
	norm := ir.NewDefaultFallthroughNormalizer()
	redundantset.Run(fn, b, norm)
	return nil
}

// DefaultPipeline returns the three mutating passes in the order their
// rationale sections imply.
func DefaultPipeline() []passrunner.Pass {
	return []passrunner.Pass{
		CopyPropPass{},
		CoalescePass{},
		RedundantSetPass{},
	}
}

// RunModule runs DefaultPipeline across funcs using opts.
func RunModule(funcs []passrunner.NamedFunction, opts passrunner.Options) error {
	return passrunner.RunPipeline(funcs, DefaultPipeline(), opts)
}
