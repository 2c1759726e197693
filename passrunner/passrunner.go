// Package passrunner implements the pass-runner contract and its
// concurrency model: a bounded goroutine pool fans each pass out
// across a module's functions, one function owned exclusively by one
// goroutine for the pass's duration. Grounded on the
// WaitGroup/bounded-channel fan-out pattern wazero uses to instantiate
// multiple module instances concurrently, adapted here to drive
// optimization passes instead of instantiation.
package passrunner

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/xujuntwt95329/binaryen/ir"
)

// Pass is the contract every optimization pass exports: a
// human-readable name, whether it may run concurrently across
// functions, and the entry point itself.
type Pass interface {
	Name() string
	IsFunctionParallel() bool
	Run(fn *ir.Function) error
}

// Options configures a RunModule invocation.
type Options struct {
	// Parallelism bounds the worker pool size for function-parallel
	// passes. Zero means runtime.GOMAXPROCS(0).
	Parallelism int
	// UseCounter is the preallocated atomic counter a
	// function-reordering-style pass may touch as its one piece of
	// shared mutable state; it is threaded explicitly rather than held
	// as a package global.
	UseCounter *atomic.Uint64
}

// PassError identifies which function a pass failed on, so the
// pipeline can abort with a diagnostic that names the function.
type PassError struct {
	Pass         string
	FunctionName string
	Err          error
}

func (e *PassError) Error() string {
	return fmt.Sprintf("pass %q failed on function %q: %v", e.Pass, e.FunctionName, e.Err)
}

func (e *PassError) Unwrap() error { return e.Err }

// NamedFunction pairs a Function with the name used in diagnostics.
type NamedFunction struct {
	Name string
	Fn   *ir.Function
}

// RunModule runs pass across every function in funcs, honoring
// pass.IsFunctionParallel(). A sequential pass still runs once per
// function, just on the calling goroutine. A panic raised by the pass
// is recovered and reported like a returned error. The first error
// encountered aborts the run: no further functions are dispatched;
// functions already dispatched to other workers are allowed to finish,
// and any later errors they report are dropped.
func RunModule(funcs []NamedFunction, pass Pass, opts Options) error {
	run := func(nf NamedFunction) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return pass.Run(nf.Fn)
	}

	if !pass.IsFunctionParallel() {
		for _, nf := range funcs {
			if err := run(nf); err != nil {
				return &PassError{Pass: pass.Name(), FunctionName: nf.Name, Err: err}
			}
		}
		return nil
	}

	workers := opts.Parallelism
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(funcs) {
		workers = len(funcs)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan NamedFunction)
	var firstErr atomic.Value // *PassError
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for nf := range jobs {
				if err := run(nf); err != nil {
					firstErr.CompareAndSwap(nil, &PassError{Pass: pass.Name(), FunctionName: nf.Name, Err: err})
				}
			}
		}()
	}

	for _, nf := range funcs {
		if firstErr.Load() != nil {
			break
		}
		jobs <- nf
	}
	close(jobs)
	wg.Wait()

	if v := firstErr.Load(); v != nil {
		return v.(*PassError)
	}
	return nil
}

// RunPipeline runs every pass in order across funcs, stopping at the
// first pass that returns an error.
func RunPipeline(funcs []NamedFunction, passes []Pass, opts Options) error {
	for _, p := range passes {
		if err := RunModule(funcs, p, opts); err != nil {
			return err
		}
	}
	return nil
}

// SortFunctionsByUse implements the unambiguous half of a
// reorder-functions auxiliary pass: a stable sort by (useCount,
// originalIndex). useCounts[i] corresponds to funcs[i]; ties keep the
// original relative order.
func SortFunctionsByUse(funcs []NamedFunction, useCounts []uint64) []NamedFunction {
	type indexed struct {
		nf    NamedFunction
		count uint64
		orig  int
	}
	items := make([]indexed, len(funcs))
	for i, nf := range funcs {
		items[i] = indexed{nf: nf, count: useCounts[i], orig: i}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].count != items[j].count {
			return items[i].count > items[j].count
		}
		return items[i].orig < items[j].orig
	})
	out := make([]NamedFunction, len(items))
	for i, it := range items {
		out[i] = it.nf
	}
	return out
}
