// SPDX-License-Identifier: MIT

// Package solver: functional options shared by MultiGrid and CGSolver.
// Each solver reads the fields it needs and ignores the rest, so one option
// list can configure a CGSolver and the MultiGrid preconditioner it owns.
// WithX constructors panic on nonsensical values.

package solver

import (
	"fmt"
	"log/slog"
)

const (
	DefaultMaxIter           = 40
	DefaultUnstableCriterion = 10.0
	DefaultPreSmooths        = 2 // nu1
	DefaultPostSmooths       = 2 // nu2
	DefaultCoarseCycles      = 1 // nu0
	DefaultBottomSmooths     = 8 // nuF
	DefaultPrecondCycles     = 1 // nuP
	DefaultBottomTolerance   = 1e-2
	DefaultBottomMaxIter     = 80
	DefaultMaxDirectCells    = 1024
	DefaultBottomSolver      = BottomDirect
)

// Option configures a MultiGrid or a CGSolver.
type Option func(*options)

type options struct {
	maxIter   int
	level     int
	verbose   int
	workers   int
	logger    *slog.Logger
	criterion Criterion

	// Krylov
	variant    Variant
	unstable   float64
	usePrecond bool
	mgOpts     []Option

	// multigrid
	maxLevels      int // 0: as deep as the boxes allow
	nu1, nu2       int
	nu0, nuF, nuP  int
	bottom         BottomSolver
	bottomRtol     float64
	bottomMaxIter  int
	maxDirectCells int
}

func defaultOptions() options {
	return options{
		maxIter:        DefaultMaxIter,
		variant:        DefaultVariant,
		unstable:       DefaultUnstableCriterion,
		nu1:            DefaultPreSmooths,
		nu2:            DefaultPostSmooths,
		nu0:            DefaultCoarseCycles,
		nuF:            DefaultBottomSmooths,
		nuP:            DefaultPrecondCycles,
		bottom:         DefaultBottomSolver,
		bottomRtol:     DefaultBottomTolerance,
		bottomMaxIter:  DefaultBottomMaxIter,
		maxDirectCells: DefaultMaxDirectCells,
	}
}

func gatherOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

func nonNegative(name string, n int) {
	if n < 0 {
		panic(fmt.Sprintf("solver: %s must be >= 0, got %d", name, n))
	}
}

// WithMaxIter caps the number of iterations (Krylov) or V-cycles
// (MultiGrid). Zero is allowed and returns StatusMaxIter at once unless the
// guess already meets the tolerance.
func WithMaxIter(n int) Option {
	nonNegative("max iterations", n)
	return func(o *options) { o.maxIter = n }
}

// WithLevel selects the operator level the solver works on.
func WithLevel(level int) Option {
	nonNegative("level", level)
	return func(o *options) { o.level = level }
}

// WithVerbose sets the logging verbosity: 1 logs start and end of a solve,
// 2 also logs every iteration.
func WithVerbose(n int) Option {
	return func(o *options) { o.verbose = n }
}

// WithWorkers bounds the goroutines used for per-box transfer work.
// n <= 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithLogger sets the logger; nil means slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCriterion selects the convergence reference.
func WithCriterion(c Criterion) Option {
	return func(o *options) { o.criterion = c }
}

// WithVariant sets the method used when Solve is called with Automatic.
func WithVariant(v Variant) Option {
	if v < Automatic || v > CGAlt {
		panic(fmt.Sprintf("solver: unknown variant %d", int(v)))
	}
	return func(o *options) {
		if v != Automatic {
			o.variant = v
		}
	}
}

// WithUnstableCriterion sets the factor by which the CG residual may
// exceed its running minimum before the solve is declared unstable.
func WithUnstableCriterion(f float64) Option {
	if !(f >= 1) {
		panic(fmt.Sprintf("solver: unstable criterion must be >= 1, got %g", f))
	}
	return func(o *options) { o.unstable = f }
}

// WithMGPreconditioner turns multigrid preconditioning on or off. The
// given options configure the MultiGrid the CGSolver builds for it.
func WithMGPreconditioner(on bool, mgOpts ...Option) Option {
	return func(o *options) {
		o.usePrecond = on
		o.mgOpts = mgOpts
	}
}

// WithMaxLevels caps the multigrid hierarchy depth (level count, >= 1).
func WithMaxLevels(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("solver: max levels must be >= 1, got %d", n))
	}
	return func(o *options) { o.maxLevels = n }
}

// WithSmooths sets the pre- and post-smoothing sweep counts of a V-cycle.
func WithSmooths(pre, post int) Option {
	nonNegative("pre smooths", pre)
	nonNegative("post smooths", post)
	return func(o *options) { o.nu1, o.nu2 = pre, post }
}

// WithCoarseCycles sets how many cycles visit each coarser level (1 is a V-cycle, 2 a W-cycle).
func WithCoarseCycles(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("solver: coarse cycles must be >= 1, got %d", n))
	}
	return func(o *options) { o.nu0 = n }
}

// WithBottomSmooths sets the sweeps used by BottomSmooth and the fallbacks.
func WithBottomSmooths(n int) Option {
	nonNegative("bottom smooths", n)
	return func(o *options) { o.nuF = n }
}

// WithPreconditionCycles sets the V-cycles run by Precondition.
func WithPreconditionCycles(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("solver: precondition cycles must be >= 1, got %d", n))
	}
	return func(o *options) { o.nuP = n }
}

// WithBottomSolver selects the coarsest-level solver.
func WithBottomSolver(b BottomSolver) Option {
	if b < BottomDirect || b > BottomKrylov {
		panic(fmt.Sprintf("solver: unknown bottom solver %d", int(b)))
	}
	return func(o *options) { o.bottom = b }
}

// WithBottomTolerance sets the relative tolerance and iteration cap of BottomKrylov.
func WithBottomTolerance(rtol float64, maxIter int) Option {
	nonNegative("bottom max iterations", maxIter)
	return func(o *options) { o.bottomRtol, o.bottomMaxIter = rtol, maxIter }
}

// WithMaxDirectCells caps the size of the system BottomDirect assembles.
func WithMaxDirectCells(n int) Option {
	nonNegative("max direct cells", n)
	return func(o *options) { o.maxDirectCells = n }
}
