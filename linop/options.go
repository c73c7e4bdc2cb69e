// SPDX-License-Identifier: MIT

// Package linop: functional configuration shared by Laplacian and
// ABecLaplacian. WithX constructors panic on nonsensical values.

package linop

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/amrsolve/parallel"
)

const (
	// DefaultMaxOrder is the Dirichlet extrapolation order (boundary point
	// plus one interior point).
	DefaultMaxOrder = 2

	// DefaultHarmonicAverage selects arithmetic face-coefficient averaging.
	DefaultHarmonicAverage = false
)

type options struct {
	harmonic bool
	maxOrder int
	verbose  int
	workers  int
	cellSize []float64
	logger   *slog.Logger
	comm     parallel.Communicator
}

func defaultOptions() options {
	return options{
		harmonic: DefaultHarmonicAverage,
		maxOrder: DefaultMaxOrder,
		comm:     parallel.Serial(),
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

// Option configures an operator.
type Option func(*options)

// WithHarmonicAverage selects harmonic (true) or arithmetic (false)
// averaging of face coefficients on coarse levels.
func WithHarmonicAverage(on bool) Option {
	return func(o *options) { o.harmonic = on }
}

// WithMaxOrder sets the Dirichlet extrapolation order, 2..4.
func WithMaxOrder(n int) Option {
	if n < 2 || n > 4 {
		panic(fmt.Sprintf("linop: WithMaxOrder(%d) outside [2,4]", n))
	}
	return func(o *options) { o.maxOrder = n }
}

// WithVerbose sets the verbosity; > 0 logs level preparation.
func WithVerbose(n int) Option {
	if n < 0 {
		panic("linop: WithVerbose must be >= 0")
	}
	return func(o *options) { o.verbose = n }
}

// WithWorkers bounds the goroutines used for per-face boundary work.
// 0 means GOMAXPROCS; 1 runs inline.
func WithWorkers(n int) Option {
	if n < 0 {
		panic("linop: WithWorkers must be >= 0")
	}
	return func(o *options) { o.workers = n }
}

// WithCellSize overrides the level-0 grid spacing taken from the geometry.
func WithCellSize(h ...float64) Option {
	for _, v := range h {
		if !(v > 0) {
			panic(fmt.Sprintf("linop: WithCellSize(%v) needs positive spacings", h))
		}
	}
	return func(o *options) { o.cellSize = append([]float64(nil), h...) }
}

// WithLogger sets the logger; nil means slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithComm sets the communicator; nil means parallel.Serial().
func WithComm(c parallel.Communicator) Option {
	return func(o *options) { o.comm = parallel.OrSerial(c) }
}
