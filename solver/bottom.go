// SPDX-License-Identifier: MIT

package solver

import (
	"log/slog"

	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/geom"
	"github.com/katalvlaran/amrsolve/linop"
	"github.com/katalvlaran/amrsolve/matrix"
)

// directPivotTol is the relative LU pivot tolerance of BottomDirect. A
// singular coarsest operator (pure Neumann or periodic) has one pivot at
// rounding level; it is rejected and the level is smoothed instead.
const directPivotTol = 1e-12

// bottomSolver improves cor for L(cor) = rhs on the coarsest level.
type bottomSolver interface {
	solve(cor, rhs *field.MultiFab, lev int)
	String() string
}

func newBottomSolver(mg *MultiGrid) bottomSolver {
	switch mg.o.bottom {
	case BottomSmooth:
		return smoothBottom{mg: mg}
	case BottomKrylov:
		lev := mg.base + mg.nlev - 1
		cg := NewCGSolver(mg.op,
			WithLevel(lev),
			WithVariant(BiCGStab),
			WithMaxIter(mg.o.bottomMaxIter),
			WithVerbose(mg.o.verbose-1),
			WithLogger(mg.o.logger))
		return &krylovBottom{mg: mg, cg: cg}
	default:
		return &directBottom{mg: mg}
	}
}

type smoothBottom struct{ mg *MultiGrid }

func (b smoothBottom) solve(cor, rhs *field.MultiFab, lev int) {
	b.mg.smooth(cor, rhs, lev, b.mg.o.nuF)
}

func (smoothBottom) String() string { return BottomSmooth.String() }

// krylovBottom runs BiCGStab and smooths instead when it breaks down.
type krylovBottom struct {
	mg *MultiGrid
	cg *CGSolver
}

func (b *krylovBottom) solve(cor, rhs *field.MultiFab, lev int) {
	res := b.cg.Solve(cor, rhs, b.mg.o.bottomRtol, -1, linop.Homogeneous, BiCGStab)
	if res.Status == StatusConverged || res.Status == StatusMaxIter {
		return
	}
	b.mg.smooth(cor, rhs, lev, b.mg.o.nuF)
}

func (*krylovBottom) String() string { return BottomKrylov.String() }

type cellRef struct {
	gn int
	p  geom.IntVect
}

// directBottom assembles the coarsest operator one unit vector at a time,
// factors it on first use and reuses the factors until the operator's
// generation changes.
type directBottom struct {
	mg       *MultiGrid
	factored bool
	gen      uint64
	factors  *matrix.LUFactors
	cells   []cellRef
	b, x    []float64
}

func (b *directBottom) String() string { return BottomDirect.String() }

func (b *directBottom) solve(cor, rhs *field.MultiFab, lev int) {
	if gen := b.mg.op.Generation(); !b.factored || b.gen != gen {
		b.factored, b.gen = true, gen
		b.factors, b.cells, b.b, b.x = nil, nil, nil, nil
		b.factor(lev)
	}
	if b.factors == nil {
		b.mg.smooth(cor, rhs, lev, b.mg.o.nuF)
		return
	}
	for i, c := range b.cells {
		b.b[i] = rhs.Fab(c.gn).At(c.p)
	}
	if err := b.factors.Solve(b.x, b.b); err != nil {
		panic("solver: direct bottom solve: " + err.Error())
	}
	for i, c := range b.cells {
		cor.Fab(c.gn).Set(c.p, b.x[i])
	}
}

// factor builds the LU factors of level lev or leaves them nil (with a
// log record) when the level cannot be solved directly.
func (b *directBottom) factor(lev int) {
	op := b.mg.op
	ba := op.BoxArray(lev)
	n := ba.NumPts()
	switch {
	case op.Comm().Size() != 1:
		b.fallback("distributed level", n)
		return
	case n > b.mg.o.maxDirectCells:
		b.fallback("too many cells", n)
		return
	}

	for gn := 0; gn < ba.Len(); gn++ {
		ba.Box(gn).ForEach(func(p geom.IntVect) {
			b.cells = append(b.cells, cellRef{gn: gn, p: p})
		})
	}
	a, err := matrix.NewDense(n, n)
	if err != nil {
		b.fallback(err.Error(), n)
		return
	}
	comm := field.WithComm(op.Comm())
	u := field.NewMultiFab(ba, linop.Grow, comm)
	w := field.NewMultiFab(ba, 0, comm)
	for j, c := range b.cells {
		u.Fab(c.gn).Set(c.p, 1)
		op.Apply(w, u, lev, linop.Homogeneous)
		u.Fab(c.gn).Set(c.p, 0)
		for i, ci := range b.cells {
			a.RawRow(i)[j] = w.Fab(ci.gn).At(ci.p)
		}
	}
	f, err := matrix.LU(a, matrix.WithEpsilon(directPivotTol))
	if err != nil {
		b.cells = nil
		b.fallback(err.Error(), n)
		return
	}
	b.factors = f
	b.b = make([]float64, n)
	b.x = make([]float64, n)
	if b.mg.o.verbose > 0 && b.mg.io() {
		b.mg.o.logger.Info("bottom solver factored",
			slog.Int("level", lev),
			slog.Int("cells", n))
	}
}

func (b *directBottom) fallback(reason string, n int) {
	if b.mg.io() {
		b.mg.o.logger.Debug("direct bottom solver unavailable, smoothing instead",
			slog.String("reason", reason),
			slog.Int("cells", n))
	}
}
