// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/linop"
)

// MultiGrid is a V-cycle solver over the levels of one operator.
// A MultiGrid is not safe for concurrent use: its level work fields are
// reused by every call.
type MultiGrid struct {
	op   linop.Operator
	o    options
	base int // operator level of the finest MG level
	nlev int

	cor, res, rhs []*field.MultiFab // indexed by MG level
	bottom        bottomSolver
}

// NewMultiGrid builds the level hierarchy of op below WithLevel (default 0)
// as deep as CanCoarsen allows, capped by WithMaxLevels, and allocates the
// per-level work fields.
func NewMultiGrid(op linop.Operator, opts ...Option) *MultiGrid {
	mg := &MultiGrid{op: op, o: gatherOptions(opts)}
	mg.base = mg.o.level
	op.PrepareForLevel(mg.base)

	n := 1
	for (mg.o.maxLevels == 0 || n < mg.o.maxLevels) && op.CanCoarsen(mg.base+n-1) {
		n++
		op.PrepareForLevel(mg.base + n - 1)
	}
	mg.nlev = n

	comm := field.WithComm(op.Comm())
	for l := 0; l < n; l++ {
		ba := op.BoxArray(mg.base + l)
		mg.cor = append(mg.cor, field.NewMultiFab(ba, linop.Grow, comm))
		mg.res = append(mg.res, field.NewMultiFab(ba, 0, comm))
		mg.rhs = append(mg.rhs, field.NewMultiFab(ba, 0, comm))
	}
	mg.bottom = newBottomSolver(mg)
	if mg.o.verbose > 0 && op.Comm().IsIOProcessor() {
		mg.o.logger.Info("multigrid hierarchy",
			slog.Int("levels", n),
			slog.Int("base", mg.base),
			slog.String("bottom", mg.bottom.String()))
	}
	return mg
}

// NumLevels is the depth of the hierarchy.
func (mg *MultiGrid) NumLevels() int { return mg.nlev }

// Solve improves sol so that L(sol) = rhs on the base level. mode applies
// to the residual of the guess; every V-cycle works on the homogeneous
// correction equation. sol and rhs must live on the base level's boxes;
// sol needs no ghost cells.
func (mg *MultiGrid) Solve(sol, rhs *field.MultiFab, epsRel, epsAbs float64, mode linop.BCMode) Result {
	start := time.Now()
	ba := mg.op.BoxArray(mg.base)
	if !sol.BoxArray().Equal(ba) || !rhs.BoxArray().Equal(ba) {
		panic("solver: MultiGrid.Solve: fields do not live on the solver level")
	}

	s := field.NewMultiFab(ba, linop.Grow, field.WithComm(mg.op.Comm()))
	s.Copy(sol)
	mg.op.Residual(mg.rhs[0], rhs, s, mg.base, mode)
	rnorm := mg.rhs[0].NormInf()
	conv := convergence{crit: CriterionRelative, epsRel: epsRel, epsAbs: epsAbs, rnorm0: rnorm}
	if mg.o.criterion == CriterionScaled {
		conv.crit = CriterionScaled
		conv.lnorm = mg.op.Norm(mg.base)
	}
	res := Result{InitialResidual: rnorm}
	mg.logStart(rnorm)

	status := StatusMaxIter
	if conv.met(rnorm, mg.solNorm(s)) {
		status = StatusConverged
	}
	for status != StatusConverged && res.Iterations < mg.o.maxIter {
		res.Iterations++
		mg.cor[0].SetVal(0)
		mg.vcycle(0)
		s.Plus(mg.cor[0])
		mg.op.Residual(mg.rhs[0], rhs, s, mg.base, mode)
		rnorm = mg.rhs[0].NormInf()
		res.History = append(res.History, rnorm)
		mg.logIter(res.Iterations, rnorm, conv.rnorm0)
		if conv.met(rnorm, mg.solNorm(s)) {
			status = StatusConverged
		}
	}

	sol.Copy(s)
	res.Status = status
	res.FinalResidual = rnorm
	res.Runtime = time.Since(start)
	mg.logEnd(res)
	return res
}

// Precondition sets z to an approximate solution of L(z) = r with
// homogeneous boundary conditions: z := 0 followed by nuP V-cycles.
func (mg *MultiGrid) Precondition(z, r *field.MultiFab) {
	mg.rhs[0].Copy(r)
	mg.cor[0].SetVal(0)
	for i := 0; i < mg.o.nuP; i++ {
		mg.vcycle(0)
	}
	z.Copy(mg.cor[0])
}

// vcycle improves cor[l] for L(cor[l]) = rhs[l] on MG level l.
func (mg *MultiGrid) vcycle(l int) {
	lev := mg.base + l
	cor, rhs := mg.cor[l], mg.rhs[l]
	if l == mg.nlev-1 {
		mg.bottom.solve(cor, rhs, lev)
		return
	}
	for i := 0; i < mg.o.nu1; i++ {
		mg.op.Smooth(cor, rhs, lev, linop.Homogeneous)
	}
	mg.op.Residual(mg.res[l], rhs, cor, lev, linop.Homogeneous)
	restrict(mg.rhs[l+1], mg.res[l], mg.o.workers)
	mg.cor[l+1].SetVal(0)
	for i := 0; i < mg.o.nu0; i++ {
		mg.vcycle(l + 1)
	}
	prolongAdd(cor, mg.cor[l+1], mg.o.workers)
	for i := 0; i < mg.o.nu2; i++ {
		mg.op.Smooth(cor, rhs, lev, linop.Homogeneous)
	}
}

// smooth runs n smoothing sweeps on MG-level fields at operator level lev.
func (mg *MultiGrid) smooth(cor, rhs *field.MultiFab, lev, n int) {
	for i := 0; i < n; i++ {
		mg.op.Smooth(cor, rhs, lev, linop.Homogeneous)
	}
}

func (mg *MultiGrid) solNorm(s *field.MultiFab) float64 {
	if mg.o.criterion != CriterionScaled {
		return 0
	}
	return s.NormInf()
}

func (mg *MultiGrid) io() bool { return mg.op.Comm().IsIOProcessor() }

func (mg *MultiGrid) logStart(rnorm0 float64) {
	if mg.o.verbose > 0 && mg.io() {
		mg.o.logger.Info("initial residual",
			slog.String("solver", "multigrid"),
			slog.Int("level", mg.base),
			slog.Float64("rnorm0", rnorm0))
	}
}

func (mg *MultiGrid) logIter(it int, rnorm, rnorm0 float64) {
	if mg.o.verbose > 1 && mg.io() {
		mg.o.logger.Info("cycle",
			slog.String("solver", "multigrid"),
			slog.Int("iter", it),
			slog.Float64("rel_err", relErr(rnorm, rnorm0)))
	}
}

func (mg *MultiGrid) logEnd(res Result) {
	if !mg.io() {
		return
	}
	if res.Status == StatusMaxIter {
		mg.o.logger.Warn("failed to converge",
			slog.String("solver", "multigrid"),
			slog.Int("iter", res.Iterations),
			slog.Float64("rel_err", relErr(res.FinalResidual, res.InitialResidual)))
		return
	}
	if mg.o.verbose > 0 {
		mg.o.logger.Info("final",
			slog.String("solver", "multigrid"),
			slog.Int("iter", res.Iterations),
			slog.Float64("rel_err", relErr(res.FinalResidual, res.InitialResidual)),
			slog.Duration("runtime", res.Runtime))
	}
}

func (mg *MultiGrid) String() string {
	return fmt.Sprintf("MultiGrid(levels=%d base=%d nu1=%d nu2=%d bottom=%s)",
		mg.nlev, mg.base, mg.o.nu1, mg.o.nu2, mg.bottom)
}

func relErr(rnorm, rnorm0 float64) float64 {
	if rnorm0 == 0 {
		return 0
	}
	return rnorm / rnorm0
}
