// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/linop"
)

// CGSolver runs Krylov iterations on one level of an operator.
// It is not safe for concurrent use when it owns a MultiGrid preconditioner.
type CGSolver struct {
	op    linop.Operator
	o     options
	level int
	mg    *MultiGrid // nil without preconditioning
}

// NewCGSolver returns a solver for level WithLevel (default 0) of op.
// WithMGPreconditioner builds the MultiGrid here, once.
func NewCGSolver(op linop.Operator, opts ...Option) *CGSolver {
	s := &CGSolver{op: op, o: gatherOptions(opts)}
	s.level = s.o.level
	op.PrepareForLevel(s.level)
	if s.o.usePrecond {
		mgOpts := append([]Option{
			WithLevel(s.level),
			WithLogger(s.o.logger),
			WithWorkers(s.o.workers),
		}, s.o.mgOpts...)
		s.mg = NewMultiGrid(op, mgOpts...)
	}
	return s
}

// Preconditioner returns the owned MultiGrid, or nil.
func (s *CGSolver) Preconditioner() *MultiGrid { return s.mg }

// Variant is the method Solve uses for Automatic.
func (s *CGSolver) Variant() Variant { return s.o.variant }

func (s *CGSolver) String() string {
	pre := "none"
	if s.mg != nil {
		pre = s.mg.String()
	}
	return fmt.Sprintf("CGSolver(variant=%s level=%d maxiter=%d precond=%s)",
		s.o.variant, s.level, s.o.maxIter, pre)
}

// Solve improves sol so that L(sol) = rhs. mode applies to the residual of
// the incoming guess; the iterations solve the homogeneous correction
// equation. variant Automatic uses the configured default.
//
// On StatusConverged or StatusMaxIter with a residual smaller than the
// initial one, sol is the guess plus the correction. On any other outcome
// sol is restored to the guess.
func (s *CGSolver) Solve(sol, rhs *field.MultiFab, epsRel, epsAbs float64, mode linop.BCMode, variant Variant) Result {
	if variant == Automatic {
		variant = s.o.variant
	}
	ba := s.op.BoxArray(s.level)
	if !sol.BoxArray().Equal(ba) || !rhs.BoxArray().Equal(ba) {
		panic("solver: CGSolver.Solve: fields do not live on the solver level")
	}

	run := s.begin(sol, rhs, epsRel, epsAbs, mode, variant)
	if run.conv.rnorm0 == 0 || run.conv.met(run.conv.rnorm0, 0) {
		sol.Copy(run.sorig)
		run.res.Status = StatusConverged
		return s.end(run)
	}

	switch variant {
	case CG:
		s.cg(sol, run)
	case BiCGStab:
		s.bicgstab(sol, run)
	case CGAlt:
		s.cgAlt(sol, run)
	default:
		panic(fmt.Sprintf("solver: unknown variant %d", int(variant)))
	}

	if (run.res.Status == StatusConverged || run.res.Status == StatusMaxIter) &&
		run.res.FinalResidual < run.conv.rnorm0 {
		sol.Plus(run.sorig)
	} else {
		sol.Copy(run.sorig)
	}
	return s.end(run)
}

// krylovRun is the state shared by every variant.
type krylovRun struct {
	name  string
	start time.Time
	sorig *field.MultiFab // incoming guess
	r     *field.MultiFab // residual of the correction equation
	conv  convergence
	res   Result
}

// begin saves the guess, forms its residual with mode and zeroes sol.
func (s *CGSolver) begin(sol, rhs *field.MultiFab, epsRel, epsAbs float64, mode linop.BCMode, variant Variant) *krylovRun {
	run := &krylovRun{name: variant.String(), start: time.Now()}
	run.sorig = s.newField()
	run.sorig.Copy(sol)
	run.r = s.newField()
	s.op.Residual(run.r, rhs, run.sorig, s.level, mode)
	sol.SetVal(0)

	rnorm := run.r.NormInf()
	run.conv = convergence{crit: s.o.criterion, epsRel: epsRel, epsAbs: epsAbs, rnorm0: rnorm}
	if s.o.criterion == CriterionScaled {
		run.conv.lnorm = s.op.Norm(s.level)
	}
	run.res.InitialResidual = rnorm
	run.res.FinalResidual = rnorm
	run.res.Status = StatusMaxIter
	if s.o.verbose > 0 && s.io() {
		s.o.logger.Info("initial residual",
			slog.String("solver", run.name),
			slog.Int("level", s.level),
			slog.Float64("rnorm0", rnorm))
	}
	return run
}

func (s *CGSolver) end(run *krylovRun) Result {
	run.res.Runtime = time.Since(run.start)
	res := run.res
	if !s.io() {
		return res
	}
	rel := relErr(res.FinalResidual, res.InitialResidual)
	if res.Status == StatusMaxIter {
		s.o.logger.Warn("failed to converge",
			slog.String("solver", run.name),
			slog.Int("level", s.level),
			slog.Int("iter", res.Iterations),
			slog.Float64("rel_err", rel))
	} else if s.o.verbose > 0 {
		s.o.logger.Info("final",
			slog.String("solver", run.name),
			slog.Int("level", s.level),
			slog.Int("iter", res.Iterations),
			slog.Float64("rel_err", rel),
			slog.String("status", res.Status.String()),
			slog.Duration("runtime", res.Runtime))
	}
	return res
}

// record stores rnorm as the residual after iteration it.
func (s *CGSolver) record(run *krylovRun, it int, rnorm float64, half bool) {
	run.res.Iterations = it
	run.res.FinalResidual = rnorm
	if !half {
		run.res.History = append(run.res.History, rnorm)
	}
	if s.o.verbose > 1 && s.io() {
		msg := "iteration"
		if half {
			msg = "half iteration"
		}
		s.o.logger.Info(msg,
			slog.String("solver", run.name),
			slog.Int("level", s.level),
			slog.Int("iter", it),
			slog.Float64("rel_err", relErr(rnorm, run.conv.rnorm0)))
	}
}

// converged applies the stopping test; sol is read for CriterionScaled only.
func (s *CGSolver) converged(run *krylovRun, rnorm float64, sol *field.MultiFab) bool {
	solNorm := 0.0
	if run.conv.crit == CriterionScaled {
		solNorm = sol.NormInf()
	}
	return run.conv.met(rnorm, solNorm)
}

// precondition sets z := M⁻¹r (identity without a MultiGrid).
func (s *CGSolver) precondition(z, r *field.MultiFab) {
	if s.mg == nil {
		z.Copy(r)
		return
	}
	z.SetVal(0)
	s.mg.Precondition(z, r)
}

func (s *CGSolver) newField() *field.MultiFab {
	return field.NewMultiFab(s.op.BoxArray(s.level), linop.Grow, field.WithComm(s.op.Comm()))
}

func (s *CGSolver) io() bool { return s.op.Comm().IsIOProcessor() }

// cg is preconditioned conjugate gradients with an unstable-residual guard.
func (s *CGSolver) cg(sol *field.MultiFab, run *krylovRun) {
	r := run.r
	z, p, q := s.newField(), s.newField(), s.newField()
	minrnorm := run.conv.rnorm0
	var rho, rho1 float64

	run.res.Status = StatusMaxIter
	for nit := 1; nit <= s.o.maxIter; nit++ {
		s.precondition(z, r)
		rho = z.Dot(r)
		if nit == 1 {
			p.Copy(z)
		} else {
			p.Sxay(z, rho/rho1, p)
		}

		s.op.Apply(q, p, s.level, linop.Homogeneous)
		pw := p.Dot(q)
		if pw == 0 {
			run.res.Iterations = nit
			run.res.Status = StatusZeroDot
			return
		}
		alpha := rho / pw
		sol.Sxay(sol, alpha, p)
		r.Sxay(r, -alpha, q)
		rnorm := r.NormInf()
		s.record(run, nit, rnorm, false)

		if s.converged(run, rnorm, sol) {
			run.res.Status = StatusConverged
			return
		}
		if rnorm > s.o.unstable*minrnorm {
			run.res.Status = StatusUnstable
			return
		}
		if rnorm < minrnorm {
			minrnorm = rnorm
		}
		rho1 = rho
	}
}

// cgAlt is the alternate CG loop: the unstable guard runs before the
// convergence test, which is the loop condition.
func (s *CGSolver) cgAlt(sol *field.MultiFab, run *krylovRun) {
	r := run.r
	z, p, w := s.newField(), s.newField(), s.newField()
	rnorm := run.conv.rnorm0
	minrnorm := rnorm
	var rho, rhoold float64

	for nit := 1; nit <= s.o.maxIter && !s.converged(run, rnorm, sol); nit++ {
		s.precondition(z, r)
		rho = z.Dot(r)
		if nit == 1 {
			p.Copy(z)
		} else {
			p.Sxay(z, rho/rhoold, p)
		}

		s.op.Apply(w, p, s.level, linop.Homogeneous)
		pw := p.Dot(w)
		if pw == 0 {
			run.res.Iterations = nit
			run.res.Status = StatusZeroDot
			return
		}
		alpha := rho / pw
		rhoold = rho
		sol.Sxay(sol, alpha, p)
		r.Sxay(r, -alpha, w)
		rnorm = r.NormInf()
		s.record(run, nit, rnorm, false)

		if rnorm > s.o.unstable*minrnorm {
			run.res.Status = StatusUnstable
			return
		}
		if rnorm < minrnorm {
			minrnorm = rnorm
		}
	}
	if s.converged(run, rnorm, sol) {
		run.res.Status = StatusConverged
	} else {
		run.res.Status = StatusMaxIter
	}
}
