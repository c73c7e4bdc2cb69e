// SPDX-License-Identifier: MIT

package solver

import (
	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/linop"
)

// bicgstab is preconditioned BiCGStab. The convergence test runs after
// both half steps; the breakdown guards compare against exact zero.
func (s *CGSolver) bicgstab(sol *field.MultiFab, run *krylovRun) {
	r := run.r
	rh := s.newField()
	rh.Copy(r)
	p, ph, v := s.newField(), s.newField(), s.newField()
	sv, sh, t := s.newField(), s.newField(), s.newField()
	var rho1, alpha, omega float64

	run.res.Status = StatusMaxIter
	for nit := 1; nit <= s.o.maxIter; nit++ {
		rho := rh.Dot(r)
		if rho == 0 {
			run.res.Iterations = nit
			run.res.Status = StatusZeroDot
			return
		}
		if nit == 1 {
			p.Copy(r)
		} else {
			beta := (rho / rho1) * (alpha / omega)
			p.Sxay(p, -omega, v)
			p.Sxay(r, beta, p)
		}

		s.precondition(ph, p)
		s.op.Apply(v, ph, s.level, linop.Homogeneous)
		rhTv := rh.Dot(v)
		if rhTv == 0 {
			run.res.Iterations = nit
			run.res.Status = StatusUnstable
			return
		}
		alpha = rho / rhTv
		sol.Sxay(sol, alpha, ph)
		sv.Sxay(r, -alpha, v)
		rnorm := sv.NormInf()
		s.record(run, nit, rnorm, true)
		if s.converged(run, rnorm, sol) {
			run.res.History = append(run.res.History, rnorm)
			run.res.Status = StatusConverged
			return
		}

		s.precondition(sh, sv)
		s.op.Apply(t, sh, s.level, linop.Homogeneous)
		tTt := t.Dot(t)
		if tTt == 0 {
			run.res.Status = StatusZeroTT
			return
		}
		omega = t.Dot(sv) / tTt
		sol.Sxay(sol, omega, sh)
		r.Sxay(sv, -omega, t)
		rnorm = r.NormInf()
		s.record(run, nit, rnorm, false)
		if s.converged(run, rnorm, sol) {
			run.res.Status = StatusConverged
			return
		}
		if omega == 0 {
			run.res.Status = StatusZeroOmega
			return
		}
		rho1 = rho
	}
}
