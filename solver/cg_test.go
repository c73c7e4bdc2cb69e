// SPDX-License-Identifier: MIT

package solver_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/geom"
	"github.com/katalvlaran/amrsolve/linop"
	"github.com/katalvlaran/amrsolve/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCGConvergesOnPoisson solves a 32×32 Dirichlet Poisson problem with plain CG.
func TestCGConvergesOnPoisson(t *testing.T) {
	op := square(t, 32)
	ba := op.BoxArray(0)
	rhs := sineModes(ba, 32)
	sol := field.NewMultiFab(ba, 0)

	cg := solver.NewCGSolver(op, solver.WithMaxIter(50))
	res := cg.Solve(sol, rhs, 1e-10, -1, linop.Inhomogeneous, solver.CG)
	require.Equal(t, solver.StatusConverged, res.Status, res.String())
	assert.Less(t, res.Iterations, 50)
	assert.LessOrEqual(t, residualNorm(op, sol, rhs), 1e-9*res.InitialResidual)
}

// TestKrylovVariants runs every variant on the default ABecLaplacian (-∇²).
func TestKrylovVariants(t *testing.T) {
	for _, v := range []solver.Variant{solver.CG, solver.BiCGStab, solver.CGAlt} {
		t.Run(v.String(), func(t *testing.T) {
			box := cell2(0, 0, 15, 15)
			op := linop.NewABecLaplacian(newBndry(t, box, 0, box))
			ba := op.BoxArray(0)
			rhs := pointSource(ba, geom.IntVect{5, 9})
			sol := field.NewMultiFab(ba, 0)

			cg := solver.NewCGSolver(op, solver.WithMaxIter(400), solver.WithUnstableCriterion(1e12))
			res := cg.Solve(sol, rhs, 1e-8, -1, linop.Inhomogeneous, v)
			require.Equal(t, solver.StatusConverged, res.Status, res.String())
			assert.LessOrEqual(t, residualNorm(op, sol, rhs), 1e-7*res.InitialResidual)
			assert.NotEmpty(t, res.History)
		})
	}
}

// TestMGPreconditionedCGUsesFewerIterations compares plain and
// 2-level-MG-preconditioned CG on a 16×16 point source.
func TestMGPreconditionedCGUsesFewerIterations(t *testing.T) {
	op := square(t, 16)
	ba := op.BoxArray(0)
	rhs := pointSource(ba, geom.IntVect{8, 8})
	run := func(opts ...solver.Option) solver.Result {
		sol := field.NewMultiFab(ba, 0)
		base := []solver.Option{solver.WithMaxIter(300), solver.WithUnstableCriterion(1e12)}
		cg := solver.NewCGSolver(op, append(base, opts...)...)
		return cg.Solve(sol, rhs, 1e-8, -1, linop.Inhomogeneous, solver.CG)
	}

	plain := run()
	pre := run(solver.WithMGPreconditioner(true, solver.WithMaxLevels(2)))
	require.Equal(t, solver.StatusConverged, plain.Status, plain.String())
	require.Equal(t, solver.StatusConverged, pre.Status, pre.String())
	assert.Less(t, pre.Iterations, plain.Iterations)
}

// TestBiCGStabWithMGPreconditioner uses the default variant through Automatic.
func TestBiCGStabWithMGPreconditioner(t *testing.T) {
	op := square(t, 32)
	ba := op.BoxArray(0)
	rhs := pointSource(ba, geom.IntVect{10, 20})
	sol := field.NewMultiFab(ba, 0)

	cg := solver.NewCGSolver(op, solver.WithMGPreconditioner(true))
	require.Equal(t, solver.BiCGStab, cg.Variant())
	require.NotNil(t, cg.Preconditioner())
	require.Equal(t, 5, cg.Preconditioner().NumLevels())

	res := cg.Solve(sol, rhs, 1e-10, -1, linop.Inhomogeneous, solver.Automatic)
	require.Equal(t, solver.StatusConverged, res.Status, res.String())
	assert.LessOrEqual(t, res.Iterations, 15)
}

// TestCGMaxIterZeroKeepsGuess: no iterations, status 8, solution untouched.
func TestCGMaxIterZeroKeepsGuess(t *testing.T) {
	for _, v := range []solver.Variant{solver.CG, solver.BiCGStab, solver.CGAlt} {
		t.Run(v.String(), func(t *testing.T) {
			op := square(t, 8)
			ba := op.BoxArray(0)
			sol := field.NewMultiFab(ba, 0)
			randomize(sol, 11)
			guess := values(sol)

			cg := solver.NewCGSolver(op, solver.WithMaxIter(0))
			res := cg.Solve(sol, pointSource(ba, geom.IntVect{4, 4}), 1e-10, -1, linop.Inhomogeneous, v)
			require.Equal(t, solver.StatusMaxIter, res.Status)
			require.Zero(t, res.Iterations)
			require.Empty(t, res.History)
			if diff := cmp.Diff(guess, values(sol)); diff != "" {
				t.Fatalf("guess changed (-want +got):\n%s", diff)
			}
		})
	}
}

// TestCGExactGuessReturnsImmediately: a zero initial residual is status 0
// after zero iterations, and the guess survives.
func TestCGExactGuessReturnsImmediately(t *testing.T) {
	op := square(t, 8)
	ba := op.BoxArray(0)
	guess := field.NewMultiFab(ba, linop.Grow)
	randomize(guess, 5)
	rhs := field.NewMultiFab(ba, 0)
	op.Apply(rhs, guess, 0, linop.Homogeneous)

	sol := field.NewMultiFab(ba, 0)
	sol.Copy(guess)
	res := solver.NewCGSolver(op).Solve(sol, rhs, 1e-10, -1, linop.Homogeneous, solver.BiCGStab)
	require.Equal(t, solver.StatusConverged, res.Status)
	require.Zero(t, res.Iterations)
	require.Zero(t, res.InitialResidual)
	require.Equal(t, values(guess), values(sol))
}

// TestCGScaledCriterion converges under the ‖L‖·‖x‖ + ‖r0‖ reference.
func TestCGScaledCriterion(t *testing.T) {
	op := square(t, 16)
	ba := op.BoxArray(0)
	rhs := sineModes(ba, 16)
	sol := field.NewMultiFab(ba, 0)

	cg := solver.NewCGSolver(op, solver.WithCriterion(solver.CriterionScaled))
	res := cg.Solve(sol, rhs, 1e-12, -1, linop.Inhomogeneous, solver.BiCGStab)
	require.Equal(t, solver.StatusConverged, res.Status, res.String())
}

// TestCGAbsoluteTolerance stops on epsAbs alone when epsRel is disabled.
func TestCGAbsoluteTolerance(t *testing.T) {
	op := square(t, 16)
	ba := op.BoxArray(0)
	rhs := sineModes(ba, 16)
	sol := field.NewMultiFab(ba, 0)

	res := solver.NewCGSolver(op).Solve(sol, rhs, -1, 1e-6, linop.Inhomogeneous, solver.CG)
	require.Equal(t, solver.StatusConverged, res.Status)
	assert.LessOrEqual(t, res.FinalResidual, 1e-6)
}

// TestCGLogging checks the slog records of a verbose solve.
func TestCGLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	op := square(t, 8)
	ba := op.BoxArray(0)
	rhs := pointSource(ba, geom.IntVect{2, 2})

	cg := solver.NewCGSolver(op,
		solver.WithLogger(logger),
		solver.WithVerbose(2),
		solver.WithMaxIter(200),
		solver.WithUnstableCriterion(1e12))
	res := cg.Solve(field.NewMultiFab(ba, 0), rhs, 1e-8, -1, linop.Inhomogeneous, solver.CG)
	require.Equal(t, solver.StatusConverged, res.Status, res.String())
	out := buf.String()
	assert.Contains(t, out, `msg="initial residual"`)
	assert.Contains(t, out, "msg=iteration")
	assert.Contains(t, out, "rel_err=")
	assert.Contains(t, out, "msg=final")

	buf.Reset()
	quiet := solver.NewCGSolver(op, solver.WithLogger(logger), solver.WithMaxIter(1))
	quiet.Solve(field.NewMultiFab(ba, 0), rhs, 1e-10, -1, linop.Inhomogeneous, solver.CG)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), `msg="failed to converge"`)
}

// TestCGContract rejects fields on foreign boxes.
func TestCGContract(t *testing.T) {
	op := square(t, 8)
	other, err := geom.NewBoxArray(cell2(0, 0, 3, 3))
	require.NoError(t, err)
	good := field.NewMultiFab(op.BoxArray(0), 0)
	bad := field.NewMultiFab(other, 0)
	cg := solver.NewCGSolver(op)
	require.Panics(t, func() { cg.Solve(bad, good, 1e-8, -1, linop.Homogeneous, solver.CG) })
}

func TestStatusAndParsers(t *testing.T) {
	assert.Equal(t, "converged", solver.StatusConverged.String())
	assert.Equal(t, "max iterations", solver.StatusMaxIter.String())
	assert.Equal(t, "status(7)", solver.Status(7).String())
	assert.True(t, solver.StatusConverged.Converged())
	assert.False(t, solver.StatusUnstable.Converged())

	for _, v := range []solver.Variant{solver.Automatic, solver.CG, solver.BiCGStab, solver.CGAlt} {
		got, err := solver.ParseVariant(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	_, err := solver.ParseVariant("gmres")
	require.ErrorIs(t, err, solver.ErrUnknownVariant)

	b, err := solver.ParseBottomSolver(" Krylov ")
	require.NoError(t, err)
	assert.Equal(t, solver.BottomKrylov, b)
	_, err = solver.ParseBottomSolver("amg")
	require.ErrorIs(t, err, solver.ErrUnknownBottomSolver)

	c, err := solver.ParseCriterion("scaled")
	require.NoError(t, err)
	assert.Equal(t, solver.CriterionScaled, c)
	_, err = solver.ParseCriterion("energy")
	require.ErrorIs(t, err, solver.ErrUnknownCriterion)
}

func TestOptionPanics(t *testing.T) {
	assert.Panics(t, func() { solver.WithMaxIter(-1) })
	assert.Panics(t, func() { solver.WithMaxLevels(0) })
	assert.Panics(t, func() { solver.WithUnstableCriterion(0.5) })
	assert.Panics(t, func() { solver.WithVariant(solver.Variant(9)) })
	assert.Panics(t, func() { solver.WithBottomSolver(solver.BottomSolver(-1)) })
	assert.Panics(t, func() { solver.WithPreconditionCycles(0) })
}
