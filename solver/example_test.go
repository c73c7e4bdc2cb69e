// SPDX-License-Identifier: MIT

package solver_test

import (
	"fmt"

	"github.com/katalvlaran/amrsolve/bndry"
	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/geom"
	"github.com/katalvlaran/amrsolve/linop"
	"github.com/katalvlaran/amrsolve/solver"
)

// ExampleMultiGrid solves ∇²φ = 0 with φ = 1 on the walls of a 16×16 grid.
func ExampleMultiGrid() {
	domain := geom.NewCellBox(2, geom.IntVect{0, 0}, geom.IntVect{15, 15})
	ba, _ := geom.NewBoxArray(domain)
	bd, _ := bndry.New(ba, 1, geom.NewGeometry(domain))
	bd.SetAllDirichlet(0, 1)

	op := linop.NewLaplacian(bd)
	sol := field.NewMultiFab(ba, 0)
	rhs := field.NewMultiFab(ba, 0)

	res := solver.NewMultiGrid(op).Solve(sol, rhs, 1e-12, -1, linop.Inhomogeneous)
	fmt.Println(res.Status)
	fmt.Printf("min=%.6f max=%.6f\n", sol.Min(), sol.Max())

	// Output:
	// converged
	// min=1.000000 max=1.000000
}

// ExampleCGSolver runs BiCGStab preconditioned by a multigrid V-cycle.
func ExampleCGSolver() {
	domain := geom.NewCellBox(2, geom.IntVect{0, 0}, geom.IntVect{31, 31})
	ba, _ := geom.NewBoxArray(domain)
	bd, _ := bndry.New(ba, 1, geom.NewGeometry(domain))
	bd.SetAllDirichlet(0, 0)

	op := linop.NewLaplacian(bd)
	rhs := field.NewMultiFab(ba, 0)
	rhs.Fab(0).Set(geom.IntVect{16, 16}, 1)
	sol := field.NewMultiFab(ba, 0)

	cg := solver.NewCGSolver(op, solver.WithMGPreconditioner(true))
	res := cg.Solve(sol, rhs, 1e-10, -1, linop.Inhomogeneous, solver.Automatic)
	fmt.Println(cg.Variant(), res.Status, sol.Max() <= 0)

	// Output:
	// bicgstab converged true
}
