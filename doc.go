// SPDX-License-Identifier: MIT

// Package amrsolve solves cell-centred elliptic problems on block-structured
// grids: a level is a union of disjoint boxes inside a problem domain, and
// the solvers work on the whole union at once.
//
// 🚀 What is in the box?
//
//	geom/      IntVect, Box, BoxArray, Geometry, box-list files
//	parallel/  Communicator reductions and the bounded ForEach fan-out
//	field/     Fab and MultiFab: per-box storage with ghost cells
//	bndry/     BndryData: per-face masks, condition types, locations, values
//	linop/     Laplacian and ABecLaplacian with their coarse-level hierarchy
//	solver/    MultiGrid V-cycles and the CG / BiCGStab / CG_Alt Krylov solvers
//	matrix/    dense matrix and LU factorization for the direct bottom solve
//	config/    YAML settings for operators, solvers and driver runs
//	cmd/       mgdriver, the command-line test driver
//
// ✨ Typical flow:
//
//	ba, _ := geom.NewBoxArray(boxes...)
//	bd, _ := bndry.New(ba, 1, geom.NewGeometry(domain))
//	bd.SetAllDirichlet(0, 0)
//	op := linop.NewLaplacian(bd)
//	res := solver.NewMultiGrid(op).Solve(sol, rhs, 1e-10, -1, linop.Inhomogeneous)
//
// Numerical outcomes come back as a solver.Status; bad input files and
// settings return wrapped sentinel errors; misuse of the API panics.
//
//	go get github.com/katalvlaran/amrsolve
package amrsolve
