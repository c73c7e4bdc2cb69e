// SPDX-License-Identifier: MIT

// Package linop implements boundary-condition-aware elliptic operators over
// a hierarchy of coarsened grid levels.
//
// Two operators share one engine:
//
//   - Laplacian: the constant-coefficient ∇² (negative definite).
//   - ABecLaplacian: alpha·a·φ − beta·∇·(b∇φ) with cell-centred a and
//     face-centred b.
//
// Levels:
//
// Level 0 is the grid the operator was built on (the boxes of its
// bndry.BndryData). Level k+1 is level k coarsened by 2 with the grid
// spacing doubled. Levels are built lazily by PrepareForLevel, strictly in
// order, and cached until SetBndryData or SetCoefficients invalidates them.
// PrepareForLevel is single-writer: it must not run concurrently with any
// other call on the same operator. Concurrent Apply calls on a prepared
// level are safe as long as they use distinct input fields.
//
// Boundary conditions:
//
// ApplyBC fills the one-cell ghost ring of its input. It first exchanges
// ghost data between boxes (FillBoundary), then across periodic boundaries,
// and then, for every face whose mask is not Covered, writes a one-sided
// stencil value:
//
//	Dirichlet   Lagrange extrapolation through the boundary point and up
//	            to maxOrder-1 interior cell centres
//	Neumann     ghost = interior + h·g
//	ReflectOdd  ghost = -interior
//
// The coefficient that multiplies the adjacent interior value is stored in
// a per-(level, grid, face) relaxation register and read back by Smooth to
// build the effective diagonal. The per-face work of ApplyBC runs on
// parallel.ForEach and is joined before ApplyBC returns.
//
// BC modes:
//
// Homogeneous zeroes the externally supplied boundary value, which makes
// Apply linear: Apply of a zero field is zero. Residual and the solvers
// rely on this. Inhomogeneous uses the stored values and is only legal on
// level 0; coarse levels always see the homogeneous correction equation.
//
// Contract violations (too few ghost cells, Inhomogeneous above level 0,
// mismatched box arrays, uncoarsenable boxes, malformed coefficient index
// types) panic.
package linop
