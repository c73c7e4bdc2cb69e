// SPDX-License-Identifier: MIT

// Package solver drives a linop.Operator to solve L(φ) = rhs.
//
// Two solvers are provided:
//
//   - MultiGrid: V-cycles over the operator's level hierarchy with red-black
//     Gauss-Seidel smoothing, cell averaging for restriction, piecewise-constant
//     prolongation and a configurable bottom solver (dense LU by default).
//   - CGSolver: preconditioned Krylov iterations (CG, BiCGStab, CG_Alt),
//     optionally preconditioned by a MultiGrid V-cycle.
//
// Both solve for a correction: the residual of the initial guess is formed
// once with the caller's BCMode, the correction equation is solved with
// homogeneous boundary conditions, and the guess is added back.
//
// Numerical outcomes are reported as a Status inside Result, never as a
// panic or error. Contract violations (a solution or right-hand side on the
// wrong boxes) panic.
//
// Convergence uses the max norm of the residual:
//
//	CriterionRelative  ‖r‖ ≤ epsRel·‖r0‖  or  ‖r‖ ≤ epsAbs
//	CriterionScaled    ‖r‖ ≤ epsRel·(‖L‖·‖x‖ + ‖r0‖)  or  ‖r‖ ≤ epsAbs
//
// A negative tolerance disables its test.
package solver
