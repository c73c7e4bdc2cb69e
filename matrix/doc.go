// SPDX-License-Identifier: MIT

// Package matrix provides a small dense linear-algebra kernel used by the
// multigrid bottom solver.
//
// What & Why:
//
//	The coarsest multigrid level is small enough to be assembled into an
//	explicit matrix. Dense stores that matrix row-major in one flat slice and
//	LU factors it (Doolittle, unit lower triangle, no pivoting). The
//	factors are cached by the caller and reused by LUFactors.Solve for every
//	bottom solve until the operator changes.
//
// Errors:
//
//	Public entry points never panic on user input. Shape and numeric policy
//	violations are reported as sentinel errors (see errors.go), wrapped with
//	the operation tag so that errors.Is keeps working. RawRow is the one
//	fast-path accessor and panics on a bad row index.
//
// Complexity:
//
//	NewDense: O(r*c). RawRow: O(1).
//	LU: O(n^3) time, O(n^2) space. LUFactors.Solve: O(n^2).
package matrix
