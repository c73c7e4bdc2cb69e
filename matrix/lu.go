// SPDX-License-Identifier: MIT

// Package matrix - LU factorization and triangular solves.
//
// Contracts:
//   - Doolittle scheme: A = L*U with unit diagonal on L, no pivoting.
//   - Fixed loop orders so results are bit-for-bit reproducible.
//   - A pivot |u_ii| <= eps*max|a_ij| is reported as ErrSingular (eps=0 by default).

package matrix

import (
	"fmt"
	"math"
)

// ZeroSum is the initial sum value for forward/backward substitution.
const ZeroSum = 0.0

// LUFactors holds the packed result of LU: the strict lower triangle stores L
// (its unit diagonal is implicit) and the upper triangle stores U.
type LUFactors struct {
	n  int
	lu []float64 // row-major n×n, packed L\U
}

// LU computes the Doolittle factorization A = L*U with unit diagonal on L (no pivoting).
// Implementation:
//   - Stage 1: Validate m (not nil, square, finite when the policy asks for it).
//   - Stage 2: For i=0..n-1, build row i of U and then column i of L in fixed order,
//     directly on a packed copy of the flat data.
//
// Behavior highlights:
//   - Deterministic loops; zero-pivot guard enforced before every division.
//   - The input matrix is never mutated.
//
// Inputs:
//   - m: square *Dense (n×n).
//   - opts: WithEpsilon for a relative pivot tolerance; WithNoValidateNaNInf to skip the finiteness scan.
//
// Returns:
//   - *LUFactors: packed factors, reusable for any number of Solve calls.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrNaNInf, ErrSingular (pivot at or below tolerance).
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
//
// Notes:
//   - Matrices assembled from diagonally dominant stencils factor stably without pivoting.
func LU(m *Dense, opts ...Option) (*LUFactors, error) {
	if m == nil {
		return nil, matrixErrorf(opLU, ErrNilMatrix)
	}
	if m.r != m.c {
		return nil, matrixErrorf(opLU, fmt.Errorf("%dx%d: %w", m.r, m.c, ErrNonSquare))
	}
	o := gatherOptions(opts...)

	n := m.r
	a := m.data
	// Scale for the relative pivot guard; also scans for NaN/Inf.
	var scale float64
	for idx, v := range a {
		if o.validateNaNInf && (math.IsNaN(v) || math.IsInf(v, 0)) {
			return nil, matrixErrorf(opLU, fmt.Errorf("element (%d,%d): %w", idx/n, idx%n, ErrNaNInf))
		}
		scale = math.Max(scale, math.Abs(v))
	}
	tol := o.eps * scale

	lu := make([]float64, n*n)
	var i, j, k int // loop iterators
	var sum, pivot float64
	var baseI, baseJ int
	for i = 0; i < n; i++ {
		baseI = i * n
		// Compute U[i][j] for j >= i
		for j = i; j < n; j++ {
			sum = ZeroSum
			for k = 0; k < i; k++ {
				sum += lu[baseI+k] * lu[k*n+j]
			}
			lu[baseI+j] = a[baseI+j] - sum
		}

		// Zero-pivot guard (deterministic singularity detection)
		pivot = lu[baseI+i]
		if math.Abs(pivot) <= tol {
			return nil, matrixErrorf(opLU, fmt.Errorf("pivot %d = %g: %w", i, pivot, ErrSingular))
		}

		// Compute L[j][i] for j > i
		for j = i + 1; j < n; j++ {
			sum = ZeroSum
			baseJ = j * n
			for k = 0; k < i; k++ {
				sum += lu[baseJ+k] * lu[k*n+i]
			}
			lu[baseJ+i] = (a[baseJ+i] - sum) / pivot
		}
	}

	return &LUFactors{n: n, lu: lu}, nil
}

// Solve writes the solution x of L*U*x = b into dst.
// Implementation:
//   - Stage 1: forward substitution L*y = b (unit diagonal), y kept in dst.
//   - Stage 2: back substitution U*x = y in place.
//
// Behavior highlights:
//   - dst and b may alias; b is read before dst[i] is written.
//
// Errors:
//   - ErrNilMatrix (nil receiver), ErrDimensionMismatch (len(dst) or len(b) != n).
//
// Complexity:
//   - Time O(n^2), Space O(1).
func (f *LUFactors) Solve(dst, b []float64) error {
	if f == nil {
		return matrixErrorf(opSolve, ErrNilMatrix)
	}
	if len(b) != f.n || len(dst) != f.n {
		return matrixErrorf(opSolve, fmt.Errorf("len(dst)=%d len(b)=%d n=%d: %w",
			len(dst), len(b), f.n, ErrDimensionMismatch))
	}
	n := f.n
	var i, k int
	var sum float64
	// Forward: y_i = b_i - Σ_{k<i} L_ik y_k
	for i = 0; i < n; i++ {
		sum = b[i]
		for k = 0; k < i; k++ {
			sum -= f.lu[i*n+k] * dst[k]
		}
		dst[i] = sum
	}
	// Backward: x_i = (y_i - Σ_{k>i} U_ik x_k) / U_ii
	for i = n - 1; i >= 0; i-- {
		sum = dst[i]
		for k = i + 1; k < n; k++ {
			sum -= f.lu[i*n+k] * dst[k]
		}
		dst[i] = sum / f.lu[i*n+i]
	}

	return nil
}
