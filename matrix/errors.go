// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// This file defines ONLY package-level sentinel errors used across the matrix
// package. All kernels return these sentinels (optionally wrapped with an
// operation tag) and tests check them via errors.Is.

package matrix

import (
	"errors"
	"fmt"
)

// NOTE ON NAMING & PREFIXING
// --------------------------
// Every message is prefixed with "matrix: ..." for easy grepping across logs.
// Context is added at the detection site with matrixErrorf;
// callers still match with errors.Is.

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are non-positive.
	ErrInvalidDimensions = errors.New("matrix: dimensions must be > 0")

	// ErrDimensionMismatch indicates incompatible operand lengths,
	// e.g. a right-hand side whose length differs from the factor order.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNonSquare signals that a square matrix was required but the input wasn't.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil *Dense or *LUFactors was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")

	// ErrSingular is returned when a pivot at or below the configured
	// tolerance is met during LU (non-pivoting scheme).
	ErrSingular = errors.New("matrix: singular matrix")
)

// Operation tags for matrixErrorf.
const (
	opLU    = "LU"
	opSolve = "LUFactors.Solve"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
//
// Returns:
//   - error: formats as "<tag>: <underlying>" and still matches errors.Is/As.
//
// Complexity:
//   - Time O(1), Space O(1).
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
