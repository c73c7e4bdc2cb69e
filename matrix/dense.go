// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major).
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Let assemblers fill whole rows in place through RawRow.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; RawRow: O(1).

package matrix

import "fmt"

// Dense is a concrete row-major matrix.
//   - r,c hold dimensions (rows, cols).
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
type Dense struct {
	r, c int       // row and column counts (> 0)
	data []float64 // contiguous row-major storage (len == r*c)
}

// NewDense creates an r×c zero matrix using row-major storage.
//
// Errors:
//   - ErrInvalidDimensions (rows <= 0 or cols <= 0).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}

	return &Dense{
		r:    rows,
		c:    cols,
		data: make([]float64, rows*cols), // zero-filled
	}, nil
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.c }

// RawRow returns row i as a slice aliasing the backing buffer.
// Panics if i is out of range (internal fast-path helper for assemblers).
func (m *Dense) RawRow(i int) []float64 {
	if i < 0 || i >= m.r {
		panic(fmt.Sprintf("matrix: RawRow(%d) out of range [0,%d)", i, m.r))
	}

	return m.data[i*m.c : (i+1)*m.c]
}
