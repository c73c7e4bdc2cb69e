// SPDX-License-Identifier: MIT

// Package matrix_test contains unit tests for the Dense storage.
package matrix_test

import (
	"testing"

	"github.com/katalvlaran/amrsolve/matrix"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)                      // zero rows
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions) // expect ErrInvalidDimensions

	_, err = matrix.NewDense(5, -1)                      // negative columns
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions) // expect ErrInvalidDimensions
}

// TestRowsCols verifies that Rows() and Cols() return the requested shape.
func TestRowsCols(t *testing.T) {
	m, err := matrix.NewDense(3, 4) // 3x4 zero matrix
	require.NoError(t, err)         // valid dimensions

	require.Equal(t, 3, m.Rows()) // rows
	require.Equal(t, 4, m.Cols()) // cols
}

// TestRawRowAliases checks that rows are contiguous views of one buffer.
func TestRawRowAliases(t *testing.T) {
	m, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	row := m.RawRow(1) // aliases the backing buffer
	row[0], row[2] = 3, 5
	require.Len(t, row, 3)

	require.Equal(t, []float64{0, 0, 0}, m.RawRow(0))
	require.Equal(t, []float64{3, 0, 5}, m.RawRow(1))
	require.Panics(t, func() { m.RawRow(2) })  // programmer error
	require.Panics(t, func() { m.RawRow(-1) }) // programmer error
}
