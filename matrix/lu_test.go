// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/katalvlaran/amrsolve/matrix"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// mustFromRows builds a Dense from literal rows.
func mustFromRows(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(len(rows), len(rows[0]))
	require.NoError(t, err)
	for i, r := range rows {
		copy(m.RawRow(i), r)
	}

	return m
}

// laplace1D returns the n×n matrix tridiag(1, -2, 1), the 1-D Dirichlet Laplacian.
func laplace1D(t testing.TB, n int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(n, n)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		row := m.RawRow(i)
		row[i] = -2
		if i > 0 {
			row[i-1] = 1
		}
		if i+1 < n {
			row[i+1] = 1
		}
	}

	return m
}

// TestLUInverts solves against every unit vector and checks A*X == I.
func TestLUInverts(t *testing.T) {
	rows := [][]float64{
		{4, 3, 2},
		{2, 1, 3},
		{3, 2, 1},
	}
	f, err := matrix.LU(mustFromRows(t, rows))
	require.NoError(t, err)

	const n = 3
	got := make([][]float64, n)
	want := make([][]float64, n)
	for i := range got {
		got[i] = make([]float64, n)
		want[i] = make([]float64, n)
		want[i][i] = 1
	}
	x := make([]float64, n)
	for j := 0; j < n; j++ {
		e := make([]float64, n)
		e[j] = 1
		require.NoError(t, f.Solve(x, e))
		for i := 0; i < n; i++ {
			for k := 0; k < n; k++ {
				got[i][j] += rows[i][k] * x[k]
			}
		}
	}
	approx := cmpopts.EquateApprox(0, 1e-12)
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Fatalf("A*inv(A) mismatch (-want +got):\n%s", diff)
	}
}

// TestLUSolveMatchesGonum compares the triangular solves with gonum's solver.
func TestLUSolveMatchesGonum(t *testing.T) {
	const n = 24
	a := laplace1D(t, n)
	rng := rand.New(rand.NewSource(7))
	b := make([]float64, n)
	for i := range b {
		b[i] = rng.Float64()*2 - 1
	}

	f, err := matrix.LU(a)
	require.NoError(t, err)
	got := make([]float64, n)
	require.NoError(t, f.Solve(got, b))

	ref := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		ref.SetRow(i, a.RawRow(i))
	}
	var want mat.VecDense
	require.NoError(t, want.SolveVec(ref, mat.NewVecDense(n, b)))

	approx := cmpopts.EquateApprox(1e-10, 1e-12)
	if diff := cmp.Diff(want.RawVector().Data, got, approx); diff != "" {
		t.Fatalf("solution mismatch (-gonum +lu):\n%s", diff)
	}
}

// TestLUSolveAliased allows dst and b to share storage.
func TestLUSolveAliased(t *testing.T) {
	a := mustFromRows(t, [][]float64{{2, 1}, {1, 3}})
	f, err := matrix.LU(a)
	require.NoError(t, err)

	x := []float64{3, 5} // A*[0.8, 1.4] = [3, 5]
	require.NoError(t, f.Solve(x, x))
	require.InDelta(t, 0.8, x[0], 1e-14)
	require.InDelta(t, 1.4, x[1], 1e-14)
}

// TestLUErrors covers the sentinel surface.
func TestLUErrors(t *testing.T) {
	_, err := matrix.LU(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	rect, _ := matrix.NewDense(2, 3)
	_, err = matrix.LU(rect)
	require.ErrorIs(t, err, matrix.ErrNonSquare)

	// Exact zero pivot in the leading position.
	_, err = matrix.LU(mustFromRows(t, [][]float64{{0, 1}, {1, 0}}))
	require.ErrorIs(t, err, matrix.ErrSingular)

	// Rank-deficient with a rounding-sized last pivot: only the tolerance catches it.
	near := mustFromRows(t, [][]float64{{1, 1}, {1, 1 + 1e-15}})
	_, err = matrix.LU(near)
	require.NoError(t, err)
	_, err = matrix.LU(near, matrix.WithEpsilon(1e-12))
	require.ErrorIs(t, err, matrix.ErrSingular)

	bad := mustFromRows(t, [][]float64{{1, 0}, {0, math.Inf(1)}})
	_, err = matrix.LU(bad)
	require.ErrorIs(t, err, matrix.ErrNaNInf)
	require.ErrorContains(t, err, "element (1,1)")
	_, err = matrix.LU(bad, matrix.WithNoValidateNaNInf()) // scan skipped
	require.NoError(t, err)

	f, err := matrix.LU(mustFromRows(t, [][]float64{{1}}))
	require.NoError(t, err)
	require.ErrorIs(t, f.Solve(make([]float64, 2), []float64{1}), matrix.ErrDimensionMismatch)

	var nilF *matrix.LUFactors
	require.ErrorIs(t, nilF.Solve(nil, nil), matrix.ErrNilMatrix)

	require.Panics(t, func() { matrix.WithEpsilon(-1) })
}
