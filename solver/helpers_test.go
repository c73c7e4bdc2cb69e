// SPDX-License-Identifier: MIT

package solver_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/amrsolve/bndry"
	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/geom"
	"github.com/katalvlaran/amrsolve/linop"
	"github.com/stretchr/testify/require"
)

func cell2(lx, ly, hx, hy int) geom.Box {
	return geom.NewCellBox(2, geom.IntVect{lx, ly}, geom.IntVect{hx, hy})
}

// newBndry builds boundary data for boxes in domain, every face Dirichlet
// at the cell wall with value v.
func newBndry(t testing.TB, domain geom.Box, v float64, boxes ...geom.Box) *bndry.BndryData {
	t.Helper()
	ba, err := geom.NewBoxArray(boxes...)
	require.NoError(t, err)
	bd, err := bndry.New(ba, 1, geom.NewGeometry(domain))
	require.NoError(t, err)
	bd.SetAllDirichlet(0, v)
	return bd
}

// square returns a Laplacian on one n×n box with homogeneous Dirichlet walls.
func square(t testing.TB, n int, opts ...linop.Option) *linop.Laplacian {
	t.Helper()
	box := cell2(0, 0, n-1, n-1)
	return linop.NewLaplacian(newBndry(t, box, 0, box), opts...)
}

func fill(m *field.MultiFab, f func(p geom.IntVect) float64) {
	for _, i := range m.LocalIndices() {
		fab := m.Fab(i)
		fab.Box().ForEach(func(p geom.IntVect) { fab.Set(p, f(p)) })
	}
}

// pointSource is 1 in cell c and 0 elsewhere.
func pointSource(ba *geom.BoxArray, c geom.IntVect) *field.MultiFab {
	rhs := field.NewMultiFab(ba, 0)
	fill(rhs, func(p geom.IntVect) float64 {
		if p == c {
			return 1
		}
		return 0
	})
	return rhs
}

// sineModes mixes two discrete eigenmodes of the Dirichlet Laplacian on an
// n×n grid.
func sineModes(ba *geom.BoxArray, n int) *field.MultiFab {
	h := 1 / float64(n)
	rhs := field.NewMultiFab(ba, 0)
	fill(rhs, func(p geom.IntVect) float64 {
		x, y := (float64(p[0])+0.5)*h, (float64(p[1])+0.5)*h
		return math.Sin(math.Pi*x)*math.Sin(math.Pi*y) + 0.5*math.Sin(3*math.Pi*x)*math.Sin(math.Pi*y)
	})
	return rhs
}

func randomize(m *field.MultiFab, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	fill(m, func(geom.IntVect) float64 { return rng.Float64()*2 - 1 })
}

// values lists the valid data of m in box order, x fastest.
func values(m *field.MultiFab) []float64 {
	var out []float64
	for _, i := range m.LocalIndices() {
		fab := m.Fab(i)
		fab.Box().ForEach(func(p geom.IntVect) { out = append(out, fab.At(p)) })
	}
	return out
}

// valueAt finds p in whichever box of m contains it.
func valueAt(t testing.TB, m *field.MultiFab, p geom.IntVect) float64 {
	t.Helper()
	for _, i := range m.LocalIndices() {
		if m.BoxArray().Box(i).Contains(p) {
			return m.Fab(i).At(p)
		}
	}
	t.Fatalf("cell %v not covered", p)
	return 0
}

// residualNorm is ‖rhs - L(sol)‖∞ with the stored boundary values.
func residualNorm(op linop.Operator, sol, rhs *field.MultiFab) float64 {
	s := field.NewMultiFab(sol.BoxArray(), linop.Grow)
	s.Copy(sol)
	r := field.NewMultiFab(sol.BoxArray(), 0)
	op.Residual(r, rhs, s, 0, linop.Inhomogeneous)
	return r.NormInf()
}
