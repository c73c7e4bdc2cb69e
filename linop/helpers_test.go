// SPDX-License-Identifier: MIT

package linop_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/amrsolve/bndry"
	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/geom"
	"github.com/stretchr/testify/require"
)

func cell2(lx, ly, hx, hy int) geom.Box {
	return geom.NewCellBox(2, geom.IntVect{lx, ly}, geom.IntVect{hx, hy})
}

// newBndry builds boundary data for boxes in domain, every face Dirichlet
// at the cell wall with value 0.
func newBndry(t *testing.T, domain geom.Box, opts []geom.GeometryOption, boxes ...geom.Box) *bndry.BndryData {
	t.Helper()
	ba, err := geom.NewBoxArray(boxes...)
	require.NoError(t, err)
	bd, err := bndry.New(ba, 1, geom.NewGeometry(domain, opts...))
	require.NoError(t, err)
	bd.SetAllDirichlet(0, 0)
	return bd
}

// setAll sets every face of every grid to bc with value v.
func setAll(bd *bndry.BndryData, bc bndry.BoundCond, v float64) {
	for gn := 0; gn < bd.BoxArray().Len(); gn++ {
		for _, o := range geom.Orientations(bd.BoxArray().Dim()) {
			bd.SetBoundCond(o, gn, 0, bc)
			bd.SetValue(o, gn, v)
		}
	}
}

func fill(m *field.MultiFab, f func(p geom.IntVect) float64) {
	for _, i := range m.LocalIndices() {
		fab := m.Fab(i)
		fab.Box().ForEach(func(p geom.IntVect) { fab.Set(p, f(p)) })
	}
}

func randomize(m *field.MultiFab, rng *rand.Rand, lo, hi float64) {
	fill(m, func(geom.IntVect) float64 { return lo + (hi-lo)*rng.Float64() })
}
