// SPDX-License-Identifier: MIT

package solver

import (
	"testing"

	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/geom"
	"github.com/stretchr/testify/require"
)

// TestForEachBoxPanicsOnCaller: a panic in a worker comes back on the
// calling goroutine with the box index attached.
func TestForEachBoxPanicsOnCaller(t *testing.T) {
	var hits [4]int
	forEachBox(len(hits), 4, func(k int) { hits[k]++ })
	require.Equal(t, [4]int{1, 1, 1, 1}, hits)

	require.PanicsWithError(t, "solver: box 2: boom", func() {
		forEachBox(4, 4, func(k int) {
			if k == 2 {
				panic("boom")
			}
		})
	})
}

func TestRestrictAndProlong(t *testing.T) {
	fine, err := geom.NewBoxArray(
		geom.NewCellBox(2, geom.IntVect{0, 0}, geom.IntVect{7, 3}),
		geom.NewCellBox(2, geom.IntVect{8, 0}, geom.IntVect{11, 3}))
	require.NoError(t, err)
	coarse := fine.Coarsen(2)

	f := field.NewMultiFab(fine, 0)
	for _, i := range f.LocalIndices() {
		fab := f.Fab(i)
		// x-linear data averages to the value at the coarse cell centre.
		fab.Box().ForEach(func(p geom.IntVect) { fab.Set(p, float64(p[0])) })
	}
	c := field.NewMultiFab(coarse, 0)
	restrict(c, f, 2)
	for _, i := range c.LocalIndices() {
		fab := c.Fab(i)
		fab.Box().ForEach(func(p geom.IntVect) {
			require.Equal(t, float64(2*p[0])+0.5, fab.At(p))
		})
	}

	c.SetVal(3)
	f.SetVal(1)
	prolongAdd(f, c, 0)
	require.Equal(t, 4.0, f.Max())
	require.Equal(t, 4.0, f.Min())
}
