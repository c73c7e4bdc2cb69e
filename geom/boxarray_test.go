// SPDX-License-Identifier: MIT

package geom_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/katalvlaran/amrsolve/geom"
	"github.com/stretchr/testify/require"
)

var boxCmp = cmp.Comparer(func(a, b geom.Box) bool { return a.Equal(b) })

// TestNewBoxArrayValidation covers the sentinel errors.
func TestNewBoxArrayValidation(t *testing.T) {
	_, err := geom.NewBoxArray()
	require.ErrorIs(t, err, geom.ErrEmptyBoxArray)

	_, err = geom.NewBoxArray(cell2(0, 0, 3, 3), cell2(3, 3, 5, 5))
	require.ErrorIs(t, err, geom.ErrOverlap)

	_, err = geom.NewBoxArray(cell2(0, 0, 3, 3), cell2(0, 0, 3, 3).SurroundingNodes(0).Shift(0, 10))
	require.ErrorIs(t, err, geom.ErrDimMismatch)

	ba, err := geom.NewBoxArray(cell2(0, 0, 3, 3), cell2(4, 0, 7, 3))
	require.NoError(t, err)
	require.Equal(t, 2, ba.Len())
	require.Equal(t, 32, ba.NumPts())
	require.Equal(t, cell2(0, 0, 7, 3), ba.MinimalBox())
}

// TestBoxArrayCoarsenKeepsOwners checks derived arrays.
func TestBoxArrayCoarsenKeepsOwners(t *testing.T) {
	ba, err := geom.NewBoxArray(cell2(0, 0, 7, 7), cell2(8, 0, 15, 7))
	require.NoError(t, err)
	require.NoError(t, ba.SetOwners([]int{0, 1}))

	c := ba.Coarsen(2)
	want := []geom.Box{cell2(0, 0, 3, 3), cell2(4, 0, 7, 3)}
	if diff := cmp.Diff(want, c.Boxes(), boxCmp); diff != "" {
		t.Fatalf("coarsened boxes mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 1, c.Owner(1))
	require.True(t, ba.CoarsenableBy(2))
	require.False(t, ba.Equal(c))
	require.True(t, c.Equal(ba.Coarsen(2)))

	require.ErrorIs(t, ba.SetOwners([]int{0}), geom.ErrBadOwners)
	require.ErrorIs(t, ba.SetOwners([]int{0, -1}), geom.ErrBadOwners)
}

// TestDistributeBalances checks the greedy largest-first assignment.
func TestDistributeBalances(t *testing.T) {
	ba, err := geom.NewBoxArray(
		cell2(0, 0, 7, 7),   // 64
		cell2(8, 0, 11, 7),  // 32
		cell2(12, 0, 15, 7), // 32
	)
	require.NoError(t, err)
	ba.Distribute(2)
	require.Equal(t, 0, ba.Owner(0))
	require.Equal(t, 1, ba.Owner(1))
	require.Equal(t, 1, ba.Owner(2))
}

// TestIntersections lists overlaps in index order.
func TestIntersections(t *testing.T) {
	ba, err := geom.NewBoxArray(cell2(0, 0, 3, 3), cell2(4, 0, 7, 3), cell2(20, 20, 21, 21))
	require.NoError(t, err)
	hits := ba.Intersections(cell2(3, 1, 4, 1))
	require.Len(t, hits, 2)
	require.Equal(t, 0, hits[0].Index)
	require.Equal(t, cell2(3, 1, 3, 1), hits[0].Box)
	require.Equal(t, cell2(4, 1, 4, 1), hits[1].Box)
}
