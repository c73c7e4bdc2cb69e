// SPDX-License-Identifier: MIT

package geom_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/katalvlaran/amrsolve/geom"
	"github.com/stretchr/testify/require"
)

// TestParseBox covers both textual variants and the failure modes.
func TestParseBox(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want geom.Box
		err  error
	}{
		{name: "cell 2d", in: "((0,0) (31,15) (0,0))", want: cell2(0, 0, 31, 15)},
		{name: "no type", in: "((1,2) (3,4))", want: cell2(1, 2, 3, 4)},
		{name: "spaces", in: " ( ( 1 , 2 ) ( 3 , 4 ) ) ", want: cell2(1, 2, 3, 4)},
		{name: "node x", in: "((0,0) (4,3) (1,0))", want: cell2(0, 0, 3, 3).SurroundingNodes(0)},
		{name: "3d", in: "((0,0,0) (1,1,1) (0,0,0))",
			want: geom.NewCellBox(3, geom.IntVect{}, geom.IntVect{1, 1, 1})},
		{name: "1d", in: "((0) (1))", err: geom.ErrBadBoxFormat},
		{name: "mixed dims", in: "((0,0) (1,1,1))", err: geom.ErrBadBoxFormat},
		{name: "bad int", in: "((0,a) (1,1))", err: geom.ErrBadBoxFormat},
		{name: "bad type", in: "((0,0) (1,1) (2,0))", err: geom.ErrBadBoxFormat},
		{name: "empty", in: "((2,0) (1,1))", err: geom.ErrEmptyBox},
		{name: "trailing", in: "((0,0) (1,1)) x", err: geom.ErrBadBoxFormat},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := geom.ParseBox(tc.in)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

// TestReadBoxListRoundTrip writes a list and reads it back.
func TestReadBoxListRoundTrip(t *testing.T) {
	domain := cell2(0, 0, 31, 31)
	boxes := []geom.Box{cell2(0, 0, 15, 31), cell2(16, 0, 31, 15)}

	var buf bytes.Buffer
	require.NoError(t, geom.WriteBoxList(&buf, domain, boxes))

	gotDomain, gotBoxes, err := geom.ReadBoxList(&buf)
	require.NoError(t, err)
	require.Equal(t, domain, gotDomain)
	if diff := cmp.Diff(boxes, gotBoxes, boxCmp); diff != "" {
		t.Fatalf("boxes mismatch (-want +got):\n%s", diff)
	}
}

// TestReadBoxListRejects checks the bogus-box and count errors.
func TestReadBoxListRejects(t *testing.T) {
	_, _, err := geom.ReadBoxList(strings.NewReader("((0,0) (7,7) (0,0))\n1\n((4,4) (8,8) (0,0))\n"))
	require.ErrorIs(t, err, geom.ErrBoxOutsideDomain)

	_, _, err = geom.ReadBoxList(strings.NewReader("((0,0) (7,7) (0,0))\nmany\n"))
	require.ErrorIs(t, err, geom.ErrBadBoxFormat)

	_, _, err = geom.ReadBoxList(strings.NewReader("((0,0) (7,7) (0,0))\n2\n((0,0) (3,3) (0,0))\n"))
	require.ErrorIs(t, err, geom.ErrBadBoxFormat) // second box missing
}
