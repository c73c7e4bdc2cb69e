// SPDX-License-Identifier: MIT

package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/geom"
)

// dumpASCII writes the valid cells of every local box of m, one
// "(i,j) value" line per cell after a box header.
func dumpASCII(w io.Writer, m *field.MultiFab) error {
	bw := bufio.NewWriter(w)
	for _, i := range m.LocalIndices() {
		fab := m.Fab(i)
		box := fab.Box()
		fmt.Fprintf(bw, "box %d %v\n", i, box)
		box.ForEach(func(p geom.IntVect) {
			fmt.Fprintf(bw, "%v %.15g\n", p[:box.Dim()], fab.At(p))
		})
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("mgdriver: dump: %w", err)
	}
	return nil
}
