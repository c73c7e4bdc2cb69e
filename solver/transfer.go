// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"

	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/geom"
	"github.com/katalvlaran/amrsolve/parallel"
)

// Coarse box i is fine box i coarsened by 2, on the same rank, so both
// transfers are box-local.

// restrict sets every coarse cell to the mean of its 2^dim fine children.
func restrict(coarse, fine *field.MultiFab, workers int) {
	dim := fine.BoxArray().Dim()
	kids := geom.ChildOffsets(dim, -1)
	w := 1 / float64(len(kids))
	local := coarse.LocalIndices()
	forEachBox(len(local), workers, func(k int) {
		gn := local[k]
		cf, ff := coarse.Fab(gn), fine.Fab(gn)
		cf.Box().ForEach(func(p geom.IntVect) {
			base := p.Refine(2)
			s := 0.0
			for _, off := range kids {
				s += ff.At(base.Add(off))
			}
			cf.Set(p, s*w)
		})
	})
}

// prolongAdd adds to every fine cell the value of its coarse parent.
func prolongAdd(fine, coarse *field.MultiFab, workers int) {
	local := fine.LocalIndices()
	forEachBox(len(local), workers, func(k int) {
		gn := local[k]
		ff, cf := fine.Fab(gn), coarse.Fab(gn)
		field.ForRows(ff.Box(), func(p geom.IntVect, n int) {
			row := ff.Row(p, n)
			q := p
			for i := range row {
				q[0] = p[0] + i
				row[i] += cf.At(q.Coarsen(2))
			}
		})
	})
}

// forEachBox fans fn out over n boxes. fn cannot fail; a panic inside it
// propagates on the caller's goroutine.
func forEachBox(n, workers int, fn func(k int)) {
	err := parallel.ForEach(n, workers, func(k int) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("solver: box %d: %v", k, r)
			}
		}()
		fn(k)
		return nil
	})
	if err != nil {
		panic(err)
	}
}
