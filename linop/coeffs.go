// SPDX-License-Identifier: MIT

package linop

import (
	"fmt"

	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/geom"
)

// MakeCoefficients restricts a coefficient field living on level-1 to
// level. Cell-centred fields average their 2^D children. Fields
// node-centred in exactly one direction d average the 2^(D-1) fine faces
// that coincide with each coarse face, harmonically when the operator was
// built WithHarmonicAverage(true). Any other centring panics.
func (l *levels) MakeCoefficients(fine *field.MultiFab, level int) *field.MultiFab {
	if level < 1 {
		panic(fmt.Sprintf("linop: MakeCoefficients to level %d", level))
	}
	typ := fine.BoxArray().Type()
	cba := l.BoxArray(level)
	fba := l.BoxArray(level - 1)

	if typ.IsCell() {
		if !fine.BoxArray().Equal(fba) {
			panic("linop: MakeCoefficients: cell field does not live on the finer level")
		}
		coarse := field.NewMultiFab(cba, 0, field.WithComm(l.opts.comm))
		for _, gn := range coarse.LocalIndices() {
			averageCells(coarse.Fab(gn), fine.Fab(gn), l.dim)
		}
		return coarse
	}

	dir := -1
	for d := 0; d < l.dim; d++ {
		if typ.IsNode(d) {
			if dir >= 0 {
				panic(fmt.Sprintf("linop: MakeCoefficients: unsupported index type %b", typ))
			}
			dir = d
		}
	}
	if dir < 0 || typ >= 1<<uint(l.dim) {
		panic(fmt.Sprintf("linop: MakeCoefficients: unsupported index type %b", typ))
	}
	if !fine.BoxArray().Equal(fba.SurroundingNodes(dir)) {
		panic("linop: MakeCoefficients: face field does not live on the finer level")
	}
	coarse := field.NewMultiFab(cba.SurroundingNodes(dir), 0, field.WithComm(l.opts.comm))
	for _, gn := range coarse.LocalIndices() {
		averageFaces(coarse.Fab(gn), fine.Fab(gn), dir, l.dim, l.opts.harmonic)
	}
	return coarse
}

// averageCells sets each coarse cell to the mean of its fine children.
func averageCells(coarse, fine *field.Fab, dim int) {
	children := geom.ChildOffsets(dim, -1)
	w := 1 / float64(len(children))
	coarse.Box().ForEach(func(p geom.IntVect) {
		base := p.Refine(2)
		s := 0.0
		for _, off := range children {
			s += fine.At(base.Add(off))
		}
		coarse.Set(p, s*w)
	})
}

// averageFaces sets each coarse face normal to dir to the (arithmetic or
// harmonic) mean of the coincident fine faces.
func averageFaces(coarse, fine *field.Fab, dir, dim int, harmonic bool) {
	children := geom.ChildOffsets(dim, dir)
	n := float64(len(children))
	coarse.Box().ForEach(func(p geom.IntVect) {
		base := p.Refine(2)
		s := 0.0
		for _, off := range children {
			v := fine.At(base.Add(off))
			if harmonic {
				v = 1 / v
			}
			s += v
		}
		if harmonic {
			coarse.Set(p, n/s)
		} else {
			coarse.Set(p, s/n)
		}
	})
}
