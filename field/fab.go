// SPDX-License-Identifier: MIT

package field

import (
	"fmt"

	"github.com/katalvlaran/amrsolve/geom"
)

// Fab is the data of one box plus nGrow ghost cells on every side.
type Fab struct {
	valid  geom.Box
	box    geom.Box // valid grown by nGrow
	nGrow  int
	stride geom.IntVect
	data   []float64
}

// NewFab allocates a zeroed Fab on valid with nGrow ghost cells.
func NewFab(valid geom.Box, nGrow int) *Fab {
	if !valid.Ok() {
		panic(fmt.Sprintf("field: NewFab on empty box %v", valid))
	}
	if nGrow < 0 {
		panic("field: NewFab with negative ghost width")
	}
	f := &Fab{valid: valid, box: valid.Grow(nGrow), nGrow: nGrow}
	s := 1
	for d := 0; d < geom.MaxSpaceDim; d++ {
		f.stride[d] = s
		if d < valid.Dim() {
			s *= f.box.Length(d)
		}
	}
	f.data = make([]float64, f.box.NumPts())
	return f
}

// Box is the valid region.
func (f *Fab) Box() geom.Box { return f.valid }

// GrownBox is the allocated region (valid plus ghosts).
func (f *Fab) GrownBox() geom.Box { return f.box }

// NGrow is the ghost width.
func (f *Fab) NGrow() int { return f.nGrow }

// Stride is the flat-index distance between neighbours in direction d.
func (f *Fab) Stride(d int) int { return f.stride[d] }

// Data exposes the flat storage.
func (f *Fab) Data() []float64 { return f.data }

// Index is the flat offset of p. p must lie in GrownBox.
func (f *Fab) Index(p geom.IntVect) int {
	lo := f.box.Lo()
	return (p[0]-lo[0])*f.stride[0] + (p[1]-lo[1])*f.stride[1] + (p[2]-lo[2])*f.stride[2]
}

func (f *Fab) At(p geom.IntVect) float64 { return f.data[f.Index(p)] }
func (f *Fab) Set(p geom.IntVect, v float64) { f.data[f.Index(p)] = v }
func (f *Fab) Add(p geom.IntVect, v float64) { f.data[f.Index(p)] += v }

// Row returns the n contiguous values starting at p along direction 0.
func (f *Fab) Row(p geom.IntVect, n int) []float64 {
	i := f.Index(p)
	return f.data[i : i+n : i+n]
}

// SetVal sets every value, ghosts included.
func (f *Fab) SetVal(v float64) {
	for i := range f.data {
		f.data[i] = v
	}
}

// SetValBox sets the values in b ∩ GrownBox.
func (f *Fab) SetValBox(b geom.Box, v float64) {
	ForRows(b.Intersect(f.box), func(p geom.IntVect, n int) {
		row := f.Row(p, n)
		for i := range row {
			row[i] = v
		}
	})
}

// CopyBox copies src into f over region, which must lie in both allocations.
func (f *Fab) CopyBox(src *Fab, region geom.Box) {
	ForRows(region, func(p geom.IntVect, n int) {
		copy(f.Row(p, n), src.Row(p, n))
	})
}

// CopyShifted fills region of f from src at p-shift.
func (f *Fab) CopyShifted(src *Fab, region geom.Box, shift geom.IntVect) {
	ForRows(region, func(p geom.IntVect, n int) {
		copy(f.Row(p, n), src.Row(p.Sub(shift), n))
	})
}

// ForRows calls fn once per x-row of region with the row start and length.
// Nothing happens for an empty region.
func ForRows(region geom.Box, fn func(p geom.IntVect, n int)) {
	if !region.Ok() {
		return
	}
	n := region.Length(0)
	lo, hi := region.Lo(), region.Hi()
	p := lo
	for p[2] = lo[2]; p[2] <= hi[2]; p[2]++ {
		for p[1] = lo[1]; p[1] <= hi[1]; p[1]++ {
			fn(p, n)
		}
	}
}
