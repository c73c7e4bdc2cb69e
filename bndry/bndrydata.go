// SPDX-License-Identifier: MIT

package bndry

import (
	"fmt"
	"io"

	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/geom"
	"github.com/katalvlaran/amrsolve/parallel"
)

// BndryData is the boundary description of one level. Per-face storage is
// flat and indexed by (grid, face); per-component storage by
// (grid, face, comp).
type BndryData struct {
	ba    *geom.BoxArray
	geom  geom.Geometry
	ncomp int
	nface int

	masks  []*MaskFab   // [grid*nface + face]
	bcloc  []float64    // [grid*nface + face]
	bcond  []BoundCond  // [(grid*nface + face)*ncomp + comp]
	values []*field.Fab // [(grid*nface + face)*ncomp + comp]
}

// New allocates boundary data and runs Define.
func New(ba *geom.BoxArray, ncomp int, g geom.Geometry) (*BndryData, error) {
	bd := &BndryData{}
	if err := bd.Define(ba, ncomp, g); err != nil {
		return nil, err
	}
	return bd, nil
}

// Define (re)builds masks, boundary values and BC records for ba. Every BC
// record starts as Dirichlet at location 0 with value 0.
//
// Stage 1: validate boxes against the geometry.
// Stage 2: build one mask per (grid, face) strip (see package doc).
// Stage 3: allocate value registers on the one-cell ghost strips.
//
// Complexity: O(G² · F · S) for G grids, F faces, strip size S.
func (bd *BndryData) Define(ba *geom.BoxArray, ncomp int, g geom.Geometry) error {
	if ba == nil || ba.Len() == 0 {
		return ErrNilBoxArray
	}
	if ncomp < 1 {
		return fmt.Errorf("ncomp=%d: %w", ncomp, ErrBadNComp)
	}
	if ba.Dim() != g.Dim() || !ba.Type().IsCell() {
		return fmt.Errorf("boxes dim %d, geometry dim %d: %w", ba.Dim(), g.Dim(), ErrDimMismatch)
	}

	dim := ba.Dim()
	nface := 2 * dim
	ngrid := ba.Len()
	*bd = BndryData{
		ba:     ba,
		geom:   g,
		ncomp:  ncomp,
		nface:  nface,
		masks:  make([]*MaskFab, ngrid*nface),
		bcloc:  make([]float64, ngrid*nface),
		bcond:  make([]BoundCond, ngrid*nface*ncomp),
		values: make([]*field.Fab, ngrid*nface*ncomp),
	}
	for i := range bd.bcond {
		bd.bcond[i] = Dirichlet
	}

	for gn := 0; gn < ngrid; gn++ {
		box := ba.Box(gn)
		for _, o := range geom.Orientations(dim) {
			k := gn*nface + o.Index(dim)
			bd.masks[k] = buildMask(ba, g, box, o)
			for c := 0; c < ncomp; c++ {
				bd.values[k*ncomp+c] = field.NewFab(box.AdjCell(o, 1), 0)
			}
		}
	}
	return nil
}

// buildMask classifies the widened strip outside face o of box.
func buildMask(ba *geom.BoxArray, g geom.Geometry, box geom.Box, o geom.Orientation) *MaskFab {
	strip := box.AdjCell(o, 1)
	for d := 0; d < box.Dim(); d++ {
		if d != o.Dir() {
			strip = strip.GrowDir(d, NTangHalfWidth)
		}
	}
	domain := g.Domain()
	m := NewMaskFab(strip, OutsideDomain)
	m.SetBox(domain, NotCovered)

	// Periodic images of the strip that land in the domain are interior.
	for _, s := range g.PeriodicShifts(domain, strip) {
		in := domain.Intersect(strip.ShiftVect(s))
		m.SetBox(in.ShiftVect(s.Scale(-1)), NotCovered)
	}

	for _, hit := range ba.Intersections(strip) {
		m.SetBox(hit.Box, Covered)
	}
	if g.IsAnyPeriodic() && !domain.ContainsBox(strip) {
		for j := 0; j < ba.Len(); j++ {
			src := ba.Box(j)
			for _, s := range g.PeriodicShifts(strip, src) {
				m.SetBox(src.ShiftVect(s), Covered)
			}
		}
	}
	return m
}

func (bd *BndryData) faceIndex(o geom.Orientation, grid int) int {
	if grid < 0 || grid >= bd.ba.Len() {
		panic(fmt.Sprintf("bndry: grid %d out of range [0,%d)", grid, bd.ba.Len()))
	}
	f := o.Index(bd.ba.Dim())
	if o.Dir() >= bd.ba.Dim() {
		panic(fmt.Sprintf("bndry: face %v out of range for dim %d", o, bd.ba.Dim()))
	}
	return grid*bd.nface + f
}

func (bd *BndryData) compIndex(o geom.Orientation, grid, comp int) int {
	if comp < 0 || comp >= bd.ncomp {
		panic(fmt.Sprintf("bndry: component %d out of range [0,%d)", comp, bd.ncomp))
	}
	return bd.faceIndex(o, grid)*bd.ncomp + comp
}

func (bd *BndryData) BoxArray() *geom.BoxArray { return bd.ba }
func (bd *BndryData) Geometry() geom.Geometry { return bd.geom }
func (bd *BndryData) NComp() int { return bd.ncomp }

// Mask returns the mask of face o of grid.
func (bd *BndryData) Mask(o geom.Orientation, grid int) *MaskFab {
	return bd.masks[bd.faceIndex(o, grid)]
}

// SetBoundCond sets the BC type of (face, grid, comp).
func (bd *BndryData) SetBoundCond(o geom.Orientation, grid, comp int, bc BoundCond) {
	bd.bcond[bd.compIndex(o, grid, comp)] = bc
}

// BoundCond returns the BC type of (face, grid, comp).
func (bd *BndryData) BoundCond(o geom.Orientation, grid, comp int) BoundCond {
	return bd.bcond[bd.compIndex(o, grid, comp)]
}

// SetBoundLoc sets the distance from face o of grid to where the BC holds.
func (bd *BndryData) SetBoundLoc(o geom.Orientation, grid int, loc float64) {
	bd.bcloc[bd.faceIndex(o, grid)] = loc
}

// BoundLoc returns the boundary location of face o of grid.
func (bd *BndryData) BoundLoc(o geom.Orientation, grid int) float64 {
	return bd.bcloc[bd.faceIndex(o, grid)]
}

// SetValue sets every component of the boundary values of face o of grid.
func (bd *BndryData) SetValue(o geom.Orientation, grid int, v float64) {
	for c := 0; c < bd.ncomp; c++ {
		bd.values[bd.compIndex(o, grid, c)].SetVal(v)
	}
}

// Values returns the boundary value register of (face, grid, comp). It
// covers the one-cell ghost strip of the face; callers may write it to
// prescribe non-uniform values.
func (bd *BndryData) Values(o geom.Orientation, grid, comp int) *field.Fab {
	return bd.values[bd.compIndex(o, grid, comp)]
}

// SetAllDirichlet makes every face of every grid a Dirichlet face at loc
// with value v, for every component.
func (bd *BndryData) SetAllDirichlet(loc, v float64) {
	for gn := 0; gn < bd.ba.Len(); gn++ {
		for _, o := range geom.Orientations(bd.ba.Dim()) {
			bd.SetBoundLoc(o, gn, loc)
			bd.SetValue(o, gn, v)
			for c := 0; c < bd.ncomp; c++ {
				bd.SetBoundCond(o, gn, c, Dirichlet)
			}
		}
	}
}

// Clone returns a deep copy that shares only the immutable box array.
func (bd *BndryData) Clone() *BndryData {
	c := *bd
	c.masks = make([]*MaskFab, len(bd.masks))
	for i, m := range bd.masks {
		c.masks[i] = m.Clone()
	}
	c.bcloc = append([]float64(nil), bd.bcloc...)
	c.bcond = append([]BoundCond(nil), bd.bcond...)
	c.values = make([]*field.Fab, len(bd.values))
	for i, v := range bd.values {
		nv := field.NewFab(v.Box(), 0)
		copy(nv.Data(), v.Data())
		c.values[i] = nv
	}
	return &c
}

// Format writes a human-readable dump of every face record. It refuses to
// run with more than one worker.
func (bd *BndryData) Format(w io.Writer, comm parallel.Communicator) error {
	if parallel.OrSerial(comm).Size() != 1 {
		return ErrNotSerial
	}
	dim := bd.ba.Dim()
	if _, err := fmt.Fprintf(w, "BndryData: %d grids, %d comps, domain %v\n",
		bd.ba.Len(), bd.ncomp, bd.geom.Domain()); err != nil {
		return err
	}
	for gn := 0; gn < bd.ba.Len(); gn++ {
		if _, err := fmt.Fprintf(w, "grid %d %v\n", gn, bd.ba.Box(gn)); err != nil {
			return err
		}
		for _, o := range geom.Orientations(dim) {
			m := bd.Mask(o, gn)
			_, err := fmt.Fprintf(w, "  %-3v loc=%g bc=%v mask %v covered=%d not_covered=%d outside=%d\n",
				o, bd.BoundLoc(o, gn), bd.BoundCond(o, gn, 0), m.Box(),
				m.Count(Covered), m.Count(NotCovered), m.Count(OutsideDomain))
			if err != nil {
				return err
			}
		}
	}
	return nil
}
