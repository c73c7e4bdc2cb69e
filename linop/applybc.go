// SPDX-License-Identifier: MIT

package linop

import (
	"fmt"

	"github.com/katalvlaran/amrsolve/bndry"
	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/geom"
	"github.com/katalvlaran/amrsolve/parallel"
)

// ApplyBC fills the ghost ring of inout on level and records the
// relaxation coefficients for Smooth.
//
// Stage 1: contract checks (ghost width, mode/level, layout).
// Stage 2: exchange between boxes, then across periodic boundaries.
// Stage 3: per face orientation, in parallel: BC stencil where the mask is
// not Covered.
func (l *levels) ApplyBC(inout *field.MultiFab, level int, mode BCMode) {
	if inout.NGrow() < Grow {
		panic(fmt.Sprintf("linop: ApplyBC needs %d ghost cells, field has %d", Grow, inout.NGrow()))
	}
	if mode == Inhomogeneous && level > 0 {
		panic(fmt.Sprintf("linop: inhomogeneous boundary conditions on level %d", level))
	}
	lev := l.level(level)
	l.mustMatch("ApplyBC", lev, inout)

	inout.FillBoundary()
	inout.FillPeriodicBoundary(lev.geom)

	inhomog := mode == Inhomogeneous
	faces := geom.Orientations(l.dim)
	err := parallel.ForEach(len(faces), l.opts.workers, func(k int) error {
		for _, gn := range inout.LocalIndices() {
			if err := l.applyFace(lev, inout.Fab(gn), gn, faces[k], inhomog); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		panic(err)
	}
}

// applyFace writes the ghost cells outside face o of grid gn.
func (l *levels) applyFace(lev *levelData, fab *field.Fab, gn int, o geom.Orientation, inhomog bool) error {
	face := o.Index(l.dim)
	mask := lev.masks.at(gn, face)
	den := lev.den.at(gn, face)
	d := o.Dir()
	valid := fab.Box()
	inward := o.Normal().Scale(-1)
	bct := l.bd.BoundCond(o, gn, 0)

	var vals *field.Fab
	if inhomog {
		vals = l.bd.Values(o, gn, 0)
	}
	bcval := func(p geom.IntVect) float64 {
		if vals == nil {
			return 0
		}
		return vals.At(p)
	}

	switch bct {
	case bndry.Dirichlet:
		npts := min(l.opts.maxOrder-1, valid.Length(d))
		coef, cb := dirichletStencil(l.bd.BoundLoc(o, gn)/lev.h[d], npts)
		valid.AdjCell(o, 1).ForEach(func(p geom.IntVect) {
			if mask.At(p) == bndry.Covered {
				den.Set(p, 0)
				return
			}
			v := cb * bcval(p)
			q := p
			for _, c := range coef {
				q = q.Add(inward)
				v += c * fab.At(q)
			}
			fab.Set(p, v)
			den.Set(p, coef[0])
		})
	case bndry.Neumann:
		h := lev.h[d]
		valid.AdjCell(o, 1).ForEach(func(p geom.IntVect) {
			if mask.At(p) == bndry.Covered {
				den.Set(p, 0)
				return
			}
			fab.Set(p, fab.At(p.Add(inward))+h*bcval(p))
			den.Set(p, 1)
		})
	case bndry.ReflectOdd:
		valid.AdjCell(o, 1).ForEach(func(p geom.IntVect) {
			if mask.At(p) == bndry.Covered {
				den.Set(p, 0)
				return
			}
			fab.Set(p, -fab.At(p.Add(inward)))
			den.Set(p, -1)
		})
	default:
		return fmt.Errorf("linop: grid %d face %v: unsupported boundary condition %v", gn, o, bct)
	}
	return nil
}

// dirichletStencil returns the Lagrange weights that extrapolate to the
// ghost centre from the boundary point and npts interior cell centres.
// Positions are in cells along the inward normal, measured from the face:
// boundary at -loc, interior centres at 0.5, 1.5, ..., ghost at -0.5.
// interior[0] multiplies the cell adjacent to the face.
func dirichletStencil(loc float64, npts int) (interior []float64, boundary float64) {
	x := make([]float64, npts+1)
	x[0] = -loc
	for m := 0; m < npts; m++ {
		x[m+1] = float64(m) + 0.5
	}
	const xInt = -0.5
	w := make([]float64, npts+1)
	for j := range x {
		w[j] = 1
		for i := range x {
			if i != j {
				w[j] *= (xInt - x[i]) / (x[j] - x[i])
			}
		}
	}
	return w[1:], w[0]
}
