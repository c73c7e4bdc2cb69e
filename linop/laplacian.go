// SPDX-License-Identifier: MIT

package linop

import (
	"github.com/katalvlaran/amrsolve/bndry"
	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/geom"
)

// Laplacian is the constant-coefficient ∇² with the standard 2·D+1 point
// stencil.
type Laplacian struct {
	levels
}

// NewLaplacian builds a Laplacian on the boxes of bd. The grid spacing
// comes from the geometry of bd unless WithCellSize overrides it.
func NewLaplacian(bd *bndry.BndryData, opts ...Option) *Laplacian {
	return &Laplacian{levels: newLevels(bd, opts)}
}

// PrepareForLevel materializes levels up to level.
func (op *Laplacian) PrepareForLevel(level int) { op.prepareLevels(level) }

// Apply sets out := ∇²in on level.
func (op *Laplacian) Apply(out, in *field.MultiFab, level int, mode BCMode) {
	op.ApplyBC(in, level, mode)
	lev := op.lv[level]
	op.mustMatch("Apply", lev, out)
	for _, gn := range in.LocalIndices() {
		op.stencil(out.Fab(gn), in.Fab(gn), nil, lev)
	}
}

// Residual sets res := rhs - ∇²soln on level in one pass per box.
func (op *Laplacian) Residual(res, rhs, soln *field.MultiFab, level int, mode BCMode) {
	op.ApplyBC(soln, level, mode)
	lev := op.lv[level]
	op.mustMatch("Residual", lev, res)
	op.mustMatch("Residual", lev, rhs)
	for _, gn := range soln.LocalIndices() {
		op.stencil(res.Fab(gn), soln.Fab(gn), rhs.Fab(gn), lev)
	}
}

// stencil writes ∇²in, or rhs - ∇²in when rhs is non-nil, into out.
func (op *Laplacian) stencil(out, in, rhs *field.Fab, lev *levelData) {
	inv := op.invH2(lev)
	dim := op.dim
	id, od := in.Data(), out.Data()
	field.ForRows(in.Box(), func(p geom.IntVect, n int) {
		ci, co := in.Index(p), out.Index(p)
		var rd []float64
		if rhs != nil {
			rd = rhs.Row(p, n)
		}
		for i := 0; i < n; i++ {
			c := ci + i
			v := 0.0
			for d := 0; d < dim; d++ {
				s := in.Stride(d)
				v += (id[c+s] - 2*id[c] + id[c-s]) * inv[d]
			}
			if rd != nil {
				v = rd[i] - v
			}
			od[co+i] = v
		}
	})
}

// Smooth runs a red and then a black Gauss-Seidel half-sweep, each after a
// fresh ApplyBC.
func (op *Laplacian) Smooth(soln, rhs *field.MultiFab, level int, mode BCMode) {
	for color := 0; color < 2; color++ {
		op.ApplyBC(soln, level, mode)
		lev := op.lv[level]
		op.mustMatch("Smooth", lev, rhs)
		for _, gn := range soln.LocalIndices() {
			op.relax(soln.Fab(gn), rhs.Fab(gn), gn, lev, color)
		}
	}
}

// relax updates the cells of one color of grid gn.
func (op *Laplacian) relax(phi, rhs *field.Fab, gn int, lev *levelData, color int) {
	inv := op.invH2(lev)
	dim := op.dim
	valid := phi.Box()
	dlo, dhi := faceDens(lev, gn, dim)
	pd := phi.Data()
	field.ForRows(valid, func(p geom.IntVect, n int) {
		start := (p[0] + p[1] + p[2] + color) & 1
		for i := start; i < n; i += 2 {
			q := p
			q[0] += i
			c := phi.Index(q)
			lap, diag := 0.0, 0.0
			for d := 0; d < dim; d++ {
				s := phi.Stride(d)
				lap += (pd[c+s] - 2*pd[c] + pd[c-s]) * inv[d]
				diag -= 2 * inv[d]
				if q[d] == valid.LoDir(d) {
					diag += dlo[d].At(q.Sub(geom.Unit(d))) * inv[d]
				}
				if q[d] == valid.HiDir(d) {
					diag += dhi[d].At(q.Add(geom.Unit(d))) * inv[d]
				}
			}
			pd[c] += (rhs.At(q) - lap) / diag
		}
	})
}

// Norm is Σ_d 4/h_d², the max absolute row sum of the stencil.
func (op *Laplacian) Norm(level int) float64 {
	inv := op.invH2(op.level(level))
	s := 0.0
	for d := 0; d < op.dim; d++ {
		s += 4 * inv[d]
	}
	return s
}

// String dumps the level cache.
func (op *Laplacian) String() string { return op.describe("Laplacian") }

// faceDens returns the relaxation registers of the low and high faces of
// grid gn, indexed by direction.
func faceDens(lev *levelData, gn, dim int) (lo, hi [geom.MaxSpaceDim]*field.Fab) {
	for d := 0; d < dim; d++ {
		lo[d] = lev.den.at(gn, geom.NewOrientation(d, geom.Low).Index(dim))
		hi[d] = lev.den.at(gn, geom.NewOrientation(d, geom.High).Index(dim))
	}
	return lo, hi
}
