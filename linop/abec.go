// SPDX-License-Identifier: MIT

package linop

import (
	"fmt"
	"math"

	"github.com/katalvlaran/amrsolve/bndry"
	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/geom"
)

const (
	// DefaultAlpha, DefaultBeta, DefaultACoef and DefaultBCoef give
	// ABecLaplacian the operator -∇² until coefficients are set.
	DefaultAlpha = 1.0
	DefaultBeta  = 1.0
	DefaultACoef = 0.0
	DefaultBCoef = 1.0
)

// ABecLaplacian is alpha·a·φ − beta·∇·(b∇φ). a is cell-centred; b[d] lives
// on the faces normal to d.
type ABecLaplacian struct {
	levels
	alpha, beta float64
	a           []*field.MultiFab                   // per level
	b           [][geom.MaxSpaceDim]*field.MultiFab // per level, per direction
}

// NewABecLaplacian builds the operator on the boxes of bd with the default
// scalars and coefficients.
func NewABecLaplacian(bd *bndry.BndryData, opts ...Option) *ABecLaplacian {
	op := &ABecLaplacian{levels: newLevels(bd, opts), alpha: DefaultAlpha, beta: DefaultBeta}
	op.defaultCoefficients()
	return op
}

func (op *ABecLaplacian) defaultCoefficients() {
	ba := op.lv[0].ba
	a := field.NewMultiFab(ba, 0, field.WithComm(op.opts.comm))
	a.SetVal(DefaultACoef)
	var b [geom.MaxSpaceDim]*field.MultiFab
	for d := 0; d < op.dim; d++ {
		b[d] = field.NewMultiFab(ba.SurroundingNodes(d), 0, field.WithComm(op.opts.comm))
		b[d].SetVal(DefaultBCoef)
	}
	op.a = []*field.MultiFab{a}
	op.b = [][geom.MaxSpaceDim]*field.MultiFab{b}
}

// SetScalars sets alpha and beta.
func (op *ABecLaplacian) SetScalars(alpha, beta float64) {
	op.alpha, op.beta = alpha, beta
	op.gen++
}

// Scalars returns alpha and beta.
func (op *ABecLaplacian) Scalars() (alpha, beta float64) { return op.alpha, op.beta }

// SetACoefficients copies a (cell-centred, level-0 boxes) into the operator
// and drops coarse coefficient caches.
func (op *ABecLaplacian) SetACoefficients(a *field.MultiFab) {
	if !a.BoxArray().Equal(op.lv[0].ba) {
		panic("linop: SetACoefficients: a must be cell-centred on the level-0 boxes")
	}
	op.a[0].Copy(a)
	op.a = op.a[:1]
	op.gen++
}

// SetBCoefficients copies b[d] (face-centred in d, level-0 boxes) into the
// operator and drops coarse coefficient caches.
func (op *ABecLaplacian) SetBCoefficients(b []*field.MultiFab) {
	if len(b) != op.dim {
		panic(fmt.Sprintf("linop: SetBCoefficients: want %d face fields, got %d", op.dim, len(b)))
	}
	for d := 0; d < op.dim; d++ {
		if !b[d].BoxArray().Equal(op.lv[0].ba.SurroundingNodes(d)) {
			panic(fmt.Sprintf("linop: SetBCoefficients: b[%d] must be face-centred in direction %d", d, d))
		}
		op.b[0][d].Copy(b[d])
	}
	op.b = op.b[:1]
	op.gen++
}

// SetCoefficients sets both a and b.
func (op *ABecLaplacian) SetCoefficients(a *field.MultiFab, b []*field.MultiFab) {
	op.SetACoefficients(a)
	op.SetBCoefficients(b)
}

// ACoefficients returns the a field of level (preparing it if needed).
func (op *ABecLaplacian) ACoefficients(level int) *field.MultiFab {
	op.PrepareForLevel(level)
	return op.a[level]
}

// BCoefficients returns b[dir] of level (preparing it if needed).
func (op *ABecLaplacian) BCoefficients(level, dir int) *field.MultiFab {
	op.PrepareForLevel(level)
	return op.b[level][dir]
}

// SetBndryData rebinds the boundary data. When the boxes change, the
// coefficients return to their defaults; otherwise only coarse levels are
// dropped.
func (op *ABecLaplacian) SetBndryData(bd *bndry.BndryData) {
	same := bd != nil && bd.BoxArray().Equal(op.lv[0].ba)
	op.levels.SetBndryData(bd)
	if !same {
		op.defaultCoefficients()
		return
	}
	op.a = op.a[:1]
	op.b = op.b[:1]
}

// PrepareForLevel materializes levels and their coefficients up to level.
func (op *ABecLaplacian) PrepareForLevel(level int) {
	op.prepareLevels(level)
	for k := len(op.a); k <= level; k++ {
		op.a = append(op.a, op.MakeCoefficients(op.a[k-1], k))
	}
	for k := len(op.b); k <= level; k++ {
		var b [geom.MaxSpaceDim]*field.MultiFab
		for d := 0; d < op.dim; d++ {
			b[d] = op.MakeCoefficients(op.b[k-1][d], k)
		}
		op.b = append(op.b, b)
	}
}

// Apply sets out := (alpha·a − beta·∇·b∇) in on level.
func (op *ABecLaplacian) Apply(out, in *field.MultiFab, level int, mode BCMode) {
	op.PrepareForLevel(level)
	op.ApplyBC(in, level, mode)
	lev := op.lv[level]
	op.mustMatch("Apply", lev, out)
	for _, gn := range in.LocalIndices() {
		op.stencil(out.Fab(gn), in.Fab(gn), nil, gn, level)
	}
}

// Residual sets res := rhs − L(soln) on level in one pass per box.
func (op *ABecLaplacian) Residual(res, rhs, soln *field.MultiFab, level int, mode BCMode) {
	op.PrepareForLevel(level)
	op.ApplyBC(soln, level, mode)
	lev := op.lv[level]
	op.mustMatch("Residual", lev, res)
	op.mustMatch("Residual", lev, rhs)
	for _, gn := range soln.LocalIndices() {
		op.stencil(res.Fab(gn), soln.Fab(gn), rhs.Fab(gn), gn, level)
	}
}

func (op *ABecLaplacian) stencil(out, in, rhs *field.Fab, gn, level int) {
	inv := op.invH2(op.lv[level])
	dim := op.dim
	a := op.a[level].Fab(gn)
	b := op.b[level]
	alpha, beta := op.alpha, op.beta
	id := in.Data()
	field.ForRows(in.Box(), func(p geom.IntVect, n int) {
		for i := 0; i < n; i++ {
			q := p
			q[0] += i
			c := in.Index(q)
			v := alpha * a.At(q) * id[c]
			for d := 0; d < dim; d++ {
				s := in.Stride(d)
				blo := b[d].Fab(gn).At(q)
				bhi := b[d].Fab(gn).At(q.Add(geom.Unit(d)))
				v -= beta * inv[d] * (bhi*(id[c+s]-id[c]) - blo*(id[c]-id[c-s]))
			}
			if rhs != nil {
				v = rhs.At(q) - v
			}
			out.Set(q, v)
		}
	})
}

// Smooth runs a red and then a black Gauss-Seidel half-sweep, each after a
// fresh ApplyBC.
func (op *ABecLaplacian) Smooth(soln, rhs *field.MultiFab, level int, mode BCMode) {
	op.PrepareForLevel(level)
	for color := 0; color < 2; color++ {
		op.ApplyBC(soln, level, mode)
		lev := op.lv[level]
		op.mustMatch("Smooth", lev, rhs)
		for _, gn := range soln.LocalIndices() {
			op.relax(soln.Fab(gn), rhs.Fab(gn), gn, level, color)
		}
	}
}

func (op *ABecLaplacian) relax(phi, rhs *field.Fab, gn, level, color int) {
	lev := op.lv[level]
	inv := op.invH2(lev)
	dim := op.dim
	valid := phi.Box()
	dlo, dhi := faceDens(lev, gn, dim)
	a := op.a[level].Fab(gn)
	b := op.b[level]
	alpha, beta := op.alpha, op.beta
	pd := phi.Data()
	field.ForRows(valid, func(p geom.IntVect, n int) {
		start := (p[0] + p[1] + p[2] + color) & 1
		for i := start; i < n; i += 2 {
			q := p
			q[0] += i
			c := phi.Index(q)
			lq := alpha * a.At(q) * pd[c]
			diag := alpha * a.At(q)
			for d := 0; d < dim; d++ {
				s := phi.Stride(d)
				e := geom.Unit(d)
				blo := b[d].Fab(gn).At(q)
				bhi := b[d].Fab(gn).At(q.Add(e))
				lq -= beta * inv[d] * (bhi*(pd[c+s]-pd[c]) - blo*(pd[c]-pd[c-s]))
				diag += beta * inv[d] * (blo + bhi)
				if q[d] == valid.LoDir(d) {
					diag -= beta * inv[d] * blo * dlo[d].At(q.Sub(e))
				}
				if q[d] == valid.HiDir(d) {
					diag -= beta * inv[d] * bhi * dhi[d].At(q.Add(e))
				}
			}
			pd[c] += (rhs.At(q) - lq) / diag
		}
	})
}

// Norm is the max absolute row sum over the cells of level.
func (op *ABecLaplacian) Norm(level int) float64 {
	op.PrepareForLevel(level)
	inv := op.invH2(op.lv[level])
	a := op.a[level]
	b := op.b[level]
	r := 0.0
	for _, gn := range a.LocalIndices() {
		af := a.Fab(gn)
		af.Box().ForEach(func(q geom.IntVect) {
			diag := op.alpha * af.At(q)
			off := 0.0
			for d := 0; d < op.dim; d++ {
				blo := b[d].Fab(gn).At(q)
				bhi := b[d].Fab(gn).At(q.Add(geom.Unit(d)))
				diag += op.beta * inv[d] * (blo + bhi)
				off += math.Abs(op.beta) * inv[d] * (math.Abs(blo) + math.Abs(bhi))
			}
			r = math.Max(r, math.Abs(diag)+off)
		})
	}
	return op.opts.comm.ReduceMax(r)
}

// String dumps the level cache and the scalars.
func (op *ABecLaplacian) String() string {
	return op.describe("ABecLaplacian") + fmt.Sprintf("  alpha=%g beta=%g\n", op.alpha, op.beta)
}
