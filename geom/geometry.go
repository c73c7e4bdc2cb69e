// SPDX-License-Identifier: MIT

package geom

import "fmt"

// Geometry is the computational domain of one level: the domain box,
// per-direction periodicity, and the physical extent [probLo, probHi].
type Geometry struct {
	domain   Box
	periodic [MaxSpaceDim]bool
	probLo   [MaxSpaceDim]float64
	probHi   [MaxSpaceDim]float64
}

// GeometryOption configures NewGeometry.
type GeometryOption func(*Geometry)

// WithPeriodic marks the listed directions periodic.
func WithPeriodic(dirs ...int) GeometryOption {
	return func(g *Geometry) {
		for _, d := range dirs {
			if d < 0 || d >= g.domain.Dim() {
				panic(fmt.Sprintf("geom: WithPeriodic direction %d out of range", d))
			}
			g.periodic[d] = true
		}
	}
}

// WithProbExtent sets the physical extent; lo and hi need Dim entries and
// hi > lo in every direction.
func WithProbExtent(lo, hi []float64) GeometryOption {
	return func(g *Geometry) {
		dim := g.domain.Dim()
		if len(lo) < dim || len(hi) < dim {
			panic("geom: WithProbExtent needs one bound per direction")
		}
		for d := 0; d < dim; d++ {
			if !(hi[d] > lo[d]) {
				panic(fmt.Sprintf("geom: WithProbExtent empty extent in direction %d", d))
			}
			g.probLo[d], g.probHi[d] = lo[d], hi[d]
		}
	}
}

// NewGeometry builds a geometry on a cell-centred domain. The default
// physical extent is the unit cube and no direction is periodic.
func NewGeometry(domain Box, opts ...GeometryOption) Geometry {
	if !domain.Ok() || !domain.Type().IsCell() {
		panic("geom: domain must be a non-empty cell-centred box")
	}
	g := Geometry{domain: domain}
	for d := 0; d < domain.Dim(); d++ {
		g.probHi[d] = 1
	}
	for _, opt := range opts {
		opt(&g)
	}
	return g
}

func (g Geometry) Domain() Box { return g.domain }
func (g Geometry) Dim() int { return g.domain.Dim() }
func (g Geometry) IsPeriodic(d int) bool { return g.periodic[d] }
func (g Geometry) ProbLo() [MaxSpaceDim]float64 { return g.probLo }
func (g Geometry) ProbHi() [MaxSpaceDim]float64 { return g.probHi }

// IsAnyPeriodic reports whether some direction wraps.
func (g Geometry) IsAnyPeriodic() bool {
	for d := 0; d < g.Dim(); d++ {
		if g.periodic[d] {
			return true
		}
	}
	return false
}

// Period is the domain length in direction d (0 if not periodic).
func (g Geometry) Period(d int) int {
	if !g.periodic[d] {
		return 0
	}
	return g.domain.Length(d)
}

// CellSize is the physical width of one cell per direction.
func (g Geometry) CellSize() [MaxSpaceDim]float64 {
	var h [MaxSpaceDim]float64
	for d := 0; d < g.Dim(); d++ {
		h[d] = (g.probHi[d] - g.probLo[d]) / float64(g.domain.Length(d))
	}
	return h
}

// CellCenter is the physical position of the centre of cell p.
func (g Geometry) CellCenter(p IntVect) [MaxSpaceDim]float64 {
	h := g.CellSize()
	var x [MaxSpaceDim]float64
	for d := 0; d < g.Dim(); d++ {
		x[d] = g.probLo[d] + (float64(p[d]-g.domain.LoDir(d))+0.5)*h[d]
	}
	return x
}

// Coarsen returns the geometry of the level coarser by r: same physical
// extent and periodicity, domain coarsened.
func (g Geometry) Coarsen(r int) Geometry {
	g.domain = g.domain.Coarsen(r)
	return g
}

// PeriodicShifts enumerates every non-zero shift built from
// {-period, 0, +period} in the periodic directions under which src,
// translated, intersects target. The result is empty for a non-periodic
// geometry.
func (g Geometry) PeriodicShifts(target, src Box) []IntVect {
	if !g.IsAnyPeriodic() {
		return nil
	}
	dim := g.Dim()
	var lim IntVect
	for d := 0; d < dim; d++ {
		if g.periodic[d] {
			lim[d] = 1
		}
	}
	var out []IntVect
	var k IntVect
	for k[2] = -lim[2]; k[2] <= lim[2]; k[2]++ {
		for k[1] = -lim[1]; k[1] <= lim[1]; k[1]++ {
			for k[0] = -lim[0]; k[0] <= lim[0]; k[0]++ {
				if k == (IntVect{}) {
					continue
				}
				var s IntVect
				for d := 0; d < dim; d++ {
					s[d] = k[d] * g.domain.Length(d)
				}
				if src.ShiftVect(s).Intersects(target) {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
