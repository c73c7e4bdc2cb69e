// SPDX-License-Identifier: MIT

package field

import (
	"fmt"
	"math"

	"github.com/katalvlaran/amrsolve/geom"
	"github.com/katalvlaran/amrsolve/parallel"
	"gonum.org/v1/gonum/floats"
)

// Option configures a MultiFab.
type Option func(*MultiFab)

// WithComm sets the communicator used for reductions and ownership.
// The default is parallel.Serial().
func WithComm(c parallel.Communicator) Option {
	return func(m *MultiFab) { m.comm = parallel.OrSerial(c) }
}

// MultiFab is one Fab per box of a BoxArray. Only boxes owned by the local
// rank are allocated; Fab returns nil for the others.
type MultiFab struct {
	ba    *geom.BoxArray
	nGrow int
	fabs  []*Fab
	local []int
	comm  parallel.Communicator
}

// NewMultiFab allocates a zeroed MultiFab on ba with nGrow ghost cells.
func NewMultiFab(ba *geom.BoxArray, nGrow int, opts ...Option) *MultiFab {
	m := &MultiFab{ba: ba, nGrow: nGrow, comm: parallel.Serial()}
	for _, opt := range opts {
		opt(m)
	}
	m.fabs = make([]*Fab, ba.Len())
	for i := 0; i < ba.Len(); i++ {
		if ba.Owner(i) != m.comm.Rank() {
			continue
		}
		m.fabs[i] = NewFab(ba.Box(i), nGrow)
		m.local = append(m.local, i)
	}
	return m
}

// NewLike allocates a zeroed MultiFab with the layout and communicator of m
// and the given ghost width.
func NewLike(m *MultiFab, nGrow int) *MultiFab {
	return NewMultiFab(m.ba, nGrow, WithComm(m.comm))
}

func (m *MultiFab) BoxArray() *geom.BoxArray { return m.ba }
func (m *MultiFab) NGrow() int { return m.nGrow }
func (m *MultiFab) Len() int { return len(m.fabs) }
func (m *MultiFab) Fab(i int) *Fab { return m.fabs[i] }
func (m *MultiFab) Comm() parallel.Communicator { return m.comm }

// LocalIndices lists the boxes owned by this rank, ascending.
func (m *MultiFab) LocalIndices() []int { return m.local }

// SameLayout reports whether m and o live on the same boxes.
func (m *MultiFab) SameLayout(o *MultiFab) bool { return m.ba.Equal(o.ba) }

func (m *MultiFab) mustMatch(op string, o *MultiFab) {
	if !m.SameLayout(o) {
		panic(fmt.Sprintf("field: %s on mismatched box arrays", op))
	}
}

// forValidRows runs fn for every x-row of every local valid box.
func (m *MultiFab) forValidRows(fn func(i int, p geom.IntVect, n int)) {
	for _, i := range m.local {
		ForRows(m.ba.Box(i), func(p geom.IntVect, n int) { fn(i, p, n) })
	}
}

// SetVal sets every value, ghosts included.
func (m *MultiFab) SetVal(v float64) {
	for _, i := range m.local {
		m.fabs[i].SetVal(v)
	}
}

// SetValValid sets the valid region only.
func (m *MultiFab) SetValValid(v float64) {
	for _, i := range m.local {
		m.fabs[i].SetValBox(m.ba.Box(i), v)
	}
}

// Copy sets m := src on the valid region.
func (m *MultiFab) Copy(src *MultiFab) {
	m.mustMatch("Copy", src)
	m.forValidRows(func(i int, p geom.IntVect, n int) {
		copy(m.fabs[i].Row(p, n), src.fabs[i].Row(p, n))
	})
}

// Plus sets m += src on the valid region.
func (m *MultiFab) Plus(src *MultiFab) {
	m.mustMatch("Plus", src)
	m.forValidRows(func(i int, p geom.IntVect, n int) {
		floats.Add(m.fabs[i].Row(p, n), src.fabs[i].Row(p, n))
	})
}

// Scale sets m *= a on the valid region.
func (m *MultiFab) Scale(a float64) {
	m.forValidRows(func(i int, p geom.IntVect, n int) {
		floats.Scale(a, m.fabs[i].Row(p, n))
	})
}

// Sxay sets m := x + a*y on the valid region. m may alias x or y.
func (m *MultiFab) Sxay(x *MultiFab, a float64, y *MultiFab) {
	m.mustMatch("Sxay", x)
	m.mustMatch("Sxay", y)
	m.forValidRows(func(i int, p geom.IntVect, n int) {
		floats.AddScaledTo(m.fabs[i].Row(p, n), x.fabs[i].Row(p, n), a, y.fabs[i].Row(p, n))
	})
}

// Sub sets m := x - y on the valid region.
func (m *MultiFab) Sub(x, y *MultiFab) {
	m.mustMatch("Sub", x)
	m.mustMatch("Sub", y)
	m.forValidRows(func(i int, p geom.IntVect, n int) {
		floats.SubTo(m.fabs[i].Row(p, n), x.fabs[i].Row(p, n), y.fabs[i].Row(p, n))
	})
}

// Dot is the global valid-region inner product of m and o.
func (m *MultiFab) Dot(o *MultiFab) float64 {
	m.mustMatch("Dot", o)
	s := 0.0
	m.forValidRows(func(i int, p geom.IntVect, n int) {
		s += floats.Dot(m.fabs[i].Row(p, n), o.fabs[i].Row(p, n))
	})
	return m.comm.ReduceSum(s)
}

// NormInf is the global max |v| over valid regions.
func (m *MultiFab) NormInf() float64 {
	r := 0.0
	m.forValidRows(func(i int, p geom.IntVect, n int) {
		r = math.Max(r, floats.Norm(m.fabs[i].Row(p, n), math.Inf(1)))
	})
	return m.comm.ReduceMax(r)
}

// Norm2 is the global Euclidean norm over valid regions.
func (m *MultiFab) Norm2() float64 { return math.Sqrt(m.Dot(m)) }

// Max is the global maximum over valid regions.
func (m *MultiFab) Max() float64 {
	r := math.Inf(-1)
	m.forValidRows(func(i int, p geom.IntVect, n int) {
		r = math.Max(r, floats.Max(m.fabs[i].Row(p, n)))
	})
	return m.comm.ReduceMax(r)
}

// Min is the global minimum over valid regions.
func (m *MultiFab) Min() float64 {
	r := math.Inf(1)
	m.forValidRows(func(i int, p geom.IntVect, n int) {
		r = math.Min(r, floats.Min(m.fabs[i].Row(p, n)))
	})
	return -m.comm.ReduceMax(-r)
}

// FillBoundary copies the valid data of every other box into the ghost
// cells of each local box that it overlaps. Only locally owned donors are
// visible to the serial communicator.
func (m *MultiFab) FillBoundary() {
	if m.nGrow == 0 {
		return
	}
	for _, i := range m.local {
		dst := m.fabs[i]
		for _, hit := range m.ba.Intersections(dst.GrownBox()) {
			if hit.Index == i || m.fabs[hit.Index] == nil {
				continue
			}
			dst.CopyBox(m.fabs[hit.Index], hit.Box)
		}
	}
}

// FillPeriodicBoundary fills ghost cells that fall outside the domain of
// g with the valid data of the periodic images of every box.
func (m *MultiFab) FillPeriodicBoundary(g geom.Geometry) {
	if m.nGrow == 0 || !g.IsAnyPeriodic() {
		return
	}
	for _, i := range m.local {
		dst := m.fabs[i]
		grown := dst.GrownBox()
		for j := 0; j < m.ba.Len(); j++ {
			src := m.fabs[j]
			if src == nil {
				continue
			}
			for _, s := range g.PeriodicShifts(grown, m.ba.Box(j)) {
				region := grown.Intersect(m.ba.Box(j).ShiftVect(s))
				dst.CopyShifted(src, region, s)
			}
		}
	}
}
