// SPDX-License-Identifier: MIT

package bndry

import (
	"github.com/katalvlaran/amrsolve/geom"
)

// Mask classifies one cell adjacent to a box face.
type Mask int8

const (
	Covered       Mask = 0 // data comes from a neighbouring box
	NotCovered    Mask = 1 // boundary condition applies; inside the domain
	OutsideDomain Mask = 2 // boundary condition applies; physical boundary
)

// NTangHalfWidth is the tangential widening of every level-0 mask strip.
const NTangHalfWidth = 5

func (m Mask) String() string {
	switch m {
	case Covered:
		return "covered"
	case NotCovered:
		return "not_covered"
	case OutsideDomain:
		return "outside_domain"
	}
	return "mask(?)"
}

// MaskFab is a Mask per cell of a box.
type MaskFab struct {
	box    geom.Box
	stride geom.IntVect
	data   []Mask
}

// NewMaskFab allocates a mask over box with every cell set to init.
func NewMaskFab(box geom.Box, init Mask) *MaskFab {
	m := &MaskFab{box: box}
	s := 1
	for d := 0; d < geom.MaxSpaceDim; d++ {
		m.stride[d] = s
		if d < box.Dim() {
			s *= box.Length(d)
		}
	}
	m.data = make([]Mask, box.NumPts())
	for i := range m.data {
		m.data[i] = init
	}
	return m
}

// Box is the region the mask covers.
func (m *MaskFab) Box() geom.Box { return m.box }

func (m *MaskFab) index(p geom.IntVect) int {
	lo := m.box.Lo()
	return (p[0]-lo[0])*m.stride[0] + (p[1]-lo[1])*m.stride[1] + (p[2]-lo[2])*m.stride[2]
}

// At returns the mask of cell p, which must lie in Box.
func (m *MaskFab) At(p geom.IntVect) Mask { return m.data[m.index(p)] }

// Set assigns the mask of cell p.
func (m *MaskFab) Set(p geom.IntVect, v Mask) { m.data[m.index(p)] = v }

// SetBox assigns v on b ∩ Box.
func (m *MaskFab) SetBox(b geom.Box, v Mask) {
	m.box.Intersect(b).ForEach(func(p geom.IntVect) { m.Set(p, v) })
}

// Count is the number of cells equal to v.
func (m *MaskFab) Count(v Mask) int {
	n := 0
	for _, x := range m.data {
		if x == v {
			n++
		}
	}
	return n
}

// Equal compares region and contents.
func (m *MaskFab) Equal(o *MaskFab) bool {
	if m.box != o.box {
		return false
	}
	for i := range m.data {
		if m.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (m *MaskFab) Clone() *MaskFab {
	c := *m
	c.data = append([]Mask(nil), m.data...)
	return &c
}
