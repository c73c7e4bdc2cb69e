// SPDX-License-Identifier: MIT

package geom

import (
	"strconv"
	"strings"
)

// MaxSpaceDim is the largest supported spatial dimension.
const MaxSpaceDim = 3

// IntVect is an integer point (or extent) in index space.
type IntVect [MaxSpaceDim]int

// Unit returns the unit vector along direction d.
func Unit(d int) IntVect {
	var v IntVect
	v[d] = 1
	return v
}

// Add returns v + o.
func (v IntVect) Add(o IntVect) IntVect {
	for d := range v {
		v[d] += o[d]
	}
	return v
}

// Sub returns v - o.
func (v IntVect) Sub(o IntVect) IntVect {
	for d := range v {
		v[d] -= o[d]
	}
	return v
}

// Scale returns s*v.
func (v IntVect) Scale(s int) IntVect {
	for d := range v {
		v[d] *= s
	}
	return v
}

// Coarsen returns v divided by r, rounding toward negative infinity.
func (v IntVect) Coarsen(r int) IntVect {
	for d := range v {
		v[d] = floorDiv(v[d], r)
	}
	return v
}

// Refine returns v*r.
func (v IntVect) Refine(r int) IntVect { return v.Scale(r) }

// ChildOffsets lists the {0,1}^dim offsets of the fine cells under a coarse
// cell refined by 2. Direction skip is held at 0, which gives the fine
// faces under a coarse face normal to skip; skip < 0 keeps every direction.
func ChildOffsets(dim, skip int) []IntVect {
	out := []IntVect{{}}
	for d := 0; d < dim; d++ {
		if d == skip {
			continue
		}
		next := make([]IntVect, 0, 2*len(out))
		for _, v := range out {
			next = append(next, v)
			v[d] = 1
			next = append(next, v)
		}
		out = next
	}
	return out
}

// Min returns the component-wise minimum.
func (v IntVect) Min(o IntVect) IntVect {
	for d := range v {
		v[d] = min(v[d], o[d])
	}
	return v
}

// Max returns the component-wise maximum.
func (v IntVect) Max(o IntVect) IntVect {
	for d := range v {
		v[d] = max(v[d], o[d])
	}
	return v
}

// Sum returns the sum of the first dim components.
func (v IntVect) Sum(dim int) int {
	s := 0
	for d := 0; d < dim; d++ {
		s += v[d]
	}
	return s
}

// Format renders the first dim components as "(a,b[,c])".
func (v IntVect) Format(dim int) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for d := 0; d < dim; d++ {
		if d > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v[d]))
	}
	sb.WriteByte(')')
	return sb.String()
}

// floorDiv divides rounding toward negative infinity (Go's / truncates).
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
