// SPDX-License-Identifier: MIT

package geom

import (
	"fmt"
	"strings"
)

// IndexType records, per direction, whether a box is cell-centred (bit
// clear) or node-centred (bit set).
type IndexType uint8

// CellType is the all-cell-centred index type.
const CellType IndexType = 0

// NodeType returns the index type that is node-centred in the given
// directions and cell-centred elsewhere.
func NodeType(dirs ...int) IndexType {
	var t IndexType
	for _, d := range dirs {
		t |= 1 << uint(d)
	}
	return t
}

// IsNode reports whether direction d is node-centred.
func (t IndexType) IsNode(d int) bool { return t&(1<<uint(d)) != 0 }

// IsCell reports whether every direction is cell-centred.
func (t IndexType) IsCell() bool { return t == CellType }

// Box is a rectangular region of index space [lo, hi] (inclusive) with an
// index type. Only the first Dim() components are meaningful.
type Box struct {
	lo, hi IntVect
	typ    IndexType
	dim    int
}

// NewBox returns the box [lo, hi] of the given dimension and index type.
// It panics if dim is not 2 or 3.
func NewBox(dim int, lo, hi IntVect, typ IndexType) Box {
	if dim < 2 || dim > MaxSpaceDim {
		panic(fmt.Sprintf("geom: unsupported dimension %d", dim))
	}
	for d := dim; d < MaxSpaceDim; d++ {
		lo[d], hi[d] = 0, 0
	}
	return Box{lo: lo, hi: hi, typ: typ, dim: dim}
}

// NewCellBox is NewBox with CellType.
func NewCellBox(dim int, lo, hi IntVect) Box { return NewBox(dim, lo, hi, CellType) }

func (b Box) Dim() int { return b.dim }
func (b Box) Lo() IntVect { return b.lo }
func (b Box) Hi() IntVect { return b.hi }
func (b Box) Type() IndexType { return b.typ }
func (b Box) LoDir(d int) int { return b.lo[d] }
func (b Box) HiDir(d int) int { return b.hi[d] }
func (b Box) Equal(o Box) bool { return b == o }
func (b Box) SameType(o Box) bool { return b.typ == o.typ && b.dim == o.dim }

// Ok reports whether the box is non-empty.
func (b Box) Ok() bool {
	if b.dim == 0 {
		return false
	}
	for d := 0; d < b.dim; d++ {
		if b.lo[d] > b.hi[d] {
			return false
		}
	}
	return true
}

// Length is the number of points in direction d.
func (b Box) Length(d int) int { return b.hi[d] - b.lo[d] + 1 }

// Size is the per-direction extent (unused directions report 1).
func (b Box) Size() IntVect {
	s := IntVect{1, 1, 1}
	for d := 0; d < b.dim; d++ {
		s[d] = b.Length(d)
	}
	return s
}

// NumPts counts the points of the box (0 when empty).
func (b Box) NumPts() int {
	if !b.Ok() {
		return 0
	}
	n := 1
	for d := 0; d < b.dim; d++ {
		n *= b.Length(d)
	}
	return n
}

// Contains reports whether p lies in the box.
func (b Box) Contains(p IntVect) bool {
	for d := 0; d < b.dim; d++ {
		if p[d] < b.lo[d] || p[d] > b.hi[d] {
			return false
		}
	}
	return b.dim > 0
}

// ContainsBox reports whether o lies entirely in b. Both must share the
// index type.
func (b Box) ContainsBox(o Box) bool {
	if !o.Ok() {
		return true
	}
	return b.SameType(o) && b.Contains(o.lo) && b.Contains(o.hi)
}

// Intersect returns b ∩ o; the result may be empty (check Ok).
func (b Box) Intersect(o Box) Box {
	b.lo = b.lo.Max(o.lo)
	b.hi = b.hi.Min(o.hi)
	return b
}

// Intersects reports whether b and o share a point.
func (b Box) Intersects(o Box) bool { return b.Intersect(o).Ok() }

// Grow extends the box by n in every direction (n < 0 shrinks).
func (b Box) Grow(n int) Box {
	for d := 0; d < b.dim; d++ {
		b.lo[d] -= n
		b.hi[d] += n
	}
	return b
}

// GrowDir extends the box by n on both sides of direction d.
func (b Box) GrowDir(d, n int) Box {
	b.lo[d] -= n
	b.hi[d] += n
	return b
}

// GrowLo extends the low side of direction d by n.
func (b Box) GrowLo(d, n int) Box {
	b.lo[d] -= n
	return b
}

// GrowHi extends the high side of direction d by n.
func (b Box) GrowHi(d, n int) Box {
	b.hi[d] += n
	return b
}

// Shift translates the box by n along direction d.
func (b Box) Shift(d, n int) Box {
	b.lo[d] += n
	b.hi[d] += n
	return b
}

// ShiftVect translates the box by v.
func (b Box) ShiftVect(v IntVect) Box {
	for d := 0; d < b.dim; d++ {
		b.lo[d] += v[d]
		b.hi[d] += v[d]
	}
	return b
}

// Coarsen divides the box by r. Cell directions keep every coarse cell
// that contains a fine cell; node directions keep the covering nodes.
func (b Box) Coarsen(r int) Box {
	for d := 0; d < b.dim; d++ {
		b.lo[d] = floorDiv(b.lo[d], r)
		if b.typ.IsNode(d) && b.hi[d]%r != 0 {
			b.hi[d] = floorDiv(b.hi[d], r) + 1
		} else {
			b.hi[d] = floorDiv(b.hi[d], r)
		}
	}
	return b
}

// Refine multiplies the box by r.
func (b Box) Refine(r int) Box {
	for d := 0; d < b.dim; d++ {
		b.lo[d] *= r
		if b.typ.IsNode(d) {
			b.hi[d] *= r
		} else {
			b.hi[d] = (b.hi[d]+1)*r - 1
		}
	}
	return b
}

// CoarsenableBy reports whether coarsening by r and refining back returns
// the same box.
func (b Box) CoarsenableBy(r int) bool { return b.Coarsen(r).Refine(r) == b }

// SurroundingNodes converts direction d to node centring.
func (b Box) SurroundingNodes(d int) Box {
	if !b.typ.IsNode(d) {
		b.hi[d]++
		b.typ |= 1 << uint(d)
	}
	return b
}

// EnclosedCells converts every node direction back to cell centring.
func (b Box) EnclosedCells() Box {
	for d := 0; d < b.dim; d++ {
		if b.typ.IsNode(d) {
			b.hi[d]--
		}
	}
	b.typ = CellType
	return b
}

// AdjCell returns the cell-centred box of depth n just outside face o of b,
// with the same tangential extent.
func (b Box) AdjCell(o Orientation, n int) Box {
	c := b.EnclosedCells()
	d := o.Dir()
	if o.IsLow() {
		c.hi[d] = c.lo[d] - 1
		c.lo[d] -= n
	} else {
		c.lo[d] = c.hi[d] + 1
		c.hi[d] += n
	}
	return c
}

// BdryCells returns the cell-centred box of depth n just inside face o.
func (b Box) BdryCells(o Orientation, n int) Box {
	c := b.EnclosedCells()
	d := o.Dir()
	if o.IsLow() {
		c.hi[d] = c.lo[d] + n - 1
	} else {
		c.lo[d] = c.hi[d] - n + 1
	}
	return c
}

// ForEach visits every point of the box, direction 0 fastest.
func (b Box) ForEach(fn func(p IntVect)) {
	if !b.Ok() {
		return
	}
	p := b.lo
	for {
		fn(p)
		d := 0
		for ; d < b.dim; d++ {
			p[d]++
			if p[d] <= b.hi[d] {
				break
			}
			p[d] = b.lo[d]
		}
		if d == b.dim {
			return
		}
	}
}

// String renders the box as ((lo) (hi) (type)).
func (b Box) String() string {
	var t IntVect
	for d := 0; d < b.dim; d++ {
		if b.typ.IsNode(d) {
			t[d] = 1
		}
	}
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(b.lo.Format(b.dim))
	sb.WriteByte(' ')
	sb.WriteString(b.hi.Format(b.dim))
	sb.WriteByte(' ')
	sb.WriteString(t.Format(b.dim))
	sb.WriteByte(')')
	return sb.String()
}
