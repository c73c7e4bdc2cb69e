// SPDX-License-Identifier: MIT

package geom

import (
	"fmt"
	"sort"
)

// BoxArray is an ordered collection of boxes of one level together with
// the rank that owns each box. Boxes of a cell-centred array never overlap.
type BoxArray struct {
	boxes  []Box
	owners []int
}

// Intersection is one hit of BoxArray.Intersections.
type Intersection struct {
	Index int // position of the intersected box
	Box   Box // overlap region
}

// NewBoxArray validates and wraps the given boxes. Every box must be
// non-empty, share one dimension and index type, and be disjoint from the
// others. All boxes start owned by rank 0.
//
// Complexity: O(N²) pairwise overlap test.
func NewBoxArray(boxes ...Box) (*BoxArray, error) {
	if len(boxes) == 0 {
		return nil, ErrEmptyBoxArray
	}
	for i, b := range boxes {
		if !b.Ok() {
			return nil, fmt.Errorf("box %d %v: %w", i, b, ErrEmptyBox)
		}
		if !b.SameType(boxes[0]) {
			return nil, fmt.Errorf("box %d %v: %w", i, b, ErrDimMismatch)
		}
		for j := 0; j < i; j++ {
			if b.Intersects(boxes[j]) {
				return nil, fmt.Errorf("boxes %d and %d: %w", j, i, ErrOverlap)
			}
		}
	}
	return newBoxArray(append([]Box(nil), boxes...), nil), nil
}

// newBoxArray skips validation; derived arrays (coarsened, nodal) inherit
// the guarantees of their parent.
func newBoxArray(boxes []Box, owners []int) *BoxArray {
	if owners == nil {
		owners = make([]int, len(boxes))
	} else {
		owners = append([]int(nil), owners...)
	}
	return &BoxArray{boxes: boxes, owners: owners}
}

// Len is the number of boxes.
func (ba *BoxArray) Len() int { return len(ba.boxes) }

// Box returns box i.
func (ba *BoxArray) Box(i int) Box { return ba.boxes[i] }

// Boxes returns a copy of the boxes.
func (ba *BoxArray) Boxes() []Box { return append([]Box(nil), ba.boxes...) }

// Dim is the spatial dimension of the boxes.
func (ba *BoxArray) Dim() int { return ba.boxes[0].Dim() }

// Type is the shared index type.
func (ba *BoxArray) Type() IndexType { return ba.boxes[0].Type() }

// Owner returns the rank that owns box i.
func (ba *BoxArray) Owner(i int) int { return ba.owners[i] }

// SetOwners replaces the distribution map.
func (ba *BoxArray) SetOwners(owners []int) error {
	if len(owners) != len(ba.boxes) {
		return fmt.Errorf("%d owners for %d boxes: %w", len(owners), len(ba.boxes), ErrBadOwners)
	}
	for _, r := range owners {
		if r < 0 {
			return fmt.Errorf("negative rank %d: %w", r, ErrBadOwners)
		}
	}
	copy(ba.owners, owners)
	return nil
}

// Distribute assigns boxes to nprocs ranks: largest boxes first, each to the
// currently least loaded rank (ties to the lowest rank).
func (ba *BoxArray) Distribute(nprocs int) {
	if nprocs < 1 {
		panic("geom: Distribute needs nprocs >= 1")
	}
	order := make([]int, len(ba.boxes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ba.boxes[order[a]].NumPts() > ba.boxes[order[b]].NumPts()
	})
	load := make([]int, nprocs)
	for _, i := range order {
		best := 0
		for r := 1; r < nprocs; r++ {
			if load[r] < load[best] {
				best = r
			}
		}
		ba.owners[i] = best
		load[best] += ba.boxes[i].NumPts()
	}
}

// Coarsen returns the array with every box coarsened by r. Owners carry over.
func (ba *BoxArray) Coarsen(r int) *BoxArray {
	out := make([]Box, len(ba.boxes))
	for i, b := range ba.boxes {
		out[i] = b.Coarsen(r)
	}
	return newBoxArray(out, ba.owners)
}

// CoarsenableBy reports whether every box is coarsenable by r.
func (ba *BoxArray) CoarsenableBy(r int) bool {
	for _, b := range ba.boxes {
		if !b.CoarsenableBy(r) {
			return false
		}
	}
	return true
}

// SurroundingNodes returns the array converted to node centring in d.
func (ba *BoxArray) SurroundingNodes(d int) *BoxArray {
	out := make([]Box, len(ba.boxes))
	for i, b := range ba.boxes {
		out[i] = b.SurroundingNodes(d)
	}
	return newBoxArray(out, ba.owners)
}

// Equal compares boxes (not owners).
func (ba *BoxArray) Equal(o *BoxArray) bool {
	if ba == o {
		return true
	}
	if ba == nil || o == nil || len(ba.boxes) != len(o.boxes) {
		return false
	}
	for i := range ba.boxes {
		if ba.boxes[i] != o.boxes[i] {
			return false
		}
	}
	return true
}

// MinimalBox is the smallest box containing every box of the array.
func (ba *BoxArray) MinimalBox() Box {
	m := ba.boxes[0]
	for _, b := range ba.boxes[1:] {
		m.lo = m.lo.Min(b.lo)
		m.hi = m.hi.Max(b.hi)
	}
	return m
}

// NumPts is the total number of points.
func (ba *BoxArray) NumPts() int {
	n := 0
	for _, b := range ba.boxes {
		n += b.NumPts()
	}
	return n
}

// Intersections lists every box that overlaps b, in index order.
func (ba *BoxArray) Intersections(b Box) []Intersection {
	var out []Intersection
	for i, x := range ba.boxes {
		if isect := x.Intersect(b); isect.Ok() {
			out = append(out, Intersection{Index: i, Box: isect})
		}
	}
	return out
}

// String lists the boxes one per line.
func (ba *BoxArray) String() string {
	s := fmt.Sprintf("BoxArray(%d)\n", len(ba.boxes))
	for i, b := range ba.boxes {
		s += fmt.Sprintf("  %d: %v owner=%d\n", i, b, ba.owners[i])
	}
	return s
}
