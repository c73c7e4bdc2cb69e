// SPDX-License-Identifier: MIT

package geom

import "fmt"

// Side selects the low or high face of a box in one direction.
type Side uint8

const (
	Low  Side = iota // face at the small-index end
	High             // face at the large-index end
)

// Orientation names one face of a box: a direction and a side.
type Orientation struct {
	dir  int
	side Side
}

// NewOrientation builds the face orientation (dir, side).
func NewOrientation(dir int, side Side) Orientation {
	if dir < 0 || dir >= MaxSpaceDim {
		panic(fmt.Sprintf("geom: orientation direction %d out of range", dir))
	}
	return Orientation{dir: dir, side: side}
}

// OrientationFromIndex inverts Index: i in [0, 2*dim).
func OrientationFromIndex(i, dim int) Orientation {
	if i < dim {
		return NewOrientation(i, Low)
	}
	return NewOrientation(i-dim, High)
}

// Orientations lists the 2*dim faces in Index order: all low faces, then
// all high faces.
func Orientations(dim int) []Orientation {
	out := make([]Orientation, 2*dim)
	for i := range out {
		out[i] = OrientationFromIndex(i, dim)
	}
	return out
}

func (o Orientation) Dir() int { return o.dir }
func (o Orientation) Side() Side { return o.side }
func (o Orientation) IsLow() bool { return o.side == Low }
func (o Orientation) IsHigh() bool { return o.side == High }

// Flip returns the opposite face in the same direction.
func (o Orientation) Flip() Orientation {
	if o.side == Low {
		return Orientation{dir: o.dir, side: High}
	}
	return Orientation{dir: o.dir, side: Low}
}

// Index encodes the face as dir for low faces and dir+dim for high faces.
func (o Orientation) Index(dim int) int {
	if o.side == Low {
		return o.dir
	}
	return o.dir + dim
}

// Normal is the outward unit normal of the face (sign only).
func (o Orientation) Normal() IntVect {
	if o.side == Low {
		return Unit(o.dir).Scale(-1)
	}
	return Unit(o.dir)
}

func (o Orientation) String() string {
	names := [...]string{"x", "y", "z"}
	if o.side == Low {
		return names[o.dir] + "lo"
	}
	return names[o.dir] + "hi"
}
