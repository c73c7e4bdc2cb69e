// SPDX-License-Identifier: MIT

package bndry

import "fmt"

// BoundCond is the boundary-condition type of one face. The numeric values
// match the classic linear-operator BC codes.
type BoundCond int

const (
	Dirichlet  BoundCond = 101 // prescribed value at the boundary location
	Neumann    BoundCond = 102 // prescribed outward normal derivative
	ReflectOdd BoundCond = 103 // antisymmetric reflection, ghost = -interior
)

func (b BoundCond) String() string {
	switch b {
	case Dirichlet:
		return "dirichlet"
	case Neumann:
		return "neumann"
	case ReflectOdd:
		return "reflect_odd"
	}
	return fmt.Sprintf("bc(%d)", int(b))
}

// Valid reports whether b is one of the known types.
func (b BoundCond) Valid() bool {
	return b == Dirichlet || b == Neumann || b == ReflectOdd
}

// ParseBoundCond maps a name produced by String back to a type.
func ParseBoundCond(s string) (BoundCond, error) {
	for _, b := range []BoundCond{Dirichlet, Neumann, ReflectOdd} {
		if b.String() == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("bndry: unknown boundary condition %q", s)
}
