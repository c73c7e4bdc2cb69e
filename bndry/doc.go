// SPDX-License-Identifier: MIT

// Package bndry holds the boundary data of one grid level: for every box and
// every face, a boundary-condition record per component, a boundary
// location, a register of boundary values, and a mask that classifies the
// cells just outside the face.
//
// Mask classification (BndryData.Define):
//
//	OutsideDomain  default; the cell lies outside the physical domain
//	NotCovered     inside the domain (or a periodic image of a cell inside
//	               it) but not covered by any box of the level
//	Covered        overlapped by a box of the level, directly or through a
//	               periodic translation
//
// Each mask strip is one cell deep in the face-normal direction and is
// widened by NTangHalfWidth cells in the tangential directions so that the
// coarsest interpolation stencil used later stays inside it.
//
// Boundary-condition setters are write-only and validate array bounds only;
// an out-of-range face, grid or component index is a programming error and
// panics. Define reports user-data problems through the sentinel errors in
// errors.go.
package bndry
