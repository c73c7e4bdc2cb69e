// SPDX-License-Identifier: MIT

// Package geom provides the index-space model that the solver stack runs on:
// integer vectors, boxes with a per-direction centering, face orientations,
// ordered box arrays with an owner map, and the computational geometry
// (domain box, periodicity, physical extent).
//
// The package is deliberately small and value-oriented:
//
//   - IntVect is a fixed [MaxSpaceDim]int; only the first Dim components
//     of a Box are meaningful (2 or 3).
//   - Box is an immutable value. Every "mutating" operation (Grow, Shift,
//     Coarsen, Refine, AdjCell, ...) returns a new Box.
//   - BoxArray is an ordered list of non-overlapping boxes indexed 0..N-1
//     plus a distribution map (which worker owns box i). Indices are stable
//     for the lifetime of the array.
//   - Geometry couples a domain box with periodicity flags and a physical
//     extent, and enumerates periodic images (PeriodicShifts).
//
// Text form:
//
// Boxes print and parse in the classic block-structured AMR notation
//
//	((lo0,lo1) (hi0,hi1) (t0,t1))
//
// where t_d is 0 for cell-centred and 1 for node-centred directions. A box
// list file is a domain box, a count, and that many boxes (see ReadBoxList).
//
// Errors:
//
// Constructors that receive user data (NewBoxArray, ParseBox, ReadBoxList)
// return sentinel errors from errors.go. Passing an unsupported dimension to
// a low-level constructor is a programming error and panics.
package geom
