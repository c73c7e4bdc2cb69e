// SPDX-License-Identifier: MIT
// Package geom: sentinel error set.
// Callers match these with errors.Is; context is added with
// fmt.Errorf("ctx: %w", ErrX) at the outer boundary.

package geom

import "errors"

var (
	// ErrEmptyBoxArray is returned when a BoxArray is built from zero boxes.
	ErrEmptyBoxArray = errors.New("geom: empty box array")

	// ErrEmptyBox is returned when an empty (lo > hi) box is used where a
	// non-empty one is required.
	ErrEmptyBox = errors.New("geom: empty box")

	// ErrOverlap indicates that two boxes of one level intersect.
	ErrOverlap = errors.New("geom: boxes overlap")

	// ErrDimMismatch indicates boxes (or a box and a geometry) of different
	// spatial dimension, or different index types, were combined.
	ErrDimMismatch = errors.New("geom: dimension mismatch")

	// ErrBadBoxFormat is returned by the text parsers on malformed input.
	ErrBadBoxFormat = errors.New("geom: malformed box text")

	// ErrBoxOutsideDomain indicates a grid box not contained in its domain.
	ErrBoxOutsideDomain = errors.New("geom: box outside domain")

	// ErrBadOwners is returned by SetOwners on a wrong-length or negative map.
	ErrBadOwners = errors.New("geom: invalid distribution map")
)
