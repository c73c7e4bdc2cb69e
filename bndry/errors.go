// SPDX-License-Identifier: MIT
// Package bndry: sentinel error set.

package bndry

import "errors"

var (
	// ErrNilBoxArray is returned by Define when no boxes are given.
	ErrNilBoxArray = errors.New("bndry: nil box array")

	// ErrBadNComp is returned by Define for a component count below one.
	ErrBadNComp = errors.New("bndry: component count must be >= 1")

	// ErrDimMismatch indicates boxes whose dimension or centring does not
	// match the geometry (cell-centred boxes of the domain's dimension).
	ErrDimMismatch = errors.New("bndry: boxes do not match geometry")

	// ErrNotSerial is returned by the debug printer when more than one
	// worker participates; the dump only sees locally owned data.
	ErrNotSerial = errors.New("bndry: debug print requires a single worker")
)
