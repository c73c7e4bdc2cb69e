// SPDX-License-Identifier: MIT

package solver

import "errors"

var (
	// ErrUnknownVariant is returned by ParseVariant.
	ErrUnknownVariant = errors.New("solver: unknown Krylov variant")
	// ErrUnknownBottomSolver is returned by ParseBottomSolver.
	ErrUnknownBottomSolver = errors.New("solver: unknown bottom solver")
	// ErrUnknownCriterion is returned by ParseCriterion.
	ErrUnknownCriterion = errors.New("solver: unknown convergence criterion")
)
