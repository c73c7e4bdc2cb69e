// SPDX-License-Identifier: MIT

package solver

import (
	"fmt"
	"strings"
	"time"
)

// Status is the outcome code of a solve.
type Status int

const (
	// StatusConverged means the convergence test was met.
	StatusConverged Status = 0
	// StatusZeroDot means a CG p·Ap or a BiCGStab ρ was exactly zero.
	StatusZeroDot Status = 1
	// StatusUnstable means the residual grew past the unstable criterion
	// (CG, CG_Alt) or BiCGStab's r̂·v was exactly zero.
	StatusUnstable Status = 2
	// StatusZeroTT means BiCGStab's t·t was exactly zero.
	StatusZeroTT Status = 3
	// StatusZeroOmega means BiCGStab's ω was exactly zero.
	StatusZeroOmega Status = 4
	// StatusMaxIter means the iteration limit was reached first.
	StatusMaxIter Status = 8
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusZeroDot:
		return "zero dot product"
	case StatusUnstable:
		return "unstable"
	case StatusZeroTT:
		return "zero t·t"
	case StatusZeroOmega:
		return "zero omega"
	case StatusMaxIter:
		return "max iterations"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Converged reports s == StatusConverged.
func (s Status) Converged() bool { return s == StatusConverged }

// Result describes one Solve call.
type Result struct {
	Status          Status
	Iterations      int
	InitialResidual float64
	FinalResidual   float64
	// History holds the residual max norm after each iteration.
	History []float64
	Runtime time.Duration
}

func (r Result) String() string {
	return fmt.Sprintf("%s after %d iterations: residual %g -> %g (%s)",
		r.Status, r.Iterations, r.InitialResidual, r.FinalResidual, r.Runtime)
}

// Variant selects a Krylov method.
type Variant int

const (
	// Automatic uses the solver's configured default.
	Automatic Variant = iota
	CG
	BiCGStab
	CGAlt
)

// DefaultVariant is the method used for Automatic unless WithVariant says otherwise.
const DefaultVariant = BiCGStab

var variantNames = map[Variant]string{
	Automatic: "automatic",
	CG:        "cg",
	BiCGStab:  "bicgstab",
	CGAlt:     "cg_alt",
}

func (v Variant) String() string {
	if s, ok := variantNames[v]; ok {
		return s
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// ParseVariant is the inverse of Variant.String, case-insensitive.
func ParseVariant(s string) (Variant, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, name := range variantNames {
		if name == s {
			return v, nil
		}
	}
	return Automatic, fmt.Errorf("%q: %w", s, ErrUnknownVariant)
}

// BottomSolver selects how MultiGrid solves on its coarsest level.
type BottomSolver int

const (
	// BottomDirect factors the assembled coarsest operator once and reuses
	// the LU factors. It falls back to BottomSmooth when the level has more
	// than the configured number of cells, is distributed over more than
	// one rank, or is singular.
	BottomDirect BottomSolver = iota
	// BottomSmooth runs nuF smoothing sweeps.
	BottomSmooth
	// BottomKrylov runs BiCGStab to a loose relative tolerance.
	BottomKrylov
)

var bottomNames = map[BottomSolver]string{
	BottomDirect: "direct",
	BottomSmooth: "smooth",
	BottomKrylov: "krylov",
}

func (b BottomSolver) String() string {
	if s, ok := bottomNames[b]; ok {
		return s
	}
	return fmt.Sprintf("bottom(%d)", int(b))
}

// ParseBottomSolver is the inverse of BottomSolver.String, case-insensitive.
func ParseBottomSolver(s string) (BottomSolver, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for b, name := range bottomNames {
		if name == s {
			return b, nil
		}
	}
	return BottomDirect, fmt.Errorf("%q: %w", s, ErrUnknownBottomSolver)
}

// Criterion selects the relative convergence reference.
type Criterion int

const (
	// CriterionRelative compares against the initial residual.
	CriterionRelative Criterion = iota
	// CriterionScaled compares against ‖L‖·‖x‖ + ‖r0‖.
	CriterionScaled
)

func (c Criterion) String() string {
	if c == CriterionScaled {
		return "scaled"
	}
	return "relative"
}

// ParseCriterion accepts "relative" or "scaled".
func ParseCriterion(s string) (Criterion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "relative", "":
		return CriterionRelative, nil
	case "scaled":
		return CriterionScaled, nil
	}
	return CriterionRelative, fmt.Errorf("%q: %w", s, ErrUnknownCriterion)
}

// convergence is the stopping test of one solve.
type convergence struct {
	crit           Criterion
	epsRel, epsAbs float64
	rnorm0         float64
	lnorm          float64 // ‖L‖, CriterionScaled only
}

// met reports whether rnorm satisfies the test; solNorm is ‖x‖ and only
// read by CriterionScaled.
func (c convergence) met(rnorm, solNorm float64) bool {
	ref := c.rnorm0
	if c.crit == CriterionScaled {
		ref = c.lnorm*solNorm + c.rnorm0
	}
	return rnorm <= c.epsRel*ref || rnorm <= c.epsAbs
}
