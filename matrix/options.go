// SPDX-License-Identifier: MIT

// Package matrix - functional options for the numeric policy.
//
// Purpose:
//   - Keep every default in one place (single source of truth).
//   - Let callers tighten or relax the policy per call without global state.

package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the relative pivot tolerance used by LU.
	// Zero means only an exactly zero pivot is treated as singular.
	DefaultEpsilon = 0.0

	// DefaultValidateNaNInf toggles the finite-value scan in LU.
	DefaultValidateNaNInf = true
)

// Option mutates Options. Options are applied in order; the last one wins.
type Option func(*Options)

// Options is the resolved numeric policy.
type Options struct {
	eps            float64 // >= 0; DefaultEpsilon
	validateNaNInf bool    // DefaultValidateNaNInf
}

// defaultOptions returns the package defaults.
func defaultOptions() Options {
	return Options{
		eps:            DefaultEpsilon,
		validateNaNInf: DefaultValidateNaNInf,
	}
}

// gatherOptions folds opts over the defaults.
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithEpsilon sets the relative pivot tolerance for LU.
// A pivot u is rejected when |u| <= eps * max|a_ij|.
//
// Inputs:
//   - eps: non-negative, finite tolerance.
//
// Notes:
//   - Panics on negative or non-finite eps: this is a programmer error,
//     not a data-dependent condition.
func WithEpsilon(eps float64) Option {
	if eps < 0 || math.IsNaN(eps) || math.IsInf(eps, 0) {
		panic("matrix: WithEpsilon requires a finite eps >= 0")
	}

	return func(o *Options) { o.eps = eps }
}

// WithNoValidateNaNInf skips the finite-value scan in LU.
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}
