// SPDX-License-Identifier: MIT

package linop

import (
	"github.com/katalvlaran/amrsolve/field"
	"github.com/katalvlaran/amrsolve/geom"
	"github.com/katalvlaran/amrsolve/parallel"
)

// Grow is the ghost width every input of Apply, ApplyBC and Smooth must carry.
const Grow = 1

// MinCoarseWidth is the smallest box width (in cells) a coarsened level may have.
const MinCoarseWidth = 2

// BCMode selects whether boundary values are applied.
type BCMode int

const (
	// Homogeneous treats every boundary value as zero.
	Homogeneous BCMode = iota
	// Inhomogeneous uses the values stored in the boundary data (level 0 only).
	Inhomogeneous
)

func (m BCMode) String() string {
	if m == Inhomogeneous {
		return "inhomogeneous"
	}
	return "homogeneous"
}

// Operator is the surface the multigrid and Krylov solvers drive.
type Operator interface {
	// Apply sets out := L(in) on level, filling the ghost cells of in first.
	Apply(out, in *field.MultiFab, level int, mode BCMode)
	// ApplyBC fills the ghost cells of inout and the relaxation register.
	ApplyBC(inout *field.MultiFab, level int, mode BCMode)
	// Residual sets res := rhs - L(soln).
	Residual(res, rhs, soln *field.MultiFab, level int, mode BCMode)
	// Smooth runs one red-black Gauss-Seidel sweep pair on soln.
	Smooth(soln, rhs *field.MultiFab, level int, mode BCMode)
	// Norm is the max absolute row sum of the operator on level.
	Norm(level int) float64
	// PrepareForLevel materializes levels up to and including level.
	PrepareForLevel(level int)
	// NumLevels is the number of materialized levels.
	NumLevels() int
	// CanCoarsen reports whether a level below level can be built.
	CanCoarsen(level int) bool
	// BoxArray returns the boxes of level, preparing it if needed.
	BoxArray(level int) *geom.BoxArray
	// Geometry returns the geometry of level, preparing it if needed.
	Geometry(level int) geom.Geometry
	// CellSize returns the grid spacing of level, preparing it if needed.
	CellSize(level int) [geom.MaxSpaceDim]float64
	// Comm is the communicator used for reductions.
	Comm() parallel.Communicator
	// Generation identifies the current operator state; it changes when
	// boundary data, scalars or coefficients are replaced.
	Generation() uint64
}

var (
	_ Operator = (*Laplacian)(nil)
	_ Operator = (*ABecLaplacian)(nil)
)
