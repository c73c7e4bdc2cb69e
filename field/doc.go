// SPDX-License-Identifier: MIT

// Package field stores single-component float64 data over boxes.
//
// A Fab holds one box worth of values plus a ring of ghost cells, laid out
// flat with direction 0 fastest. A MultiFab holds one Fab per box of a
// geom.BoxArray (only boxes owned by the local rank are allocated) and
// provides the vector algebra the solvers run on:
//
//   - valid-region algebra: SetVal, Copy, Plus, Scale, Sxay, Dot, NormInf,
//     Norm2, Min, Max. Reductions go through the parallel.Communicator.
//   - ghost handling: FillBoundary copies valid data of neighbouring boxes
//     into ghost cells, FillPeriodicBoundary does the same for periodic
//     images across the domain boundary.
//
// The inner loops walk contiguous x-rows (ForRows) and hand each row to the
// gonum floats kernels, so valid-region operations never touch ghost cells.
//
// Mismatched layouts (different box arrays) are programming errors and
// panic.
package field
