// SPDX-License-Identifier: MIT

// Package parallel is the reduction and work-splitting layer used by the
// field, operator and solver packages.
//
// Communicator abstracts the distributed collectives the solvers need:
// global sum and max of a scalar (dot products, infinity norms), rank
// queries (which worker owns which box, which worker prints), and a
// barrier. Every collective is a synchronization point: all workers must
// call the same collectives in the same order, or the reduction deadlocks.
// Serial is the single-worker implementation used by tests and the driver.
//
// ForEach is a structured parallel-for over independent work items built on
// errgroup. It always joins before returning, so callers never see work
// outliving the call that spawned it.
package parallel
