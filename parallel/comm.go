// SPDX-License-Identifier: MIT

package parallel

// Communicator is the set of collectives used across the solver stack.
type Communicator interface {
	// Rank is this worker's id in [0, Size).
	Rank() int
	// Size is the number of workers.
	Size() int
	// IsIOProcessor reports whether this worker is the designated printer.
	IsIOProcessor() bool
	// ReduceSum returns the sum of x over all workers.
	ReduceSum(x float64) float64
	// ReduceMax returns the maximum of x over all workers.
	ReduceMax(x float64) float64
	// ReduceIntSum returns the sum of n over all workers.
	ReduceIntSum(n int) int
	// Barrier blocks until every worker has reached it.
	Barrier()
}

type serial struct{}

// Serial returns the single-worker communicator: rank 0 of 1, every
// reduction is the identity.
func Serial() Communicator { return serial{} }

func (serial) Rank() int { return 0 }
func (serial) Size() int { return 1 }
func (serial) IsIOProcessor() bool { return true }
func (serial) ReduceSum(x float64) float64 { return x }
func (serial) ReduceMax(x float64) float64 { return x }
func (serial) ReduceIntSum(n int) int { return n }
func (serial) Barrier() {}

// OrSerial returns c, or Serial() when c is nil.
func OrSerial(c Communicator) Communicator {
	if c == nil {
		return Serial()
	}
	return c
}
