// SPDX-License-Identifier: MIT

package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/amrsolve/matrix"
)

// ExampleLU factors a 2×2 system once and solves it for one right-hand side.
func ExampleLU() {
	a, _ := matrix.NewDense(2, 2)
	copy(a.RawRow(0), []float64{4, 1})
	copy(a.RawRow(1), []float64{2, 3})

	f, err := matrix.LU(a)
	if err != nil {
		fmt.Println(err)
		return
	}
	x := make([]float64, 2)
	_ = f.Solve(x, []float64{9, 13})
	fmt.Printf("x = [%.1f %.1f]\n", x[0], x[1])

	// Output:
	// x = [1.4 3.4]
}
