// SPDX-License-Identifier: MIT

// Command mgdriver solves a cell-centred Poisson or ABec problem on the
// boxes of a box-list file and reports what each solver did.
//
//	mgdriver --boxes grids/two_boxes.txt --cg --bicg --mg-pre
//	mgdriver --config solve.yaml --new-bc --plot history.png
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
