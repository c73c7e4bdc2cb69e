// SPDX-License-Identifier: MIT

package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ForEach runs fn(i) for i in [0, n) with at most limit calls in flight and
// returns the first error. It joins every started call before returning.
//
// limit <= 0 means runtime.GOMAXPROCS(0); limit == 1 (or n == 1) runs the
// calls inline, in order, on the caller's goroutine.
func ForEach(n, limit int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	if limit == 1 || n == 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error { return fn(i) })
	}
	return g.Wait()
}
