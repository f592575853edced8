package pixelunsort

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelFor calls fn for every index in [0, n), splitting the range into
// contiguous chunks across at most workers goroutines. It returns once every
// call has finished, so it doubles as the barrier between axis passes.
// newScratch is called once per chunk and its result is handed to fn.
func parallelFor[S any](workers, n int, newScratch func() S, fn func(i int, scratch S)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, n)
	if workers == 1 {
		s := newScratch()
		for i := range n {
			fn(i, s)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			s := newScratch()
			for i := start; i < end; i++ {
				fn(i, s)
			}
			return nil
		})
	}
	_ = g.Wait() // fn cannot fail
}
