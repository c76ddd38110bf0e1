package forensic

import (
	"runtime"
	"sync"
)

// workerCount returns the number of workers parallelRows uses for n rows.
// Callers sizing worker-local accumulators must use the same value.
func workerCount(n int) int {
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// parallelRows runs fn(worker, y) over y in [0, n) using up to GOMAXPROCS
// workers. Rows are distributed by striding to balance uneven workloads. The
// worker index lets callers keep worker-local accumulators and merge them
// deterministically afterwards.
func parallelRows(n int, fn func(worker, y int)) {
	if n <= 0 {
		return
	}
	workers := workerCount(n)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			for y := w; y < n; y += workers {
				fn(w, y)
			}
		}()
	}
	wg.Wait()
}
