package runner

import (
	"context"
	"runtime"
	"sort"
	"sync"
)

// Run processes every configured symbol. Symbols are embarrassingly parallel:
// each one has its own history and result, and the shared ledger serializes
// its own writes, so a bounded worker pool is safe. A symbol that fails
// (data contract violation, unrecoverable fetch error) is aborted entirely
// and reported; the other symbols keep running.
func (r *Runner) Run(ctx context.Context) ([]Result, map[string]error) {
	workers := r.Cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(r.Cfg.Symbols) {
		workers = len(r.Cfg.Symbols)
	}

	jobs := make(chan string)
	var mu sync.Mutex
	results := make([]Result, 0, len(r.Cfg.Symbols))
	failures := make(map[string]error)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				res, err := r.RunSymbol(ctx, symbol)
				mu.Lock()
				if err != nil {
					r.Log.Error().Err(err).Str("symbol", symbol).Msg("symbol run aborted")
					failures[symbol] = err
				} else {
					results = append(results, *res)
				}
				mu.Unlock()
			}
		}()
	}

	for _, symbol := range r.Cfg.Symbols {
		jobs <- symbol
	}
	close(jobs)
	wg.Wait()

	// Worker completion order is scheduling noise; reports need a stable order.
	sort.Slice(results, func(i, j int) bool { return results[i].Symbol < results[j].Symbol })

	return results, failures
}
