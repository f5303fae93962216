package engine

import (
	"context"
	"sync"

	"github.com/amaddali82/stocks.ai/internal/domain"
)

// workerPool fans symbol evaluations out over a fixed number of
// goroutines. Result order matches input order regardless of which
// worker finishes first.
type workerPool struct {
	numWorkers int
}

func newWorkerPool(numWorkers int) *workerPool {
	if numWorkers <= 0 {
		numWorkers = 4
	}
	return &workerPool{numWorkers: numWorkers}
}

// jobItem is a single symbol evaluation job.
type jobItem struct {
	index      int
	instrument domain.Instrument
}

// resultItem carries either a recommendation or a skip diagnostic.
type resultItem struct {
	index          int
	recommendation *domain.Recommendation
	skip           *domain.SkipDiagnostic
}

// evalFunc evaluates one instrument.
type evalFunc func(ctx context.Context, inst domain.Instrument) (*domain.Recommendation, *domain.SkipDiagnostic)

// run evaluates all instruments with bounded parallelism. On context
// cancellation the remaining unstarted instruments are reported as
// skipped; already-completed evaluations are kept.
func (wp *workerPool) run(
	ctx context.Context,
	instruments []domain.Instrument,
	eval evalFunc,
) []resultItem {
	n := len(instruments)
	if n == 0 {
		return nil
	}

	jobs := make(chan jobItem, n)
	results := make(chan resultItem, n)

	numWorkers := wp.numWorkers
	if n < numWorkers {
		numWorkers = n
	}

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					results <- resultItem{
						index: job.index,
						skip: &domain.SkipDiagnostic{
							Symbol: job.instrument.Symbol,
							Reason: "evaluation canceled",
						},
					}
					continue
				}
				rec, skip := eval(ctx, job.instrument)
				results <- resultItem{index: job.index, recommendation: rec, skip: skip}
			}
		}()
	}

	for idx, inst := range instruments {
		jobs <- jobItem{index: idx, instrument: inst}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]resultItem, n)
	for r := range results {
		ordered[r.index] = r
	}
	return ordered
}
