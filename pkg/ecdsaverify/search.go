package ecdsaverify

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"
)

// SequentialSearch walks the trials one by one on the calling goroutine and
// stops at the first match.
type SequentialSearch struct {
	Config SearchConfig
}

// NewSequentialSearch creates a sequential search with default settings.
func NewSequentialSearch() *SequentialSearch {
	return &SequentialSearch{Config: DefaultSearchConfig()}
}

// WithConfig sets the configuration for the strategy.
func (s *SequentialSearch) WithConfig(config SearchConfig) *SequentialSearch {
	s.Config = config
	return s
}

// Name returns the name of this strategy.
func (s *SequentialSearch) Name() string {
	return "Sequential"
}

// Search implements the SearchStrategy interface.
func (s *SequentialSearch) Search(sig *Signature, candidates []HashCandidate, expected Address) *MatchResult {
	if sig == nil {
		return nil
	}

	it := NewTrialIterator(sig, candidates).WithRequireLowS(s.Config.RequireLowS)
	for out, ok := it.Next(); ok; out, ok = it.Next() {
		if out.Recovered() && out.Address == expected {
			return matchFromOutcome(sig, out)
		}
	}
	return nil
}

// ParallelSearch spreads the trials over a pool of workers. The reported match
// is always the earliest one in candidate-then-parity order, never simply the
// first one a worker finishes.
type ParallelSearch struct {
	Config SearchConfig
}

// NewParallelSearch creates a parallel search with default settings.
func NewParallelSearch() *ParallelSearch {
	return &ParallelSearch{Config: DefaultSearchConfig()}
}

// WithConfig sets the configuration for the strategy.
func (s *ParallelSearch) WithConfig(config SearchConfig) *ParallelSearch {
	s.Config = config
	return s
}

// Name returns the name of this strategy.
func (s *ParallelSearch) Name() string {
	return "Parallel"
}

// Search implements the SearchStrategy interface.
func (s *ParallelSearch) Search(sig *Signature, candidates []HashCandidate, expected Address) *MatchResult {
	if sig == nil {
		return nil
	}

	total := trialCount(len(candidates))
	if total == 0 {
		return nil
	}

	numWorkers := s.Config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > total {
		numWorkers = total
	}

	// best holds the lowest matching trial index found so far.
	best := int64(math.MaxInt64)
	matches := make([]*Outcome, total)
	workChan := make(chan int, numWorkers)

	// Generate work in canonical order, stopping once every remaining trial
	// would be ordered after a known match.
	go func() {
		defer close(workChan)
		for i := 0; i < total; i++ {
			if int64(i) > atomic.LoadInt64(&best) {
				return
			}
			workChan <- i
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workChan {
				if int64(i) > atomic.LoadInt64(&best) {
					continue
				}

				out := evaluateTrial(sig, candidates, i, s.Config.RequireLowS)
				if !out.Recovered() || out.Address != expected {
					continue
				}

				// Each index is handled by exactly one worker.
				matches[i] = out
				for {
					cur := atomic.LoadInt64(&best)
					if int64(i) >= cur || atomic.CompareAndSwapInt64(&best, cur, int64(i)) {
						break
					}
				}
			}
		}()
	}
	wg.Wait()

	idx := atomic.LoadInt64(&best)
	if idx == math.MaxInt64 {
		return nil
	}
	return matchFromOutcome(sig, matches[idx])
}
