package testutil

import (
	"errors"
	"sync"
	"sync/atomic"

	"resa/pkg/platform/sentinel"
)

// ConcurrentResult tallies outcomes of a concurrent run by store sentinel.
type ConcurrentResult struct {
	Successes int32
	Conflicts int32
	NotFounds int32
	InUse     int32
	Errors    []error
}

// Total returns the number of operations executed.
func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Conflicts + r.NotFounds + r.InUse + int32(len(r.Errors))
}

// RunConcurrent starts n goroutines, releases them together, and
// classifies each result. Errors matching no sentinel are kept for
// inspection.
func RunConcurrent(n int, fn func(idx int) error) *ConcurrentResult {
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		start     = make(chan struct{})
		successes atomic.Int32
		conflicts atomic.Int32
		notFounds atomic.Int32
		inUse     atomic.Int32
		other     []error
	)

	for i := range n {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-start
			err := fn(idx)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrAlreadyUsed):
				conflicts.Add(1)
			case errors.Is(err, sentinel.ErrNotFound):
				notFounds.Add(1)
			case errors.Is(err, sentinel.ErrInUse):
				inUse.Add(1)
			default:
				mu.Lock()
				other = append(other, err)
				mu.Unlock()
			}
		}(i)
	}
	close(start)
	wg.Wait()

	return &ConcurrentResult{
		Successes: successes.Load(),
		Conflicts: conflicts.Load(),
		NotFounds: notFounds.Load(),
		InUse:     inUse.Load(),
		Errors:    other,
	}
}
