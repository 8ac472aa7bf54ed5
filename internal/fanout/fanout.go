// Package fanout runs independent tasks under a concurrency cap and reports
// each outcome separately.
package fanout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// Outcome is the settled result of one task.
type Outcome[R any] struct {
	Index    int
	Value    R
	Err      error
	Duration time.Duration
}

// OK reports whether the task succeeded.
func (o Outcome[R]) OK() bool { return o.Err == nil }

// Run calls fn for every item with at most limit calls in flight, waits for
// all of them, and returns one Outcome per item in input order. A failing or
// panicking task does not stop its siblings. Items that cannot acquire a slot
// before ctx is done are reported with ctx.Err().
func Run[T, R any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, index int, item T) (R, error)) []Outcome[R] {
	if limit < 1 {
		limit = 1
	}
	outcomes := make([]Outcome[R], len(items))
	sem := semaphore.NewWeighted(int64(limit))

	var wg sync.WaitGroup
	for i, item := range items {
		outcomes[i].Index = i
		if err := sem.Acquire(ctx, 1); err != nil {
			outcomes[i].Err = err
			continue
		}
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			defer sem.Release(1)
			outcomes[i] = runOne(ctx, i, item, fn)
		}(i, item)
	}
	wg.Wait()
	return outcomes
}

func runOne[T, R any](ctx context.Context, i int, item T, fn func(context.Context, int, T) (R, error)) (out Outcome[R]) {
	start := time.Now()
	out.Index = i
	defer func() {
		if rec := recover(); rec != nil {
			out.Err = fmt.Errorf("panic: %v", rec)
		}
		out.Duration = time.Since(start)
	}()
	out.Value, out.Err = fn(ctx, i, item)
	return out
}

// Summary counts successes and failures.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Summarize tallies outcomes.
func Summarize[R any](outcomes []Outcome[R]) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.OK() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
