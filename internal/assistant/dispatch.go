package assistant

import (
	"context"
	"sync"
)

// Indicator counts running background jobs and reports when the
// application becomes busy or idle. Nested jobs keep it busy until the last
// one stops.
type Indicator struct {
	mu       sync.Mutex
	jobs     int
	message  string
	onChange func(busy bool, message string)
}

// NewIndicator creates an Indicator. onChange may be nil.
func NewIndicator(onChange func(busy bool, message string)) *Indicator {
	return &Indicator{onChange: onChange}
}

// Start marks one more job as running
func (i *Indicator) Start(message string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.jobs++
	i.message = message
	if i.onChange != nil {
		i.onChange(true, message)
	}
}

// Stop marks one job as finished. Extra calls are ignored.
func (i *Indicator) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.jobs == 0 {
		return
	}
	i.jobs--
	if i.jobs > 0 {
		return
	}
	i.message = ""
	if i.onChange != nil {
		i.onChange(false, "")
	}
}

// Busy returns whether any job runs and the latest message
func (i *Indicator) Busy() (bool, string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.jobs > 0, i.message
}

// Result is what a dispatched job posts back
type Result[T any] struct {
	Value T
	Err   error
}

// Dispatch runs job on its own goroutine with the indicator busy around it.
// The returned channel receives exactly one Result and is then closed.
func Dispatch[T any](ctx context.Context, indicator *Indicator, message string, job func(context.Context) (T, error)) <-chan Result[T] {
	results := make(chan Result[T], 1)
	if indicator != nil {
		indicator.Start(message)
	}

	go func() {
		defer close(results)
		value, err := job(ctx)
		if indicator != nil {
			indicator.Stop()
		}
		results <- Result[T]{Value: value, Err: err}
	}()

	return results
}
