// Package worker fans inputs out to a service with bounded concurrency.
package worker

import (
	"context"
	"sync"

	"github.com/tbckr/dkimkey/internal/services"
)

// Result pairs one input with the service output or error produced for it.
type Result struct {
	Input  string
	Output services.Result
	Err    error
}

// Run calls svc.Run for every input using at most n concurrent goroutines.
// The returned slice has the same length and order as inputs. Each input is
// an independent call: an error for one input never cancels the others.
func Run(ctx context.Context, svc services.Service, inputs []string, n int) []Result {
	results := make([]Result, len(inputs))
	if len(inputs) == 0 {
		return results
	}
	n = max(1, min(n, len(inputs)))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out, err := svc.Run(ctx, inputs[i])
				results[i] = Result{Input: inputs[i], Output: out, Err: err}
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}
