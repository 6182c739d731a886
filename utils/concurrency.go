package utils

import (
	"sync"
)

// WorkerPool runs submitted jobs on at most maxWorkers goroutines.
type WorkerPool struct {
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// NewWorkerPool creates a WorkerPool with the given concurrency.
// Values below one are treated as one.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{semaphore: make(chan struct{}, maxWorkers)}
}

// Submit enqueues a job for execution in the pool. It blocks while all
// workers are busy.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.semaphore <- struct{}{}

	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.semaphore }()
		job()
	}()
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// ErrorGroup collects errors from concurrent jobs.
type ErrorGroup struct {
	mu   sync.Mutex
	errs []error
}

// Add records err when it is non-nil.
func (g *ErrorGroup) Add(err error) {
	if err == nil {
		return
	}
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

// Errors returns a copy of the collected errors.
func (g *ErrorGroup) Errors() []error {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]error, len(g.errs))
	copy(out, g.errs)
	return out
}
