// Package parallel provides a small fixed-size worker pool used to fan out
// independent read-only computations, such as the per-entity cascade runs
// of the criticality analyzer.
package parallel

import (
	"fmt"
	"runtime"
	"sync"
)

// WorkerPool manages a pool of worker goroutines draining a shared task
// queue. Tasks must be independent; the pool gives no ordering guarantees.
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // protects taskQueue from concurrent close during send
	closed    bool         // protected by mu
}

// MaxWorkers caps the pool size; beyond this the queue buffer allocation
// would be unreasonable for any workload in scope.
const MaxWorkers = 1 << 16

// ErrTooManyWorkers is returned when the worker count exceeds MaxWorkers.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// NewWorkerPool creates a pool with the given number of workers. A count
// of zero or less defaults to the number of CPUs.
func NewWorkerPool(workers int) (*WorkerPool, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
	}

	for i := 0; i < pool.workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool, nil
}

// worker drains tasks from the queue until it is closed.
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		// Recover from panics in tasks so one bad task cannot take
		// down the whole pool.
		func() {
			defer func() {
				if r := recover(); r != nil {
					fmt.Printf("worker panic recovered: %v\n", r)
				}
			}()
			task()
		}()
	}
}

// Submit adds a task to the pool. It returns false if the pool has already
// been closed.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}
	wp.taskQueue <- task
	return true
}

// Close stops accepting tasks and blocks until in-flight tasks finish.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait closes the pool and waits for all submitted tasks to complete. The
// pool is single-use: it cannot be reopened afterwards.
func (wp *WorkerPool) Wait() {
	wp.Close()
}
