package parallel

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestWorkerPool_RunsAllTasks(t *testing.T) {
	pool, err := NewWorkerPool(4)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}

	var counter int64
	for i := 0; i < 100; i++ {
		if !pool.Submit(func() { atomic.AddInt64(&counter, 1) }) {
			t.Fatal("Submit returned false on open pool")
		}
	}
	pool.Wait()

	if counter != 100 {
		t.Errorf("Expected 100 tasks to run, got %d", counter)
	}
}

func TestWorkerPool_DefaultWorkerCount(t *testing.T) {
	pool, err := NewWorkerPool(0)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}
	defer pool.Close()

	if pool.workers < 1 {
		t.Errorf("Expected at least 1 worker, got %d", pool.workers)
	}
}

func TestWorkerPool_TooManyWorkers(t *testing.T) {
	_, err := NewWorkerPool(MaxWorkers + 1)
	if err == nil {
		t.Fatal("Expected error for worker count above MaxWorkers")
	}
}

func TestWorkerPool_SubmitAfterClose(t *testing.T) {
	pool, err := NewWorkerPool(2)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}
	pool.Close()

	if pool.Submit(func() {}) {
		t.Error("Submit should return false after Close")
	}
}

func TestWorkerPool_PanicRecovery(t *testing.T) {
	pool, err := NewWorkerPool(2)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	pool.Submit(func() { panic("task failure") })
	pool.Submit(func() { wg.Done() })
	wg.Wait()
	pool.Close()
}

func TestWorkerPool_CloseIsIdempotent(t *testing.T) {
	pool, err := NewWorkerPool(2)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}
	pool.Close()
	pool.Close() // must not panic
}
