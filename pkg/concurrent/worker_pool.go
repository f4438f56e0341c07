package concurrent

import (
	"context"
	"sync"

	"github.com/lintang-b-s/smartmeet/pkg/util"
)

type JobFunc[T any, G any] func(ctx context.Context, job T) G

// WorkerPool fixed number of goroutines consuming jobs from a buffered queue.
// usage: Start, AddJob..., Close, Wait, then drain CollectResults.
type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T any, G any](numWorkers, jobQueueSize int) *WorkerPool[T, G] {
	numWorkers = util.MaxG(numWorkers, 1)
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan T, jobQueueSize),
		results:    make(chan G, jobQueueSize),
	}
}

// worker jobs left in the queue after ctx is done are drained without running jobFunc.
func (wp *WorkerPool[T, G]) worker(ctx context.Context, jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		if util.StopConcurrentOperation(ctx) {
			continue
		}
		wp.results <- jobFunc(ctx, job)
	}
}

func (wp *WorkerPool[T, G]) Start(ctx context.Context, jobFunc JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, jobFunc)
	}
}

func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

func (wp *WorkerPool[T, G]) CollectResults() chan G {
	return wp.results
}

func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

type indexedJob[T any] struct {
	index int
	job   T
}

type indexedResult[G any] struct {
	index  int
	result G
}

// Map runs fn over jobs on a pool of numWorkers goroutines and returns the results in job order.
// returns ctx.Err() when ctx is done before every job ran.
func Map[T any, G any](ctx context.Context, numWorkers int, jobs []T, fn JobFunc[T, G]) ([]G, error) {
	wp := NewWorkerPool[indexedJob[T], indexedResult[G]](numWorkers, len(jobs))
	wp.Start(ctx, func(ctx context.Context, ij indexedJob[T]) indexedResult[G] {
		return indexedResult[G]{index: ij.index, result: fn(ctx, ij.job)}
	})

	for i, job := range jobs {
		wp.AddJob(indexedJob[T]{index: i, job: job})
	}
	wp.Close()
	wp.Wait()

	results := make([]G, len(jobs))
	done := 0
	for res := range wp.CollectResults() {
		results[res.index] = res.result
		done++
	}
	if done < len(jobs) {
		return nil, ctx.Err()
	}
	return results, nil
}
