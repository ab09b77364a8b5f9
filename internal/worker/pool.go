package worker

import (
	"context"
	"sync"
)

// Task is a unit of work producing a result
type Task[R any] func(ctx context.Context) R

// Pool manages a pool of workers that execute tasks concurrently.
// Results are delivered on a single channel so the consumer can merge them
// without locking.
type Pool[R any] struct {
	workers    int
	tasks      chan Task[R]
	results    chan R
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
	startOnce  sync.Once
}

// NewPool creates a new worker pool with the specified number of workers
func NewPool[R any](parent context.Context, workers int) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(parent)

	return &Pool[R]{
		workers:    workers,
		tasks:      make(chan Task[R], workers*2),
		results:    make(chan R, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker goroutines. Results is closed once all of them exit.
func (p *Pool[R]) Start() {
	p.startOnce.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.worker()
		}
		go func() {
			p.wg.Wait()
			close(p.results)
			p.cancelFunc()
		}()
	})
}

func (p *Pool[R]) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			result := task(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a task. It returns false once the pool has been shut down.
func (p *Pool[R]) Submit(task Task[R]) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.tasks <- task:
		return true
	}
}

// Close signals that no more tasks will be submitted
func (p *Pool[R]) Close() {
	p.closeOnce.Do(func() {
		close(p.tasks)
	})
}

// Results returns the channel results arrive on, in completion order
func (p *Pool[R]) Results() <-chan R {
	return p.results
}

// Shutdown cancels in-flight work and stops the workers
func (p *Pool[R]) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
}

// Map runs fn over items with the given number of workers. collect is called
// on the caller's goroutine for every result, in completion order.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) R, collect func(R)) {
	pool := NewPool[R](ctx, workers)
	pool.Start()

	go func() {
		defer pool.Close()
		for _, item := range items {
			item := item
			if !pool.Submit(func(ctx context.Context) R { return fn(ctx, item) }) {
				return
			}
		}
	}()

	for result := range pool.Results() {
		collect(result)
	}
}
