// Package worker runs batches of claim-processing jobs across a bounded
// set of goroutines.
package worker

import (
	"context"
	"sync"
)

// Job is one unit of work. Execute must return a Result even when it
// fails; the pool never inspects errors itself.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of a job.
type Result interface {
	GetError() error
}

// Pool fans jobs out to a fixed number of worker goroutines and gathers
// their results. A collector goroutine drains results from the moment
// Start runs, so callers may submit arbitrarily many jobs before Wait
// without filling the channels. A pool is single-use: Start, Submit,
// then Wait once.
type Pool struct {
	workers   int
	jobs      chan Job
	results   chan Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	collected []Result
	drained   chan struct{}
}

// NewPool creates a pool with the given worker count, minimum one.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
		ctx:     ctx,
		cancel:  cancel,
		drained: make(chan struct{}),
	}
}

// Start launches the worker goroutines and the result collector.
func (p *Pool) Start() {
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.run()
	}
	go p.collect()
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			res := job.Execute(p.ctx)
			select {
			case p.results <- res:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// collect accumulates results as workers produce them. Only the
// collector reads p.collected until drained is closed.
func (p *Pool) collect() {
	for res := range p.results {
		p.collected = append(p.collected, res)
	}
	close(p.drained)
}

// Submit queues a job. After Shutdown it returns without queueing.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Wait closes the queue, waits for workers and the collector to finish,
// and returns every result in completion order. No Submit may run
// concurrently with or after Wait.
func (p *Pool) Wait() []Result {
	close(p.jobs)
	p.wg.Wait()
	p.closeResults()
	<-p.drained
	return p.collected
}

// Shutdown cancels in-flight jobs and stops the workers.
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
	<-p.drained
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() { close(p.results) })
}
