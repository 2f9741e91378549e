package world

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
	"golang.org/x/sync/semaphore"
)

var ErrPoolClosed = errors.New("worker pool closed")

// WorkerPool runs chunk jobs on a fixed set of goroutines. At most
// maxInFlight jobs are queued or running at once; TrySubmit refuses work
// beyond that instead of blocking. Jobs are never cancelled.
type WorkerPool struct {
	log logrus.FieldLogger

	sem         *semaphore.Weighted
	maxInFlight int64
	jobs        chan func()
	wg          sync.WaitGroup

	inFlight atomic.Int64
	done     atomic.Int64
	panics   atomic.Int64

	closed atomic.Bool
}

// NewWorkerPool starts workers goroutines sharing a backlog of maxInFlight
// jobs.
func NewWorkerPool(workers, maxInFlight int, log logrus.FieldLogger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	p := &WorkerPool{
		log:         log,
		sem:         semaphore.NewWeighted(int64(maxInFlight)),
		maxInFlight: int64(maxInFlight),
		jobs:        make(chan func(), maxInFlight),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		p.run(id, job)
	}
}

func (p *WorkerPool) run(id int, job func()) {
	defer func() {
		if r := recover(); r != nil {
			p.panics.Inc()
			p.log.WithField("worker", id).Errorf("recovered panic in chunk job: %v", r)
		}
		p.inFlight.Dec()
		p.done.Inc()
		p.sem.Release(1)
	}()
	job()
}

// TrySubmit queues job if the pool has room and reports whether it did.
// It never blocks.
func (p *WorkerPool) TrySubmit(job func()) bool {
	if job == nil || p.closed.Load() {
		return false
	}
	if !p.sem.TryAcquire(1) {
		return false
	}
	p.inFlight.Inc()
	// the semaphore bounds the backlog to the channel capacity
	p.jobs <- job
	return true
}

// Wait blocks until every submitted job has finished or ctx is done.
func (p *WorkerPool) Wait(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, p.maxInFlight); err != nil {
		return fmt.Errorf("waiting for chunk jobs: %w", err)
	}
	p.sem.Release(p.maxInFlight)
	return nil
}

// Close waits for outstanding jobs and stops the workers. Later submits are
// refused.
func (p *WorkerPool) Close(ctx context.Context) error {
	if p.closed.Swap(true) {
		return ErrPoolClosed
	}
	err := p.Wait(ctx)
	close(p.jobs)
	if err == nil {
		p.wg.Wait()
	}
	return err
}

// InFlight is the number of jobs queued or running.
func (p *WorkerPool) InFlight() int {
	return int(p.inFlight.Load())
}

// Capacity is the in-flight limit.
func (p *WorkerPool) Capacity() int {
	return int(p.maxInFlight)
}

// Completed is the number of jobs that have returned, panicked ones
// included.
func (p *WorkerPool) Completed() int64 {
	return p.done.Load()
}

func (p *WorkerPool) Panics() int64 {
	return p.panics.Load()
}
