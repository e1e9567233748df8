// Package worker fans batch submissions out to a pool of scoring workers.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/vocafit/internal/adapters/mq/queue"
	"github.com/okian/vocafit/internal/domain/scoring"
	"github.com/okian/vocafit/pkg/logger"
	"github.com/okian/vocafit/pkg/metrics"
)

// Default worker configuration constants.
const (
	poolShutdownTimeout = 30 * time.Second
)

// Scorer is the pipeline each worker runs.
type Scorer = scoring.Scorer

// Queue defines how the pool hands jobs to workers.
type Queue interface {
	Enqueue(ctx context.Context, j queue.Job) bool
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until its queue closes.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in flight.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker over a Queue.
type InMemoryWorker struct {
	queue  Queue
	scorer Scorer
	name   string

	// counts jobs handled; shared with the owning pool when there is one
	processed *atomic.Int64

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, scorer Scorer, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		scorer:    scorer,
		name:      "worker",
		processed: new(atomic.Int64),
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Processed returns the number of jobs this worker has handled.
func (w *InMemoryWorker) Processed() int64 { return w.processed.Load() }

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, j)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process scores one job and replies. Reply channels are buffered by the
// producer, so the send never blocks.
func (w *InMemoryWorker) process(ctx context.Context, j queue.Job) {
	ctx = logger.WithSubmissionID(ctx, j.Input.SubmissionID)
	metrics.IncWorkerActive()
	defer metrics.DecWorkerActive()

	res, err := w.scorer.Score(ctx, j.Input)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByType("scoring_error", "high")
		w.logger.Error(ctx, "scoring failed for job",
			logger.Int("seq", j.Seq),
			logger.Error(err),
		)
	}
	w.processed.Add(1)
	j.Reply <- queue.Outcome{Seq: j.Seq, Result: res, Err: err}
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	scorer  Scorer

	processed atomic.Int64
	inline    atomic.Int64
	started   atomic.Bool

	// closed once every worker has exited
	stopped  chan struct{}
	stopOnce sync.Once

	logger logger.Logger
}

// NewPool creates a new worker pool. workerCount < 1 selects runtime.NumCPU().
func NewPool(workerCount int, q Queue, scorer Scorer) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		scorer:  scorer,
		stopped: make(chan struct{}),
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(q, scorer,
			WithName("worker-"+strconv.Itoa(i)),
			withCounter(&pool.processed),
		)
	}

	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns the number of jobs handled by workers.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Inline returns the number of jobs the caller scored itself because the
// queue refused them.
func (p *Pool) Inline() int64 { return p.inline.Load() }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	var wg sync.WaitGroup
	for _, w := range p.workers {
		wg.Add(1)
		go func(w *InMemoryWorker) {
			defer wg.Done()
			w.Run(ctx)
		}(w)
	}
	go func() {
		wg.Wait()
		p.stopOnce.Do(func() { close(p.stopped) })
	}()
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// ScoreBatch scores every input and returns the outcomes in input order.
// Per-item failures are reported in Outcome.Err; the returned error is set
// only when the batch as a whole could not finish.
func (p *Pool) ScoreBatch(ctx context.Context, inputs []scoring.Input) ([]queue.Outcome, error) {
	out := make([]queue.Outcome, len(inputs))
	if len(inputs) == 0 {
		return out, nil
	}

	reply := make(chan queue.Outcome, len(inputs))
	pending := 0
	for i := range inputs {
		if p.queue.Enqueue(ctx, queue.Job{Seq: i, Input: inputs[i], Reply: reply}) {
			pending++
			continue
		}
		// queue full or closed: the caller scores the job itself
		p.inline.Add(1)
		res, err := p.scorer.Score(ctx, inputs[i])
		out[i] = queue.Outcome{Seq: i, Result: res, Err: err}
	}

	for pending > 0 {
		select {
		case o := <-reply:
			out[o.Seq] = o
			pending--
		case <-ctx.Done():
			return nil, fmt.Errorf("batch cancelled: %w", ctx.Err())
		case <-p.stopped:
			// workers may have replied before exiting
			for pending > 0 {
				select {
				case o := <-reply:
					out[o.Seq] = o
					pending--
				default:
					return nil, ErrStopped
				}
			}
		}
	}
	return out, nil
}

// Shutdown closes the queue and waits for workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	if !p.started.Load() {
		p.stopOnce.Do(func() { close(p.stopped) })
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("shutdown timed out: %w", shutdownCtx.Err())
		}
	}

	p.stopOnce.Do(func() { close(p.stopped) })
	return nil
}
