// Package worker runs a fixed set of isolated name workers behind a single
// dispatch channel. Each worker owns a private clone of the name pool and its
// own entropy source, so workers share no mutable state with each other.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/name-service/internal/domain"
	"github.com/pkordes/name-service/internal/service"
)

// ErrStopped is returned by Generate once the pool has shut down.
var ErrStopped = errors.New("worker pool stopped")

// ErrAlreadyRunning is returned by Run when called on a pool that has
// already been started.
var ErrAlreadyRunning = errors.New("worker pool already running")

// SourceFactory builds the entropy source for the worker with the given id.
// It is called once per worker, before the worker starts.
type SourceFactory func(id int) service.Source

// Option configures a Pool.
type Option func(*Pool)

// WithSourceFactory overrides the per-worker entropy source.
func WithSourceFactory(f SourceFactory) Option {
	return func(p *Pool) { p.newSource = f }
}

// WithRecorder reports every selection outcome to r.
func WithRecorder(r service.Recorder) Option {
	return func(p *Pool) { p.recorder = r }
}

// WithLogger sets the logger used for worker lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) { p.log = l }
}

type result struct {
	name string
	err  error
}

type job struct {
	ctx    context.Context
	prefix *string
	reply  chan result
}

// Pool dispatches Generate calls to one of size workers.
// Generate is safe for concurrent use; Run must be called exactly once.
type Pool struct {
	size      int
	names     domain.NamePool
	newSource SourceFactory
	recorder  service.Recorder
	log       *slog.Logger

	jobs     chan job
	done     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
}

// NewPool constructs a Pool of size workers serving names. A size below 1 is
// raised to 1.
func NewPool(size int, names domain.NamePool, opts ...Option) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		size:      size,
		names:     names,
		newSource: func(int) service.Source { return service.RuntimeSource() },
		log:       slog.Default(),
		jobs:      make(chan job),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Run starts the workers and blocks until ctx is cancelled and every worker
// has returned. Generate calls still waiting for a worker then fail with
// ErrStopped.
func (p *Pool) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer p.stopOnce.Do(func() { close(p.done) })

	// Every worker is fully built before any of them accepts a job.
	svcs := make([]*service.NameService, p.size)
	for id := range svcs {
		svcs[id] = service.NewNameService(p.names.Clone(), p.newSource(id), p.recorder)
	}

	g, gctx := errgroup.WithContext(ctx)
	for id, svc := range svcs {
		g.Go(func() error {
			return p.work(gctx, id, svc)
		})
	}
	p.log.InfoContext(ctx, "worker pool started", "workers", p.size, "names", p.names.Len())

	if err := g.Wait(); err != nil {
		return fmt.Errorf("worker.Pool.Run: %w", err)
	}
	p.log.InfoContext(ctx, "worker pool stopped")
	return nil
}

// work serves jobs until ctx is cancelled.
func (p *Pool) work(ctx context.Context, id int, svc *service.NameService) error {
	var served int
	defer func() {
		p.log.Debug("worker exited", "worker", id, "served", served)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case j := <-p.jobs:
			name, err := svc.Generate(j.ctx, j.prefix)
			j.reply <- result{name: name, err: err}
			served++
		}
	}
}

// Generate hands the request to an idle worker and waits for its answer.
// It returns ctx.Err() (wrapped) if ctx ends before a worker is free, and
// ErrStopped if the pool shuts down first.
func (p *Pool) Generate(ctx context.Context, prefix *string) (string, error) {
	reply := make(chan result, 1)

	select {
	case p.jobs <- job{ctx: ctx, prefix: prefix, reply: reply}:
	case <-ctx.Done():
		return "", fmt.Errorf("worker.Pool.Generate: %w", ctx.Err())
	case <-p.done:
		return "", ErrStopped
	}

	r := <-reply
	return r.name, r.err
}
