package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/noah-isme/bookly-api/pkg/errors"
)

// MaxSecretBytes is the longest secret bcrypt accepts.
const MaxSecretBytes = 72

// ErrPoolStopped is returned when work is submitted to a pool that is not running.
var ErrPoolStopped = errors.New("hash pool not running")

// HashPoolConfig sizes the worker pool.
type HashPoolConfig struct {
	Workers    int
	BufferSize int
	Cost       int
	Logger     *zap.Logger
}

type hashJob struct {
	run    func() (string, bool, error)
	result chan hashResult
}

type hashResult struct {
	hash string
	ok   bool
	err  error
}

// HashPool runs bcrypt work on a fixed set of worker goroutines so request
// goroutines only block on their own result channel.
type HashPool struct {
	workers int
	cost    int
	logger  *zap.Logger

	jobs    chan hashJob
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewHashPool builds a pool; call Start before submitting work.
func NewHashPool(cfg HashPoolConfig) *HashPool {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.Cost < bcrypt.MinCost || cfg.Cost > bcrypt.MaxCost {
		cfg.Cost = bcrypt.DefaultCost
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &HashPool{
		workers: cfg.Workers,
		cost:    cfg.Cost,
		logger:  cfg.Logger,
		jobs:    make(chan hashJob, cfg.BufferSize),
	}
}

// Start launches the workers. Safe to call more than once.
func (p *HashPool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	p.started = true
	p.logger.Info("hash pool started", zap.Int("workers", p.workers), zap.Int("cost", p.cost))
}

// Stop cancels the workers, waits for them to exit and fails any job still
// queued with ErrPoolStopped.
func (p *HashPool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.cancel()
	p.started = false
	p.mu.Unlock()
	p.wg.Wait()

	dropped := 0
drain:
	for {
		select {
		case job := <-p.jobs:
			job.result <- hashResult{err: ErrPoolStopped}
			dropped++
		default:
			break drain
		}
	}
	p.logger.Info("hash pool stopped", zap.Int("dropped", dropped))
}

// Hash returns the bcrypt hash of secret.
func (p *HashPool) Hash(ctx context.Context, secret string) (string, error) {
	if len(secret) > MaxSecretBytes {
		return "", appErrors.ErrSecretTooLong
	}
	res, err := p.submit(ctx, func() (string, bool, error) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(secret), p.cost)
		if err != nil {
			return "", false, err
		}
		return string(hashed), true, nil
	})
	if err != nil {
		return "", err
	}
	return res.hash, res.err
}

// Verify reports whether secret matches hash. A mismatch is not an error.
func (p *HashPool) Verify(ctx context.Context, secret, hash string) (bool, error) {
	if len(secret) > MaxSecretBytes {
		return false, appErrors.ErrSecretTooLong
	}
	res, err := p.submit(ctx, func() (string, bool, error) {
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
		switch {
		case err == nil:
			return "", true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return "", false, nil
		default:
			return "", false, err
		}
	})
	if err != nil {
		return false, err
	}
	return res.ok, res.err
}

func (p *HashPool) submit(ctx context.Context, run func() (string, bool, error)) (hashResult, error) {
	if err := ctx.Err(); err != nil {
		return hashResult{}, err
	}
	p.mu.Lock()
	poolCtx := p.ctx
	started := p.started
	p.mu.Unlock()
	if !started {
		return hashResult{}, ErrPoolStopped
	}

	job := hashJob{run: run, result: make(chan hashResult, 1)}
	select {
	case <-ctx.Done():
		return hashResult{}, ctx.Err()
	case <-poolCtx.Done():
		return hashResult{}, fmt.Errorf("%w: %v", ErrPoolStopped, poolCtx.Err())
	case p.jobs <- job:
	}

	select {
	case <-ctx.Done():
		return hashResult{}, ctx.Err()
	case <-poolCtx.Done():
		return hashResult{}, fmt.Errorf("%w: %v", ErrPoolStopped, poolCtx.Err())
	case res := <-job.result:
		return res, nil
	}
}

func (p *HashPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job := <-p.jobs:
			if p.ctx.Err() != nil {
				job.result <- hashResult{err: ErrPoolStopped}
				continue
			}
			hash, ok, err := job.run()
			if err != nil {
				p.logger.Warn("hash job failed", zap.Error(err))
			}
			job.result <- hashResult{hash: hash, ok: ok, err: err}
		}
	}
}
