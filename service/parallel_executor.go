package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ludo-technologies/smellscan/domain"
	"github.com/ludo-technologies/smellscan/internal/config"
)

// DefaultWorkers is used when the configured worker count is not positive
const DefaultWorkers = 4

// ParallelExecutorImpl runs file tasks on a bounded errgroup.
// Each task writes its own result, so the executor only schedules and
// reports progress.
type ParallelExecutorImpl struct {
	mu       sync.RWMutex
	workers  int
	timeout  time.Duration
	progress domain.ProgressManager
}

var _ domain.FileExecutor = (*ParallelExecutorImpl)(nil)

// NewParallelExecutor creates an executor with one worker per CPU and no timeout
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{workers: runtime.NumCPU()}
}

// NewParallelExecutorFromConfig creates an executor from the performance section
func NewParallelExecutorFromConfig(cfg *config.PerformanceConfig) *ParallelExecutorImpl {
	workers := cfg.MaxGoroutines
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &ParallelExecutorImpl{
		workers: workers,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

// NewParallelExecutorWithProgress creates an executor that reports every finished file
func NewParallelExecutorWithProgress(cfg *config.PerformanceConfig, pm domain.ProgressManager) *ParallelExecutorImpl {
	e := NewParallelExecutorFromConfig(cfg)
	e.progress = pm
	return e
}

// Execute runs every task. Once ctx is done or the timeout expires, files
// not yet started are skipped and the context error is returned; a timeout
// is reported as an analysis error wrapping context.DeadlineExceeded.
func (e *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.FileTask) error {
	return e.ExecuteWithWorkers(ctx, tasks, 0)
}

// ExecuteWithWorkers is Execute with a worker limit for this call only.
// A non-positive limit uses the executor's own.
func (e *ParallelExecutorImpl) ExecuteWithWorkers(ctx context.Context, tasks []domain.FileTask, limit int) error {
	if len(tasks) == 0 {
		return ctx.Err()
	}

	e.mu.RLock()
	workers, timeout, progress := e.workers, e.timeout, e.progress
	e.mu.RUnlock()
	if limit > 0 {
		workers = limit
	}

	var runCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	var run domain.RunProgress = noOpRunProgress{}
	if progress != nil {
		run = progress.StartRun(len(tasks))
	}
	defer run.Complete()

	g, gCtx := errgroup.WithContext(runCtx)
	g.SetLimit(workers)

	for _, t := range tasks {
		if gCtx.Err() != nil {
			break
		}
		t := t
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			run.FileDone(t.Run(gCtx))
			return nil
		})
	}
	_ = g.Wait()

	err := runCtx.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return domain.NewAnalysisError(fmt.Sprintf("analysis timed out after %s", timeout), err)
	}
	return err
}

// Workers returns the current worker limit
func (e *ParallelExecutorImpl) Workers() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.workers
}

// SetWorkers changes the worker limit; non-positive values are ignored
func (e *ParallelExecutorImpl) SetWorkers(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n > 0 {
		e.workers = n
	}
}

// SetTimeout sets the deadline of a whole Execute call; non-positive values are ignored
func (e *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if timeout > 0 {
		e.timeout = timeout
	}
}
