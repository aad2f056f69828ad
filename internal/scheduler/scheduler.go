// Package scheduler runs registered background jobs on a fixed delay.
// Each job loops independently: run, log any failure, sleep, repeat. A
// failed or panicking cycle never stops the loop; the next cycle runs
// after the same delay.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one unit of periodic work.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

type Scheduler struct {
	delay time.Duration
	log   *zap.Logger
	jobs  []Job
}

func New(delay time.Duration, log *zap.Logger) *Scheduler {
	return &Scheduler{
		delay: delay,
		log:   log,
	}
}

// Register adds a job. Must be called before Start.
func (s *Scheduler) Register(name string, run func(ctx context.Context) error) {
	s.jobs = append(s.jobs, Job{Name: name, Run: run})
}

// Start launches one loop per registered job and returns a handle that
// stops them. Cancellation is observed between cycles; a running cycle
// finishes first, so cycles of the same job never overlap.
func (s *Scheduler) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup

	for _, job := range s.jobs {
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			s.loop(ctx, job)
		}(job)
		s.log.Info("scheduler job started",
			zap.String("job", job.Name),
			zap.Duration("delay", s.delay),
		)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	return &Handle{cancel: cancel, done: done}
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	// Drain the immediate first tick so the timer is clean for reuse.
	<-timer.C

	for {
		start := time.Now()
		if err := s.runOnce(ctx, job); err != nil {
			s.log.Error("scheduler job failed",
				zap.String("job", job.Name),
				zap.Error(err),
			)
		} else {
			s.log.Debug("scheduler job completed",
				zap.String("job", job.Name),
				zap.Duration("took", time.Since(start)),
			)
		}

		timer.Reset(s.delay)
		select {
		case <-ctx.Done():
			s.log.Info("scheduler job stopped", zap.String("job", job.Name))
			return
		case <-timer.C:
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return job.Run(ctx)
}

// Handle controls the loops started by one Start call.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Stop cancels the job contexts and waits for every loop to exit. Safe
// to call more than once.
func (h *Handle) Stop() {
	h.once.Do(h.cancel)
	<-h.done
}
