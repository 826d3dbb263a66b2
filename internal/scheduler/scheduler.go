// Package scheduler runs background maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"fintrack/internal/logger"
)

// jobTimeout bounds a single run of any job.
const jobTimeout = 5 * time.Minute

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner with logging and panic recovery.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.SugaredLogger

	mu      sync.Mutex
	started bool
}

// New creates a stopped scheduler.
func New() *Scheduler {
	log := logger.Named("scheduler")
	cl := cronLogger{log}
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		log:  log,
	}
}

// Add registers fn under name on a standard five-field cron spec or a
// descriptor such as "@hourly".
func (s *Scheduler) Add(name, spec string, fn Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := fn(ctx); err != nil {
			s.log.Errorw("job failed", "job", name, "error", err)
			return
		}
		s.log.Debugw("job finished", "job", name, "duration", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}
	s.log.Infow("job registered", "job", name, "schedule", spec)
	return nil
}

// Start begins running registered jobs in the background.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.cron.Start()
	s.started = true
	s.log.Info("Scheduler started")
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	<-s.cron.Stop().Done()
	s.started = false
	s.log.Info("Scheduler stopped")
}

// ResetPurger removes password reset tokens that can no longer be redeemed.
type ResetPurger interface {
	PurgeExpiredResets(ctx context.Context) (int64, error)
}

// AddResetPurge schedules the removal of expired password reset tokens.
func (s *Scheduler) AddResetPurge(spec string, p ResetPurger) error {
	return s.Add("purge-password-resets", spec, func(ctx context.Context) error {
		n, err := p.PurgeExpiredResets(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			s.log.Infow("purged expired password resets", "count", n)
		}
		return nil
	})
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
