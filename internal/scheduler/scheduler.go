// Package scheduler runs the periodic maintenance sweeps: closing expired
// job listings and timing out payment attempts nobody confirmed.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	JobExpirySpec    = "@every 1h"
	StalePaymentSpec = "@every 10m"
	CacheSweepSpec   = "@every 30m"
	sweepTimeout     = 2 * time.Minute
)

// Sweep is one maintenance pass; it returns how many rows it touched.
type Sweep func(ctx context.Context) (int64, error)

type Task struct {
	Name string
	Spec string
	Run  Sweep
}

// Scheduler wraps robfig/cron and logs each sweep through zap.
type Scheduler struct {
	cron  *cron.Cron
	tasks []Task
	log   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func New(log *zap.Logger, tasks ...Task) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cron.PrintfLogger(zap.NewStdLog(log))),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		tasks:  tasks,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start registers every task and starts the cron loop.
func (s *Scheduler) Start() error {
	for _, task := range s.tasks {
		task := task
		if _, err := s.cron.AddFunc(task.Spec, func() { s.run(task) }); err != nil {
			return fmt.Errorf("cron.AddFunc %s: %w", task.Name, err)
		}
	}
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("tasks", len(s.tasks)))
	return nil
}

// Stop cancels running sweeps and waits for them until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.log.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunNow executes a task immediately, outside the schedule.
func (s *Scheduler) RunNow(name string) bool {
	for _, task := range s.tasks {
		if task.Name == name {
			s.run(task)
			return true
		}
	}
	return false
}

func (s *Scheduler) run(task Task) {
	ctx, cancel := context.WithTimeout(s.ctx, sweepTimeout)
	defer cancel()

	start := time.Now()
	n, err := task.Run(ctx)
	if err != nil {
		s.log.Error("sweep failed", zap.String("task", task.Name), zap.Error(err))
		return
	}
	s.log.Info("sweep finished",
		zap.String("task", task.Name),
		zap.Int64("rows", n),
		zap.Duration("took", time.Since(start)))
}
