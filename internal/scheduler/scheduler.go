package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the scan job on a cron cadence.
type Scheduler struct {
	cron *cron.Cron
	job  func(context.Context)
	ctx  context.Context
}

// New creates a scheduler bound to the given job and context.
func New(ctx context.Context, job func(context.Context)) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		job:  job,
		ctx:  ctx,
	}
}

// Register adds the scan job under the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() { s.job(s.ctx) }); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and blocks until any running job returns.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}
