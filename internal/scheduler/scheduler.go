// Package scheduler runs the background jobs: the periodic quote refresh
// and the end-of-day portfolio value snapshot.
package scheduler

import (
	"log"

	"github.com/robfig/cron/v3"
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// Scheduler manages background jobs
type Scheduler struct {
	cron *cron.Cron
}

// New creates a new scheduler using standard 5-field cron expressions.
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}

// AddJob registers a job with a cron schedule. An empty schedule disables
// the job.
func (s *Scheduler) AddJob(schedule string, job Job) error {
	if schedule == "" {
		log.Printf("Job %s disabled (no schedule)", job.Name())
		return nil
	}

	_, err := s.cron.AddFunc(schedule, func() {
		if err := job.Run(); err != nil {
			log.Printf("Job %s failed: %v", job.Name(), err)
		}
	})
	if err != nil {
		return err
	}

	log.Printf("Job %s registered with schedule %q", job.Name(), schedule)
	return nil
}
