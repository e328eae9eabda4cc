package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type Job interface {
	Run() error
	Name() string
}

type Scheduler struct {
	cron   *cron.Cron
	logger *log.Entry
}

// New creates a scheduler whose schedules include a seconds field.
func New() *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		logger: log.WithField("component", "scheduler"),
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// AddJob registers job with a cron schedule, e.g. "0 */5 9-16 * * MON-FRI" or "@every 30s".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		logger := s.logger.WithField("job", job.Name())
		logger.Debug("running job")

		if err := job.Run(); err != nil {
			logger.Errorf("job failed: %v", err)
		} else {
			logger.Debug("job completed")
		}
	})
	if err != nil {
		return fmt.Errorf("AddJob: invalid schedule %q for %s: %w", schedule, job.Name(), err)
	}

	s.logger.WithField("job", job.Name()).Infof("job registered with schedule %s", schedule)

	return nil
}

func (s *Scheduler) RunNow(job Job) error {
	s.logger.WithField("job", job.Name()).Info("running job immediately")
	return job.Run()
}
