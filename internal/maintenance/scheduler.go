package maintenance

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/skyproperties/sky-backend/internal/logging"
)

// Scheduler runs the sweeper on a cron schedule with a seconds field,
// e.g. "0 0 3 * * *" for 03:00 every night.
type Scheduler struct {
	cron     *cron.Cron
	sweeper  *Sweeper
	schedule string
}

func NewScheduler(schedule string, sweeper *Sweeper) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		sweeper:  sweeper,
		schedule: schedule,
	}
}

// Start registers the sweep and starts the cron loop. An empty schedule
// leaves the scheduler disabled.
func (s *Scheduler) Start(ctx context.Context) error {
	log := logging.Op(ctx, "maintenance.scheduler")
	if s.schedule == "" {
		log.Info("sweep schedule not set, scheduler disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.sweeper.Sweep(ctx); err != nil {
			log.WithError(err).Error("scheduled sweep failed")
		}
	})
	if err != nil {
		return err
	}

	log.WithField("schedule", s.schedule).Info("sweep scheduler started")
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and returns a context done once a running sweep
// has returned.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
