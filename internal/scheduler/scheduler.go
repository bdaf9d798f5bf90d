package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const digestTimeout = 5 * time.Minute

// Digester sends the yearly digest.
type Digester interface {
	CurrentYear() int
	Send(ctx context.Context, to string, year int) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	digester Digester
	schedule string
	logger   *zap.Logger
}

// NewScheduler creates a scheduler evaluating schedule in loc. robfig/cron's
// default parser takes standard 5-field expressions.
func NewScheduler(schedule string, loc *time.Location, digester Digester, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		digester: digester,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the digest job and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sendDigest); err != nil {
		return fmt.Errorf("schedule digest %q: %w", s.schedule, err)
	}

	s.logger.Info("starting scheduler", zap.String("digest_schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendDigest() {
	year := s.digester.CurrentYear()
	s.logger.Info("generating yearly digest", zap.Int("year", year))

	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	if err := s.digester.Send(ctx, "", year); err != nil {
		s.logger.Error("failed to send yearly digest", zap.Error(err))
		return
	}
	s.logger.Info("yearly digest sent successfully", zap.Int("year", year))
}
