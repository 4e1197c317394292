// Package services hosts background jobs that run beside the request path.
package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ayush17112005/TaskWiseAI/usecase/notification"
)

// RetentionSweeper periodically purges read notifications older than the
// configured horizon from the bolt store.
type RetentionSweeper struct {
	notifications *notification.UseCase
	retention     time.Duration
	schedule      string
	cron          *cron.Cron
	logger        *zap.Logger
}

func NewRetentionSweeper(uc *notification.UseCase, retention time.Duration, schedule string, logger *zap.Logger) *RetentionSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if schedule == "" {
		schedule = "0 3 * * *"
	}
	return &RetentionSweeper{
		notifications: uc,
		retention:     retention,
		schedule:      schedule,
		cron:          cron.New(),
		logger:        logger,
	}
}

func (s *RetentionSweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("notification retention sweep scheduled",
		zap.String("schedule", s.schedule),
		zap.Duration("retention", s.retention))
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *RetentionSweeper) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *RetentionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	purged, err := s.notifications.PurgeRead(ctx, s.retention)
	if err != nil {
		s.logger.Warn("retention sweep failed", zap.Error(err))
		return
	}
	if purged > 0 {
		s.logger.Info("purged read notifications", zap.Int("count", purged))
	}
}
