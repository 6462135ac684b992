package cronjob

import (
	"context"
	"time"

	"github.com/radreport/radreport/internal/logging"
	"github.com/robfig/cron/v3"
)

// NightlySpec runs at 12:00 AM (seconds field included).
const NightlySpec = "0 0 0 * * *"

// Purger removes history entries created before a cutoff.
type Purger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler runs the report history retention job.
type Scheduler struct {
	history   Purger
	retention time.Duration
	now       func() time.Time
	cron      *cron.Cron
}

func NewScheduler(history Purger, retention time.Duration) *Scheduler {
	return &Scheduler{
		history:   history,
		retention: retention,
		now:       time.Now,
		cron:      cron.New(cron.WithSeconds()),
	}
}

// Start registers the nightly purge and starts the cron runner. Stop must be
// called on shutdown.
func (s *Scheduler) Start() error {
	if s.retention <= 0 {
		logging.Logger.Info("history retention disabled, purge job not scheduled")
		return nil
	}

	_, err := s.cron.AddFunc(NightlySpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			logging.Logger.Errorw("history purge failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	logging.Logger.Infow("cron scheduler started", "spec", NightlySpec, "retention", s.retention.String())
	s.cron.Start()
	return nil
}

// Stop halts the runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce purges history older than the retention window.
func (s *Scheduler) RunOnce(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention)
	n, err := s.history.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	logging.Logger.Infow("history purge completed", "deleted", n, "cutoff", cutoff.Format(time.RFC1123))
	return n, nil
}
