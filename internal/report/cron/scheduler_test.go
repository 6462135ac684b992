package cronjob

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	cutoff time.Time
	n      int64
	err    error
}

func (f *fakePurger) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.n, f.err
}

func TestRunOnce(t *testing.T) {
	p := &fakePurger{n: 7}
	s := NewScheduler(p, 48*time.Hour)
	now := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	n, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, now.Add(-48*time.Hour), p.cutoff)
}

func TestRunOnceError(t *testing.T) {
	s := NewScheduler(&fakePurger{err: errors.New("db down")}, time.Hour)

	_, err := s.RunOnce(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(&fakePurger{}, time.Hour)
	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()

	disabled := NewScheduler(&fakePurger{}, 0)
	require.NoError(t, disabled.Start())
	assert.Empty(t, disabled.cron.Entries())
	disabled.Stop()
}
