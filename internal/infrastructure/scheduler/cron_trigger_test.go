package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/erp/syncengine/internal/infrastructure/logger"
	"github.com/erp/syncengine/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestTrigger(t *testing.T, job JobFunc) *CronTrigger {
	t.Helper()
	s, err := NewDailySchedule("0 0 * * *", "Asia/Shanghai")
	require.NoError(t, err)
	return NewCronTrigger(CronTriggerConfig{
		Name:          "product-sync",
		Schedule:      s,
		CheckInterval: 10 * time.Millisecond,
		JobTimeout:    time.Second,
	}, job, zap.NewNop())
}

func TestCronTrigger_RunsOncePerDay(t *testing.T) {
	var calls atomic.Int32
	var gotTrigger string
	c := newTestTrigger(t, func(ctx context.Context) error {
		calls.Add(1)
		gotTrigger = logger.GetTrigger(ctx)
		assert.NotEmpty(t, logger.GetRunID(ctx))
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	})
	ctx := context.Background()

	midnight := time.Date(2024, 5, 1, 16, 0, 5, 0, time.UTC)
	assert.True(t, c.checkAndTrigger(ctx, midnight))
	assert.False(t, c.checkAndTrigger(ctx, midnight.Add(20*time.Second)), "same day runs once")
	assert.False(t, c.checkAndTrigger(ctx, midnight.Add(2*time.Hour)), "outside the minute")
	assert.True(t, c.checkAndTrigger(ctx, midnight.Add(24*time.Hour)))

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, logger.TriggerScheduler, gotTrigger)

	run := c.LastRun()
	require.NotNil(t, run)
	assert.Equal(t, JobStatusSuccess, run.Status)
	assert.Equal(t, "product-sync", run.Name)
}

func TestCronTrigger_RecordsFailureAndPanic(t *testing.T) {
	c := newTestTrigger(t, func(context.Context) error { return errors.New("remote down") })
	c.checkAndTrigger(context.Background(), time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC))

	run := c.LastRun()
	require.NotNil(t, run)
	assert.Equal(t, JobStatusFailed, run.Status)
	assert.Equal(t, "remote down", run.Error)

	p := newTestTrigger(t, func(context.Context) error { panic("boom") })
	p.checkAndTrigger(context.Background(), time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC))
	assert.Equal(t, JobStatusFailed, p.LastRun().Status)
	assert.Contains(t, p.LastRun().Error, "boom")
}

func TestCronTrigger_ManualRun(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	c := newTestTrigger(t, func(ctx context.Context) error {
		calls.Add(1)
		<-release
		return nil
	})

	assert.ErrorIs(t, c.TriggerManualRun(), ErrSchedulerNotRunning)

	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.TriggerManualRun())
	testutil.RequireEventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, c.TriggerManualRun(), ErrJobAlreadyRunning)
	assert.True(t, c.Status().JobActive)

	close(release)
	testutil.RequireEventually(t, func() bool {
		run := c.LastRun()
		return run != nil && run.Status == JobStatusSuccess
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, logger.TriggerManual, c.LastRun().Trigger)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.Stop(stopCtx))
	require.NoError(t, c.Stop(stopCtx))
}

func TestCronTrigger_NextRunAt(t *testing.T) {
	c := newTestTrigger(t, func(context.Context) error { return nil })
	c.clock = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	assert.True(t, c.NextRunAt().Equal(time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC)))
}
