package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/erp/syncengine/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// JobFunc is the work a trigger runs. A returned error marks the run failed.
type JobFunc func(ctx context.Context) error

// CronTriggerConfig holds configuration for the cron trigger
type CronTriggerConfig struct {
	Name     string
	Schedule DailySchedule

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration

	// JobTimeout bounds a single run; zero means no limit
	JobTimeout time.Duration
}

// CronTrigger fires a job once per day at the scheduled wall clock time.
// Runs never overlap: a trigger arriving while a run is active is skipped.
type CronTrigger struct {
	config CronTriggerConfig
	job    JobFunc
	logger *zap.Logger
	clock  func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	jobActive   bool
	lastRunDate string
	lastRun     *JobRun
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(config CronTriggerConfig, job JobFunc, log *zap.Logger) *CronTrigger {
	if config.CheckInterval <= 0 {
		config.CheckInterval = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CronTrigger{
		config: config,
		job:    job,
		logger: log.Named("cron").With(zap.String("job", config.Name)),
		clock:  time.Now,
	}
}

// Start starts the cron trigger
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Cron trigger started",
		zap.Stringer("schedule", c.config.Schedule),
		zap.Time("next_run_at", c.NextRunAt()),
		zap.Duration("check_interval", c.config.CheckInterval),
	)
	return nil
}

// Stop stops the cron trigger and waits for an active run to finish or
// for ctx to expire
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		c.logger.Warn("Cron trigger stop timed out")
		return ctx.Err()
	}
}

func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger(ctx, c.clock())
		}
	}
}

// checkAndTrigger runs the job when now is inside the scheduled minute and
// it has not run yet on that calendar day
func (c *CronTrigger) checkAndTrigger(ctx context.Context, now time.Time) bool {
	if !c.config.Schedule.IsDue(now) {
		return false
	}
	date := c.config.Schedule.DateKey(now)

	c.mu.Lock()
	if c.lastRunDate == date {
		c.mu.Unlock()
		return false
	}
	c.lastRunDate = date
	c.mu.Unlock()

	c.logger.Info("Triggering scheduled job", zap.String("date", date))
	_ = c.execute(ctx, logger.TriggerScheduler)
	return true
}

// TriggerManualRun runs the job now in the background, outside the
// schedule. The run is detached from the caller's context.
func (c *CronTrigger) TriggerManualRun() error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	if c.jobActive {
		c.mu.Unlock()
		return ErrJobAlreadyRunning
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		_ = c.execute(context.Background(), logger.TriggerManual)
	}()
	return nil
}

// execute runs the job once, recording the outcome
func (c *CronTrigger) execute(ctx context.Context, trigger string) error {
	c.mu.Lock()
	if c.jobActive {
		c.mu.Unlock()
		c.logger.Warn("Previous run still active, skipping")
		return ErrJobAlreadyRunning
	}
	c.jobActive = true
	run := NewJobRun(c.config.Name, trigger, c.clock())
	c.lastRun = run
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.jobActive = false
		c.mu.Unlock()
	}()

	if c.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.JobTimeout)
		defer cancel()
	}
	ctx, log := logger.StartRun(ctx, c.logger, trigger)

	err := c.runJob(ctx)

	c.mu.Lock()
	if err != nil {
		run.Fail(err, c.clock())
	} else {
		run.Complete(c.clock())
	}
	c.mu.Unlock()

	if err != nil {
		log.Error("Scheduled job failed", zap.Duration("duration", run.Duration()), zap.Error(err))
		return err
	}
	log.Info("Scheduled job completed", zap.Duration("duration", run.Duration()))
	return nil
}

// runJob converts a panicking job into a failed run so the loop survives
func (c *CronTrigger) runJob(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{value: r}
		}
	}()
	return c.job(ctx)
}

// NextRunAt returns when the next scheduled run will occur
func (c *CronTrigger) NextRunAt() time.Time {
	return c.config.Schedule.Next(c.clock())
}

// LastRun returns a copy of the most recent run, or nil before the first
func (c *CronTrigger) LastRun() *JobRun {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastRun == nil {
		return nil
	}
	cp := *c.lastRun
	return &cp
}

// TriggerStatus is a point-in-time view of a trigger
type TriggerStatus struct {
	Job       string
	Schedule  string
	Running   bool
	JobActive bool
	NextRunAt time.Time
	LastRun   *JobRun
}

// Status reports whether the trigger is running and how its last run went
func (c *CronTrigger) Status() TriggerStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := TriggerStatus{
		Job:       c.config.Name,
		Schedule:  c.config.Schedule.String(),
		Running:   c.isRunning,
		JobActive: c.jobActive,
		NextRunAt: c.config.Schedule.Next(c.clock()),
	}
	if c.lastRun != nil {
		run := *c.lastRun
		st.LastRun = &run
	}
	return st
}
