package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// sweepTimeout bounds a single background sweep.
const sweepTimeout = time.Minute

// Scheduler runs jobs on a schedule. *cron.Cron satisfies it.
type Scheduler interface {
	AddFunc(schedule string, cmd func()) (cron.EntryID, error)
	Start()
	Stop() context.Context
}

// Sweeper evicts expired entries.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// Janitor periodically sweeps expired entries out of a cache,
// independent of read traffic.
type Janitor struct {
	store     Sweeper
	scheduler Scheduler
	interval  time.Duration
	logger    zerolog.Logger

	mu      sync.Mutex
	started bool
}

// JanitorOption configures a Janitor.
type JanitorOption func(*Janitor)

// WithScheduler replaces the default cron scheduler (for testing).
func WithScheduler(s Scheduler) JanitorOption {
	return func(j *Janitor) {
		if s != nil {
			j.scheduler = s
		}
	}
}

// WithJanitorLogger sets the logger.
func WithJanitorLogger(logger zerolog.Logger) JanitorOption {
	return func(j *Janitor) {
		j.logger = logger
	}
}

// NewJanitor creates a janitor sweeping store every interval.
// A non-positive interval falls back to DefaultSweepInterval.
func NewJanitor(store Sweeper, interval time.Duration, opts ...JanitorOption) *Janitor {
	if store == nil {
		panic("sweeper cannot be nil")
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	j := &Janitor{
		store:     store,
		scheduler: cron.New(),
		interval:  interval,
		logger:    log.With().Str("component", "cache-janitor").Logger(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Start registers the sweep job and starts the scheduler.
// Jobs run on the scheduler's goroutines and never block callers.
func (j *Janitor) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.started {
		return nil
	}

	schedule := fmt.Sprintf("@every %s", j.interval)
	if _, err := j.scheduler.AddFunc(schedule, j.run); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	j.scheduler.Start()
	j.started = true

	j.logger.Info().Dur("interval", j.interval).Msg("Cache janitor started")
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.started {
		return
	}
	<-j.scheduler.Stop().Done()
	j.started = false

	j.logger.Info().Msg("Cache janitor stopped")
}

// RunOnce performs one sweep immediately.
func (j *Janitor) RunOnce(ctx context.Context) (int, error) {
	return j.store.SweepExpired(ctx)
}

// run is the scheduled job.
func (j *Janitor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	start := time.Now()
	removed, err := j.RunOnce(ctx)
	if err != nil {
		j.logger.Warn().Err(err).Msg("Scheduled cache sweep failed")
		return
	}
	j.logger.Debug().
		Int("removed", removed).
		Dur("duration", time.Since(start)).
		Msg("Scheduled cache sweep complete")
}
