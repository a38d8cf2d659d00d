package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Janitor prunes expired window entries on a cron schedule. The limiter
// works correctly without it; the janitor only bounds table growth for
// deployments that see many distinct client keys.
type Janitor struct {
	limiter *FixedWindow
	cron    *cron.Cron
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewJanitor creates a janitor for the given limiter.
func NewJanitor(limiter *FixedWindow) *Janitor {
	return &Janitor{
		limiter: limiter,
		cron:    cron.New(),
		logger:  slog.Default().With("component", "ratelimit.janitor"),
	}
}

// Start schedules pruning according to a standard cron expression, e.g.
// "0 * * * *" for hourly. An empty schedule disables the janitor.
func (j *Janitor) Start(ctx context.Context, schedule string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if schedule == "" {
		j.logger.Info("cleanup schedule not configured, janitor disabled")
		return nil
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}

	if _, err := j.cron.AddFunc(schedule, func() {
		j.runPrune(ctx)
	}); err != nil {
		return fmt.Errorf("scheduling cleanup: %w", err)
	}

	j.cron.Start()
	j.running = true

	j.logger.Info("rate limit janitor started", "schedule", schedule)

	go func() {
		<-ctx.Done()
		j.Stop()
	}()

	return nil
}

// Stop halts scheduled pruning.
func (j *Janitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.running {
		return
	}

	j.cron.Stop()
	j.running = false
	j.logger.Info("rate limit janitor stopped")
}

func (j *Janitor) runPrune(ctx context.Context) {
	pruned, err := j.limiter.PruneExpired(ctx)
	if err != nil {
		j.logger.Error("scheduled cleanup failed", "error", err)
		return
	}
	if pruned > 0 {
		j.logger.Info("pruned expired rate limit windows", "pruned", pruned)
	}
}
