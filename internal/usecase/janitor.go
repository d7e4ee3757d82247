package usecase

import (
	"context"
	"log/slog"
	"time"

	"CuratorHub/internal/ports"
)

// Janitor periodically purges trashed articles past their retention.
type Janitor struct {
	driver    ports.Scheduler
	library   *Library
	retention time.Duration
	logger    *slog.Logger
}

// NewJanitor wires the scheduler driver with the library.
func NewJanitor(driver ports.Scheduler, library *Library, retention time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{driver: driver, library: library, retention: retention, logger: logger}
}

// Start registers the purge job with the scheduler.
func (j *Janitor) Start(ctx context.Context) error {
	if j.driver == nil || j.library == nil {
		return nil
	}

	job := func(time.Time) {
		purged, err := j.library.PurgeExpired(ctx, j.retention)
		if err != nil {
			j.warn("trash purge failed", "error", err)
			return
		}
		if purged > 0 {
			j.info("purged trashed articles", "count", purged)
		}
	}

	return j.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (j *Janitor) Stop(ctx context.Context) error {
	if j.driver == nil {
		return nil
	}
	return j.driver.Stop(ctx)
}

func (j *Janitor) warn(msg string, args ...any) {
	if j.logger != nil {
		j.logger.Warn(msg, args...)
	}
}

func (j *Janitor) info(msg string, args ...any) {
	if j.logger != nil {
		j.logger.Info(msg, args...)
	}
}
