package scheduler

import (
	"context"
	"time"

	"CuratorHub/internal/ports"
)

// TickerScheduler runs a job at a fixed interval. It drives the trash
// janitor; the first run fires immediately on start.
type TickerScheduler struct {
	interval time.Duration
	stop     chan struct{}
}

var _ ports.Scheduler = (*TickerScheduler)(nil)

// NewTickerScheduler builds a scheduler with the given interval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &TickerScheduler{interval: interval}
}

// Start begins ticking; calling Start twice is a no-op.
func (t *TickerScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if t.stop != nil {
		return nil
	}

	t.stop = make(chan struct{})
	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		job(time.Now())
		for {
			select {
			case now := <-ticker.C:
				job(now)
			case <-ctx.Done():
				return
			case <-t.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (t *TickerScheduler) Stop(ctx context.Context) error {
	if t.stop == nil {
		return nil
	}
	close(t.stop)
	t.stop = nil
	return nil
}
