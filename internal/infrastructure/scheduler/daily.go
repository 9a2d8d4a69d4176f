// Package scheduler triggers pipeline runs at a fixed local time each day.
package scheduler

import (
	"context"
	"time"

	"tvsignal/internal/config"
	"tvsignal/internal/ports"
)

// DailyScheduler sleeps until the configured HH:MM, fires the job, and
// repeats. The small buffer after each run avoids double-triggering when the
// sleep returns slightly early.
type DailyScheduler struct {
	hour     int
	minute   int
	location *time.Location
	stop     chan struct{}
}

var _ ports.Scheduler = (*DailyScheduler)(nil)

// NewDailyScheduler builds a scheduler from the configured run time.
func NewDailyScheduler(cfg config.SchedulerConfig) *DailyScheduler {
	return &DailyScheduler{
		hour:     cfg.Hour,
		minute:   cfg.Minute,
		location: cfg.Location(),
	}
}

// Start begins the daily loop in a goroutine.
func (d *DailyScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if d.stop != nil {
		return nil
	}

	d.stop = make(chan struct{})
	go func() {
		for {
			wait := d.untilNext(time.Now().In(d.location))
			timer := time.NewTimer(wait)
			select {
			case t := <-timer.C:
				job(t)
				time.Sleep(time.Minute)
			case <-ctx.Done():
				timer.Stop()
				return
			case <-d.stop:
				timer.Stop()
				return
			}
		}
	}()

	return nil
}

// Stop halts the scheduling goroutine.
func (d *DailyScheduler) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	close(d.stop)
	d.stop = nil
	return nil
}

// untilNext computes the duration to the next occurrence of the target time.
func (d *DailyScheduler) untilNext(now time.Time) time.Duration {
	target := time.Date(now.Year(), now.Month(), now.Day(), d.hour, d.minute, 0, 0, d.location)
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target.Sub(now)
}
