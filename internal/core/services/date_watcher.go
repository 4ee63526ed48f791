package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/ports"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/metrics"
)

const dateWatcherJob = "date_check"

// RosterSwitcher is the part of the session the date watcher drives.
type RosterSwitcher interface {
	RosterDay() (int, bool)
	ChangeRoster(roster *domain.Roster)
}

// DateWatcher re-resolves today's roster on a fixed interval so a process
// left running past midnight moves on to the next night's form.
type DateWatcher struct {
	resolver *ScheduleResolver
	session  RosterSwitcher
	clock    ports.Clock
	interval time.Duration
	logger   *zap.Logger
	onChange func(domain.Roster, bool)
}

func NewDateWatcher(resolver *ScheduleResolver, session RosterSwitcher, clock ports.Clock, interval time.Duration, logger *zap.Logger) *DateWatcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &DateWatcher{
		resolver: resolver,
		session:  session,
		clock:    clock,
		interval: interval,
		logger:   logger.Named("date-watcher"),
	}
}

// OnChange registers a callback run after the session switched roster.
func (w *DateWatcher) OnChange(fn func(roster domain.Roster, found bool)) {
	w.onChange = fn
}

// Check resolves the roster for the current time and switches the session
// when it differs from the active one.
func (w *DateWatcher) Check() bool {
	roster, found := w.resolver.Resolve(w.clock.Now())
	day, active := w.session.RosterDay()

	if found == active && (!found || roster.DayIndex == day) {
		return false
	}

	if found {
		w.session.ChangeRoster(&roster)
	} else {
		w.session.ChangeRoster(nil)
	}
	w.logger.Info("day rolled over", zap.Bool("schedule_found", found), zap.String("schedule", roster.Title))
	if w.onChange != nil {
		w.onChange(roster, found)
	}
	return true
}

// Run blocks until ctx is cancelled.
func (w *DateWatcher) Run(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			start := time.Now()
			w.Check()
			metrics.ObserveJob(dateWatcherJob, time.Since(start), nil)
		}
	}
}
