package services

import (
	"time"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
)

// ScheduleResolver picks the roster whose attendance form is due today.
// The form is filled the morning after a patrol, so today shows the roster
// of the previous night.
type ScheduleResolver struct {
	table *domain.RosterTable
	loc   *time.Location
}

func NewScheduleResolver(table *domain.RosterTable, loc *time.Location) *ScheduleResolver {
	if loc == nil {
		loc = time.Local
	}
	return &ScheduleResolver{table: table, loc: loc}
}

// PatrolDayIndex returns the weekday of the night before weekday.
func PatrolDayIndex(weekday time.Weekday) int {
	return (int(weekday) + 6) % 7
}

// Resolve returns false when no roster covers the previous night.
func (r *ScheduleResolver) Resolve(now time.Time) (domain.Roster, bool) {
	return r.table.ForDay(PatrolDayIndex(now.In(r.loc).Weekday()))
}

func (r *ScheduleResolver) Table() *domain.RosterTable { return r.table }
