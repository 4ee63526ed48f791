package mocks

import (
	"sync"
	"time"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
)

// FixedClock is a ports.Clock that only moves when told to.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// CreateTestRoster creates a three-member roster for testing.
func CreateTestRoster() domain.Roster {
	return domain.Roster{
		DayIndex: 1,
		Title:    "SENIN MALAM SELASA",
		Members:  []string{"A", "B", "C"},
	}
}

// CreateTestRosterTable builds the default Blok H roster table.
func CreateTestRosterTable() *domain.RosterTable {
	table, err := domain.NewRosterTable(domain.DefaultRosters())
	if err != nil {
		panic(err)
	}
	return table
}

// CreateTestRecord creates a record whose attendance is given in order.
func CreateTestRecord(id int64, title string, prelek float64, entries ...domain.MemberEntry) domain.SubmissionRecord {
	return domain.SubmissionRecord{
		ID:            id,
		SubmittedAt:   time.UnixMilli(id).UTC(),
		ScheduleTitle: title,
		Attendance:    domain.NewAttendanceSheet(entries...),
		PrelekResult:  prelek,
	}
}

// Entry is shorthand for a member's attendance entry.
func Entry(member string, status domain.AttendanceStatus, notes string) domain.MemberEntry {
	return domain.MemberEntry{
		Member:          member,
		AttendanceEntry: domain.AttendanceEntry{Status: status, Notes: notes},
	}
}
