package ports

import (
	"context"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
)

type AttendanceService interface {
	View() domain.SessionView
	SetStatus(member string, status domain.AttendanceStatus) error
	SetNotes(member, notes string) error
	NotesEnabled(member string) bool
	SetPrelek(input string) error
	IsComplete() bool
	Submit(ctx context.Context) (domain.Analysis, error)
	Reset()
	RosterDay() (int, bool)
}

type RecapService interface {
	// List returns submissions most recent first, restricted to one schedule
	// title unless filter is empty or domain.RecapFilterAll.
	List(ctx context.Context, filter string) []domain.RecapEntry
	Titles() []string
}
