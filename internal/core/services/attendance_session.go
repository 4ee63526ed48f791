package services

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/ports"
	"github.com/tanjung-residence/siskamling/attendance-service/internal/metrics"
)

// AttendanceSession owns the draft for the active roster and turns it into a
// submission record.
type AttendanceSession struct {
	mu     sync.Mutex
	log    ports.SubmissionLog
	clock  ports.Clock
	logger *zap.Logger

	roster   *domain.Roster
	draft    *domain.DraftAttendance
	prelek   string
	state    domain.SessionState
	analysis *domain.Analysis
	record   *domain.SubmissionRecord
	lastID   int64
}

var _ ports.AttendanceService = (*AttendanceSession)(nil)

// NewAttendanceSession starts drafting for roster. A nil roster means there is
// no schedule today; every edit then fails with domain.ErrNoSchedule.
func NewAttendanceSession(roster *domain.Roster, log ports.SubmissionLog, clock ports.Clock, logger *zap.Logger) *AttendanceSession {
	s := &AttendanceSession{
		log:    log,
		clock:  clock,
		logger: logger.Named("session"),
	}
	s.resetLocked(roster)
	return s
}

func (s *AttendanceSession) resetLocked(roster *domain.Roster) {
	if roster != nil {
		r := *roster
		r.Members = slices.Clone(r.Members)
		s.roster = &r
		s.draft = domain.NewDraftAttendance(r)
	} else {
		s.roster = nil
		s.draft = nil
	}
	s.prelek = ""
	s.state = domain.StateDrafting
	s.analysis = nil
	s.record = nil
}

func (s *AttendanceSession) editableLocked() error {
	if s.roster == nil {
		return domain.ErrNoSchedule
	}
	if s.state == domain.StateSubmitted {
		return domain.ErrAlreadySubmitted
	}
	return nil
}

// RosterDay returns the day index of the active roster.
func (s *AttendanceSession) RosterDay() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roster == nil {
		return 0, false
	}
	return s.roster.DayIndex, true
}

func (s *AttendanceSession) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *AttendanceSession) View() domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := domain.SessionView{State: s.state, Prelek: s.prelek}
	if s.roster != nil {
		v.Roster = *s.roster
		v.HasRoster = true
		v.Entries = s.draft.Snapshot().Entries()
		v.Missing = s.draft.Missing()
		v.Complete = len(v.Missing) == 0
	}
	if s.analysis != nil {
		a := *s.analysis
		v.Analysis = &a
	}
	if s.record != nil {
		r := *s.record
		v.Record = &r
	}
	return v
}

func (s *AttendanceSession) SetStatus(member string, status domain.AttendanceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	return s.draft.SetStatus(member, status)
}

func (s *AttendanceSession) SetNotes(member, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	return s.draft.SetNotes(member, notes)
}

// NotesEnabled reports whether the form should accept a note for member.
func (s *AttendanceSession) NotesEnabled(member string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return false
	}
	e, ok := s.draft.Entry(member)
	return ok && e.NotesEnabled()
}

func (s *AttendanceSession) SetPrelek(input string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	s.prelek = input
	return nil
}

func (s *AttendanceSession) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft != nil && s.draft.IsComplete()
}

// Submit validates the draft, appends a record to the log and moves the
// session to the submitted state. A failed append leaves the draft intact.
func (s *AttendanceSession) Submit(ctx context.Context) (domain.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked(); err != nil {
		metrics.SubmissionRejected(reasonFor(err))
		return domain.Analysis{}, err
	}
	if missing := s.draft.Missing(); len(missing) > 0 {
		metrics.SubmissionRejected("incomplete")
		s.logger.Info("submit rejected: attendance incomplete",
			zap.String("schedule", s.roster.Title),
			zap.Strings("missing", missing),
		)
		return domain.Analysis{}, domain.ErrIncompleteSubmission
	}

	prelek, ok := domain.ParsePrelek(s.prelek)
	if !ok {
		s.logger.Debug("prelek amount is not a number, using 0", zap.String("input", s.prelek))
	}

	sheet := s.draft.Snapshot()
	analysis := domain.Analyze(sheet, prelek)

	now := s.clock.Now().UTC().Truncate(time.Millisecond)
	record := domain.SubmissionRecord{
		ID:            s.nextID(now),
		SubmittedAt:   now,
		ScheduleTitle: s.roster.Title,
		Attendance:    sheet,
		PrelekResult:  prelek,
	}

	stored, err := s.log.Append(ctx, record)
	if err != nil {
		metrics.SubmissionRejected("store")
		s.logger.Error("failed to save submission", zap.Int64("id", record.ID), zap.Error(err))
		return domain.Analysis{}, fmt.Errorf("save submission: %w", err)
	}
	record = stored

	s.lastID = record.ID
	s.state = domain.StateSubmitted
	s.analysis = &analysis
	s.record = &record

	metrics.SubmissionAccepted(record.ScheduleTitle, prelek)
	s.logger.Info("attendance submitted",
		zap.Int64("id", record.ID),
		zap.String("schedule", record.ScheduleTitle),
		zap.Int("present", analysis.StatusCounts.Present),
		zap.Int("excused", analysis.StatusCounts.Excused),
		zap.Int("sick", analysis.StatusCounts.Sick),
		zap.Int("absent", analysis.StatusCounts.Absent),
		zap.Float64("prelek", prelek),
	)
	return analysis, nil
}

// nextID proposes the Unix millisecond timestamp, kept above the last id this
// session stored. The log raises it further past ids written elsewhere.
func (s *AttendanceSession) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	return id
}

// Reset discards the draft and any shown analysis for the current roster.
func (s *AttendanceSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked(s.roster)
}

// ChangeRoster switches to another roster. Unsubmitted edits are dropped.
func (s *AttendanceSession) ChangeRoster(roster *domain.Roster) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := "-"
	if s.roster != nil {
		from = s.roster.Title
	}
	to := "-"
	if roster != nil {
		to = roster.Title
	}
	s.logger.Info("active roster changed", zap.String("from", from), zap.String("to", to))
	s.resetLocked(roster)
}

func (s *AttendanceSession) Analysis() (domain.Analysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.analysis == nil {
		return domain.Analysis{}, false
	}
	return *s.analysis, true
}

func reasonFor(err error) string {
	switch err {
	case domain.ErrNoSchedule:
		return "no_schedule"
	case domain.ErrAlreadySubmitted:
		return "already_submitted"
	}
	return "other"
}
