package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// SubmissionRecord is one completed attendance round. Records are appended to
// the submission log and never changed afterwards.
type SubmissionRecord struct {
	ID            int64           `json:"id"`
	SubmittedAt   time.Time       `json:"submittedAt"`
	ScheduleTitle string          `json:"scheduleTitle"`
	Attendance    AttendanceSheet `json:"attendance"`
	PrelekResult  float64         `json:"prelekResult"`
}

// LastID returns the largest id in records, or 0 for an empty log.
func LastID(records []SubmissionRecord) int64 {
	var last int64
	for _, r := range records {
		last = max(last, r.ID)
	}
	return last
}

// Analysis recomputes the aggregate view of the record.
func (r SubmissionRecord) Analysis() Analysis {
	return Analyze(r.Attendance, r.PrelekResult)
}

type MemberNote struct {
	MemberName string `json:"memberName"`
	Note       string `json:"note"`
}

type Analysis struct {
	StatusCounts StatusCounts `json:"statusCounts"`
	PrelekResult float64      `json:"prelekResult"`
	Notes        []MemberNote `json:"notes"`
}

// Analyze is the single aggregation routine used both right after a
// submission and when reading the recap.
func Analyze(sheet AttendanceSheet, prelek float64) Analysis {
	a := Analysis{PrelekResult: prelek}
	for _, e := range sheet.entries {
		if e.Status.IsSet() {
			a.StatusCounts.increment(e.Status)
		}
		if strings.TrimSpace(e.Notes) != "" {
			a.Notes = append(a.Notes, MemberNote{MemberName: e.Member, Note: e.Notes})
		}
	}
	return a
}

// ParsePrelek converts the free-text prelek amount into a non-negative number.
// Anything that is not a finite, non-negative decimal becomes 0; ok is false
// when non-blank input had to be coerced.
func ParsePrelek(input string) (amount float64, ok bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, true
	}
	v, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
