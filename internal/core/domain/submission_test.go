package domain_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
)

func entry(member string, s domain.AttendanceStatus, notes string) domain.MemberEntry {
	return domain.MemberEntry{Member: member, AttendanceEntry: domain.AttendanceEntry{Status: s, Notes: notes}}
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name       string
		sheet      domain.AttendanceSheet
		prelek     float64
		wantCounts domain.StatusCounts
		wantNotes  []domain.MemberNote
	}{
		{
			name: "mixed_statuses_with_note",
			sheet: domain.NewAttendanceSheet(
				entry("A", domain.StatusPresent, ""),
				entry("B", domain.StatusExcused, "replaced by X"),
				entry("C", domain.StatusSick, ""),
			),
			prelek:     75000,
			wantCounts: domain.StatusCounts{Present: 1, Excused: 1, Sick: 1},
			wantNotes:  []domain.MemberNote{{MemberName: "B", Note: "replaced by X"}},
		},
		{
			name: "whitespace_notes_are_skipped",
			sheet: domain.NewAttendanceSheet(
				entry("A", domain.StatusAbsent, "   "),
				entry("B", domain.StatusAbsent, "tidak ada kabar"),
			),
			wantCounts: domain.StatusCounts{Absent: 2},
			wantNotes:  []domain.MemberNote{{MemberName: "B", Note: "tidak ada kabar"}},
		},
		{
			name: "notes_follow_sheet_order",
			sheet: domain.NewAttendanceSheet(
				entry("Z", domain.StatusSick, "flu"),
				entry("M", domain.StatusPresent, ""),
				entry("A", domain.StatusExcused, "acara keluarga"),
			),
			wantCounts: domain.StatusCounts{Present: 1, Excused: 1, Sick: 1},
			wantNotes: []domain.MemberNote{
				{MemberName: "Z", Note: "flu"},
				{MemberName: "A", Note: "acara keluarga"},
			},
		},
		{
			name:  "empty_sheet",
			sheet: domain.NewAttendanceSheet(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.Analyze(tt.sheet, tt.prelek)

			assert.Equal(t, tt.wantCounts, got.StatusCounts)
			assert.Equal(t, tt.prelek, got.PrelekResult)
			assert.Equal(t, tt.wantNotes, got.Notes)
		})
	}
}

func TestParsePrelek(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{input: "75000", want: 75000, wantOK: true},
		{input: " 12500.50 ", want: 12500.5, wantOK: true},
		{input: "", want: 0, wantOK: true},
		{input: "0", want: 0, wantOK: true},
		{input: "abc", want: 0, wantOK: false},
		{input: "-5000", want: 0, wantOK: false},
		{input: "NaN", want: 0, wantOK: false},
		{input: "Inf", want: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := domain.ParsePrelek(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestSubmissionRecord_JSONFieldNames(t *testing.T) {
	rec := domain.SubmissionRecord{
		ID:            1760000000000,
		SubmittedAt:   time.Date(2025, 10, 9, 15, 0, 0, 0, time.UTC),
		ScheduleTitle: "KAMIS MALAM JUMAT",
		Attendance:    domain.NewAttendanceSheet(entry("Bp Didin", domain.StatusPresent, "")),
		PrelekResult:  20000,
	}

	b, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.ElementsMatch(t,
		[]string{"id", "submittedAt", "scheduleTitle", "attendance", "prelekResult"},
		keys(raw))

	var back domain.SubmissionRecord
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, rec, back)
	assert.Equal(t, domain.Analyze(rec.Attendance, rec.PrelekResult), back.Analysis())
}

func TestSumRecap(t *testing.T) {
	entries := []domain.RecapEntry{
		{Analysis: domain.Analysis{StatusCounts: domain.StatusCounts{Present: 3, Absent: 1}, PrelekResult: 50000}},
		{Analysis: domain.Analysis{StatusCounts: domain.StatusCounts{Present: 2, Sick: 2}, PrelekResult: 25000}},
	}

	totals := domain.SumRecap(entries)

	assert.Equal(t, 2, totals.Submissions)
	assert.Equal(t, domain.StatusCounts{Present: 5, Sick: 2, Absent: 1}, totals.StatusCounts)
	assert.Equal(t, 75000.0, totals.PrelekResult)
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
