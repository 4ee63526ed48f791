package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanjung-residence/siskamling/attendance-service/internal/core/domain"
)

func testRoster() domain.Roster {
	return domain.Roster{DayIndex: 1, Title: "SENIN MALAM SELASA", Members: []string{"A", "B", "C"}}
}

func TestDraftAttendance_StartsEmpty(t *testing.T) {
	d := domain.NewDraftAttendance(testRoster())

	assert.False(t, d.IsComplete())
	assert.Equal(t, []string{"A", "B", "C"}, d.Missing())
	for _, m := range d.Members() {
		e, ok := d.Entry(m)
		require.True(t, ok)
		assert.False(t, e.Status.IsSet())
		assert.Empty(t, e.Notes)
	}
}

func TestDraftAttendance_SetStatus(t *testing.T) {
	d := domain.NewDraftAttendance(testRoster())

	require.NoError(t, d.SetStatus("A", domain.StatusPresent))
	require.NoError(t, d.SetStatus("B", domain.StatusExcused))
	assert.Equal(t, []string{"C"}, d.Missing())

	require.NoError(t, d.SetStatus("C", domain.StatusAbsent))
	assert.True(t, d.IsComplete())

	err := d.SetStatus("Z", domain.StatusPresent)
	assert.ErrorIs(t, err, domain.ErrUnknownMember)

	err = d.SetStatus("A", domain.StatusUnset)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestDraftAttendance_PresentClearsNotes(t *testing.T) {
	d := domain.NewDraftAttendance(testRoster())

	require.NoError(t, d.SetStatus("B", domain.StatusSick))
	require.NoError(t, d.SetNotes("B", "demam"))
	e, _ := d.Entry("B")
	assert.True(t, e.NotesEnabled())
	assert.Equal(t, "demam", e.Notes)

	require.NoError(t, d.SetStatus("B", domain.StatusPresent))
	e, _ = d.Entry("B")
	assert.False(t, e.NotesEnabled())
	assert.Empty(t, e.Notes)
}

func TestDraftAttendance_SnapshotIsDetached(t *testing.T) {
	d := domain.NewDraftAttendance(testRoster())
	require.NoError(t, d.SetStatus("A", domain.StatusPresent))

	sheet := d.Snapshot()
	require.NoError(t, d.SetStatus("A", domain.StatusAbsent))

	e, ok := sheet.Get("A")
	require.True(t, ok)
	assert.Equal(t, domain.StatusPresent, e.Status)
	assert.Equal(t, 3, sheet.Len())
}

func TestAttendanceSheet_JSONKeepsRosterOrder(t *testing.T) {
	sheet := domain.NewAttendanceSheet(
		domain.MemberEntry{Member: "Zed", AttendanceEntry: domain.AttendanceEntry{Status: domain.StatusPresent}},
		domain.MemberEntry{Member: "Amy", AttendanceEntry: domain.AttendanceEntry{Status: domain.StatusExcused, Notes: "ke luar kota"}},
		domain.MemberEntry{Member: "Bob"},
	)

	b, err := json.Marshal(sheet)
	require.NoError(t, err)
	assert.Equal(t,
		`{"Zed":{"status":"Hadir","notes":""},"Amy":{"status":"Izin","notes":"ke luar kota"},"Bob":{"status":null,"notes":""}}`,
		string(b))

	var back domain.AttendanceSheet
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, sheet, back)
}

func TestAttendanceSheet_UnmarshalRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "array", data: `[]`},
		{name: "duplicate_member", data: `{"A":{"status":"Hadir","notes":""},"A":{"status":"Alpa","notes":""}}`},
		{name: "unknown_status", data: `{"A":{"status":"Libur","notes":""}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s domain.AttendanceSheet
			assert.Error(t, json.Unmarshal([]byte(tt.data), &s))
		})
	}
}

func TestAttendanceSheet_EmptyRoundTrip(t *testing.T) {
	b, err := json.Marshal(domain.NewAttendanceSheet())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(b))

	var back domain.AttendanceSheet
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, domain.NewAttendanceSheet(), back)
}
