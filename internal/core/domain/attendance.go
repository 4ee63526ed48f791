package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

type AttendanceEntry struct {
	Status AttendanceStatus `json:"status"`
	Notes  string           `json:"notes"`
}

// NotesEnabled reports whether a note may be written for this entry.
// Notes are only meaningful once a non-Present status is chosen.
func (e AttendanceEntry) NotesEnabled() bool {
	return e.Status.IsSet() && e.Status != StatusPresent
}

type MemberEntry struct {
	Member string
	AttendanceEntry
}

// DraftAttendance is the editable attendance state for one roster.
// Its key set always equals the roster's member list.
type DraftAttendance struct {
	members []string
	entries map[string]AttendanceEntry
}

func NewDraftAttendance(r Roster) *DraftAttendance {
	d := &DraftAttendance{
		members: slices.Clone(r.Members),
		entries: make(map[string]AttendanceEntry, len(r.Members)),
	}
	for _, m := range d.members {
		d.entries[m] = AttendanceEntry{}
	}
	return d
}

func (d *DraftAttendance) Members() []string {
	return slices.Clone(d.members)
}

func (d *DraftAttendance) Entry(member string) (AttendanceEntry, bool) {
	e, ok := d.entries[member]
	return e, ok
}

// SetStatus records a status. Choosing Present clears any note.
func (d *DraftAttendance) SetStatus(member string, status AttendanceStatus) error {
	e, ok := d.entries[member]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMember, member)
	}
	if !status.IsSet() {
		return fmt.Errorf("%w: status must be one of Hadir, Izin, Sakit, Alpa", ErrInvalidStatus)
	}
	e.Status = status
	if status == StatusPresent {
		e.Notes = ""
	}
	d.entries[member] = e
	return nil
}

func (d *DraftAttendance) SetNotes(member, notes string) error {
	e, ok := d.entries[member]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMember, member)
	}
	e.Notes = notes
	d.entries[member] = e
	return nil
}

// IsComplete reports whether every member has a status.
func (d *DraftAttendance) IsComplete() bool {
	return len(d.Missing()) == 0
}

// Missing returns the members still without a status, in roster order.
func (d *DraftAttendance) Missing() []string {
	var out []string
	for _, m := range d.members {
		if !d.entries[m].Status.IsSet() {
			out = append(out, m)
		}
	}
	return out
}

// Snapshot copies the draft into an immutable sheet in roster order.
func (d *DraftAttendance) Snapshot() AttendanceSheet {
	entries := make([]MemberEntry, 0, len(d.members))
	for _, m := range d.members {
		entries = append(entries, MemberEntry{Member: m, AttendanceEntry: d.entries[m]})
	}
	return NewAttendanceSheet(entries...)
}

// AttendanceSheet is the ordered attendance snapshot kept in a submission.
// It encodes as a JSON object keyed by member name and keeps key order.
type AttendanceSheet struct {
	entries []MemberEntry
}

func NewAttendanceSheet(entries ...MemberEntry) AttendanceSheet {
	if len(entries) == 0 {
		return AttendanceSheet{}
	}
	return AttendanceSheet{entries: slices.Clone(entries)}
}

func (s AttendanceSheet) Entries() []MemberEntry {
	return slices.Clone(s.entries)
}

func (s AttendanceSheet) Len() int { return len(s.entries) }

func (s AttendanceSheet) Get(member string) (AttendanceEntry, bool) {
	for _, e := range s.entries {
		if e.Member == member {
			return e.AttendanceEntry, true
		}
	}
	return AttendanceEntry{}, false
}

func (s AttendanceSheet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Member)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.AttendanceEntry)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *AttendanceSheet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		s.entries = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("attendance: expected object, got %v", tok)
	}

	var entries []MemberEntry
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		member, ok := tok.(string)
		if !ok {
			return fmt.Errorf("attendance: expected member name, got %v", tok)
		}
		if seen[member] {
			return fmt.Errorf("attendance: member %q listed twice", member)
		}
		seen[member] = true

		var entry AttendanceEntry
		if err := dec.Decode(&entry); err != nil {
			return fmt.Errorf("attendance %q: %w", member, err)
		}
		entries = append(entries, MemberEntry{Member: member, AttendanceEntry: entry})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	s.entries = entries
	return nil
}
