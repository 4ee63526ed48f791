package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AttendanceStatus is the attendance outcome for one patrol member.
// The zero value StatusUnset means no status has been chosen yet.
type AttendanceStatus uint8

const (
	StatusUnset AttendanceStatus = iota
	StatusPresent
	StatusExcused
	StatusSick
	StatusAbsent
)

// Statuses lists every recordable status in display order.
var Statuses = [...]AttendanceStatus{StatusPresent, StatusExcused, StatusSick, StatusAbsent}

var statusLabels = map[AttendanceStatus]string{
	StatusPresent: "Hadir",
	StatusExcused: "Izin",
	StatusSick:    "Sakit",
	StatusAbsent:  "Alpa",
}

var statusNames = map[AttendanceStatus]string{
	StatusPresent: "present",
	StatusExcused: "excused",
	StatusSick:    "sick",
	StatusAbsent:  "absent",
}

// Label returns the display label stored in the submission log.
func (s AttendanceStatus) Label() string {
	return statusLabels[s]
}

func (s AttendanceStatus) String() string {
	if !s.IsSet() {
		return "-"
	}
	return s.Label()
}

func (s AttendanceStatus) IsSet() bool {
	return s >= StatusPresent && s <= StatusAbsent
}

// ParseStatus accepts a label ("Hadir"), an English name ("present") or the
// first letter of either, case-insensitive.
func ParseStatus(v string) (AttendanceStatus, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return StatusUnset, fmt.Errorf("%w: empty value", ErrInvalidStatus)
	}
	for _, s := range Statuses {
		label := strings.ToLower(statusLabels[s])
		name := statusNames[s]
		if v == label || v == name {
			return s, nil
		}
		if len(v) == 1 && (v[0] == label[0] || v[0] == name[0]) {
			return s, nil
		}
	}
	return StatusUnset, fmt.Errorf("%w: %q", ErrInvalidStatus, v)
}

func (s AttendanceStatus) MarshalJSON() ([]byte, error) {
	if !s.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(s.Label())
}

func (s *AttendanceStatus) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = StatusUnset
		return nil
	}
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	for _, st := range Statuses {
		if statusLabels[st] == label {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("%w: unknown label %q", ErrInvalidStatus, label)
}

// StatusCounts holds one counter per recordable status.
type StatusCounts struct {
	Present int `json:"present"`
	Excused int `json:"excused"`
	Sick    int `json:"sick"`
	Absent  int `json:"absent"`
}

func (c StatusCounts) Count(s AttendanceStatus) int {
	switch s {
	case StatusPresent:
		return c.Present
	case StatusExcused:
		return c.Excused
	case StatusSick:
		return c.Sick
	case StatusAbsent:
		return c.Absent
	}
	return 0
}

func (c *StatusCounts) increment(s AttendanceStatus) {
	switch s {
	case StatusPresent:
		c.Present++
	case StatusExcused:
		c.Excused++
	case StatusSick:
		c.Sick++
	case StatusAbsent:
		c.Absent++
	}
}

// Add returns the element-wise sum of c and o.
func (c StatusCounts) Add(o StatusCounts) StatusCounts {
	return StatusCounts{
		Present: c.Present + o.Present,
		Excused: c.Excused + o.Excused,
		Sick:    c.Sick + o.Sick,
		Absent:  c.Absent + o.Absent,
	}
}

func (c StatusCounts) Total() int {
	return c.Present + c.Excused + c.Sick + c.Absent
}
