package domain

import (
	"fmt"
	"slices"
	"strings"
)

// DaysPerWeek is the number of rosters in a complete table.
const DaysPerWeek = 7

// Roster is the fixed list of patrol members for one night of the week.
// DayIndex follows time.Weekday: 0 is Sunday.
type Roster struct {
	DayIndex int      `json:"dayIndex" yaml:"day_index"`
	Title    string   `json:"title" yaml:"title"`
	Members  []string `json:"members" yaml:"members"`
}

func (r Roster) clone() Roster {
	r.Members = slices.Clone(r.Members)
	return r
}

// RosterTable holds exactly one roster per weekday.
type RosterTable struct {
	ordered []Roster
	byDay   [DaysPerWeek]int
}

// NewRosterTable validates rosters and keeps them in the given order.
func NewRosterTable(rosters []Roster) (*RosterTable, error) {
	if len(rosters) != DaysPerWeek {
		return nil, fmt.Errorf("%w: want %d rosters, got %d", ErrInvalidRoster, DaysPerWeek, len(rosters))
	}

	t := &RosterTable{ordered: make([]Roster, 0, len(rosters))}
	for i := range t.byDay {
		t.byDay[i] = -1
	}
	titles := make(map[string]bool, len(rosters))

	for i, r := range rosters {
		if r.DayIndex < 0 || r.DayIndex >= DaysPerWeek {
			return nil, fmt.Errorf("%w: roster %d has day index %d", ErrInvalidRoster, i, r.DayIndex)
		}
		if t.byDay[r.DayIndex] >= 0 {
			return nil, fmt.Errorf("%w: day index %d defined twice", ErrInvalidRoster, r.DayIndex)
		}
		title := strings.TrimSpace(r.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: roster for day %d has no title", ErrInvalidRoster, r.DayIndex)
		}
		if titles[title] {
			return nil, fmt.Errorf("%w: duplicate title %q", ErrInvalidRoster, title)
		}
		titles[title] = true

		if len(r.Members) == 0 {
			return nil, fmt.Errorf("%w: roster %q has no members", ErrInvalidRoster, title)
		}
		seen := make(map[string]bool, len(r.Members))
		for _, m := range r.Members {
			if strings.TrimSpace(m) == "" {
				return nil, fmt.Errorf("%w: roster %q has a blank member name", ErrInvalidRoster, title)
			}
			if seen[m] {
				return nil, fmt.Errorf("%w: roster %q lists %q twice", ErrInvalidRoster, title, m)
			}
			seen[m] = true
		}

		r.Title = title
		t.byDay[r.DayIndex] = len(t.ordered)
		t.ordered = append(t.ordered, r.clone())
	}
	return t, nil
}

// ForDay returns the roster whose DayIndex equals dayIndex.
func (t *RosterTable) ForDay(dayIndex int) (Roster, bool) {
	if dayIndex < 0 || dayIndex >= DaysPerWeek {
		return Roster{}, false
	}
	i := t.byDay[dayIndex]
	if i < 0 {
		return Roster{}, false
	}
	return t.ordered[i].clone(), true
}

func (t *RosterTable) Rosters() []Roster {
	out := make([]Roster, len(t.ordered))
	for i, r := range t.ordered {
		out[i] = r.clone()
	}
	return out
}

func (t *RosterTable) Titles() []string {
	out := make([]string, len(t.ordered))
	for i, r := range t.ordered {
		out[i] = r.Title
	}
	return out
}

// DefaultRosters is the Blok H patrol schedule.
func DefaultRosters() []Roster {
	return []Roster{
		{DayIndex: 1, Title: "SENIN MALAM SELASA", Members: []string{
			"Bp Aris H01", "Bp Asep H03", "Bp Iyeng H04", "Bp Yayan", "Bp Erik",
		}},
		{DayIndex: 2, Title: "SELASA MALAM RABU", Members: []string{
			"Bp Ma'ruf", "Bp Sunara", "Bp Eka",
		}},
		{DayIndex: 3, Title: "RABU MALAM KAMIS", Members: []string{
			"Bp Ujang Nur", "Bp Lili", "Bp Kosim", "Bp Asep Sarboah",
		}},
		{DayIndex: 4, Title: "KAMIS MALAM JUMAT", Members: []string{
			"Bp Didin", "Bp Hamzah", "Bp Amrin", "Bp Aden", "Bp Nanda",
		}},
		{DayIndex: 5, Title: "JUM'AT MALAM SABTU", Members: []string{
			"Bp Ujang Guru", "Bp Wawan", "Bp Riyan", "Bp Asep H62", "Bp Irwan", "Bp Carkaya", "Bp Andre",
		}},
		{DayIndex: 6, Title: "SABTU MALAM MINGGU", Members: []string{
			"Bp Imam Kurtubi", "Bp Ayo", "Bp Ajo", "Bp Rizki",
		}},
		{DayIndex: 0, Title: "MINGGU MALAM SENIN", Members: []string{
			"Bp Haji Udin", "Bp Imam H47", "Bp Ikhsan", "Bp Rastam",
		}},
	}
}
