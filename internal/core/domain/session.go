package domain

type SessionState int

const (
	StateDrafting SessionState = iota
	StateSubmitted
)

func (s SessionState) String() string {
	switch s {
	case StateDrafting:
		return "drafting"
	case StateSubmitted:
		return "submitted"
	}
	return "unknown"
}

// SessionView is a read-only copy of an attendance session for rendering.
type SessionView struct {
	Roster    Roster
	HasRoster bool
	State     SessionState
	Entries   []MemberEntry
	Prelek    string
	Complete  bool
	Missing   []string
	Analysis  *Analysis
	Record    *SubmissionRecord
}
