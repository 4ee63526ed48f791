package clock

import "time"

// System reads the wall clock in a fixed location.
type System struct {
	loc *time.Location
}

func NewSystem(loc *time.Location) System {
	if loc == nil {
		loc = time.Local
	}
	return System{loc: loc}
}

func (c System) Now() time.Time { return time.Now().In(c.loc) }
