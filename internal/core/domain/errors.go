package domain

import (
	"errors"
	"fmt"
)

var (
	ErrIncompleteSubmission = errors.New("attendance incomplete: every member needs a status")
	ErrNoSchedule           = errors.New("no schedule for today")
	ErrUnknownMember        = errors.New("member is not on the active roster")
	ErrInvalidStatus        = errors.New("invalid attendance status")
	ErrAlreadySubmitted     = errors.New("attendance already submitted")
	ErrInvalidRoster        = errors.New("invalid roster table")
)

// MalformedLogError reports a stored submission log that could not be decoded.
type MalformedLogError struct {
	Key string
	Err error
}

func (e *MalformedLogError) Error() string {
	return fmt.Sprintf("malformed submission log %q: %v", e.Key, e.Err)
}

func (e *MalformedLogError) Unwrap() error { return e.Err }
