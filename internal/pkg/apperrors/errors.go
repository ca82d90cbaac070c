package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
	ErrRateLimited      = errors.New("too many requests")
)

// Schedule generation errors. Every terminal failure of a search maps to exactly one of these.
var (
	ErrTooManyCourses         = errors.New("too many courses requested")
	ErrCourseNotFound         = errors.New("course not found")
	ErrNoSectionsOffered      = errors.New("course has no sections this term")
	ErrNoSectionsAvailable    = errors.New("no sections within the waitlist limit")
	ErrInvalidExplicitSection = errors.New("requested section does not exist for course")
	ErrInvalidRestriction     = errors.New("invalid time restriction")
	ErrTimeout                = errors.New("schedule search timed out")
)

// Catalog errors
var (
	ErrCatalogUnavailable = errors.New("course catalog is not loaded")
)

// ScheduleError carries the request token that caused a schedule generation failure.
// It unwraps to one of the schedule generation sentinels above.
type ScheduleError struct {
	Err     error
	Course  string // offending course token, if any
	Section string // offending section number, if any
	Detail  string
}

// Error implements error interface
func (e *ScheduleError) Error() string {
	msg := e.Err.Error()
	if e.Course != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Course)
	}
	if e.Section != "" {
		msg = fmt.Sprintf("%s (section %s)", msg, e.Section)
	}
	if e.Detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	return msg
}

// Unwrap implements errors.Unwrap interface
func (e *ScheduleError) Unwrap() error {
	return e.Err
}

// NewScheduleError creates a ScheduleError for the given sentinel
func NewScheduleError(err error) *ScheduleError {
	return &ScheduleError{Err: err}
}

// WithCourse sets the offending course token
func (e *ScheduleError) WithCourse(course string) *ScheduleError {
	e.Course = course
	return e
}

// WithSection sets the offending section number
func (e *ScheduleError) WithSection(section string) *ScheduleError {
	e.Section = section
	return e
}

// WithDetail adds a free-form explanation
func (e *ScheduleError) WithDetail(format string, args ...interface{}) *ScheduleError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}
