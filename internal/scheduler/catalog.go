package scheduler

import (
	"math/rand/v2"

	"github.com/yigit/coursegen/internal/app/models"
)

// Catalog is the read-only course data a search runs against. Implementations must be
// safe for concurrent readers and must not change while a search holds them.
type Catalog interface {
	// ResolveCourse looks a course up by code. Returns apperrors.ErrCourseNotFound if unknown.
	ResolveCourse(code string) (models.Course, error)
	// RandomCategoryCourse picks one course satisfying the requirement category using rng.
	RandomCategoryCourse(category string, rng *rand.Rand) (models.Course, error)
	// SectionsFor returns the term's sections of a course that satisfy the waitlist cap
	// (-1 disables the filter).
	SectionsFor(courseID int64, maxWaitlist int) []models.Section
	MeetingSource
}

// MeetingSource provides the meetings of a section
type MeetingSource interface {
	MeetingsFor(sectionID int64) []models.Meeting
}
