package models

// Section is one offering of a course with its own seats and meeting times.
type Section struct {
	ID             int64     `json:"id" db:"id"`
	CourseID       int64     `json:"courseId" db:"course_id"`
	Number         string    `json:"sectionNumber" db:"section_number"`
	Seats          int       `json:"seats" db:"seats"`
	AvailableSeats int       `json:"availableSeats" db:"available_seats"`
	Waitlist       int       `json:"waitlist" db:"waitlist"`
	Meetings       []Meeting `json:"meetings"`
}

// WithinWaitlist reports whether the section can be taken under the given waitlist cap.
// A cap of -1 accepts every section.
func (s *Section) WithinWaitlist(maxWaitlist int) bool {
	if maxWaitlist < 0 {
		return true
	}
	return s.AvailableSeats > 0 || s.Waitlist <= maxWaitlist
}
