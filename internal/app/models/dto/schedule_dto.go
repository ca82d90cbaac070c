package dto

// RestrictionRequest is a window the generated schedules must keep free
type RestrictionRequest struct {
	Days  string `json:"days" validate:"required" example:"TuTh"`
	Start string `json:"start" validate:"required" example:"9:00am"`
	End   string `json:"end" validate:"required" example:"10:30am"`
}

// GenerateScheduleRequest is the body of POST /schedules/generate.
// The course count limit is enforced by the search so it reports the dedicated error code.
type GenerateScheduleRequest struct {
	Courses           []string             `json:"courses" validate:"required,min=1,dive,required" example:"CMSC131,MATH140(0101|0201),DSNL"`
	Restrictions      []RestrictionRequest `json:"restrictions" validate:"omitempty,dive"`
	MaxWaitlist       *int                 `json:"maxWaitlist" validate:"omitempty,min=-1" example:"5"`
	PreviousSchedules [][]int64            `json:"previousSchedules"`
	LoadMore          bool                 `json:"loadMore"`
}

// WaitlistCap returns the requested cap, -1 when none was sent
func (r *GenerateScheduleRequest) WaitlistCap() int {
	if r.MaxWaitlist == nil {
		return -1
	}
	return *r.MaxWaitlist
}

// MeetingResponse is one meeting of a scheduled section
type MeetingResponse struct {
	Days            []string `json:"days" example:"M,W,F"`
	Start           string   `json:"start,omitempty" example:"9:00am"`
	End             string   `json:"end,omitempty" example:"9:50am"`
	DurationMinutes int      `json:"durationMinutes" example:"50"`
	MinutesSince8am int      `json:"minutesSince8am" example:"60"`
	Timed           bool     `json:"timed"`
	Location        string   `json:"location,omitempty" example:"IRB0324"`
	Type            string   `json:"type,omitempty" example:"Lecture"`
}

// ScheduledSectionResponse is the section chosen for one requested course
type ScheduledSectionResponse struct {
	SectionID      int64             `json:"sectionId" example:"101"`
	CourseCode     string            `json:"courseCode" example:"CMSC131"`
	RequestToken   string            `json:"requestToken" example:"CMSC131"`
	Title          string            `json:"title" example:"Object-Oriented Programming I"`
	SectionNumber  string            `json:"sectionNumber" example:"0101"`
	Categories     []string          `json:"categories,omitempty"`
	Credits        int               `json:"credits" example:"4"`
	Seats          int               `json:"seats" example:"30"`
	AvailableSeats int               `json:"availableSeats" example:"4"`
	Waitlist       int               `json:"waitlist" example:"0"`
	Meetings       []MeetingResponse `json:"meetings"`
}

// ScheduleResponse is one conflict-free schedule
type ScheduleResponse struct {
	ScheduleIndex int                        `json:"scheduleIndex" example:"1"`
	SectionIDs    []int64                    `json:"sectionIds"`
	TotalCredits  int                        `json:"totalCredits" example:"15"`
	Sections      []ScheduledSectionResponse `json:"sections"`
}

// GenerateScheduleResponse is the data of a successful generate call
type GenerateScheduleResponse struct {
	SearchID  string             `json:"searchId" example:"7f8c2a8e-9b1d-4c55-8f0e-3f8d2c8a1b2d"`
	Term      string             `json:"term" example:"202608"`
	Schedules []ScheduleResponse `json:"schedules"`
	Exhausted bool               `json:"exhausted"`
	TimedOut  bool               `json:"timedOut"`
}

// CategoriesResponse lists the requirement category codes a course token may use
type CategoriesResponse struct {
	Categories []string `json:"categories" example:"FSAW,DSNL"`
}
