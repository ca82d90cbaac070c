package models

// Meeting is a recurring class meeting of a section. Meetings without a fixed time
// (Timed == false) are shown to the user but never take part in conflict checks.
type Meeting struct {
	SectionID int64    `json:"sectionId" db:"section_id"`
	Days      Weekdays `json:"days" db:"days"`
	Start     Clock    `json:"start" db:"start_time"`
	End       Clock    `json:"end" db:"end_time"`
	Timed     bool     `json:"timed"`
	Building  string   `json:"building,omitempty" db:"building"`
	Room      string   `json:"room,omitempty" db:"room"`
	Type      string   `json:"type,omitempty" db:"type"`
}

// Location returns building and room joined the way the registrar prints them (IRB0324)
func (m *Meeting) Location() string {
	return m.Building + m.Room
}
