package scheduler

import "github.com/yigit/coursegen/internal/app/models"

// RestrictionOwner is the reserved section id that owns every restriction window
// during a conflict check. Real section ids are always positive.
const RestrictionOwner int64 = 0

// Conflict is a pair of owners whose meetings overlap or touch on a shared weekday.
// Section is the section being placed when the clash was found, Other the one already placed
// (RestrictionOwner for a restriction window).
type Conflict struct {
	Section int64
	Other   int64
}

type interval struct {
	start models.Clock
	end   models.Clock
	owner int64
}

// overlaps is inclusive at both ends: back-to-back meetings count as a conflict.
func overlaps(a, b interval) bool {
	return a.start == b.start ||
		a.end == b.end ||
		(a.start <= b.start && a.end >= b.start) ||
		(a.start >= b.start && a.start <= b.end)
}

// Detector checks candidate schedules for time conflicts. A Detector reuses its
// per-weekday buffers between calls and must not be shared between goroutines.
type Detector struct {
	meetings MeetingSource
	days     [models.WeekdayCount][]interval
}

// NewDetector creates a Detector reading meetings from src
func NewDetector(src MeetingSource) *Detector {
	return &Detector{meetings: src}
}

// Check places the restriction windows and then every section's meetings, in order, and
// returns the first clash found. Meetings without a fixed time are skipped.
// A section listed twice is reported as conflicting with itself.
func (d *Detector) Check(sections []int64, restrictions []Restriction) (Conflict, bool) {
	for i := range d.days {
		d.days[i] = d.days[i][:0]
	}

	for _, r := range restrictions {
		iv := interval{start: r.Start, end: r.End, owner: RestrictionOwner}
		for day := 0; day < models.WeekdayCount; day++ {
			if r.Days.HasIndex(day) {
				d.days[day] = append(d.days[day], iv)
			}
		}
	}

	for i, section := range sections {
		for _, earlier := range sections[:i] {
			if earlier == section {
				return Conflict{Section: section, Other: section}, true
			}
		}

		for _, m := range d.meetings.MeetingsFor(section) {
			if !m.Timed {
				continue
			}
			iv := interval{start: m.Start, end: m.End, owner: section}
			for day := 0; day < models.WeekdayCount; day++ {
				if !m.Days.HasIndex(day) {
					continue
				}
				for _, placed := range d.days[day] {
					if placed.owner != section && overlaps(iv, placed) {
						return Conflict{Section: section, Other: placed.owner}, true
					}
				}
				d.days[day] = append(d.days[day], iv)
			}
		}
	}

	return Conflict{}, false
}
