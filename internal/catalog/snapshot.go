package catalog

import (
	"math/rand/v2"
	"sort"
	"time"

	"github.com/yigit/coursegen/internal/app/models"
	"github.com/yigit/coursegen/internal/pkg/apperrors"
)

// Snapshot is an immutable, indexed view of one term's catalog. It satisfies
// scheduler.Catalog and is safe for any number of concurrent readers.
type Snapshot struct {
	term     models.Term
	loadedAt time.Time

	byCode     map[string]*models.Course
	byID       map[int64]*models.Course
	sections   map[int64][]models.Section // by course id, ordered by section number
	bySection  map[int64]*models.Section
	categories map[string][]int64 // category code -> course ids, ascending
}

// NewSnapshot indexes courses and sections. Sections of unknown courses are dropped.
func NewSnapshot(term models.Term, courses []models.Course, sections []models.Section) *Snapshot {
	s := &Snapshot{
		term:       term,
		loadedAt:   time.Now(),
		byCode:     make(map[string]*models.Course, len(courses)),
		byID:       make(map[int64]*models.Course, len(courses)),
		sections:   make(map[int64][]models.Section, len(courses)),
		bySection:  make(map[int64]*models.Section, len(sections)),
		categories: make(map[string][]int64),
	}

	for i := range courses {
		course := courses[i]
		s.byCode[course.Code] = &course
		s.byID[course.ID] = &course
		for _, category := range course.Categories {
			s.categories[category] = append(s.categories[category], course.ID)
		}
	}
	for _, ids := range s.categories {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}

	for _, section := range sections {
		if _, ok := s.byID[section.CourseID]; !ok {
			continue
		}
		s.sections[section.CourseID] = append(s.sections[section.CourseID], section)
	}
	for courseID, list := range s.sections {
		sort.Slice(list, func(i, j int) bool { return list[i].Number < list[j].Number })
		for i := range list {
			s.bySection[list[i].ID] = &list[i]
		}
		s.sections[courseID] = list
	}

	return s
}

// Term returns the term the snapshot was built for
func (s *Snapshot) Term() models.Term { return s.term }

// LoadedAt returns when the snapshot was built
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// CourseCount returns the number of courses in the snapshot
func (s *Snapshot) CourseCount() int { return len(s.byID) }

// SectionCount returns the number of sections in the snapshot
func (s *Snapshot) SectionCount() int { return len(s.bySection) }

// ResolveCourse looks a course up by its code
func (s *Snapshot) ResolveCourse(code string) (models.Course, error) {
	course, ok := s.byCode[code]
	if !ok {
		return models.Course{}, apperrors.ErrCourseNotFound
	}
	return *course, nil
}

// RandomCategoryCourse picks uniformly among the courses satisfying category
func (s *Snapshot) RandomCategoryCourse(category string, rng *rand.Rand) (models.Course, error) {
	ids := s.categories[category]
	if len(ids) == 0 {
		return models.Course{}, apperrors.ErrCourseNotFound
	}
	return *s.byID[ids[rng.IntN(len(ids))]], nil
}

// SectionsFor returns the sections of a course that satisfy the waitlist cap
func (s *Snapshot) SectionsFor(courseID int64, maxWaitlist int) []models.Section {
	all := s.sections[courseID]
	out := make([]models.Section, 0, len(all))
	for i := range all {
		if all[i].WithinWaitlist(maxWaitlist) {
			out = append(out, all[i])
		}
	}
	return out
}

// MeetingsFor returns the meetings of a section, nil if the section is unknown
func (s *Snapshot) MeetingsFor(sectionID int64) []models.Meeting {
	section, ok := s.bySection[sectionID]
	if !ok {
		return nil
	}
	return section.Meetings
}

// Course returns a course by id
func (s *Snapshot) Course(id int64) (models.Course, bool) {
	course, ok := s.byID[id]
	if !ok {
		return models.Course{}, false
	}
	return *course, true
}

// Section returns a section by id
func (s *Snapshot) Section(id int64) (models.Section, bool) {
	section, ok := s.bySection[id]
	if !ok {
		return models.Section{}, false
	}
	return *section, true
}
