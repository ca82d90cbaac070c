package scheduler

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yigit/coursegen/internal/app/models"
	"github.com/yigit/coursegen/internal/pkg/apperrors"
)

// fakeCatalog is an in-memory Catalog that counts how often it is consulted
type fakeCatalog struct {
	courses  map[string]models.Course
	sections map[int64][]models.Section
	meetings map[int64][]models.Meeting
	calls    int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		courses:  make(map[string]models.Course),
		sections: make(map[int64][]models.Section),
		meetings: make(map[int64][]models.Meeting),
	}
}

func (f *fakeCatalog) addCourse(id int64, code string, categories ...string) {
	f.courses[code] = models.Course{ID: id, Code: code, Title: code, Credits: 3, Categories: categories}
}

func (f *fakeCatalog) addSection(courseID, sectionID int64, number string, meetings ...models.Meeting) {
	for i := range meetings {
		meetings[i].SectionID = sectionID
	}
	f.sections[courseID] = append(f.sections[courseID], models.Section{
		ID: sectionID, CourseID: courseID, Number: number, Seats: 30, AvailableSeats: 5, Meetings: meetings,
	})
	f.meetings[sectionID] = meetings
}

func (f *fakeCatalog) ResolveCourse(code string) (models.Course, error) {
	f.calls++
	c, ok := f.courses[code]
	if !ok {
		return models.Course{}, apperrors.ErrCourseNotFound
	}
	return c, nil
}

func (f *fakeCatalog) RandomCategoryCourse(category string, rng *rand.Rand) (models.Course, error) {
	f.calls++
	var matching []models.Course
	for _, c := range f.courses {
		if c.InCategory(category) {
			matching = append(matching, c)
		}
	}
	if len(matching) == 0 {
		return models.Course{}, apperrors.ErrCourseNotFound
	}
	sort.Slice(matching, func(i, j int) bool { return matching[i].ID < matching[j].ID })
	return matching[rng.IntN(len(matching))], nil
}

func (f *fakeCatalog) SectionsFor(courseID int64, maxWaitlist int) []models.Section {
	f.calls++
	var out []models.Section
	for _, s := range f.sections[courseID] {
		if s.WithinWaitlist(maxWaitlist) {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeCatalog) MeetingsFor(sectionID int64) []models.Meeting {
	return f.meetings[sectionID]
}

func meeting(t *testing.T, days, start, end string) models.Meeting {
	t.Helper()
	startClock, err := models.ParseClock(start)
	require.NoError(t, err)
	endClock, err := models.ParseClock(end)
	require.NoError(t, err)
	return models.Meeting{Days: models.ParseMeetingDays(days), Start: startClock, End: endClock, Timed: true}
}

func restriction(t *testing.T, days, start, end string) Restriction {
	t.Helper()
	r, err := ParseRestriction(days, start, end)
	require.NoError(t, err)
	return r
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// sortedSets normalizes schedules to sorted id sets for order-independent comparison
func sortedSets(schedules [][]int64) [][]int64 {
	out := make([][]int64, 0, len(schedules))
	for _, s := range schedules {
		c := append([]int64(nil), s...)
		sort.Slice(c, func(i, j int) bool { return c[i] < c[j] })
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		for k := range out[i] {
			if out[i][k] != out[j][k] {
				return out[i][k] < out[j][k]
			}
		}
		return false
	})
	return out
}
