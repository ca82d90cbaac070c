package catalog

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/coursegen/internal/app/models"
	"github.com/yigit/coursegen/internal/pkg/apperrors"
	"github.com/yigit/coursegen/internal/scheduler"
)

var _ scheduler.Catalog = (*Snapshot)(nil)

func loadFixture(t *testing.T) ([]models.Course, []models.Section) {
	t.Helper()
	loader := &FileLoader{Path: filepath.Join("testdata", "catalog.yaml"), Logger: zerolog.Nop()}
	courses, sections, err := loader.LoadTerm(context.Background(), "202608")
	require.NoError(t, err)
	return courses, sections
}

func TestFileLoader_LoadsFixture(t *testing.T) {
	courses, sections := loadFixture(t)

	require.Len(t, courses, 4)
	require.Len(t, sections, 6)

	engl := courses[3]
	assert.Equal(t, int64(4), engl.ID, "missing course id is assigned after the largest explicit one")
	assert.Equal(t, int64(302), sections[5].ID)
	assert.Equal(t, int64(4), sections[5].CourseID)

	lecture := sections[0].Meetings[0]
	assert.True(t, lecture.Timed)
	assert.Equal(t, models.Clock(9*60), lecture.Start)
	assert.Equal(t, models.Clock(9*60+50), lecture.End)
	assert.Equal(t, "IRB0324", lecture.Location())
	assert.Equal(t, []string{"M", "W", "F"}, lecture.Days.Codes())

	online := sections[4].Meetings[1]
	assert.False(t, online.Timed, "meeting without times is untimed")
}

func TestFileLoader_TermMismatch(t *testing.T) {
	loader := &FileLoader{Path: filepath.Join("testdata", "catalog.yaml"), Logger: zerolog.Nop()}
	_, _, err := loader.LoadTerm(context.Background(), "202501")
	assert.Error(t, err)
}

func TestFileLoader_MissingFile(t *testing.T) {
	loader := &FileLoader{Path: filepath.Join(t.TempDir(), "absent.yaml"), Logger: zerolog.Nop()}
	_, _, err := loader.LoadTerm(context.Background(), "202608")
	assert.Error(t, err)
}

func TestDecodeFile_RejectsUnknownFields(t *testing.T) {
	_, err := DecodeFile(strings.NewReader("term: \"202608\"\ncourse:\n  - code: X\n"))
	assert.Error(t, err)
}

func TestParseMeeting_BadTimesBecomeUntimed(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		timed      bool
	}{
		{"regular", "9:00am", "9:50am", true},
		{"empty", "", "", false},
		{"garbage", "TBA", "TBA", false},
		{"half", "9:00am", "", false},
		{"reversed", "10:00am", "9:00am", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := ParseMeeting(zerolog.Nop(), 7, "MW", tc.start, tc.end, "", "", "")
			assert.Equal(t, tc.timed, m.Timed)
			assert.Equal(t, int64(7), m.SectionID)
		})
	}
}

func TestSnapshot_Lookups(t *testing.T) {
	courses, sections := loadFixture(t)
	snap := NewSnapshot("202608", courses, sections)

	assert.Equal(t, models.Term("202608"), snap.Term())
	assert.Equal(t, 4, snap.CourseCount())
	assert.Equal(t, 6, snap.SectionCount())

	course, err := snap.ResolveCourse("CMSC131")
	require.NoError(t, err)
	assert.Equal(t, int64(1), course.ID)

	_, err = snap.ResolveCourse("CMSC999")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	section, ok := snap.Section(102)
	require.True(t, ok)
	assert.Equal(t, "0201", section.Number)

	assert.Len(t, snap.MeetingsFor(101), 2)
	assert.Nil(t, snap.MeetingsFor(999))

	_, ok = snap.Course(42)
	assert.False(t, ok)
}

func TestSnapshot_SectionsForAppliesWaitlistCap(t *testing.T) {
	courses, sections := loadFixture(t)
	snap := NewSnapshot("202608", courses, sections)

	assert.Len(t, snap.SectionsFor(1, -1), 2)
	assert.Len(t, snap.SectionsFor(1, 7), 2)
	only := snap.SectionsFor(1, 6)
	require.Len(t, only, 1)
	assert.Equal(t, "0101", only[0].Number)
	assert.Empty(t, snap.SectionsFor(99, -1))
}

func TestSnapshot_DropsSectionsOfUnknownCourses(t *testing.T) {
	snap := NewSnapshot("202608",
		[]models.Course{{ID: 1, Code: "A"}},
		[]models.Section{{ID: 10, CourseID: 1, Number: "0101"}, {ID: 20, CourseID: 2, Number: "0101"}},
	)
	assert.Equal(t, 1, snap.SectionCount())
	_, ok := snap.Section(20)
	assert.False(t, ok)
}

func TestSnapshot_RandomCategoryCourse(t *testing.T) {
	courses, sections := loadFixture(t)
	snap := NewSnapshot("202608", courses, sections)
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 20; i++ {
		course, err := snap.RandomCategoryCourse("FSMA", rng)
		require.NoError(t, err)
		assert.Equal(t, "MATH140", course.Code)
	}

	_, err := snap.RandomCategoryCourse("DVUP", rng)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	first := rand.New(rand.NewPCG(9, 9))
	second := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < 10; i++ {
		a, _ := snap.RandomCategoryCourse("SCIS", first)
		b, _ := snap.RandomCategoryCourse("SCIS", second)
		assert.Equal(t, a, b)
	}
}

// stubLoader returns the fixture, or err once set
type stubLoader struct {
	courses  []models.Course
	sections []models.Section
	fail     atomic.Bool
	calls    atomic.Int32
}

func (l *stubLoader) LoadTerm(context.Context, models.Term) ([]models.Course, []models.Section, error) {
	l.calls.Add(1)
	if l.fail.Load() {
		return nil, nil, errors.New("database is down")
	}
	return l.courses, l.sections, nil
}

func TestStore_RefreshKeepsPreviousSnapshotOnFailure(t *testing.T) {
	courses, sections := loadFixture(t)
	loader := &stubLoader{courses: courses, sections: sections}
	store := NewStore(loader, "202608", zerolog.Nop())

	assert.Nil(t, store.Current())

	var refreshed, failed int
	store.OnRefresh = func(snap *Snapshot, err error) {
		if err != nil {
			failed++
			return
		}
		refreshed++
	}

	first, err := store.Refresh(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, store.Current())

	loader.fail.Store(true)
	_, err = store.Refresh(context.Background())
	require.Error(t, err)
	assert.Same(t, first, store.Current(), "failed refresh keeps the old snapshot")
	assert.Equal(t, 1, refreshed)
	assert.Equal(t, 1, failed)
}

func TestStore_RunRefreshesUntilCancelled(t *testing.T) {
	courses, sections := loadFixture(t)
	loader := &stubLoader{courses: courses, sections: sections}
	store := NewStore(loader, "202608", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return loader.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.NotNil(t, store.Current())
}

func TestStore_RunWithoutIntervalReturns(t *testing.T) {
	store := NewStore(&stubLoader{}, "202608", zerolog.Nop())
	store.Run(context.Background(), 0)
	assert.Nil(t, store.Current())
}

func TestFileLoader_RoundTripsWrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `courses:
  - code: HIST200
    credits: 3
    sections:
      - number: "0101"
        available: 1
        meetings:
          - { days: TuTh, start: "12:30pm", end: "1:45pm" }
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	loader := &FileLoader{Path: path, Logger: zerolog.Nop()}
	courses, sections, err := loader.LoadTerm(context.Background(), "202608")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, int64(1), courses[0].ID)
	require.Len(t, sections, 1)
	assert.Equal(t, int64(1), sections[0].ID)
	assert.Equal(t, models.Clock(12*60+30), sections[0].Meetings[0].Start)
}
