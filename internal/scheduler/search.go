package scheduler

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/coursegen/internal/app/models"
	"github.com/yigit/coursegen/internal/pkg/apperrors"
)

const (
	// MaxCourses is the largest number of course requests a search accepts
	MaxCourses = 8
	// MaxSchedules is the most schedules one search returns
	MaxSchedules = 10
	// DefaultTimeout is the search budget used when Params.Deadline is zero
	DefaultTimeout = 15 * time.Second
)

// Params describes one search invocation
type Params struct {
	Courses      []string      // course tokens, see ParseCourseRequest
	Restrictions []Restriction // windows to keep free
	MaxWaitlist  int           // -1 disables waitlist filtering
	Exclude      [][]int64     // schedules already delivered to the caller
	Continuation bool          // "load more" call following an earlier search
	Deadline     time.Time     // zero means DefaultTimeout from the start of Run
	Rand         *rand.Rand    // drives shuffling and category picks; nil uses a random seed
}

// ResolvedCourse is the course a request resolved to
type ResolvedCourse struct {
	Request CourseRequest
	Course  models.Course
}

// Result is a successful search outcome. Schedules[i][j] is the section chosen for Courses[j].
type Result struct {
	Courses   []ResolvedCourse
	Schedules [][]int64
	Exhausted bool // every combination was examined
	TimedOut  bool // the deadline or cancellation stopped the search early
	Stats     Stats
}

// Stats describes the work a search did
type Stats struct {
	Combinations   int           // combinations drawn from the product
	Pruned         int           // rejected by a remembered conflict pair
	Checked        int           // passed to the conflict detector
	KnownConflicts int           // distinct conflict pairs remembered
	Duplicates     int           // conflict-free but already delivered
	Elapsed        time.Duration // wall time spent in Run
}

// Search generates conflict-free schedules from a Catalog. A Search holds no per-call
// state and may be used by concurrent callers.
type Search struct {
	catalog Catalog
	now     func() time.Time
	logger  zerolog.Logger
}

// Option configures a Search
type Option func(*Search)

// WithClock replaces time.Now, used for deadline checks
func WithClock(now func() time.Time) Option {
	return func(s *Search) {
		s.now = now
	}
}

// WithLogger sets the logger used for search diagnostics
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Search) {
		s.logger = logger
	}
}

// NewSearch creates a Search over catalog
func NewSearch(catalog Catalog, opts ...Option) *Search {
	s := &Search{
		catalog: catalog,
		now:     time.Now,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run resolves the requested courses, then enumerates one section per course until
// MaxSchedules conflict-free schedules not in p.Exclude were found, the combinations run
// out, or the deadline passes or ctx is cancelled.
//
// A fresh search that stops early with nothing found fails with apperrors.ErrTimeout.
// A continuation never does; it returns whatever it found, possibly nothing.
func (s *Search) Run(ctx context.Context, p Params) (*Result, error) {
	started := s.now()

	if len(p.Courses) > MaxCourses {
		return nil, apperrors.NewScheduleError(apperrors.ErrTooManyCourses).
			WithDetail("%d requested, at most %d allowed", len(p.Courses), MaxCourses)
	}

	deadline := p.Deadline
	if deadline.IsZero() {
		deadline = started.Add(DefaultTimeout)
	}
	rng := p.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	result := &Result{}
	lists := make([][]int64, 0, len(p.Courses))
	for _, token := range p.Courses {
		resolved, sectionIDs, err := s.resolve(token, p.MaxWaitlist, rng)
		if err != nil {
			return nil, err
		}
		rng.Shuffle(len(sectionIDs), func(i, j int) {
			sectionIDs[i], sectionIDs[j] = sectionIDs[j], sectionIDs[i]
		})
		result.Courses = append(result.Courses, resolved)
		lists = append(lists, sectionIDs)
	}

	delivered := make(map[scheduleKey]struct{}, len(p.Exclude)+MaxSchedules)
	for _, schedule := range p.Exclude {
		if key, ok := keyOf(schedule); ok {
			delivered[key] = struct{}{}
		}
	}

	known := make(conflictSet)
	detector := NewDetector(s.catalog)
	combos := newProduct(lists)

	for {
		if s.stopped(ctx, deadline) {
			result.TimedOut = true
			break
		}

		candidate, ok := combos.next()
		if !ok {
			result.Exhausted = true
			break
		}
		result.Stats.Combinations++

		if known.rejects(candidate) {
			result.Stats.Pruned++
			continue
		}

		result.Stats.Checked++
		if conflict, found := detector.Check(candidate, p.Restrictions); found {
			known.add(conflict)
			continue
		}

		key, _ := keyOf(candidate)
		if _, seen := delivered[key]; seen {
			result.Stats.Duplicates++
			continue
		}
		delivered[key] = struct{}{}

		accepted := make([]int64, len(candidate))
		copy(accepted, candidate)
		result.Schedules = append(result.Schedules, accepted)
		if len(result.Schedules) == MaxSchedules {
			break
		}
	}

	result.Stats.KnownConflicts = len(known)
	result.Stats.Elapsed = s.now().Sub(started)

	s.logger.Debug().
		Int("courses", len(p.Courses)).
		Bool("continuation", p.Continuation).
		Int("accepted", len(result.Schedules)).
		Int("combinations", result.Stats.Combinations).
		Int("pruned", result.Stats.Pruned).
		Int("knownConflicts", result.Stats.KnownConflicts).
		Bool("exhausted", result.Exhausted).
		Bool("timedOut", result.TimedOut).
		Dur("elapsed", result.Stats.Elapsed).
		Msg("Schedule search finished")

	if result.TimedOut && len(result.Schedules) == 0 && !p.Continuation {
		return nil, apperrors.NewScheduleError(apperrors.ErrTimeout).
			WithDetail("no schedule found in %s", result.Stats.Elapsed.Round(time.Millisecond))
	}

	return result, nil
}

// stopped reports whether the deadline has been reached or ctx is done
func (s *Search) stopped(ctx context.Context, deadline time.Time) bool {
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return !s.now().Before(deadline)
}

// resolve maps a course token to its course and the ids of its eligible sections
func (s *Search) resolve(token string, maxWaitlist int, rng *rand.Rand) (ResolvedCourse, []int64, error) {
	req, err := ParseCourseRequest(token)
	if err != nil {
		return ResolvedCourse{}, nil, err
	}

	var course models.Course
	if req.Category {
		course, err = s.catalog.RandomCategoryCourse(req.Code, rng)
	} else {
		course, err = s.catalog.ResolveCourse(req.Code)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			return ResolvedCourse{}, nil, apperrors.NewScheduleError(apperrors.ErrCourseNotFound).WithCourse(token)
		}
		return ResolvedCourse{}, nil, err
	}

	sections := s.catalog.SectionsFor(course.ID, maxWaitlist)
	if len(sections) == 0 {
		if maxWaitlist < 0 || len(s.catalog.SectionsFor(course.ID, -1)) == 0 {
			return ResolvedCourse{}, nil, apperrors.NewScheduleError(apperrors.ErrNoSectionsOffered).WithCourse(token)
		}
		return ResolvedCourse{}, nil, apperrors.NewScheduleError(apperrors.ErrNoSectionsAvailable).WithCourse(token)
	}

	var ids []int64
	if len(req.Sections) == 0 {
		ids = make([]int64, 0, len(sections))
		for _, section := range sections {
			ids = append(ids, section.ID)
		}
	} else {
		ids = make([]int64, 0, len(req.Sections))
		for _, number := range req.Sections {
			id, found := findSection(sections, number)
			if !found {
				return ResolvedCourse{}, nil, apperrors.NewScheduleError(apperrors.ErrInvalidExplicitSection).
					WithCourse(token).
					WithSection(number)
			}
			ids = append(ids, id)
		}
	}

	return ResolvedCourse{Request: req, Course: course}, ids, nil
}

func findSection(sections []models.Section, number string) (int64, bool) {
	for _, section := range sections {
		if section.Number == number {
			return section.ID, true
		}
	}
	return 0, false
}
