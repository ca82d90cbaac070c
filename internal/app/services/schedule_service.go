package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/coursegen/internal/app/models"
	"github.com/yigit/coursegen/internal/app/models/dto"
	"github.com/yigit/coursegen/internal/catalog"
	"github.com/yigit/coursegen/internal/pkg/apperrors"
	"github.com/yigit/coursegen/internal/pkg/metrics"
	"github.com/yigit/coursegen/internal/scheduler"
)

// gridStart is the first minute of the schedule grid clients draw (8:00am)
const gridStart = models.Clock(8 * 60)

// recordTimeout bounds how long storing a search outcome may take
const recordTimeout = 5 * time.Second

// SnapshotSource provides the active catalog snapshot
type SnapshotSource interface {
	Current() *catalog.Snapshot
}

// SearchLogRecorder stores search outcomes
type SearchLogRecorder interface {
	Record(ctx context.Context, entry *models.SearchLog) error
}

// ScheduleServiceOptions configures a ScheduleService
type ScheduleServiceOptions struct {
	Timeout time.Duration // search budget, scheduler.DefaultTimeout when zero
	Seed    *uint64       // fixed random seed, random per request when nil
}

// ScheduleService generates schedules for API requests
type ScheduleService struct {
	catalogs  SnapshotSource
	searchLog SearchLogRecorder
	opts      ScheduleServiceOptions
	logger    zerolog.Logger
	now       func() time.Time
}

// NewScheduleService creates a new schedule service. searchLog may be nil to disable recording.
func NewScheduleService(catalogs SnapshotSource, searchLog SearchLogRecorder, opts ScheduleServiceOptions, logger zerolog.Logger) *ScheduleService {
	if opts.Timeout <= 0 {
		opts.Timeout = scheduler.DefaultTimeout
	}
	return &ScheduleService{
		catalogs:  catalogs,
		searchLog: searchLog,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate runs one schedule search and shapes the result for the API
func (s *ScheduleService) Generate(ctx context.Context, req *dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	snap := s.catalogs.Current()
	if snap == nil {
		return nil, apperrors.ErrCatalogUnavailable
	}

	waitlistCap := req.WaitlistCap()
	if waitlistCap < -1 {
		return nil, fmt.Errorf("%w: maxWaitlist must be -1 or greater", apperrors.ErrValidationFailed)
	}

	restrictions := make([]scheduler.Restriction, 0, len(req.Restrictions))
	for _, r := range req.Restrictions {
		restriction, err := scheduler.ParseRestriction(r.Days, r.Start, r.End)
		if err != nil {
			return nil, err
		}
		restrictions = append(restrictions, restriction)
	}

	searchID := uuid.New()
	log := s.logger.With().Str("searchId", searchID.String()).Logger()
	started := s.now()

	search := scheduler.NewSearch(snap, scheduler.WithLogger(log), scheduler.WithClock(s.now))
	result, err := search.Run(ctx, scheduler.Params{
		Courses:      req.Courses,
		Restrictions: restrictions,
		MaxWaitlist:  waitlistCap,
		Exclude:      req.PreviousSchedules,
		Continuation: req.LoadMore,
		Deadline:     started.Add(s.opts.Timeout),
		Rand:         s.rand(),
	})
	elapsed := s.now().Sub(started)

	kind := resultKind(err)
	combinations, returned := 0, 0
	if result != nil {
		combinations, returned = result.Stats.Combinations, len(result.Schedules)
	}
	metrics.ObserveSearch(kind, req.LoadMore, elapsed, combinations, returned)

	event := log.Info()
	if err != nil && !errors.Is(err, apperrors.ErrTimeout) {
		event = log.Debug().Err(err)
	}
	event.
		Str("result", kind).
		Bool("loadMore", req.LoadMore).
		Int("courses", len(req.Courses)).
		Int("returned", returned).
		Int("combinations", combinations).
		Dur("elapsed", elapsed).
		Msg("Schedule search finished")

	if !req.LoadMore {
		if outcome, ok := outcomeOf(result, err); ok {
			s.record(ctx, log, &models.SearchLog{
				SearchID: searchID,
				Term:     snap.Term(),
				Duration: elapsed,
				Outcome:  outcome,
			}, req.Courses)
		}
	}

	if err != nil {
		return nil, err
	}

	return &dto.GenerateScheduleResponse{
		SearchID:  searchID.String(),
		Term:      string(snap.Term()),
		Schedules: shapeSchedules(snap, result, len(req.PreviousSchedules)),
		Exhausted: result.Exhausted,
		TimedOut:  result.TimedOut,
	}, nil
}

// Categories lists the requirement categories a course token may name
func (s *ScheduleService) Categories() dto.CategoriesResponse {
	return dto.CategoriesResponse{
		Categories: append([]string(nil), models.RequirementCategories...),
	}
}

// Health describes the active catalog
func (s *ScheduleService) Health() dto.HealthResponse {
	snap := s.catalogs.Current()
	if snap == nil {
		return dto.HealthResponse{Status: "starting"}
	}
	return dto.HealthResponse{
		Status:          "ok",
		Term:            string(snap.Term()),
		CatalogLoaded:   true,
		CatalogLoadedAt: snap.LoadedAt(),
		Courses:         snap.CourseCount(),
		Sections:        snap.SectionCount(),
	}
}

func (s *ScheduleService) rand() *rand.Rand {
	if s.opts.Seed == nil {
		return nil
	}
	seed := *s.opts.Seed
	return rand.New(rand.NewPCG(seed, seed))
}

// record stores the outcome of a fresh search. The request context may already be done
// (client gone, timeout), so the write runs detached from its cancellation.
func (s *ScheduleService) record(ctx context.Context, log zerolog.Logger, entry *models.SearchLog, tokens []string) {
	if s.searchLog == nil {
		return
	}

	for _, token := range tokens {
		req, err := scheduler.ParseCourseRequest(token)
		if err != nil {
			continue
		}
		if req.Category {
			entry.Categories = append(entry.Categories, req.Code)
		} else {
			entry.Courses = append(entry.Courses, req.Code)
		}
	}

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	if err := s.searchLog.Record(recordCtx, entry); err != nil {
		metrics.SearchLogFailed()
		log.Error().Err(err).Str("outcome", string(entry.Outcome)).Msg("Failed to record search outcome")
	}
}

// outcomeOf maps a fresh search result to the outcome that gets recorded. Failures other
// than a timeout are not recorded.
func outcomeOf(result *scheduler.Result, err error) (models.SearchOutcome, bool) {
	switch {
	case errors.Is(err, apperrors.ErrTimeout):
		return models.SearchOutcomeTimeout, true
	case err != nil:
		return "", false
	case len(result.Schedules) > 0:
		return models.SearchOutcomeFound, true
	default:
		return models.SearchOutcomeNone, true
	}
}

// resultKind labels a search result for metrics and logs
func resultKind(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, apperrors.ErrTooManyCourses):
		return "too_many_courses"
	case errors.Is(err, apperrors.ErrCourseNotFound):
		return "course_not_found"
	case errors.Is(err, apperrors.ErrNoSectionsOffered):
		return "no_sections_offered"
	case errors.Is(err, apperrors.ErrNoSectionsAvailable):
		return "no_sections_available"
	case errors.Is(err, apperrors.ErrInvalidExplicitSection):
		return "invalid_explicit_section"
	case errors.Is(err, apperrors.ErrTimeout):
		return "timeout"
	default:
		return "error"
	}
}

// shapeSchedules expands section ids into response entries. Indexes continue after the
// schedules the client already holds.
func shapeSchedules(snap *catalog.Snapshot, result *scheduler.Result, previous int) []dto.ScheduleResponse {
	out := make([]dto.ScheduleResponse, 0, len(result.Schedules))
	for i, ids := range result.Schedules {
		schedule := dto.ScheduleResponse{
			ScheduleIndex: previous + i + 1,
			SectionIDs:    ids,
			Sections:      make([]dto.ScheduledSectionResponse, 0, len(ids)),
		}
		for j, id := range ids {
			resolved := result.Courses[j]
			section, _ := snap.Section(id)
			schedule.TotalCredits += resolved.Course.Credits
			schedule.Sections = append(schedule.Sections, shapeSection(resolved, section))
		}
		out = append(out, schedule)
	}
	return out
}

func shapeSection(resolved scheduler.ResolvedCourse, section models.Section) dto.ScheduledSectionResponse {
	entry := dto.ScheduledSectionResponse{
		SectionID:      section.ID,
		CourseCode:     resolved.Course.Code,
		RequestToken:   resolved.Request.Token,
		Title:          resolved.Course.Title,
		SectionNumber:  section.Number,
		Categories:     resolved.Course.Categories,
		Credits:        resolved.Course.Credits,
		Seats:          section.Seats,
		AvailableSeats: section.AvailableSeats,
		Waitlist:       section.Waitlist,
		Meetings:       make([]dto.MeetingResponse, 0, len(section.Meetings)),
	}
	for _, m := range section.Meetings {
		meeting := dto.MeetingResponse{
			Days:     m.Days.Codes(),
			Timed:    m.Timed,
			Location: m.Location(),
			Type:     m.Type,
		}
		if m.Timed {
			meeting.Start = m.Start.String()
			meeting.End = m.End.String()
			meeting.DurationMinutes = m.End.Minutes() - m.Start.Minutes()
			meeting.MinutesSince8am = m.Start.Minutes() - gridStart.Minutes()
		}
		entry.Meetings = append(entry.Meetings, meeting)
	}
	return entry
}
