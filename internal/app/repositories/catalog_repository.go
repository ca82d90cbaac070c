package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/coursegen/internal/app/models"
	"github.com/yigit/coursegen/internal/catalog"
	"github.com/yigit/coursegen/internal/pkg/dberrors"
)

// CatalogRepository loads and imports term catalogs
type CatalogRepository struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *pgxpool.Pool, logger zerolog.Logger) *CatalogRepository {
	return &CatalogRepository{
		db:     db,
		logger: logger,
	}
}

type categoryRow struct {
	courseID int64
	category string
}

type meetingRow struct {
	sectionID int64
	days      string
	start     string
	end       string
	building  string
	room      string
	kind      string
}

// LoadTerm implements catalog.Loader. The four tables are read concurrently.
func (r *CatalogRepository) LoadTerm(ctx context.Context, term models.Term) ([]models.Course, []models.Section, error) {
	var (
		courses    []models.Course
		categories []categoryRow
		sections   []models.Section
		meetings   []meetingRow
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		courses, err = r.loadCourses(gCtx, term)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = r.loadCategories(gCtx, term)
		return err
	})
	g.Go(func() error {
		var err error
		sections, err = r.loadSections(gCtx, term)
		return err
	})
	g.Go(func() error {
		var err error
		meetings, err = r.loadMeetings(gCtx, term)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	courses, sections = assembleCatalog(r.logger, courses, categories, sections, meetings)
	return courses, sections, nil
}

// assembleCatalog attaches categories to courses and meetings to sections
func assembleCatalog(logger zerolog.Logger, courses []models.Course, categories []categoryRow, sections []models.Section, meetings []meetingRow) ([]models.Course, []models.Section) {
	byCourse := make(map[int64][]string, len(courses))
	for _, row := range categories {
		byCourse[row.courseID] = append(byCourse[row.courseID], row.category)
	}
	for i := range courses {
		courses[i].Categories = byCourse[courses[i].ID]
	}

	bySection := make(map[int64][]models.Meeting, len(sections))
	for _, row := range meetings {
		m := catalog.ParseMeeting(logger, row.sectionID, row.days, row.start, row.end, row.building, row.room, row.kind)
		bySection[row.sectionID] = append(bySection[row.sectionID], m)
	}
	for i := range sections {
		sections[i].Meetings = bySection[sections[i].ID]
	}

	return courses, sections
}

func (r *CatalogRepository) loadCourses(ctx context.Context, term models.Term) ([]models.Course, error) {
	query := `
		SELECT id, code, title, credits
		FROM courses
		WHERE term = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, string(term))
	if err != nil {
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Title, &c.Credits); err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *CatalogRepository) loadCategories(ctx context.Context, term models.Term) ([]categoryRow, error) {
	query := `
		SELECT cc.course_id, cc.category
		FROM course_categories cc
		JOIN courses c ON c.id = cc.course_id
		WHERE c.term = $1
		ORDER BY cc.course_id, cc.category
	`

	rows, err := r.db.Query(ctx, query, string(term))
	if err != nil {
		return nil, fmt.Errorf("error querying course categories: %w", err)
	}
	defer rows.Close()

	var out []categoryRow
	for rows.Next() {
		var row categoryRow
		if err := rows.Scan(&row.courseID, &row.category); err != nil {
			return nil, fmt.Errorf("error scanning course category: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *CatalogRepository) loadSections(ctx context.Context, term models.Term) ([]models.Section, error) {
	query := `
		SELECT s.id, s.course_id, s.section_number, s.seats, s.available_seats, s.waitlist
		FROM sections s
		JOIN courses c ON c.id = s.course_id
		WHERE c.term = $1 AND s.active
		ORDER BY s.course_id, s.section_number
	`

	rows, err := r.db.Query(ctx, query, string(term))
	if err != nil {
		return nil, fmt.Errorf("error querying sections: %w", err)
	}
	defer rows.Close()

	var sections []models.Section
	for rows.Next() {
		var s models.Section
		if err := rows.Scan(&s.ID, &s.CourseID, &s.Number, &s.Seats, &s.AvailableSeats, &s.Waitlist); err != nil {
			return nil, fmt.Errorf("error scanning section: %w", err)
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func (r *CatalogRepository) loadMeetings(ctx context.Context, term models.Term) ([]meetingRow, error) {
	query := `
		SELECT m.section_id, m.days, m.start_time, m.end_time, m.building, m.room, m.type
		FROM section_meetings m
		JOIN sections s ON s.id = m.section_id
		JOIN courses c ON c.id = s.course_id
		WHERE c.term = $1 AND s.active
		ORDER BY m.section_id, m.id
	`

	rows, err := r.db.Query(ctx, query, string(term))
	if err != nil {
		return nil, fmt.Errorf("error querying section meetings: %w", err)
	}
	defer rows.Close()

	var out []meetingRow
	for rows.Next() {
		var row meetingRow
		if err := rows.Scan(&row.sectionID, &row.days, &row.start, &row.end, &row.building, &row.room, &row.kind); err != nil {
			return nil, fmt.Errorf("error scanning section meeting: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CountCourses returns the number of courses stored for a term
func (r *CatalogRepository) CountCourses(ctx context.Context, term models.Term) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses WHERE term = $1`, string(term)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting courses: %w", err)
	}
	return count, nil
}

// ImportTerm stores courses and sections for a term inside tx. Ids are assigned by the
// database; Section.CourseID refers to the Course.ID values passed in.
func (r *CatalogRepository) ImportTerm(ctx context.Context, tx pgx.Tx, term models.Term, courses []models.Course, sections []models.Section) error {
	courseIDs := make(map[int64]int64, len(courses))
	for _, c := range courses {
		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO courses (term, code, title, credits)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, string(term), c.Code, c.Title, c.Credits).Scan(&id)
		if dberrors.IsDuplicateConstraintError(err, dberrors.CourseTermCodeKey) {
			return fmt.Errorf("course %s is listed twice for term %s: %w", c.Code, term, err)
		}
		if err != nil {
			return fmt.Errorf("error inserting course %s: %w", c.Code, err)
		}
		courseIDs[c.ID] = id

		for _, category := range c.Categories {
			if _, err := tx.Exec(ctx, `INSERT INTO course_categories (course_id, category) VALUES ($1, $2)`, id, category); err != nil {
				return fmt.Errorf("error inserting category %s for %s: %w", category, c.Code, err)
			}
		}
	}

	for _, s := range sections {
		courseID, ok := courseIDs[s.CourseID]
		if !ok {
			return fmt.Errorf("section %s refers to unknown course %d", s.Number, s.CourseID)
		}

		var id int64
		err := tx.QueryRow(ctx, `
			INSERT INTO sections (course_id, section_number, seats, available_seats, waitlist)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, courseID, s.Number, s.Seats, s.AvailableSeats, s.Waitlist).Scan(&id)
		if dberrors.IsDuplicateConstraintError(err, dberrors.SectionCourseNumberKey) {
			return fmt.Errorf("section %s is listed twice for course %d: %w", s.Number, s.CourseID, err)
		}
		if err != nil {
			return fmt.Errorf("error inserting section %s: %w", s.Number, err)
		}

		for _, m := range s.Meetings {
			start, end := "", ""
			if m.Timed {
				start, end = m.Start.String(), m.End.String()
			}
			_, err := tx.Exec(ctx, `
				INSERT INTO section_meetings (section_id, days, start_time, end_time, building, room, type)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, id, m.Days.String(), start, end, m.Building, m.Room, m.Type)
			if err != nil {
				return fmt.Errorf("error inserting meeting for section %s: %w", s.Number, err)
			}
		}
	}
	return nil
}
