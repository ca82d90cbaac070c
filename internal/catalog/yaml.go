package catalog

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/yigit/coursegen/internal/app/models"
)

// File is the YAML catalog format used for fixtures, the CLI and seeding
type File struct {
	Term    string       `yaml:"term"`
	Courses []fileCourse `yaml:"courses"`
}

type fileCourse struct {
	ID         int64         `yaml:"id"`
	Code       string        `yaml:"code"`
	Title      string        `yaml:"title"`
	Credits    int           `yaml:"credits"`
	Categories []string      `yaml:"categories"`
	Sections   []fileSection `yaml:"sections"`
}

type fileSection struct {
	ID        int64         `yaml:"id"`
	Number    string        `yaml:"number"`
	Seats     int           `yaml:"seats"`
	Available int           `yaml:"available"`
	Waitlist  int           `yaml:"waitlist"`
	Meetings  []fileMeeting `yaml:"meetings"`
}

type fileMeeting struct {
	Days     string `yaml:"days"`
	Start    string `yaml:"start"`
	End      string `yaml:"end"`
	Building string `yaml:"building"`
	Room     string `yaml:"room"`
	Type     string `yaml:"type"`
}

// DecodeFile reads a YAML catalog
func DecodeFile(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode catalog file: %w", err)
	}
	return &f, nil
}

// Models converts the file into domain types. Missing ids are assigned in file order
// after the largest explicit id. Meetings without a parsable start and end time become
// untimed meetings.
func (f *File) Models(logger zerolog.Logger) ([]models.Course, []models.Section) {
	var nextCourse, nextSection int64
	for _, c := range f.Courses {
		nextCourse = max(nextCourse, c.ID)
		for _, s := range c.Sections {
			nextSection = max(nextSection, s.ID)
		}
	}

	courses := make([]models.Course, 0, len(f.Courses))
	var sections []models.Section
	for _, c := range f.Courses {
		id := c.ID
		if id == 0 {
			nextCourse++
			id = nextCourse
		}
		courses = append(courses, models.Course{
			ID:         id,
			Code:       c.Code,
			Title:      c.Title,
			Credits:    c.Credits,
			Categories: c.Categories,
		})

		for _, s := range c.Sections {
			sectionID := s.ID
			if sectionID == 0 {
				nextSection++
				sectionID = nextSection
			}
			section := models.Section{
				ID:             sectionID,
				CourseID:       id,
				Number:         s.Number,
				Seats:          s.Seats,
				AvailableSeats: s.Available,
				Waitlist:       s.Waitlist,
			}
			for _, m := range s.Meetings {
				section.Meetings = append(section.Meetings, ParseMeeting(logger, sectionID, m.Days, m.Start, m.End, m.Building, m.Room, m.Type))
			}
			sections = append(sections, section)
		}
	}
	return courses, sections
}

// ParseMeeting builds a meeting from registrar strings. A meeting whose times are empty or
// unparsable, or whose end is not after its start, is kept as untimed.
func ParseMeeting(logger zerolog.Logger, sectionID int64, days, start, end, building, room, kind string) models.Meeting {
	m := models.Meeting{
		SectionID: sectionID,
		Days:      models.ParseMeetingDays(days),
		Building:  building,
		Room:      room,
		Type:      kind,
	}
	if start == "" && end == "" {
		return m
	}

	startClock, errStart := models.ParseClock(start)
	endClock, errEnd := models.ParseClock(end)
	if errStart != nil || errEnd != nil || endClock <= startClock {
		logger.Warn().
			Int64("sectionId", sectionID).
			Str("start", start).
			Str("end", end).
			Msg("Meeting time could not be parsed, treating as untimed")
		return m
	}

	m.Start, m.End, m.Timed = startClock, endClock, true
	return m
}

// FileLoader loads the catalog from a YAML file on every call
type FileLoader struct {
	Path   string
	Logger zerolog.Logger
}

// LoadTerm implements Loader. The file's term, when set, must match the requested one.
func (l *FileLoader) LoadTerm(_ context.Context, term models.Term) ([]models.Course, []models.Section, error) {
	fh, err := os.Open(l.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer fh.Close()

	f, err := DecodeFile(fh)
	if err != nil {
		return nil, nil, err
	}
	if f.Term != "" && term != "" && models.Term(f.Term) != term {
		return nil, nil, fmt.Errorf("catalog file %s holds term %s, want %s", l.Path, f.Term, term)
	}

	courses, sections := f.Models(l.Logger)
	return courses, sections, nil
}
