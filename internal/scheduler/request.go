package scheduler

import (
	"regexp"
	"strings"

	"github.com/yigit/coursegen/internal/app/models"
	"github.com/yigit/coursegen/internal/pkg/apperrors"
)

var (
	courseTokenPattern   = regexp.MustCompile(`^([^()|]+)(?:\(([^()]*)\))?$`)
	sectionNumberPattern = regexp.MustCompile(`^[A-Z0-9]{4}$`)
)

// CourseRequest is one parsed course token: a concrete course code optionally restricted
// to a list of section numbers, or a requirement category code.
type CourseRequest struct {
	Token    string   // token as the caller sent it
	Code     string   // course or category code
	Category bool     // Code is a requirement category
	Sections []string // explicit section numbers, empty means any section
}

// ParseCourseRequest parses "CMSC131", "CMSC131(0101|0201)" or a category code such as "DSNL".
func ParseCourseRequest(token string) (CourseRequest, error) {
	normalized := strings.ToUpper(strings.TrimSpace(token))
	m := courseTokenPattern.FindStringSubmatch(normalized)
	if m == nil {
		return CourseRequest{}, apperrors.NewScheduleError(apperrors.ErrCourseNotFound).WithCourse(token)
	}

	req := CourseRequest{
		Token:    token,
		Code:     strings.TrimSpace(m[1]),
		Category: models.IsRequirementCategory(strings.TrimSpace(m[1])),
	}

	if !strings.Contains(normalized, "(") {
		return req, nil
	}

	// A parenthetical must list at least one well-formed section, and categories have no sections
	if req.Category || m[2] == "" {
		return CourseRequest{}, apperrors.NewScheduleError(apperrors.ErrCourseNotFound).WithCourse(token)
	}
	for _, section := range strings.Split(m[2], "|") {
		section = strings.TrimSpace(section)
		if !sectionNumberPattern.MatchString(section) {
			return CourseRequest{}, apperrors.NewScheduleError(apperrors.ErrCourseNotFound).
				WithCourse(token).
				WithSection(section)
		}
		req.Sections = append(req.Sections, section)
	}

	return req, nil
}
