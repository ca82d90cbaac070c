package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yigit/coursegen/internal/app/models/dto"
	"github.com/yigit/coursegen/internal/pkg/apperrors"
)

// apiError is the HTTP rendering of one error kind
type apiError struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// apiErrors is checked in order; the first matching kind wins
var apiErrors = []apiError{
	{apperrors.ErrTooManyCourses, http.StatusBadRequest, dto.ErrorCodeTooManyCourses, "Too many courses requested"},
	{apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeCourseNotFound, "Course not found"},
	{apperrors.ErrNoSectionsOffered, http.StatusUnprocessableEntity, dto.ErrorCodeNoSectionsOffered, "Course has no sections this term"},
	{apperrors.ErrNoSectionsAvailable, http.StatusConflict, dto.ErrorCodeNoSectionsAvailable, "No section is within the waitlist limit"},
	{apperrors.ErrInvalidExplicitSection, http.StatusUnprocessableEntity, dto.ErrorCodeInvalidExplicitSection, "Requested section does not exist"},
	{apperrors.ErrInvalidRestriction, http.StatusBadRequest, dto.ErrorCodeInvalidRestriction, "Invalid time restriction"},
	{apperrors.ErrTimeout, http.StatusGatewayTimeout, dto.ErrorCodeSearchTimeout, "No schedule found before the time limit"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeInvalidBody, "Bad request"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrRateLimited, http.StatusTooManyRequests, dto.ErrorCodeRateLimited, "Too many requests"},
	{apperrors.ErrCatalogUnavailable, http.StatusServiceUnavailable, dto.ErrorCodeCatalogUnavailable, "Course catalog is not loaded yet"},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	status, detail := ErrorDetailFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusGatewayTimeout {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	}
	c.JSON(status, dto.NewErrorResponse(detail))
}

// ErrorDetailFor maps err to its HTTP status and error detail. Schedule errors carry the
// offending course token and section number.
func ErrorDetailFor(err error) (int, *dto.ErrorDetail) {
	for _, e := range apiErrors {
		if !errors.Is(err, e.target) {
			continue
		}
		detail := dto.NewErrorDetail(e.code, e.message)

		var schedErr *apperrors.ScheduleError
		if errors.As(err, &schedErr) {
			detail.WithCourse(schedErr.Course).WithSection(schedErr.Section)
			if schedErr.Detail != "" {
				detail.WithDetails(schedErr.Detail)
			}
		} else if e.target == apperrors.ErrValidationFailed {
			detail.WithDetails(err.Error())
		}

		if e.status < http.StatusInternalServerError {
			detail.WithSeverity(dto.ErrorSeverityWarning)
		}
		return e.status, detail
	}

	return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
		WithSeverity(dto.ErrorSeverityCritical)
}
