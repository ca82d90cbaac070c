package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation
const uniqueViolation = "23505"

// Constraint names generated by PostgreSQL for the catalog tables
const (
	CourseTermCodeKey      = "courses_term_code_key"
	SectionCourseNumberKey = "sections_course_id_section_number_key"
)

// IsDuplicateConstraintError checks if err is a unique violation of the named constraint
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraintName
}
