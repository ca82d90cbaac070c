package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: CourseTermCodeKey})

	assert.True(t, IsDuplicateConstraintError(dup, CourseTermCodeKey))
	assert.False(t, IsDuplicateConstraintError(dup, SectionCourseNumberKey))
	assert.False(t, IsDuplicateConstraintError(&pgconn.PgError{Code: "23503", ConstraintName: CourseTermCodeKey}, CourseTermCodeKey))
	assert.False(t, IsDuplicateConstraintError(errors.New("boom"), CourseTermCodeKey))
}
