package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/coursegen/internal/app/models"
	"github.com/yigit/coursegen/internal/db"
)

const seedYAML = `term: "202608"
courses:
  - id: 1
    code: CMSC131
    title: Object-Oriented Programming I
    credits: 4
    sections:
      - id: 101
        number: "0101"
        seats: 30
        available: 3
        meetings:
          - days: MWF
            start: "10:00am"
            end: "10:50am"
`

type fakeTx struct {
	err   error
	calls int
}

func (f *fakeTx) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	if err := fn(ctx, nil); err != nil {
		return err
	}
	return f.err
}

type fakeRepo struct {
	count    int
	imported []models.Course
	sections []models.Section
	err      error
}

func (f *fakeRepo) CountCourses(context.Context, models.Term) (int, error) { return f.count, nil }

func (f *fakeRepo) ImportTerm(_ context.Context, _ pgx.Tx, _ models.Term, courses []models.Course, sections []models.Section) error {
	f.imported, f.sections = courses, sections
	return f.err
}

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestImportCatalogIfEmpty_ImportsIntoEmptyTerm(t *testing.T) {
	txr, repo := &fakeTx{}, &fakeRepo{}

	n, err := ImportCatalogIfEmpty(context.Background(), txr, repo, "202608", writeSeed(t, seedYAML), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, txr.calls)
	require.Len(t, repo.imported, 1)
	assert.Equal(t, "CMSC131", repo.imported[0].Code)
	require.Len(t, repo.sections, 1)
	assert.True(t, repo.sections[0].Meetings[0].Timed)
}

func TestImportCatalogIfEmpty_SkipsPopulatedTerm(t *testing.T) {
	txr, repo := &fakeTx{}, &fakeRepo{count: 12}

	n, err := ImportCatalogIfEmpty(context.Background(), txr, repo, "202608", writeSeed(t, seedYAML), zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, txr.calls)
}

func TestImportCatalogIfEmpty_NoSeedFile(t *testing.T) {
	n, err := ImportCatalogIfEmpty(context.Background(), &fakeTx{}, &fakeRepo{}, "202608", "", zerolog.Nop())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestImportCatalogIfEmpty_Errors(t *testing.T) {
	path := writeSeed(t, seedYAML)

	_, err := ImportCatalogIfEmpty(context.Background(), &fakeTx{}, &fakeRepo{}, "202701", path, zerolog.Nop())
	assert.ErrorContains(t, err, "want 202701")

	importErr := errors.New("duplicate key")
	_, err = ImportCatalogIfEmpty(context.Background(), &fakeTx{}, &fakeRepo{err: importErr}, "202608", path, zerolog.Nop())
	assert.ErrorIs(t, err, importErr)

	_, err = ImportCatalogIfEmpty(context.Background(), &fakeTx{}, &fakeRepo{}, "202608", filepath.Join(t.TempDir(), "missing.yaml"), zerolog.Nop())
	assert.Error(t, err)
}
