package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/yigit/coursegen/internal/app/models"
	"github.com/yigit/coursegen/internal/catalog"
	"github.com/yigit/coursegen/internal/db"
)

// Transactor runs a function inside a database transaction
type Transactor interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// CatalogImporter is the part of the catalog repository the seed needs
type CatalogImporter interface {
	CountCourses(ctx context.Context, term models.Term) (int, error)
	ImportTerm(ctx context.Context, tx pgx.Tx, term models.Term, courses []models.Course, sections []models.Section) error
}

// ImportCatalogIfEmpty loads seedFile into the database when term has no courses yet.
// It returns the number of imported courses, zero when the term was already populated.
func ImportCatalogIfEmpty(ctx context.Context, txr Transactor, repo CatalogImporter, term models.Term, seedFile string, lgr zerolog.Logger) (int, error) {
	if seedFile == "" {
		return 0, nil
	}

	count, err := repo.CountCourses(ctx, term)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		lgr.Debug().Str("term", string(term)).Int("courses", count).Msg("Catalog already populated, skipping seed import")
		return 0, nil
	}

	fh, err := os.Open(seedFile)
	if err != nil {
		return 0, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer fh.Close()

	file, err := catalog.DecodeFile(fh)
	if err != nil {
		return 0, err
	}
	if file.Term != "" && models.Term(file.Term) != term {
		return 0, fmt.Errorf("seed file %s holds term %s, want %s", seedFile, file.Term, term)
	}

	courses, sections := file.Models(lgr)
	err = txr.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return repo.ImportTerm(ctx, tx, term, courses, sections)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to import seed catalog: %w", err)
	}

	lgr.Info().
		Str("term", string(term)).
		Str("file", seedFile).
		Int("courses", len(courses)).
		Int("sections", len(sections)).
		Msg("Seed catalog imported")
	return len(courses), nil
}
