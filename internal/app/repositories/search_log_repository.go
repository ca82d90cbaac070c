package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/coursegen/internal/app/models"
)

// SearchLogRepository stores the outcome of fresh schedule searches
type SearchLogRepository struct {
	db *pgxpool.Pool
}

// NewSearchLogRepository creates a new search log repository
func NewSearchLogRepository(db *pgxpool.Pool) *SearchLogRepository {
	return &SearchLogRepository{
		db: db,
	}
}

// Record inserts the search and its requested codes, setting entry.ID and entry.CreatedAt
func (r *SearchLogRepository) Record(ctx context.Context, entry *models.SearchLog) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO created_schedules (search_id, term, load_time_ms, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`
		err := tx.QueryRow(ctx, query,
			entry.SearchID,
			string(entry.Term),
			entry.Duration.Milliseconds(),
			string(entry.Outcome),
		).Scan(&entry.ID, &entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("error inserting search log: %w", err)
		}

		rows := make([][]any, 0, len(entry.Courses)+len(entry.Categories))
		for _, code := range entry.Courses {
			rows = append(rows, []any{entry.ID, len(rows), code, false})
		}
		for _, code := range entry.Categories {
			rows = append(rows, []any{entry.ID, len(rows), code, true})
		}
		if len(rows) == 0 {
			return nil
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"created_schedule_courses"},
			[]string{"schedule_id", "position", "code", "is_category"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("error inserting search log courses: %w", err)
		}
		return nil
	})
}
