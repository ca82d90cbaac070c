package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Repositories holds all the repository instances
type Repositories struct {
	CatalogRepository   *CatalogRepository
	SearchLogRepository *SearchLogRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool, logger zerolog.Logger) *Repositories {
	return &Repositories{
		CatalogRepository:   NewCatalogRepository(db, logger),
		SearchLogRepository: NewSearchLogRepository(db),
	}
}
