package catalog

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/coursegen/internal/app/models"
)

// Loader reads one term's courses and sections from a backing source
type Loader interface {
	LoadTerm(ctx context.Context, term models.Term) ([]models.Course, []models.Section, error)
}

// Store holds the current catalog snapshot. Searches keep the snapshot they started
// with, refreshes swap in a new one atomically.
type Store struct {
	loader  Loader
	term    models.Term
	logger  zerolog.Logger
	current atomic.Pointer[Snapshot]

	// OnRefresh is called after every refresh attempt; used for metrics
	OnRefresh func(snap *Snapshot, err error)
}

// NewStore creates a Store for term. Current returns nil until the first Refresh succeeds.
func NewStore(loader Loader, term models.Term, logger zerolog.Logger) *Store {
	return &Store{
		loader: loader,
		term:   term,
		logger: logger,
	}
}

// Current returns the active snapshot, nil if none has been loaded yet
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Refresh loads the term again and replaces the active snapshot. On failure the
// previous snapshot stays active.
func (s *Store) Refresh(ctx context.Context) (*Snapshot, error) {
	started := time.Now()
	courses, sections, err := s.loader.LoadTerm(ctx, s.term)
	if err != nil {
		err = fmt.Errorf("failed to load catalog for term %s: %w", s.term, err)
		if s.OnRefresh != nil {
			s.OnRefresh(nil, err)
		}
		return nil, err
	}

	snap := NewSnapshot(s.term, courses, sections)
	s.current.Store(snap)

	s.logger.Info().
		Str("term", string(s.term)).
		Int("courses", snap.CourseCount()).
		Int("sections", snap.SectionCount()).
		Dur("took", time.Since(started)).
		Msg("Course catalog loaded")

	if s.OnRefresh != nil {
		s.OnRefresh(snap, nil)
	}
	return snap, nil
}

// Run refreshes the catalog every interval until ctx is done. Failed refreshes are
// logged and retried on the next tick.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Catalog refresh failed, keeping previous snapshot")
			}
		}
	}
}
