package models

import (
	"time"

	"github.com/google/uuid"
)

// SearchLog records how a fresh schedule search went. Courses holds the requested
// course codes, Categories the requirement category codes that were requested.
type SearchLog struct {
	ID         int64         `json:"id" db:"id"`
	SearchID   uuid.UUID     `json:"searchId" db:"search_id"`
	Term       Term          `json:"term" db:"term"`
	Duration   time.Duration `json:"duration" db:"load_time_ms"`
	Outcome    SearchOutcome `json:"outcome" db:"status"`
	Courses    []string      `json:"courses"`
	Categories []string      `json:"categories"`
	CreatedAt  time.Time     `json:"createdAt" db:"created_at"`
}
