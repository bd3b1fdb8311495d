package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Repository reads committed fact rows for a date range, joined to their
// dimensions, ordered by sale time ascending.
type Repository interface {
	ListRange(ctx context.Context, db *gorm.DB, start, end time.Time) ([]RangeRow, error)
}
