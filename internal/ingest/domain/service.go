package domain

import (
	"context"
	"errors"
)

type Service interface {
	// Load writes one batch of normalized rows as a single transaction.
	// Replayed provenance keys count as skipped, never as errors.
	Load(ctx context.Context, sourceFile string, rows []NormalizedRow) (LoadResult, error)
}

var (
	ErrUnparseableTime   = errors.New("unparseable_time")
	ErrMissingColumns    = errors.New("missing_columns")
	ErrInvalidSourceFile = errors.New("invalid_source_file")
	ErrUnknownDimension  = errors.New("unknown_dimension")
	ErrDimensionConflict = errors.New("dimension_conflict")
)
