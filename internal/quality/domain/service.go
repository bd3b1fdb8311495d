package domain

import (
	"context"
	"errors"
)

type Service interface {
	Assess(ctx context.Context, req AssessRequest) (Assessment, error)
}

var (
	ErrInvalidDateRange   = errors.New("invalid_date_range")
	ErrInvalidTolerance   = errors.New("invalid_tolerance")
	ErrInvalidSampleLimit = errors.New("invalid_sample_limit")
)
