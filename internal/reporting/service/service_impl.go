package service

import (
	"context"

	"github.com/hli122/salesops-analytics-db/internal/reporting/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("reporting.service"),
		repo: p.Repo,
	}
}

func (s *Service) WeeklySummary(ctx context.Context, r domain.DateRange) (domain.WeeklySummary, error) {
	if err := validateRange(r); err != nil {
		return domain.WeeklySummary{}, err
	}

	summary, err := s.repo.WeeklySummary(ctx, s.db, r.Start, r.End)
	if err != nil {
		return domain.WeeklySummary{}, err
	}
	summary.StartDate = r.Start.Format("2006-01-02")
	summary.EndDate = r.End.Format("2006-01-02")
	return summary, nil
}

func (s *Service) SellerRanking(ctx context.Context, r domain.DateRange) ([]domain.SellerStat, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}
	return s.repo.SellerRanking(ctx, s.db, r.Start, r.End)
}

func (s *Service) TopProducts(ctx context.Context, r domain.DateRange, limit int) ([]domain.ProductStat, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}
	if limit < domain.MinTopProductsLimit || limit > domain.MaxTopProductsLimit {
		return nil, domain.ErrInvalidLimit
	}
	return s.repo.TopProducts(ctx, s.db, r.Start, r.End, limit)
}

func (s *Service) ShippingBreakdown(ctx context.Context, r domain.DateRange) ([]domain.ShippingStat, error) {
	if err := validateRange(r); err != nil {
		return nil, err
	}
	return s.repo.ShippingBreakdown(ctx, s.db, r.Start, r.End)
}

func validateRange(r domain.DateRange) error {
	if r.Start.IsZero() || r.End.IsZero() || r.End.Before(r.Start) {
		return domain.ErrInvalidDateRange
	}
	return nil
}
