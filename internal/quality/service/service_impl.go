package service

import (
	"context"

	"github.com/hli122/salesops-analytics-db/internal/quality/domain"
	salesdomain "github.com/hli122/salesops-analytics-db/internal/sales/domain"
	"github.com/shopspring/decimal"
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
		log:  p.Log.Named("quality.service"),
		repo: p.Repo,
	}
}

var maxTolerance = decimal.NewFromFloat(domain.MaxTolerance)

// Assess re-derives the expected total for every row in range and classifies
// deviations. The stored line total is never trusted. Pure read; the only
// way this fails is an invalid request or losing the database.
func (s *Service) Assess(ctx context.Context, req domain.AssessRequest) (domain.Assessment, error) {
	if req.Start.IsZero() || req.End.IsZero() || req.End.Before(req.Start) {
		return domain.Assessment{}, domain.ErrInvalidDateRange
	}
	if req.Tolerance.IsNegative() || req.Tolerance.GreaterThan(maxTolerance) {
		return domain.Assessment{}, domain.ErrInvalidTolerance
	}
	if req.SampleLimit < domain.MinSampleLimit || req.SampleLimit > domain.MaxSampleLimit {
		return domain.Assessment{}, domain.ErrInvalidSampleLimit
	}

	rows, err := s.repo.ListRange(ctx, s.db, req.Start, req.End)
	if err != nil {
		return domain.Assessment{}, err
	}

	summary := domain.Summary{
		StartDate:   req.Start.Format("2006-01-02"),
		EndDate:     req.End.Format("2006-01-02"),
		RowsInRange: len(rows),
	}

	var samples []domain.SampleRow
	for _, row := range rows {
		expected := row.UnitPrice.Mul(row.Units).Round(2)
		diff := row.LineTotal.Sub(expected)

		// Strict comparison: a deviation exactly at tolerance is consistent.
		mismatched := diff.Abs().GreaterThan(req.Tolerance)
		nonpositiveUnits := row.Units.LessThanOrEqual(decimal.Zero)
		negativeAmount := row.UnitPrice.IsNegative() || row.LineTotal.IsNegative()

		if mismatched {
			summary.MismatchedTotalCount++
		}
		if nonpositiveUnits {
			summary.NonpositiveUnitsCount++
		}
		if negativeAmount {
			summary.NegativeAmountCount++
		}
		if row.ShippingCompany == nil {
			summary.MissingShippingCompanyCount++
		}

		if (mismatched || nonpositiveUnits || negativeAmount) && len(samples) < req.SampleLimit {
			samples = append(samples, toSample(row, expected, diff))
		}
	}

	status := domain.StatusOK
	if summary.MismatchedTotalCount > 0 || summary.NonpositiveUnitsCount > 0 || summary.NegativeAmountCount > 0 {
		status = domain.StatusWarn
	}

	return domain.Assessment{
		Status:  status,
		Summary: summary,
		Samples: samples,
	}, nil
}

func toSample(row domain.RangeRow, expected, diff decimal.Decimal) domain.SampleRow {
	shipping := salesdomain.UnknownShippingLabel
	if row.ShippingCompany != nil {
		shipping = *row.ShippingCompany
	}
	return domain.SampleRow{
		LineID:          row.LineID,
		SaleTime:        row.SaleTime,
		SaleDate:        row.SaleDate.Format("2006-01-02"),
		ProductCode:     row.ProductCode,
		SellerName:      row.SellerName,
		ShippingCompany: shipping,
		UnitPrice:       row.UnitPrice,
		Units:           row.Units,
		LineTotal:       row.LineTotal,
		ExpectedTotal:   expected,
		Diff:            diff,
	}
}
