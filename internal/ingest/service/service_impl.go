package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hli122/salesops-analytics-db/internal/config"
	"github.com/hli122/salesops-analytics-db/internal/ingest/domain"
	"github.com/hli122/salesops-analytics-db/internal/observability/metrics"
	salesdomain "github.com/hli122/salesops-analytics-db/internal/sales/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Cfg     config.Config
	Dims    domain.DimensionRepository
	Facts   domain.FactRepository
	Metrics *metrics.IngestMetrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	dims    domain.DimensionRepository
	facts   domain.FactRepository
	metrics *metrics.IngestMetrics

	warnTolerance     decimal.Decimal
	quantityPrecision int32
}

func New(p Params) domain.Service {
	return &Service{
		db:                p.DB,
		log:               p.Log.Named("ingest.service"),
		genID:             p.GenID,
		dims:              p.Dims,
		facts:             p.Facts,
		metrics:           p.Metrics,
		warnTolerance:     decimal.NewFromFloat(p.Cfg.Ingest.WarnTolerance),
		quantityPrecision: p.Cfg.Ingest.QuantityPrecision,
	}
}

// Load writes one batch as a single transaction: dimension creation and fact
// insertion commit or roll back together. Replayed provenance keys are
// counted as skipped. Advisory price warnings are collected and returned,
// never thrown.
func (s *Service) Load(ctx context.Context, sourceFile string, rows []domain.NormalizedRow) (domain.LoadResult, error) {
	sourceFile = strings.TrimSpace(sourceFile)
	if sourceFile == "" {
		return domain.LoadResult{}, domain.ErrInvalidSourceFile
	}

	lines := make([]salesdomain.SalesLine, 0, len(rows))
	var warnings []domain.Warning
	for _, row := range rows {
		line := s.toLine(sourceFile, row)
		lines = append(lines, line)

		expected := line.UnitPrice.Mul(line.Units).Round(2)
		diff := line.LineTotal.Sub(expected)
		if diff.Abs().GreaterThan(s.warnTolerance) {
			warnings = append(warnings, domain.Warning{
				RowNumber:     row.RowNumber,
				ExpectedTotal: expected,
				LineTotal:     line.LineTotal,
				Diff:          diff,
			})
		}
	}

	result := domain.LoadResult{Warnings: warnings}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range lines {
			line := &lines[i]
			row := rows[i]

			productID, err := s.dims.Resolve(ctx, tx, domain.DimensionProduct, row.ProductCode)
			if err != nil {
				return err
			}
			sellerID, err := s.dims.Resolve(ctx, tx, domain.DimensionSeller, row.SellerName)
			if err != nil {
				return err
			}
			line.ProductID = productID
			line.SellerID = sellerID

			if row.ShippingCompany != nil {
				shippingID, err := s.dims.Resolve(ctx, tx, domain.DimensionShippingCompany, *row.ShippingCompany)
				if err != nil {
					return err
				}
				line.ShippingCompanyID = &shippingID
			}

			inserted, err := s.facts.Insert(ctx, tx, line)
			if err != nil {
				return err
			}
			if inserted {
				result.Inserted++
			} else {
				result.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return domain.LoadResult{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordBatch(result.Inserted, result.Skipped, len(result.Warnings))
	}

	s.log.Info("batch loaded",
		zap.String("source_file", sourceFile),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped),
		zap.Int("warnings", len(result.Warnings)),
	)

	return result, nil
}

// toLine rounds at write time so stored values are exactly what
// reconciliation re-validates against later.
func (s *Service) toLine(sourceFile string, row domain.NormalizedRow) salesdomain.SalesLine {
	saleTime := row.SaleTime.UTC()
	saleDate := time.Date(saleTime.Year(), saleTime.Month(), saleTime.Day(), 0, 0, 0, 0, time.UTC)

	return salesdomain.SalesLine{
		LineID:          s.genID.Generate(),
		SaleTime:        saleTime,
		SaleDate:        saleDate,
		UnitPrice:       row.UnitPrice.Round(2),
		Units:           row.Units.Round(s.quantityPrecision),
		LineTotal:       row.LineTotal.Round(2),
		SourceFile:      sourceFile,
		SourceRowNumber: row.RowNumber,
	}
}
