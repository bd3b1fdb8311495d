package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/hli122/salesops-analytics-db/internal/config"
	ingestdomain "github.com/hli122/salesops-analytics-db/internal/ingest/domain"
	ingestrepo "github.com/hli122/salesops-analytics-db/internal/ingest/repository"
	ingestservice "github.com/hli122/salesops-analytics-db/internal/ingest/service"
	"github.com/hli122/salesops-analytics-db/internal/reporting/domain"
	"github.com/hli122/salesops-analytics-db/internal/reporting/repository"
	salesdomain "github.com/hli122/salesops-analytics-db/internal/sales/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func strPtr(s string) *string { return &s }

type seedLine struct {
	rowNumber int
	product   string
	seller    string
	shipping  *string
	unitPrice string
	units     string
	total     string
}

func newSeededService(t *testing.T, lines []seedLine) domain.Service {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&salesdomain.Product{},
		&salesdomain.Seller{},
		&salesdomain.ShippingCompany{},
		&salesdomain.SalesLine{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	loader := ingestservice.New(ingestservice.Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Cfg: config.Config{
			Ingest: config.IngestConfig{WarnTolerance: 0.05, QuantityPrecision: 2},
		},
		Dims:  ingestrepo.ProvideDimensions(node),
		Facts: ingestrepo.ProvideFacts(),
	})

	rows := make([]ingestdomain.NormalizedRow, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, ingestdomain.NormalizedRow{
			RowNumber:       line.rowNumber,
			SaleTime:        time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
			ProductCode:     line.product,
			SellerName:      line.seller,
			ShippingCompany: line.shipping,
			UnitPrice:       d(line.unitPrice),
			Units:           d(line.units),
			LineTotal:       d(line.total),
		})
	}
	_, err = loader.Load(context.Background(), "seed.csv", rows)
	require.NoError(t, err)

	return New(Params{
		DB:   conn,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
}

var juneRange = domain.DateRange{
	Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
}

func TestWeeklySummarySums(t *testing.T) {
	svc := newSeededService(t, []seedLine{
		{2, "SKU-1", "North Store", strPtr("FastShip"), "10.00", "2", "20.00"},
		{3, "SKU-2", "South Store", nil, "5.50", "3", "16.50"},
	})

	got, err := svc.WeeklySummary(context.Background(), juneRange)
	require.NoError(t, err)

	assert.Equal(t, "2024-06-01", got.StartDate)
	assert.Equal(t, "2024-06-30", got.EndDate)
	assert.True(t, got.Revenue.Equal(d("36.50")), got.Revenue.String())
	assert.True(t, got.Units.Equal(d("5")), got.Units.String())
	assert.Equal(t, 2, got.LineCount)
}

func TestWeeklySummaryEmptyRangeIsZero(t *testing.T) {
	svc := newSeededService(t, nil)

	got, err := svc.WeeklySummary(context.Background(), juneRange)
	require.NoError(t, err)
	assert.True(t, got.Revenue.IsZero())
	assert.True(t, got.Units.IsZero())
	assert.Equal(t, 0, got.LineCount)
}

func TestSellerRankingOrdersByRevenue(t *testing.T) {
	svc := newSeededService(t, []seedLine{
		{2, "SKU-1", "North Store", nil, "10.00", "1", "10.00"},
		{3, "SKU-1", "South Store", nil, "10.00", "5", "50.00"},
		{4, "SKU-2", "North Store", nil, "10.00", "2", "20.00"},
	})

	got, err := svc.SellerRanking(context.Background(), juneRange)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "South Store", got[0].SellerName)
	assert.True(t, got[0].Revenue.Equal(d("50.00")))
	assert.Equal(t, 1, got[0].LineCount)

	assert.Equal(t, "North Store", got[1].SellerName)
	assert.True(t, got[1].Revenue.Equal(d("30.00")))
	assert.Equal(t, 2, got[1].LineCount)
}

func TestTopProductsAppliesLimit(t *testing.T) {
	svc := newSeededService(t, []seedLine{
		{2, "SKU-1", "North Store", nil, "10.00", "1", "10.00"},
		{3, "SKU-2", "North Store", nil, "10.00", "3", "30.00"},
		{4, "SKU-3", "North Store", nil, "10.00", "2", "20.00"},
	})

	got, err := svc.TopProducts(context.Background(), juneRange, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "SKU-2", got[0].ProductCode)
	assert.Equal(t, "SKU-3", got[1].ProductCode)
}

func TestTopProductsLimitBounds(t *testing.T) {
	svc := newSeededService(t, nil)
	ctx := context.Background()

	_, err := svc.TopProducts(ctx, juneRange, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)

	_, err = svc.TopProducts(ctx, juneRange, domain.MaxTopProductsLimit+1)
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)
}

func TestShippingBreakdownLabelsMissingAsUnknown(t *testing.T) {
	svc := newSeededService(t, []seedLine{
		{2, "SKU-1", "North Store", strPtr("FastShip"), "10.00", "1", "10.00"},
		{3, "SKU-1", "North Store", nil, "10.00", "4", "40.00"},
	})

	got, err := svc.ShippingBreakdown(context.Background(), juneRange)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, salesdomain.UnknownShippingLabel, got[0].ShippingCompany)
	assert.True(t, got[0].Revenue.Equal(d("40.00")))
	assert.Equal(t, "FastShip", got[1].ShippingCompany)
}

func TestDateRangeValidation(t *testing.T) {
	svc := newSeededService(t, nil)
	ctx := context.Background()

	inverted := domain.DateRange{Start: juneRange.End, End: juneRange.Start}

	_, err := svc.WeeklySummary(ctx, inverted)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	_, err = svc.SellerRanking(ctx, inverted)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	_, err = svc.TopProducts(ctx, inverted, domain.DefaultTopProductsLimit)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	_, err = svc.ShippingBreakdown(ctx, inverted)
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
}
