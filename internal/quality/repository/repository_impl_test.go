package repository

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
	salesdomain "github.com/hli122/salesops-analytics-db/internal/sales/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func seededDB(t *testing.T, rows []ingestdomain.NormalizedRow) *gorm.DB {
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

	_, err = loader.Load(context.Background(), "seed.csv", rows)
	require.NoError(t, err)
	return conn
}

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func strPtr(s string) *string { return &s }

func row(rowNumber int, saleTime time.Time, shipping *string) ingestdomain.NormalizedRow {
	return ingestdomain.NormalizedRow{
		RowNumber:       rowNumber,
		SaleTime:        saleTime,
		ProductCode:     "SKU-1",
		SellerName:      "North Store",
		ShippingCompany: shipping,
		UnitPrice:       d("10.00"),
		Units:           d("2"),
		LineTotal:       d("20.00"),
	}
}

func TestListRangeFiltersAndOrders(t *testing.T) {
	conn := seededDB(t, []ingestdomain.NormalizedRow{
		row(2, time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC), strPtr("FastShip")),
		row(3, time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC), strPtr("FastShip")),
		row(4, time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC), strPtr("FastShip")), // out of range
	})

	rows, err := Provide().ListRange(context.Background(), conn,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Ordered by sale_time ascending.
	assert.True(t, rows[0].SaleTime.Before(rows[1].SaleTime))
	assert.Equal(t, "SKU-1", rows[0].ProductCode)
	assert.Equal(t, "North Store", rows[0].SellerName)
	require.NotNil(t, rows[0].ShippingCompany)
	assert.Equal(t, "FastShip", *rows[0].ShippingCompany)
	assert.True(t, rows[0].UnitPrice.Equal(d("10.00")))
}

func TestListRangeBoundsInclusive(t *testing.T) {
	conn := seededDB(t, []ingestdomain.NormalizedRow{
		row(2, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), nil),
		row(3, time.Date(2024, 6, 30, 23, 59, 0, 0, time.UTC), nil),
	})

	rows, err := Provide().ListRange(context.Background(), conn,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestListRangeNullShipping(t *testing.T) {
	conn := seededDB(t, []ingestdomain.NormalizedRow{
		row(2, time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC), nil),
	})

	rows, err := Provide().ListRange(context.Background(), conn,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].ShippingCompany)
}

func TestListRangeEmpty(t *testing.T) {
	conn := seededDB(t, nil)

	rows, err := Provide().ListRange(context.Background(), conn,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
