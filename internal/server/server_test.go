package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/hli122/salesops-analytics-db/internal/config"
	ingestdomain "github.com/hli122/salesops-analytics-db/internal/ingest/domain"
	ingestrepo "github.com/hli122/salesops-analytics-db/internal/ingest/repository"
	ingestservice "github.com/hli122/salesops-analytics-db/internal/ingest/service"
	qualityrepo "github.com/hli122/salesops-analytics-db/internal/quality/repository"
	qualityservice "github.com/hli122/salesops-analytics-db/internal/quality/service"
	reportingrepo "github.com/hli122/salesops-analytics-db/internal/reporting/repository"
	reportingservice "github.com/hli122/salesops-analytics-db/internal/reporting/service"
	salesdomain "github.com/hli122/salesops-analytics-db/internal/sales/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// newTestServer wires the full read path against an in-memory store seeded
// through the real loader.
func newTestServer(t *testing.T, rows []ingestdomain.NormalizedRow) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	cfg := config.Config{
		Ingest: config.IngestConfig{WarnTolerance: 0.05, QuantityPrecision: 2},
	}

	loader := ingestservice.New(ingestservice.Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Cfg:   cfg,
		Dims:  ingestrepo.ProvideDimensions(node),
		Facts: ingestrepo.ProvideFacts(),
	})
	_, err = loader.Load(context.Background(), "seed.csv", rows)
	require.NoError(t, err)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	return NewServer(ServerParams{
		Gin: engine,
		Cfg: cfg,
		Log: zap.NewNop(),
		ReportingSvc: reportingservice.New(reportingservice.Params{
			DB:   conn,
			Log:  zap.NewNop(),
			Repo: reportingrepo.Provide(),
		}),
		QualitySvc: qualityservice.New(qualityservice.Params{
			DB:   conn,
			Log:  zap.NewNop(),
			Repo: qualityrepo.Provide(),
		}),
	})
}

func seedRow(rowNumber int, unitPrice, units, total string, shipping *string) ingestdomain.NormalizedRow {
	return ingestdomain.NormalizedRow{
		RowNumber:       rowNumber,
		SaleTime:        time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC),
		ProductCode:     "SKU-1",
		SellerName:      "North Store",
		ShippingCompany: shipping,
		UnitPrice:       d(unitPrice),
		Units:           d(units),
		LineTotal:       d(total),
	}
}

func doGet(t *testing.T, s *Server, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	s.Engine().ServeHTTP(w, req)

	var body map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

const juneQuery = "start_date=2024-06-01&end_date=2024-06-30"

func TestGetWeeklySummary(t *testing.T) {
	s := newTestServer(t, []ingestdomain.NormalizedRow{
		seedRow(2, "10.00", "2", "20.00", strPtr("FastShip")),
		seedRow(3, "5.50", "3", "16.50", nil),
	})

	w, body := doGet(t, s, "/reports/weekly-summary?"+juneQuery)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "2024-06-01", body["start_date"])
	assert.Equal(t, "2024-06-30", body["end_date"])
	assert.Equal(t, "36.5", body["revenue"])
	assert.Equal(t, float64(2), body["line_count"])
}

func TestMissingDatesRejected(t *testing.T) {
	s := newTestServer(t, nil)

	w, body := doGet(t, s, "/reports/weekly-summary")
	require.Equal(t, http.StatusBadRequest, w.Code)

	errObj, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "validation_error", errObj["type"])
}

func TestMalformedDateRejected(t *testing.T) {
	s := newTestServer(t, nil)

	w, _ := doGet(t, s, "/reports/weekly-summary?start_date=06/01/2024&end_date=2024-06-30")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvertedRangeRejected(t *testing.T) {
	s := newTestServer(t, nil)

	w, _ := doGet(t, s, "/reports/weekly-summary?start_date=2024-06-30&end_date=2024-06-01")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSellerRankingEmptyIsArray(t *testing.T) {
	s := newTestServer(t, nil)

	w, body := doGet(t, s, "/reports/seller-ranking?"+juneQuery)
	require.Equal(t, http.StatusOK, w.Code)

	sellers, ok := body["sellers"].([]any)
	require.True(t, ok, "sellers must be an array, not null")
	assert.Empty(t, sellers)
}

func TestTopProductsDefaultLimit(t *testing.T) {
	s := newTestServer(t, []ingestdomain.NormalizedRow{
		seedRow(2, "10.00", "2", "20.00", nil),
	})

	w, body := doGet(t, s, "/reports/top-products?"+juneQuery)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(12), body["limit"])

	products, ok := body["top_products"].([]any)
	require.True(t, ok)
	assert.Len(t, products, 1)
}

func TestTopProductsLimitOutOfRange(t *testing.T) {
	s := newTestServer(t, nil)

	w, _ := doGet(t, s, "/reports/top-products?"+juneQuery+"&limit=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doGet(t, s, "/reports/top-products?"+juneQuery+"&limit=51")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShippingBreakdownUnknownLabel(t *testing.T) {
	s := newTestServer(t, []ingestdomain.NormalizedRow{
		seedRow(2, "10.00", "2", "20.00", nil),
	})

	w, body := doGet(t, s, "/reports/shipping-breakdown?"+juneQuery)
	require.Equal(t, http.StatusOK, w.Code)

	companies, ok := body["shipping_companies"].([]any)
	require.True(t, ok)
	require.Len(t, companies, 1)
	first, ok := companies[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "UNKNOWN", first["shipping_company"])
}

func TestGetDataQualityWarn(t *testing.T) {
	s := newTestServer(t, []ingestdomain.NormalizedRow{
		seedRow(2, "10.00", "2", "20.00", strPtr("FastShip")), // clean
		seedRow(3, "10.00", "0", "0.00", nil),                 // nonpositive units
		seedRow(4, "-5.00", "1", "-5.00", nil),                // negative amount
		seedRow(5, "10.00", "2", "25.00", nil),                // mismatched total
	})

	w, body := doGet(t, s, "/reports/data-quality?"+juneQuery)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "warn", body["status"])

	summary, ok := body["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(4), summary["rows_in_range"])
	assert.Equal(t, float64(1), summary["mismatched_total_count"])
	assert.Equal(t, float64(1), summary["nonpositive_units_count"])
	assert.Equal(t, float64(1), summary["negative_amount_count"])
	assert.Equal(t, float64(3), summary["missing_shipping_company_count"])

	samples, ok := body["samples"].([]any)
	require.True(t, ok)
	assert.Len(t, samples, 3)

	notes, ok := body["notes"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(20), notes["sample_limit"])
	assert.Contains(t, notes["mismatch_rule"], "> 0.05")
}

func TestGetDataQualityCleanIsOK(t *testing.T) {
	s := newTestServer(t, []ingestdomain.NormalizedRow{
		seedRow(2, "10.00", "2", "20.00", strPtr("FastShip")),
	})

	w, body := doGet(t, s, "/reports/data-quality?"+juneQuery)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	samples, ok := body["samples"].([]any)
	require.True(t, ok, "samples must be an array, not null")
	assert.Empty(t, samples)
}

func TestGetDataQualityToleranceParam(t *testing.T) {
	s := newTestServer(t, []ingestdomain.NormalizedRow{
		seedRow(2, "10.00", "2", "20.10", nil), // diff 0.10
	})

	// Wide tolerance hides the deviation.
	w, body := doGet(t, s, "/reports/data-quality?"+juneQuery+"&tol=0.10")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	// Default tolerance flags it.
	w, body = doGet(t, s, "/reports/data-quality?"+juneQuery)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "warn", body["status"])
}

func TestGetDataQualityParamBounds(t *testing.T) {
	s := newTestServer(t, nil)

	w, _ := doGet(t, s, "/reports/data-quality?"+juneQuery+"&tol=-0.1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doGet(t, s, "/reports/data-quality?"+juneQuery+"&tol=5.1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doGet(t, s, "/reports/data-quality?"+juneQuery+"&limit=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doGet(t, s, "/reports/data-quality?"+juneQuery+"&limit=201")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doGet(t, s, "/reports/data-quality?"+juneQuery+"&tol=abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDataQualitySamples(t *testing.T) {
	s := newTestServer(t, []ingestdomain.NormalizedRow{
		seedRow(2, "10.00", "2", "25.00", nil),
		seedRow(3, "10.00", "2", "26.00", nil),
	})

	w, body := doGet(t, s, "/reports/data-quality/samples?"+juneQuery+"&limit=1")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "2024-06-01", body["start_date"])
	assert.Equal(t, "2024-06-30", body["end_date"])
	assert.Equal(t, float64(1), body["sample_limit"])

	samples, ok := body["samples"].([]any)
	require.True(t, ok)
	require.Len(t, samples, 1)

	sample, ok := samples[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "SKU-1", sample["product_code"])
	assert.Equal(t, "UNKNOWN", sample["shipping_company"])
	assert.Equal(t, "5", sample["diff"])
	assert.Equal(t, "20", sample["expected_total"])
}
