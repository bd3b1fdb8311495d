package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Top-products limit bounds, with the same defaults the dashboard uses.
const (
	DefaultTopProductsLimit = 12
	MinTopProductsLimit     = 1
	MaxTopProductsLimit     = 50
)

// DateRange is an inclusive calendar date range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

type WeeklySummary struct {
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Revenue   decimal.Decimal `json:"revenue"`
	Units     decimal.Decimal `json:"units"`
	LineCount int             `json:"line_count"`
}

type SellerStat struct {
	SellerName string          `json:"seller_name"`
	Revenue    decimal.Decimal `json:"revenue"`
	Units      decimal.Decimal `json:"units"`
	LineCount  int             `json:"line_count"`
}

type ProductStat struct {
	ProductCode string          `json:"product_code"`
	Revenue     decimal.Decimal `json:"revenue"`
	Units       decimal.Decimal `json:"units"`
}

type ShippingStat struct {
	ShippingCompany string          `json:"shipping_company"`
	Revenue         decimal.Decimal `json:"revenue"`
	LineCount       int             `json:"line_count"`
}

// Service is the read-only reporting surface. Grouped sums over committed
// fact rows; no invariants of its own beyond input validation.
type Service interface {
	WeeklySummary(ctx context.Context, r DateRange) (WeeklySummary, error)
	SellerRanking(ctx context.Context, r DateRange) ([]SellerStat, error)
	TopProducts(ctx context.Context, r DateRange, limit int) ([]ProductStat, error)
	ShippingBreakdown(ctx context.Context, r DateRange) ([]ShippingStat, error)
}

var (
	ErrInvalidDateRange = errors.New("invalid_date_range")
	ErrInvalidLimit     = errors.New("invalid_limit")
)
