package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WeeklySummary(ctx context.Context, db *gorm.DB, start, end time.Time) (WeeklySummary, error)
	SellerRanking(ctx context.Context, db *gorm.DB, start, end time.Time) ([]SellerStat, error)
	TopProducts(ctx context.Context, db *gorm.DB, start, end time.Time, limit int) ([]ProductStat, error)
	ShippingBreakdown(ctx context.Context, db *gorm.DB, start, end time.Time) ([]ShippingStat, error)
}
