package repository

import (
	"context"
	"time"

	"github.com/hli122/salesops-analytics-db/internal/reporting/domain"
	salesdomain "github.com/hli122/salesops-analytics-db/internal/sales/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) WeeklySummary(ctx context.Context, db *gorm.DB, start, end time.Time) (domain.WeeklySummary, error) {
	var summary domain.WeeklySummary
	err := db.WithContext(ctx).Raw(
		`SELECT
		   ROUND(COALESCE(SUM(line_total), 0), 2) AS revenue,
		   ROUND(COALESCE(SUM(units), 0), 2)      AS units,
		   COUNT(*)                               AS line_count
		 FROM fact_sales_line
		 WHERE sale_date BETWEEN ? AND ?`,
		start,
		end,
	).Scan(&summary).Error
	if err != nil {
		return domain.WeeklySummary{}, err
	}
	return summary, nil
}

func (r *repo) SellerRanking(ctx context.Context, db *gorm.DB, start, end time.Time) ([]domain.SellerStat, error) {
	var stats []domain.SellerStat
	err := db.WithContext(ctx).Raw(
		`SELECT
		   s.seller_name,
		   ROUND(COALESCE(SUM(f.line_total), 0), 2) AS revenue,
		   ROUND(COALESCE(SUM(f.units), 0), 2)      AS units,
		   COUNT(*)                                 AS line_count
		 FROM fact_sales_line f
		 JOIN dim_seller s ON s.seller_id = f.seller_id
		 WHERE f.sale_date BETWEEN ? AND ?
		 GROUP BY s.seller_name
		 ORDER BY revenue DESC`,
		start,
		end,
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *repo) TopProducts(ctx context.Context, db *gorm.DB, start, end time.Time, limit int) ([]domain.ProductStat, error) {
	var stats []domain.ProductStat
	err := db.WithContext(ctx).Raw(
		`SELECT
		   p.product_code,
		   ROUND(COALESCE(SUM(f.line_total), 0), 2) AS revenue,
		   ROUND(COALESCE(SUM(f.units), 0), 2)      AS units
		 FROM fact_sales_line f
		 JOIN dim_product p ON p.product_id = f.product_id
		 WHERE f.sale_date BETWEEN ? AND ?
		 GROUP BY p.product_code
		 ORDER BY revenue DESC
		 LIMIT ?`,
		start,
		end,
		limit,
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *repo) ShippingBreakdown(ctx context.Context, db *gorm.DB, start, end time.Time) ([]domain.ShippingStat, error) {
	var stats []domain.ShippingStat
	err := db.WithContext(ctx).Raw(
		`SELECT
		   COALESCE(sc.company_name, ?)             AS shipping_company,
		   ROUND(COALESCE(SUM(f.line_total), 0), 2) AS revenue,
		   COUNT(*)                                 AS line_count
		 FROM fact_sales_line f
		 LEFT JOIN dim_shipping_company sc ON sc.shipping_company_id = f.shipping_company_id
		 WHERE f.sale_date BETWEEN ? AND ?
		 GROUP BY 1
		 ORDER BY revenue DESC`,
		salesdomain.UnknownShippingLabel,
		start,
		end,
	).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
