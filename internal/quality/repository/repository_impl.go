package repository

import (
	"context"
	"time"

	"github.com/hli122/salesops-analytics-db/internal/quality/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListRange(ctx context.Context, db *gorm.DB, start, end time.Time) ([]domain.RangeRow, error) {
	var rows []domain.RangeRow
	err := db.WithContext(ctx).Raw(
		`SELECT
		   f.line_id,
		   f.sale_time,
		   f.sale_date,
		   p.product_code,
		   s.seller_name,
		   sc.company_name AS shipping_company,
		   f.unit_price,
		   f.units,
		   f.line_total
		 FROM fact_sales_line f
		 JOIN dim_product p ON p.product_id = f.product_id
		 JOIN dim_seller s ON s.seller_id = f.seller_id
		 LEFT JOIN dim_shipping_company sc ON sc.shipping_company_id = f.shipping_company_id
		 WHERE f.sale_date BETWEEN ? AND ?
		 ORDER BY f.sale_time, f.line_id`,
		start,
		end,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
