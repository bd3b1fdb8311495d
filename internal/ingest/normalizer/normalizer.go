// Package normalizer turns raw tabular records into typed rows.
// It is pure: no I/O, no side effects.
package normalizer

import (
	"strings"
	"time"

	"github.com/hli122/salesops-analytics-db/internal/ingest/domain"
	"github.com/shopspring/decimal"
)

// timeFormats are the accepted sale timestamp layouts, most specific first.
var timeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize types and trims one batch. Any unparseable timestamp fails the
// whole batch. Rows missing a required field are dropped and counted, not
// failed; a dropped row must never reach dimension creation.
func Normalize(raw []domain.RawRow) (domain.NormalizeResult, error) {
	times := make([]time.Time, len(raw))
	for i, row := range raw {
		parsed, ok := parseTime(row.Time)
		if !ok {
			return domain.NormalizeResult{}, &domain.TimeParseError{
				RowNumber: row.RowNumber,
				Value:     strings.TrimSpace(row.Time),
			}
		}
		times[i] = parsed
	}

	result := domain.NormalizeResult{
		Rows: make([]domain.NormalizedRow, 0, len(raw)),
	}

	for i, row := range raw {
		productCode := normString(row.ProductCode)
		sellerName := normString(row.SellerName)
		unitPrice, priceOK := parseDecimal(row.UnitPrice)
		units, unitsOK := parseDecimal(row.Units)
		total, totalOK := parseDecimal(row.TotalPrice)

		if productCode == nil || sellerName == nil || !priceOK || !unitsOK || !totalOK {
			result.Dropped++
			continue
		}

		result.Rows = append(result.Rows, domain.NormalizedRow{
			RowNumber:       row.RowNumber,
			SaleTime:        times[i],
			ProductCode:     *productCode,
			SellerName:      *sellerName,
			ShippingCompany: normString(row.ShippingCompany),
			UnitPrice:       unitPrice,
			Units:           units,
			LineTotal:       total,
		})
	}

	return result, nil
}

// normString trims and maps empty to absent.
func normString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func parseTime(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for _, layout := range timeFormats {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseDecimal treats an absent or malformed numeric as a missing field.
func parseDecimal(value string) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Decimal{}, false
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return parsed, true
}
