package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
)

// Tolerance and sample-limit bounds. The read-time tolerance is independent
// of the ingest-time advisory warn tolerance and defaults separately.
const (
	DefaultTolerance = 0.05
	MaxTolerance     = 5.0

	DefaultSampleLimit = 20
	MinSampleLimit     = 1
	MaxSampleLimit     = 200
)

// AssessRequest scopes one assessment. Start and End are inclusive calendar
// dates.
type AssessRequest struct {
	Start       time.Time
	End         time.Time
	Tolerance   decimal.Decimal
	SampleLimit int
}

// RangeRow is one fact row joined to its dimensions, as read back for
// reassessment. ShippingCompany is nil when the fact has no shipping
// reference.
type RangeRow struct {
	LineID          snowflake.ID
	SaleTime        time.Time
	SaleDate        time.Time
	ProductCode     string
	SellerName      string
	ShippingCompany *string
	UnitPrice       decimal.Decimal
	Units           decimal.Decimal
	LineTotal       decimal.Decimal
}

// Summary holds per-classification counts over the whole range.
type Summary struct {
	StartDate                   string `json:"start_date"`
	EndDate                     string `json:"end_date"`
	RowsInRange                 int    `json:"rows_in_range"`
	MismatchedTotalCount        int    `json:"mismatched_total_count"`
	NonpositiveUnitsCount       int    `json:"nonpositive_units_count"`
	NegativeAmountCount         int    `json:"negative_amount_count"`
	MissingShippingCompanyCount int    `json:"missing_shipping_company_count"`
}

// SampleRow is one anomalous row, with the independently recomputed expected
// total and its deviation. A missing shipping company alone never produces a
// sample; it is reported only in the summary counts.
type SampleRow struct {
	LineID          snowflake.ID    `json:"line_id"`
	SaleTime        time.Time       `json:"sale_time"`
	SaleDate        string          `json:"sale_date"`
	ProductCode     string          `json:"product_code"`
	SellerName      string          `json:"seller_name"`
	ShippingCompany string          `json:"shipping_company"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Units           decimal.Decimal `json:"units"`
	LineTotal       decimal.Decimal `json:"line_total"`
	ExpectedTotal   decimal.Decimal `json:"expected_total"`
	Diff            decimal.Decimal `json:"diff"`
}

// Assessment is the full result: counts, a bounded deterministic sample and
// the derived status. This component is read-only; anomalies are data, not
// errors.
type Assessment struct {
	Status  Status      `json:"status"`
	Summary Summary     `json:"summary"`
	Samples []SampleRow `json:"samples"`
}
