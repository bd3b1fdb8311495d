package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RawRow is one untrusted record from a tabular export, untyped and
// untrimmed. RowNumber is the position in the source file (header is row 1,
// data starts at row 2).
type RawRow struct {
	RowNumber       int
	Time            string
	ProductCode     string
	SellerName      string
	UnitPrice       string
	Units           string
	TotalPrice      string
	ShippingCompany string
}

// NormalizedRow is a typed, trimmed row that passed the required-field check.
// ShippingCompany is nil when the export carried none.
type NormalizedRow struct {
	RowNumber       int
	SaleTime        time.Time
	ProductCode     string
	SellerName      string
	ShippingCompany *string
	UnitPrice       decimal.Decimal
	Units           decimal.Decimal
	LineTotal       decimal.Decimal
}

// NormalizeResult is the outcome of normalizing one batch. Dropped counts
// rows excluded for missing required fields; dropping is policy, not error.
type NormalizeResult struct {
	Rows    []NormalizedRow
	Dropped int
}

// Warning is an advisory price-consistency record. It never blocks insertion;
// the caller decides how to surface it.
type Warning struct {
	RowNumber     int             `json:"row_number"`
	ExpectedTotal decimal.Decimal `json:"expected_total"`
	LineTotal     decimal.Decimal `json:"line_total"`
	Diff          decimal.Decimal `json:"diff"`
}

// LoadResult reports one committed batch.
type LoadResult struct {
	Inserted int       `json:"inserted"`
	Skipped  int       `json:"skipped"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// TimeParseError aborts the whole batch; it carries the offending row
// position and value.
type TimeParseError struct {
	RowNumber int
	Value     string
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("row %d: unparseable time %q", e.RowNumber, e.Value)
}

func (e *TimeParseError) Unwrap() error { return ErrUnparseableTime }

// SchemaError aborts the run before any row is read: the input is missing
// expected named columns.
type SchemaError struct {
	Missing []string
	Found   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing columns %v, found %v", e.Missing, e.Found)
}

func (e *SchemaError) Unwrap() error { return ErrMissingColumns }
