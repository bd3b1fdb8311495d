package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Product is a dimension row keyed by its natural product code.
// Dimension rows are created lazily on first sight and never updated.
type Product struct {
	ProductID   snowflake.ID `gorm:"column:product_id;primaryKey" json:"product_id"`
	ProductCode string       `gorm:"column:product_code;not null;uniqueIndex" json:"product_code"`
}

func (Product) TableName() string { return "dim_product" }

type Seller struct {
	SellerID   snowflake.ID `gorm:"column:seller_id;primaryKey" json:"seller_id"`
	SellerName string       `gorm:"column:seller_name;not null;uniqueIndex" json:"seller_name"`
}

func (Seller) TableName() string { return "dim_seller" }

type ShippingCompany struct {
	ShippingCompanyID snowflake.ID `gorm:"column:shipping_company_id;primaryKey" json:"shipping_company_id"`
	CompanyName       string       `gorm:"column:company_name;not null;uniqueIndex" json:"company_name"`
}

func (ShippingCompany) TableName() string { return "dim_shipping_company" }

// SalesLine is one immutable transaction line. The provenance pair
// (source_file, source_row_number) is unique, which is what makes re-imports
// idempotent. A nil ShippingCompanyID means the export carried no shipping
// company; there is no sentinel dimension row for that.
type SalesLine struct {
	LineID            snowflake.ID    `gorm:"column:line_id;primaryKey" json:"line_id"`
	SaleTime          time.Time       `gorm:"column:sale_time;not null" json:"sale_time"`
	SaleDate          time.Time       `gorm:"column:sale_date;not null;index" json:"sale_date"`
	ProductID         snowflake.ID    `gorm:"column:product_id;not null" json:"product_id"`
	SellerID          snowflake.ID    `gorm:"column:seller_id;not null" json:"seller_id"`
	ShippingCompanyID *snowflake.ID   `gorm:"column:shipping_company_id" json:"shipping_company_id,omitempty"`
	UnitPrice         decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null" json:"unit_price"`
	Units             decimal.Decimal `gorm:"column:units;type:numeric(12,2);not null" json:"units"`
	LineTotal         decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null" json:"line_total"`
	SourceFile        string          `gorm:"column:source_file;not null;uniqueIndex:uq_fact_sales_line_provenance" json:"source_file"`
	SourceRowNumber   int             `gorm:"column:source_row_number;not null;uniqueIndex:uq_fact_sales_line_provenance" json:"source_row_number"`
}

func (SalesLine) TableName() string { return "fact_sales_line" }

// UnknownShippingLabel is the display fallback for a missing shipping
// company. It is applied when joining at read time, never persisted.
const UnknownShippingLabel = "UNKNOWN"
