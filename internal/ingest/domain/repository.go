package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	salesdomain "github.com/hli122/salesops-analytics-db/internal/sales/domain"
	"gorm.io/gorm"
)

// DimensionKind names one of the lookup entities referenced by fact rows.
type DimensionKind string

const (
	DimensionProduct         DimensionKind = "product"
	DimensionSeller          DimensionKind = "seller"
	DimensionShippingCompany DimensionKind = "shipping_company"
)

// DimensionRepository maps natural keys to surrogate ids, creating the row
// on first sight. Resolve runs inside the caller's transaction and must
// survive losing an insert race on a new key.
type DimensionRepository interface {
	Resolve(ctx context.Context, tx *gorm.DB, kind DimensionKind, naturalKey string) (snowflake.ID, error)
}

// FactRepository owns creation of sales line rows. Insert reports false when
// the provenance key already exists.
type FactRepository interface {
	Insert(ctx context.Context, tx *gorm.DB, line *salesdomain.SalesLine) (bool, error)
}
