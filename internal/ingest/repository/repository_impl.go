package repository

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/hli122/salesops-analytics-db/internal/ingest/domain"
	salesdomain "github.com/hli122/salesops-analytics-db/internal/sales/domain"
	"gorm.io/gorm"
)

// resolveAttempts bounds the select/insert/re-select loop. Two passes cover
// any single lost race; three leaves headroom without looping forever on a
// broken constraint.
const resolveAttempts = 3

type dimTable struct {
	name   string
	idCol  string
	keyCol string
}

var dimTables = map[domain.DimensionKind]dimTable{
	domain.DimensionProduct:         {name: "dim_product", idCol: "product_id", keyCol: "product_code"},
	domain.DimensionSeller:          {name: "dim_seller", idCol: "seller_id", keyCol: "seller_name"},
	domain.DimensionShippingCompany: {name: "dim_shipping_company", idCol: "shipping_company_id", keyCol: "company_name"},
}

type dimensionRepo struct {
	genID *snowflake.Node
}

func ProvideDimensions(genID *snowflake.Node) domain.DimensionRepository {
	return &dimensionRepo{genID: genID}
}

func (r *dimensionRepo) Resolve(ctx context.Context, tx *gorm.DB, kind domain.DimensionKind, naturalKey string) (snowflake.ID, error) {
	table, ok := dimTables[kind]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownDimension, kind)
	}

	find := func() (snowflake.ID, error) {
		return r.find(ctx, tx, table, naturalKey)
	}
	insert := func(id snowflake.ID) (bool, error) {
		return r.insert(ctx, tx, table, id, naturalKey)
	}

	return resolve(find, insert, r.genID)
}

// resolve is the get-or-create loop: select, else insert, and re-read when
// another resolver already created the row. The insert is conflict-tolerant
// at the statement level: a lost race must not raise, because on postgres an
// errored statement aborts the enclosing batch transaction and every
// statement after it, re-reads included.
func resolve(find func() (snowflake.ID, error), insert func(snowflake.ID) (bool, error), genID *snowflake.Node) (snowflake.ID, error) {
	for attempt := 0; attempt < resolveAttempts; attempt++ {
		id, err := find()
		if err != nil {
			return 0, err
		}
		if id != 0 {
			return id, nil
		}

		id = genID.Generate()
		inserted, err := insert(id)
		if err != nil {
			return 0, err
		}
		if inserted {
			return id, nil
		}
		// Lost the insert race; the winner's row is there to re-read.
	}
	return 0, domain.ErrDimensionConflict
}

func (r *dimensionRepo) find(ctx context.Context, tx *gorm.DB, table dimTable, naturalKey string) (snowflake.ID, error) {
	var id snowflake.ID
	err := tx.WithContext(ctx).Raw(
		fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ?`, table.idCol, table.name, table.keyCol),
		naturalKey,
	).Scan(&id).Error
	if err != nil {
		return 0, err
	}
	return id, nil
}

// insert reports false without error when the natural key already exists,
// same as the fact insert below.
func (r *dimensionRepo) insert(ctx context.Context, tx *gorm.DB, table dimTable, id snowflake.ID, naturalKey string) (bool, error) {
	result := tx.WithContext(ctx).Exec(
		fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES (?, ?) ON CONFLICT (%s) DO NOTHING`,
			table.name, table.idCol, table.keyCol, table.keyCol),
		id,
		naturalKey,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

type factRepo struct{}

func ProvideFacts() domain.FactRepository {
	return &factRepo{}
}

// Insert writes one fact row, deduplicating on the provenance key. A replay
// is a no-op reported as false, never an error.
func (r *factRepo) Insert(ctx context.Context, tx *gorm.DB, line *salesdomain.SalesLine) (bool, error) {
	result := tx.WithContext(ctx).Exec(
		`INSERT INTO fact_sales_line
		   (line_id, sale_time, sale_date, product_id, seller_id, shipping_company_id,
		    unit_price, units, line_total, source_file, source_row_number)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (source_file, source_row_number) DO NOTHING`,
		line.LineID,
		line.SaleTime,
		line.SaleDate,
		line.ProductID,
		line.SellerID,
		line.ShippingCompanyID,
		line.UnitPrice,
		line.Units,
		line.LineTotal,
		line.SourceFile,
		line.SourceRowNumber,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
