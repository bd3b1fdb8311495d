// Package csvsource reads a sales export with fixed named columns into raw
// rows for normalization.
package csvsource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hli122/salesops-analytics-db/internal/ingest/domain"
)

const (
	columnTime            = "Time"
	columnProduct         = "Product"
	columnSeller          = "Seller"
	columnUnitPrice       = "Unit Price"
	columnUnits           = "Units"
	columnTotalPrice      = "Total Price"
	columnShippingCompany = "Shipping Company"
)

var requiredColumns = []string{
	columnTime,
	columnProduct,
	columnSeller,
	columnUnitPrice,
	columnUnits,
	columnTotalPrice,
}

// File is one parsed export: the provenance source name plus its raw rows.
type File struct {
	SourceName string
	Rows       []domain.RawRow
}

// Open reads the export at path. The file's base name becomes the
// provenance source name, matching what re-imports must present to dedupe.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f, filepath.Base(path))
}

// Read parses a tabular export. A missing required column is a schema
// mismatch and fails the run before any row is produced.
func Read(r io.Reader, sourceName string) (*File, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &domain.SchemaError{Missing: requiredColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		found := make([]string, 0, len(header))
		for _, name := range header {
			found = append(found, strings.TrimSpace(name))
		}
		return nil, &domain.SchemaError{Missing: missing, Found: found}
	}

	file := &File{SourceName: sourceName}

	// Header is row 1; data starts at row 2.
	rowNumber := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rowNumber+1, err)
		}
		rowNumber++

		file.Rows = append(file.Rows, domain.RawRow{
			RowNumber:       rowNumber,
			Time:            field(record, index, columnTime),
			ProductCode:     field(record, index, columnProduct),
			SellerName:      field(record, index, columnSeller),
			UnitPrice:       field(record, index, columnUnitPrice),
			Units:           field(record, index, columnUnits),
			TotalPrice:      field(record, index, columnTotalPrice),
			ShippingCompany: field(record, index, columnShippingCompany),
		})
	}

	return file, nil
}

func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}
