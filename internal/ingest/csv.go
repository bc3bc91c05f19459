package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shelfscope/shelfscope/internal/common"
	"github.com/shelfscope/shelfscope/internal/model"
	"github.com/shelfscope/shelfscope/internal/normalize"
)

// ReadCSV decodes a catalog export into raw rows using the resolver's alias
// table. Cell-level problems degrade (the field stays absent); only an
// unreadable file or unresolvable header aborts.
func ReadCSV(path, store string, resolver *ColumnResolver) (model.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("%w: %v", common.ErrUnreadableInput, err)
	}
	defer func() { _ = f.Close() }()

	return readCSV(f, store, resolver)
}

func readCSV(r io.Reader, store string, resolver *ColumnResolver) (model.Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return model.Catalog{}, fmt.Errorf("%w: failed to read header: %v", common.ErrUnreadableInput, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	columns, err := resolver.Resolve(header)
	if err != nil {
		return model.Catalog{}, err
	}

	catalog := model.Catalog{Store: store}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip unparseable lines; the engine accounts for what it
			// receives, and a torn line carries nothing to account for.
			continue
		}
		catalog.Rows = append(catalog.Rows, decodeRow(record, columns))
	}
	return catalog, nil
}

// decodeRow maps one CSV record onto a raw row. Numeric cells that fail to
// parse are treated as absent rather than failing the row here; the engine
// decides what absence means per field.
func decodeRow(record []string, columns map[Column]int) model.RawRow {
	cell := func(col Column) string {
		idx, ok := columns[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	row := model.RawRow{
		Name:    cell(ColName),
		Spec:    cell(ColSpec),
		Barcode: cell(ColBarcode),
	}

	row.Price = parseMoney(cell(ColPrice))
	row.OriginalPrice = parseMoney(cell(ColOriginalPrice))
	row.Stock = parseMoney(cell(ColStock))

	if qty, ok := normalize.ParseQuantity(cell(ColSalesQty)); ok {
		row.SalesQty = &qty
	}

	if l1 := cell(ColCategoryL1); l1 != "" {
		row.CategoryPath = append(row.CategoryPath, l1)
		if l3 := cell(ColCategoryL3); l3 != "" {
			row.CategoryPath = append(row.CategoryPath, l3)
		}
	}
	return row
}

// parseMoney reads a numeric cell, tolerating currency symbols and
// thousands separators.
func parseMoney(s string) *float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "¥")
	s = strings.TrimPrefix(s, "￥")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
