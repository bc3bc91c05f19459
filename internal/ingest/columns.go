// Package ingest adapts raw tabular catalog exports to the engine's
// canonical column set. Export headers vary wildly (Chinese and English
// variants, stray whitespace), so resolution goes through a configurable
// alias table rather than hard-coded names.
package ingest

import (
	"fmt"
	"strings"

	"github.com/shelfscope/shelfscope/internal/common"
)

// Column is a canonical catalog column.
type Column string

// Canonical columns.
const (
	ColName          Column = "product_name"
	ColSpec          Column = "spec"
	ColBarcode       Column = "barcode"
	ColPrice         Column = "price"
	ColOriginalPrice Column = "original_price"
	ColSalesQty      Column = "sales_qty"
	ColStock         Column = "stock"
	ColCategoryL1    Column = "l1_category"
	ColCategoryL3    Column = "l3_category"
)

// requiredColumns must resolve for a file to be analyzable at all.
var requiredColumns = []Column{ColName, ColPrice, ColSalesQty, ColCategoryL1}

// AliasTable maps each canonical column to the header names it may appear
// under, in priority order.
type AliasTable map[Column][]string

// DefaultAliases returns the stock header alias table.
func DefaultAliases() AliasTable {
	return AliasTable{
		ColName:          {"product_name", "商品名称", "品名", "名称"},
		ColSpec:          {"规格名称", "规格", "规格名", "规格型号", "规格值", "spec", "spec_name", "variant"},
		ColBarcode:       {"barcode", "条码", "条形码", "EAN", "UPC"},
		ColPrice:         {"price", "售价", "现价", "销售价", "价格"},
		ColOriginalPrice: {"original_price", "原价", "划线价", "参考价"},
		ColSalesQty:      {"sales_qty", "月售", "销量", "月销量", "销售数量"},
		ColStock:         {"库存", "剩余库存", "库存数", "库存数量", "stock", "Stock"},
		ColCategoryL1:    {"l1_category", "一级分类", "美团一级分类", "大类", "分类", "一级品类"},
		ColCategoryL3:    {"l3_category", "美团三级分类", "三级分类", "子类", "细类", "三级品类"},
	}
}

// ColumnResolver resolves a header row to canonical column positions.
type ColumnResolver struct {
	aliases AliasTable
}

// NewColumnResolver validates the alias table. An empty table means no file
// could ever resolve, so it fails fast before any processing begins.
func NewColumnResolver(aliases AliasTable) (*ColumnResolver, error) {
	if len(aliases) == 0 {
		return nil, fmt.Errorf("%w: column alias table is empty", common.ErrInvalidConfig)
	}
	for _, col := range requiredColumns {
		if len(aliases[col]) == 0 {
			return nil, fmt.Errorf("%w: no aliases configured for required column %q", common.ErrInvalidConfig, col)
		}
	}
	return &ColumnResolver{aliases: aliases}, nil
}

// Resolve maps header names to canonical columns. Headers are trimmed
// before matching. Missing optional columns are fine; missing required
// columns abort the import.
func (r *ColumnResolver) Resolve(headers []string) (map[Column]int, error) {
	trimmed := make([]string, len(headers))
	for i, h := range headers {
		trimmed[i] = strings.TrimSpace(h)
	}

	resolved := make(map[Column]int)
	for col, aliases := range r.aliases {
		for _, alias := range aliases {
			if idx := indexOf(trimmed, alias); idx >= 0 {
				resolved[col] = idx
				break
			}
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := resolved[col]; !ok {
			missing = append(missing, string(col))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return resolved, nil
}

func indexOf(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}
