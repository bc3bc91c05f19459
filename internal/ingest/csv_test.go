package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/shelfscope/shelfscope/internal/common"
)

func newTestResolver(t *testing.T) *ColumnResolver {
	t.Helper()
	r, err := NewColumnResolver(DefaultAliases())
	if err != nil {
		t.Fatalf("Failed to create resolver: %v", err)
	}
	return r
}

func TestReadCSV_ChineseHeaders(t *testing.T) {
	csvData := `商品名称,规格名称,条码,售价,原价,月售,库存,一级分类,美团三级分类
可口可乐,500ml,6901234567890,3.50,4.00,"1,234",50,饮料,碳酸饮料
乐事薯片,70g,,6.50,,500+,20,零食,膨化食品
伊利纯牛奶,,6909876543210,¥58.00,,1.2万,8,乳品,
`

	catalog, err := readCSV(strings.NewReader(csvData), "测试店", newTestResolver(t))
	if err != nil {
		t.Fatalf("readCSV failed: %v", err)
	}
	if catalog.Store != "测试店" {
		t.Errorf("Store = %q, want 测试店", catalog.Store)
	}
	if len(catalog.Rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(catalog.Rows))
	}

	coke := catalog.Rows[0]
	if coke.Name != "可口可乐" || coke.Spec != "500ml" || coke.Barcode != "6901234567890" {
		t.Errorf("Unexpected first row: %+v", coke)
	}
	if coke.Price == nil || *coke.Price != 3.5 {
		t.Errorf("Price = %v, want 3.5", coke.Price)
	}
	if coke.SalesQty == nil || *coke.SalesQty != 1234 {
		t.Errorf("SalesQty = %v, want 1234 (comma separator)", coke.SalesQty)
	}
	if len(coke.CategoryPath) != 2 || coke.CategoryPath[0] != "饮料" || coke.CategoryPath[1] != "碳酸饮料" {
		t.Errorf("CategoryPath = %v", coke.CategoryPath)
	}

	chips := catalog.Rows[1]
	if chips.OriginalPrice != nil {
		t.Errorf("Empty original price should be absent, got %v", *chips.OriginalPrice)
	}
	if chips.SalesQty == nil || *chips.SalesQty != 500 {
		t.Errorf("SalesQty = %v, want 500 (plus suffix)", chips.SalesQty)
	}

	milk := catalog.Rows[2]
	if milk.Price == nil || *milk.Price != 58 {
		t.Errorf("Price = %v, want 58 (currency symbol stripped)", milk.Price)
	}
	if milk.SalesQty == nil || *milk.SalesQty != 12000 {
		t.Errorf("SalesQty = %v, want 12000 (万 suffix)", milk.SalesQty)
	}
	if len(milk.CategoryPath) != 1 {
		t.Errorf("Expected single-level category path, got %v", milk.CategoryPath)
	}
}

func TestReadCSV_BOMHeader(t *testing.T) {
	csvData := "\uFEFF商品名称,售价,月售,一级分类\n可口可乐,3.5,100,饮料\n"

	catalog, err := readCSV(strings.NewReader(csvData), "测试店", newTestResolver(t))
	if err != nil {
		t.Fatalf("readCSV failed on BOM header: %v", err)
	}
	if len(catalog.Rows) != 1 || catalog.Rows[0].Name != "可口可乐" {
		t.Errorf("Unexpected rows: %+v", catalog.Rows)
	}
}

func TestReadCSV_EnglishHeaders(t *testing.T) {
	csvData := "product_name,price,sales_qty,l1_category\nCola,3.5,100,Drinks\n"

	catalog, err := readCSV(strings.NewReader(csvData), "store-1", newTestResolver(t))
	if err != nil {
		t.Fatalf("readCSV failed on English headers: %v", err)
	}
	if len(catalog.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(catalog.Rows))
	}
}

func TestReadCSV_MissingRequiredColumn(t *testing.T) {
	csvData := "商品名称,售价,库存\n可口可乐,3.5,50\n"

	_, err := readCSV(strings.NewReader(csvData), "测试店", newTestResolver(t))
	if !errors.Is(err, common.ErrMissingColumn) {
		t.Errorf("Expected ErrMissingColumn, got %v", err)
	}
}

func TestReadCSV_RaggedRows(t *testing.T) {
	// Short rows leave trailing fields absent instead of failing the file.
	csvData := "商品名称,售价,月售,一级分类\n可口可乐,3.5\n乐事薯片,6.5,80,零食\n"

	catalog, err := readCSV(strings.NewReader(csvData), "测试店", newTestResolver(t))
	if err != nil {
		t.Fatalf("readCSV failed on ragged rows: %v", err)
	}
	if len(catalog.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(catalog.Rows))
	}
	if catalog.Rows[0].SalesQty != nil {
		t.Error("Missing sales cell should stay absent")
	}
	if len(catalog.Rows[0].CategoryPath) != 0 {
		t.Error("Missing category cell should stay absent")
	}
}

func TestReadCSV_UnreadableFile(t *testing.T) {
	_, err := ReadCSV("/nonexistent/path.csv", "测试店", newTestResolver(t))
	if !errors.Is(err, common.ErrUnreadableInput) {
		t.Errorf("Expected ErrUnreadableInput, got %v", err)
	}
}

func TestNewColumnResolver_Validation(t *testing.T) {
	tests := []struct {
		aliases AliasTable
		name    string
		wantErr bool
	}{
		{name: "default table", aliases: DefaultAliases(), wantErr: false},
		{name: "empty table", aliases: AliasTable{}, wantErr: true},
		{
			name: "required column without aliases",
			aliases: AliasTable{
				ColName:  {"商品名称"},
				ColPrice: {"售价"},
				// sales and category missing
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewColumnResolver(tt.aliases)
			if tt.wantErr && !errors.Is(err, common.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestResolve_TrimsHeaders(t *testing.T) {
	r := newTestResolver(t)
	columns, err := r.Resolve([]string{" 商品名称 ", "售价", "月售", " 一级分类"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if columns[ColName] != 0 || columns[ColCategoryL1] != 3 {
		t.Errorf("Unexpected column mapping: %v", columns)
	}
}
