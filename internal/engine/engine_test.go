package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/shelfscope/shelfscope/internal/common"
	"github.com/shelfscope/shelfscope/internal/model"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return e
}

func f(v float64) *float64 { return &v }

func makeRow(name, spec string, price, sales float64, category string) model.RawRow {
	return model.RawRow{
		Name:         name,
		Spec:         spec,
		Price:        f(price),
		SalesQty:     f(sales),
		CategoryPath: []string{category},
	}
}

func TestAnalyze_EmptyCatalog(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Analyze(context.Background(), model.Catalog{Store: "测试店"})
	if !errors.Is(err, common.ErrEmptyCatalog) {
		t.Errorf("Expected ErrEmptyCatalog, got %v", err)
	}
}

func TestAnalyze_RejectsInvalidRows(t *testing.T) {
	e := newTestEngine(t)
	catalog := model.Catalog{
		Store: "沭阳测试店",
		Rows: []model.RawRow{
			makeRow("可口可乐", "500ml", 3, 100, "饮料"),
			{Name: "", Price: f(5), SalesQty: f(10), CategoryPath: []string{"饮料"}},
			{Name: "无价商品", SalesQty: f(10), CategoryPath: []string{"饮料"}},
			{Name: "负价商品", Price: f(-1), SalesQty: f(10), CategoryPath: []string{"饮料"}},
			makeRow("满减券", "", 0.01, 999, "店铺管理"),
		},
	}

	result, err := e.Analyze(context.Background(), catalog)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Rejected) != 4 {
		t.Fatalf("Expected 4 rejected rows, got %d", len(result.Rejected))
	}
	wantReasons := map[model.RejectReason]int{
		model.ReasonMissingName:      1,
		model.ReasonMissingPrice:     1,
		model.ReasonInvalidPrice:     1,
		model.ReasonExcludedCategory: 1,
	}
	for reason, want := range wantReasons {
		if got := result.Summary.RejectReasons[reason]; got != want {
			t.Errorf("RejectReasons[%s] = %d, want %d", reason, got, want)
		}
	}
	if result.Summary.TotalSKUCount != 1 {
		t.Errorf("Expected 1 surviving SKU, got %d", result.Summary.TotalSKUCount)
	}
}

// Sales volume is display text upstream and parses unreliably; absent or
// negative values mean "no sales signal" and count as zero rather than
// rejecting the row.
func TestAnalyze_NegativeSalesZeroed(t *testing.T) {
	e := newTestEngine(t)
	catalog := model.Catalog{
		Store: "测试店",
		Rows: []model.RawRow{
			{Name: "滞销品", Price: f(5), SalesQty: f(-3), CategoryPath: []string{"零食"}},
			{Name: "无销量品", Price: f(5), CategoryPath: []string{"零食"}},
		},
	}

	result, err := e.Analyze(context.Background(), catalog)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(result.Rejected) != 0 {
		t.Fatalf("Sales problems must not reject rows, got %d rejected", len(result.Rejected))
	}
	for _, sku := range result.Tagged {
		if sku.SalesQty != 0 {
			t.Errorf("SKU %q sales = %v, want 0", sku.Name, sku.SalesQty)
		}
	}
	if result.Summary.ActiveSKUCount != 0 {
		t.Errorf("Zero-sales SKUs counted as active: %d", result.Summary.ActiveSKUCount)
	}
}

// No input row may ever silently disappear: every row lands in the tagged
// table or the rejected list, and the counts reconcile exactly.
func TestAnalyze_Conservation(t *testing.T) {
	e := newTestEngine(t)
	catalog := model.Catalog{
		Store: "沭阳测试店",
		Rows: []model.RawRow{
			makeRow("可口可乐", "500ml", 3, 100, "饮料"),
			makeRow("可口可乐", "500ml", 3, 100, "饮料"), // literal duplicate
			makeRow("可口可乐", "1.25l", 6, 40, "饮料"),
			makeRow("乐事薯片", "70g", 6.5, 55, "零食"),
			{Name: "", CategoryPath: []string{"零食"}}, // rejected
		},
	}

	result, err := e.Analyze(context.Background(), catalog)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if got := len(result.Tagged) + len(result.Rejected); got != len(catalog.Rows) {
		t.Fatalf("Conservation violated: tagged %d + rejected %d != input %d",
			len(result.Tagged), len(result.Rejected), len(catalog.Rows))
	}

	canonical := 0
	for _, sku := range result.Tagged {
		if sku.CanonicalRow {
			canonical++
		}
	}
	if canonical != result.Summary.TotalSKUCount {
		t.Errorf("Canonical row count %d disagrees with summary %d", canonical, result.Summary.TotalSKUCount)
	}
	if result.Summary.DuplicateCount != 1 {
		t.Errorf("Expected 1 duplicate, got %d", result.Summary.DuplicateCount)
	}
	if result.Summary.InputRows != len(catalog.Rows) {
		t.Errorf("InputRows = %d, want %d", result.Summary.InputRows, len(catalog.Rows))
	}
}

func TestAnalyze_MultiSpecFamilies(t *testing.T) {
	e := newTestEngine(t)
	catalog := model.Catalog{
		Store: "沭阳测试店",
		Rows: []model.RawRow{
			makeRow("可口可乐", "500ml", 3, 300, "饮料"),
			makeRow("可口可乐", "1.25l", 6, 120, "饮料"),
			makeRow("农夫山泉", "550ml", 2, 200, "饮料"),
		},
	}

	result, err := e.Analyze(context.Background(), catalog)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Summary.MultiSpecProductCount != 1 {
		t.Errorf("Expected 1 multi-spec product, got %d", result.Summary.MultiSpecProductCount)
	}
	if result.Summary.MultiSpecSKUCount != 2 {
		t.Errorf("Expected 2 multi-spec SKUs, got %d", result.Summary.MultiSpecSKUCount)
	}

	var coke *model.Family
	for i := range result.Families {
		if result.Families[i].Key == "可口可乐" {
			coke = &result.Families[i]
		}
	}
	if coke == nil {
		t.Fatal("可口可乐 family not found")
	}
	if !coke.IsMultiSpec || coke.SpecCount != 2 {
		t.Errorf("Expected multi-spec family with 2 specs, got multi=%v specs=%d", coke.IsMultiSpec, coke.SpecCount)
	}
	// The 500ml variant outsells and must be the canonical representative.
	if coke.CanonicalSKU.Signature.String() != "500ml" {
		t.Errorf("Expected 500ml canonical, got %s", coke.CanonicalSKU.Signature.String())
	}
}

func TestAnalyze_RolesAndRegion(t *testing.T) {
	e := newTestEngine(t)

	// Ten drink SKUs with prices and sales both 1..10; the cheap best-seller
	// must come out a traffic driver, the expensive shelf-warmer an image item.
	rows := make([]model.RawRow, 0, 10)
	for i := 1; i <= 10; i++ {
		rows = append(rows, makeRow(
			"商品"+string(rune('a'+i-1)), "",
			float64(i), float64(100*(11-i)), "饮料"))
	}
	catalog := model.Catalog{Store: "江宁测试店", Rows: rows}

	result, err := e.Analyze(context.Background(), catalog)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Region != model.RegionUrban {
		t.Errorf("Expected urban region for 江宁 store, got %s", result.Region)
	}

	roleByName := make(map[string]model.RoleLabel)
	for _, sku := range result.Tagged {
		roleByName[sku.Name] = sku.Role
	}
	if got := roleByName["商品a"]; got != model.RoleTrafficDriver {
		t.Errorf("Cheap best-seller role = %s, want %s", got, model.RoleTrafficDriver)
	}
	if got := roleByName["商品j"]; got != model.RoleImageItem {
		t.Errorf("Expensive shelf-warmer role = %s, want %s", got, model.RoleImageItem)
	}
}

func TestAnalyze_SmallCategoryUnclassified(t *testing.T) {
	e := newTestEngine(t)
	catalog := model.Catalog{
		Store: "测试店",
		Rows: []model.RawRow{
			makeRow("孤品甲", "", 5, 10, "文具"),
			makeRow("孤品乙", "", 8, 2, "文具"),
		},
	}

	result, err := e.Analyze(context.Background(), catalog)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	for _, sku := range result.Tagged {
		if sku.Role != model.RoleUnclassified {
			t.Errorf("SKU %q in undersized category got role %s", sku.Name, sku.Role)
		}
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	e := newTestEngine(t)
	catalog := model.Catalog{
		Store: "沭阳测试店",
		Rows: []model.RawRow{
			makeRow("可口可乐", "500ml", 3, 300, "饮料"),
			makeRow("可口可乐", "500ml", 3, 300, "饮料"),
			makeRow("可口可乐", "1.25l", 6, 120, "饮料"),
			makeRow("农夫山泉", "550ml", 2, 200, "饮料"),
			makeRow("乐事薯片", "70g", 6.5, 55, "零食"),
			makeRow("奥利奥", "116g", 8, 45, "零食"),
			makeRow("旺旺雪饼", "84g", 5, 30, "零食"),
		},
	}

	first, err := e.Analyze(context.Background(), catalog)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := e.Analyze(context.Background(), catalog)
		if err != nil {
			t.Fatalf("Analyze failed on rerun: %v", err)
		}
		if len(again.Tagged) != len(first.Tagged) {
			t.Fatalf("Rerun changed tagged count: %d vs %d", len(again.Tagged), len(first.Tagged))
		}
		for i := range again.Tagged {
			a, b := again.Tagged[i], first.Tagged[i]
			if a.RowIndex != b.RowIndex || a.Role != b.Role || a.CanonicalRow != b.CanonicalRow {
				t.Fatalf("Rerun diverged at tagged[%d]: %+v vs %+v", i, a, b)
			}
		}
		if again.Summary.TotalSKUCount != first.Summary.TotalSKUCount ||
			again.Summary.DuplicateCount != first.Summary.DuplicateCount ||
			again.Summary.TotalRevenue != first.Summary.TotalRevenue {
			t.Fatalf("Rerun changed summary: %+v vs %+v", again.Summary, first.Summary)
		}
	}
}

func TestAnalyze_ScenarioTags(t *testing.T) {
	e := newTestEngine(t)
	catalog := model.Catalog{
		Store: "测试店",
		Rows: []model.RawRow{
			makeRow("伊利纯牛奶", "250ml", 3, 100, "乳品"),
			makeRow("乐事薯片", "70g", 6, 80, "零食"),
			makeRow("洗洁精", "500g", 9, 20, "日用"),
		},
	}

	result, err := e.Analyze(context.Background(), catalog)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	scenarios := make(map[string][]string)
	for _, sku := range result.Tagged {
		scenarios[sku.Name] = sku.Scenarios
	}
	if got := scenarios["伊利纯牛奶"]; len(got) != 1 || got[0] != "早餐快手" {
		t.Errorf("牛奶 scenarios = %v, want [早餐快手]", got)
	}
	if got := scenarios["乐事薯片"]; len(got) != 1 || got[0] != "聚会零食" {
		t.Errorf("薯片 scenarios = %v, want [聚会零食]", got)
	}
	if got := scenarios["洗洁精"]; len(got) != 0 {
		t.Errorf("洗洁精 scenarios = %v, want none", got)
	}
}

func TestAnalyze_CancelledContext(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	catalog := model.Catalog{
		Store: "测试店",
		Rows:  []model.RawRow{makeRow("可口可乐", "500ml", 3, 100, "饮料")},
	}
	if _, err := e.Analyze(ctx, catalog); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
