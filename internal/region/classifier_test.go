package region

import (
	"errors"
	"testing"

	"github.com/shelfscope/shelfscope/internal/common"
	"github.com/shelfscope/shelfscope/internal/model"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create classifier: %v", err)
	}
	return c
}

func TestNew_RequiresLists(t *testing.T) {
	tests := []struct {
		mutate  func(*Config)
		name    string
		wantErr bool
	}{
		{name: "default", mutate: func(_ *Config) {}, wantErr: false},
		{name: "empty county list", mutate: func(c *Config) { c.CountyList = nil }, wantErr: true},
		{name: "empty district list", mutate: func(c *Config) { c.DistrictList = nil }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			if tt.wantErr && !errors.Is(err, common.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name  string
		store string
		want  model.RegionLabel
	}{
		{name: "county list hit", store: "沭阳中心店", want: model.RegionCounty},
		{name: "district list hit", store: "江宁金鹰店", want: model.RegionUrban},
		{name: "keyword road", store: "幸福路便利店", want: model.RegionUrban},
		{name: "keyword town", store: "某某镇供销店", want: model.RegionCounty},
		{name: "mall brand keyword", store: "万达金街店", want: model.RegionUrban},
		{name: "no signal falls back to default", store: "旗舰店", want: model.RegionCounty},
		{name: "empty name falls back to default", store: "  ", want: model.RegionCounty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.store); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.store, got, tt.want)
			}
		})
	}
}

// List matches are conclusive whatever keyword signals also appear.
func TestClassify_ListBeatsKeyword(t *testing.T) {
	c := newTestClassifier(t)

	// 沭阳 is on the county list; 广场 is an urban keyword.
	if got := c.Classify("沭阳广场店"); got != model.RegionCounty {
		t.Errorf("County list must beat keyword rules, got %s", got)
	}
	// 江宁 is on the district list; 镇 is a county keyword.
	if got := c.Classify("江宁某镇店"); got != model.RegionUrban {
		t.Errorf("District list must beat keyword rules, got %s", got)
	}
}

func TestClassify_EmptyDefaultReturnsUnknown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultLabel = ""
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create classifier: %v", err)
	}

	if got := c.Classify("旗舰店"); got != model.RegionUnknown {
		t.Errorf("Expected unknown with no default, got %s", got)
	}
}

func TestKeywordLabeler(t *testing.T) {
	l := NewKeywordLabeler(DefaultScenarioRules())

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "single scenario", text: "伊利纯牛奶", want: []string{"早餐快手"}},
		{name: "multiple scenarios", text: "家庭装薯片", want: []string{"家庭囤货", "聚会零食"}},
		{name: "one label per rule", text: "牛奶面包麦片", want: []string{"早餐快手"}},
		{name: "no match", text: "洗洁精", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.Labels(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Labels(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Labels(%q)[%d] = %q, want %q", tt.text, i, got[i], tt.want[i])
				}
			}
		})
	}
}
