package normalize

import (
	"errors"
	"testing"

	"github.com/shelfscope/shelfscope/internal/common"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to create normalizer: %v", err)
	}
	return n
}

func TestNew_ConfigValidation(t *testing.T) {
	tests := []struct {
		mutate  func(*Config)
		name    string
		wantErr bool
	}{
		{
			name:    "default config is valid",
			mutate:  func(_ *Config) {},
			wantErr: false,
		},
		{
			name:    "empty measure units",
			mutate:  func(c *Config) { c.MeasureUnits = nil },
			wantErr: true,
		},
		{
			name:    "empty count units",
			mutate:  func(c *Config) { c.CountUnits = nil },
			wantErr: true,
		},
		{
			name:    "empty size words",
			mutate:  func(c *Config) { c.SizeWords = nil },
			wantErr: true,
		},
		{
			name:    "empty variant words are allowed",
			mutate:  func(c *Config) { c.VariantWords = nil },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			if tt.wantErr {
				if !errors.Is(err, common.ErrInvalidConfig) {
					t.Errorf("Expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestBaseName(t *testing.T) {
	n := newTestNormalizer(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips volume spec",
			input: "可口可乐500ml",
			want:  "可口可乐",
		},
		{
			name:  "strips fractional volume spec",
			input: "可口可乐1.25l",
			want:  "可口可乐",
		},
		{
			name:  "strips count spec",
			input: "维达抽纸12包",
			want:  "维达抽纸",
		},
		{
			name:  "strips pack spec",
			input: "伊利纯牛奶 24x250ml",
			want:  "伊利纯牛奶",
		},
		{
			name:  "strips bracketed text",
			input: "乐事薯片(原味)70g",
			want:  "乐事薯片",
		},
		{
			name:  "strips full-width brackets",
			input: "旺旺雪饼【量贩装】",
			want:  "旺旺雪饼",
		},
		{
			name:  "strips variant words",
			input: "无糖可乐330ml",
			want:  "可乐",
		},
		{
			name:  "strips size words",
			input: "薯片大包",
			want:  "薯片包",
		},
		{
			name:  "lowercases latin text",
			input: "OREO奥利奥116g",
			want:  "oreo奥利奥",
		},
		{
			name:  "collapses whitespace and punctuation",
			input: "三只松鼠  每日坚果-混合",
			want:  "三只松鼠 每日坚果 混合",
		},
		{
			name:  "pure spec name falls back to original",
			input: "500ml",
			want:  "500ml",
		},
		{
			name:  "pure size word falls back to original",
			input: "大",
			want:  "大",
		},
		{
			name:  "empty name stays empty",
			input: "   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.BaseName(tt.input)
			if got != tt.want {
				t.Errorf("BaseName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Two variants of one product must resolve to the same base name, and the
// fallback must keep unrelated pure-spec names apart.
func TestBaseName_FamilyStability(t *testing.T) {
	n := newTestNormalizer(t)

	if a, b := n.BaseName("可口可乐500ml"), n.BaseName("可口可乐 1.25L"); a != b {
		t.Errorf("Variants mapped to different families: %q vs %q", a, b)
	}
	if a, b := n.BaseName("500ml"), n.BaseName("330ml"); a == b {
		t.Errorf("Unrelated pure-spec names collapsed to %q", a)
	}
}

func TestBaseName_Deterministic(t *testing.T) {
	n := newTestNormalizer(t)
	input := "乐事薯片(黄瓜味)70g 大包"

	first := n.BaseName(input)
	for i := 0; i < 10; i++ {
		if got := n.BaseName(input); got != first {
			t.Fatalf("BaseName not deterministic: %q vs %q", got, first)
		}
	}
}
