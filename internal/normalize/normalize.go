// Package normalize turns noisy product names and spec text into the
// canonical forms the grouping engine keys on: a family "base name" with
// spec/size tokens stripped, and a structured spec signature.
package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shelfscope/shelfscope/internal/common"
)

// Config declares the token tables the normalizer recognizes. The defaults
// are tuned for Chinese grocery catalogs; callers with other domains swap
// the tables instead of patching regexes.
type Config struct {
	// MeasureUnits are volume/weight units matched after a number (500ml, 1.5l, 300g).
	MeasureUnits []string
	// CountUnits are packaging count words matched after a number (12片, 6包, 24支).
	CountUnits []string
	// SizeWords are bare size-class tokens (大, 中, 小, 迷你, 家庭装).
	SizeWords []string
	// VariantWords are flavor/variant tokens stripped from base names but
	// not treated as spec signatures (草莓, 无糖, 微辣).
	VariantWords []string
}

// DefaultConfig returns the token tables used by the stock analyzer.
func DefaultConfig() Config {
	return Config{
		MeasureUnits: []string{"ml", "l", "g", "kg"},
		CountUnits: []string{
			"片装", "袋装", "支装",
			"片", "包", "袋", "支", "枚", "瓶", "听", "盒", "卷", "块", "只", "罐",
		},
		SizeWords: []string{
			"迷你", "mini", "家庭装", "分享装", "量贩", "加大", "加厚", "便携",
			"大", "中", "小",
		},
		VariantWords: []string{
			"原味", "草莓", "香草", "巧克力", "柠檬", "芒果", "橙", "蓝莓", "青柠", "葡萄",
			"微辣", "中辣", "特辣", "麻辣", "无糖", "低糖", "0糖", "少糖",
			"无盐", "低盐", "海盐", "黑糖", "红糖", "低脂", "高钙", "高蛋白",
		},
	}
}

// Normalizer holds the compiled pattern tables. It is safe for concurrent
// use once constructed.
type Normalizer struct {
	packRe    *regexp.Regexp
	measureRe *regexp.Regexp
	countRe   *regexp.Regexp
	bracketRe *regexp.Regexp
	junkRe    *regexp.Regexp
	spaceRe   *regexp.Regexp
	sizeWords []string
	variants  []string
}

// New compiles a Normalizer from the given config. Empty pattern tables are
// a configuration error: a normalizer that strips nothing would silently
// merge unrelated products, so we fail fast instead.
func New(cfg Config) (*Normalizer, error) {
	if len(cfg.MeasureUnits) == 0 || len(cfg.CountUnits) == 0 {
		return nil, fmt.Errorf("%w: normalizer requires measure and count unit tables", common.ErrInvalidConfig)
	}
	if len(cfg.SizeWords) == 0 {
		return nil, fmt.Errorf("%w: normalizer requires a size word table", common.ErrInvalidConfig)
	}

	measureAlt := quoteAlternation(cfg.MeasureUnits)
	countAlt := quoteAlternation(cfg.CountUnits)

	n := &Normalizer{
		packRe:    regexp.MustCompile(`(\d+)\s*[x×\*]\s*(\d+(?:\.\d+)?)\s*(` + measureAlt + `|` + countAlt + `)?`),
		measureRe: regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(` + measureAlt + `)`),
		countRe:   regexp.MustCompile(`(\d+)\s*(` + countAlt + `)`),
		bracketRe: regexp.MustCompile(`[\(（\[【][^\)）\]】]*[\)）\]】]`),
		junkRe:    regexp.MustCompile(`[^\p{Han}0-9a-z]+`),
		spaceRe:   regexp.MustCompile(`\s+`),
		sizeWords: append([]string(nil), cfg.SizeWords...),
		variants:  append([]string(nil), cfg.VariantWords...),
	}
	return n, nil
}

// BaseName strips spec/size/variant tokens from a product name, leaving the
// common product stem shared by all variants of one family. It is total:
// a name that is nothing but spec tokens comes back as the trimmed
// lowercased original so unrelated all-spec names cannot collapse together.
func (n *Normalizer) BaseName(name string) string {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" {
		return ""
	}

	s := n.bracketRe.ReplaceAllString(trimmed, "")
	s = n.packRe.ReplaceAllString(s, "")
	s = n.measureRe.ReplaceAllString(s, "")
	s = n.countRe.ReplaceAllString(s, "")
	for _, w := range n.variants {
		s = strings.ReplaceAll(s, strings.ToLower(w), "")
	}
	for _, w := range n.sizeWords {
		s = strings.ReplaceAll(s, strings.ToLower(w), "")
	}
	s = n.junkRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(n.spaceRe.ReplaceAllString(s, " "))

	if s == "" {
		return trimmed
	}
	return s
}

// quoteAlternation joins tokens into a regexp alternation, longest first so
// that e.g. "片装" wins over "片".
func quoteAlternation(tokens []string) string {
	sorted := append([]string(nil), tokens...)
	for i := 0; i < len(sorted)-1; i++ {
		for j := 0; j < len(sorted)-i-1; j++ {
			if len(sorted[j]) < len(sorted[j+1]) {
				sorted[j], sorted[j+1] = sorted[j+1], sorted[j]
			}
		}
	}
	quoted := make([]string, len(sorted))
	for i, t := range sorted {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(t))
	}
	return strings.Join(quoted, "|")
}
