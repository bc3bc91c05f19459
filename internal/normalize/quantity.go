package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// Catalog exports write sales volume as display text: "1,234", "500+",
// "1.2万", "3千". quantityRe captures the number and optional scale suffix
// after separators are removed.
var quantityRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([万亿千百wWkK]?)$`)

// ParseQuantity converts a sales-volume cell to a number. The second return
// is false when the cell is blank or unparseable; callers treat that as 0
// rather than rejecting the row.
func ParseQuantity(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "+", "")

	if m := quantityRe.FindStringSubmatch(s); m != nil {
		num, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		switch m[2] {
		case "万", "w", "W":
			num *= 10000
		case "千", "k", "K":
			num *= 1000
		case "百":
			num *= 100
		case "亿":
			num *= 100000000
		}
		return num, true
	}

	num, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return num, true
}
