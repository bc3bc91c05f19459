package role

import (
	"fmt"
	"strings"
)

// DefaultBandBounds are the stock price-band edges in yuan.
var DefaultBandBounds = []float64{0, 5, 10, 20, 30, 40, 50, 60, 70, 80, 90}

// PriceBand buckets a price into right-open bands defined by ascending
// bounds: [b0,b1), [b1,b2), ..., [bn,+inf). Labels read "0-5", "5-10",
// "90+". Prices below the first bound fall into the first band.
func PriceBand(price float64, bounds []float64) string {
	if len(bounds) == 0 {
		bounds = DefaultBandBounds
	}
	for i := 0; i < len(bounds)-1; i++ {
		if price < bounds[i+1] {
			return fmt.Sprintf("%s-%s", trim(bounds[i]), trim(bounds[i+1]))
		}
	}
	return fmt.Sprintf("%s+", trim(bounds[len(bounds)-1]))
}

func trim(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
