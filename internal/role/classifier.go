// Package role assigns each SKU a commercial role from its price and sales
// position relative to its category peers.
package role

import (
	"fmt"
	"sort"

	"github.com/shelfscope/shelfscope/internal/common"
	"github.com/shelfscope/shelfscope/internal/model"
)

// Config holds the tunable thresholds of the classifier. The cutoffs are
// domain-tuning parameters, not structural requirements, so they are
// configuration rather than constants.
type Config struct {
	// MinPeerSize is the smallest peer set percentiles are meaningful on.
	// Below it the classifier returns unclassified instead of guessing.
	MinPeerSize int
	// SplitQuantile is where "high" and "low" divide. 0.5 is the median.
	SplitQuantile float64
}

// DefaultConfig returns the default classifier thresholds.
func DefaultConfig() Config {
	return Config{
		MinPeerSize:   3,
		SplitQuantile: 0.5,
	}
}

// Classifier computes role labels. It carries no state beyond its config
// and is safe for concurrent use.
type Classifier struct {
	cfg Config
}

// New validates the config and returns a classifier.
func New(cfg Config) (*Classifier, error) {
	if cfg.MinPeerSize < 1 {
		return nil, fmt.Errorf("%w: min peer size must be at least 1, got %d", common.ErrInvalidConfig, cfg.MinPeerSize)
	}
	if cfg.SplitQuantile <= 0 || cfg.SplitQuantile >= 1 {
		return nil, fmt.Errorf("%w: split quantile must be in (0, 1), got %.2f", common.ErrInvalidConfig, cfg.SplitQuantile)
	}
	return &Classifier{cfg: cfg}, nil
}

// Classify places one SKU into a quadrant relative to its category peers:
//
//	high sales + low price  -> traffic_driver
//	high sales + high price -> profit_item
//	low sales  + high price -> image_item
//	low sales  + low price  -> underperformer
//
// A value exactly on the split counts as low, which keeps the rule
// deterministic. The peer set must include the SKU itself.
func (c *Classifier) Classify(sku *model.TaggedSKU, peers []model.TaggedSKU) model.RoleLabel {
	if len(peers) < c.cfg.MinPeerSize {
		return model.RoleUnclassified
	}

	prices := make([]float64, len(peers))
	sales := make([]float64, len(peers))
	for i, p := range peers {
		prices[i] = p.Price
		sales[i] = p.SalesQty
	}

	priceSplit := quantile(prices, c.cfg.SplitQuantile)
	salesSplit := quantile(sales, c.cfg.SplitQuantile)

	highPrice := sku.Price > priceSplit
	highSales := sku.SalesQty > salesSplit

	switch {
	case highSales && !highPrice:
		return model.RoleTrafficDriver
	case highSales && highPrice:
		return model.RoleProfitItem
	case !highSales && highPrice:
		return model.RoleImageItem
	default:
		return model.RoleUnderperformer
	}
}

// quantile returns the q-quantile of values using linear interpolation
// between sorted order statistics. Same input always yields the same cut.
func quantile(values []float64, q float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
