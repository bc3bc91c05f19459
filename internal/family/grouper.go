// Package family clusters tagged SKUs into product families and flags the
// families that carry multiple spec variants.
package family

import (
	"sort"

	"github.com/shelfscope/shelfscope/internal/model"
	"github.com/shelfscope/shelfscope/internal/reconcile"
)

// groupKey scopes a family to its top-level category: two departments can
// produce the same base name for unrelated products, so a family never
// crosses categories.
type groupKey struct {
	topCategory string
	familyKey   string
}

// Group partitions SKUs into families keyed by (top category, family key).
// A family is multi-spec iff its members span at least two distinct spec
// signatures. Every input SKU lands in exactly one family, so member counts
// across all families always sum to the input length.
func Group(skus []model.TaggedSKU) []model.Family {
	buckets := make(map[groupKey][]model.TaggedSKU)
	order := make([]groupKey, 0)

	for _, sku := range skus {
		key := groupKey{topCategory: sku.TopCategory(), familyKey: sku.FamilyKey}
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], sku)
	}

	// Deterministic family order regardless of input permutation.
	sort.Slice(order, func(i, j int) bool {
		if order[i].topCategory != order[j].topCategory {
			return order[i].topCategory < order[j].topCategory
		}
		return order[i].familyKey < order[j].familyKey
	})

	families := make([]model.Family, 0, len(order))
	for _, key := range order {
		members := buckets[key]
		specs := make(map[model.SpecSignature]bool, len(members))
		for _, m := range members {
			specs[m.Signature] = true
		}

		canonical := reconcile.CanonicalOrder(members)

		families = append(families, model.Family{
			Key:          key.familyKey,
			TopCategory:  key.topCategory,
			SKUs:         members,
			SpecCount:    len(specs),
			IsMultiSpec:  len(specs) >= 2,
			CanonicalSKU: canonical[0],
		})
	}
	return families
}
