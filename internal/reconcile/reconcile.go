// Package reconcile provides the single canonical ordering and dedup rule
// that every derived view of a catalog must agree on. Summary counts, detail
// tables and family listings all re-derive "the" representative row per SKU
// identity; they stay consistent because they all go through this package.
package reconcile

import (
	"sort"

	"github.com/shelfscope/shelfscope/internal/model"
)

// Less is the canonical comparator: sales volume descending, then price
// ascending, then stock descending, then spec signature ascending (lexical).
// The input row index breaks any remaining tie, so the order is total and
// no two distinct rows ever compare equal.
func Less(a, b *model.TaggedSKU) bool {
	if a.SalesQty != b.SalesQty {
		return a.SalesQty > b.SalesQty
	}
	if a.Price != b.Price {
		return a.Price < b.Price
	}
	if a.Stock != b.Stock {
		return a.Stock > b.Stock
	}
	as, bs := a.Signature.String(), b.Signature.String()
	if as != bs {
		return as < bs
	}
	return a.RowIndex < b.RowIndex
}

// CanonicalOrder returns a new slice sorted by the canonical comparator.
// The input is never mutated.
func CanonicalOrder(skus []model.TaggedSKU) []model.TaggedSKU {
	sorted := append([]model.TaggedSKU(nil), skus...)
	sort.Slice(sorted, func(i, j int) bool {
		return Less(&sorted[i], &sorted[j])
	})
	return sorted
}

// Dedup partitions rows into the canonical representative per identity and
// the duplicate rows behind it. Raw rows sharing an identity are presumed
// true duplicates of one SKU: the first row in canonical order is kept and
// the rest are dropped without summing their sales or stock. Running Dedup
// on its own kept output removes nothing further.
func Dedup(skus []model.TaggedSKU) (kept, dropped []model.TaggedSKU) {
	sorted := CanonicalOrder(skus)
	seen := make(map[model.DedupKey]bool, len(sorted))

	for _, sku := range sorted {
		id := sku.Identity()
		if seen[id] {
			sku.CanonicalRow = false
			dropped = append(dropped, sku)
			continue
		}
		seen[id] = true
		sku.CanonicalRow = true
		kept = append(kept, sku)
	}
	return kept, dropped
}
