package engine

import (
	"github.com/shelfscope/shelfscope/internal/model"
	"github.com/shelfscope/shelfscope/internal/role"
)

// Result is the full output of one analysis run.
type Result struct {
	Store    string
	Region   model.RegionLabel
	Tagged   []model.TaggedSKU
	Families []model.Family
	Rejected []model.RejectedRow
	Summary  Summary
}

// Summary holds the run aggregates. Every number here is derived by
// counting or grouping the tagged table, with no side-channel state, so
// downstream report sheets can re-derive and cross-check each figure.
type Summary struct {
	RoleCounts            map[model.RoleLabel]int
	PriceBandCounts       map[string]int
	RejectReasons         map[model.RejectReason]int
	InputRows             int
	TotalSKUCount         int
	DuplicateCount        int
	MultiSpecProductCount int
	MultiSpecSKUCount     int
	ActiveSKUCount        int
	RejectedCount         int
	ActiveRate            float64
	TotalRevenue          float64
}

// summarize computes the aggregates from the tagged table. Only canonical
// rows count: duplicates are present in the table for conservation but must
// never inflate totals.
func (e *Engine) summarize(catalog model.Catalog, tagged []model.TaggedSKU, rejected []model.RejectedRow) Summary {
	s := Summary{
		RoleCounts:      make(map[model.RoleLabel]int),
		PriceBandCounts: make(map[string]int),
		RejectReasons:   make(map[model.RejectReason]int),
		InputRows:       len(catalog.Rows),
		RejectedCount:   len(rejected),
	}

	multiFamilies := make(map[familyID]bool)
	for _, sku := range tagged {
		if !sku.CanonicalRow {
			s.DuplicateCount++
			continue
		}
		s.TotalSKUCount++
		s.TotalRevenue += sku.Revenue()
		s.RoleCounts[sku.Role]++
		s.PriceBandCounts[role.PriceBand(sku.Price, e.bandBounds)]++
		if sku.SalesQty > 0 {
			s.ActiveSKUCount++
		}
		if sku.IsMultiSpec {
			s.MultiSpecSKUCount++
			multiFamilies[familyID{sku.TopCategory(), sku.FamilyKey}] = true
		}
	}
	s.MultiSpecProductCount = len(multiFamilies)

	if s.TotalSKUCount > 0 {
		s.ActiveRate = float64(s.ActiveSKUCount) / float64(s.TotalSKUCount)
	}
	for _, r := range rejected {
		s.RejectReasons[r.Reason]++
	}

	return s
}
