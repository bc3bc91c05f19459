package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/shelfscope/shelfscope/internal/engine"
	"github.com/shelfscope/shelfscope/internal/model"
)

// roleOrder fixes the display order of role labels.
var roleOrder = []model.RoleLabel{
	model.RoleTrafficDriver,
	model.RoleProfitItem,
	model.RoleImageItem,
	model.RoleUnderperformer,
	model.RoleUnclassified,
}

// RenderSummary writes a styled run summary.
func RenderSummary(w io.Writer, store string, regionLabel model.RegionLabel, s engine.Summary) {
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("Store analysis: %s", store)))

	line := func(label string, value string) {
		fmt.Fprintf(w, "%s %s\n", LabelStyle.Render(label), ValueStyle.Render(value))
	}

	line("Region", string(regionLabel))
	line("Input rows", fmt.Sprintf("%d", s.InputRows))
	line("SKUs (deduplicated)", fmt.Sprintf("%d", s.TotalSKUCount))
	line("Duplicate rows dropped", fmt.Sprintf("%d", s.DuplicateCount))
	line("Rejected rows", fmt.Sprintf("%d", s.RejectedCount))
	line("Multi-spec products", fmt.Sprintf("%d", s.MultiSpecProductCount))
	line("Multi-spec SKUs", fmt.Sprintf("%d", s.MultiSpecSKUCount))
	line("Active SKUs", fmt.Sprintf("%d (%.1f%%)", s.ActiveSKUCount, s.ActiveRate*100))
	line("Total revenue", fmt.Sprintf("¥%.2f", s.TotalRevenue))

	if len(s.RoleCounts) > 0 {
		fmt.Fprintln(w, TitleStyle.Render("Roles"))
		for _, role := range roleOrder {
			if count, ok := s.RoleCounts[role]; ok {
				line(string(role), fmt.Sprintf("%d", count))
			}
		}
	}

	if len(s.PriceBandCounts) > 0 {
		fmt.Fprintln(w, TitleStyle.Render("Price bands"))
		for _, band := range sortedKeys(s.PriceBandCounts) {
			line(band, fmt.Sprintf("%d", s.PriceBandCounts[band]))
		}
	}

	if len(s.RejectReasons) > 0 {
		fmt.Fprintln(w, WarningStyle.Render("Rejected rows by reason:"))
		for reason, count := range s.RejectReasons {
			fmt.Fprintf(w, "  %s %s\n", SubtleStyle.Render(string(reason)), fmt.Sprintf("%d", count))
		}
	}
}

// RenderFamilies writes a multi-spec family listing.
func RenderFamilies(w io.Writer, families []model.Family, limit int) {
	fmt.Fprintln(w, TitleStyle.Render("Multi-spec product families"))
	shown := 0
	for _, f := range families {
		if !f.IsMultiSpec {
			continue
		}
		if limit > 0 && shown >= limit {
			fmt.Fprintln(w, SubtleStyle.Render("..."))
			break
		}
		fmt.Fprintf(w, "%s %s\n",
			ValueStyle.Render(f.Key),
			SubtleStyle.Render(fmt.Sprintf("[%s] %d SKUs, %d specs", f.TopCategory, f.Size(), f.SpecCount)))
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(w, SubtleStyle.Render("no multi-spec families found"))
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
