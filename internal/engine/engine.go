// Package engine implements the catalog analysis pipeline: validate rows,
// derive family keys and spec signatures, group into families, reconcile to
// the canonical deduplicated view, and classify commercial roles.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/shelfscope/shelfscope/internal/common"
	"github.com/shelfscope/shelfscope/internal/family"
	"github.com/shelfscope/shelfscope/internal/model"
	"github.com/shelfscope/shelfscope/internal/normalize"
	"github.com/shelfscope/shelfscope/internal/reconcile"
	"github.com/shelfscope/shelfscope/internal/region"
	"github.com/shelfscope/shelfscope/internal/role"
)

// Config holds every tunable of an analysis run.
type Config struct {
	Normalizer normalize.Config
	Role       role.Config
	Region     region.Config
	// ScenarioRules drive the consumption-scenario keyword tagging.
	ScenarioRules []region.LabelRule
	// ExcludedCategories are top-level categories routed straight to the
	// rejected side-list (store-management pseudo products and the like).
	ExcludedCategories []string
	// PriceBandBounds are the ascending band edges for the summary.
	PriceBandBounds []float64
	// MaxParallel bounds the per-category classification workers.
	// Zero means GOMAXPROCS.
	MaxParallel int
}

// DefaultConfig returns the stock analysis configuration.
func DefaultConfig() Config {
	return Config{
		Normalizer:         normalize.DefaultConfig(),
		Role:               role.DefaultConfig(),
		Region:             region.DefaultConfig(),
		ScenarioRules:      region.DefaultScenarioRules(),
		ExcludedCategories: []string{"店铺管理"},
		PriceBandBounds:    role.DefaultBandBounds,
	}
}

// Engine runs analyses. One engine is constructed per run configuration;
// it holds no state between runs and never mutates its input catalog.
type Engine struct {
	normalizer *normalize.Normalizer
	roles      *role.Classifier
	regions    *region.Classifier
	scenarios  *region.KeywordLabeler
	excluded   map[string]bool
	bandBounds []float64
	parallel   int
}

// New validates the config and builds an engine. Configuration problems are
// the one class of error that fails before any row is processed.
func New(cfg Config) (*Engine, error) {
	normalizer, err := normalize.New(cfg.Normalizer)
	if err != nil {
		return nil, fmt.Errorf("failed to build normalizer: %w", err)
	}
	roles, err := role.New(cfg.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to build role classifier: %w", err)
	}
	regions, err := region.New(cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("failed to build region classifier: %w", err)
	}

	excluded := make(map[string]bool, len(cfg.ExcludedCategories))
	for _, c := range cfg.ExcludedCategories {
		excluded[strings.TrimSpace(c)] = true
	}

	parallel := cfg.MaxParallel
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}

	return &Engine{
		normalizer: normalizer,
		roles:      roles,
		regions:    regions,
		scenarios:  region.NewKeywordLabeler(cfg.ScenarioRules),
		excluded:   excluded,
		bandBounds: cfg.PriceBandBounds,
		parallel:   parallel,
	}, nil
}

// Analyze runs the full pipeline over one catalog snapshot. The result is a
// pure function of the snapshot: rerunning on unchanged input yields the
// same tagged table, families and summary.
func (e *Engine) Analyze(ctx context.Context, catalog model.Catalog) (*Result, error) {
	if len(catalog.Rows) == 0 {
		return nil, common.ErrEmptyCatalog
	}

	slog.Info("Starting catalog analysis",
		"store", catalog.Store,
		"rows", len(catalog.Rows))

	valid, rejected := e.validateRows(catalog)
	slog.Info("Row validation complete",
		"valid", len(valid),
		"rejected", len(rejected))

	for i := range valid {
		valid[i].FamilyKey = e.normalizer.BaseName(valid[i].Name)
		valid[i].Signature = e.normalizer.ExtractSpec(valid[i].Name, valid[i].Spec)
		valid[i].Scenarios = e.scenarios.Labels(valid[i].Name + " " + valid[i].TopCategory())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kept, duplicates := reconcile.Dedup(valid)
	if len(duplicates) > 0 {
		slog.Info("Deduplicated catalog rows",
			"kept", len(kept),
			"duplicates", len(duplicates))
	}

	families := family.Group(kept)
	multiSpec := make(map[familyID]bool, len(families))
	for _, f := range families {
		multiSpec[familyID{f.TopCategory, f.Key}] = f.IsMultiSpec
	}
	for i := range kept {
		kept[i].IsMultiSpec = multiSpec[familyID{kept[i].TopCategory(), kept[i].FamilyKey}]
	}

	if err := e.classifyRoles(ctx, kept); err != nil {
		return nil, err
	}

	// Duplicates mirror the tags of the canonical row they stand behind.
	tags := make(map[model.DedupKey]*model.TaggedSKU, len(kept))
	for i := range kept {
		tags[kept[i].Identity()] = &kept[i]
	}
	for i := range duplicates {
		if canonical, ok := tags[duplicates[i].Identity()]; ok {
			duplicates[i].IsMultiSpec = canonical.IsMultiSpec
			duplicates[i].Role = canonical.Role
		}
	}

	// Families need the flags and roles written back after classification.
	families = family.Group(kept)

	tagged := reconcile.CanonicalOrder(append(kept, duplicates...))

	result := &Result{
		Store:    catalog.Store,
		Region:   e.regions.Classify(catalog.Store),
		Tagged:   tagged,
		Families: families,
		Rejected: rejected,
		Summary:  e.summarize(catalog, tagged, rejected),
	}

	slog.Info("Catalog analysis complete",
		"store", catalog.Store,
		"sku_count", result.Summary.TotalSKUCount,
		"multi_spec_products", result.Summary.MultiSpecProductCount,
		"rejected", len(rejected))

	return result, nil
}

type familyID struct {
	topCategory string
	key         string
}

// validateRows types each raw row, routing malformed rows to the rejected
// side-list with a reason code instead of dropping them.
func (e *Engine) validateRows(catalog model.Catalog) ([]model.TaggedSKU, []model.RejectedRow) {
	valid := make([]model.TaggedSKU, 0, len(catalog.Rows))
	var rejected []model.RejectedRow

	reject := func(i int, row model.RawRow, reason model.RejectReason) {
		rejected = append(rejected, model.RejectedRow{Row: row, Reason: reason, RowIndex: i})
	}

	for i, row := range catalog.Rows {
		switch {
		case strings.TrimSpace(row.Name) == "":
			reject(i, row, model.ReasonMissingName)
		case row.Price == nil:
			reject(i, row, model.ReasonMissingPrice)
		case *row.Price < 0:
			reject(i, row, model.ReasonInvalidPrice)
		case len(row.CategoryPath) > 0 && e.excluded[strings.TrimSpace(row.CategoryPath[0])]:
			reject(i, row, model.ReasonExcludedCategory)
		default:
			sku := model.SKU{
				Name:         strings.TrimSpace(row.Name),
				Spec:         strings.TrimSpace(row.Spec),
				Barcode:      strings.TrimSpace(row.Barcode),
				Store:        catalog.Store,
				CategoryPath: row.CategoryPath,
				Price:        *row.Price,
				RowIndex:     i,
			}
			if row.OriginalPrice != nil {
				sku.OriginalPrice = *row.OriginalPrice
			}
			// Absent or negative sales count as zero, not as an error.
			if row.SalesQty != nil && *row.SalesQty > 0 {
				sku.SalesQty = *row.SalesQty
			}
			if row.Stock != nil {
				sku.Stock = *row.Stock
			}
			valid = append(valid, model.TaggedSKU{SKU: sku})
		}
	}
	return valid, rejected
}

// classifyRoles assigns role labels per category peer set. Categories are
// independent partitions, so they are classified in parallel; each worker
// writes only to its own partition's rows.
func (e *Engine) classifyRoles(ctx context.Context, kept []model.TaggedSKU) error {
	byCategory := make(map[string][]int)
	for i := range kept {
		cat := kept[i].TopCategory()
		byCategory[cat] = append(byCategory[cat], i)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallel)

	for _, indexes := range byCategory {
		indexes := indexes
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			peers := make([]model.TaggedSKU, len(indexes))
			for i, idx := range indexes {
				peers[i] = kept[idx]
			}
			for _, idx := range indexes {
				kept[idx].Role = e.roles.Classify(&kept[idx], peers)
			}
			return nil
		})
	}
	return g.Wait()
}
