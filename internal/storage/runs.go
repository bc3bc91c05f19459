package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shelfscope/shelfscope/internal/common"
	"github.com/shelfscope/shelfscope/internal/engine"
	"github.com/shelfscope/shelfscope/internal/model"
)

// RunInfo is the stored header of one analysis run.
type RunInfo struct {
	CreatedAt time.Time
	Store     string
	Region    model.RegionLabel
	Summary   engine.Summary
	ID        int64
}

// FamilyRow is one multi-spec family as read back from a stored run.
type FamilyRow struct {
	FamilyKey   string
	TopCategory string
	SKUCount    int
	SpecCount   int
}

// SaveRun persists a full analysis result and returns the run ID.
func (s *SQLiteStorage) SaveRun(ctx context.Context, result *engine.Result) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if result == nil {
		return 0, fmt.Errorf("result cannot be nil")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	roleCounts, err := json.Marshal(result.Summary.RoleCounts)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal role counts: %w", err)
	}
	bandCounts, err := json.Marshal(result.Summary.PriceBandCounts)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal price band counts: %w", err)
	}
	reasons, err := json.Marshal(result.Summary.RejectReasons)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal reject reasons: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (
			store, region, input_rows, total_sku_count, duplicate_count,
			multi_spec_product_count, multi_spec_sku_count, active_sku_count,
			rejected_count, active_rate, total_revenue,
			role_counts, price_band_counts, reject_reasons
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		result.Store, string(result.Region),
		result.Summary.InputRows, result.Summary.TotalSKUCount, result.Summary.DuplicateCount,
		result.Summary.MultiSpecProductCount, result.Summary.MultiSpecSKUCount, result.Summary.ActiveSKUCount,
		result.Summary.RejectedCount, result.Summary.ActiveRate, result.Summary.TotalRevenue,
		string(roleCounts), string(bandCounts), string(reasons),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	if err := saveTaggedTx(ctx, tx, runID, result.Tagged); err != nil {
		return 0, err
	}
	if err := saveRejectedTx(ctx, tx, runID, result.Rejected); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

func saveTaggedTx(ctx context.Context, tx *sql.Tx, runID int64, tagged []model.TaggedSKU) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tagged_skus (
			run_id, row_index, name, spec, barcode,
			price, original_price, sales_qty, stock, category_path,
			family_key, signature, is_multi_spec, canonical_row, role, scenarios
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, sku := range tagged {
		scenarios, err := json.Marshal(sku.Scenarios)
		if err != nil {
			return fmt.Errorf("failed to marshal scenarios: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			runID, sku.RowIndex, sku.Name, sku.Spec, sku.Barcode,
			sku.Price, sku.OriginalPrice, sku.SalesQty, sku.Stock,
			strings.Join(sku.CategoryPath, " > "),
			sku.FamilyKey, sku.Signature.String(),
			sku.IsMultiSpec, sku.CanonicalRow, string(sku.Role), string(scenarios),
		); err != nil {
			return fmt.Errorf("failed to save tagged SKU %d: %w", sku.RowIndex, err)
		}
	}
	return nil
}

func saveRejectedTx(ctx context.Context, tx *sql.Tx, runID int64, rejected []model.RejectedRow) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO rejected_rows (run_id, row_index, name, reason) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range rejected {
		if _, err := stmt.ExecContext(ctx, runID, row.RowIndex, row.Row.Name, string(row.Reason)); err != nil {
			return fmt.Errorf("failed to save rejected row %d: %w", row.RowIndex, err)
		}
	}
	return nil
}

// GetLatestRun returns the most recent run for a store.
func (s *SQLiteStorage) GetLatestRun(ctx context.Context, store string) (*RunInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	info := &RunInfo{}
	var roleCounts, bandCounts, reasons string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, store, region, input_rows, total_sku_count, duplicate_count,
			multi_spec_product_count, multi_spec_sku_count, active_sku_count,
			rejected_count, active_rate, total_revenue,
			role_counts, price_band_counts, reject_reasons, created_at
		FROM runs WHERE store = ? ORDER BY created_at DESC, id DESC LIMIT 1
	`, store).Scan(
		&info.ID, &info.Store, &info.Region,
		&info.Summary.InputRows, &info.Summary.TotalSKUCount, &info.Summary.DuplicateCount,
		&info.Summary.MultiSpecProductCount, &info.Summary.MultiSpecSKUCount, &info.Summary.ActiveSKUCount,
		&info.Summary.RejectedCount, &info.Summary.ActiveRate, &info.Summary.TotalRevenue,
		&roleCounts, &bandCounts, &reasons, &info.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run for store %q: %w", store, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}

	if err := json.Unmarshal([]byte(roleCounts), &info.Summary.RoleCounts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal role counts: %w", err)
	}
	if err := json.Unmarshal([]byte(bandCounts), &info.Summary.PriceBandCounts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal price band counts: %w", err)
	}
	if err := json.Unmarshal([]byte(reasons), &info.Summary.RejectReasons); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reject reasons: %w", err)
	}
	return info, nil
}

// GetMultiSpecFamilies re-derives the multi-spec family listing from the
// stored tagged table. Only canonical rows count, which keeps this view in
// agreement with the run summary by construction.
func (s *SQLiteStorage) GetMultiSpecFamilies(ctx context.Context, runID int64) ([]FamilyRow, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	// Families are scoped by top-level category only; grouping by the full
	// stored path would split a family whose variants sit in different
	// sub-categories.
	rows, err := s.db.QueryContext(ctx, `
		SELECT family_key,
			CASE WHEN instr(category_path, ' > ') > 0
				THEN substr(category_path, 1, instr(category_path, ' > ') - 1)
				ELSE category_path
			END AS top_category,
			COUNT(*), COUNT(DISTINCT signature)
		FROM tagged_skus
		WHERE run_id = ? AND canonical_row = 1 AND is_multi_spec = 1
		GROUP BY family_key, top_category
		ORDER BY COUNT(*) DESC, family_key
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var families []FamilyRow
	for rows.Next() {
		var f FamilyRow
		if err := rows.Scan(&f.FamilyKey, &f.TopCategory, &f.SKUCount, &f.SpecCount); err != nil {
			return nil, fmt.Errorf("failed to scan family row: %w", err)
		}
		families = append(families, f)
	}
	return families, rows.Err()
}

// GetRoleCounts recounts role labels from the stored tagged table.
func (s *SQLiteStorage) GetRoleCounts(ctx context.Context, runID int64) (map[model.RoleLabel]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT role, COUNT(*) FROM tagged_skus
		WHERE run_id = ? AND canonical_row = 1
		GROUP BY role
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query role counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[model.RoleLabel]int)
	for rows.Next() {
		var role string
		var count int
		if err := rows.Scan(&role, &count); err != nil {
			return nil, fmt.Errorf("failed to scan role count: %w", err)
		}
		counts[model.RoleLabel(role)] = count
	}
	return counts, rows.Err()
}
