package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shelfscope/shelfscope/internal/common"
	"github.com/shelfscope/shelfscope/internal/model"
)

// CatalogInfo describes one stored catalog snapshot.
type CatalogInfo struct {
	ImportedAt time.Time
	Store      string
	RowCount   int
}

// SaveCatalog stores a catalog snapshot, replacing any previous snapshot
// for the same store. The optional progress callback is invoked once per
// row saved.
func (s *SQLiteStorage) SaveCatalog(ctx context.Context, catalog model.Catalog, progress func()) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(catalog.Store, "store"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_rows WHERE store = ?`, catalog.Store); err != nil {
		return fmt.Errorf("failed to clear previous rows: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO catalogs (store, row_count, imported_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(store) DO UPDATE SET row_count = excluded.row_count, imported_at = CURRENT_TIMESTAMP
	`, catalog.Store, len(catalog.Rows)); err != nil {
		return fmt.Errorf("failed to upsert catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog_rows (
			store, row_index, name, spec, barcode,
			price, original_price, sales_qty, stock, category_path
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range catalog.Rows {
		path, err := json.Marshal(row.CategoryPath)
		if err != nil {
			return fmt.Errorf("failed to marshal category path: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			catalog.Store, i, row.Name, row.Spec, row.Barcode,
			nullable(row.Price), nullable(row.OriginalPrice),
			nullable(row.SalesQty), nullable(row.Stock), string(path),
		); err != nil {
			return fmt.Errorf("failed to save row %d: %w", i, err)
		}
		if progress != nil {
			progress()
		}
	}

	return tx.Commit()
}

// GetCatalog loads the stored snapshot for a store.
func (s *SQLiteStorage) GetCatalog(ctx context.Context, store string) (model.Catalog, error) {
	if err := validateContext(ctx); err != nil {
		return model.Catalog{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, spec, barcode, price, original_price, sales_qty, stock, category_path
		FROM catalog_rows WHERE store = ? ORDER BY row_index
	`, store)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("failed to query catalog rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	catalog := model.Catalog{Store: store}
	for rows.Next() {
		var (
			row                        model.RawRow
			price, orig, sales, stock  sql.NullFloat64
			name, spec, barcode, jpath sql.NullString
		)
		if err := rows.Scan(&name, &spec, &barcode, &price, &orig, &sales, &stock, &jpath); err != nil {
			return model.Catalog{}, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		row.Name = name.String
		row.Spec = spec.String
		row.Barcode = barcode.String
		row.Price = fromNull(price)
		row.OriginalPrice = fromNull(orig)
		row.SalesQty = fromNull(sales)
		row.Stock = fromNull(stock)
		if jpath.Valid && jpath.String != "" {
			if err := json.Unmarshal([]byte(jpath.String), &row.CategoryPath); err != nil {
				return model.Catalog{}, fmt.Errorf("failed to unmarshal category path: %w", err)
			}
		}
		catalog.Rows = append(catalog.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return model.Catalog{}, fmt.Errorf("failed to iterate catalog rows: %w", err)
	}
	if len(catalog.Rows) == 0 {
		return model.Catalog{}, fmt.Errorf("catalog for store %q: %w", store, common.ErrNotFound)
	}
	return catalog, nil
}

// ListCatalogs returns the stored snapshots, most recent first.
func (s *SQLiteStorage) ListCatalogs(ctx context.Context) ([]CatalogInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT store, row_count, imported_at FROM catalogs ORDER BY imported_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalogs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var infos []CatalogInfo
	for rows.Next() {
		var info CatalogInfo
		if err := rows.Scan(&info.Store, &info.RowCount, &info.ImportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan catalog info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func nullable(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func fromNull(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
