package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/shelfscope/shelfscope/internal/engine"
	"github.com/shelfscope/shelfscope/internal/ingest"
	"github.com/shelfscope/shelfscope/internal/storage"
)

// openStorage opens (and migrates) the configured database.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "shelfscope", "shelfscope.db")
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// engineConfig builds the analysis config from defaults plus any overrides
// in the config file.
func engineConfig() engine.Config {
	cfg := engine.DefaultConfig()

	if viper.IsSet("role.min_peer_size") {
		cfg.Role.MinPeerSize = viper.GetInt("role.min_peer_size")
	}
	if viper.IsSet("role.split_quantile") {
		cfg.Role.SplitQuantile = viper.GetFloat64("role.split_quantile")
	}
	if viper.IsSet("catalog.excluded_categories") {
		cfg.ExcludedCategories = viper.GetStringSlice("catalog.excluded_categories")
	}
	if viper.IsSet("analysis.max_parallel") {
		cfg.MaxParallel = viper.GetInt("analysis.max_parallel")
	}
	return cfg
}

// columnResolver builds the header alias resolver, letting the config file
// extend the stock alias table per canonical column.
func columnResolver() (*ingest.ColumnResolver, error) {
	aliases := ingest.DefaultAliases()
	if viper.IsSet("columns.aliases") {
		for name, extra := range viper.GetStringMapStringSlice("columns.aliases") {
			col := ingest.Column(name)
			aliases[col] = append(extra, aliases[col]...)
		}
	}
	return ingest.NewColumnResolver(aliases)
}
