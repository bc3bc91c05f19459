package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/shelfscope/shelfscope/internal/cli"
	"github.com/shelfscope/shelfscope/internal/common"
	"github.com/shelfscope/shelfscope/internal/ingest"
)

func importCmd() *cobra.Command {
	var store string

	cmd := &cobra.Command{
		Use:   "import <catalog.csv>",
		Short: "Import a store catalog export",
		Long: `Import reads a raw catalog CSV export, resolves its column headers
against the alias table, and stores the snapshot for analysis. Re-importing
a store replaces its previous snapshot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			if store == "" {
				store = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}

			resolver, err := columnResolver()
			if err != nil {
				return fmt.Errorf("failed to build column resolver: %w", err)
			}

			catalog, err := ingest.ReadCSV(path, store, resolver)
			if err != nil {
				return fmt.Errorf("failed to read catalog: %w", err)
			}
			common.LogInfo("Read catalog export", common.Fields{
				"store": store,
				"rows":  len(catalog.Rows),
			})

			storage, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = storage.Close() }()

			bar := progressbar.NewOptions(len(catalog.Rows),
				progressbar.OptionSetDescription("Importing rows"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			if err := storage.SaveCatalog(ctx, catalog, func() { _ = bar.Add(1) }); err != nil {
				return fmt.Errorf("failed to save catalog: %w", err)
			}
			_ = bar.Finish()

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("Imported %d rows for store %q", len(catalog.Rows), store)))
			return nil
		},
	}

	cmd.Flags().StringVar(&store, "store", "", "store name (default: CSV file name)")

	return cmd
}
