package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shelfscope/shelfscope/internal/cli"
	"github.com/shelfscope/shelfscope/internal/common"
	"github.com/shelfscope/shelfscope/internal/engine"
	"github.com/shelfscope/shelfscope/internal/ingest"
	"github.com/shelfscope/shelfscope/internal/model"
)

func analyzeCmd() *cobra.Command {
	var (
		file         string
		noSave       bool
		showFamilies int
	)

	cmd := &cobra.Command{
		Use:   "analyze <store>",
		Short: "Analyze a store catalog",
		Long: `Analyze runs the full classification pipeline over a store's catalog:
family resolution, spec extraction, deduplication, role classification and
region assignment. The catalog comes from a previously imported snapshot,
or directly from a CSV file with --file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store := args[0]

			eng, err := engine.New(engineConfig())
			if err != nil {
				return fmt.Errorf("failed to build engine: %w", err)
			}

			var catalog model.Catalog
			if file != "" {
				resolver, err := columnResolver()
				if err != nil {
					return fmt.Errorf("failed to build column resolver: %w", err)
				}
				catalog, err = ingest.ReadCSV(file, store, resolver)
				if err != nil {
					return fmt.Errorf("failed to read catalog: %w", err)
				}
			}

			storage, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = storage.Close() }()

			if file == "" {
				catalog, err = storage.GetCatalog(ctx, store)
				if err != nil {
					return common.NewUserError(
						fmt.Sprintf("no imported catalog for store %q, run 'shelfscope import' first", store), err)
				}
			}

			result, err := eng.Analyze(ctx, catalog)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			cli.RenderSummary(os.Stdout, result.Store, result.Region, result.Summary)
			if showFamilies > 0 {
				cli.RenderFamilies(os.Stdout, result.Families, showFamilies)
			}

			if noSave {
				return nil
			}
			runID, err := storage.SaveRun(ctx, result)
			if err != nil {
				return fmt.Errorf("failed to save run: %w", err)
			}
			slog.Info("Saved analysis run", "run_id", runID, "store", store)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "analyze a CSV file directly instead of a stored snapshot")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "print the summary without persisting the run")
	cmd.Flags().IntVar(&showFamilies, "families", 0, "also list up to N multi-spec families (0 disables)")

	return cmd
}
