package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shelfscope/shelfscope/internal/cli"
	"github.com/shelfscope/shelfscope/internal/common"
)

func familiesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "families <store>",
		Short: "List multi-spec product families from the latest run",
		Long: `Families lists the product families that carry more than one spec
variant in the store's most recent analysis run, largest first. The listing
is re-derived from the stored tagged table, so it always agrees with the
run summary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store := args[0]

			storage, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = storage.Close() }()

			run, err := storage.GetLatestRun(ctx, store)
			if err != nil {
				return common.NewUserError(
					fmt.Sprintf("no analysis run for store %q, run 'shelfscope analyze' first", store), err)
			}

			families, err := storage.GetMultiSpecFamilies(ctx, run.ID)
			if err != nil {
				return fmt.Errorf("failed to load families: %w", err)
			}

			fmt.Fprintln(os.Stdout, cli.TitleStyle.Render(
				fmt.Sprintf("Multi-spec families: %s (run %d, %s)",
					store, run.ID, run.CreatedAt.Format("2006-01-02 15:04"))))

			if len(families) == 0 {
				fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render("no multi-spec families found"))
				return nil
			}

			shown := 0
			for _, f := range families {
				if limit > 0 && shown >= limit {
					fmt.Fprintln(os.Stdout, cli.SubtleStyle.Render(
						fmt.Sprintf("... and %d more", len(families)-shown)))
					break
				}
				fmt.Fprintf(os.Stdout, "%s %s\n",
					cli.ValueStyle.Render(f.FamilyKey),
					cli.SubtleStyle.Render(fmt.Sprintf("[%s] %d SKUs, %d specs",
						f.TopCategory, f.SKUCount, f.SpecCount)))
				shown++
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum families to list (0 for all)")

	return cmd
}
