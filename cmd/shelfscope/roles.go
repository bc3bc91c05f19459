package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shelfscope/shelfscope/internal/cli"
	"github.com/shelfscope/shelfscope/internal/common"
	"github.com/shelfscope/shelfscope/internal/model"
)

func rolesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles <store>",
		Short: "Show the role distribution from the latest run",
		Long: `Roles recounts the commercial role labels from the stored tagged table
of the store's most recent analysis run. Only canonical rows are counted,
so the figures match the run summary.`,
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

			counts, err := storage.GetRoleCounts(ctx, run.ID)
			if err != nil {
				return fmt.Errorf("failed to load role counts: %w", err)
			}

			fmt.Fprintln(os.Stdout, cli.TitleStyle.Render(
				fmt.Sprintf("Role distribution: %s (run %d)", store, run.ID)))

			total := 0
			for _, c := range counts {
				total += c
			}
			for _, role := range []model.RoleLabel{
				model.RoleTrafficDriver,
				model.RoleProfitItem,
				model.RoleImageItem,
				model.RoleUnderperformer,
				model.RoleUnclassified,
			} {
				count, ok := counts[role]
				if !ok {
					continue
				}
				share := 0.0
				if total > 0 {
					share = float64(count) / float64(total) * 100
				}
				fmt.Fprintf(os.Stdout, "%s %s\n",
					cli.LabelStyle.Render(string(role)),
					cli.ValueStyle.Render(fmt.Sprintf("%d (%.1f%%)", count, share)))
			}
			return nil
		},
	}

	return cmd
}
