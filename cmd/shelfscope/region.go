package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shelfscope/shelfscope/internal/cli"
	"github.com/shelfscope/shelfscope/internal/region"
)

func regionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "region <store-name>...",
		Short: "Classify store names as urban or county",
		Long: `Region resolves each store name to an urban or county label using the
place-name lists and keyword rules, without touching the database. Useful
for checking how a store will be bucketed before importing it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			classifier, err := region.New(region.DefaultConfig())
			if err != nil {
				return fmt.Errorf("failed to build region classifier: %w", err)
			}

			for _, name := range args {
				fmt.Fprintf(os.Stdout, "%s %s\n",
					cli.LabelStyle.Render(name),
					cli.ValueStyle.Render(string(classifier.Classify(name))))
			}
			return nil
		},
	}

	return cmd
}
