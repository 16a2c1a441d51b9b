package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LilianBoulard/FrenchBirthRates2019/internal/export"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var outFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every summary table to an xlsx workbook",
		Long:  "Loads the dataset, builds the summary tables and writes them as one workbook sheet per table.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			summary, _, err := loadSummary(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if err := export.Save(summary, outFile); err != nil {
				return fmt.Errorf("export: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported summary tables to %s\n", outFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&outFile, "out", "births-2019.xlsx", "Output workbook path")

	return cmd
}
