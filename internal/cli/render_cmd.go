package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LilianBoulard/FrenchBirthRates2019/internal/charts"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render every chart variant to PNG files",
		Long:  "Loads the dataset, builds the summary tables and writes one PNG per chart variant into the output directory.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd)
			if err != nil {
				return err
			}

			summary, departments, err := loadSummary(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			catalog := charts.Catalog(summary, departments)
			for _, figure := range catalog {
				p, err := figure.Build()
				if err != nil {
					return fmt.Errorf("building %s figure: %w", figure.Key, err)
				}

				name := strings.ReplaceAll(figure.Key, ":", "_") + ".png"
				path := filepath.Join(outDir, name)
				if err := charts.SavePNG(p, figure.Width, figure.Height, path); err != nil {
					return fmt.Errorf("saving %s: %w", name, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d figures to %s\n", len(catalog), outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "charts", "Output directory for the rendered figures")

	return cmd
}
