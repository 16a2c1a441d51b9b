// Package cli implements the births command line tool: the same load
// pipeline as the dashboard server, driving batch chart rendering and
// workbook export instead of an HTTP listener.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LilianBoulard/FrenchBirthRates2019/internal/config"
	"github.com/LilianBoulard/FrenchBirthRates2019/internal/models"
	"github.com/LilianBoulard/FrenchBirthRates2019/internal/services"
)

// Execute runs the CLI.
func Execute() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

type rootOptions struct {
	birthsFile     string
	boundariesFile string
	year           int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "births",
		Short:         "Birth statistics toolkit for the 2019 INSEE records",
		Long:          "Loads the birth records and department boundaries, computes the summary tables and renders or exports them without starting the dashboard server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.birthsFile, "births-file", "", "Path to the births CSV file (overrides BIRTHS_DATA_BIRTHS_FILE)")
	rootCmd.PersistentFlags().StringVar(&opts.boundariesFile, "boundaries-file", "", "Path to a local boundaries GeoJSON file (skips the network fetch)")
	rootCmd.PersistentFlags().IntVar(&opts.year, "year", 0, "Reference year (overrides BIRTHS_DATA_YEAR)")

	rootCmd.AddCommand(newRenderCmd(opts))
	rootCmd.AddCommand(newExportCmd(opts))

	return rootCmd
}

// loadConfig resolves the effective configuration: environment first,
// then any flag set explicitly.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("births-file") {
		cfg.Data.BirthsFile = o.birthsFile
	}
	if cmd.Flags().Changed("boundaries-file") {
		cfg.Data.BoundariesFile = o.boundariesFile
	}
	if cmd.Flags().Changed("year") {
		cfg.Data.Year = o.year
	}

	return cfg, nil
}

// loadSummary runs the full load pipeline shared by the subcommands.
func loadSummary(ctx context.Context, cfg *config.Config) (*models.Summary, []models.Department, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Logging.SlogLevel()}))

	birthsService := services.NewBirthsService(cfg.Data.BirthsPath(), logger)
	if err := birthsService.Load(); err != nil {
		return nil, nil, fmt.Errorf("loading births: %w", err)
	}

	geoService := services.NewGeoService(cfg.Data.BoundariesURL, cfg.Data.BoundariesPath(), cfg.Data.FetchTimeout, logger)
	departments, err := geoService.LoadDepartments(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading boundaries: %w", err)
	}

	statsService := services.NewStatsService(birthsService.Records(), cfg.Data.Year)
	return statsService.BuildSummary(departments), departments, nil
}
