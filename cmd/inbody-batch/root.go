package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/inbody-tracker/internal/common"
	"github.com/joseph-ayodele/inbody-tracker/internal/entity"
	"github.com/joseph-ayodele/inbody-tracker/internal/export"
	"github.com/joseph-ayodele/inbody-tracker/internal/llm/openai"
	"github.com/joseph-ayodele/inbody-tracker/internal/pipeline"
	"github.com/joseph-ayodele/inbody-tracker/internal/repository"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	var (
		force      bool
		exportJSON bool
		exportOnly bool
		exportDir  string
		xlsxPath   string
	)

	cmd := &cobra.Command{
		Use:   "inbody-batch FOLDER",
		Short: "Extract InBody scan data from a folder of photos into SQLite",
		Long: `inbody-batch walks a folder of InBody scan photos, extracts the printed
measurements with a vision model and stores the normalized results in a
local SQLite database. Files whose content was already processed
successfully are skipped on later runs, so pointing it at the same folder
twice is cheap.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args[0], force, exportJSON, exportOnly, exportDir, xlsxPath)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "reprocess images even when a cached result exists")
	cmd.Flags().BoolVar(&exportJSON, "export", false, "export results to JSON after processing")
	cmd.Flags().BoolVar(&exportOnly, "export-only", false, "only export existing results, do not process images")
	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "directory for the JSON export")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "also export results to an XLSX workbook at this path")
	return cmd
}

func runBatch(cmd *cobra.Command, folder string, force, exportJSON, exportOnly bool, exportDir, xlsxPath string) error {
	_ = godotenv.Load()
	cfg := common.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.OpenDatabase(cfg.Database.Path, logger)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.Database.Path, "error", err)
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	store := repository.NewScanStore(db, logger)
	exporter := export.NewService(store, logger)
	out := cmd.OutOrStdout()

	if !exportOnly {
		if err := cfg.Validate(); err != nil {
			logger.Error("invalid configuration", "error", err)
			return err
		}

		client := openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Timeout:     cfg.LLM.Timeout,
			LocaleHint:  cfg.LLM.LocaleHint,
		}, logger)

		proc := pipeline.NewProcessor(store, client, logger)
		stats, err := proc.ProcessFolder(ctx, folder, force)
		if err != nil {
			logger.Error("batch processing failed", "error", err)
			return err
		}
		printRunSummary(out, stats)

		if storeStats, err := store.GetStats(ctx); err == nil {
			printStoreStats(cmd, storeStats)
		}
	}

	if exportJSON || exportOnly {
		path, n, err := exporter.ExportJSONFile(ctx, exportDir, nil, nil)
		if err != nil {
			logger.Error("json export failed", "error", err)
			return err
		}
		fmt.Fprintf(out, "Results exported to %s (%d records)\n", path, n)
	}

	if xlsxPath != "" {
		b, err := exporter.ExportXLSX(ctx, nil, nil)
		if err != nil {
			logger.Error("xlsx export failed", "error", err)
			return err
		}
		if err := os.WriteFile(xlsxPath, b, 0o644); err != nil {
			logger.Error("xlsx write failed", "path", xlsxPath, "error", err)
			return err
		}
		fmt.Fprintf(out, "Spreadsheet written to %s\n", xlsxPath)
	}

	return nil
}

func printRunSummary(out io.Writer, stats entity.RunStats) {
	fmt.Fprintf(out, "\nBatch processing complete!\n")
	fmt.Fprintf(out, "- Total files:      %d\n", stats.TotalFiles)
	fmt.Fprintf(out, "- Succeeded:        %d\n", stats.Succeeded)
	fmt.Fprintf(out, "- Failed:           %d\n", stats.Failed)
	fmt.Fprintf(out, "- Skipped (cached): %d\n", stats.Skipped)
}

func printStoreStats(cmd *cobra.Command, stats *entity.StoreStats) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Store Metric", "Count"})
	t.AppendRow(table.Row{"Processed images", stats.TotalProcessed})
	t.AppendRow(table.Row{"Successful", stats.Succeeded})
	t.AppendRow(table.Row{"Failed", stats.Failed})
	t.AppendRow(table.Row{"Scan results", stats.TotalResults})
	t.Render()
}
