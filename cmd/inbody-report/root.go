package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/inbody-tracker/internal/common"
	"github.com/joseph-ayodele/inbody-tracker/internal/report"
	"github.com/joseph-ayodele/inbody-tracker/internal/repository"
	"github.com/joseph-ayodele/inbody-tracker/internal/utils"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	var (
		dbPath    string
		output    string
		startDate string
		endDate   string
		title     string
		listRange bool
	)

	cmd := &cobra.Command{
		Use:   "inbody-report",
		Short: "Generate a PDF progress report from tracked InBody scans",
		Long: `inbody-report reads the SQLite database produced by inbody-batch and
renders a PDF progress report with summary statistics, trend charts and
achievement insights.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, dbPath, output, startDate, endDate, title, listRange)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db-path", "inbody_results.db", "path to the scan results database")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PDF path (default inbody_report_<timestamp>.pdf)")
	cmd.Flags().StringVar(&startDate, "start-date", "", "include scans from this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&endDate, "end-date", "", "include scans up to this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&title, "title", "", "custom report title")
	cmd.Flags().BoolVar(&listRange, "list-data-range", false, "print the available data range and exit")
	return cmd
}

func runReport(cmd *cobra.Command, dbPath, output, startDate, endDate, title string, listRange bool) error {
	_ = godotenv.Load()
	cfg := common.LoadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		logger.Error("invalid date range", "error", err)
		return err
	}

	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = common.NewAppError("DB_NOT_FOUND", fmt.Sprintf("database file not found: %s", dbPath), common.ErrNotFound)
		}
		logger.Error("cannot open database", "path", dbPath, "error", err)
		return err
	}

	db, err := repository.OpenDatabase(dbPath, logger)
	if err != nil {
		logger.Error("failed to open database", "path", dbPath, "error", err)
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	store := repository.NewScanStore(db, logger)
	ctx := cmd.Context()

	if listRange {
		return printDataRange(cmd, store)
	}

	recs, err := store.GetResults(ctx, start, end)
	if err != nil {
		logger.Error("query results failed", "error", err)
		return err
	}

	pdfBytes, err := report.Generate(recs, report.Options{
		Title:      title,
		RangeStart: start,
		RangeEnd:   end,
	})
	if err != nil {
		logger.Error("report generation failed", "error", err)
		return err
	}

	if output == "" {
		output = fmt.Sprintf("inbody_report_%s.pdf", time.Now().Format("20060102_150405"))
	}
	if err := os.WriteFile(output, pdfBytes, 0o644); err != nil {
		logger.Error("report write failed", "path", output, "error", err)
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Report generated successfully!\n")
	fmt.Fprintf(out, "- Output file: %s\n", output)
	fmt.Fprintf(out, "- Scans included: %d\n", len(recs))
	stats := report.Summarize(recs)
	if stats.WeightDelta != nil {
		fmt.Fprintf(out, "- Weight change: %+.1f kg\n", *stats.WeightDelta)
	}
	if stats.BodyFatDelta != nil {
		fmt.Fprintf(out, "- Body fat change: %+.1f%%\n", *stats.BodyFatDelta)
	}
	if stats.MuscleDelta != nil {
		fmt.Fprintf(out, "- Muscle mass change: %+.1f kg\n", *stats.MuscleDelta)
	}
	return nil
}

func parseRange(startDate, endDate string) (*time.Time, *time.Time, error) {
	var start, end *time.Time
	if startDate != "" {
		t, err := utils.ParseYMD(startDate)
		if err != nil {
			return nil, nil, common.NewAppError("INVALID_DATE",
				fmt.Sprintf("invalid start date %q, expected YYYY-MM-DD", startDate), common.ErrInvalidInput)
		}
		start = &t
	}
	if endDate != "" {
		t, err := utils.ParseYMD(endDate)
		if err != nil {
			return nil, nil, common.NewAppError("INVALID_DATE",
				fmt.Sprintf("invalid end date %q, expected YYYY-MM-DD", endDate), common.ErrInvalidInput)
		}
		// The end bound is inclusive of its whole day, so a scan taken at
		// 10:30 on the end date still falls inside the range.
		t = t.Add(24*time.Hour - time.Second)
		end = &t
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, nil, common.NewAppError("INVALID_DATE_RANGE",
			"start date cannot be after end date", common.ErrInvalidInput)
	}
	return start, end, nil
}

func printDataRange(cmd *cobra.Command, store repository.ScanStore) error {
	dr, err := store.GetDataRange(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if dr.Count == 0 {
		fmt.Fprintln(out, "No scan data available in the database.")
		return nil
	}
	if dr.Earliest == nil || dr.Latest == nil {
		fmt.Fprintf(out, "No dated scans in the database (%d results total).\n", dr.Count)
		return nil
	}
	days := int(dr.Latest.Sub(*dr.Earliest).Hours() / 24)

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Data Range", ""})
	t.AppendRow(table.Row{"Earliest scan", dr.Earliest.Format("2006-01-02")})
	t.AppendRow(table.Row{"Latest scan", dr.Latest.Format("2006-01-02")})
	t.AppendRow(table.Row{"Tracking days", days})
	t.AppendRow(table.Row{"Total scans", dr.Count})
	t.Render()
	return nil
}
