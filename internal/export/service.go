package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/inbody-tracker/internal/entity"
	"github.com/joseph-ayodele/inbody-tracker/internal/repository"
)

// Service is a tiny façade over the scan store that produces JSON and XLSX exports.
type Service struct {
	store  repository.ScanStore
	logger *slog.Logger
}

func NewService(store repository.ScanStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportJSON writes the stored results (optionally date-filtered) to w as an
// indented JSON array and returns the record count. Absent measurements are
// omitted from the output rather than serialized as zeros.
func (s *Service) ExportJSON(ctx context.Context, w io.Writer, start, end *time.Time) (int, error) {
	recs, err := s.store.GetResults(ctx, start, end)
	if err != nil {
		return 0, err
	}
	if recs == nil {
		recs = []*entity.ScanRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		return 0, fmt.Errorf("encode results: %w", err)
	}
	return len(recs), nil
}

// ExportJSONFile writes the JSON export to a timestamped file under dir and
// returns the path written.
func (s *Service) ExportJSONFile(ctx context.Context, dir string, start, end *time.Time) (string, int, error) {
	began := time.Now()

	path := filepath.Join(dir, fmt.Sprintf("inbody_results_%s.json", time.Now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create export file: %w", err)
	}
	n, err := s.ExportJSON(ctx, f, start, end)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return "", 0, err
	}

	s.logger.Info("export.json.ok",
		"path", path,
		"rows", n,
		"elapsed_ms", time.Since(began).Milliseconds(),
	)
	return path, n, nil
}

// ExportXLSX returns an XLSX workbook (as bytes) of the stored results.
func (s *Service) ExportXLSX(ctx context.Context, start, end *time.Time) ([]byte, error) {
	began := time.Now()

	recs, err := s.store.GetResults(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Scans"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Scan Date",
		"Weight (kg)",
		"Height (cm)",
		"Muscle Mass (kg)",
		"Body Fat Mass (kg)",
		"Body Fat (%)",
		"BMI",
		"BMR (kcal)",
		"Visceral Fat",
		"InBody Score",
		"Fitness Score",
		"Source File",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		if r.ScanDate != nil {
			write(1, r.ScanDate.Format("2006-01-02 15:04"))
		} else {
			write(1, "")
		}
		write(2, cellValue(r.WeightKG))
		write(3, cellValue(r.HeightCM))
		write(4, cellValue(r.MuscleMassKG))
		write(5, cellValue(r.BodyFatMassKG))
		write(6, cellValue(r.BodyFatPercentage))
		write(7, cellValue(r.BMI))
		write(8, cellValue(r.BMRKcal))
		write(9, cellValue(r.VisceralFatLevel))
		write(10, cellValue(r.InbodyScore))
		write(11, cellValue(r.FitnessScore))
		write(12, r.SourceFilename)

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 18) // date
	_ = f.SetColWidth(sheet, "B", "K", 14) // measurements
	_ = f.SetColWidth(sheet, "L", "L", 40) // filename

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(began).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// cellValue keeps absent measurements as empty cells instead of zeros.
func cellValue(p *float64) any {
	if p == nil {
		return ""
	}
	return *p
}
