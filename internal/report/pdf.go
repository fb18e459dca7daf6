package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/joseph-ayodele/inbody-tracker/internal/entity"
)

// DefaultTitle is used when no custom title is given.
const DefaultTitle = "InBody Progress Report"

// Options control report generation.
type Options struct {
	Title      string
	RangeStart *time.Time
	RangeEnd   *time.Time
}

// scanTableLimit caps the detail table so one pathological export does not
// produce a hundred-page report.
const scanTableLimit = 15

// Generate assembles the PDF progress report: header, summary table, trend
// charts, the most recent scans and achievement insights. An empty record
// set still yields a valid document stating that no data was found.
func Generate(records []*entity.ScanRecord, opts Options) ([]byte, error) {
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	stats := Summarize(records)

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(46, 134, 171)
	pdf.CellFormat(0, 14, tr(title), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 6, "Generated on "+time.Now().Format("January 2, 2006"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, tr(rangeLine(stats, opts)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(records) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 8, "No scan data available for the selected range.", "", 1, "C", false, 0, "")
		return output(pdf)
	}

	writeSummaryTable(pdf, tr, stats)
	writeCharts(pdf, records)
	writeScanTable(pdf, tr, records)
	writeInsights(pdf, tr, AchievementInsights(records))

	return output(pdf)
}

func rangeLine(stats SummaryStats, opts Options) string {
	switch {
	case opts.RangeStart != nil && opts.RangeEnd != nil:
		return fmt.Sprintf("Data range: %s to %s",
			opts.RangeStart.Format("2006-01-02"), opts.RangeEnd.Format("2006-01-02"))
	case stats.FirstDate != nil && stats.LastDate != nil:
		return fmt.Sprintf("Data range: %s to %s",
			stats.FirstDate.Format("2006-01-02"), stats.LastDate.Format("2006-01-02"))
	default:
		return "Data range: all recorded scans"
	}
}

func sectionHeader(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(162, 59, 114)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(44, 62, 80)
	pdf.Ln(1)
}

func writeSummaryTable(pdf *fpdf.Fpdf, tr func(string) string, stats SummaryStats) {
	sectionHeader(pdf, "Summary Statistics")

	rows := [][2]string{
		{"Total Scans", strconv.Itoa(stats.ScanCount)},
		{"Tracking Period", fmt.Sprintf("%d days", stats.SpanDays)},
	}
	if stats.WeightDelta != nil {
		rows = append(rows, [2]string{"Weight Change", fmt.Sprintf("%+.1f kg", *stats.WeightDelta)})
	}
	if stats.WeightMin != nil && stats.WeightMax != nil {
		rows = append(rows, [2]string{"Weight Range", fmt.Sprintf("%.1f - %.1f kg", *stats.WeightMin, *stats.WeightMax)})
	}
	if stats.BodyFatDelta != nil {
		rows = append(rows, [2]string{"Body Fat Change", fmt.Sprintf("%+.1f%%", *stats.BodyFatDelta)})
	}
	if stats.MuscleDelta != nil {
		rows = append(rows, [2]string{"Muscle Mass Change", fmt.Sprintf("%+.1f kg", *stats.MuscleDelta)})
	}
	if stats.BMIDelta != nil {
		rows = append(rows, [2]string{"BMI Change", fmt.Sprintf("%+.1f", *stats.BMIDelta)})
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(235, 240, 245)
	for _, row := range rows {
		pdf.CellFormat(70, 7, tr(row[0]), "1", 0, "L", true, 0, "")
		pdf.CellFormat(60, 7, tr(row[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

func writeCharts(pdf *fpdf.Fpdf, records []*entity.ScanRecord) {
	charts := []struct {
		name   string
		render func([]*entity.ScanRecord) ([]byte, error)
	}{
		{"weight-trend", WeightChart},
		{"body-composition", CompositionChart},
		{"bmi-trend", BMIChart},
	}

	shown := false
	for _, c := range charts {
		png, err := c.render(records)
		if err != nil || png == nil {
			continue
		}
		if !shown {
			sectionHeader(pdf, "Progress Charts")
			shown = true
		}
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(c.name, opts, bytes.NewReader(png))
		pdf.ImageOptions(c.name, 15, 0, 180, 76, true, opts, 0, "")
		pdf.Ln(4)
	}
}

func writeScanTable(pdf *fpdf.Fpdf, tr func(string) string, records []*entity.ScanRecord) {
	sectionHeader(pdf, "Recent Scans")

	recent := records
	if len(recent) > scanTableLimit {
		recent = recent[len(recent)-scanTableLimit:]
	}

	headers := []struct {
		label string
		width float64
	}{
		{"Date", 26},
		{"Weight", 22},
		{"Body Fat %", 24},
		{"Muscle", 22},
		{"BMI", 18},
		{"Score", 18},
		{"File", 60},
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(46, 134, 171)
	pdf.SetTextColor(255, 255, 255)
	for _, h := range headers {
		pdf.CellFormat(h.width, 7, h.label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(44, 62, 80)
	pdf.SetFillColor(245, 247, 250)
	fill := false
	for _, r := range recent {
		date := "-"
		if r.ScanDate != nil {
			date = r.ScanDate.Format("2006-01-02")
		}
		score := r.InbodyScore
		if score == nil {
			score = r.FitnessScore
		}

		cells := []string{
			date,
			fmtCell(r.WeightKG),
			fmtCell(r.BodyFatPercentage),
			fmtCell(r.MuscleMassKG),
			fmtCell(r.BMI),
			fmtCell(score),
			truncateName(r.SourceFilename, 34),
		}
		for i, c := range cells {
			pdf.CellFormat(headers[i].width, 6, tr(c), "1", 0, "C", fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}
	pdf.Ln(5)
}

func writeInsights(pdf *fpdf.Fpdf, tr func(string) string, insights []string) {
	if len(insights) == 0 {
		return
	}
	sectionHeader(pdf, "Insights")
	pdf.SetFont("Helvetica", "", 10)
	for _, s := range insights {
		pdf.MultiCell(0, 6, tr("- "+s), "", "L", false)
	}
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	if pdf.Err() {
		return nil, fmt.Errorf("assemble pdf: %w", pdf.Error())
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fmtCell(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', 1, 64)
}

func truncateName(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
