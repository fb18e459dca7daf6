package report

import (
	"bytes"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/joseph-ayodele/inbody-tracker/internal/entity"
)

// Report palette.
var (
	colorPrimary   = drawing.ColorFromHex("2E86AB")
	colorSecondary = drawing.ColorFromHex("A23B72")
	colorDark      = drawing.ColorFromHex("2C3E50")
)

// WeightChart renders the weight trend as a PNG. A line needs at least two
// dated points; with fewer the chart returns nil bytes and no error so the
// report simply omits it.
func WeightChart(records []*entity.ScanRecord) ([]byte, error) {
	xs, ys := timeSeries(records, func(r *entity.ScanRecord) *float64 { return r.WeightKG })
	if len(xs) < 2 {
		return nil, nil
	}
	return renderLineChart("Weight Trend", []chart.Series{
		chart.TimeSeries{
			Name:    "Weight (kg)",
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: colorPrimary, StrokeWidth: 2},
		},
	})
}

// CompositionChart renders muscle mass and body fat mass on one plot.
func CompositionChart(records []*entity.ScanRecord) ([]byte, error) {
	mx, my := timeSeries(records, func(r *entity.ScanRecord) *float64 { return r.MuscleMassKG })
	fx, fy := timeSeries(records, func(r *entity.ScanRecord) *float64 { return r.BodyFatMassKG })

	var series []chart.Series
	if len(mx) >= 2 {
		series = append(series, chart.TimeSeries{
			Name:    "Muscle Mass (kg)",
			XValues: mx,
			YValues: my,
			Style:   chart.Style{StrokeColor: colorPrimary, StrokeWidth: 2},
		})
	}
	if len(fx) >= 2 {
		series = append(series, chart.TimeSeries{
			Name:    "Body Fat Mass (kg)",
			XValues: fx,
			YValues: fy,
			Style:   chart.Style{StrokeColor: colorSecondary, StrokeWidth: 2},
		})
	}
	if len(series) == 0 {
		return nil, nil
	}
	return renderLineChart("Body Composition", series)
}

// BMIChart renders the BMI trend.
func BMIChart(records []*entity.ScanRecord) ([]byte, error) {
	xs, ys := timeSeries(records, func(r *entity.ScanRecord) *float64 { return r.BMI })
	if len(xs) < 2 {
		return nil, nil
	}
	return renderLineChart("BMI Trend", []chart.Series{
		chart.TimeSeries{
			Name:    "BMI",
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: colorDark, StrokeWidth: 2},
		},
	})
}

// timeSeries pairs scan dates with one metric, skipping records where
// either side is missing.
func timeSeries(records []*entity.ScanRecord, get func(*entity.ScanRecord) *float64) ([]time.Time, []float64) {
	var xs []time.Time
	var ys []float64
	for _, r := range records {
		v := get(r)
		if r.ScanDate == nil || v == nil {
			continue
		}
		xs = append(xs, *r.ScanDate)
		ys = append(ys, *v)
	}
	return xs, ys
}

func renderLineChart(title string, series []chart.Series) ([]byte, error) {
	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 380,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
