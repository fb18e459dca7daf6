package report

import (
	"math"
	"time"

	"github.com/joseph-ayodele/inbody-tracker/internal/entity"
)

// SummaryStats aggregates progress over a date-ordered set of scan records.
// Every delta is last minus first over the records where that metric is
// present, rounded to one decimal. A nil delta means fewer than two values
// existed, which the report renders as "no data" rather than zero change.
type SummaryStats struct {
	ScanCount int
	FirstDate *time.Time
	LastDate  *time.Time
	SpanDays  int

	WeightDelta *float64
	WeightStart *float64
	WeightEnd   *float64
	WeightMin   *float64
	WeightMax   *float64

	BodyFatDelta *float64
	BodyFatStart *float64
	BodyFatEnd   *float64

	MuscleDelta *float64
	MuscleStart *float64
	MuscleEnd   *float64

	BMIDelta *float64
	BMIStart *float64
	BMIEnd   *float64
}

// Summarize computes summary statistics over records already ordered by
// scan date ascending, the order the store returns them in.
func Summarize(records []*entity.ScanRecord) SummaryStats {
	stats := SummaryStats{ScanCount: len(records)}

	for _, r := range records {
		if r.ScanDate == nil {
			continue
		}
		ts := *r.ScanDate
		if stats.FirstDate == nil {
			first := ts
			stats.FirstDate = &first
		}
		stats.LastDate = &ts
	}
	if stats.FirstDate != nil && stats.LastDate != nil {
		stats.SpanDays = int(stats.LastDate.Sub(*stats.FirstDate).Hours() / 24)
	}

	weight := collect(records, func(r *entity.ScanRecord) *float64 { return r.WeightKG })
	if len(weight) > 0 {
		stats.WeightStart = rounded(weight[0])
		stats.WeightEnd = rounded(weight[len(weight)-1])
		mn, mx := minMax(weight)
		stats.WeightMin = rounded(mn)
		stats.WeightMax = rounded(mx)
	}
	if len(weight) > 1 {
		stats.WeightDelta = rounded(weight[len(weight)-1] - weight[0])
	}

	bodyFat := collect(records, func(r *entity.ScanRecord) *float64 { return r.BodyFatPercentage })
	if len(bodyFat) > 0 {
		stats.BodyFatStart = rounded(bodyFat[0])
		stats.BodyFatEnd = rounded(bodyFat[len(bodyFat)-1])
	}
	if len(bodyFat) > 1 {
		stats.BodyFatDelta = rounded(bodyFat[len(bodyFat)-1] - bodyFat[0])
	}

	muscle := collect(records, func(r *entity.ScanRecord) *float64 { return r.MuscleMassKG })
	if len(muscle) > 0 {
		stats.MuscleStart = rounded(muscle[0])
		stats.MuscleEnd = rounded(muscle[len(muscle)-1])
	}
	if len(muscle) > 1 {
		stats.MuscleDelta = rounded(muscle[len(muscle)-1] - muscle[0])
	}

	bmi := collect(records, func(r *entity.ScanRecord) *float64 { return r.BMI })
	if len(bmi) > 0 {
		stats.BMIStart = rounded(bmi[0])
		stats.BMIEnd = rounded(bmi[len(bmi)-1])
	}
	if len(bmi) > 1 {
		stats.BMIDelta = rounded(bmi[len(bmi)-1] - bmi[0])
	}

	return stats
}

// collect pulls the present values of one metric, preserving record order.
func collect(records []*entity.ScanRecord, get func(*entity.ScanRecord) *float64) []float64 {
	var out []float64
	for _, r := range records {
		if v := get(r); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func minMax(vals []float64) (float64, float64) {
	mn, mx := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	return mn, mx
}

func rounded(v float64) *float64 {
	r := math.Round(v*10) / 10
	return &r
}
