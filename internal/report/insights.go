package report

import (
	"fmt"
	"math"

	"github.com/joseph-ayodele/inbody-tracker/internal/entity"
)

// AchievementInsights renders human-readable progress statements from the
// date-ordered records. The thresholds separate real change from scale
// noise; metrics with too little data are simply left out.
func AchievementInsights(records []*entity.ScanRecord) []string {
	if len(records) < 2 {
		return []string{"Not enough data to generate insights. Need at least 2 scans."}
	}

	stats := Summarize(records)
	days := stats.SpanDays
	var insights []string

	if stats.WeightDelta != nil {
		delta := *stats.WeightDelta
		switch {
		case delta > 0:
			insights = append(insights, fmt.Sprintf("Weight increased by %.1fkg over %d days", delta, days))
		case delta < -0.5:
			insights = append(insights, fmt.Sprintf("Weight decreased by %.1fkg over %d days", math.Abs(delta), days))
		default:
			insights = append(insights, fmt.Sprintf("Weight remained stable (±%.1fkg) over %d days", math.Abs(delta), days))
		}
	}

	if stats.BodyFatDelta != nil {
		delta := *stats.BodyFatDelta
		if delta < -1 {
			insights = append(insights, fmt.Sprintf("Body fat decreased by %.1f%% - Great progress!", math.Abs(delta)))
		} else if delta > 1 {
			insights = append(insights, fmt.Sprintf("Body fat increased by %.1f%%", delta))
		}
	}

	if stats.MuscleDelta != nil {
		delta := *stats.MuscleDelta
		if delta > 0.5 {
			insights = append(insights, fmt.Sprintf("Muscle mass increased by %.1fkg - Excellent!", delta))
		} else if delta < -0.5 {
			insights = append(insights, fmt.Sprintf("Muscle mass decreased by %.1fkg", math.Abs(delta)))
		}
	}

	if stats.BMIEnd != nil {
		bmi := *stats.BMIEnd
		switch {
		case bmi < 18.5:
			insights = append(insights, "Current BMI indicates underweight")
		case bmi < 25:
			insights = append(insights, "Current BMI is in the healthy range")
		case bmi < 30:
			insights = append(insights, "Current BMI indicates overweight")
		default:
			insights = append(insights, "Current BMI indicates obesity")
		}
	}

	scansPerMonth := float64(stats.ScanCount) / math.Max(1, float64(days)/30)
	if scansPerMonth >= 1 {
		insights = append(insights, fmt.Sprintf("Excellent tracking consistency - %d scans over %d days", stats.ScanCount, days))
	} else if scansPerMonth >= 0.5 {
		insights = append(insights, fmt.Sprintf("Good tracking consistency - %d scans over %d days", stats.ScanCount, days))
	}

	return insights
}
