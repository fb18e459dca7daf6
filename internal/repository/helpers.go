package repository

import (
	"database/sql"
	"time"
)

// dateTimeLayout is the canonical text encoding for datetime columns.
// Lexicographic order on this layout matches chronological order, which
// the scan_date range filters rely on.
const dateTimeLayout = "2006-01-02 15:04:05"

func nullFloat64(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func float64Ptr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullInt64FromInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullStringFromPtr(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	v := n.String
	return &v
}

func nullDateTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(dateTimeLayout), Valid: true}
}

func dateTimePtr(n sql.NullString) *time.Time {
	if !n.Valid {
		return nil
	}
	ts, err := time.ParseInLocation(dateTimeLayout, n.String, time.UTC)
	if err != nil {
		return nil
	}
	return &ts
}

func formatDateTime(t time.Time) string {
	return t.UTC().Format(dateTimeLayout)
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
