package export_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/inbody-tracker/internal/entity"
	"github.com/joseph-ayodele/inbody-tracker/internal/export"
	"github.com/joseph-ayodele/inbody-tracker/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func fptr(v float64) *float64 { return &v }

// newSeededService builds a store holding one dated record with
// measurements and one undated record with almost everything absent.
func newSeededService(t *testing.T) *export.Service {
	t.Helper()
	db, err := repository.OpenDatabase(filepath.Join(t.TempDir(), "test.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store := repository.NewScanStore(db, testLogger())
	ctx := context.Background()

	scanDate := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	require.NoError(t, store.SaveResult(ctx, &entity.ScanRecord{
		FileHash:          "hash-a",
		SourceFilename:    "scan_jan.jpg",
		ScanDate:          &scanDate,
		HeightCM:          fptr(175.0),
		WeightKG:          fptr(75.8),
		BodyFatPercentage: fptr(18.2),
	}))
	require.NoError(t, store.SaveResult(ctx, &entity.ScanRecord{
		FileHash:       "hash-b",
		SourceFilename: "minimal.jpg",
	}))

	return export.NewService(store, testLogger())
}

func TestExportJSONShape(t *testing.T) {
	svc := newSeededService(t)

	var buf bytes.Buffer
	n, err := svc.ExportJSON(context.Background(), &buf, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	dated := got[0]
	assert.Equal(t, "hash-a", dated["file_hash"])
	assert.Equal(t, "scan_jan.jpg", dated["source_filename"])
	assert.Equal(t, "2025-01-15T10:30:00Z", dated["scan_date"])
	assert.InDelta(t, 75.8, dated["weight_kg"].(float64), 1e-9)
	assert.Equal(t, "unknown", dated["gender"])

	// Absent measurements are omitted, never serialized as zero.
	minimal := got[1]
	assert.Equal(t, "hash-b", minimal["file_hash"])
	_, hasDate := minimal["scan_date"]
	assert.False(t, hasDate)
	_, hasWeight := minimal["weight_kg"]
	assert.False(t, hasWeight)
	_, hasHeight := minimal["height_cm"]
	assert.False(t, hasHeight)
}

func TestExportJSONEmptyStore(t *testing.T) {
	db, err := repository.OpenDatabase(filepath.Join(t.TempDir(), "test.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	svc := export.NewService(repository.NewScanStore(db, testLogger()), testLogger())

	var buf bytes.Buffer
	n, err := svc.ExportJSON(context.Background(), &buf, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestExportJSONFile(t *testing.T) {
	svc := newSeededService(t)
	dir := t.TempDir()

	path, n, err := svc.ExportJSONFile(context.Background(), dir, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "inbody_results_"))
	assert.True(t, strings.HasSuffix(path, ".json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Len(t, got, 2)
}

func TestExportXLSX(t *testing.T) {
	svc := newSeededService(t)

	b, err := svc.ExportXLSX(context.Background(), nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, b)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	mustCell := func(cell string) string {
		v, err := f.GetCellValue("Scans", cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Scan Date", mustCell("A1"))
	assert.Equal(t, "Weight (kg)", mustCell("B1"))
	assert.Equal(t, "Source File", mustCell("L1"))

	assert.Equal(t, "2025-01-15 10:30", mustCell("A2"))
	assert.Equal(t, "75.8", mustCell("B2"))
	assert.Equal(t, "scan_jan.jpg", mustCell("L2"))

	// Undated row sorts last; its absent measurements stay blank.
	assert.Equal(t, "", mustCell("A3"))
	assert.Equal(t, "", mustCell("B3"))
	assert.Equal(t, "minimal.jpg", mustCell("L3"))
}

func TestExportXLSXDateFilter(t *testing.T) {
	svc := newSeededService(t)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b, err := svc.ExportXLSX(context.Background(), &start, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	v, err := f.GetCellValue("Scans", "L2")
	require.NoError(t, err)
	assert.Equal(t, "scan_jan.jpg", v)

	v, err = f.GetCellValue("Scans", "L3")
	require.NoError(t, err)
	assert.Equal(t, "", v, "undated rows are excluded by a date filter")
}
