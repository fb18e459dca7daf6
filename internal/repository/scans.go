package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/inbody-tracker/constants"
	"github.com/joseph-ayodele/inbody-tracker/internal/common"
	"github.com/joseph-ayodele/inbody-tracker/internal/entity"
)

// ScanStore persists extraction attempts and their unit-normalized results.
// The two tables share file_hash as the join key: every result row has a
// matching attempt row, written together in one transaction by SaveOutcome.
type ScanStore interface {
	// HasSucceeded reports whether a successful attempt for this hash is
	// already recorded. Failed attempts do not count, so they are retried
	// on the next run without --force.
	HasSucceeded(ctx context.Context, fileHash string) (bool, error)
	// RecordAttempt upserts the audit row for this hash. Last attempt wins.
	RecordAttempt(ctx context.Context, entry *entity.ProcessingEntry) error
	// SaveResult upserts the scan result for this hash, keeping one row
	// per distinct file content.
	SaveResult(ctx context.Context, rec *entity.ScanRecord) error
	// SaveOutcome writes the attempt row and, when rec is non-nil, the
	// result row in a single transaction. Either both land or neither.
	SaveOutcome(ctx context.Context, entry *entity.ProcessingEntry, rec *entity.ScanRecord) error
	// GetResults returns results ordered by scan date ascending with
	// undated rows last. When a bound is given, only rows with a scan
	// date inside the inclusive range are returned.
	GetResults(ctx context.Context, start, end *time.Time) ([]*entity.ScanRecord, error)
	// GetDataRange reports the earliest and latest scan dates on record.
	GetDataRange(ctx context.Context) (*entity.DataRange, error)
	// GetStats reports cumulative attempt and result counts.
	GetStats(ctx context.Context) (*entity.StoreStats, error)
}

type scanStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewScanStore creates a ScanStore backed by the given database handle.
func NewScanStore(db *sql.DB, logger *slog.Logger) ScanStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &scanStore{db: db, logger: logger}
}

// execer is satisfied by both *sql.DB and *sql.Tx so the upsert statements
// can run standalone or inside SaveOutcome's transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const upsertAttemptSQL = `
INSERT INTO processed_images (file_hash, filename, processed_at, success, error_message)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(file_hash) DO UPDATE SET
    filename      = excluded.filename,
    processed_at  = excluded.processed_at,
    success       = excluded.success,
    error_message = excluded.error_message`

const upsertResultSQL = `
INSERT INTO inbody_results (
    file_hash, source_filename, scan_date, height_cm, weight_kg, age, gender,
    muscle_mass_kg, body_fat_mass_kg, body_fat_percentage, total_body_water_l, fat_free_mass_kg,
    bmi, bmr_kcal, visceral_fat_level, pbf, whr, inbody_score, fitness_score,
    muscle_control_kg, fat_control_kg,
    arm_left_lean_kg, arm_right_lean_kg, trunk_lean_kg, leg_left_lean_kg, leg_right_lean_kg,
    arm_left_fat_kg, arm_right_fat_kg, trunk_fat_kg, leg_left_fat_kg, leg_right_fat_kg,
    raw_text
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(file_hash) DO UPDATE SET
    source_filename     = excluded.source_filename,
    scan_date           = excluded.scan_date,
    height_cm           = excluded.height_cm,
    weight_kg           = excluded.weight_kg,
    age                 = excluded.age,
    gender              = excluded.gender,
    muscle_mass_kg      = excluded.muscle_mass_kg,
    body_fat_mass_kg    = excluded.body_fat_mass_kg,
    body_fat_percentage = excluded.body_fat_percentage,
    total_body_water_l  = excluded.total_body_water_l,
    fat_free_mass_kg    = excluded.fat_free_mass_kg,
    bmi                 = excluded.bmi,
    bmr_kcal            = excluded.bmr_kcal,
    visceral_fat_level  = excluded.visceral_fat_level,
    pbf                 = excluded.pbf,
    whr                 = excluded.whr,
    inbody_score        = excluded.inbody_score,
    fitness_score       = excluded.fitness_score,
    muscle_control_kg   = excluded.muscle_control_kg,
    fat_control_kg      = excluded.fat_control_kg,
    arm_left_lean_kg    = excluded.arm_left_lean_kg,
    arm_right_lean_kg   = excluded.arm_right_lean_kg,
    trunk_lean_kg       = excluded.trunk_lean_kg,
    leg_left_lean_kg    = excluded.leg_left_lean_kg,
    leg_right_lean_kg   = excluded.leg_right_lean_kg,
    arm_left_fat_kg     = excluded.arm_left_fat_kg,
    arm_right_fat_kg    = excluded.arm_right_fat_kg,
    trunk_fat_kg        = excluded.trunk_fat_kg,
    leg_left_fat_kg     = excluded.leg_left_fat_kg,
    leg_right_fat_kg    = excluded.leg_right_fat_kg,
    raw_text            = excluded.raw_text`

const selectResultsSQL = `
SELECT file_hash, source_filename, scan_date, height_cm, weight_kg, age, gender,
    muscle_mass_kg, body_fat_mass_kg, body_fat_percentage, total_body_water_l, fat_free_mass_kg,
    bmi, bmr_kcal, visceral_fat_level, pbf, whr, inbody_score, fitness_score,
    muscle_control_kg, fat_control_kg,
    arm_left_lean_kg, arm_right_lean_kg, trunk_lean_kg, leg_left_lean_kg, leg_right_lean_kg,
    arm_left_fat_kg, arm_right_fat_kg, trunk_fat_kg, leg_left_fat_kg, leg_right_fat_kg,
    raw_text, created_at
FROM inbody_results
WHERE 1=1`

func (s *scanStore) HasSucceeded(ctx context.Context, fileHash string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM processed_images WHERE file_hash = ? AND success = 1", fileHash).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, common.NewAppError("DB_READ_FAILED", "query processed image", err)
	}
	return true, nil
}

func (s *scanStore) RecordAttempt(ctx context.Context, entry *entity.ProcessingEntry) error {
	if err := upsertAttempt(ctx, s.db, entry); err != nil {
		s.logger.Error("scan.store.record_attempt_failed", "file_hash", entry.FileHash, "error", err)
		return common.NewAppError("DB_WRITE_FAILED", "record processing attempt", err)
	}
	return nil
}

func (s *scanStore) SaveResult(ctx context.Context, rec *entity.ScanRecord) error {
	if err := upsertResult(ctx, s.db, rec); err != nil {
		s.logger.Error("scan.store.save_result_failed", "file_hash", rec.FileHash, "error", err)
		return common.NewAppError("DB_WRITE_FAILED", "save scan result", err)
	}
	return nil
}

func (s *scanStore) SaveOutcome(ctx context.Context, entry *entity.ProcessingEntry, rec *entity.ScanRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.NewAppError("DB_WRITE_FAILED", "begin transaction", err)
	}
	if err := upsertAttempt(ctx, tx, entry); err != nil {
		s.rollback(tx)
		return common.NewAppError("DB_WRITE_FAILED", "record processing attempt", err)
	}
	if rec != nil {
		if err := upsertResult(ctx, tx, rec); err != nil {
			s.rollback(tx)
			return common.NewAppError("DB_WRITE_FAILED", "save scan result", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return common.NewAppError("DB_WRITE_FAILED", "commit outcome", err)
	}
	s.logger.Debug("scan.store.outcome_saved",
		"file_hash", entry.FileHash, "succeeded", entry.Succeeded, "has_result", rec != nil)
	return nil
}

func (s *scanStore) rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		s.logger.Error("scan.store.rollback_failed", "error", err)
	}
}

func upsertAttempt(ctx context.Context, ex execer, entry *entity.ProcessingEntry) error {
	_, err := ex.ExecContext(ctx, upsertAttemptSQL,
		entry.FileHash,
		entry.SourceFilename,
		formatDateTime(entry.AttemptedAt),
		boolToInt64(entry.Succeeded),
		nullStringFromPtr(entry.ErrorMessage),
	)
	return err
}

func upsertResult(ctx context.Context, ex execer, rec *entity.ScanRecord) error {
	args := []any{
		rec.FileHash,
		rec.SourceFilename,
		nullDateTime(rec.ScanDate),
		nullFloat64(rec.HeightCM),
		nullFloat64(rec.WeightKG),
		nullInt64FromInt(rec.Age),
		string(genderOrUnknown(rec.Gender)),
		nullFloat64(rec.MuscleMassKG),
		nullFloat64(rec.BodyFatMassKG),
		nullFloat64(rec.BodyFatPercentage),
		nullFloat64(rec.TotalBodyWaterL),
		nullFloat64(rec.FatFreeMassKG),
		nullFloat64(rec.BMI),
		nullFloat64(rec.BMRKcal),
		nullFloat64(rec.VisceralFatLevel),
		nullFloat64(rec.PBF),
		nullFloat64(rec.WHR),
		nullFloat64(rec.InbodyScore),
		nullFloat64(rec.FitnessScore),
		nullFloat64(rec.MuscleControlKG),
		nullFloat64(rec.FatControlKG),
	}
	args = append(args, segmentalColumns(rec.Segmental)...)
	args = append(args, nullStringFromPtr(rec.RawText))
	_, err := ex.ExecContext(ctx, upsertResultSQL, args...)
	return err
}

func (s *scanStore) GetResults(ctx context.Context, start, end *time.Time) ([]*entity.ScanRecord, error) {
	query := selectResultsSQL
	var args []any
	if start != nil {
		query += " AND scan_date >= ?"
		args = append(args, formatDateTime(*start))
	}
	if end != nil {
		query += " AND scan_date <= ?"
		args = append(args, formatDateTime(*end))
	}
	query += " ORDER BY scan_date IS NULL, scan_date ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewAppError("DB_READ_FAILED", "query scan results", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []*entity.ScanRecord
	for rows.Next() {
		rec, err := scanResultRow(rows)
		if err != nil {
			return nil, common.NewAppError("DB_READ_FAILED", "scan result row", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError("DB_READ_FAILED", "iterate scan results", err)
	}
	return out, nil
}

func (s *scanStore) GetDataRange(ctx context.Context) (*entity.DataRange, error) {
	var (
		earliest sql.NullString
		latest   sql.NullString
		count    int
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT MIN(scan_date), MAX(scan_date), COUNT(*) FROM inbody_results").
		Scan(&earliest, &latest, &count)
	if err != nil {
		return nil, common.NewAppError("DB_READ_FAILED", "query data range", err)
	}
	return &entity.DataRange{
		Earliest: dateTimePtr(earliest),
		Latest:   dateTimePtr(latest),
		Count:    count,
	}, nil
}

func (s *scanStore) GetStats(ctx context.Context) (*entity.StoreStats, error) {
	stats := &entity.StoreStats{}
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(*),
    COALESCE(SUM(CASE WHEN success = 1 THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0)
FROM processed_images`).
		Scan(&stats.TotalProcessed, &stats.Succeeded, &stats.Failed)
	if err != nil {
		return nil, common.NewAppError("DB_READ_FAILED", "query processing stats", err)
	}
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM inbody_results").Scan(&stats.TotalResults)
	if err != nil {
		return nil, common.NewAppError("DB_READ_FAILED", "query result count", err)
	}
	return stats, nil
}

func scanResultRow(rows *sql.Rows) (*entity.ScanRecord, error) {
	var (
		rec       entity.ScanRecord
		scanDate  sql.NullString
		height    sql.NullFloat64
		weight    sql.NullFloat64
		age       sql.NullInt64
		gender    string
		muscle    sql.NullFloat64
		fatMass   sql.NullFloat64
		fatPct    sql.NullFloat64
		water     sql.NullFloat64
		ffm       sql.NullFloat64
		bmi       sql.NullFloat64
		bmr       sql.NullFloat64
		visceral  sql.NullFloat64
		pbf       sql.NullFloat64
		whr       sql.NullFloat64
		inbody    sql.NullFloat64
		fitness   sql.NullFloat64
		mControl  sql.NullFloat64
		fControl  sql.NullFloat64
		lean      = make([]sql.NullFloat64, len(constants.BodyParts))
		fat       = make([]sql.NullFloat64, len(constants.BodyParts))
		rawText   sql.NullString
		createdAt sql.NullString
	)
	err := rows.Scan(
		&rec.FileHash, &rec.SourceFilename, &scanDate, &height, &weight, &age, &gender,
		&muscle, &fatMass, &fatPct, &water, &ffm,
		&bmi, &bmr, &visceral, &pbf, &whr, &inbody, &fitness,
		&mControl, &fControl,
		&lean[0], &lean[1], &lean[2], &lean[3], &lean[4],
		&fat[0], &fat[1], &fat[2], &fat[3], &fat[4],
		&rawText, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	rec.ScanDate = dateTimePtr(scanDate)
	rec.HeightCM = float64Ptr(height)
	rec.WeightKG = float64Ptr(weight)
	rec.Age = intPtr(age)
	rec.Gender = constants.Gender(gender)
	rec.MuscleMassKG = float64Ptr(muscle)
	rec.BodyFatMassKG = float64Ptr(fatMass)
	rec.BodyFatPercentage = float64Ptr(fatPct)
	rec.TotalBodyWaterL = float64Ptr(water)
	rec.FatFreeMassKG = float64Ptr(ffm)
	rec.BMI = float64Ptr(bmi)
	rec.BMRKcal = float64Ptr(bmr)
	rec.VisceralFatLevel = float64Ptr(visceral)
	rec.PBF = float64Ptr(pbf)
	rec.WHR = float64Ptr(whr)
	rec.InbodyScore = float64Ptr(inbody)
	rec.FitnessScore = float64Ptr(fitness)
	rec.MuscleControlKG = float64Ptr(mControl)
	rec.FatControlKG = float64Ptr(fControl)
	rec.Segmental = segmentalFromColumns(lean, fat)
	rec.RawText = stringPtr(rawText)
	if ts := dateTimePtr(createdAt); ts != nil {
		rec.CreatedAt = *ts
	}
	return &rec, nil
}

// segmentalColumns flattens the segmental slice into the ten mass columns
// in DDL order: all lean masses, then all fat masses.
func segmentalColumns(entries []entity.SegmentalEntry) []any {
	lean := make(map[constants.BodyPart]*float64, len(entries))
	fat := make(map[constants.BodyPart]*float64, len(entries))
	for _, e := range entries {
		lean[e.Part] = e.LeanMassKG
		fat[e.Part] = e.FatMassKG
	}
	cols := make([]any, 0, 2*len(constants.BodyParts))
	for _, part := range constants.BodyParts {
		cols = append(cols, nullFloat64(lean[part]))
	}
	for _, part := range constants.BodyParts {
		cols = append(cols, nullFloat64(fat[part]))
	}
	return cols
}

func segmentalFromColumns(lean, fat []sql.NullFloat64) []entity.SegmentalEntry {
	var out []entity.SegmentalEntry
	for i, part := range constants.BodyParts {
		l := float64Ptr(lean[i])
		f := float64Ptr(fat[i])
		if l == nil && f == nil {
			continue
		}
		out = append(out, entity.SegmentalEntry{Part: part, LeanMassKG: l, FatMassKG: f})
	}
	return out
}

func genderOrUnknown(g constants.Gender) constants.Gender {
	if g == "" {
		return constants.GenderUnknown
	}
	return g
}
