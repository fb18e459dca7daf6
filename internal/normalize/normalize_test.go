package normalize_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/inbody-tracker/constants"
	"github.com/joseph-ayodele/inbody-tracker/internal/common"
	"github.com/joseph-ayodele/inbody-tracker/internal/entity"
	"github.com/joseph-ayodele/inbody-tracker/internal/llm"
	"github.com/joseph-ayodele/inbody-tracker/internal/normalize"
)

func fptr(v float64) *float64 { return &v }
func sptr(s string) *string   { return &s }

func TestMetricValuesPassThrough(t *testing.T) {
	fields := llm.ScanFields{
		ScanDate:          sptr("2025-01-15 10:30:00"),
		Height:            fptr(175.0),
		Weight:            fptr(75.8),
		Age:               fptr(34),
		Gender:            sptr("male"),
		MuscleMass:        fptr(34.2),
		BodyFatPercentage: fptr(18.2),
		BMI:               fptr(24.8),
		MeasurementSystem: sptr("metric"),
	}

	rec, err := normalize.ToScanRecord(fields, "hash-1", "scan.jpg", []byte(`{"weight":75.8}`))
	require.NoError(t, err)

	assert.Equal(t, "hash-1", rec.FileHash)
	assert.Equal(t, "scan.jpg", rec.SourceFilename)
	assert.Equal(t, time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC), *rec.ScanDate)
	assert.InDelta(t, 175.0, *rec.HeightCM, 1e-9)
	assert.InDelta(t, 75.8, *rec.WeightKG, 1e-9)
	assert.Equal(t, 34, *rec.Age)
	assert.Equal(t, constants.GenderMale, rec.Gender)
	assert.InDelta(t, 34.2, *rec.MuscleMassKG, 1e-9)
	assert.InDelta(t, 18.2, *rec.BodyFatPercentage, 1e-9)
	assert.InDelta(t, 24.8, *rec.BMI, 1e-9)
	require.NotNil(t, rec.RawText)
	assert.Equal(t, `{"weight":75.8}`, *rec.RawText)
}

func TestImperialConversion(t *testing.T) {
	fields := llm.ScanFields{
		Height:            fptr(68.9),  // inches
		Weight:            fptr(154.3), // pounds
		TotalBodyWater:    fptr(110.2), // pounds of water
		MuscleControl:     fptr(-2.5),  // pounds
		BodyFatPercentage: fptr(18.2),
		BMI:               fptr(24.0),
		MeasurementSystem: sptr("imperial"),
	}

	rec, err := normalize.ToScanRecord(fields, "hash-2", "scan.jpg", nil)
	require.NoError(t, err)

	assert.InDelta(t, 69.9893, *rec.WeightKG, 0.001)
	assert.InDelta(t, 175.006, *rec.HeightCM, 0.001)
	assert.InDelta(t, 49.9859, *rec.TotalBodyWaterL, 0.001)
	assert.InDelta(t, -1.134, *rec.MuscleControlKG, 0.001)
	// Percentages and indexes are unit-free and must not be converted.
	assert.InDelta(t, 18.2, *rec.BodyFatPercentage, 1e-9)
	assert.InDelta(t, 24.0, *rec.BMI, 1e-9)
}

func TestImperialDetectionIsCaseInsensitive(t *testing.T) {
	fields := llm.ScanFields{
		Weight:            fptr(154.3),
		MeasurementSystem: sptr("Imperial"),
	}

	rec, err := normalize.ToScanRecord(fields, "hash-3", "scan.jpg", nil)
	require.NoError(t, err)
	assert.InDelta(t, 69.9893, *rec.WeightKG, 0.001)
}

func TestAbsentFieldsStayNil(t *testing.T) {
	fields := llm.ScanFields{Weight: fptr(75.8)}

	rec, err := normalize.ToScanRecord(fields, "hash-4", "scan.jpg", nil)
	require.NoError(t, err)

	assert.Nil(t, rec.ScanDate)
	assert.Nil(t, rec.HeightCM)
	assert.Nil(t, rec.Age)
	assert.Nil(t, rec.MuscleMassKG)
	assert.Nil(t, rec.BodyFatPercentage)
	assert.Nil(t, rec.BMI)
	assert.Nil(t, rec.VisceralFatLevel)
	assert.Nil(t, rec.Segmental)
	assert.Nil(t, rec.RawText)
	assert.Equal(t, constants.GenderUnknown, rec.Gender)
}

func TestScanDateLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2025-01-15 10:30:00": time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		"2025-01-15T10:30:00": time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		"2025-01-15":          time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		" 2025-01-15 ":        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
	}
	for input, want := range cases {
		t.Run(input, func(t *testing.T) {
			fields := llm.ScanFields{ScanDate: sptr(input), Weight: fptr(75.8)}
			rec, err := normalize.ToScanRecord(fields, "hash-5", "scan.jpg", nil)
			require.NoError(t, err)
			require.NotNil(t, rec.ScanDate)
			assert.Equal(t, want, *rec.ScanDate)
		})
	}
}

func TestScanDateEmptyStringIsAbsent(t *testing.T) {
	fields := llm.ScanFields{ScanDate: sptr("  "), Weight: fptr(75.8)}
	rec, err := normalize.ToScanRecord(fields, "hash-6", "scan.jpg", nil)
	require.NoError(t, err)
	assert.Nil(t, rec.ScanDate)
}

func TestScanDateUnparseable(t *testing.T) {
	fields := llm.ScanFields{ScanDate: sptr("15/01/2025"), Weight: fptr(75.8)}

	rec, err := normalize.ToScanRecord(fields, "hash-7", "scan.jpg", nil)
	require.Error(t, err)
	assert.Nil(t, rec)
	assert.True(t, errors.Is(err, common.ErrValidation))

	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_FAILED", appErr.Code)
}

func TestOutOfRangeValuesRejectedNotClamped(t *testing.T) {
	cases := map[string]llm.ScanFields{
		"weight too high":     {Weight: fptr(1500)},
		"weight negative":     {Weight: fptr(-5)},
		"height too high":     {Weight: fptr(75.8), Height: fptr(350)},
		"body fat over 100":   {Weight: fptr(75.8), BodyFatPercentage: fptr(150)},
		"whr out of range":    {Weight: fptr(75.8), WHR: fptr(5)},
		"visceral fat absurd": {Weight: fptr(75.8), VisceralFatLevel: fptr(90)},
	}
	for name, fields := range cases {
		t.Run(name, func(t *testing.T) {
			rec, err := normalize.ToScanRecord(fields, "hash-8", "scan.jpg", nil)
			require.Error(t, err)
			assert.Nil(t, rec)

			var appErr *common.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, "VALIDATION_FAILED", appErr.Code)
		})
	}
}

func TestGenderMapping(t *testing.T) {
	cases := map[string]constants.Gender{
		"male":    constants.GenderMale,
		"Male":    constants.GenderMale,
		"M":       constants.GenderMale,
		"FEMALE":  constants.GenderFemale,
		"f":       constants.GenderFemale,
		"diverse": constants.GenderUnknown,
	}
	for input, want := range cases {
		fields := llm.ScanFields{Gender: sptr(input), Weight: fptr(75.8)}
		rec, err := normalize.ToScanRecord(fields, "hash-9", "scan.jpg", nil)
		require.NoError(t, err)
		assert.Equal(t, want, rec.Gender, "input %q", input)
	}
}

func TestAgeRoundsToWholeYears(t *testing.T) {
	rec, err := normalize.ToScanRecord(llm.ScanFields{Weight: fptr(75.8), Age: fptr(34.6)}, "h", "s.jpg", nil)
	require.NoError(t, err)
	assert.Equal(t, 35, *rec.Age)

	rec, err = normalize.ToScanRecord(llm.ScanFields{Weight: fptr(75.8), Age: fptr(34.4)}, "h", "s.jpg", nil)
	require.NoError(t, err)
	assert.Equal(t, 34, *rec.Age)
}

func TestSegmentalPartialParts(t *testing.T) {
	fields := llm.ScanFields{
		Weight: fptr(75.8),
		Segmental: &llm.SegmentalFields{
			ArmLeftLean: fptr(3.2),
			TrunkFat:    fptr(8.1),
		},
	}

	rec, err := normalize.ToScanRecord(fields, "hash-10", "scan.jpg", nil)
	require.NoError(t, err)

	want := []entity.SegmentalEntry{
		{Part: constants.BodyPartArmLeft, LeanMassKG: fptr(3.2)},
		{Part: constants.BodyPartTrunk, FatMassKG: fptr(8.1)},
	}
	assert.Equal(t, want, rec.Segmental)
}

func TestSegmentalImperialConversion(t *testing.T) {
	fields := llm.ScanFields{
		Weight:            fptr(154.3),
		MeasurementSystem: sptr("imperial"),
		Segmental:         &llm.SegmentalFields{ArmLeftLean: fptr(7.05)},
	}

	rec, err := normalize.ToScanRecord(fields, "hash-11", "scan.jpg", nil)
	require.NoError(t, err)
	require.Len(t, rec.Segmental, 1)
	assert.InDelta(t, 3.1978, *rec.Segmental[0].LeanMassKG, 0.001)
}
