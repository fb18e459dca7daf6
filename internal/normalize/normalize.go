package normalize

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/joseph-ayodele/inbody-tracker/constants"
	"github.com/joseph-ayodele/inbody-tracker/internal/common"
	"github.com/joseph-ayodele/inbody-tracker/internal/entity"
	"github.com/joseph-ayodele/inbody-tracker/internal/llm"
)

// Unit conversion factors for imperial printouts.
const (
	poundsToKilograms   = 0.45359237
	inchesToCentimeters = 2.54
)

var validate = validator.New()

// ToScanRecord converts raw extracted fields into the canonical metric
// record. Absent fields stay nil; they are never defaulted to zero. Values
// outside physiological bounds make the whole record invalid rather than
// being clamped, so a bad extraction is recorded as a failure instead of
// polluting the store.
func ToScanRecord(fields llm.ScanFields, fileHash, filename string, raw []byte) (*entity.ScanRecord, error) {
	imperial := fields.MeasurementSystem != nil && strings.EqualFold(*fields.MeasurementSystem, "imperial")

	rec := &entity.ScanRecord{
		FileHash:       fileHash,
		SourceFilename: filename,
		Gender:         constants.GenderUnknown,
	}

	if fields.ScanDate != nil && strings.TrimSpace(*fields.ScanDate) != "" {
		ts, err := parseScanDate(strings.TrimSpace(*fields.ScanDate))
		if err != nil {
			return nil, common.NewAppError("VALIDATION_FAILED",
				fmt.Sprintf("unparseable scan_date %q", *fields.ScanDate), common.ErrValidation)
		}
		rec.ScanDate = ts
	}

	rec.HeightCM = length(fields.Height, imperial)
	rec.WeightKG = mass(fields.Weight, imperial)
	rec.Age = wholeNumber(fields.Age)
	if fields.Gender != nil {
		rec.Gender = constants.ParseGender(*fields.Gender)
	}

	rec.MuscleMassKG = mass(fields.MuscleMass, imperial)
	rec.BodyFatMassKG = mass(fields.BodyFatMass, imperial)
	rec.BodyFatPercentage = copyValue(fields.BodyFatPercentage)
	rec.TotalBodyWaterL = volume(fields.TotalBodyWater, imperial)
	rec.FatFreeMassKG = mass(fields.FatFreeMass, imperial)
	rec.BMI = copyValue(fields.BMI)
	rec.BMRKcal = copyValue(fields.BMR)
	rec.VisceralFatLevel = copyValue(fields.VisceralFatLevel)
	rec.PBF = copyValue(fields.PBF)
	rec.WHR = copyValue(fields.WHR)
	rec.InbodyScore = copyValue(fields.InbodyScore)
	rec.FitnessScore = copyValue(fields.FitnessScore)
	rec.MuscleControlKG = mass(fields.MuscleControl, imperial)
	rec.FatControlKG = mass(fields.FatControl, imperial)
	rec.Segmental = segmentalEntries(fields.Segmental, imperial)

	if len(raw) > 0 {
		s := string(raw)
		rec.RawText = &s
	}

	if err := validate.Struct(rec); err != nil {
		return nil, common.NewAppError("VALIDATION_FAILED", "extracted values out of range", err)
	}
	return rec, nil
}

// parseScanDate accepts the instructed ISO layout plus the common
// variants the model actually produces. Date-only values land at
// midnight UTC.
func parseScanDate(s string) (*time.Time, error) {
	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &ts, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date layout: %s", s)
}

func segmentalEntries(seg *llm.SegmentalFields, imperial bool) []entity.SegmentalEntry {
	if seg == nil {
		return nil
	}
	rows := []struct {
		part constants.BodyPart
		lean *float64
		fat  *float64
	}{
		{constants.BodyPartArmLeft, seg.ArmLeftLean, seg.ArmLeftFat},
		{constants.BodyPartArmRight, seg.ArmRightLean, seg.ArmRightFat},
		{constants.BodyPartTrunk, seg.TrunkLean, seg.TrunkFat},
		{constants.BodyPartLegLeft, seg.LegLeftLean, seg.LegLeftFat},
		{constants.BodyPartLegRight, seg.LegRightLean, seg.LegRightFat},
	}

	var out []entity.SegmentalEntry
	for _, r := range rows {
		if r.lean == nil && r.fat == nil {
			continue
		}
		out = append(out, entity.SegmentalEntry{
			Part:       r.part,
			LeanMassKG: mass(r.lean, imperial),
			FatMassKG:  mass(r.fat, imperial),
		})
	}
	return out
}

func mass(p *float64, imperial bool) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	if imperial {
		v *= poundsToKilograms
	}
	return &v
}

func length(p *float64, imperial bool) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	if imperial {
		v *= inchesToCentimeters
	}
	return &v
}

// volume converts total body water. Imperial printouts report it in
// pounds; one liter of body water weighs one kilogram.
func volume(p *float64, imperial bool) *float64 {
	return mass(p, imperial)
}

func copyValue(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func wholeNumber(p *float64) *int {
	if p == nil {
		return nil
	}
	v := int(math.Round(*p))
	return &v
}
