package entity

import (
	"time"

	"github.com/joseph-ayodele/inbody-tracker/constants"
)

// ScanRecord is the canonical, unit-normalized result of one InBody scan
// photo. FileHash is the SHA-256 of the source file's raw bytes and is the
// identity of the record. Every measurement is a pointer: nil means the
// printout did not show the value, which is distinct from zero.
type ScanRecord struct {
	FileHash          string           `json:"file_hash"`
	SourceFilename    string           `json:"source_filename"`
	ScanDate          *time.Time       `json:"scan_date,omitempty"`
	HeightCM          *float64         `json:"height_cm,omitempty" validate:"omitempty,gt=0,lt=300"`
	WeightKG          *float64         `json:"weight_kg,omitempty" validate:"omitempty,gt=0,lt=700"`
	Age               *int             `json:"age,omitempty" validate:"omitempty,gt=0,lt=150"`
	Gender            constants.Gender `json:"gender" validate:"omitempty,oneof=male female unknown"`
	MuscleMassKG      *float64         `json:"muscle_mass_kg,omitempty" validate:"omitempty,gte=0,lte=200"`
	BodyFatMassKG     *float64         `json:"body_fat_mass_kg,omitempty" validate:"omitempty,gte=0,lte=300"`
	BodyFatPercentage *float64         `json:"body_fat_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	TotalBodyWaterL   *float64         `json:"total_body_water_l,omitempty" validate:"omitempty,gte=0,lte=150"`
	FatFreeMassKG     *float64         `json:"fat_free_mass_kg,omitempty" validate:"omitempty,gte=0,lte=300"`
	BMI               *float64         `json:"bmi,omitempty" validate:"omitempty,gte=0,lte=100"`
	BMRKcal           *float64         `json:"bmr_kcal,omitempty" validate:"omitempty,gte=0,lte=10000"`
	VisceralFatLevel  *float64         `json:"visceral_fat_level,omitempty" validate:"omitempty,gte=0,lte=60"`
	PBF               *float64         `json:"pbf,omitempty" validate:"omitempty,gte=0,lte=100"`
	WHR               *float64         `json:"whr,omitempty" validate:"omitempty,gte=0,lte=3"`
	InbodyScore       *float64         `json:"inbody_score,omitempty" validate:"omitempty,gte=0,lte=200"`
	FitnessScore      *float64         `json:"fitness_score,omitempty" validate:"omitempty,gte=0,lte=200"`
	MuscleControlKG   *float64         `json:"muscle_control_kg,omitempty" validate:"omitempty,gte=-100,lte=100"`
	FatControlKG      *float64         `json:"fat_control_kg,omitempty" validate:"omitempty,gte=-100,lte=100"`
	Segmental         []SegmentalEntry `json:"segmental,omitempty" validate:"omitempty,dive"`
	RawText           *string          `json:"-"`
	CreatedAt         time.Time        `json:"-"`
}

// SegmentalEntry is the lean/fat mass pair for one body region. A part is
// only present when the printout showed at least one of the two masses.
type SegmentalEntry struct {
	Part       constants.BodyPart `json:"part" validate:"required,oneof=arm_left arm_right trunk leg_left leg_right"`
	LeanMassKG *float64           `json:"lean_mass_kg,omitempty" validate:"omitempty,gte=0,lte=100"`
	FatMassKG  *float64           `json:"fat_mass_kg,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// DataRange describes the scan dates currently covered by the store.
// Earliest and Latest are nil when no result carries a scan date.
type DataRange struct {
	Earliest *time.Time `json:"earliest,omitempty"`
	Latest   *time.Time `json:"latest,omitempty"`
	Count    int        `json:"count"`
}
