package llm

import "context"

// ScanFields is the raw extraction payload returned by the vision model,
// before unit normalization. Values are reported in the units printed on
// the scan; MeasurementSystem says which system that was. Every field is
// a pointer because any of them can be absent from a given InBody model.
type ScanFields struct {
	ScanDate          *string          `json:"scan_date"` // YYYY-MM-DD HH:MM:SS
	Height            *float64         `json:"height"`
	Weight            *float64         `json:"weight"`
	Age               *float64         `json:"age"`
	Gender            *string          `json:"gender"`
	MuscleMass        *float64         `json:"muscle_mass"`
	BodyFatMass       *float64         `json:"body_fat_mass"`
	BodyFatPercentage *float64         `json:"body_fat_percentage"`
	TotalBodyWater    *float64         `json:"total_body_water"`
	FatFreeMass       *float64         `json:"fat_free_mass"`
	BMI               *float64         `json:"bmi"`
	BMR               *float64         `json:"bmr"`
	VisceralFatLevel  *float64         `json:"visceral_fat_level"`
	PBF               *float64         `json:"pbf"`
	WHR               *float64         `json:"whr"`
	InbodyScore       *float64         `json:"inbody_score"`
	FitnessScore      *float64         `json:"fitness_score"`
	MuscleControl     *float64         `json:"muscle_control"`
	FatControl        *float64         `json:"fat_control"`
	MeasurementSystem *string          `json:"measurement_system"` // metric or imperial
	Segmental         *SegmentalFields `json:"segmental"`
}

// SegmentalFields carries the per-region lean/fat masses exactly as the
// model read them off the segmental analysis section.
type SegmentalFields struct {
	ArmLeftLean  *float64 `json:"arm_left_lean"`
	ArmRightLean *float64 `json:"arm_right_lean"`
	TrunkLean    *float64 `json:"trunk_lean"`
	LegLeftLean  *float64 `json:"leg_left_lean"`
	LegRightLean *float64 `json:"leg_right_lean"`
	ArmLeftFat   *float64 `json:"arm_left_fat"`
	ArmRightFat  *float64 `json:"arm_right_fat"`
	TrunkFat     *float64 `json:"trunk_fat"`
	LegLeftFat   *float64 `json:"leg_left_fat"`
	LegRightFat  *float64 `json:"leg_right_fat"`
}

// ExtractRequest identifies one scan photo to run through extraction.
type ExtractRequest struct {
	FilePath   string
	Filename   string
	FileHash   string
	LocaleHint string
}

// FieldExtractor is the interface the pipeline depends on. The returned
// byte slice is the raw model output, kept for auditing even when the
// call fails after a response was received.
type FieldExtractor interface {
	ExtractScan(ctx context.Context, req ExtractRequest) (ScanFields, []byte /*rawJSON*/, error)
}
