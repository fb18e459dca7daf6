package constants

// BodyPart identifies a region in the segmental lean/fat analysis printed
// on most InBody models.
type BodyPart string

const (
	BodyPartArmLeft  BodyPart = "arm_left"
	BodyPartArmRight BodyPart = "arm_right"
	BodyPartTrunk    BodyPart = "trunk"
	BodyPartLegLeft  BodyPart = "leg_left"
	BodyPartLegRight BodyPart = "leg_right"
)

// BodyParts lists the segmental parts in canonical order.
var BodyParts = []BodyPart{
	BodyPartArmLeft,
	BodyPartArmRight,
	BodyPartTrunk,
	BodyPartLegLeft,
	BodyPartLegRight,
}
