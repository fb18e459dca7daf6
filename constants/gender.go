package constants

import "strings"

// Gender is the canonical gender value stored with a scan result. A scan
// where the printout omits gender is stored as GenderUnknown rather than
// an empty string.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// ParseGender maps free-form extracted text onto the canonical enum.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return GenderMale
	case "female", "f":
		return GenderFemale
	default:
		return GenderUnknown
	}
}
