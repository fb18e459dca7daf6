package constants_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/inbody-tracker/constants"
)

func TestParseGender(t *testing.T) {
	cases := map[string]constants.Gender{
		"male":     constants.GenderMale,
		"M":        constants.GenderMale,
		" Female ": constants.GenderFemale,
		"f":        constants.GenderFemale,
		"":         constants.GenderUnknown,
		"diverse":  constants.GenderUnknown,
	}
	for input, want := range cases {
		assert.Equal(t, want, constants.ParseGender(input), "input %q", input)
	}
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, "jpg", constants.NormalizeExt(".JPG"))
	assert.Equal(t, "jpeg", constants.NormalizeExt(".jpeg"))
	assert.Equal(t, "png", constants.NormalizeExt("png"))

	_, ok := constants.AllowedExtensions[constants.NormalizeExt(".WEBP")]
	assert.True(t, ok)
	_, ok = constants.AllowedExtensions[constants.NormalizeExt(".pdf")]
	assert.False(t, ok)
}
