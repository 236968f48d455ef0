package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksumCharDeterministic(t *testing.T) {
	first := ChecksumChar("09AABCU6223H2Z")
	second := ChecksumChar("09AABCU6223H2Z")
	assert.Equal(t, first, second)
	assert.Equal(t, byte('B'), first)
}

func TestChecksumCharRejectsNonBase36(t *testing.T) {
	assert.Equal(t, byte('?'), ChecksumChar("09aabcu6223h2z"))
}

func TestValidateGSTINValid(t *testing.T) {
	info := ValidateGSTIN(" 09aabcu6223h2zb ")
	require.True(t, info.Valid, "errors: %v", info.Errors)
	assert.Equal(t, "09AABCU6223H2ZB", info.Normalized)
	require.NotNil(t, info.State)
	assert.Equal(t, "09", info.State.Code)
	assert.Equal(t, "Uttar Pradesh", info.State.Name)
	assert.Equal(t, "AABCU6223H", info.PAN)
	assert.Empty(t, info.Errors)
}

func TestValidateGSTINMissing(t *testing.T) {
	info := ValidateGSTIN("")
	assert.False(t, info.Valid)
	assert.Contains(t, info.Errors, "Missing GSTIN")
}

func TestValidateGSTINShapeShortCircuits(t *testing.T) {
	// 14 characters: the structural pre-check fails and no sub-checks run.
	info := ValidateGSTIN("09AABCU6223H2Z")
	assert.False(t, info.Valid)
	require.Len(t, info.Errors, 1)
	assert.Contains(t, info.Errors[0], "15 alphanumeric")
	assert.Nil(t, info.State)
	assert.Empty(t, info.PAN)
}

func TestValidateGSTINChecksumMismatch(t *testing.T) {
	info := ValidateGSTIN("09AABCU6223H2ZA")
	assert.False(t, info.Valid)
	assert.Contains(t, info.Errors, "Checksum mismatch")
	assert.Equal(t, "B", info.ExpectedChecksum)
}

func TestValidateGSTINUnknownState(t *testing.T) {
	info := ValidateGSTIN("99AABCU6223H2ZB")
	assert.False(t, info.Valid)
	assert.Contains(t, info.Errors, "Unknown/invalid state code: 99")
	assert.Nil(t, info.State)
	// Sub-checks past the shape gate are additive: the PAN still resolves.
	assert.Equal(t, "AABCU6223H", info.PAN)
}

func TestValidateGSTINBadPANAndMarker(t *testing.T) {
	info := ValidateGSTIN("09AAB4U6223H2AB")
	assert.False(t, info.Valid)
	assert.Contains(t, info.Errors, "Embedded PAN structure invalid (AAAAA9999A)")
	assert.Contains(t, info.Errors, "14th char must be 'Z'")
}
