package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCountries(t *testing.T) {
	assert.Len(t, FilterCountries("  "), len(Countries))

	byDial := FilterCountries("+44")
	require.NotEmpty(t, byDial)
	assert.Equal(t, "GB", byDial[0].Code)

	byName := FilterCountries("zeal")
	require.Len(t, byName, 1)
	assert.Equal(t, "NZ", byName[0].Code)
}

func TestCountryLookups(t *testing.T) {
	c, ok := CountryByCode("IT")
	require.True(t, ok)
	assert.Equal(t, "+39", c.DialCode)

	c, ok = CountryByName("united kingdom")
	require.True(t, ok)
	assert.Equal(t, "GB", c.Code)

	_, ok = CountryByCode("XX")
	assert.False(t, ok)
}

func TestIsPhoneValid(t *testing.T) {
	assert.True(t, IsPhoneValid("(555) 123-4567", "US"))
	assert.False(t, IsPhoneValid("(555) 123-45678", "US"))
	assert.True(t, IsPhoneValid("9123 4567", "SG"))
	assert.False(t, IsPhoneValid("9123 45678", "SG"))
	assert.True(t, IsPhoneValid("123456789012345", "IS"))
	assert.False(t, IsPhoneValid("1234567890123456", "IS"))
	assert.Equal(t, "Maximum 8 digits allowed", PhoneValidationMessage("HK"))
}
