package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumericOTP(t *testing.T) {
	for _, n := range []int{4, 6, 8} {
		code, err := GenerateNumericOTP(n)
		require.NoError(t, err)
		assert.Len(t, code, n)
		assert.True(t, IsNumeric(code))
	}

	_, err := GenerateNumericOTP(3)
	assert.Error(t, err)
	_, err = GenerateNumericOTP(9)
	assert.Error(t, err)
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("123456"))
	assert.False(t, IsNumeric(""))
	assert.False(t, IsNumeric("12a4"))
	assert.False(t, IsNumeric("12 34"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("abc123"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword("123456"), "digits only")
}

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, ComparePassword(hash, "s3cret-pass"))
	assert.False(t, ComparePassword(hash, "wrong-pass"))
}
