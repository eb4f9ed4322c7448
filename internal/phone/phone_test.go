package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare national", "9876543210", "+919876543210"},
		{"leading zero", "09876543210", "+919876543210"},
		{"bare country code", "919876543210", "+919876543210"},
		{"already normalized", "+919876543210", "+919876543210"},
		{"extra trailing digits", "98765432101234", "+919876543210"},
		{"prefixed with extra digits", "+9198765432109999", "+919876543210"},
		{"spaces and dashes", " 98765 43210 ", "+919876543210"},
		{"parentheses", "(987) 654-3210", "+919876543210"},
		{"empty", "", "+91"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"9876543210",
		"09876543210",
		"919876543210",
		"+919876543210",
		"98765432101234",
		"5876543210",
		"98765",
		"",
		"+91 98-76-54-32-10",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		for _, in := range []string{"9876543210", "09876543210", "919876543210", "+919876543210", "6000000000"} {
			r := Validate(in)
			require.True(t, r.Valid, "input %q: %v", in, r.Err)
			assert.NoError(t, r.Err)
			assert.Regexp(t, `^\+91[6-9]\d{9}$`, r.Normalized)
		}
	})

	t.Run("bad leading digit", func(t *testing.T) {
		r := Validate("+915876543210")
		require.False(t, r.Valid)
		assert.ErrorIs(t, r.Err, ErrBadLeadingDigit)
		assert.Equal(t, "+915876543210", r.Normalized)
	})

	t.Run("too few digits", func(t *testing.T) {
		r := Validate("+9198765432")
		require.False(t, r.Valid)
		assert.ErrorIs(t, r.Err, ErrBadLength)
		assert.Contains(t, r.Err.Error(), "got 8")
	})

	t.Run("empty", func(t *testing.T) {
		r := Validate("")
		require.False(t, r.Valid)
		assert.ErrorIs(t, r.Err, ErrBadLength)
	})

	t.Run("truncation keeps number valid", func(t *testing.T) {
		r := Validate("98765432101234")
		require.True(t, r.Valid)
		assert.Equal(t, "+919876543210", r.Normalized)
	})
}
