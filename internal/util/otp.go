package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateNumericOTP returns a zero-padded numeric code of the given
// length, drawn from crypto/rand in a single draw over [0, 10^length).
func GenerateNumericOTP(length int) (string, error) {
	if length < 4 || length > 8 {
		return "", fmt.Errorf("otp length must be 4..8")
	}
	bound := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}

// IsNumeric reports whether s is non-empty and ASCII digits only.
// Unicode digit classes are deliberately excluded: OTP input is 0-9.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
