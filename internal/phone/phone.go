// Package phone normalizes and validates Indian mobile numbers.
// The canonical form is +91 followed by exactly 10 digits, first digit 6-9.
package phone

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// CountryPrefix is the dialing prefix every normalized number carries.
	CountryPrefix = "+91"

	countryDigits = "91"
	nationalLen   = 10
)

var (
	ErrBadLength       = errors.New("wrong number of digits")
	ErrBadLeadingDigit = errors.New("mobile numbers start with 6, 7, 8 or 9")
	ErrNotMobile       = errors.New("not a valid mobile number")
)

var (
	mobileRe = regexp.MustCompile(`^\+91[6-9]\d{9}$`)
	junkRe   = regexp.MustCompile(`[^\d+]`)
)

// Normalize converts raw user input to the +91XXXXXXXXXX form.
// Separators are stripped, a leading 0 or a bare/prefixed country code is
// folded into +91, and the national part is truncated to 10 digits.
// Idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	s := junkRe.ReplaceAllString(strings.TrimSpace(raw), "")
	switch {
	case strings.HasPrefix(s, CountryPrefix):
		s = s[len(CountryPrefix):]
	case strings.HasPrefix(s, countryDigits):
		s = s[len(countryDigits):]
	case strings.HasPrefix(s, "0"):
		s = s[1:]
	}
	return CountryPrefix + truncateNational(s)
}

// truncateNational drops any stray '+' and keeps at most 10 digits.
func truncateNational(s string) string {
	s = strings.ReplaceAll(s, "+", "")
	if len(s) > nationalLen {
		s = s[:nationalLen]
	}
	return s
}

// Result is the outcome of Validate: the normalized number plus either
// Valid=true or an error naming the first rule the number broke.
type Result struct {
	Valid      bool
	Normalized string
	Err        error
}

// Validate normalizes raw and checks the result against the Indian mobile
// pattern. The error distinguishes a wrong digit count from a bad leading
// digit so callers can surface a useful message.
func Validate(raw string) Result {
	n := Normalize(raw)
	if mobileRe.MatchString(n) {
		return Result{Valid: true, Normalized: n}
	}

	national := strings.TrimPrefix(n, CountryPrefix)
	var err error
	switch {
	case len(national) != nationalLen:
		err = fmt.Errorf("%w: expected %d digits after %s, got %d",
			ErrBadLength, nationalLen, CountryPrefix, len(national))
	case national[0] < '6' || national[0] > '9':
		err = fmt.Errorf("%w: %q begins with %c", ErrBadLeadingDigit, n, national[0])
	default:
		err = fmt.Errorf("%w: %q", ErrNotMobile, n)
	}
	return Result{Normalized: n, Err: err}
}
