// Package phone canonicalizes Iranian mobile numbers into the 11-digit local form (09XXXXXXXXX).
package phone

import (
	"errors"
	"strings"
	"unicode"
)

// CanonicalLength is the length of a canonical number.
const CanonicalLength = 11

// ErrInvalid is returned when the input cannot be turned into a canonical number.
var ErrInvalid = errors.New("phone: invalid mobile number")

// Normalize maps any accepted representation of a mobile number to its canonical form.
//
// Whitespace and hyphens are removed, localized digits become ASCII, and the
// international prefixes +98, 0098 and a bare 98 on a 12-character input are
// rewritten to a leading 0. Normalizing a canonical number returns it unchanged.
func Normalize(raw string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range raw {
		switch {
		case r == '-' || unicode.IsSpace(r):
			continue
		case (r >= '0' && r <= '9') || r == '+':
			b.WriteRune(r)
		default:
			d, ok := localizedDigit(r)
			if !ok {
				return "", ErrInvalid
			}
			b.WriteRune('0' + d)
		}
	}

	s := b.String()
	switch {
	case strings.HasPrefix(s, "+98"):
		s = "0" + s[3:]
	case strings.HasPrefix(s, "0098"):
		s = "0" + s[4:]
	case strings.HasPrefix(s, "98") && len(s) == CanonicalLength+1:
		s = "0" + s[2:]
	}

	if !IsCanonical(s) {
		return "", ErrInvalid
	}

	return s, nil
}

// IsCanonical reports whether s is exactly 11 ASCII digits starting with 09.
func IsCanonical(s string) bool {
	if len(s) != CanonicalLength || !strings.HasPrefix(s, "09") {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

// Mask hides the middle digits of a canonical number for logs, e.g. 0912***6789.
func Mask(s string) string {
	if len(s) != CanonicalLength {
		return "***"
	}
	return s[:4] + "***" + s[7:]
}

// localizedDigit returns the value of any Unicode decimal digit. Every range
// of unicode.Nd is made of whole blocks of ten starting at that script's zero.
func localizedDigit(r rune) (rune, bool) {
	if !unicode.Is(unicode.Nd, r) {
		return 0, false
	}

	for _, rg := range unicode.Nd.R16 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return (r - lo) % 10, true
		}
	}
	for _, rg := range unicode.Nd.R32 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return (r - lo) % 10, true
		}
	}

	return 0, false
}
