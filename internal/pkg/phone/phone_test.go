package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "canonical", raw: "09123456789", want: "09123456789"},
		{name: "spaced", raw: "0912 345 6789", want: "09123456789"},
		{name: "hyphenated", raw: "0912-345-6789", want: "09123456789"},
		{name: "plus prefix", raw: "+989123456789", want: "09123456789"},
		{name: "plus prefix spaced", raw: "+98 912 345 6789", want: "09123456789"},
		{name: "double zero prefix", raw: "00989123456789", want: "09123456789"},
		{name: "bare country code", raw: "989123456789", want: "09123456789"},
		{name: "persian digits", raw: "۰۹۱۲۳۴۵۶۷۸۹", want: "09123456789"},
		{name: "arabic-indic digits", raw: "٠٩١٢٣٤٥٦٧٨٩", want: "09123456789"},
		{name: "bengali digits", raw: "০৯১২৩৪৫৬৭৮৯", want: "09123456789"},
		{name: "thai digits", raw: "๐๙๑๒๓๔๕๖๗๘๙", want: "09123456789"},
		{name: "devanagari digits", raw: "०९१२३४५६७८९", want: "09123456789"},
		{name: "fullwidth digits", raw: "０９１２３４５６７８９", want: "09123456789"},
		{name: "mathematical bold digits", raw: "𝟎𝟗𝟏𝟐𝟑𝟒𝟓𝟔𝟕𝟖𝟗", want: "09123456789"},
		{name: "mixed digits and prefix", raw: "+۹۸ ۹۱۲-۳۴۵-۶۷۸۹", want: "09123456789"},
		{name: "surrounding whitespace", raw: "\t09123456789 \n", want: "09123456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := Normalize(got)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "too short", raw: "0912345678"},
		{name: "too long", raw: "091234567890"},
		{name: "landline", raw: "02112345678"},
		{name: "letters", raw: "0912abc6789"},
		{name: "plus in the middle", raw: "0912+456789"},
		{name: "bare country code wrong length", raw: "98912345678"},
		{name: "foreign country code", raw: "+449123456789"},
		{name: "only separators", raw: " - - "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			require.ErrorIs(t, err, ErrInvalid)
			assert.Empty(t, got)
		})
	}
}

func TestMask(t *testing.T) {
	assert.Equal(t, "0912***6789", Mask("09123456789"))
	assert.Equal(t, "***", Mask("123"))
}
