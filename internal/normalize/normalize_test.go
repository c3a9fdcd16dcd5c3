package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trims whitespace", "  Lanseria Flight School  ", "Lanseria Flight School"},
		{"empty stays empty", "", ""},
		{"whitespace only", "   \t  ", ""},
		{"nan equivalent", "NaN", ""},
		{"none equivalent", "None", ""},
		{"null equivalent", "null", ""},
		{"n/a equivalent", "N/A", ""},
		{"na equivalent", "na", ""},
		{"bare dash", "-", ""},
		{"embedded nan kept", "Nando's Hangar", "Nando's Hangar"},
		{"dash inside value kept", "Cape Town - Airport", "Cape Town - Airport"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty("  NaN "))
	assert.True(t, IsEmpty(""))
	assert.False(t, IsEmpty("x"))
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "ops@skyhigh.co.za", Email("  Ops@SkyHigh.co.za "))
	assert.Equal(t, "", Email("n/a"))
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"basic", "Lanseria Flight School", "lanseria-flight-school"},
		{"punctuation collapses", "Smith & Sons (Pty) Ltd.", "smith-sons-pty-ltd"},
		{"diacritics stripped", "Küssnacht Aéro Club", "kussnacht-aero-club"},
		{"leading and trailing junk", "  --Sky High!!  ", "sky-high"},
		{"digits kept", "Hangar 51", "hangar-51"},
		{"na collapses to empty", "N/A", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "a;b", JoinNonEmpty([]string{" a ", "NaN", "", "b"}, ";"))
	assert.Equal(t, "", JoinNonEmpty(nil, ";"))
}
