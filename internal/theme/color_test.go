package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/venkatesh3007/flexui/internal/value"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#FF0000", Color{0xFF, 0, 0, 0xFF}, true},
		{"FF0000", Color{0xFF, 0, 0, 0xFF}, true},
		{"#F00", Color{0xFF, 0, 0, 0xFF}, true},
		{"#ABC", Color{0xAA, 0xBB, 0xCC, 0xFF}, true},
		{"#11223344", Color{0x11, 0x22, 0x33, 0x44}, true},
		{"#00000000", Color{0, 0, 0, 0}, true},
		{"", Color{}, false},
		{"#GG0000", Color{}, false},
		{"#12345", Color{}, false},
		{"red", Color{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseHexColor(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorHex(t *testing.T) {
	assert.Equal(t, "#FF000080", Color{0xFF, 0, 0, 0x80}.Hex())
}

func TestResolveColor(t *testing.T) {
	r := NewResolver(testTheme(), nil, nil)

	// Theme reference.
	c := r.ResolveColor(value.String("{{colors.primary}}"))
	assert.Equal(t, Color{0x62, 0x00, 0xEE, 0xFF}, c)

	// Bare theme color name resolves one more hop.
	c = r.ResolveColor(value.String("primary"))
	assert.Equal(t, Color{0x62, 0x00, 0xEE, 0xFF}, c)

	// Literal hex.
	c = r.ResolveColor(value.String("#00FF00"))
	assert.Equal(t, Color{0, 0xFF, 0, 0xFF}, c)

	// Invalid falls back to transparent, never errors.
	assert.Equal(t, Transparent, r.ResolveColor(value.String("chartreuse")))
	assert.Equal(t, Transparent, r.ResolveColor(value.String("{{colors.missing}}")))
	assert.Equal(t, Transparent, r.ResolveColor(value.Int(7)))
}

func TestResolveDimension(t *testing.T) {
	r := NewResolver(testTheme(), nil, nil)

	f, ok := r.ResolveDimension(value.Number(12.5))
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)

	f, ok = r.ResolveDimension(value.String("24"))
	assert.True(t, ok)
	assert.Equal(t, 24.0, f)

	f, ok = r.ResolveDimension(value.String("16px"))
	assert.True(t, ok)
	assert.Equal(t, 16.0, f)

	f, ok = r.ResolveDimension(value.String("{{spacing.md}}"))
	assert.True(t, ok)
	assert.Equal(t, 16.0, f)

	// Bare token names hit spacing first, then border radius.
	f, ok = r.ResolveDimension(value.String("md"))
	assert.True(t, ok)
	assert.Equal(t, 16.0, f)

	f, ok = r.ResolveDimension(value.String("card"))
	assert.True(t, ok)
	assert.Equal(t, 8.0, f)

	_, ok = r.ResolveDimension(value.String("wide"))
	assert.False(t, ok)

	_, ok = r.ResolveDimension(value.Bool(true))
	assert.False(t, ok)
}
