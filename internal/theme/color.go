package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/venkatesh3007/flexui/internal/value"
)

// Color is a fully-resolved RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Transparent is the fallback for anything that fails to parse as a color.
var Transparent = Color{}

// Hex renders the color as #RRGGBBAA.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// MarshalText implements encoding.TextMarshaler so resolved styles carry
// colors as hex strings on the wire.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// ParseHexColor parses 3, 6, or 8 digit hex colors with or without a
// leading '#'. Three-digit shorthand expands per CSS rules; six digits get
// full alpha; eight digits are RRGGBBAA.
func ParseHexColor(s string) (Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 3:
		var out Color
		vals := make([]uint8, 3)
		for i := 0; i < 3; i++ {
			n, err := strconv.ParseUint(string(s[i]), 16, 8)
			if err != nil {
				return Transparent, false
			}
			vals[i] = uint8(n)*16 + uint8(n)
		}
		out = Color{R: vals[0], G: vals[1], B: vals[2], A: 0xFF}
		return out, true
	case 6, 8:
		n, err := strconv.ParseUint(s, 16, 64)
		if err != nil {
			return Transparent, false
		}
		if len(s) == 6 {
			return Color{
				R: uint8(n >> 16),
				G: uint8(n >> 8),
				B: uint8(n),
				A: 0xFF,
			}, true
		}
		return Color{
			R: uint8(n >> 24),
			G: uint8(n >> 16),
			B: uint8(n >> 8),
			A: uint8(n),
		}, true
	default:
		return Transparent, false
	}
}

// ResolveColor coerces a style value into a Color. Strings resolve their
// variable references first, then try a theme color name, then hex parsing.
// Anything invalid falls back to fully transparent rather than erroring.
func (r *Resolver) ResolveColor(v value.Value) Color {
	s, isStr := v.AsString()
	if !isStr {
		return Transparent
	}

	resolved, ok := r.Resolve(s)
	if ok {
		if rs, isResolvedStr := resolved.AsString(); isResolvedStr {
			s = rs
		}
	}

	// A bare theme color name ("primary") resolves one more hop.
	if r.theme != nil {
		if named, found := r.theme.Color(s); found {
			s = named
		}
	}

	c, parsed := ParseHexColor(s)
	if !parsed {
		return Transparent
	}
	return c
}
