package theme

import (
	"strconv"
	"strings"

	"github.com/venkatesh3007/flexui/internal/value"
)

// ResolveDimension coerces a style value into a numeric dimension. Raw
// numbers pass through; strings resolve variable references, then try a
// plain numeric form (with an optional px/dp suffix), then a spacing or
// border-radius token name.
func (r *Resolver) ResolveDimension(v value.Value) (float64, bool) {
	if n, isNum := v.AsNumber(); isNum {
		return n, true
	}

	s, isStr := v.AsString()
	if !isStr {
		return 0, false
	}

	if resolved, ok := r.Resolve(s); ok {
		if n, isNum := resolved.AsNumber(); isNum {
			return n, true
		}
		if rs, isResolvedStr := resolved.AsString(); isResolvedStr {
			s = rs
		}
	}

	s = strings.TrimSpace(s)
	for _, suffix := range []string{"px", "dp"} {
		s = strings.TrimSuffix(s, suffix)
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return f, true
	}

	if r.theme != nil {
		if n, ok := r.theme.SpacingToken(s); ok {
			return float64(n), true
		}
		if n, ok := r.theme.BorderRadiusToken(s); ok {
			return float64(n), true
		}
	}
	return 0, false
}
