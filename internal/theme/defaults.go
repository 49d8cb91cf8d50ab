package theme

import (
	"github.com/venkatesh3007/flexui/internal/schema"
	"github.com/venkatesh3007/flexui/internal/value"
)

// defaultTheme is the process-wide token set every screen theme is merged
// over. It is built once and never mutated afterward; mutation would race
// with concurrent render passes.
var defaultTheme = buildDefaults()

func buildDefaults() *schema.Theme {
	t := schema.NewTheme()

	t.Colors = map[string]string{
		"primary":       "#6200EE",
		"primaryDark":   "#3700B3",
		"secondary":     "#03DAC6",
		"background":    "#FFFFFF",
		"surface":       "#FFFFFF",
		"error":         "#B00020",
		"text":          "#000000",
		"textSecondary": "#666666",
		"onPrimary":     "#FFFFFF",
		"divider":       "#E0E0E0",
		"transparent":   "#00000000",
	}

	t.Spacing = map[string]int{
		"none": 0,
		"xs":   4,
		"sm":   8,
		"md":   16,
		"lg":   24,
		"xl":   32,
		"xxl":  48,
	}

	t.BorderRadius = map[string]int{
		"none": 0,
		"sm":   4,
		"md":   8,
		"lg":   16,
		"pill": 999,
	}

	t.Typography = map[string]value.Value{
		"heading": typo(24, "bold"),
		"title":   typo(20, "semibold"),
		"body":    typo(16, "regular"),
		"caption": typo(12, "regular"),
	}

	return t
}

func typo(size int, weight string) value.Value {
	m := value.NewMap()
	m.Set("fontSize", value.Int(size))
	m.Set("fontWeight", value.String(weight))
	return value.MapValue(m)
}

// Defaults returns the process-wide default theme. Callers must treat the
// result as read-only.
func Defaults() *schema.Theme { return defaultTheme }

// MergeWithDefaults produces a theme where every default token survives
// unless the override supplies the same key. The merge is shallow per
// namespace and override-wins; it never mutates either input, and applying
// it twice yields the same result.
func MergeWithDefaults(override *schema.Theme) *schema.Theme {
	merged := schema.NewTheme()

	for k, v := range defaultTheme.Colors {
		merged.Colors[k] = v
	}
	for k, v := range defaultTheme.Typography {
		merged.Typography[k] = v
	}
	for k, v := range defaultTheme.Spacing {
		merged.Spacing[k] = v
	}
	for k, v := range defaultTheme.BorderRadius {
		merged.BorderRadius[k] = v
	}

	if override != nil {
		for k, v := range override.Colors {
			merged.Colors[k] = v
		}
		for k, v := range override.Typography {
			merged.Typography[k] = v
		}
		for k, v := range override.Spacing {
			merged.Spacing[k] = v
		}
		for k, v := range override.BorderRadius {
			merged.BorderRadius[k] = v
		}
	}

	return merged
}
