// Package render walks a parsed node tree and emits the fully-resolved
// render plan consumed by a native-view backend.
package render

import (
	"github.com/venkatesh3007/flexui/internal/schema"
	"github.com/venkatesh3007/flexui/internal/theme"
	"github.com/venkatesh3007/flexui/internal/value"
)

// EdgeInsets is a resolved per-side spacing block.
type EdgeInsets struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// ResolvedStyle is a node's style block with every reference replaced by a
// concrete value. No variable syntax survives past this point. Style keys
// the planner does not model land in Extra, resolved but untyped.
type ResolvedStyle struct {
	Width           *float64     `json:"width,omitempty"`
	Height          *float64     `json:"height,omitempty"`
	Padding         EdgeInsets   `json:"padding"`
	Margin          EdgeInsets   `json:"margin"`
	Gap             *float64     `json:"gap,omitempty"`
	BackgroundColor *theme.Color `json:"backgroundColor,omitempty"`
	CornerRadius    *float64     `json:"cornerRadius,omitempty"`
	BorderWidth     *float64     `json:"borderWidth,omitempty"`
	BorderColor     *theme.Color `json:"borderColor,omitempty"`
	Opacity         *float64     `json:"opacity,omitempty"`
	FontSize        *float64     `json:"fontSize,omitempty"`
	FontWeight      string       `json:"fontWeight,omitempty"`
	TextColor       *theme.Color `json:"textColor,omitempty"`
	TextAlign       string       `json:"textAlign,omitempty"`
	Extra           value.Value  `json:"extra,omitempty"`
}

// Entry is one node of the render plan: the node's type, its resolved style
// and props, and the entries of its surviving children.
type Entry struct {
	NodeType      string         `json:"nodeType"`
	ID            string         `json:"id,omitempty"`
	ResolvedStyle ResolvedStyle  `json:"style"`
	ResolvedProps value.Value    `json:"props"`
	Action        *schema.Action `json:"-"`
	Children      []*Entry       `json:"children,omitempty"`
}
