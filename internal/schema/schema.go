// Package schema defines the typed model for server-driven screens: nodes,
// themes, actions, and conditions, plus the parser that turns raw JSON into
// that model. Everything here is pure data; resolution and evaluation live
// in the theme, condition, and render packages.
package schema

import (
	"strings"

	"github.com/venkatesh3007/flexui/internal/value"
)

// Visibility controls whether a node contributes to the render plan.
type Visibility int

const (
	VisibilityVisible Visibility = iota
	VisibilityHidden
	VisibilityGone
)

// String returns the wire name of the visibility state.
func (v Visibility) String() string {
	switch v {
	case VisibilityHidden:
		return "hidden"
	case VisibilityGone:
		return "gone"
	default:
		return "visible"
	}
}

// ParseVisibility maps a wire string to a Visibility.
func ParseVisibility(s string) (Visibility, bool) {
	switch s {
	case "visible", "":
		return VisibilityVisible, true
	case "hidden":
		return VisibilityHidden, true
	case "gone":
		return VisibilityGone, true
	default:
		return VisibilityVisible, false
	}
}

// Node is one element of the declarative UI tree. A Node owns its children
// by value, so the tree is acyclic by construction. Nodes are created once
// at parse time and never mutated.
type Node struct {
	Type       string
	ID         string
	Style      *value.Map
	Props      *value.Map
	Children   []*Node
	Visibility Visibility
	Action     *Action
	Condition  *Condition
}

// Theme is the named design-token bundle a screen resolves references
// against. Lookups miss silently; callers supply fallbacks.
type Theme struct {
	Colors       map[string]string
	Typography   map[string]value.Value
	Spacing      map[string]int
	BorderRadius map[string]int
}

// NewTheme creates an empty theme with all namespaces allocated.
func NewTheme() *Theme {
	return &Theme{
		Colors:       make(map[string]string),
		Typography:   make(map[string]value.Value),
		Spacing:      make(map[string]int),
		BorderRadius: make(map[string]int),
	}
}

// Color returns the named color token.
func (t *Theme) Color(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	c, ok := t.Colors[name]
	return c, ok
}

// TypographyToken returns the named typography token.
func (t *Theme) TypographyToken(name string) (value.Value, bool) {
	if t == nil {
		return value.Null(), false
	}
	v, ok := t.Typography[name]
	return v, ok
}

// SpacingToken returns the named spacing token.
func (t *Theme) SpacingToken(name string) (int, bool) {
	if t == nil {
		return 0, false
	}
	n, ok := t.Spacing[name]
	return n, ok
}

// BorderRadiusToken returns the named border-radius token.
func (t *Theme) BorderRadiusToken(name string) (int, bool) {
	if t == nil {
		return 0, false
	}
	n, ok := t.BorderRadius[name]
	return n, ok
}

// Action is a user-interaction intent carried from a node to a handler.
// Semantic subtypes are keyed by Type; their payload lives in Data.
type Action struct {
	Type string
	Data *value.Map
}

// Built-in action types.
const (
	ActionNavigate = "navigate"
	ActionCallback = "callback"
	ActionOpenURL  = "openUrl"
	ActionDismiss  = "dismiss"
)

// Field returns a payload field as a string, or "" when absent.
func (a *Action) Field(name string) string {
	if a == nil || a.Data == nil {
		return ""
	}
	v, ok := a.Data.Get(name)
	if !ok {
		return ""
	}
	return v.String()
}

// Event returns the embedded event name for callback actions.
func (a *Action) Event() string { return a.Field("event") }

// Validate checks that the required fields for the action's built-in type
// are present and non-blank. Custom types always validate.
func (a *Action) Validate() error {
	if a == nil {
		return nil
	}
	if strings.TrimSpace(a.Type) == "" {
		return &ParseError{Issues: []Issue{{Path: "action.type", Message: "action type must not be blank"}}}
	}
	var missing string
	switch a.Type {
	case ActionNavigate:
		if strings.TrimSpace(a.Field("screen")) == "" {
			missing = "screen"
		}
	case ActionCallback:
		if strings.TrimSpace(a.Field("event")) == "" {
			missing = "event"
		}
	case ActionOpenURL:
		if strings.TrimSpace(a.Field("url")) == "" {
			missing = "url"
		}
	}
	if missing != "" {
		return &ParseError{Issues: []Issue{{
			Path:    "action.data." + missing,
			Message: "required field '" + missing + "' missing for action type '" + a.Type + "'",
		}}}
	}
	return nil
}

// Condition gates a node's inclusion in the render plan. Evaluation is the
// logical AND of the self test, the AND group (all must pass) and the OR
// group (any must pass); absent groups pass. That exact composition is
// load-bearing for server-authored configs and must not be simplified.
type Condition struct {
	Expression string
	Operator   string
	Value      value.Value
	And        []*Condition
	Or         []*Condition
}

// ScreenConfig is a fully parsed screen document.
type ScreenConfig struct {
	Version     string
	ScreenID    string
	Theme       *Theme
	Root        *Node
	Actions     map[string]*Action
	actionOrder []string
}

// ActionNames returns the named actions in document order.
func (c *ScreenConfig) ActionNames() []string { return c.actionOrder }
