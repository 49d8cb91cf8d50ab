package render

import (
	"fmt"

	"github.com/venkatesh3007/flexui/internal/condition"
	"github.com/venkatesh3007/flexui/internal/schema"
	"github.com/venkatesh3007/flexui/internal/theme"
	"github.com/venkatesh3007/flexui/internal/value"
)

// NodeIssue is a recoverable per-node problem found while planning. The
// affected node is dropped from the plan; its siblings still render.
type NodeIssue struct {
	Path     string `json:"path"`
	NodeType string `json:"nodeType"`
	Message  string `json:"message"`
}

func (i NodeIssue) String() string {
	return fmt.Sprintf("%s (%s): %s", i.Path, i.NodeType, i.Message)
}

// Planner turns node trees into render plans. A nil component registry
// skips the unknown-type check, which offline tooling uses to plan a
// screen without a native backend attached.
type Planner struct {
	components *ComponentRegistry
	host       *theme.HostContext
}

// New creates a planner.
func New(components *ComponentRegistry, host *theme.HostContext) *Planner {
	return &Planner{components: components, host: host}
}

// PlanScreen plans a whole parsed config against the current runtime data.
// The screen theme is merged over the process defaults first. A nil entry
// with no issues means the root itself was hidden or its condition failed.
func (p *Planner) PlanScreen(cfg *schema.ScreenConfig, data *value.Map) (*Entry, []NodeIssue) {
	merged := theme.MergeWithDefaults(cfg.Theme)
	return p.Plan(cfg.Root, merged, data)
}

// Plan plans a single node subtree. Visibility and conditions are evaluated
// against the data supplied for this pass; nothing is cached between
// passes, so re-planning with new data re-decides every gate.
func (p *Planner) Plan(node *schema.Node, th *schema.Theme, data *value.Map) (*Entry, []NodeIssue) {
	resolver := theme.NewResolver(th, data, p.host)
	eval := condition.New(resolver)
	var issues []NodeIssue
	entry := p.plan(node, "root", th, resolver, eval, &issues)
	return entry, issues
}

func (p *Planner) plan(node *schema.Node, path string, th *schema.Theme, resolver *theme.Resolver, eval *condition.Evaluator, issues *[]NodeIssue) *Entry {
	if node == nil {
		return nil
	}
	if node.Visibility == schema.VisibilityHidden || node.Visibility == schema.VisibilityGone {
		return nil
	}
	if !eval.Evaluate(node.Condition) {
		return nil
	}

	if p.components != nil {
		if _, ok := p.components.Resolve(node.Type); !ok {
			*issues = append(*issues, NodeIssue{
				Path:     path,
				NodeType: node.Type,
				Message:  "no component factory registered",
			})
			return nil
		}
	}

	entry := &Entry{
		NodeType:      node.Type,
		ID:            node.ID,
		ResolvedStyle: resolveStyle(node.Style, resolver),
		ResolvedProps: resolveProps(node.Props, resolver),
	}

	if node.Action != nil {
		entry.Action = resolveAction(node.Action, resolver)
	}

	for i, child := range node.Children {
		childPath := fmt.Sprintf("%s.children[%d]", path, i)
		if planned := p.plan(child, childPath, th, resolver, eval, issues); planned != nil {
			entry.Children = append(entry.Children, planned)
		}
	}

	return entry
}

func resolveProps(props *value.Map, resolver *theme.Resolver) value.Value {
	if props == nil {
		return value.MapValue(value.NewMap())
	}
	return resolver.ResolveValue(value.MapValue(props))
}

// resolveAction rewrites an action's payload with references resolved, so
// handlers see concrete values. The action type itself is never templated.
func resolveAction(a *schema.Action, resolver *theme.Resolver) *schema.Action {
	out := &schema.Action{Type: a.Type, Data: value.NewMap()}
	if a.Data != nil {
		for _, k := range a.Data.Keys() {
			v, _ := a.Data.Get(k)
			out.Data.Set(k, resolver.ResolveValue(v))
		}
	}
	return out
}

func resolveStyle(style *value.Map, resolver *theme.Resolver) ResolvedStyle {
	var rs ResolvedStyle
	if style == nil {
		return rs
	}

	extra := value.NewMap()
	for _, key := range style.Keys() {
		raw, _ := style.Get(key)
		switch key {
		case "width":
			rs.Width = dim(resolver, raw)
		case "height":
			rs.Height = dim(resolver, raw)
		case "gap":
			rs.Gap = dim(resolver, raw)
		case "padding":
			if f, ok := resolver.ResolveDimension(raw); ok {
				rs.Padding = EdgeInsets{Top: f, Right: f, Bottom: f, Left: f}
			}
		case "paddingTop":
			setInset(&rs.Padding.Top, resolver, raw)
		case "paddingRight":
			setInset(&rs.Padding.Right, resolver, raw)
		case "paddingBottom":
			setInset(&rs.Padding.Bottom, resolver, raw)
		case "paddingLeft":
			setInset(&rs.Padding.Left, resolver, raw)
		case "margin":
			if f, ok := resolver.ResolveDimension(raw); ok {
				rs.Margin = EdgeInsets{Top: f, Right: f, Bottom: f, Left: f}
			}
		case "marginTop":
			setInset(&rs.Margin.Top, resolver, raw)
		case "marginRight":
			setInset(&rs.Margin.Right, resolver, raw)
		case "marginBottom":
			setInset(&rs.Margin.Bottom, resolver, raw)
		case "marginLeft":
			setInset(&rs.Margin.Left, resolver, raw)
		case "backgroundColor":
			c := resolver.ResolveColor(raw)
			rs.BackgroundColor = &c
		case "borderColor":
			c := resolver.ResolveColor(raw)
			rs.BorderColor = &c
		case "textColor", "color":
			c := resolver.ResolveColor(raw)
			rs.TextColor = &c
		case "borderRadius", "cornerRadius":
			rs.CornerRadius = dim(resolver, raw)
		case "borderWidth":
			rs.BorderWidth = dim(resolver, raw)
		case "opacity":
			rs.Opacity = dim(resolver, raw)
		case "fontSize":
			rs.FontSize = dim(resolver, raw)
		case "fontWeight":
			rs.FontWeight = resolver.ResolveValue(raw).String()
		case "textAlign":
			rs.TextAlign = resolver.ResolveValue(raw).String()
		default:
			extra.Set(key, resolver.ResolveValue(raw))
		}
	}
	if extra.Len() > 0 {
		rs.Extra = value.MapValue(extra)
	}
	return rs
}

func dim(resolver *theme.Resolver, raw value.Value) *float64 {
	f, ok := resolver.ResolveDimension(raw)
	if !ok {
		return nil
	}
	return &f
}

func setInset(dst *float64, resolver *theme.Resolver, raw value.Value) {
	if f, ok := resolver.ResolveDimension(raw); ok {
		*dst = f
	}
}
