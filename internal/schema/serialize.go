package schema

import (
	"sort"

	"github.com/venkatesh3007/flexui/internal/value"
)

// Serialize renders a ScreenConfig back to JSON. Parsing the output yields
// a config equal to the input (modulo default-filled optional fields), so
// serialize/parse round-trips are stable.
func Serialize(cfg *ScreenConfig) ([]byte, error) {
	doc := value.NewMap()
	doc.Set("version", value.String(cfg.Version))
	doc.Set("screenId", value.String(cfg.ScreenID))
	if cfg.Theme != nil {
		doc.Set("theme", themeValue(cfg.Theme))
	}
	if cfg.Root != nil {
		doc.Set("root", nodeValue(cfg.Root))
	}
	if len(cfg.Actions) > 0 {
		actions := value.NewMap()
		for _, name := range cfg.actionOrder {
			if a, ok := cfg.Actions[name]; ok {
				actions.Set(name, actionValue(a))
			}
		}
		// Actions registered programmatically have no document order.
		var rest []string
		for name := range cfg.Actions {
			if !actions.Has(name) {
				rest = append(rest, name)
			}
		}
		sort.Strings(rest)
		for _, name := range rest {
			actions.Set(name, actionValue(cfg.Actions[name]))
		}
		doc.Set("actions", value.MapValue(actions))
	}
	return value.MapValue(doc).MarshalJSON()
}

func nodeValue(n *Node) value.Value {
	m := value.NewMap()
	m.Set("type", value.String(n.Type))
	if n.ID != "" {
		m.Set("id", value.String(n.ID))
	}
	if n.Style != nil && n.Style.Len() > 0 {
		m.Set("style", value.MapValue(n.Style))
	}
	if n.Props != nil && n.Props.Len() > 0 {
		m.Set("props", value.MapValue(n.Props))
	}
	if n.Visibility != VisibilityVisible {
		m.Set("visibility", value.String(n.Visibility.String()))
	}
	if n.Condition != nil {
		m.Set("condition", conditionValue(n.Condition))
	}
	if n.Action != nil {
		m.Set("action", actionValue(n.Action))
	}
	if len(n.Children) > 0 {
		kids := make([]value.Value, len(n.Children))
		for i, child := range n.Children {
			kids[i] = nodeValue(child)
		}
		m.Set("children", value.List(kids...))
	}
	return value.MapValue(m)
}

func actionValue(a *Action) value.Value {
	m := value.NewMap()
	m.Set("type", value.String(a.Type))
	if a.Data != nil && a.Data.Len() > 0 {
		m.Set("data", value.MapValue(a.Data))
	}
	return value.MapValue(m)
}

func conditionValue(c *Condition) value.Value {
	m := value.NewMap()
	m.Set("if", value.String(c.Expression))
	if c.Operator != "" {
		m.Set("operator", value.String(c.Operator))
	}
	if !c.Value.IsNull() {
		m.Set("value", c.Value)
	}
	if len(c.And) > 0 {
		m.Set("and", conditionList(c.And))
	}
	if len(c.Or) > 0 {
		m.Set("or", conditionList(c.Or))
	}
	return value.MapValue(m)
}

func conditionList(conds []*Condition) value.Value {
	items := make([]value.Value, len(conds))
	for i, c := range conds {
		items[i] = conditionValue(c)
	}
	return value.List(items...)
}

func themeValue(t *Theme) value.Value {
	m := value.NewMap()
	if len(t.Colors) > 0 {
		colors := value.NewMap()
		for _, k := range sortedKeys(t.Colors) {
			colors.Set(k, value.String(t.Colors[k]))
		}
		m.Set("colors", value.MapValue(colors))
	}
	if len(t.Typography) > 0 {
		m.Set("typography", value.MapValue(value.FromStringMap(t.Typography)))
	}
	if len(t.Spacing) > 0 {
		m.Set("spacing", intNamespaceValue(t.Spacing))
	}
	if len(t.BorderRadius) > 0 {
		m.Set("borderRadius", intNamespaceValue(t.BorderRadius))
	}
	return value.MapValue(m)
}

func intNamespaceValue(src map[string]int) value.Value {
	m := value.NewMap()
	for _, k := range sortedKeys(src) {
		m.Set(k, value.Int(src[k]))
	}
	return value.MapValue(m)
}

func sortedKeys[V any](src map[string]V) []string {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
