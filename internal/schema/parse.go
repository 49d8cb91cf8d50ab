package schema

import (
	"fmt"
	"strings"

	"github.com/venkatesh3007/flexui/internal/value"
)

// DefaultVersion is assumed when a document omits the version field.
const DefaultVersion = "1.0"

// ParseConfig converts raw JSON into a ScreenConfig. It is a pure function:
// no input can make it panic, and every structural problem in the document
// is collected into a single *ParseError rather than failing on the first.
func ParseConfig(data []byte) (*ScreenConfig, error) {
	doc, err := value.Decode(data)
	if err != nil {
		return nil, &ParseError{Issues: []Issue{{Path: "$", Message: "invalid JSON: " + err.Error()}}}
	}

	root, ok := doc.AsMap()
	if !ok {
		return nil, &ParseError{Issues: []Issue{{Path: "$", Message: "top-level value must be an object, got " + doc.Kind().String()}}}
	}

	errs := &errorList{}
	cfg := &ScreenConfig{Version: DefaultVersion}

	if v, present := root.Get("version"); present {
		if s, isStr := v.AsString(); isStr && strings.TrimSpace(s) != "" {
			cfg.Version = s
		} else {
			errs.add("version", "must be a non-empty string, got %s", v.Kind())
		}
	}

	if v, present := root.Get("screenId"); !present {
		errs.add("screenId", "required field missing")
	} else if s, isStr := v.AsString(); !isStr || strings.TrimSpace(s) == "" {
		errs.add("screenId", "must be a non-blank string")
	} else {
		cfg.ScreenID = s
	}

	if v, present := root.Get("theme"); present {
		cfg.Theme = parseTheme(v, "theme", errs)
	}

	if v, present := root.Get("root"); !present {
		errs.add("root", "required field missing")
	} else {
		cfg.Root = parseNode(v, "root", errs)
	}

	if v, present := root.Get("actions"); present {
		if m, isMap := v.AsMap(); isMap {
			cfg.Actions = make(map[string]*Action, m.Len())
			for _, name := range m.Keys() {
				av, _ := m.Get(name)
				if a := parseAction(av, "actions."+name, errs); a != nil {
					cfg.Actions[name] = a
					cfg.actionOrder = append(cfg.actionOrder, name)
				}
			}
		} else {
			errs.add("actions", "must be an object, got %s", v.Kind())
		}
	}

	if err := errs.err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseNode(v value.Value, path string, errs *errorList) *Node {
	m, ok := v.AsMap()
	if !ok {
		errs.add(path, "node must be an object, got %s", v.Kind())
		return nil
	}

	node := &Node{}

	if t, present := m.Get("type"); !present {
		errs.add(path+".type", "required field missing")
	} else if s, isStr := t.AsString(); !isStr || strings.TrimSpace(s) == "" {
		errs.add(path+".type", "must be a non-blank string")
	} else {
		node.Type = s
	}

	if idv, present := m.Get("id"); present {
		if s, isStr := idv.AsString(); isStr {
			node.ID = s
		} else {
			errs.add(path+".id", "must be a string, got %s", idv.Kind())
		}
	}

	node.Style = parseValueMap(m, "style", path, errs)
	node.Props = parseValueMap(m, "props", path, errs)

	if vv, present := m.Get("visibility"); present {
		s, _ := vv.AsString()
		vis, recognized := ParseVisibility(s)
		if !recognized {
			errs.add(path+".visibility", "unknown visibility %q (want visible, hidden or gone)", vv.String())
		}
		node.Visibility = vis
	}

	if av, present := m.Get("action"); present {
		node.Action = parseAction(av, path+".action", errs)
	}

	if cv, present := m.Get("condition"); present {
		node.Condition = parseCondition(cv, path+".condition", errs)
	}

	if kids, present := m.Get("children"); present {
		list, isList := kids.AsList()
		if !isList {
			errs.add(path+".children", "must be an array, got %s", kids.Kind())
		} else {
			for i, kid := range list {
				if child := parseNode(kid, fmt.Sprintf("%s.children[%d]", path, i), errs); child != nil {
					node.Children = append(node.Children, child)
				}
			}
		}
	}

	return node
}

// parseValueMap extracts an optional object field (style, props) as an
// ordered map.
func parseValueMap(m *value.Map, field, path string, errs *errorList) *value.Map {
	v, present := m.Get(field)
	if !present {
		return nil
	}
	out, ok := v.AsMap()
	if !ok {
		errs.add(path+"."+field, "must be an object, got %s", v.Kind())
		return nil
	}
	return out
}

// parseAction reads an action block. Payload fields may live in a nested
// "data" object or inline next to "type"; inline fields are folded into
// Data with the explicit data block winning on conflicts.
func parseAction(v value.Value, path string, errs *errorList) *Action {
	m, ok := v.AsMap()
	if !ok {
		errs.add(path, "action must be an object, got %s", v.Kind())
		return nil
	}

	a := &Action{Data: value.NewMap()}

	if t, present := m.Get("type"); !present {
		errs.add(path+".type", "required field missing")
	} else if s, isStr := t.AsString(); !isStr || strings.TrimSpace(s) == "" {
		errs.add(path+".type", "must be a non-blank string")
	} else {
		a.Type = s
	}

	for _, k := range m.Keys() {
		if k == "type" || k == "data" {
			continue
		}
		fv, _ := m.Get(k)
		a.Data.Set(k, fv)
	}
	if dv, present := m.Get("data"); present {
		dm, isMap := dv.AsMap()
		if !isMap {
			errs.add(path+".data", "must be an object, got %s", dv.Kind())
		} else {
			for _, k := range dm.Keys() {
				fv, _ := dm.Get(k)
				a.Data.Set(k, fv)
			}
		}
	}

	// Required payload fields per built-in type, checked here so the report
	// carries a precise path.
	switch a.Type {
	case ActionNavigate:
		if strings.TrimSpace(a.Field("screen")) == "" {
			errs.add(path+".data.screen", "required for navigate actions")
		}
	case ActionCallback:
		if strings.TrimSpace(a.Field("event")) == "" {
			errs.add(path+".data.event", "required for callback actions")
		}
	case ActionOpenURL:
		if strings.TrimSpace(a.Field("url")) == "" {
			errs.add(path+".data.url", "required for openUrl actions")
		}
	}

	return a
}

func parseCondition(v value.Value, path string, errs *errorList) *Condition {
	m, ok := v.AsMap()
	if !ok {
		errs.add(path, "condition must be an object, got %s", v.Kind())
		return nil
	}

	c := &Condition{Value: value.Null()}

	expr, present := m.Get("if")
	if !present {
		expr, present = m.Get("expression")
	}
	if !present {
		errs.add(path+".if", "required field missing")
	} else {
		switch expr.Kind() {
		case value.KindString, value.KindNumber, value.KindBool:
			c.Expression = expr.String()
		default:
			errs.add(path+".if", "must be a scalar, got %s", expr.Kind())
		}
	}

	if op, opPresent := m.Get("operator"); opPresent {
		if s, isStr := op.AsString(); isStr {
			c.Operator = s
		} else {
			errs.add(path+".operator", "must be a string, got %s", op.Kind())
		}
	}

	if val, valPresent := m.Get("value"); valPresent {
		c.Value = val
	}

	for _, group := range []string{"and", "or"} {
		gv, gPresent := m.Get(group)
		if !gPresent {
			continue
		}
		list, isList := gv.AsList()
		if !isList {
			errs.add(path+"."+group, "must be an array, got %s", gv.Kind())
			continue
		}
		for i, item := range list {
			child := parseCondition(item, fmt.Sprintf("%s.%s[%d]", path, group, i), errs)
			if child == nil {
				continue
			}
			if group == "and" {
				c.And = append(c.And, child)
			} else {
				c.Or = append(c.Or, child)
			}
		}
	}

	return c
}

func parseTheme(v value.Value, path string, errs *errorList) *Theme {
	m, ok := v.AsMap()
	if !ok {
		errs.add(path, "theme must be an object, got %s", v.Kind())
		return nil
	}

	t := NewTheme()

	if cv, present := m.Get("colors"); present {
		if cm, isMap := cv.AsMap(); isMap {
			for _, k := range cm.Keys() {
				item, _ := cm.Get(k)
				if s, isStr := item.AsString(); isStr {
					t.Colors[k] = s
				} else {
					errs.add(path+".colors."+k, "must be a string, got %s", item.Kind())
				}
			}
		} else {
			errs.add(path+".colors", "must be an object, got %s", cv.Kind())
		}
	}

	if tv, present := m.Get("typography"); present {
		if tm, isMap := tv.AsMap(); isMap {
			for _, k := range tm.Keys() {
				item, _ := tm.Get(k)
				t.Typography[k] = item
			}
		} else {
			errs.add(path+".typography", "must be an object, got %s", tv.Kind())
		}
	}

	parseIntNamespace(m, "spacing", path, t.Spacing, errs)
	parseIntNamespace(m, "borderRadius", path, t.BorderRadius, errs)

	return t
}

func parseIntNamespace(m *value.Map, field, path string, dst map[string]int, errs *errorList) {
	v, present := m.Get(field)
	if !present {
		return
	}
	nm, ok := v.AsMap()
	if !ok {
		errs.add(path+"."+field, "must be an object, got %s", v.Kind())
		return
	}
	for _, k := range nm.Keys() {
		item, _ := nm.Get(k)
		if f, numeric := item.NumberLike(); numeric {
			dst[k] = int(f)
		} else {
			errs.add(path+"."+field+"."+k, "must be numeric, got %s", item.Kind())
		}
	}
}
