// Package theme resolves {{...}} variable references against theme tokens,
// runtime data, and the host-supplied device context, and coerces the
// results into dimensions and colors.
package theme

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/venkatesh3007/flexui/internal/schema"
	"github.com/venkatesh3007/flexui/internal/value"
)

// varPattern matches a single {{ namespace.path }} reference.
var varPattern = regexp.MustCompile(`\{\{\s*([^}]+)\s*\}\}`)

// HostContext carries read-only facts about the host the renderer runs on:
// platform name, screen metrics, app version. The interpreter never computes
// these; the embedding application supplies them once per session.
type HostContext struct {
	Device map[string]value.Value
	Screen map[string]value.Value
	App    map[string]value.Value
}

// Resolver resolves variable references for one render pass. It holds the
// merged theme, the runtime data map, and the host context, all immutable
// for the resolver's lifetime.
type Resolver struct {
	theme *schema.Theme
	data  *value.Map
	host  *HostContext
}

// NewResolver creates a resolver. Any argument may be nil; lookups against
// a nil source simply miss.
func NewResolver(t *schema.Theme, data *value.Map, host *HostContext) *Resolver {
	return &Resolver{theme: t, data: data, host: host}
}

// Resolve resolves a reference string. A whole-string {{...}} reference
// looks up its target and reports a miss without altering the input; a bare
// string with no delimiters passes through unchanged; a string with
// embedded references is interpolated via ReplaceVariables.
func (r *Resolver) Resolve(ref string) (value.Value, bool) {
	trimmed := strings.TrimSpace(ref)
	if m := varPattern.FindStringSubmatch(trimmed); m != nil && m[0] == trimmed {
		return r.lookup(strings.TrimSpace(m[1]))
	}
	if !strings.Contains(ref, "{{") {
		return value.String(ref), true
	}
	return value.String(r.ReplaceVariables(ref)), true
}

// ReplaceVariables substitutes every {{...}} occurrence inside text.
// References that do not resolve are left in place verbatim so the failure
// stays visible downstream.
func (r *Resolver) ReplaceVariables(text string) string {
	return varPattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := varPattern.FindStringSubmatch(match)
		v, ok := r.lookup(strings.TrimSpace(sub[1]))
		if !ok {
			return match
		}
		return v.String()
	})
}

// ResolveValue resolves references recursively through a value: strings go
// through Resolve, lists and maps are rebuilt with resolved members, and
// everything else passes through untouched.
func (r *Resolver) ResolveValue(v value.Value) value.Value {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		resolved, ok := r.Resolve(s)
		if !ok {
			return v
		}
		return resolved
	case value.KindList:
		items, _ := v.AsList()
		out := make([]value.Value, len(items))
		for i, item := range items {
			out[i] = r.ResolveValue(item)
		}
		return value.List(out...)
	case value.KindMap:
		m, _ := v.AsMap()
		out := value.NewMap()
		for _, k := range m.Keys() {
			item, _ := m.Get(k)
			out.Set(k, r.ResolveValue(item))
		}
		return value.MapValue(out)
	default:
		return v
	}
}

// lookup resolves a dotted reference path against its namespace.
func (r *Resolver) lookup(path string) (value.Value, bool) {
	segments := strings.Split(path, ".")
	ns := segments[0]
	rest := segments[1:]

	// theme.colors.primary is an explicit alias for colors.primary.
	if ns == "theme" && len(rest) > 0 {
		ns = rest[0]
		rest = rest[1:]
	}

	switch ns {
	case "colors":
		if len(rest) != 1 || r.theme == nil {
			return value.Null(), false
		}
		c, ok := r.theme.Color(rest[0])
		if !ok {
			return value.Null(), false
		}
		return value.String(c), true

	case "spacing":
		if len(rest) != 1 || r.theme == nil {
			return value.Null(), false
		}
		n, ok := r.theme.SpacingToken(rest[0])
		if !ok {
			return value.Null(), false
		}
		return value.Int(n), true

	case "borderRadius":
		if len(rest) != 1 || r.theme == nil {
			return value.Null(), false
		}
		n, ok := r.theme.BorderRadiusToken(rest[0])
		if !ok {
			return value.Null(), false
		}
		return value.Int(n), true

	case "typography":
		if len(rest) == 0 || r.theme == nil {
			return value.Null(), false
		}
		tok, ok := r.theme.TypographyToken(rest[0])
		if !ok {
			return value.Null(), false
		}
		return traverse(tok, rest[1:])

	case "data":
		if r.data == nil {
			return value.Null(), false
		}
		return traverse(value.MapValue(r.data), rest)

	case "device":
		return hostLookup(r.host.deviceMap(), rest)
	case "screen":
		return hostLookup(r.host.screenMap(), rest)
	case "app":
		return hostLookup(r.host.appMap(), rest)

	default:
		return value.Null(), false
	}
}

func (h *HostContext) deviceMap() map[string]value.Value {
	if h == nil {
		return nil
	}
	return h.Device
}

func (h *HostContext) screenMap() map[string]value.Value {
	if h == nil {
		return nil
	}
	return h.Screen
}

func (h *HostContext) appMap() map[string]value.Value {
	if h == nil {
		return nil
	}
	return h.App
}

func hostLookup(src map[string]value.Value, segments []string) (value.Value, bool) {
	if src == nil || len(segments) == 0 {
		return value.Null(), false
	}
	v, ok := src[segments[0]]
	if !ok {
		return value.Null(), false
	}
	return traverse(v, segments[1:])
}

// traverse walks a dotted path into nested maps and lists. Numeric path
// segments index into lists.
func traverse(v value.Value, segments []string) (value.Value, bool) {
	for _, seg := range segments {
		if m, isMap := v.AsMap(); isMap {
			next, ok := m.Get(seg)
			if !ok {
				return value.Null(), false
			}
			v = next
			continue
		}
		if items, isList := v.AsList(); isList {
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(items) {
				return value.Null(), false
			}
			v = items[idx]
			continue
		}
		return value.Null(), false
	}
	return v, true
}
