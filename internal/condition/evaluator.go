// Package condition evaluates visibility conditions against runtime data.
package condition

import (
	"strings"

	"github.com/venkatesh3007/flexui/internal/schema"
	"github.com/venkatesh3007/flexui/internal/theme"
	"github.com/venkatesh3007/flexui/internal/value"
)

// Evaluator evaluates Condition trees using a resolver for {{...}} lookups.
type Evaluator struct {
	resolver *theme.Resolver
}

// New creates an evaluator over the given resolver.
func New(resolver *theme.Resolver) *Evaluator {
	return &Evaluator{resolver: resolver}
}

// Evaluate returns the condition's boolean result: the self test ANDed with
// the AND group (all must pass) ANDed with the OR group (any must pass).
// Absent groups pass.
func (e *Evaluator) Evaluate(c *schema.Condition) bool {
	if c == nil {
		return true
	}

	if !e.selfTest(c) {
		return false
	}

	for _, sub := range c.And {
		if !e.Evaluate(sub) {
			return false
		}
	}

	if len(c.Or) > 0 {
		anyPassed := false
		for _, sub := range c.Or {
			if e.Evaluate(sub) {
				anyPassed = true
				break
			}
		}
		if !anyPassed {
			return false
		}
	}

	return true
}

// selfTest evaluates the condition's own expression/operator/value triple.
// With no operator it is a plain truthiness test on the resolved expression.
func (e *Evaluator) selfTest(c *schema.Condition) bool {
	left, found := e.resolver.Resolve(c.Expression)
	if c.Operator == "" {
		return found && left.Truthy()
	}
	return applyOperator(c.Operator, left, found, c.Value)
}

// applyOperator applies a comparison operator. Operator names match
// case-sensitively; "GT" or "Contains" never match. Unknown operators
// evaluate to false.
func applyOperator(op string, left value.Value, found bool, right value.Value) bool {
	switch op {
	case "==", "=":
		return looseEqual(left, right)
	case "!=":
		return !looseEqual(left, right)
	case ">":
		l, r, ok := numericPair(left, right)
		return ok && l > r
	case ">=":
		l, r, ok := numericPair(left, right)
		return ok && l >= r
	case "<":
		l, r, ok := numericPair(left, right)
		return ok && l < r
	case "<=":
		l, r, ok := numericPair(left, right)
		return ok && l <= r
	case "contains":
		return contains(left, right)
	case "startswith":
		return strings.HasPrefix(left.String(), right.String())
	case "endswith":
		return strings.HasSuffix(left.String(), right.String())
	case "exists":
		return found && !left.IsNull()
	case "empty":
		return !found || left.Empty()
	case "notempty":
		return found && !left.Empty()
	default:
		return false
	}
}

// looseEqual compares numerically when both sides coerce to numbers,
// structurally when the kinds agree, and by string form otherwise.
func looseEqual(left, right value.Value) bool {
	if l, r, ok := numericPair(left, right); ok {
		return l == r
	}
	if left.Kind() == right.Kind() {
		return left.Equal(right)
	}
	return left.String() == right.String()
}

func numericPair(left, right value.Value) (float64, float64, bool) {
	l, lok := left.NumberLike()
	r, rok := right.NumberLike()
	return l, r, lok && rok
}

// contains is substring membership for strings, element membership for
// lists, and key membership for maps.
func contains(left, right value.Value) bool {
	if s, isStr := left.AsString(); isStr {
		return strings.Contains(s, right.String())
	}
	if items, isList := left.AsList(); isList {
		for _, item := range items {
			if looseEqual(item, right) {
				return true
			}
		}
		return false
	}
	if m, isMap := left.AsMap(); isMap {
		return m.Has(right.String())
	}
	return false
}
