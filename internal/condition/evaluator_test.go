package condition

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/venkatesh3007/flexui/internal/schema"
	"github.com/venkatesh3007/flexui/internal/theme"
	"github.com/venkatesh3007/flexui/internal/value"
)

func testEvaluator(dataJSON string) *Evaluator {
	data := value.NewMap()
	if dataJSON != "" {
		v, err := value.Decode([]byte(dataJSON))
		if err != nil {
			panic(err)
		}
		data, _ = v.AsMap()
	}
	return New(theme.NewResolver(nil, data, nil))
}

func cond(expr, op string, val value.Value) *schema.Condition {
	return &schema.Condition{Expression: expr, Operator: op, Value: val}
}

func TestEvaluate_NilConditionPasses(t *testing.T) {
	assert.True(t, testEvaluator("").Evaluate(nil))
}

func TestEvaluate_Truthiness(t *testing.T) {
	e := testEvaluator(`{"flag": true, "off": false, "count": 0, "name": "Ann"}`)

	assert.True(t, e.Evaluate(cond("{{data.flag}}", "", value.Null())))
	assert.False(t, e.Evaluate(cond("{{data.off}}", "", value.Null())))
	assert.False(t, e.Evaluate(cond("{{data.count}}", "", value.Null())))
	assert.True(t, e.Evaluate(cond("{{data.name}}", "", value.Null())))
	assert.False(t, e.Evaluate(cond("{{data.missing}}", "", value.Null())))
	assert.True(t, e.Evaluate(cond("literal", "", value.Null())))
	assert.False(t, e.Evaluate(cond("", "", value.Null())))
}

func TestEvaluate_Operators(t *testing.T) {
	e := testEvaluator(`{
		"count": 5,
		"name": "Annabel",
		"tags": ["a", "b"],
		"meta": {"k": 1},
		"empty": "",
		"zero": 0,
		"nothing": null
	}`)

	tests := []struct {
		name string
		c    *schema.Condition
		want bool
	}{
		{"eq numbers", cond("{{data.count}}", "==", value.Int(5)), true},
		{"eq alias", cond("{{data.count}}", "=", value.Int(5)), true},
		{"eq numeric string", cond("{{data.count}}", "==", value.String("5")), true},
		{"eq strings", cond("{{data.name}}", "==", value.String("Annabel")), true},
		{"neq", cond("{{data.count}}", "!=", value.Int(6)), true},
		{"gt", cond("{{data.count}}", ">", value.Int(4)), true},
		{"gt false", cond("{{data.count}}", ">", value.Int(5)), false},
		{"gte", cond("{{data.count}}", ">=", value.Int(5)), true},
		{"lt", cond("{{data.count}}", "<", value.Int(6)), true},
		{"lte", cond("{{data.count}}", "<=", value.Int(5)), true},
		{"gt non-numeric is false", cond("{{data.name}}", ">", value.Int(1)), false},
		{"contains substring", cond("{{data.name}}", "contains", value.String("nna")), true},
		{"contains list element", cond("{{data.tags}}", "contains", value.String("b")), true},
		{"contains list miss", cond("{{data.tags}}", "contains", value.String("z")), false},
		{"contains map key", cond("{{data.meta}}", "contains", value.String("k")), true},
		{"startswith", cond("{{data.name}}", "startswith", value.String("Ann")), true},
		{"endswith", cond("{{data.name}}", "endswith", value.String("bel")), true},
		{"exists", cond("{{data.count}}", "exists", value.Null()), true},
		{"exists null", cond("{{data.nothing}}", "exists", value.Null()), false},
		{"exists missing", cond("{{data.missing}}", "exists", value.Null()), false},
		{"empty string", cond("{{data.empty}}", "empty", value.Null()), true},
		{"empty missing", cond("{{data.missing}}", "empty", value.Null()), true},
		{"empty zero is not empty", cond("{{data.zero}}", "empty", value.Null()), false},
		{"notempty", cond("{{data.name}}", "notempty", value.Null()), true},
		{"notempty missing", cond("{{data.missing}}", "notempty", value.Null()), false},
		{"unknown operator", cond("{{data.count}}", "between", value.Int(1)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Evaluate(tt.c))
		})
	}
}

func TestEvaluate_OperatorCaseSensitive(t *testing.T) {
	e := testEvaluator(`{"count": 5}`)

	// Uppercase or capitalized operators never match; this is load-bearing
	// for configs that rely on the documented behavior.
	assert.False(t, e.Evaluate(cond("{{data.count}}", "GT", value.Int(1))))
	assert.False(t, e.Evaluate(cond("{{data.count}}", "Contains", value.Int(5))))
	assert.False(t, e.Evaluate(cond("{{data.count}}", "EXISTS", value.Null())))
}

func TestEvaluate_LiteralExpression(t *testing.T) {
	e := testEvaluator("")
	assert.True(t, e.Evaluate(cond("5", ">", value.Int(3))))
	assert.False(t, e.Evaluate(cond("2", ">", value.Int(3))))
}

func TestEvaluate_ThreeWayComposition(t *testing.T) {
	e := testEvaluator(`{"a": 1, "b": 2, "c": 3}`)

	pass := cond("{{data.a}}", "==", value.Int(1))
	fail := cond("{{data.a}}", "==", value.Int(9))

	// self && all(and) && any(or)
	c := cond("{{data.b}}", "==", value.Int(2))
	c.And = []*schema.Condition{pass}
	c.Or = []*schema.Condition{fail, pass}
	assert.True(t, e.Evaluate(c))

	// One failing AND member sinks the whole condition.
	c.And = []*schema.Condition{pass, fail}
	assert.False(t, e.Evaluate(c))

	// An OR group where nothing passes sinks it too.
	c.And = []*schema.Condition{pass}
	c.Or = []*schema.Condition{fail}
	assert.False(t, e.Evaluate(c))

	// A failing self test wins over passing groups.
	c = cond("{{data.b}}", "==", value.Int(99))
	c.And = []*schema.Condition{pass}
	c.Or = []*schema.Condition{pass}
	assert.False(t, e.Evaluate(c))

	// Absent groups pass.
	assert.True(t, e.Evaluate(cond("{{data.c}}", "==", value.Int(3))))
}

func TestEvaluate_CompositionProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	e := testEvaluator("")

	boolCond := func(b bool) *schema.Condition {
		if b {
			return cond("1", "==", value.Int(1))
		}
		return cond("1", "==", value.Int(2))
	}

	properties.Property("evaluate equals selfTest && all(and) && any(or)", prop.ForAll(
		func(self bool, andBits []bool, orBits []bool) bool {
			c := boolCond(self)
			for _, b := range andBits {
				c.And = append(c.And, boolCond(b))
			}
			for _, b := range orBits {
				c.Or = append(c.Or, boolCond(b))
			}

			expected := self
			for _, b := range andBits {
				expected = expected && b
			}
			if len(orBits) > 0 {
				anyOr := false
				for _, b := range orBits {
					anyOr = anyOr || b
				}
				expected = expected && anyOr
			}

			return e.Evaluate(c) == expected
		},
		gen.Bool(),
		gen.SliceOf(gen.Bool()),
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}
