package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed wireformat.json
var wireformatSchema string

var compileWireformat = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("wireformat.json", strings.NewReader(wireformatSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile("wireformat.json")
})

// ValidateDocument checks a raw document against the published wire-format
// JSON Schema. This is an advisory pre-check for tooling and the /validate
// endpoint; ParseConfig performs its own structural walk and remains the
// source of truth for what the interpreter accepts.
func ValidateDocument(data []byte) error {
	sch, err := compileWireformat()
	if err != nil {
		return fmt.Errorf("compiling wire-format schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &ValidationError{Issues: []Issue{{Path: "$", Message: "invalid JSON: " + err.Error()}}}
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}

	var issues []Issue
	for _, unit := range ve.BasicOutput().Errors {
		if unit.Error == "" || strings.HasPrefix(unit.Error, "doesn't validate with") {
			continue
		}
		issues = append(issues, Issue{Path: instancePath(unit.InstanceLocation), Message: unit.Error})
	}
	if len(issues) == 0 {
		issues = append(issues, Issue{Path: instancePath(ve.InstanceLocation), Message: ve.Message})
	}
	return &ValidationError{Issues: issues}
}

// instancePath converts a JSON pointer ("/root/children/0") to the dot-path
// style the parser reports ("root.children[0]").
func instancePath(pointer string) string {
	if pointer == "" || pointer == "/" {
		return "$"
	}
	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	var sb strings.Builder
	for _, part := range parts {
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		if isDigits(part) {
			sb.WriteString("[" + part + "]")
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(part)
	}
	return sb.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
