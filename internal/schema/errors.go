package schema

import (
	"fmt"
	"strings"
)

// Issue is a single structural problem found while parsing a config,
// located by a dot path into the document (e.g. "root.children[1].type").
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ParseError is a structured error from the config parser. The whole
// document is walked before it is returned, so Issues carries every
// structural problem found, not just the first.
type ParseError struct {
	Issues []Issue
}

func (e *ParseError) Error() string {
	if len(e.Issues) == 1 {
		return "config: " + e.Issues[0].String()
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return fmt.Sprintf("config: %d problems: %s", len(e.Issues), strings.Join(parts, "; "))
}

// errorList accumulates issues during a parse walk.
type errorList struct {
	issues []Issue
}

func (l *errorList) add(path, format string, args ...any) {
	l.issues = append(l.issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (l *errorList) err() error {
	if len(l.issues) == 0 {
		return nil
	}
	return &ParseError{Issues: l.issues}
}

// ValidationError reports JSON Schema violations from ValidateDocument.
// It is advisory; ParseConfig remains the source of truth for structure.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return "config schema: " + strings.Join(parts, "; ")
}
