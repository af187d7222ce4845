package answers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// Expr is a compiled jq expression that selects the answer array from a
// response body.
type Expr struct {
	source string
	code   *gojq.Code
}

// CompileExpr parses and compiles a jq expression.
func CompileExpr(expression string) (*Expr, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return &Expr{source: expression, code: code}, nil
}

// String returns the expression source.
func (e *Expr) String() string {
	return e.source
}

// Select runs the expression against body and returns its first non-null
// result.
func (e *Expr) Select(body []byte) (any, error) {
	var input any
	if err := json.Unmarshal(body, &input); err != nil {
		return nil, fmt.Errorf("invalid JSON data: %w", err)
	}

	iter := e.code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil, fmt.Errorf("expression %s produced no value", e.source)
		}
		if err, isErr := v.(error); isErr {
			return nil, errors.New(formatJQError(e.source, err))
		}
		if v != nil {
			return v, nil
		}
	}
}

// formatJQError adds a hint for common runtime errors. gojq runtime errors
// are untyped so the hints come from the message text.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return fmt.Sprintf("%s: query halted", label)
		}
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this response)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array)"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}
