// Package schema compiles JSON Schema documents and reports validation
// failures as flat, human-readable messages.
package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Validator validates decoded JSON values against a compiled schema.
type Validator struct {
	name   string
	schema *jsonschema.Schema
}

// Compile compiles a schema given as JSON text. name identifies the schema
// in error messages.
func Compile(name, schemaJSON string) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parsing schema %s: %w", name, err)
	}
	return CompileValue(name, doc)
}

// CompileValue compiles a schema that is already decoded into a JSON value.
func CompileValue(name string, doc any) (*Validator, error) {
	compiler := jsonschema.NewCompiler()

	// Add the schema as a resource (doc must be valid json value, not io.Reader)
	if err := compiler.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf("adding schema resource: %w", err)
	}

	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}

	return &Validator{name: name, schema: compiled}, nil
}

// MustCompile is like Compile but panics on error. Use it for schemas that
// are package constants.
func MustCompile(name, schemaJSON string) *Validator {
	v, err := Compile(name, schemaJSON)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate returns nil when value conforms, or the list of violations.
func (v *Validator) Validate(value any) []string {
	err := v.schema.Validate(value)
	if err == nil {
		return nil
	}
	return extractValidationErrors(err)
}

// Name returns the name the schema was compiled under.
func (v *Validator) Name() string {
	return v.name
}

// extractValidationErrors extracts human-readable error messages from a validation error.
func extractValidationErrors(err error) []string {
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return extractDetailedErrors(validationErr)
	}
	return []string{err.Error()}
}

// printer is a default English printer for localized error messages.
var printer = message.NewPrinter(language.English)

// extractDetailedErrors flattens leaf errors, deduplicated per instance path
// and sorted so the output is stable.
func extractDetailedErrors(err *jsonschema.ValidationError) []string {
	errorsByPath := make(map[string][]string)
	collectErrors(err, errorsByPath)

	var result []string
	for path, msgs := range errorsByPath {
		seen := make(map[string]bool)
		for _, msg := range msgs {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			if path != "" {
				result = append(result, fmt.Sprintf("%s: %s", path, msg))
			} else {
				result = append(result, msg)
			}
		}
	}
	sort.Strings(result)
	if len(result) == 0 {
		result = append(result, err.Error())
	}
	return result
}

// collectErrors recursively collects leaf errors (those without causes).
func collectErrors(err *jsonschema.ValidationError, errorsByPath map[string][]string) {
	instancePath := ""
	if len(err.InstanceLocation) > 0 {
		instancePath = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		errMsg := err.ErrorKind.LocalizedString(printer)
		// Skip $ref and schema reference messages - they're not useful errors
		if !strings.HasPrefix(errMsg, "$ref ") && !strings.HasPrefix(errMsg, "doesn't validate with") {
			errorsByPath[instancePath] = append(errorsByPath[instancePath], errMsg)
		}
	}

	for _, cause := range err.Causes {
		collectErrors(cause, errorsByPath)
	}
}
