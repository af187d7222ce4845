package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a tool after checking that the zero value of Out passes
// the output schema the SDK infers for it. Panics if it does not.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema panics when the zero value of T would be rejected by the
// schema inferred from T. The usual cause is a nil slice or map marshaled as
// null where the schema expects an array or object; omitempty or omitzero
// fixes it. Types carrying custom JSON encodings (json.RawMessage, and
// types.Answer whose wire form is a string or an array) are reported too,
// since the inferred schema cannot describe them.
//
// The untyped any output is never checked. Inference failures are left to
// the SDK.
func CheckOutputSchema[T any](toolName string) {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return
	}
	elem := rt
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	if paths := findOpaqueFields(elem, nil, make(map[reflect.Type]bool)); len(paths) > 0 {
		panic(fmt.Sprintf(
			"AddTool %q: output type %s has custom-encoded fields at %s\n"+
				"  the inferred schema does not match their JSON form\n"+
				"  Fix: use any (or []any) and convert to the wire form before returning",
			toolName, elem, strings.Join(paths, ", "),
		))
	}

	schema, err := jsonschema.ForType(elem, &jsonschema.ForOptions{})
	if err != nil {
		return
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return
	}

	data, err := json.Marshal(reflect.Zero(elem).Interface())
	if err != nil {
		return
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return
	}

	if err := resolved.Validate(&v); err != nil {
		panic(fmt.Sprintf(
			"AddTool %q: zero value of output type %s fails schema validation: %v\n"+
				"  JSON: %s\n"+
				"  Fix: add omitempty or omitzero to nil-defaulting slice and map fields",
			toolName, elem, err, data,
		))
	}
}

var (
	rawMessageType = reflect.TypeFor[json.RawMessage]()
	marshalerType  = reflect.TypeFor[json.Marshaler]()
)

// opaque reports types whose JSON form is not their Go shape.
func opaque(t reflect.Type) bool {
	if t == rawMessageType {
		return true
	}
	return t.Kind() == reflect.Struct && t.Implements(marshalerType) && t.NumField() > 0 && !t.Field(0).IsExported()
}

// findOpaqueFields walks t and returns the paths of opaque fields.
func findOpaqueFields(t reflect.Type, path []string, visited map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if opaque(t) {
		return []string{strings.Join(path, ".")}
	}
	if visited[t] {
		return nil
	}
	visited[t] = true
	defer delete(visited, t)

	var found []string
	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			found = append(found, findOpaqueFields(f.Type, append(path, f.Name), visited)...)
		}
	case reflect.Slice, reflect.Array:
		found = append(found, findOpaqueFields(t.Elem(), append(path, "[]"), visited)...)
	case reflect.Map:
		found = append(found, findOpaqueFields(t.Elem(), append(path, "[value]"), visited)...)
	}
	return found
}
