package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/invopop/jsonschema"
)

// Answer is a single answer from the answer service: either one string or an
// ordered list of strings for multi-select questions.
type Answer struct {
	values []string
	multi  bool
}

// AnswerSet is aligned to FormDocument.Items by position, not by id:
// element i answers item i.
type AnswerSet []Answer

// Text returns a single-string answer.
func Text(s string) Answer {
	return Answer{values: []string{s}}
}

// List returns a multi-select answer.
func List(items ...string) Answer {
	vals := make([]string, len(items))
	copy(vals, items)
	return Answer{values: vals, multi: true}
}

// IsList reports whether the answer was given as a list.
func (a Answer) IsList() bool {
	return a.multi
}

// String returns the single-string form. List answers return their first
// element, or "" when empty.
func (a Answer) String() string {
	if len(a.values) == 0 {
		return ""
	}
	return a.values[0]
}

// Values returns the answer as a list. A single string yields a list of one.
func (a Answer) Values() []string {
	out := make([]string, len(a.values))
	copy(out, a.values)
	return out
}

// MarshalJSON writes a string or an array of strings.
func (a Answer) MarshalJSON() ([]byte, error) {
	if a.multi {
		vals := a.values
		if vals == nil {
			vals = []string{}
		}
		return json.Marshal(vals)
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts a string, an array, or a scalar. Scalars and array
// elements that are not strings are stringified since the service is loosely
// typed. null is rejected.
func (a *Answer) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := AnswerFromAny(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// JSONSchema describes the string-or-list shape.
func (Answer) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
		},
	}
}

// AnswerFromAny converts a decoded JSON value into an Answer.
func AnswerFromAny(v any) (Answer, error) {
	switch val := v.(type) {
	case []any:
		items := make([]string, 0, len(val))
		for i, item := range val {
			s, err := scalarString(item)
			if err != nil {
				return Answer{}, fmt.Errorf("answer element %d: %w", i, err)
			}
			items = append(items, s)
		}
		return Answer{values: items, multi: true}, nil
	case []string:
		return List(val...), nil
	default:
		s, err := scalarString(v)
		if err != nil {
			return Answer{}, err
		}
		return Text(s), nil
	}
}

// AnswersFromAny converts a decoded JSON array into an AnswerSet.
func AnswersFromAny(items []any) (AnswerSet, error) {
	out := make(AnswerSet, 0, len(items))
	for i, item := range items {
		a, err := AnswerFromAny(item)
		if err != nil {
			return nil, fmt.Errorf("answer %d: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

func scalarString(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", errors.New("answer value is null")
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	default:
		return "", fmt.Errorf("unsupported answer value of type %T", v)
	}
}
