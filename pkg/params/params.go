// Package params decodes the question payload embedded in a form element's
// data-params attribute.
//
// From its first '[' onward the attribute is a JSON array. Slot 0 is the
// question descriptor [id, title, description, typeCode, choiceBlock?].
// choiceBlock[0][1] lists the choices, each itself an array whose slot 0 is
// the label; for scale types choiceBlock[0][3] lists the scale labels. An
// "entry.<digits>" token anywhere in the raw attribute names the submission
// field.
package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/usestring/formpilot-mcp/internal/schema"
	"github.com/usestring/formpilot-mcp/pkg/qtype"
)

// Attribute is the name of the attribute carrying the payload.
const Attribute = "data-params"

// Descriptor slots.
const (
	slotID = iota
	slotTitle
	slotDescription
	slotType
	slotChoiceBlock
)

// NoCode is reported as the type code when slot 3 is not numeric.
const NoCode = -1

// ErrNoPayload means the attribute carries no '[' and so no payload. Layout
// elements look like this; callers should skip them quietly.
var ErrNoPayload = errors.New("params: no payload")

// Kind classifies a DecodeError.
type Kind string

const (
	KindSyntax Kind = "syntax"
	KindShape  Kind = "shape"
)

// DecodeError reports a payload that could not be decoded.
type DecodeError struct {
	Kind    Kind
	Details []string
	Err     error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("params: %s error", e.Kind)
	if len(e.Details) > 0 {
		msg += ": " + strings.Join(e.Details, "; ")
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// payloadSchema checks the slot shapes required before any field is read.
const payloadSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "minItems": 4,
  "prefixItems": [
    {"type": "array", "minItems": 4}
  ]
}`

var payloadValidator = schema.MustCompile("data-params.json", payloadSchema)

var entryPattern = regexp.MustCompile(`entry\.(\d+)`)

// Payload is a decoded and shape-checked attribute.
type Payload struct {
	Descriptor Descriptor
	EntryID    string
}

// Descriptor holds the typed descriptor fields.
type Descriptor struct {
	ID          any
	Title       string
	Description string
	// Code is the numeric type code, NoCode when slot 3 is not a number.
	Code        int
	Choices     []string
	ScaleLabels []any
}

// Category classifies the descriptor's type code.
func (d Descriptor) Category() qtype.Category {
	return qtype.Classify(d.Code)
}

// HasScale reports whether scale labels were present for a scale type.
func (d Descriptor) HasScale() bool {
	return d.ScaleLabels != nil
}

// Parse decodes a raw attribute value. It returns ErrNoPayload when there is
// nothing to decode and a *DecodeError when the payload is malformed.
func Parse(raw string) (*Payload, error) {
	value, err := decodeValue(raw)
	if err != nil {
		return nil, err
	}

	if errs := payloadValidator.Validate(value); errs != nil {
		return nil, &DecodeError{Kind: KindShape, Details: errs}
	}

	outer := value.([]any)
	desc := outer[0].([]any)

	d := Descriptor{
		ID:          desc[slotID],
		Title:       truthyString(desc[slotTitle]),
		Description: truthyString(desc[slotDescription]),
		Code:        typeCode(desc[slotType]),
		Choices:     make([]string, 0),
	}

	if len(desc) > slotChoiceBlock {
		decodeChoiceBlock(&d, desc[slotChoiceBlock])
	}

	p := &Payload{Descriptor: d}
	if id, ok := EntryID(raw); ok {
		p.EntryID = id
	}
	return p, nil
}

// ParseCategory is the reduced decode used at fill time: it only reads the
// type code.
func ParseCategory(raw string) (qtype.Category, error) {
	value, err := decodeValue(raw)
	if err != nil {
		return qtype.Unknown, err
	}
	outer, ok := value.([]any)
	if !ok || len(outer) == 0 {
		return qtype.Unknown, &DecodeError{Kind: KindShape, Details: []string{"payload is not a non-empty array"}}
	}
	desc, ok := outer[0].([]any)
	if !ok || len(desc) <= slotType {
		return qtype.Unknown, &DecodeError{Kind: KindShape, Details: []string{"descriptor has no type slot"}}
	}
	return qtype.Classify(typeCode(desc[slotType])), nil
}

// EntryID extracts the digits of the first "entry.<digits>" token of the
// raw, untruncated attribute.
func EntryID(raw string) (string, bool) {
	m := entryPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// decodeValue truncates at the first '[' and decodes exactly one JSON value.
func decodeValue(raw string) (any, error) {
	start := strings.IndexByte(raw, '[')
	if start < 0 {
		return nil, ErrNoPayload
	}

	dec := json.NewDecoder(strings.NewReader(raw[start:]))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, &DecodeError{Kind: KindSyntax, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &DecodeError{Kind: KindSyntax, Details: []string{"trailing data after payload"}}
	}
	return value, nil
}

// decodeChoiceBlock fills choices and scale labels. An unexpected block shape
// leaves the descriptor without choices rather than failing the question.
func decodeChoiceBlock(d *Descriptor, block any) {
	blocks, ok := block.([]any)
	if !ok || len(blocks) == 0 {
		return
	}
	data, ok := blocks[0].([]any)
	if !ok {
		return
	}

	if len(data) > 1 {
		if list, ok := data[1].([]any); ok {
			for _, choice := range list {
				d.Choices = append(d.Choices, choiceLabel(choice))
			}
		}
	}

	if d.Category().IsScale() && len(data) > 3 && truthy(data[3]) {
		if labels, ok := data[3].([]any); ok {
			d.ScaleLabels = labels
		} else {
			d.ScaleLabels = []any{data[3]}
		}
	}
}

func choiceLabel(choice any) string {
	if arr, ok := choice.([]any); ok {
		if len(arr) > 0 && truthy(arr[0]) {
			return stringify(arr[0])
		}
		return stringify(arr)
	}
	return stringify(choice)
}

// typeCode accepts integral numbers and numeric strings.
func typeCode(v any) int {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i)
		}
		if f, err := val.Float64(); err == nil && f == float64(int(f)) {
			return int(f)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return i
		}
	}
	return NoCode
}

// truthy follows the loose falsiness the renderer's own scripts rely on:
// null, false, "", and 0 are empty.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	}
	return true
}

func truthyString(v any) string {
	if !truthy(v) {
		return ""
	}
	return stringify(v)
}

// stringify renders a decoded value as text. Arrays join their elements with
// commas.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ",")
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}
