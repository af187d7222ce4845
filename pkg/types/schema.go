package types

import (
	"github.com/invopop/jsonschema"
)

// FormDocumentSchema returns the JSON Schema of the document posted to the
// answer service.
func FormDocumentSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
	}
	s := r.Reflect(&FormDocument{})
	s.Title = "FormDocument"
	s.Description = "Normalized form questions in document order"
	return s
}

// AnswerSetSchema returns the JSON Schema of the answer-service response.
func AnswerSetSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
	}
	s := r.Reflect(AnswerSet{})
	s.Title = "AnswerSet"
	s.Description = "Answers positionally aligned to FormDocument.items"
	return s
}
